package controller

import (
	"fmt"
	"strconv"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/platform/aws"
	"github.com/homelab-infra/unifictl/internal/util/naming"
)

// Environment returns the container environment: the image's identity and
// JVM memory settings, overridden by the configured extras.
func Environment(ctl config.ControllerConfig) map[string]string {
	env := map[string]string{
		"PUID":        containerUID,
		"PGID":        containerGID,
		"MEM_LIMIT":   strconv.Itoa(ctl.Memory),
		"MEM_STARTUP": memStartup,
	}
	for k, v := range ctl.Environment {
		env[k] = v
	}
	return env
}

// PortMappings returns the container ports published by the task.
func PortMappings(informPort bool) []aws.PortMapping {
	ports := []aws.PortMapping{
		{ContainerPort: config.WebAdminPort, Protocol: "tcp"},
		{ContainerPort: config.GuestPortalPort, Protocol: "tcp"},
		{ContainerPort: config.STUNPort, Protocol: "udp"},
	}
	if informPort {
		ports = append(ports, aws.PortMapping{ContainerPort: config.InformPort, Protocol: "tcp"})
	}
	return ports
}

// TaskDefinition builds the Fargate task definition for the controller.
// The task size is the smallest Fargate size fitting the container.
func TaskDefinition(cfg *config.Config, executionRoleARN string, volume *aws.EFSVolume) (aws.TaskDefinitionOpts, error) {
	ctl := cfg.Controller
	taskCPU, taskMemory, err := config.FargateTaskSize(ctl.CPU, ctl.Memory)
	if err != nil {
		return aws.TaskDefinitionOpts{}, fmt.Errorf("controller task size: %w", err)
	}

	return aws.TaskDefinitionOpts{
		Family:           naming.TaskFamily(naming.Controller(cfg.Stack)),
		ContainerName:    ContainerName,
		Image:            ctl.ImageRef(),
		TaskCPU:          taskCPU,
		TaskMemory:       taskMemory,
		ContainerCPU:     ctl.CPU,
		ContainerMemory:  ctl.Memory,
		Environment:      Environment(ctl),
		PortMappings:     PortMappings(ctl.InformPortEnabled()),
		ExecutionRoleARN: executionRoleARN,
		LogGroup:         naming.LogGroup(cfg.Stack),
		Region:           cfg.Region,
		Volume:           volume,
	}, nil
}
