package controller

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/dns"
	"github.com/homelab-infra/unifictl/internal/platform/aws"
	"github.com/homelab-infra/unifictl/internal/provisioning"
	"github.com/homelab-infra/unifictl/internal/provisioning/network"
	"github.com/homelab-infra/unifictl/internal/provisioning/storage"
	"github.com/homelab-infra/unifictl/internal/util/naming"
	"github.com/homelab-infra/unifictl/internal/util/ptr"
)

const phase = "controller"

// ContainerName is the name of the single container in the task.
const ContainerName = "unifi-controller"

const (
	deregistrationDelay = 60
	healthCheckMatcher  = "200,302"
	rulePriority        = 10

	// linuxserver images drop privileges to this user and group.
	containerUID = "1000"
	containerGID = "1000"
	memStartup   = "512"
)

// ErrNoDefaultTargetGroup is returned when the STUN listener does not
// forward to a target group the service can register with.
var ErrNoDefaultTargetGroup = errors.New("no default target group for listener")

// Provisioner handles the controller component.
type Provisioner struct{}

// NewProvisioner creates a new controller provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// inputs are the results of earlier phases the controller depends on.
type inputs struct {
	vpc          *aws.VPC
	cluster      *aws.Cluster
	zone         *dns.Zone
	nlb          *aws.LoadBalancer
	webAdmin     *aws.Listener
	guestPortal  *aws.Listener
	stun         *aws.Listener
	inform       *aws.Listener
	ecsSubnetIDs []string
}

func collectInputs(ctx *provisioning.Context) (*inputs, error) {
	s := ctx.State

	stun, err := s.Listener(provisioning.ListenerKey(aws.LoadBalancerTypeNetwork, "UDP", config.STUNPort))
	if err != nil {
		return nil, err
	}
	if stun.DefaultTargetGroupARN == "" {
		return nil, ErrNoDefaultTargetGroup
	}

	in := &inputs{
		vpc:          s.VPC,
		cluster:      s.Cluster,
		zone:         s.Zone,
		nlb:          s.NLB,
		stun:         stun,
		ecsSubnetIDs: network.SubnetIDs(s.Subnets, config.TierECS),
	}
	switch {
	case in.vpc == nil:
		return nil, errors.New("network has not been provisioned")
	case in.cluster == nil:
		return nil, errors.New("cluster has not been provisioned")
	case in.zone == nil:
		return nil, errors.New("dns zone has not been resolved")
	case in.nlb == nil:
		return nil, errors.New("network load balancer has not been provisioned")
	case len(in.ecsSubnetIDs) == 0:
		return nil, errors.New("no ecs subnets found")
	}

	if in.webAdmin, err = s.Listener(provisioning.ListenerKey(aws.LoadBalancerTypeApplication, "HTTPS", config.WebAdminPort)); err != nil {
		return nil, err
	}
	if in.guestPortal, err = s.Listener(provisioning.ListenerKey(aws.LoadBalancerTypeApplication, "HTTPS", config.GuestPortalPort)); err != nil {
		return nil, err
	}
	if ctx.Config.Controller.InformPortEnabled() {
		if in.inform, err = s.Listener(provisioning.ListenerKey(aws.LoadBalancerTypeNetwork, "TCP", config.InformPort)); err != nil {
			return nil, err
		}
		if in.inform.DefaultTargetGroupARN == "" {
			return nil, ErrNoDefaultTargetGroup
		}
	}
	return in, nil
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	in, err := collectInputs(ctx)
	if err != nil {
		return err
	}

	cfg := ctx.Config
	component := naming.Controller(cfg.Stack)
	hostname := cfg.Controller.Hostname

	webAdminTG, err := p.ensureALBTargetGroup(ctx, component, in, config.WebAdminPort, in.webAdmin)
	if err != nil {
		return err
	}
	guestPortalTG, err := p.ensureALBTargetGroup(ctx, component, in, config.GuestPortalPort, in.guestPortal)
	if err != nil {
		return err
	}

	records, err := ctx.DNS.UpsertHost(ctx, in.zone.ID, hostname, dns.Target{
		DNSName:      in.nlb.DNSName,
		HostedZoneID: in.nlb.CanonicalHostedZoneID,
	})
	if err != nil {
		return ctx.Failed(phase, "dns record", hostname, fmt.Errorf("failed to write DNS records for %s: %w", hostname, err))
	}
	ctx.State.AddDNSRecords(records...)
	for _, r := range records {
		ctx.Ensured(phase, "dns record", r.Name, r.Type)
	}

	sg, err := p.ensureTaskSecurityGroup(ctx, component, in.vpc.ID)
	if err != nil {
		return err
	}

	logGroup := naming.LogGroup(cfg.Stack)
	// #nosec G115
	if err := ctx.Infra.EnsureLogGroup(ctx, logGroup, int32(cfg.Controller.LogRetentionDays), ctx.ResourceTags(phase, "")); err != nil {
		return ctx.Failed(phase, "log group", logGroup, fmt.Errorf("failed to ensure log group: %w", err))
	}
	ctx.State.LogGroup = logGroup
	ctx.Ensured(phase, "log group", logGroup, logGroup)

	roleName := naming.ExecutionRole(cfg.Stack)
	roleARN, err := ctx.Infra.EnsureExecutionRole(ctx, roleName, ctx.ResourceTags(phase, ""))
	if err != nil {
		return ctx.Failed(phase, "iam role", roleName, fmt.Errorf("failed to ensure execution role: %w", err))
	}
	ctx.State.ExecutionRoleARN = roleARN
	ctx.Ensured(phase, "iam role", roleName, roleARN)

	taskOpts, err := TaskDefinition(cfg, roleARN, storage.Volume(ctx.State))
	if err != nil {
		return err
	}
	taskOpts.Tags = ctx.ResourceTags(phase, taskOpts.Family)
	taskDefARN, err := ctx.Infra.RegisterTaskDefinition(ctx, taskOpts)
	if err != nil {
		return ctx.Failed(phase, "task definition", taskOpts.Family, fmt.Errorf("failed to register task definition: %w", err))
	}
	ctx.State.TaskDefinitionARN = taskDefARN
	ctx.Ensured(phase, "task definition", taskOpts.Family, taskDefARN)

	serviceName := naming.Service(component)
	lbs := []aws.ServiceLoadBalancer{
		{TargetGroupARN: webAdminTG.ARN, ContainerName: ContainerName, ContainerPort: config.WebAdminPort},
		{TargetGroupARN: guestPortalTG.ARN, ContainerName: ContainerName, ContainerPort: config.GuestPortalPort},
		{TargetGroupARN: in.stun.DefaultTargetGroupARN, ContainerName: ContainerName, ContainerPort: config.STUNPort},
	}
	if in.inform != nil {
		lbs = append(lbs, aws.ServiceLoadBalancer{TargetGroupARN: in.inform.DefaultTargetGroupARN, ContainerName: ContainerName, ContainerPort: config.InformPort})
	}

	// #nosec G115
	service, err := ctx.Infra.EnsureService(ctx, aws.ServiceOpts{
		Cluster:                in.cluster.Name,
		Name:                   serviceName,
		TaskDefinitionARN:      taskDefARN,
		DesiredCount:           int32(cfg.Controller.DesiredCount),
		SubnetIDs:              in.ecsSubnetIDs,
		SecurityGroupIDs:       []string{sg.ID},
		LoadBalancers:          lbs,
		HealthCheckGracePeriod: int32(cfg.Controller.HealthCheckGracePeriod),
		Tags:                   ctx.ResourceTags(phase, serviceName),
	})
	if err != nil {
		return ctx.Failed(phase, "ecs service", serviceName, fmt.Errorf("failed to ensure service: %w", err))
	}
	ctx.State.Service = service
	ctx.Ensured(phase, "ecs service", serviceName, service.ARN)

	ctx.Observer.Printf("[%s] Waiting for %s to become stable (timeout %v)...", phase, serviceName, ctx.Timeouts.ServiceStable)
	if err := ctx.Infra.WaitServiceStable(ctx, in.cluster.Name, serviceName); err != nil {
		return fmt.Errorf("service %s did not become stable: %w", serviceName, err)
	}

	ctx.State.WebAdminURL = cfg.Controller.WebAdminURL()
	ctx.Observer.Printf("[%s] Web admin available at %s", phase, ctx.State.WebAdminURL)
	return nil
}

// ensureALBTargetGroup creates the ip target group for port and routes the
// controller hostname on listener to it. The guest portal is health
// checked through the web admin port.
func (p *Provisioner) ensureALBTargetGroup(ctx *provisioning.Context, component string, in *inputs, port int32, listener *aws.Listener) (*aws.TargetGroup, error) {
	name := naming.ALBTargetGroup(component, port)
	hc := &aws.HealthCheck{Protocol: "HTTPS", Path: "/", Matcher: healthCheckMatcher}
	if port != config.WebAdminPort {
		hc.Port = strconv.Itoa(config.WebAdminPort)
	}

	tg, err := ctx.Infra.EnsureTargetGroup(ctx, aws.TargetGroupOpts{
		Name:                name,
		VPCID:               in.vpc.ID,
		Port:                port,
		Protocol:            "HTTPS",
		TargetType:          aws.TargetTypeIP,
		DeregistrationDelay: ptr.Int32(deregistrationDelay),
		HealthCheck:         hc,
		Tags:                ctx.ResourceTags(phase, name),
	})
	if err != nil {
		return nil, ctx.Failed(phase, "target group", name, fmt.Errorf("failed to ensure target group %s: %w", name, err))
	}
	ctx.State.TargetGroups[name] = tg
	ctx.Ensured(phase, "target group", name, tg.ARN)

	ruleARN, err := ctx.Infra.EnsureListenerRule(ctx, aws.ListenerRuleOpts{
		ListenerARN:    listener.ARN,
		Priority:       rulePriority,
		HostHeader:     ctx.Config.Controller.Hostname,
		TargetGroupARN: tg.ARN,
		Tags:           ctx.ResourceTags(phase, name),
	})
	if err != nil {
		return nil, ctx.Failed(phase, "listener rule", name, fmt.Errorf("failed to ensure listener rule for %s: %w", name, err))
	}
	ctx.Ensured(phase, "listener rule", name, ruleARN)
	return tg, nil
}

func (p *Provisioner) ensureTaskSecurityGroup(ctx *provisioning.Context, component, vpcID string) (*aws.SecurityGroup, error) {
	name := naming.TaskSecurityGroup(component)
	allowAll := []aws.SecurityGroupRule{{Protocol: "-1", CIDR: "0.0.0.0/0", Description: "allow everywhere"}}

	sg, err := ctx.Infra.EnsureSecurityGroup(ctx, aws.SecurityGroupOpts{
		VPCID:       vpcID,
		Name:        name,
		Description: "Unifi controller Fargate tasks",
		Ingress:     allowAll,
		Egress:      allowAll,
		Tags:        ctx.ResourceTags(phase, name),
	})
	if err != nil {
		return nil, ctx.Failed(phase, "security group", name, fmt.Errorf("failed to ensure task security group: %w", err))
	}
	ctx.State.TaskSecurityGroup = sg
	ctx.Ensured(phase, "security group", name, sg.ID)
	return sg, nil
}
