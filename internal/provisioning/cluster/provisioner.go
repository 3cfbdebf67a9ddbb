package cluster

import (
	"fmt"

	"github.com/homelab-infra/unifictl/internal/platform/aws"
	"github.com/homelab-infra/unifictl/internal/provisioning"
	"github.com/homelab-infra/unifictl/internal/util/naming"
)

const phase = "cluster"

// Provisioner handles the ECS cluster.
type Provisioner struct{}

// NewProvisioner creates a new cluster provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	name := naming.Cluster(ctx.Config.Stack)
	cluster, err := ctx.Infra.EnsureCluster(ctx, aws.ClusterOpts{
		Name:              name,
		CapacityProviders: ctx.Config.Cluster.CapacityProviders,
		Tags:              ctx.ResourceTags(phase, name),
	})
	if err != nil {
		return ctx.Failed(phase, "ecs cluster", name, fmt.Errorf("failed to ensure ECS cluster: %w", err))
	}

	ctx.State.Cluster = cluster
	ctx.Ensured(phase, "ecs cluster", name, cluster.ARN)
	return nil
}
