package network

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/platform/aws"
	"github.com/homelab-infra/unifictl/internal/provisioning"
	"github.com/homelab-infra/unifictl/internal/util/async"
	"github.com/homelab-infra/unifictl/internal/util/naming"
	tagkeys "github.com/homelab-infra/unifictl/internal/util/tags"
)

const phase = "network"

// Provisioner handles the VPC, subnets, gateways and route tables.
type Provisioner struct{}

// NewProvisioner creates a new network provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	stack := cfg.Stack

	zones, err := p.selectZones(ctx)
	if err != nil {
		return err
	}

	vpcName := naming.VPC(stack)
	vpc, err := ctx.Infra.EnsureVPC(ctx, vpcName, cfg.Network.CIDR, ctx.ResourceTags(phase, vpcName))
	if err != nil {
		return ctx.Failed(phase, "vpc", vpcName, fmt.Errorf("failed to ensure VPC: %w", err))
	}
	ctx.State.VPC = vpc
	ctx.Ensured(phase, "vpc", vpcName, vpc.ID)

	igwName := naming.InternetGateway(stack)
	igwID, err := ctx.Infra.EnsureInternetGateway(ctx, vpc.ID, igwName, ctx.ResourceTags(phase, igwName))
	if err != nil {
		return ctx.Failed(phase, "internet gateway", igwName, fmt.Errorf("failed to ensure internet gateway: %w", err))
	}
	ctx.State.InternetGatewayID = igwID
	ctx.Ensured(phase, "internet gateway", igwName, igwID)

	subnets, err := p.ensureSubnets(ctx, vpc.ID, zones)
	if err != nil {
		return err
	}
	ctx.State.Subnets = subnets

	natIDs, err := p.ensureNATGateways(ctx, SubnetIDs(subnets, config.TierLB))
	if err != nil {
		return err
	}
	ctx.State.NATGatewayIDs = natIDs

	return p.ensureRouteTables(ctx, vpc.ID, igwID, natIDs)
}

// selectZones returns the first availabilityZones zones of the region.
func (p *Provisioner) selectZones(ctx *provisioning.Context) ([]string, error) {
	want := ctx.Config.Network.AvailabilityZones
	zones, err := ctx.Infra.AvailabilityZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability zones: %w", err)
	}
	if len(zones) < want {
		return nil, fmt.Errorf("region %s has %d availability zones, %d requested", ctx.Config.Region, len(zones), want)
	}
	return zones[:want], nil
}

func (p *Provisioner) ensureSubnets(ctx *provisioning.Context, vpcID string, zones []string) ([]*aws.Subnet, error) {
	cfg := ctx.Config
	var subnets []*aws.Subnet

	for _, tier := range config.SubnetTiers {
		for i, zone := range zones {
			cidr, err := cfg.Network.SubnetCIDR(tier, i)
			if err != nil {
				return nil, err
			}
			name := naming.Subnet(cfg.Stack, string(tier), zone)
			tags := ctx.ResourceTags(phase, name)
			tags[tagkeys.KeySubnetTier] = string(tier)

			subnet, err := ctx.Infra.EnsureSubnet(ctx, aws.SubnetOpts{
				VPCID:            vpcID,
				Name:             name,
				AvailabilityZone: zone,
				CIDR:             cidr,
				Tier:             string(tier),
				MapPublicIP:      tier == config.TierLB,
				Tags:             tags,
			})
			if err != nil {
				return nil, ctx.Failed(phase, "subnet", name, fmt.Errorf("failed to ensure subnet %s: %w", name, err))
			}
			ctx.Ensured(phase, "subnet", name, subnet.ID)
			subnets = append(subnets, subnet)
		}
	}
	return subnets, nil
}

// ensureNATGateways creates the NAT gateways in parallel, one per leading
// public subnet. Each waits until available.
func (p *Provisioner) ensureNATGateways(ctx *provisioning.Context, publicSubnetIDs []string) ([]string, error) {
	stack := ctx.Config.Stack
	count := ctx.Config.Network.NATGateways
	if count > len(publicSubnetIDs) {
		return nil, fmt.Errorf("%d NAT gateways requested but only %d public subnets exist", count, len(publicSubnetIDs))
	}

	ids := make([]string, count)
	var mu sync.Mutex
	tasks := make([]async.Task, 0, count)
	for i := 0; i < count; i++ {
		name := naming.NATGateway(stack, i)
		tasks = append(tasks, async.Task{
			Name: name,
			Func: func(c context.Context) error {
				id, err := ctx.Infra.EnsureNATGateway(c, publicSubnetIDs[i], name, naming.ElasticIP(stack, i), ctx.ResourceTags(phase, name))
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					return ctx.Failed(phase, "nat gateway", name, err)
				}
				ids[i] = id
				ctx.Ensured(phase, "nat gateway", name, id)
				return nil
			},
		})
	}

	if err := async.RunParallel(ctx, tasks); err != nil {
		return nil, fmt.Errorf("failed to ensure NAT gateways: %w", err)
	}
	return ids, nil
}

// ensureRouteTables creates one public table routing to the internet
// gateway, one private table per zone routing to NAT gateway i mod n, and
// one isolated table without a default route.
func (p *Provisioner) ensureRouteTables(ctx *provisioning.Context, vpcID, igwID string, natIDs []string) error {
	stack := ctx.Config.Stack
	subnets := ctx.State.Subnets

	tables := []aws.RouteTableOpts{{
		VPCID:     vpcID,
		Name:      naming.RouteTable(stack, string(config.TierLB), 0),
		SubnetIDs: SubnetIDs(subnets, config.TierLB),
		GatewayID: igwID,
	}}
	for i, id := range SubnetIDs(subnets, config.TierECS) {
		tables = append(tables, aws.RouteTableOpts{
			VPCID:        vpcID,
			Name:         naming.RouteTable(stack, string(config.TierECS), i),
			SubnetIDs:    []string{id},
			NATGatewayID: natIDs[i%len(natIDs)],
		})
	}
	tables = append(tables, aws.RouteTableOpts{
		VPCID:     vpcID,
		Name:      naming.RouteTable(stack, string(config.TierEFS), 0),
		SubnetIDs: SubnetIDs(subnets, config.TierEFS),
	})

	for _, opts := range tables {
		opts.Tags = ctx.ResourceTags(phase, opts.Name)
		id, err := ctx.Infra.EnsureRouteTable(ctx, opts)
		if err != nil {
			return ctx.Failed(phase, "route table", opts.Name, fmt.Errorf("failed to ensure route table %s: %w", opts.Name, err))
		}
		ctx.Ensured(phase, "route table", opts.Name, id)
	}
	return nil
}

// SubnetIDs returns the IDs of the subnets of tier, ordered by
// availability zone.
func SubnetIDs(subnets []*aws.Subnet, tier config.SubnetTier) []string {
	var matched []*aws.Subnet
	for _, s := range subnets {
		if s != nil && inTier(s, tier) {
			matched = append(matched, s)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].AvailabilityZone < matched[j].AvailabilityZone
	})

	ids := make([]string, 0, len(matched))
	for _, s := range matched {
		ids = append(ids, s.ID)
	}
	return ids
}

// inTier prefers the tier tag. Untagged subnets fall back to the name,
// matched on the suffix after the stack prefix.
func inTier(s *aws.Subnet, tier config.SubnetTier) bool {
	if s.Tier != "" {
		return s.Tier == string(tier)
	}
	return strings.HasSuffix(s.Name, naming.SubnetSuffix(string(tier), s.AvailabilityZone))
}

// SubnetCIDRs returns the CIDR blocks of the subnets of tier, ordered by
// availability zone.
func SubnetCIDRs(subnets []*aws.Subnet, tier config.SubnetTier) []string {
	ids := SubnetIDs(subnets, tier)
	byID := make(map[string]string, len(subnets))
	for _, s := range subnets {
		if s != nil {
			byID[s.ID] = s.CIDR
		}
	}
	cidrs := make([]string, 0, len(ids))
	for _, id := range ids {
		cidrs = append(cidrs, byID[id])
	}
	return cidrs
}
