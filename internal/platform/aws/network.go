package aws

import (
	"context"
	"fmt"
	"sort"

	"github.com/homelab-infra/unifictl/internal/util/tags"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

const defaultRouteCIDR = "0.0.0.0/0"

// withName returns a copy of m with the Name tag set.
func withName(m map[string]string, name string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[tags.KeyName] = name
	return out
}

// GetVPC returns the VPC tagged with name, or nil if it does not exist.
func (c *RealClient) GetVPC(ctx context.Context, name string) (*VPC, error) {
	out, err := c.ec2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
		Filters: nameFilters("", name),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Vpcs) == 0 {
		return nil, nil
	}
	v := out.Vpcs[0]
	return &VPC{ID: aws.ToString(v.VpcId), Name: name, CIDR: aws.ToString(v.CidrBlock)}, nil
}

// EnsureVPC creates the VPC with DNS support and hostnames enabled.
func (c *RealClient) EnsureVPC(ctx context.Context, name, cidr string, t map[string]string) (*VPC, error) {
	return (&EnsureOperation[*VPC]{
		Name:         name,
		ResourceType: "vpc",
		Get:          c.GetVPC,
		Create: func(ctx context.Context) (*VPC, error) {
			out, err := c.ec2.CreateVpc(ctx, &ec2.CreateVpcInput{
				CidrBlock:         aws.String(cidr),
				TagSpecifications: tagSpec(ec2types.ResourceTypeVpc, withName(t, name)),
			})
			if err != nil {
				return nil, err
			}
			return &VPC{ID: aws.ToString(out.Vpc.VpcId), Name: name, CIDR: cidr}, nil
		},
		AfterCreate: func(ctx context.Context, v *VPC) error {
			// DNS attributes can only be modified one per call.
			if _, err := c.ec2.ModifyVpcAttribute(ctx, &ec2.ModifyVpcAttributeInput{
				VpcId:            aws.String(v.ID),
				EnableDnsSupport: &ec2types.AttributeBooleanValue{Value: aws.Bool(true)},
			}); err != nil {
				return err
			}
			_, err := c.ec2.ModifyVpcAttribute(ctx, &ec2.ModifyVpcAttributeInput{
				VpcId:              aws.String(v.ID),
				EnableDnsHostnames: &ec2types.AttributeBooleanValue{Value: aws.Bool(true)},
			})
			return err
		},
		Validate: func(v *VPC) error {
			if v.CIDR != cidr {
				return fmt.Errorf("exists with CIDR %s, want %s", v.CIDR, cidr)
			}
			return nil
		},
	}).Execute(ctx, c)
}

// AvailabilityZones returns the available zones of the region.
func (c *RealClient) AvailabilityZones(ctx context.Context) ([]string, error) {
	out, err := c.ec2.DescribeAvailabilityZones(ctx, &ec2.DescribeAvailabilityZonesInput{
		Filters: []ec2types.Filter{
			ec2Filter("state", "available"),
			ec2Filter("zone-type", "availability-zone"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe availability zones: %w", err)
	}

	zones := make([]string, 0, len(out.AvailabilityZones))
	for _, az := range out.AvailabilityZones {
		zones = append(zones, aws.ToString(az.ZoneName))
	}
	sort.Strings(zones)
	return zones, nil
}

func toSubnet(s ec2types.Subnet) *Subnet {
	return &Subnet{
		ID:               aws.ToString(s.SubnetId),
		Name:             ec2TagValue(s.Tags, tags.KeyName),
		AvailabilityZone: aws.ToString(s.AvailabilityZone),
		CIDR:             aws.ToString(s.CidrBlock),
		Tier:             ec2TagValue(s.Tags, tags.KeySubnetTier),
	}
}

// EnsureSubnet creates a subnet in the given zone. Public subnets assign
// public IPs on launch.
func (c *RealClient) EnsureSubnet(ctx context.Context, opts SubnetOpts) (*Subnet, error) {
	return (&EnsureOperation[*Subnet]{
		Name:         opts.Name,
		ResourceType: "subnet",
		Get: func(ctx context.Context, name string) (*Subnet, error) {
			out, err := c.ec2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
				Filters: nameFilters(opts.VPCID, name),
			})
			if err != nil {
				return nil, err
			}
			if len(out.Subnets) == 0 {
				return nil, nil
			}
			return toSubnet(out.Subnets[0]), nil
		},
		Create: func(ctx context.Context) (*Subnet, error) {
			t := withName(opts.Tags, opts.Name)
			t[tags.KeySubnetTier] = opts.Tier
			out, err := c.ec2.CreateSubnet(ctx, &ec2.CreateSubnetInput{
				VpcId:             aws.String(opts.VPCID),
				CidrBlock:         aws.String(opts.CIDR),
				AvailabilityZone:  aws.String(opts.AvailabilityZone),
				TagSpecifications: tagSpec(ec2types.ResourceTypeSubnet, t),
			})
			if err != nil {
				return nil, err
			}
			return toSubnet(*out.Subnet), nil
		},
		AfterCreate: func(ctx context.Context, s *Subnet) error {
			if !opts.MapPublicIP {
				return nil
			}
			_, err := c.ec2.ModifySubnetAttribute(ctx, &ec2.ModifySubnetAttributeInput{
				SubnetId:            aws.String(s.ID),
				MapPublicIpOnLaunch: &ec2types.AttributeBooleanValue{Value: aws.Bool(true)},
			})
			return err
		},
		Validate: func(s *Subnet) error {
			if s.CIDR != opts.CIDR {
				return fmt.Errorf("exists with CIDR %s, want %s", s.CIDR, opts.CIDR)
			}
			if s.AvailabilityZone != opts.AvailabilityZone {
				return fmt.Errorf("exists in %s, want %s", s.AvailabilityZone, opts.AvailabilityZone)
			}
			return nil
		},
	}).Execute(ctx, c)
}

// ListSubnets returns all subnets of the VPC ordered by availability zone
// and name.
func (c *RealClient) ListSubnets(ctx context.Context, vpcID string) ([]*Subnet, error) {
	var subnets []*Subnet
	p := ec2.NewDescribeSubnetsPaginator(c.ec2, &ec2.DescribeSubnetsInput{
		Filters: []ec2types.Filter{ec2Filter("vpc-id", vpcID)},
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list subnets: %w", err)
		}
		for _, s := range page.Subnets {
			subnets = append(subnets, toSubnet(s))
		}
	}

	sort.Slice(subnets, func(i, j int) bool {
		if subnets[i].AvailabilityZone != subnets[j].AvailabilityZone {
			return subnets[i].AvailabilityZone < subnets[j].AvailabilityZone
		}
		return subnets[i].Name < subnets[j].Name
	})
	return subnets, nil
}

func (c *RealClient) getInternetGateway(ctx context.Context, name string) (*ec2types.InternetGateway, error) {
	out, err := c.ec2.DescribeInternetGateways(ctx, &ec2.DescribeInternetGatewaysInput{
		Filters: nameFilters("", name),
	})
	if err != nil {
		return nil, err
	}
	if len(out.InternetGateways) == 0 {
		return nil, nil
	}
	return &out.InternetGateways[0], nil
}

// EnsureInternetGateway creates an internet gateway and attaches it to the VPC.
func (c *RealClient) EnsureInternetGateway(ctx context.Context, vpcID, name string, t map[string]string) (string, error) {
	attach := func(ctx context.Context, igw *ec2types.InternetGateway) error {
		for _, a := range igw.Attachments {
			if aws.ToString(a.VpcId) == vpcID {
				return nil
			}
		}
		_, err := c.ec2.AttachInternetGateway(ctx, &ec2.AttachInternetGatewayInput{
			InternetGatewayId: igw.InternetGatewayId,
			VpcId:             aws.String(vpcID),
		})
		return err
	}

	igw, err := (&EnsureOperation[*ec2types.InternetGateway]{
		Name:         name,
		ResourceType: "internet gateway",
		Get:          c.getInternetGateway,
		Create: func(ctx context.Context) (*ec2types.InternetGateway, error) {
			out, err := c.ec2.CreateInternetGateway(ctx, &ec2.CreateInternetGatewayInput{
				TagSpecifications: tagSpec(ec2types.ResourceTypeInternetGateway, withName(t, name)),
			})
			if err != nil {
				return nil, err
			}
			return out.InternetGateway, nil
		},
		AfterCreate: attach,
		Update:      attach,
	}).Execute(ctx, c)
	if err != nil {
		return "", err
	}
	return aws.ToString(igw.InternetGatewayId), nil
}

func (c *RealClient) getNATGateway(ctx context.Context, name string) (*ec2types.NatGateway, error) {
	out, err := c.ec2.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{
		Filter: []ec2types.Filter{
			ec2Filter("tag:"+tags.KeyName, name),
			ec2Filter("state", string(ec2types.NatGatewayStatePending), string(ec2types.NatGatewayStateAvailable)),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.NatGateways) == 0 {
		return nil, nil
	}
	return &out.NatGateways[0], nil
}

// ensureElasticIP returns the allocation ID of the Elastic IP tagged name.
func (c *RealClient) ensureElasticIP(ctx context.Context, name string, t map[string]string) (string, error) {
	out, err := c.ec2.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{
		Filters: nameFilters("", name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe addresses: %w", err)
	}
	if len(out.Addresses) > 0 {
		return aws.ToString(out.Addresses[0].AllocationId), nil
	}

	alloc, err := c.ec2.AllocateAddress(ctx, &ec2.AllocateAddressInput{
		Domain:            ec2types.DomainTypeVpc,
		TagSpecifications: tagSpec(ec2types.ResourceTypeElasticIp, withName(t, name)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to allocate address: %w", err)
	}
	return aws.ToString(alloc.AllocationId), nil
}

// EnsureNATGateway creates a public NAT gateway in subnetID and waits until
// it is available.
func (c *RealClient) EnsureNATGateway(ctx context.Context, subnetID, name, eipName string, t map[string]string) (string, error) {
	waitAvailable := func(ctx context.Context, nat *ec2types.NatGateway) error {
		if nat.State == ec2types.NatGatewayStateAvailable {
			return nil
		}
		id := aws.ToString(nat.NatGatewayId)
		return pollUntil(ctx, c, c.timeouts.NATGateway, "NAT gateway "+id, func(ctx context.Context) (bool, error) {
			out, err := c.ec2.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{NatGatewayIds: []string{id}})
			if err != nil {
				return false, err
			}
			if len(out.NatGateways) == 0 {
				return false, nil
			}
			switch out.NatGateways[0].State {
			case ec2types.NatGatewayStateAvailable:
				return true, nil
			case ec2types.NatGatewayStateFailed, ec2types.NatGatewayStateDeleted:
				return false, fmt.Errorf("NAT gateway %s is %s: %s", id,
					out.NatGateways[0].State, aws.ToString(out.NatGateways[0].FailureMessage))
			}
			return false, nil
		})
	}

	nat, err := (&EnsureOperation[*ec2types.NatGateway]{
		Name:         name,
		ResourceType: "NAT gateway",
		Get:          c.getNATGateway,
		Create: func(ctx context.Context) (*ec2types.NatGateway, error) {
			allocationID, err := c.ensureElasticIP(ctx, eipName, t)
			if err != nil {
				return nil, err
			}
			out, err := c.ec2.CreateNatGateway(ctx, &ec2.CreateNatGatewayInput{
				SubnetId:          aws.String(subnetID),
				AllocationId:      aws.String(allocationID),
				ConnectivityType:  ec2types.ConnectivityTypePublic,
				TagSpecifications: tagSpec(ec2types.ResourceTypeNatgateway, withName(t, name)),
			})
			if err != nil {
				return nil, err
			}
			return out.NatGateway, nil
		},
		AfterCreate: waitAvailable,
		Update:      waitAvailable,
	}).Execute(ctx, c)
	if err != nil {
		return "", err
	}
	return aws.ToString(nat.NatGatewayId), nil
}

func (c *RealClient) getRouteTable(ctx context.Context, vpcID, name string) (*ec2types.RouteTable, error) {
	out, err := c.ec2.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{
		Filters: nameFilters(vpcID, name),
	})
	if err != nil {
		return nil, err
	}
	if len(out.RouteTables) == 0 {
		return nil, nil
	}
	return &out.RouteTables[0], nil
}

// EnsureRouteTable creates a route table, adds its default route and
// associates the given subnets.
func (c *RealClient) EnsureRouteTable(ctx context.Context, opts RouteTableOpts) (string, error) {
	rt, err := (&EnsureOperation[*ec2types.RouteTable]{
		Name:         opts.Name,
		ResourceType: "route table",
		Get: func(ctx context.Context, name string) (*ec2types.RouteTable, error) {
			return c.getRouteTable(ctx, opts.VPCID, name)
		},
		Create: func(ctx context.Context) (*ec2types.RouteTable, error) {
			out, err := c.ec2.CreateRouteTable(ctx, &ec2.CreateRouteTableInput{
				VpcId:             aws.String(opts.VPCID),
				TagSpecifications: tagSpec(ec2types.ResourceTypeRouteTable, withName(opts.Tags, opts.Name)),
			})
			if err != nil {
				return nil, err
			}
			return out.RouteTable, nil
		},
	}).Execute(ctx, c)
	if err != nil {
		return "", err
	}

	id := aws.ToString(rt.RouteTableId)
	if err := c.ensureDefaultRoute(ctx, rt, opts); err != nil {
		return "", fmt.Errorf("failed to add default route to %s: %w", opts.Name, err)
	}

	associated := make(map[string]bool, len(rt.Associations))
	for _, a := range rt.Associations {
		associated[aws.ToString(a.SubnetId)] = true
	}
	for _, subnetID := range opts.SubnetIDs {
		if associated[subnetID] {
			continue
		}
		_, err := c.ec2.AssociateRouteTable(ctx, &ec2.AssociateRouteTableInput{
			RouteTableId: aws.String(id),
			SubnetId:     aws.String(subnetID),
		})
		if err != nil && !IsAlreadyExists(err) {
			return "", fmt.Errorf("failed to associate %s with %s: %w", subnetID, opts.Name, err)
		}
	}
	return id, nil
}

func (c *RealClient) ensureDefaultRoute(ctx context.Context, rt *ec2types.RouteTable, opts RouteTableOpts) error {
	if opts.GatewayID == "" && opts.NATGatewayID == "" {
		return nil
	}
	for _, r := range rt.Routes {
		if aws.ToString(r.DestinationCidrBlock) == defaultRouteCIDR {
			return nil
		}
	}

	in := &ec2.CreateRouteInput{
		RouteTableId:         rt.RouteTableId,
		DestinationCidrBlock: aws.String(defaultRouteCIDR),
	}
	if opts.GatewayID != "" {
		in.GatewayId = aws.String(opts.GatewayID)
	} else {
		in.NatGatewayId = aws.String(opts.NATGatewayID)
	}
	_, err := c.ec2.CreateRoute(ctx, in)
	if err != nil && !IsAlreadyExists(err) {
		return err
	}
	return nil
}
