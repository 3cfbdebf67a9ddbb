package loadbalancer

import (
	"errors"
	"fmt"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/platform/aws"
	"github.com/homelab-infra/unifictl/internal/provisioning"
	"github.com/homelab-infra/unifictl/internal/provisioning/network"
	"github.com/homelab-infra/unifictl/internal/util/naming"
)

const (
	phase = "loadbalancer"

	webAdminPort = config.WebAdminPort
)

// ListenerSpec is one listener created for the controller.
type ListenerSpec struct {
	LoadBalancer string // aws.LoadBalancerTypeApplication or aws.LoadBalancerTypeNetwork
	Protocol     string
	Port         int32
	// ForwardToALB makes an NLB listener target the ALB listener on the
	// same port.
	ForwardToALB bool
}

// Key returns the provisioning.State.Listeners key of the spec.
func (s ListenerSpec) Key() string {
	return provisioning.ListenerKey(s.LoadBalancer, s.Protocol, s.Port)
}

// Listeners returns the controller's listeners in creation order: ALB
// listeners first so NLB listeners can register the ALB behind them.
func Listeners(informPort bool) []ListenerSpec {
	specs := []ListenerSpec{
		{LoadBalancer: aws.LoadBalancerTypeApplication, Protocol: "HTTPS", Port: config.WebAdminPort},
		{LoadBalancer: aws.LoadBalancerTypeApplication, Protocol: "HTTPS", Port: config.GuestPortalPort},
		{LoadBalancer: aws.LoadBalancerTypeNetwork, Protocol: "TCP", Port: config.WebAdminPort, ForwardToALB: true},
		{LoadBalancer: aws.LoadBalancerTypeNetwork, Protocol: "TCP", Port: config.GuestPortalPort, ForwardToALB: true},
		{LoadBalancer: aws.LoadBalancerTypeNetwork, Protocol: "UDP", Port: config.STUNPort},
	}
	if informPort {
		specs = append(specs, ListenerSpec{LoadBalancer: aws.LoadBalancerTypeNetwork, Protocol: "TCP", Port: config.InformPort})
	}
	return specs
}

// ALBPorts returns the ports of the ALB listeners among specs.
func ALBPorts(specs []ListenerSpec) []int32 {
	var ports []int32
	for _, s := range specs {
		if s.LoadBalancer == aws.LoadBalancerTypeApplication {
			ports = append(ports, s.Port)
		}
	}
	return ports
}

// Provisioner handles the ALB security group, both load balancers and
// their listeners.
type Provisioner struct{}

// NewProvisioner creates a new load balancer provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	if ctx.State.VPC == nil {
		return errors.New("network has not been provisioned")
	}
	if ctx.State.Certificate == nil {
		return errors.New("certificate has not been provisioned")
	}

	stack := ctx.Config.Stack
	specs := Listeners(ctx.Config.Controller.InformPortEnabled())
	subnetIDs := network.SubnetIDs(ctx.State.Subnets, config.TierLB)
	if len(subnetIDs) == 0 {
		return errors.New("no load balancer subnets found")
	}

	sg, err := p.ensureALBSecurityGroup(ctx, ALBPorts(specs))
	if err != nil {
		return err
	}

	albName := naming.ALB(stack)
	alb, err := ctx.Infra.EnsureLoadBalancer(ctx, aws.LoadBalancerOpts{
		Name:             albName,
		Type:             aws.LoadBalancerTypeApplication,
		SubnetIDs:        subnetIDs,
		SecurityGroupIDs: []string{sg.ID},
		Tags:             ctx.ResourceTags(phase, albName),
	})
	if err != nil {
		return ctx.Failed(phase, "load balancer", albName, fmt.Errorf("failed to ensure ALB: %w", err))
	}
	ctx.State.ALB = alb
	ctx.Ensured(phase, "load balancer", albName, alb.ARN)

	nlbName := naming.NLB(stack)
	nlb, err := ctx.Infra.EnsureLoadBalancer(ctx, aws.LoadBalancerOpts{
		Name:      nlbName,
		Type:      aws.LoadBalancerTypeNetwork,
		SubnetIDs: subnetIDs,
		Tags:      ctx.ResourceTags(phase, nlbName),
	})
	if err != nil {
		return ctx.Failed(phase, "load balancer", nlbName, fmt.Errorf("failed to ensure NLB: %w", err))
	}
	ctx.State.NLB = nlb
	ctx.Ensured(phase, "load balancer", nlbName, nlb.ARN)

	for _, spec := range specs {
		var listener *aws.Listener
		switch spec.LoadBalancer {
		case aws.LoadBalancerTypeApplication:
			listener, err = SetupALBListener(ctx, alb, stack, spec.Port, spec.Protocol, ctx.State.Certificate.ARN)
		default:
			var albListener *aws.Listener
			if spec.ForwardToALB {
				albListener, err = ctx.State.Listener(provisioning.ListenerKey(aws.LoadBalancerTypeApplication, "HTTPS", spec.Port))
				if err != nil {
					return err
				}
			}
			listener, err = SetupNLBListener(ctx, nlb, stack, spec.Port, spec.Protocol, albListener)
		}
		if err != nil {
			return err
		}
		ctx.State.Listeners[spec.Key()] = listener
	}
	return nil
}

// ensureALBSecurityGroup allows the listener ports from anywhere and from
// inside the VPC, where the NLB health checks and forwarded traffic
// originate.
func (p *Provisioner) ensureALBSecurityGroup(ctx *provisioning.Context, ports []int32) (*aws.SecurityGroup, error) {
	name := naming.ALBSecurityGroup(ctx.Config.Stack)
	var ingress []aws.SecurityGroupRule
	for _, port := range ports {
		for _, cidr := range []string{"0.0.0.0/0", ctx.State.VPC.CIDR} {
			ingress = append(ingress, aws.SecurityGroupRule{
				Protocol:    "tcp",
				FromPort:    port,
				ToPort:      port,
				CIDR:        cidr,
				Description: fmt.Sprintf("listener %d", port),
			})
		}
	}

	sg, err := ctx.Infra.EnsureSecurityGroup(ctx, aws.SecurityGroupOpts{
		VPCID:       ctx.State.VPC.ID,
		Name:        name,
		Description: "Unifi controller ALB",
		Ingress:     ingress,
		Egress:      []aws.SecurityGroupRule{{Protocol: "-1", CIDR: "0.0.0.0/0", Description: "allow everywhere"}},
		Tags:        ctx.ResourceTags(phase, name),
	})
	if err != nil {
		return nil, ctx.Failed(phase, "security group", name, fmt.Errorf("failed to ensure ALB security group: %w", err))
	}
	ctx.State.ALBSecurityGroup = sg
	ctx.Ensured(phase, "security group", name, sg.ID)
	return sg, nil
}
