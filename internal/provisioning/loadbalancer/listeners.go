package loadbalancer

import (
	"fmt"
	"strings"

	"github.com/homelab-infra/unifictl/internal/platform/aws"
	"github.com/homelab-infra/unifictl/internal/provisioning"
	"github.com/homelab-infra/unifictl/internal/util/naming"
)

// Default ALB action for requests no host-header rule matches.
const (
	lostStatusCode  = "400"
	lostContentType = "text/plain"
	lostBody        = "You are lost!"
)

// SetupALBListener ensures a listener on the ALB whose default action is a
// fixed 400 response. The certificate is attached only for HTTPS.
func SetupALBListener(ctx *provisioning.Context, lb *aws.LoadBalancer, prefix string, port int32, protocol, certificateARN string) (*aws.Listener, error) {
	name := naming.Listener(prefix, protocol, port)
	opts := aws.ListenerOpts{
		LoadBalancerARN: lb.ARN,
		Port:            port,
		Protocol:        protocol,
		DefaultAction: aws.ListenerAction{
			FixedResponse: &aws.FixedResponse{
				StatusCode:  lostStatusCode,
				ContentType: lostContentType,
				Body:        lostBody,
			},
		},
		Tags: ctx.ResourceTags(phase, name),
	}
	if strings.EqualFold(protocol, "HTTPS") {
		if certificateARN == "" {
			return nil, fmt.Errorf("listener %s: HTTPS requires a certificate", name)
		}
		opts.CertificateARN = certificateARN
	}

	listener, err := ctx.Infra.EnsureListener(ctx, opts)
	if err != nil {
		return nil, ctx.Failed(phase, "listener", name, fmt.Errorf("failed to ensure listener %s: %w", name, err))
	}
	ctx.Ensured(phase, "listener", name, listener.ARN)
	return listener, nil
}

// SetupNLBListener ensures a target group and a forwarding listener on the
// NLB. With albListener the target group has target type alb and the ALB
// itself is registered as its target; without it the target type is ip and
// targets are registered by the ECS service. The returned listener carries
// its default target group.
func SetupNLBListener(ctx *provisioning.Context, lb *aws.LoadBalancer, prefix string, port int32, protocol string, albListener *aws.Listener) (*aws.Listener, error) {
	tgName := naming.NLBTargetGroup(prefix, protocol, port)
	opts := aws.TargetGroupOpts{
		Name:       tgName,
		VPCID:      ctx.State.VPC.ID,
		Port:       port,
		Protocol:   protocol,
		TargetType: aws.TargetTypeIP,
		Tags:       ctx.ResourceTags(phase, tgName),
	}
	if albListener != nil {
		opts.TargetType = aws.TargetTypeALB
	}
	// UDP target groups cannot be health checked over UDP.
	if strings.EqualFold(protocol, "UDP") {
		opts.HealthCheck = &aws.HealthCheck{Protocol: "TCP", Port: fmt.Sprint(webAdminPort)}
	}

	tg, err := ctx.Infra.EnsureTargetGroup(ctx, opts)
	if err != nil {
		return nil, ctx.Failed(phase, "target group", tgName, fmt.Errorf("failed to ensure target group %s: %w", tgName, err))
	}
	ctx.State.TargetGroups[tgName] = tg
	ctx.Ensured(phase, "target group", tgName, tg.ARN)

	if albListener != nil {
		if err := ctx.Infra.RegisterTarget(ctx, tg.ARN, albListener.LoadBalancerARN, port); err != nil {
			return nil, ctx.Failed(phase, "target", tgName, fmt.Errorf("failed to register ALB with %s: %w", tgName, err))
		}
	}

	name := naming.Listener(prefix, protocol, port)
	listener, err := ctx.Infra.EnsureListener(ctx, aws.ListenerOpts{
		LoadBalancerARN: lb.ARN,
		Port:            port,
		Protocol:        protocol,
		DefaultAction:   aws.ListenerAction{TargetGroupARN: tg.ARN},
		Tags:            ctx.ResourceTags(phase, name),
	})
	if err != nil {
		return nil, ctx.Failed(phase, "listener", name, fmt.Errorf("failed to ensure listener %s: %w", name, err))
	}
	ctx.Ensured(phase, "listener", name, listener.ARN)
	return listener, nil
}
