package aws

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
)

const (
	attrDeregistrationDelay = "deregistration_delay.timeout_seconds"
	conditionHostHeader     = "host-header"
	maxRulePriorityAttempts = 10
)

func toLoadBalancer(lb elbtypes.LoadBalancer) *LoadBalancer {
	return &LoadBalancer{
		ARN:                   aws.ToString(lb.LoadBalancerArn),
		Name:                  aws.ToString(lb.LoadBalancerName),
		Type:                  string(lb.Type),
		DNSName:               aws.ToString(lb.DNSName),
		CanonicalHostedZoneID: aws.ToString(lb.CanonicalHostedZoneId),
	}
}

// GetLoadBalancer returns the load balancer with name, or nil.
func (c *RealClient) GetLoadBalancer(ctx context.Context, name string) (*LoadBalancer, error) {
	out, err := c.elb.DescribeLoadBalancers(ctx, &elbv2.DescribeLoadBalancersInput{
		Names: []string{name},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(out.LoadBalancers) == 0 {
		return nil, nil
	}
	return toLoadBalancer(out.LoadBalancers[0]), nil
}

// EnsureLoadBalancer creates an internet-facing load balancer and waits
// until it is active.
func (c *RealClient) EnsureLoadBalancer(ctx context.Context, opts LoadBalancerOpts) (*LoadBalancer, error) {
	return (&EnsureOperation[*LoadBalancer]{
		Name:         opts.Name,
		ResourceType: opts.Type + " load balancer",
		Get:          c.GetLoadBalancer,
		Create: func(ctx context.Context) (*LoadBalancer, error) {
			in := &elbv2.CreateLoadBalancerInput{
				Name:          aws.String(opts.Name),
				Type:          elbtypes.LoadBalancerTypeEnum(opts.Type),
				Scheme:        elbtypes.LoadBalancerSchemeEnumInternetFacing,
				IpAddressType: elbtypes.IpAddressTypeIpv4,
				Subnets:       opts.SubnetIDs,
				Tags:          elbTags(withName(opts.Tags, opts.Name)),
			}
			if len(opts.SecurityGroupIDs) > 0 {
				in.SecurityGroups = opts.SecurityGroupIDs
			}
			out, err := c.elb.CreateLoadBalancer(ctx, in)
			if err != nil {
				return nil, err
			}
			if len(out.LoadBalancers) == 0 {
				return nil, fmt.Errorf("no load balancer returned")
			}
			return toLoadBalancer(out.LoadBalancers[0]), nil
		},
		AfterCreate: c.waitLoadBalancerActive,
		Validate: func(lb *LoadBalancer) error {
			if lb.Type != opts.Type {
				return fmt.Errorf("exists with type %s, want %s", lb.Type, opts.Type)
			}
			return nil
		},
		Update: c.waitLoadBalancerActive,
	}).Execute(ctx, c)
}

func (c *RealClient) waitLoadBalancerActive(ctx context.Context, lb *LoadBalancer) error {
	return pollUntil(ctx, c, c.timeouts.LoadBalancer, "load balancer "+lb.Name, func(ctx context.Context) (bool, error) {
		out, err := c.elb.DescribeLoadBalancers(ctx, &elbv2.DescribeLoadBalancersInput{
			LoadBalancerArns: []string{lb.ARN},
		})
		if err != nil {
			return false, err
		}
		if len(out.LoadBalancers) == 0 || out.LoadBalancers[0].State == nil {
			return false, nil
		}
		switch out.LoadBalancers[0].State.Code {
		case elbtypes.LoadBalancerStateEnumActive:
			return true, nil
		case elbtypes.LoadBalancerStateEnumFailed:
			return false, fmt.Errorf("load balancer %s failed: %s", lb.Name,
				aws.ToString(out.LoadBalancers[0].State.Reason))
		}
		return false, nil
	})
}

func toTargetGroup(tg elbtypes.TargetGroup) *TargetGroup {
	return &TargetGroup{
		ARN:        aws.ToString(tg.TargetGroupArn),
		Name:       aws.ToString(tg.TargetGroupName),
		Port:       aws.ToInt32(tg.Port),
		Protocol:   string(tg.Protocol),
		TargetType: string(tg.TargetType),
	}
}

func (c *RealClient) getTargetGroup(ctx context.Context, name string) (*TargetGroup, error) {
	out, err := c.elb.DescribeTargetGroups(ctx, &elbv2.DescribeTargetGroupsInput{
		Names: []string{name},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(out.TargetGroups) == 0 {
		return nil, nil
	}
	return toTargetGroup(out.TargetGroups[0]), nil
}

// EnsureTargetGroup creates a target group. Port, protocol and target type
// are immutable, so an existing group that differs is an error.
func (c *RealClient) EnsureTargetGroup(ctx context.Context, opts TargetGroupOpts) (*TargetGroup, error) {
	setAttributes := func(ctx context.Context, tg *TargetGroup) error {
		if opts.DeregistrationDelay == nil {
			return nil
		}
		_, err := c.elb.ModifyTargetGroupAttributes(ctx, &elbv2.ModifyTargetGroupAttributesInput{
			TargetGroupArn: aws.String(tg.ARN),
			Attributes: []elbtypes.TargetGroupAttribute{{
				Key:   aws.String(attrDeregistrationDelay),
				Value: aws.String(strconv.Itoa(int(*opts.DeregistrationDelay))),
			}},
		})
		return err
	}

	return (&EnsureOperation[*TargetGroup]{
		Name:         opts.Name,
		ResourceType: "target group",
		Get:          c.getTargetGroup,
		Create: func(ctx context.Context) (*TargetGroup, error) {
			in := &elbv2.CreateTargetGroupInput{
				Name:       aws.String(opts.Name),
				Port:       aws.Int32(opts.Port),
				Protocol:   elbtypes.ProtocolEnum(opts.Protocol),
				VpcId:      aws.String(opts.VPCID),
				TargetType: elbtypes.TargetTypeEnum(opts.TargetType),
				Tags:       elbTags(withName(opts.Tags, opts.Name)),
			}
			if hc := opts.HealthCheck; hc != nil {
				in.HealthCheckEnabled = aws.Bool(true)
				if hc.Protocol != "" {
					in.HealthCheckProtocol = elbtypes.ProtocolEnum(hc.Protocol)
				}
				if hc.Path != "" {
					in.HealthCheckPath = aws.String(hc.Path)
				}
				if hc.Port != "" {
					in.HealthCheckPort = aws.String(hc.Port)
				}
				if hc.Matcher != "" {
					in.Matcher = &elbtypes.Matcher{HttpCode: aws.String(hc.Matcher)}
				}
			}
			out, err := c.elb.CreateTargetGroup(ctx, in)
			if err != nil {
				return nil, err
			}
			if len(out.TargetGroups) == 0 {
				return nil, fmt.Errorf("no target group returned")
			}
			return toTargetGroup(out.TargetGroups[0]), nil
		},
		AfterCreate: setAttributes,
		Validate: func(tg *TargetGroup) error {
			if tg.Port != opts.Port || tg.Protocol != opts.Protocol || tg.TargetType != opts.TargetType {
				return fmt.Errorf("exists as %s:%d (%s), want %s:%d (%s)",
					tg.Protocol, tg.Port, tg.TargetType, opts.Protocol, opts.Port, opts.TargetType)
			}
			return nil
		},
		Update: setAttributes,
	}).Execute(ctx, c)
}

// RegisterTarget registers targetID (an IP or an ALB ARN) with the group.
// Registration is idempotent on the AWS side.
func (c *RealClient) RegisterTarget(ctx context.Context, targetGroupARN, targetID string, port int32) error {
	return withRetry(ctx, c, func() error {
		_, err := c.elb.RegisterTargets(ctx, &elbv2.RegisterTargetsInput{
			TargetGroupArn: aws.String(targetGroupARN),
			Targets:        []elbtypes.TargetDescription{{Id: aws.String(targetID), Port: aws.Int32(port)}},
		})
		return err
	})
}

func toAction(a ListenerAction) elbtypes.Action {
	if a.FixedResponse != nil {
		return elbtypes.Action{
			Type: elbtypes.ActionTypeEnumFixedResponse,
			FixedResponseConfig: &elbtypes.FixedResponseActionConfig{
				StatusCode:  aws.String(a.FixedResponse.StatusCode),
				ContentType: aws.String(a.FixedResponse.ContentType),
				MessageBody: aws.String(a.FixedResponse.Body),
			},
		}
	}
	return elbtypes.Action{
		Type:           elbtypes.ActionTypeEnumForward,
		TargetGroupArn: aws.String(a.TargetGroupARN),
	}
}

func forwardTarget(actions []elbtypes.Action) string {
	for _, a := range actions {
		if a.Type != elbtypes.ActionTypeEnumForward {
			continue
		}
		if a.TargetGroupArn != nil {
			return aws.ToString(a.TargetGroupArn)
		}
		if a.ForwardConfig != nil && len(a.ForwardConfig.TargetGroups) > 0 {
			return aws.ToString(a.ForwardConfig.TargetGroups[0].TargetGroupArn)
		}
	}
	return ""
}

func toListener(l elbtypes.Listener) *Listener {
	return &Listener{
		ARN:                   aws.ToString(l.ListenerArn),
		LoadBalancerARN:       aws.ToString(l.LoadBalancerArn),
		Port:                  aws.ToInt32(l.Port),
		Protocol:              string(l.Protocol),
		DefaultTargetGroupARN: forwardTarget(l.DefaultActions),
	}
}

// EnsureListener creates the listener on its port or reconciles the default
// action and certificate of an existing one.
func (c *RealClient) EnsureListener(ctx context.Context, opts ListenerOpts) (*Listener, error) {
	var existing *elbtypes.Listener
	name := fmt.Sprintf("%s:%d", opts.Protocol, opts.Port)

	return (&EnsureOperation[*Listener]{
		Name:         name,
		ResourceType: "listener",
		Get: func(ctx context.Context, _ string) (*Listener, error) {
			out, err := c.elb.DescribeListeners(ctx, &elbv2.DescribeListenersInput{
				LoadBalancerArn: aws.String(opts.LoadBalancerARN),
			})
			if err != nil {
				return nil, err
			}
			for i := range out.Listeners {
				if aws.ToInt32(out.Listeners[i].Port) == opts.Port {
					existing = &out.Listeners[i]
					return toListener(*existing), nil
				}
			}
			return nil, nil
		},
		Create: func(ctx context.Context) (*Listener, error) {
			in := &elbv2.CreateListenerInput{
				LoadBalancerArn: aws.String(opts.LoadBalancerARN),
				Port:            aws.Int32(opts.Port),
				Protocol:        elbtypes.ProtocolEnum(opts.Protocol),
				DefaultActions:  []elbtypes.Action{toAction(opts.DefaultAction)},
				Tags:            elbTags(opts.Tags),
			}
			if opts.CertificateARN != "" {
				in.Certificates = []elbtypes.Certificate{{CertificateArn: aws.String(opts.CertificateARN)}}
			}
			out, err := c.elb.CreateListener(ctx, in)
			if err != nil {
				return nil, err
			}
			if len(out.Listeners) == 0 {
				return nil, fmt.Errorf("no listener returned")
			}
			return toListener(out.Listeners[0]), nil
		},
		Validate: func(l *Listener) error {
			if l.Protocol != opts.Protocol {
				return fmt.Errorf("port %d is served as %s", opts.Port, l.Protocol)
			}
			return nil
		},
		Update: func(ctx context.Context, l *Listener) error {
			if listenerMatches(existing, opts) {
				return nil
			}
			in := &elbv2.ModifyListenerInput{
				ListenerArn:    aws.String(l.ARN),
				DefaultActions: []elbtypes.Action{toAction(opts.DefaultAction)},
			}
			if opts.CertificateARN != "" {
				in.Certificates = []elbtypes.Certificate{{CertificateArn: aws.String(opts.CertificateARN)}}
			}
			if _, err := c.elb.ModifyListener(ctx, in); err != nil {
				return err
			}
			l.DefaultTargetGroupARN = opts.DefaultAction.TargetGroupARN
			return nil
		},
	}).Execute(ctx, c)
}

func listenerMatches(l *elbtypes.Listener, opts ListenerOpts) bool {
	if l == nil || len(l.DefaultActions) != 1 {
		return false
	}
	if opts.CertificateARN != "" {
		if len(l.Certificates) == 0 || aws.ToString(l.Certificates[0].CertificateArn) != opts.CertificateARN {
			return false
		}
	}

	a := l.DefaultActions[0]
	if opts.DefaultAction.FixedResponse != nil {
		fr := opts.DefaultAction.FixedResponse
		return a.Type == elbtypes.ActionTypeEnumFixedResponse &&
			a.FixedResponseConfig != nil &&
			aws.ToString(a.FixedResponseConfig.StatusCode) == fr.StatusCode &&
			aws.ToString(a.FixedResponseConfig.ContentType) == fr.ContentType &&
			aws.ToString(a.FixedResponseConfig.MessageBody) == fr.Body
	}
	return forwardTarget(l.DefaultActions) == opts.DefaultAction.TargetGroupARN
}

func ruleMatchesHost(r elbtypes.Rule, host string) bool {
	for _, cond := range r.Conditions {
		if aws.ToString(cond.Field) != conditionHostHeader {
			continue
		}
		values := cond.Values
		if cond.HostHeaderConfig != nil {
			values = append(values, cond.HostHeaderConfig.Values...)
		}
		for _, v := range values {
			if v == host {
				return true
			}
		}
	}
	return false
}

// EnsureListenerRule forwards requests for HostHeader to the target group.
// An existing rule for the host is repointed when it forwards elsewhere.
// When the requested priority is taken the next free one is used.
func (c *RealClient) EnsureListenerRule(ctx context.Context, opts ListenerRuleOpts) (string, error) {
	out, err := c.elb.DescribeRules(ctx, &elbv2.DescribeRulesInput{
		ListenerArn: aws.String(opts.ListenerARN),
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe rules: %w", err)
	}
	for _, r := range out.Rules {
		if !ruleMatchesHost(r, opts.HostHeader) {
			continue
		}
		if forwardTarget(r.Actions) != opts.TargetGroupARN {
			c.logger.Info("updating listener rule target", "host", opts.HostHeader, "targetGroup", opts.TargetGroupARN)
			if _, err := c.elb.ModifyRule(ctx, &elbv2.ModifyRuleInput{
				RuleArn: r.RuleArn,
				Actions: []elbtypes.Action{toAction(ListenerAction{TargetGroupARN: opts.TargetGroupARN})},
			}); err != nil {
				return "", fmt.Errorf("failed to update rule for %s: %w", opts.HostHeader, err)
			}
		}
		return aws.ToString(r.RuleArn), nil
	}

	priority := opts.Priority
	for range maxRulePriorityAttempts {
		created, err := c.elb.CreateRule(ctx, &elbv2.CreateRuleInput{
			ListenerArn: aws.String(opts.ListenerARN),
			Priority:    aws.Int32(priority),
			Conditions: []elbtypes.RuleCondition{{
				Field:            aws.String(conditionHostHeader),
				HostHeaderConfig: &elbtypes.HostHeaderConditionConfig{Values: []string{opts.HostHeader}},
			}},
			Actions: []elbtypes.Action{toAction(ListenerAction{TargetGroupARN: opts.TargetGroupARN})},
			Tags:    elbTags(opts.Tags),
		})
		if hasErrorCode(err, "PriorityInUse") {
			priority++
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create rule for %s: %w", opts.HostHeader, err)
		}
		if len(created.Rules) == 0 {
			return "", fmt.Errorf("no rule returned for %s", opts.HostHeader)
		}
		return aws.ToString(created.Rules[0].RuleArn), nil
	}
	return "", fmt.Errorf("no free rule priority from %d for %s", opts.Priority, opts.HostHeader)
}
