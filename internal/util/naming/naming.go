package naming

import (
	"fmt"
	"strings"
)

// MaxELBNameLength is the AWS limit for load balancer and target group names.
const MaxELBNameLength = 32

func VPC(stack string) string {
	return fmt.Sprintf("%s-vpc", stack)
}

func Subnet(stack, tier, az string) string {
	return fmt.Sprintf("%s-%s-%s", stack, tier, az)
}

// SubnetSuffix is the part of a subnet name after the stack prefix. The
// stack name may itself contain a tier word, so only the suffix identifies
// the tier.
func SubnetSuffix(tier, az string) string {
	return "-" + tier + "-" + az
}

func InternetGateway(stack string) string {
	return fmt.Sprintf("%s-igw", stack)
}

func NATGateway(stack string, index int) string {
	return fmt.Sprintf("%s-nat-%d", stack, index)
}

func ElasticIP(stack string, index int) string {
	return fmt.Sprintf("%s-nat-eip-%d", stack, index)
}

func RouteTable(stack, tier string, index int) string {
	return fmt.Sprintf("%s-%s-rt-%d", stack, tier, index)
}

func Cluster(stack string) string {
	return fmt.Sprintf("%s-cluster", stack)
}

func Certificate(stack string) string {
	return fmt.Sprintf("%s-alb-cert", stack)
}

func ALBSecurityGroup(stack string) string {
	return fmt.Sprintf("%s-alb-sg", stack)
}

func ALB(stack string) string {
	return ELBName(fmt.Sprintf("%s-alb", stack))
}

func NLB(stack string) string {
	return ELBName(fmt.Sprintf("%s-nlb", stack))
}

// Listener returns the logical name of a listener, e.g. home-https-8443.
func Listener(prefix, protocol string, port int32) string {
	return fmt.Sprintf("%s-%s-%d", prefix, strings.ToLower(protocol), port)
}

// NLBTargetGroup is the default target group behind an NLB listener.
func NLBTargetGroup(prefix, protocol string, port int32) string {
	return ELBName(fmt.Sprintf("%s-%s-%d-tg", prefix, strings.ToLower(protocol), port))
}

// Controller is the component name of the Unifi controller.
func Controller(stack string) string {
	return fmt.Sprintf("%s-unifi", stack)
}

// ALBTargetGroup is an ALB target group owned by the controller component.
func ALBTargetGroup(component string, port int32) string {
	return ELBName(fmt.Sprintf("%s-alb-%d", component, port))
}

func TaskSecurityGroup(component string) string {
	return fmt.Sprintf("%s-fargate-task-sg", component)
}

func Service(component string) string {
	return fmt.Sprintf("%s-fargate-service", component)
}

func TaskFamily(component string) string {
	return component
}

func LogGroup(stack string) string {
	return fmt.Sprintf("/unifictl/%s/unifi-controller", stack)
}

func ExecutionRole(stack string) string {
	return fmt.Sprintf("%s-unifi-task-execution", stack)
}

func FileSystem(stack string) string {
	return fmt.Sprintf("%s-unifi-config", stack)
}

func AccessPoint(stack string) string {
	return fmt.Sprintf("%s-unifi-config-ap", stack)
}

func EFSSecurityGroup(stack string) string {
	return fmt.Sprintf("%s-efs-sg", stack)
}

// ELBName truncates name to the ELB limit and strips a trailing hyphen,
// which AWS rejects.
func ELBName(name string) string {
	if len(name) > MaxELBNameLength {
		name = name[:MaxELBNameLength]
	}
	return strings.TrimRight(name, "-")
}
