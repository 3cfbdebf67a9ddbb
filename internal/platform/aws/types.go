package aws

// VPC is the virtual network of a stack.
type VPC struct {
	ID   string
	Name string
	CIDR string
}

// Subnet is one subnet of a tier in one availability zone.
type Subnet struct {
	ID               string
	Name             string
	AvailabilityZone string
	CIDR             string
	Tier             string
}

// SubnetOpts describes a subnet to ensure.
type SubnetOpts struct {
	VPCID            string
	Name             string
	AvailabilityZone string
	CIDR             string
	Tier             string
	MapPublicIP      bool
	Tags             map[string]string
}

// RouteTableOpts describes a route table, its default route and associations.
// At most one of GatewayID and NATGatewayID is set; neither means no
// default route.
type RouteTableOpts struct {
	VPCID        string
	Name         string
	SubnetIDs    []string
	GatewayID    string
	NATGatewayID string
	Tags         map[string]string
}

// SecurityGroupRule is a single CIDR based permission. Protocol "-1" means all.
type SecurityGroupRule struct {
	Protocol    string
	FromPort    int32
	ToPort      int32
	CIDR        string
	Description string
}

// SecurityGroupOpts describes a security group and the rules it must carry.
// Empty Egress keeps the AWS default allow-all egress rule.
type SecurityGroupOpts struct {
	VPCID       string
	Name        string
	Description string
	Ingress     []SecurityGroupRule
	Egress      []SecurityGroupRule
	Tags        map[string]string
}

type SecurityGroup struct {
	ID   string
	Name string
}

// Load balancer types.
const (
	LoadBalancerTypeApplication = "application"
	LoadBalancerTypeNetwork     = "network"
)

// Target types.
const (
	TargetTypeIP  = "ip"
	TargetTypeALB = "alb"
)

// LoadBalancerOpts describes an internet-facing load balancer.
type LoadBalancerOpts struct {
	Name             string
	Type             string
	SubnetIDs        []string
	SecurityGroupIDs []string
	Tags             map[string]string
}

type LoadBalancer struct {
	ARN                   string
	Name                  string
	Type                  string
	DNSName               string
	CanonicalHostedZoneID string
}

// HealthCheck configures target group health checks.
type HealthCheck struct {
	Protocol string
	Path     string
	Port     string
	Matcher  string
}

// TargetGroupOpts describes a target group.
type TargetGroupOpts struct {
	Name                string
	VPCID               string
	Port                int32
	Protocol            string
	TargetType          string
	DeregistrationDelay *int32
	HealthCheck         *HealthCheck
	Tags                map[string]string
}

type TargetGroup struct {
	ARN        string
	Name       string
	Port       int32
	Protocol   string
	TargetType string
}

// FixedResponse is the body of a fixed-response listener action.
type FixedResponse struct {
	StatusCode  string
	ContentType string
	Body        string
}

// ListenerAction is the default action of a listener or the action of a
// rule. Exactly one of TargetGroupARN and FixedResponse is set.
type ListenerAction struct {
	TargetGroupARN string
	FixedResponse  *FixedResponse
}

// ListenerOpts describes a listener on a load balancer.
type ListenerOpts struct {
	LoadBalancerARN string
	Port            int32
	Protocol        string
	CertificateARN  string
	DefaultAction   ListenerAction
	Tags            map[string]string
}

// Listener is a load balancer listener. DefaultTargetGroupARN is empty
// when the default action does not forward.
type Listener struct {
	ARN                   string
	LoadBalancerARN       string
	Port                  int32
	Protocol              string
	DefaultTargetGroupARN string
}

// ListenerRuleOpts describes a host-header forwarding rule.
type ListenerRuleOpts struct {
	ListenerARN    string
	Priority       int32
	HostHeader     string
	TargetGroupARN string
	Tags           map[string]string
}

// Certificate is an ACM certificate and the DNS records that validate it.
type Certificate struct {
	ARN               string
	Domain            string
	Status            string
	ValidationRecords []DNSRecord
}

// Certificate statuses used by the provisioning phases.
const (
	CertificateStatusIssued            = "ISSUED"
	CertificateStatusPendingValidation = "PENDING_VALIDATION"
)

// DNSRecord is a plain name/type/value record.
type DNSRecord struct {
	Name  string
	Type  string
	Value string
}

type HostedZone struct {
	ID   string
	Name string
}

// AliasTarget points a Route53 record at an AWS resource.
type AliasTarget struct {
	DNSName              string
	HostedZoneID         string
	EvaluateTargetHealth bool
}

// RecordSet is a Route53 record set. Either Values or Alias is set.
type RecordSet struct {
	Name   string
	Type   string
	TTL    int64
	Values []string
	Alias  *AliasTarget
}

// ClusterOpts describes an ECS cluster.
type ClusterOpts struct {
	Name              string
	CapacityProviders []string
	Tags              map[string]string
}

type Cluster struct {
	ARN  string
	Name string
}

// PortMapping is a container port exposed by the task.
type PortMapping struct {
	ContainerPort int32
	Protocol      string
}

// EFSVolume mounts an EFS access point into the container.
type EFSVolume struct {
	Name          string
	FileSystemID  string
	AccessPointID string
	ContainerPath string
}

// TaskDefinitionOpts describes a single-container Fargate task definition.
type TaskDefinitionOpts struct {
	Family           string
	ContainerName    string
	Image            string
	TaskCPU          int
	TaskMemory       int
	ContainerCPU     int
	ContainerMemory  int
	Environment      map[string]string
	PortMappings     []PortMapping
	ExecutionRoleARN string
	LogGroup         string
	Region           string
	Volume           *EFSVolume
	Tags             map[string]string
}

// ServiceLoadBalancer binds a target group to a container port.
type ServiceLoadBalancer struct {
	TargetGroupARN string
	ContainerName  string
	ContainerPort  int32
}

// ServiceOpts describes a Fargate service. The capacity provider strategy
// is inherited from the cluster default.
type ServiceOpts struct {
	Cluster                string
	Name                   string
	TaskDefinitionARN      string
	DesiredCount           int32
	SubnetIDs              []string
	SecurityGroupIDs       []string
	LoadBalancers          []ServiceLoadBalancer
	HealthCheckGracePeriod int32
	Tags                   map[string]string
}

type Service struct {
	ARN          string
	Name         string
	Status       string
	DesiredCount int32
	RunningCount int32
}

// FileSystemOpts describes an encrypted EFS file system.
type FileSystemOpts struct {
	CreationToken string
	Tags          map[string]string
}

type FileSystem struct {
	ID  string
	ARN string
}

// AccessPointOpts describes an EFS access point with a POSIX identity.
type AccessPointOpts struct {
	FileSystemID string
	ClientToken  string
	UID          int64
	GID          int64
	Path         string
	Permissions  string
	Tags         map[string]string
}

type AccessPoint struct {
	ID  string
	ARN string
}

// Identity is the caller identity of the configured credentials.
type Identity struct {
	Account string
	ARN     string
	UserID  string
}
