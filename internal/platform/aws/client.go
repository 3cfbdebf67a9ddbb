package aws

import "context"

// NetworkManager defines the interface for managing the VPC and its plumbing.
type NetworkManager interface {
	EnsureVPC(ctx context.Context, name, cidr string, tags map[string]string) (*VPC, error)
	// GetVPC returns nil if no VPC with the name exists.
	GetVPC(ctx context.Context, name string) (*VPC, error)
	// AvailabilityZones returns the zone names of the region in sorted order.
	AvailabilityZones(ctx context.Context) ([]string, error)
	EnsureSubnet(ctx context.Context, opts SubnetOpts) (*Subnet, error)
	ListSubnets(ctx context.Context, vpcID string) ([]*Subnet, error)
	EnsureInternetGateway(ctx context.Context, vpcID, name string, tags map[string]string) (string, error)
	// EnsureNATGateway allocates an Elastic IP named eipName if needed and
	// waits until the NAT gateway is available.
	EnsureNATGateway(ctx context.Context, subnetID, name, eipName string, tags map[string]string) (string, error)
	EnsureRouteTable(ctx context.Context, opts RouteTableOpts) (string, error)
}

// SecurityGroupManager defines the interface for managing security groups.
type SecurityGroupManager interface {
	EnsureSecurityGroup(ctx context.Context, opts SecurityGroupOpts) (*SecurityGroup, error)
	GetSecurityGroup(ctx context.Context, vpcID, name string) (*SecurityGroup, error)
}

// LoadBalancerManager defines the interface for managing ALBs, NLBs,
// listeners and target groups.
type LoadBalancerManager interface {
	EnsureLoadBalancer(ctx context.Context, opts LoadBalancerOpts) (*LoadBalancer, error)
	GetLoadBalancer(ctx context.Context, name string) (*LoadBalancer, error)
	EnsureTargetGroup(ctx context.Context, opts TargetGroupOpts) (*TargetGroup, error)
	RegisterTarget(ctx context.Context, targetGroupARN, targetID string, port int32) error
	EnsureListener(ctx context.Context, opts ListenerOpts) (*Listener, error)
	EnsureListenerRule(ctx context.Context, opts ListenerRuleOpts) (string, error)
}

// CertificateManager defines the interface for managing ACM certificates.
type CertificateManager interface {
	// EnsureCertificate requests a DNS validated certificate unless one for
	// the domain owned by the stack exists. The returned certificate carries
	// its validation records.
	EnsureCertificate(ctx context.Context, domain string, tags map[string]string) (*Certificate, error)
	WaitCertificateIssued(ctx context.Context, arn string) error
}

// DNSManager defines the interface for managing Route53 records.
type DNSManager interface {
	// FindHostedZone returns the public hosted zone with the given name.
	FindHostedZone(ctx context.Context, name string) (*HostedZone, error)
	UpsertRecords(ctx context.Context, zoneID string, records []RecordSet) error
	DeleteRecords(ctx context.Context, zoneID string, records []RecordSet) error
}

// ContainerManager defines the interface for managing ECS and its
// supporting log group and execution role.
type ContainerManager interface {
	EnsureCluster(ctx context.Context, opts ClusterOpts) (*Cluster, error)
	EnsureLogGroup(ctx context.Context, name string, retentionDays int32, tags map[string]string) error
	EnsureExecutionRole(ctx context.Context, name string, tags map[string]string) (string, error)
	// RegisterTaskDefinition returns the latest active revision of the
	// family when it already matches opts and registers a new one otherwise.
	RegisterTaskDefinition(ctx context.Context, opts TaskDefinitionOpts) (string, error)
	EnsureService(ctx context.Context, opts ServiceOpts) (*Service, error)
	WaitServiceStable(ctx context.Context, cluster, service string) error
}

// FileSystemManager defines the interface for managing EFS.
type FileSystemManager interface {
	EnsureFileSystem(ctx context.Context, opts FileSystemOpts) (*FileSystem, error)
	EnsureMountTarget(ctx context.Context, fileSystemID, subnetID string, securityGroupIDs []string) (string, error)
	WaitMountTargetsAvailable(ctx context.Context, fileSystemID string) error
	EnsureAccessPoint(ctx context.Context, opts AccessPointOpts) (*AccessPoint, error)
}

// IdentityManager resolves the caller identity.
type IdentityManager interface {
	CallerIdentity(ctx context.Context) (*Identity, error)
}

// CleanupManager defines the delete operations used by destroy. Every
// method succeeds when the resource is already gone.
type CleanupManager interface {
	DeleteService(ctx context.Context, cluster, name string) error
	DeregisterTaskDefinitions(ctx context.Context, family string) error
	DeleteLogGroup(ctx context.Context, name string) error
	DeleteExecutionRole(ctx context.Context, name string) error
	DeleteLoadBalancer(ctx context.Context, name string) error
	DeleteTargetGroup(ctx context.Context, name string) error
	DeleteCertificates(ctx context.Context, domain, stack string) error
	// CertificateValidationRecords returns the validation records of the
	// stack's certificate for domain, or nil when there is no certificate.
	CertificateValidationRecords(ctx context.Context, domain, stack string) ([]DNSRecord, error)
	DeleteFileSystem(ctx context.Context, creationToken string) error
	DeleteCluster(ctx context.Context, name string) error
	DeleteNetwork(ctx context.Context, vpcName, stack string) error
}

// InfrastructureManager combines all infrastructure interfaces.
type InfrastructureManager interface {
	NetworkManager
	SecurityGroupManager
	LoadBalancerManager
	CertificateManager
	DNSManager
	ContainerManager
	FileSystemManager
	IdentityManager
	CleanupManager
}
