package aws

import (
	"context"
	"fmt"
)

// MockClient is a mock implementation of InfrastructureManager.
// Every method delegates to its Func field when set and otherwise returns a
// deterministic fake derived from the arguments.
type MockClient struct {
	EnsureVPCFunc             func(ctx context.Context, name, cidr string, tags map[string]string) (*VPC, error)
	GetVPCFunc                func(ctx context.Context, name string) (*VPC, error)
	AvailabilityZonesFunc     func(ctx context.Context) ([]string, error)
	EnsureSubnetFunc          func(ctx context.Context, opts SubnetOpts) (*Subnet, error)
	ListSubnetsFunc           func(ctx context.Context, vpcID string) ([]*Subnet, error)
	EnsureInternetGatewayFunc func(ctx context.Context, vpcID, name string, tags map[string]string) (string, error)
	EnsureNATGatewayFunc      func(ctx context.Context, subnetID, name, eipName string, tags map[string]string) (string, error)
	EnsureRouteTableFunc      func(ctx context.Context, opts RouteTableOpts) (string, error)

	EnsureSecurityGroupFunc func(ctx context.Context, opts SecurityGroupOpts) (*SecurityGroup, error)
	GetSecurityGroupFunc    func(ctx context.Context, vpcID, name string) (*SecurityGroup, error)

	EnsureLoadBalancerFunc func(ctx context.Context, opts LoadBalancerOpts) (*LoadBalancer, error)
	GetLoadBalancerFunc    func(ctx context.Context, name string) (*LoadBalancer, error)
	EnsureTargetGroupFunc  func(ctx context.Context, opts TargetGroupOpts) (*TargetGroup, error)
	RegisterTargetFunc     func(ctx context.Context, targetGroupARN, targetID string, port int32) error
	EnsureListenerFunc     func(ctx context.Context, opts ListenerOpts) (*Listener, error)
	EnsureListenerRuleFunc func(ctx context.Context, opts ListenerRuleOpts) (string, error)

	EnsureCertificateFunc     func(ctx context.Context, domain string, tags map[string]string) (*Certificate, error)
	WaitCertificateIssuedFunc func(ctx context.Context, arn string) error

	FindHostedZoneFunc func(ctx context.Context, name string) (*HostedZone, error)
	UpsertRecordsFunc  func(ctx context.Context, zoneID string, records []RecordSet) error
	DeleteRecordsFunc  func(ctx context.Context, zoneID string, records []RecordSet) error

	EnsureClusterFunc          func(ctx context.Context, opts ClusterOpts) (*Cluster, error)
	EnsureLogGroupFunc         func(ctx context.Context, name string, retentionDays int32, tags map[string]string) error
	EnsureExecutionRoleFunc    func(ctx context.Context, name string, tags map[string]string) (string, error)
	RegisterTaskDefinitionFunc func(ctx context.Context, opts TaskDefinitionOpts) (string, error)
	EnsureServiceFunc          func(ctx context.Context, opts ServiceOpts) (*Service, error)
	WaitServiceStableFunc      func(ctx context.Context, cluster, service string) error

	EnsureFileSystemFunc          func(ctx context.Context, opts FileSystemOpts) (*FileSystem, error)
	EnsureMountTargetFunc         func(ctx context.Context, fileSystemID, subnetID string, securityGroupIDs []string) (string, error)
	WaitMountTargetsAvailableFunc func(ctx context.Context, fileSystemID string) error
	EnsureAccessPointFunc         func(ctx context.Context, opts AccessPointOpts) (*AccessPoint, error)

	CallerIdentityFunc func(ctx context.Context) (*Identity, error)

	DeleteServiceFunc                func(ctx context.Context, cluster, name string) error
	DeregisterTaskDefinitionsFunc    func(ctx context.Context, family string) error
	DeleteLogGroupFunc               func(ctx context.Context, name string) error
	DeleteExecutionRoleFunc          func(ctx context.Context, name string) error
	DeleteLoadBalancerFunc           func(ctx context.Context, name string) error
	DeleteTargetGroupFunc            func(ctx context.Context, name string) error
	DeleteCertificatesFunc           func(ctx context.Context, domain, stack string) error
	CertificateValidationRecordsFunc func(ctx context.Context, domain, stack string) ([]DNSRecord, error)
	DeleteFileSystemFunc             func(ctx context.Context, creationToken string) error
	DeleteClusterFunc                func(ctx context.Context, name string) error
	DeleteNetworkFunc                func(ctx context.Context, vpcName, stack string) error
}

// Ensure interface compliance
var _ InfrastructureManager = (*MockClient)(nil)

func (m *MockClient) EnsureVPC(ctx context.Context, name, cidr string, tags map[string]string) (*VPC, error) {
	if m.EnsureVPCFunc != nil {
		return m.EnsureVPCFunc(ctx, name, cidr, tags)
	}
	return &VPC{ID: "vpc-mock", Name: name, CIDR: cidr}, nil
}

func (m *MockClient) GetVPC(ctx context.Context, name string) (*VPC, error) {
	if m.GetVPCFunc != nil {
		return m.GetVPCFunc(ctx, name)
	}
	return &VPC{ID: "vpc-mock", Name: name, CIDR: "10.0.0.0/16"}, nil
}

func (m *MockClient) AvailabilityZones(ctx context.Context) ([]string, error) {
	if m.AvailabilityZonesFunc != nil {
		return m.AvailabilityZonesFunc(ctx)
	}
	return []string{"eu-west-1a", "eu-west-1b", "eu-west-1c"}, nil
}

func (m *MockClient) EnsureSubnet(ctx context.Context, opts SubnetOpts) (*Subnet, error) {
	if m.EnsureSubnetFunc != nil {
		return m.EnsureSubnetFunc(ctx, opts)
	}
	return &Subnet{
		ID:               "subnet-" + opts.Name,
		Name:             opts.Name,
		AvailabilityZone: opts.AvailabilityZone,
		CIDR:             opts.CIDR,
		Tier:             opts.Tier,
	}, nil
}

func (m *MockClient) ListSubnets(ctx context.Context, vpcID string) ([]*Subnet, error) {
	if m.ListSubnetsFunc != nil {
		return m.ListSubnetsFunc(ctx, vpcID)
	}
	return nil, nil
}

func (m *MockClient) EnsureInternetGateway(ctx context.Context, vpcID, name string, tags map[string]string) (string, error) {
	if m.EnsureInternetGatewayFunc != nil {
		return m.EnsureInternetGatewayFunc(ctx, vpcID, name, tags)
	}
	return "igw-mock", nil
}

func (m *MockClient) EnsureNATGateway(ctx context.Context, subnetID, name, eipName string, tags map[string]string) (string, error) {
	if m.EnsureNATGatewayFunc != nil {
		return m.EnsureNATGatewayFunc(ctx, subnetID, name, eipName, tags)
	}
	return "nat-" + name, nil
}

func (m *MockClient) EnsureRouteTable(ctx context.Context, opts RouteTableOpts) (string, error) {
	if m.EnsureRouteTableFunc != nil {
		return m.EnsureRouteTableFunc(ctx, opts)
	}
	return "rtb-" + opts.Name, nil
}

func (m *MockClient) EnsureSecurityGroup(ctx context.Context, opts SecurityGroupOpts) (*SecurityGroup, error) {
	if m.EnsureSecurityGroupFunc != nil {
		return m.EnsureSecurityGroupFunc(ctx, opts)
	}
	return &SecurityGroup{ID: "sg-" + opts.Name, Name: opts.Name}, nil
}

func (m *MockClient) GetSecurityGroup(ctx context.Context, vpcID, name string) (*SecurityGroup, error) {
	if m.GetSecurityGroupFunc != nil {
		return m.GetSecurityGroupFunc(ctx, vpcID, name)
	}
	return &SecurityGroup{ID: "sg-" + name, Name: name}, nil
}

func (m *MockClient) EnsureLoadBalancer(ctx context.Context, opts LoadBalancerOpts) (*LoadBalancer, error) {
	if m.EnsureLoadBalancerFunc != nil {
		return m.EnsureLoadBalancerFunc(ctx, opts)
	}
	return &LoadBalancer{
		ARN:                   "arn:lb:" + opts.Name,
		Name:                  opts.Name,
		Type:                  opts.Type,
		DNSName:               opts.Name + ".elb.amazonaws.com",
		CanonicalHostedZoneID: "Z-LB",
	}, nil
}

func (m *MockClient) GetLoadBalancer(ctx context.Context, name string) (*LoadBalancer, error) {
	if m.GetLoadBalancerFunc != nil {
		return m.GetLoadBalancerFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockClient) EnsureTargetGroup(ctx context.Context, opts TargetGroupOpts) (*TargetGroup, error) {
	if m.EnsureTargetGroupFunc != nil {
		return m.EnsureTargetGroupFunc(ctx, opts)
	}
	return &TargetGroup{
		ARN:        "arn:tg:" + opts.Name,
		Name:       opts.Name,
		Port:       opts.Port,
		Protocol:   opts.Protocol,
		TargetType: opts.TargetType,
	}, nil
}

func (m *MockClient) RegisterTarget(ctx context.Context, targetGroupARN, targetID string, port int32) error {
	if m.RegisterTargetFunc != nil {
		return m.RegisterTargetFunc(ctx, targetGroupARN, targetID, port)
	}
	return nil
}

func (m *MockClient) EnsureListener(ctx context.Context, opts ListenerOpts) (*Listener, error) {
	if m.EnsureListenerFunc != nil {
		return m.EnsureListenerFunc(ctx, opts)
	}
	return &Listener{
		ARN:                   fmt.Sprintf("%s:listener:%s:%d", opts.LoadBalancerARN, opts.Protocol, opts.Port),
		LoadBalancerARN:       opts.LoadBalancerARN,
		Port:                  opts.Port,
		Protocol:              opts.Protocol,
		DefaultTargetGroupARN: opts.DefaultAction.TargetGroupARN,
	}, nil
}

func (m *MockClient) EnsureListenerRule(ctx context.Context, opts ListenerRuleOpts) (string, error) {
	if m.EnsureListenerRuleFunc != nil {
		return m.EnsureListenerRuleFunc(ctx, opts)
	}
	return opts.ListenerARN + ":rule:" + opts.HostHeader, nil
}

func (m *MockClient) EnsureCertificate(ctx context.Context, domain string, tags map[string]string) (*Certificate, error) {
	if m.EnsureCertificateFunc != nil {
		return m.EnsureCertificateFunc(ctx, domain, tags)
	}
	return &Certificate{
		ARN:    "arn:acm:" + domain,
		Domain: domain,
		Status: CertificateStatusPendingValidation,
		ValidationRecords: []DNSRecord{
			{Name: "_validate." + domain, Type: "CNAME", Value: "_token.acm-validations.aws."},
		},
	}, nil
}

func (m *MockClient) WaitCertificateIssued(ctx context.Context, arn string) error {
	if m.WaitCertificateIssuedFunc != nil {
		return m.WaitCertificateIssuedFunc(ctx, arn)
	}
	return nil
}

func (m *MockClient) FindHostedZone(ctx context.Context, name string) (*HostedZone, error) {
	if m.FindHostedZoneFunc != nil {
		return m.FindHostedZoneFunc(ctx, name)
	}
	return &HostedZone{ID: "Z-MOCK", Name: name}, nil
}

func (m *MockClient) UpsertRecords(ctx context.Context, zoneID string, records []RecordSet) error {
	if m.UpsertRecordsFunc != nil {
		return m.UpsertRecordsFunc(ctx, zoneID, records)
	}
	return nil
}

func (m *MockClient) DeleteRecords(ctx context.Context, zoneID string, records []RecordSet) error {
	if m.DeleteRecordsFunc != nil {
		return m.DeleteRecordsFunc(ctx, zoneID, records)
	}
	return nil
}

func (m *MockClient) EnsureCluster(ctx context.Context, opts ClusterOpts) (*Cluster, error) {
	if m.EnsureClusterFunc != nil {
		return m.EnsureClusterFunc(ctx, opts)
	}
	return &Cluster{ARN: "arn:ecs:cluster/" + opts.Name, Name: opts.Name}, nil
}

func (m *MockClient) EnsureLogGroup(ctx context.Context, name string, retentionDays int32, tags map[string]string) error {
	if m.EnsureLogGroupFunc != nil {
		return m.EnsureLogGroupFunc(ctx, name, retentionDays, tags)
	}
	return nil
}

func (m *MockClient) EnsureExecutionRole(ctx context.Context, name string, tags map[string]string) (string, error) {
	if m.EnsureExecutionRoleFunc != nil {
		return m.EnsureExecutionRoleFunc(ctx, name, tags)
	}
	return "arn:iam:role/" + name, nil
}

func (m *MockClient) RegisterTaskDefinition(ctx context.Context, opts TaskDefinitionOpts) (string, error) {
	if m.RegisterTaskDefinitionFunc != nil {
		return m.RegisterTaskDefinitionFunc(ctx, opts)
	}
	return "arn:ecs:task-definition/" + opts.Family + ":1", nil
}

func (m *MockClient) EnsureService(ctx context.Context, opts ServiceOpts) (*Service, error) {
	if m.EnsureServiceFunc != nil {
		return m.EnsureServiceFunc(ctx, opts)
	}
	return &Service{
		ARN:          "arn:ecs:service/" + opts.Name,
		Name:         opts.Name,
		Status:       "ACTIVE",
		DesiredCount: opts.DesiredCount,
		RunningCount: opts.DesiredCount,
	}, nil
}

func (m *MockClient) WaitServiceStable(ctx context.Context, cluster, service string) error {
	if m.WaitServiceStableFunc != nil {
		return m.WaitServiceStableFunc(ctx, cluster, service)
	}
	return nil
}

func (m *MockClient) EnsureFileSystem(ctx context.Context, opts FileSystemOpts) (*FileSystem, error) {
	if m.EnsureFileSystemFunc != nil {
		return m.EnsureFileSystemFunc(ctx, opts)
	}
	return &FileSystem{ID: "fs-mock", ARN: "arn:efs:fs-mock"}, nil
}

func (m *MockClient) EnsureMountTarget(ctx context.Context, fileSystemID, subnetID string, securityGroupIDs []string) (string, error) {
	if m.EnsureMountTargetFunc != nil {
		return m.EnsureMountTargetFunc(ctx, fileSystemID, subnetID, securityGroupIDs)
	}
	return "fsmt-" + subnetID, nil
}

func (m *MockClient) WaitMountTargetsAvailable(ctx context.Context, fileSystemID string) error {
	if m.WaitMountTargetsAvailableFunc != nil {
		return m.WaitMountTargetsAvailableFunc(ctx, fileSystemID)
	}
	return nil
}

func (m *MockClient) EnsureAccessPoint(ctx context.Context, opts AccessPointOpts) (*AccessPoint, error) {
	if m.EnsureAccessPointFunc != nil {
		return m.EnsureAccessPointFunc(ctx, opts)
	}
	return &AccessPoint{ID: "fsap-mock", ARN: "arn:efs:fsap-mock"}, nil
}

func (m *MockClient) CallerIdentity(ctx context.Context) (*Identity, error) {
	if m.CallerIdentityFunc != nil {
		return m.CallerIdentityFunc(ctx)
	}
	return &Identity{Account: "123456789012", ARN: "arn:aws:iam::123456789012:user/mock", UserID: "AIDMOCK"}, nil
}

func (m *MockClient) DeleteService(ctx context.Context, cluster, name string) error {
	if m.DeleteServiceFunc != nil {
		return m.DeleteServiceFunc(ctx, cluster, name)
	}
	return nil
}

func (m *MockClient) DeregisterTaskDefinitions(ctx context.Context, family string) error {
	if m.DeregisterTaskDefinitionsFunc != nil {
		return m.DeregisterTaskDefinitionsFunc(ctx, family)
	}
	return nil
}

func (m *MockClient) DeleteLogGroup(ctx context.Context, name string) error {
	if m.DeleteLogGroupFunc != nil {
		return m.DeleteLogGroupFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) DeleteExecutionRole(ctx context.Context, name string) error {
	if m.DeleteExecutionRoleFunc != nil {
		return m.DeleteExecutionRoleFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) DeleteLoadBalancer(ctx context.Context, name string) error {
	if m.DeleteLoadBalancerFunc != nil {
		return m.DeleteLoadBalancerFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) DeleteTargetGroup(ctx context.Context, name string) error {
	if m.DeleteTargetGroupFunc != nil {
		return m.DeleteTargetGroupFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) DeleteCertificates(ctx context.Context, domain, stack string) error {
	if m.DeleteCertificatesFunc != nil {
		return m.DeleteCertificatesFunc(ctx, domain, stack)
	}
	return nil
}

func (m *MockClient) CertificateValidationRecords(ctx context.Context, domain, stack string) ([]DNSRecord, error) {
	if m.CertificateValidationRecordsFunc != nil {
		return m.CertificateValidationRecordsFunc(ctx, domain, stack)
	}
	return nil, nil
}

func (m *MockClient) DeleteFileSystem(ctx context.Context, creationToken string) error {
	if m.DeleteFileSystemFunc != nil {
		return m.DeleteFileSystemFunc(ctx, creationToken)
	}
	return nil
}

func (m *MockClient) DeleteCluster(ctx context.Context, name string) error {
	if m.DeleteClusterFunc != nil {
		return m.DeleteClusterFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) DeleteNetwork(ctx context.Context, vpcName, stack string) error {
	if m.DeleteNetworkFunc != nil {
		return m.DeleteNetworkFunc(ctx, vpcName, stack)
	}
	return nil
}
