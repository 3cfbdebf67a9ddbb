package aws

import (
	"context"
	"sync"

	"github.com/homelab-infra/unifictl/internal/config"

	"github.com/aws/aws-sdk-go-v2/service/acm"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/efs"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/smithy-go"
)

// The fakes embed the API interface so that calling a method a test did not
// stub panics instead of silently succeeding.

func newTestClient(opts ...ClientOption) *RealClient {
	return newClient("eu-west-1", append([]ClientOption{WithTimeouts(config.TestTimeouts())}, opts...)...)
}

func apiErr(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: code}
}

// recorder collects the names of SDK calls in order.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type fakeEC2 struct {
	EC2API
	recorder

	describeVpcs              func(*ec2.DescribeVpcsInput) (*ec2.DescribeVpcsOutput, error)
	createVpc                 func(*ec2.CreateVpcInput) (*ec2.CreateVpcOutput, error)
	modifyVpcAttribute        func(*ec2.ModifyVpcAttributeInput) (*ec2.ModifyVpcAttributeOutput, error)
	describeAvailabilityZones func(*ec2.DescribeAvailabilityZonesInput) (*ec2.DescribeAvailabilityZonesOutput, error)
	describeSubnets           func(*ec2.DescribeSubnetsInput) (*ec2.DescribeSubnetsOutput, error)
	createSubnet              func(*ec2.CreateSubnetInput) (*ec2.CreateSubnetOutput, error)
	modifySubnetAttribute     func(*ec2.ModifySubnetAttributeInput) (*ec2.ModifySubnetAttributeOutput, error)
	describeNatGateways       func(*ec2.DescribeNatGatewaysInput) (*ec2.DescribeNatGatewaysOutput, error)
	createNatGateway          func(*ec2.CreateNatGatewayInput) (*ec2.CreateNatGatewayOutput, error)
	describeAddresses         func(*ec2.DescribeAddressesInput) (*ec2.DescribeAddressesOutput, error)
	allocateAddress           func(*ec2.AllocateAddressInput) (*ec2.AllocateAddressOutput, error)
	describeRouteTables       func(*ec2.DescribeRouteTablesInput) (*ec2.DescribeRouteTablesOutput, error)
	createRouteTable          func(*ec2.CreateRouteTableInput) (*ec2.CreateRouteTableOutput, error)
	createRoute               func(*ec2.CreateRouteInput) (*ec2.CreateRouteOutput, error)
	associateRouteTable       func(*ec2.AssociateRouteTableInput) (*ec2.AssociateRouteTableOutput, error)
	describeSecurityGroups    func(*ec2.DescribeSecurityGroupsInput) (*ec2.DescribeSecurityGroupsOutput, error)
	createSecurityGroup       func(*ec2.CreateSecurityGroupInput) (*ec2.CreateSecurityGroupOutput, error)
	authorizeIngress          func(*ec2.AuthorizeSecurityGroupIngressInput) (*ec2.AuthorizeSecurityGroupIngressOutput, error)
	authorizeEgress           func(*ec2.AuthorizeSecurityGroupEgressInput) (*ec2.AuthorizeSecurityGroupEgressOutput, error)
}

func (f *fakeEC2) DescribeVpcs(_ context.Context, in *ec2.DescribeVpcsInput, _ ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error) {
	f.record("DescribeVpcs")
	return f.describeVpcs(in)
}

func (f *fakeEC2) CreateVpc(_ context.Context, in *ec2.CreateVpcInput, _ ...func(*ec2.Options)) (*ec2.CreateVpcOutput, error) {
	f.record("CreateVpc")
	return f.createVpc(in)
}

func (f *fakeEC2) ModifyVpcAttribute(_ context.Context, in *ec2.ModifyVpcAttributeInput, _ ...func(*ec2.Options)) (*ec2.ModifyVpcAttributeOutput, error) {
	f.record("ModifyVpcAttribute")
	return f.modifyVpcAttribute(in)
}

func (f *fakeEC2) DescribeAvailabilityZones(_ context.Context, in *ec2.DescribeAvailabilityZonesInput, _ ...func(*ec2.Options)) (*ec2.DescribeAvailabilityZonesOutput, error) {
	f.record("DescribeAvailabilityZones")
	return f.describeAvailabilityZones(in)
}

func (f *fakeEC2) DescribeSubnets(_ context.Context, in *ec2.DescribeSubnetsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error) {
	f.record("DescribeSubnets")
	return f.describeSubnets(in)
}

func (f *fakeEC2) CreateSubnet(_ context.Context, in *ec2.CreateSubnetInput, _ ...func(*ec2.Options)) (*ec2.CreateSubnetOutput, error) {
	f.record("CreateSubnet")
	return f.createSubnet(in)
}

func (f *fakeEC2) ModifySubnetAttribute(_ context.Context, in *ec2.ModifySubnetAttributeInput, _ ...func(*ec2.Options)) (*ec2.ModifySubnetAttributeOutput, error) {
	f.record("ModifySubnetAttribute")
	return f.modifySubnetAttribute(in)
}

func (f *fakeEC2) DescribeNatGateways(_ context.Context, in *ec2.DescribeNatGatewaysInput, _ ...func(*ec2.Options)) (*ec2.DescribeNatGatewaysOutput, error) {
	f.record("DescribeNatGateways")
	return f.describeNatGateways(in)
}

func (f *fakeEC2) CreateNatGateway(_ context.Context, in *ec2.CreateNatGatewayInput, _ ...func(*ec2.Options)) (*ec2.CreateNatGatewayOutput, error) {
	f.record("CreateNatGateway")
	return f.createNatGateway(in)
}

func (f *fakeEC2) DescribeAddresses(_ context.Context, in *ec2.DescribeAddressesInput, _ ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error) {
	f.record("DescribeAddresses")
	return f.describeAddresses(in)
}

func (f *fakeEC2) AllocateAddress(_ context.Context, in *ec2.AllocateAddressInput, _ ...func(*ec2.Options)) (*ec2.AllocateAddressOutput, error) {
	f.record("AllocateAddress")
	return f.allocateAddress(in)
}

func (f *fakeEC2) DescribeRouteTables(_ context.Context, in *ec2.DescribeRouteTablesInput, _ ...func(*ec2.Options)) (*ec2.DescribeRouteTablesOutput, error) {
	f.record("DescribeRouteTables")
	return f.describeRouteTables(in)
}

func (f *fakeEC2) CreateRouteTable(_ context.Context, in *ec2.CreateRouteTableInput, _ ...func(*ec2.Options)) (*ec2.CreateRouteTableOutput, error) {
	f.record("CreateRouteTable")
	return f.createRouteTable(in)
}

func (f *fakeEC2) CreateRoute(_ context.Context, in *ec2.CreateRouteInput, _ ...func(*ec2.Options)) (*ec2.CreateRouteOutput, error) {
	f.record("CreateRoute")
	return f.createRoute(in)
}

func (f *fakeEC2) AssociateRouteTable(_ context.Context, in *ec2.AssociateRouteTableInput, _ ...func(*ec2.Options)) (*ec2.AssociateRouteTableOutput, error) {
	f.record("AssociateRouteTable")
	return f.associateRouteTable(in)
}

func (f *fakeEC2) DescribeSecurityGroups(_ context.Context, in *ec2.DescribeSecurityGroupsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error) {
	f.record("DescribeSecurityGroups")
	return f.describeSecurityGroups(in)
}

func (f *fakeEC2) CreateSecurityGroup(_ context.Context, in *ec2.CreateSecurityGroupInput, _ ...func(*ec2.Options)) (*ec2.CreateSecurityGroupOutput, error) {
	f.record("CreateSecurityGroup")
	return f.createSecurityGroup(in)
}

func (f *fakeEC2) AuthorizeSecurityGroupIngress(_ context.Context, in *ec2.AuthorizeSecurityGroupIngressInput, _ ...func(*ec2.Options)) (*ec2.AuthorizeSecurityGroupIngressOutput, error) {
	f.record("AuthorizeSecurityGroupIngress")
	return f.authorizeIngress(in)
}

func (f *fakeEC2) AuthorizeSecurityGroupEgress(_ context.Context, in *ec2.AuthorizeSecurityGroupEgressInput, _ ...func(*ec2.Options)) (*ec2.AuthorizeSecurityGroupEgressOutput, error) {
	f.record("AuthorizeSecurityGroupEgress")
	return f.authorizeEgress(in)
}

type fakeELB struct {
	ELBAPI
	recorder

	describeLoadBalancers func(*elbv2.DescribeLoadBalancersInput) (*elbv2.DescribeLoadBalancersOutput, error)
	createLoadBalancer    func(*elbv2.CreateLoadBalancerInput) (*elbv2.CreateLoadBalancerOutput, error)
	deleteLoadBalancer    func(*elbv2.DeleteLoadBalancerInput) (*elbv2.DeleteLoadBalancerOutput, error)
	describeTargetGroups  func(*elbv2.DescribeTargetGroupsInput) (*elbv2.DescribeTargetGroupsOutput, error)
	createTargetGroup     func(*elbv2.CreateTargetGroupInput) (*elbv2.CreateTargetGroupOutput, error)
	modifyTGAttributes    func(*elbv2.ModifyTargetGroupAttributesInput) (*elbv2.ModifyTargetGroupAttributesOutput, error)
	describeListeners     func(*elbv2.DescribeListenersInput) (*elbv2.DescribeListenersOutput, error)
	createListener        func(*elbv2.CreateListenerInput) (*elbv2.CreateListenerOutput, error)
	modifyListener        func(*elbv2.ModifyListenerInput) (*elbv2.ModifyListenerOutput, error)
	deleteListener        func(*elbv2.DeleteListenerInput) (*elbv2.DeleteListenerOutput, error)
	describeRules         func(*elbv2.DescribeRulesInput) (*elbv2.DescribeRulesOutput, error)
	createRule            func(*elbv2.CreateRuleInput) (*elbv2.CreateRuleOutput, error)
	modifyRule            func(*elbv2.ModifyRuleInput) (*elbv2.ModifyRuleOutput, error)
	registerTargets       func(*elbv2.RegisterTargetsInput) (*elbv2.RegisterTargetsOutput, error)
}

func (f *fakeELB) DescribeLoadBalancers(_ context.Context, in *elbv2.DescribeLoadBalancersInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeLoadBalancersOutput, error) {
	f.record("DescribeLoadBalancers")
	return f.describeLoadBalancers(in)
}

func (f *fakeELB) CreateLoadBalancer(_ context.Context, in *elbv2.CreateLoadBalancerInput, _ ...func(*elbv2.Options)) (*elbv2.CreateLoadBalancerOutput, error) {
	f.record("CreateLoadBalancer")
	return f.createLoadBalancer(in)
}

func (f *fakeELB) DeleteLoadBalancer(_ context.Context, in *elbv2.DeleteLoadBalancerInput, _ ...func(*elbv2.Options)) (*elbv2.DeleteLoadBalancerOutput, error) {
	f.record("DeleteLoadBalancer")
	return f.deleteLoadBalancer(in)
}

func (f *fakeELB) DescribeTargetGroups(_ context.Context, in *elbv2.DescribeTargetGroupsInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeTargetGroupsOutput, error) {
	f.record("DescribeTargetGroups")
	return f.describeTargetGroups(in)
}

func (f *fakeELB) CreateTargetGroup(_ context.Context, in *elbv2.CreateTargetGroupInput, _ ...func(*elbv2.Options)) (*elbv2.CreateTargetGroupOutput, error) {
	f.record("CreateTargetGroup")
	return f.createTargetGroup(in)
}

func (f *fakeELB) ModifyTargetGroupAttributes(_ context.Context, in *elbv2.ModifyTargetGroupAttributesInput, _ ...func(*elbv2.Options)) (*elbv2.ModifyTargetGroupAttributesOutput, error) {
	f.record("ModifyTargetGroupAttributes")
	return f.modifyTGAttributes(in)
}

func (f *fakeELB) DescribeListeners(_ context.Context, in *elbv2.DescribeListenersInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeListenersOutput, error) {
	f.record("DescribeListeners")
	return f.describeListeners(in)
}

func (f *fakeELB) CreateListener(_ context.Context, in *elbv2.CreateListenerInput, _ ...func(*elbv2.Options)) (*elbv2.CreateListenerOutput, error) {
	f.record("CreateListener")
	return f.createListener(in)
}

func (f *fakeELB) ModifyListener(_ context.Context, in *elbv2.ModifyListenerInput, _ ...func(*elbv2.Options)) (*elbv2.ModifyListenerOutput, error) {
	f.record("ModifyListener")
	return f.modifyListener(in)
}

func (f *fakeELB) DeleteListener(_ context.Context, in *elbv2.DeleteListenerInput, _ ...func(*elbv2.Options)) (*elbv2.DeleteListenerOutput, error) {
	f.record("DeleteListener")
	return f.deleteListener(in)
}

func (f *fakeELB) DescribeRules(_ context.Context, in *elbv2.DescribeRulesInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeRulesOutput, error) {
	f.record("DescribeRules")
	return f.describeRules(in)
}

func (f *fakeELB) CreateRule(_ context.Context, in *elbv2.CreateRuleInput, _ ...func(*elbv2.Options)) (*elbv2.CreateRuleOutput, error) {
	f.record("CreateRule")
	return f.createRule(in)
}

func (f *fakeELB) ModifyRule(_ context.Context, in *elbv2.ModifyRuleInput, _ ...func(*elbv2.Options)) (*elbv2.ModifyRuleOutput, error) {
	f.record("ModifyRule")
	return f.modifyRule(in)
}

func (f *fakeELB) RegisterTargets(_ context.Context, in *elbv2.RegisterTargetsInput, _ ...func(*elbv2.Options)) (*elbv2.RegisterTargetsOutput, error) {
	f.record("RegisterTargets")
	return f.registerTargets(in)
}

type fakeACM struct {
	ACMAPI
	recorder

	listCertificates    func(*acm.ListCertificatesInput) (*acm.ListCertificatesOutput, error)
	listTags            func(*acm.ListTagsForCertificateInput) (*acm.ListTagsForCertificateOutput, error)
	describeCertificate func(*acm.DescribeCertificateInput) (*acm.DescribeCertificateOutput, error)
	requestCertificate  func(*acm.RequestCertificateInput) (*acm.RequestCertificateOutput, error)
	deleteCertificate   func(*acm.DeleteCertificateInput) (*acm.DeleteCertificateOutput, error)
}

func (f *fakeACM) ListCertificates(_ context.Context, in *acm.ListCertificatesInput, _ ...func(*acm.Options)) (*acm.ListCertificatesOutput, error) {
	f.record("ListCertificates")
	return f.listCertificates(in)
}

func (f *fakeACM) ListTagsForCertificate(_ context.Context, in *acm.ListTagsForCertificateInput, _ ...func(*acm.Options)) (*acm.ListTagsForCertificateOutput, error) {
	f.record("ListTagsForCertificate")
	return f.listTags(in)
}

func (f *fakeACM) DescribeCertificate(_ context.Context, in *acm.DescribeCertificateInput, _ ...func(*acm.Options)) (*acm.DescribeCertificateOutput, error) {
	f.record("DescribeCertificate")
	return f.describeCertificate(in)
}

func (f *fakeACM) RequestCertificate(_ context.Context, in *acm.RequestCertificateInput, _ ...func(*acm.Options)) (*acm.RequestCertificateOutput, error) {
	f.record("RequestCertificate")
	return f.requestCertificate(in)
}

func (f *fakeACM) DeleteCertificate(_ context.Context, in *acm.DeleteCertificateInput, _ ...func(*acm.Options)) (*acm.DeleteCertificateOutput, error) {
	f.record("DeleteCertificate")
	return f.deleteCertificate(in)
}

type fakeRoute53 struct {
	Route53API
	recorder

	listHostedZonesByName  func(*route53.ListHostedZonesByNameInput) (*route53.ListHostedZonesByNameOutput, error)
	changeRecordSets       func(*route53.ChangeResourceRecordSetsInput) (*route53.ChangeResourceRecordSetsOutput, error)
	getChange              func(*route53.GetChangeInput) (*route53.GetChangeOutput, error)
	listResourceRecordSets func(*route53.ListResourceRecordSetsInput) (*route53.ListResourceRecordSetsOutput, error)
}

func (f *fakeRoute53) ListHostedZonesByName(_ context.Context, in *route53.ListHostedZonesByNameInput, _ ...func(*route53.Options)) (*route53.ListHostedZonesByNameOutput, error) {
	f.record("ListHostedZonesByName")
	return f.listHostedZonesByName(in)
}

func (f *fakeRoute53) ChangeResourceRecordSets(_ context.Context, in *route53.ChangeResourceRecordSetsInput, _ ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error) {
	f.record("ChangeResourceRecordSets")
	return f.changeRecordSets(in)
}

func (f *fakeRoute53) GetChange(_ context.Context, in *route53.GetChangeInput, _ ...func(*route53.Options)) (*route53.GetChangeOutput, error) {
	f.record("GetChange")
	return f.getChange(in)
}

func (f *fakeRoute53) ListResourceRecordSets(_ context.Context, in *route53.ListResourceRecordSetsInput, _ ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error) {
	f.record("ListResourceRecordSets")
	return f.listResourceRecordSets(in)
}

type fakeECS struct {
	ECSAPI
	recorder

	describeClusters         func(*ecs.DescribeClustersInput) (*ecs.DescribeClustersOutput, error)
	createCluster            func(*ecs.CreateClusterInput) (*ecs.CreateClusterOutput, error)
	putCapacityProviders     func(*ecs.PutClusterCapacityProvidersInput) (*ecs.PutClusterCapacityProvidersOutput, error)
	listTaskDefinitions      func(*ecs.ListTaskDefinitionsInput) (*ecs.ListTaskDefinitionsOutput, error)
	describeTaskDefinition   func(*ecs.DescribeTaskDefinitionInput) (*ecs.DescribeTaskDefinitionOutput, error)
	registerTaskDefinition   func(*ecs.RegisterTaskDefinitionInput) (*ecs.RegisterTaskDefinitionOutput, error)
	deregisterTaskDefinition func(*ecs.DeregisterTaskDefinitionInput) (*ecs.DeregisterTaskDefinitionOutput, error)
	describeServices         func(*ecs.DescribeServicesInput) (*ecs.DescribeServicesOutput, error)
	createService            func(*ecs.CreateServiceInput) (*ecs.CreateServiceOutput, error)
	updateService            func(*ecs.UpdateServiceInput) (*ecs.UpdateServiceOutput, error)
	deleteService            func(*ecs.DeleteServiceInput) (*ecs.DeleteServiceOutput, error)
}

func (f *fakeECS) DescribeClusters(_ context.Context, in *ecs.DescribeClustersInput, _ ...func(*ecs.Options)) (*ecs.DescribeClustersOutput, error) {
	f.record("DescribeClusters")
	return f.describeClusters(in)
}

func (f *fakeECS) CreateCluster(_ context.Context, in *ecs.CreateClusterInput, _ ...func(*ecs.Options)) (*ecs.CreateClusterOutput, error) {
	f.record("CreateCluster")
	return f.createCluster(in)
}

func (f *fakeECS) PutClusterCapacityProviders(_ context.Context, in *ecs.PutClusterCapacityProvidersInput, _ ...func(*ecs.Options)) (*ecs.PutClusterCapacityProvidersOutput, error) {
	f.record("PutClusterCapacityProviders")
	return f.putCapacityProviders(in)
}

func (f *fakeECS) ListTaskDefinitions(_ context.Context, in *ecs.ListTaskDefinitionsInput, _ ...func(*ecs.Options)) (*ecs.ListTaskDefinitionsOutput, error) {
	f.record("ListTaskDefinitions")
	return f.listTaskDefinitions(in)
}

func (f *fakeECS) DescribeTaskDefinition(_ context.Context, in *ecs.DescribeTaskDefinitionInput, _ ...func(*ecs.Options)) (*ecs.DescribeTaskDefinitionOutput, error) {
	f.record("DescribeTaskDefinition")
	return f.describeTaskDefinition(in)
}

func (f *fakeECS) RegisterTaskDefinition(_ context.Context, in *ecs.RegisterTaskDefinitionInput, _ ...func(*ecs.Options)) (*ecs.RegisterTaskDefinitionOutput, error) {
	f.record("RegisterTaskDefinition")
	return f.registerTaskDefinition(in)
}

func (f *fakeECS) DeregisterTaskDefinition(_ context.Context, in *ecs.DeregisterTaskDefinitionInput, _ ...func(*ecs.Options)) (*ecs.DeregisterTaskDefinitionOutput, error) {
	f.record("DeregisterTaskDefinition")
	return f.deregisterTaskDefinition(in)
}

func (f *fakeECS) DescribeServices(_ context.Context, in *ecs.DescribeServicesInput, _ ...func(*ecs.Options)) (*ecs.DescribeServicesOutput, error) {
	f.record("DescribeServices")
	return f.describeServices(in)
}

func (f *fakeECS) CreateService(_ context.Context, in *ecs.CreateServiceInput, _ ...func(*ecs.Options)) (*ecs.CreateServiceOutput, error) {
	f.record("CreateService")
	return f.createService(in)
}

func (f *fakeECS) UpdateService(_ context.Context, in *ecs.UpdateServiceInput, _ ...func(*ecs.Options)) (*ecs.UpdateServiceOutput, error) {
	f.record("UpdateService")
	return f.updateService(in)
}

func (f *fakeECS) DeleteService(_ context.Context, in *ecs.DeleteServiceInput, _ ...func(*ecs.Options)) (*ecs.DeleteServiceOutput, error) {
	f.record("DeleteService")
	return f.deleteService(in)
}

type fakeEFS struct {
	EFSAPI
	recorder

	describeFileSystems  func(*efs.DescribeFileSystemsInput) (*efs.DescribeFileSystemsOutput, error)
	createFileSystem     func(*efs.CreateFileSystemInput) (*efs.CreateFileSystemOutput, error)
	putLifecycle         func(*efs.PutLifecycleConfigurationInput) (*efs.PutLifecycleConfigurationOutput, error)
	describeMountTargets func(*efs.DescribeMountTargetsInput) (*efs.DescribeMountTargetsOutput, error)
	createMountTarget    func(*efs.CreateMountTargetInput) (*efs.CreateMountTargetOutput, error)
	describeAccessPoints func(*efs.DescribeAccessPointsInput) (*efs.DescribeAccessPointsOutput, error)
	createAccessPoint    func(*efs.CreateAccessPointInput) (*efs.CreateAccessPointOutput, error)
}

func (f *fakeEFS) DescribeFileSystems(_ context.Context, in *efs.DescribeFileSystemsInput, _ ...func(*efs.Options)) (*efs.DescribeFileSystemsOutput, error) {
	f.record("DescribeFileSystems")
	return f.describeFileSystems(in)
}

func (f *fakeEFS) CreateFileSystem(_ context.Context, in *efs.CreateFileSystemInput, _ ...func(*efs.Options)) (*efs.CreateFileSystemOutput, error) {
	f.record("CreateFileSystem")
	return f.createFileSystem(in)
}

func (f *fakeEFS) PutLifecycleConfiguration(_ context.Context, in *efs.PutLifecycleConfigurationInput, _ ...func(*efs.Options)) (*efs.PutLifecycleConfigurationOutput, error) {
	f.record("PutLifecycleConfiguration")
	return f.putLifecycle(in)
}

func (f *fakeEFS) DescribeMountTargets(_ context.Context, in *efs.DescribeMountTargetsInput, _ ...func(*efs.Options)) (*efs.DescribeMountTargetsOutput, error) {
	f.record("DescribeMountTargets")
	return f.describeMountTargets(in)
}

func (f *fakeEFS) CreateMountTarget(_ context.Context, in *efs.CreateMountTargetInput, _ ...func(*efs.Options)) (*efs.CreateMountTargetOutput, error) {
	f.record("CreateMountTarget")
	return f.createMountTarget(in)
}

func (f *fakeEFS) DescribeAccessPoints(_ context.Context, in *efs.DescribeAccessPointsInput, _ ...func(*efs.Options)) (*efs.DescribeAccessPointsOutput, error) {
	f.record("DescribeAccessPoints")
	return f.describeAccessPoints(in)
}

func (f *fakeEFS) CreateAccessPoint(_ context.Context, in *efs.CreateAccessPointInput, _ ...func(*efs.Options)) (*efs.CreateAccessPointOutput, error) {
	f.record("CreateAccessPoint")
	return f.createAccessPoint(in)
}

type fakeLogs struct {
	LogsAPI
	recorder

	createLogGroup     func(*cloudwatchlogs.CreateLogGroupInput) (*cloudwatchlogs.CreateLogGroupOutput, error)
	putRetentionPolicy func(*cloudwatchlogs.PutRetentionPolicyInput) (*cloudwatchlogs.PutRetentionPolicyOutput, error)
}

func (f *fakeLogs) CreateLogGroup(_ context.Context, in *cloudwatchlogs.CreateLogGroupInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error) {
	f.record("CreateLogGroup")
	return f.createLogGroup(in)
}

func (f *fakeLogs) PutRetentionPolicy(_ context.Context, in *cloudwatchlogs.PutRetentionPolicyInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error) {
	f.record("PutRetentionPolicy")
	return f.putRetentionPolicy(in)
}

type fakeIAM struct {
	IAMAPI
	recorder

	getRole          func(*iam.GetRoleInput) (*iam.GetRoleOutput, error)
	createRole       func(*iam.CreateRoleInput) (*iam.CreateRoleOutput, error)
	attachRolePolicy func(*iam.AttachRolePolicyInput) (*iam.AttachRolePolicyOutput, error)
}

func (f *fakeIAM) GetRole(_ context.Context, in *iam.GetRoleInput, _ ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	f.record("GetRole")
	return f.getRole(in)
}

func (f *fakeIAM) CreateRole(_ context.Context, in *iam.CreateRoleInput, _ ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	f.record("CreateRole")
	return f.createRole(in)
}

func (f *fakeIAM) AttachRolePolicy(_ context.Context, in *iam.AttachRolePolicyInput, _ ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error) {
	f.record("AttachRolePolicy")
	return f.attachRolePolicy(in)
}
