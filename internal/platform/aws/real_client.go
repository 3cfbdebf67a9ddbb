package aws

import (
	"context"
	"fmt"

	"github.com/homelab-infra/unifictl/internal/config"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/acm"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/efs"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/go-logr/logr"
)

// RealClient implements InfrastructureManager using the AWS SDK.
type RealClient struct {
	region   string
	timeouts *config.Timeouts
	logger   logr.Logger

	ec2     EC2API
	elb     ELBAPI
	acm     ACMAPI
	route53 Route53API
	ecs     ECSAPI
	efs     EFSAPI
	logs    LogsAPI
	iam     IAMAPI
	sts     STSAPI
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *RealClient) {
		c.timeouts = t
	}
}

// WithLogger sets the logger used for cleanup progress.
func WithLogger(l logr.Logger) ClientOption {
	return func(c *RealClient) {
		c.logger = l
	}
}

// WithEC2 sets a custom EC2 API (useful for testing).
func WithEC2(api EC2API) ClientOption {
	return func(c *RealClient) { c.ec2 = api }
}

// WithELB sets a custom Elastic Load Balancing v2 API.
func WithELB(api ELBAPI) ClientOption {
	return func(c *RealClient) { c.elb = api }
}

// WithACM sets a custom ACM API.
func WithACM(api ACMAPI) ClientOption {
	return func(c *RealClient) { c.acm = api }
}

// WithRoute53 sets a custom Route53 API.
func WithRoute53(api Route53API) ClientOption {
	return func(c *RealClient) { c.route53 = api }
}

// WithECS sets a custom ECS API.
func WithECS(api ECSAPI) ClientOption {
	return func(c *RealClient) { c.ecs = api }
}

// WithEFS sets a custom EFS API.
func WithEFS(api EFSAPI) ClientOption {
	return func(c *RealClient) { c.efs = api }
}

// WithLogs sets a custom CloudWatch Logs API.
func WithLogs(api LogsAPI) ClientOption {
	return func(c *RealClient) { c.logs = api }
}

// WithIAM sets a custom IAM API.
func WithIAM(api IAMAPI) ClientOption {
	return func(c *RealClient) { c.iam = api }
}

// WithSTS sets a custom STS API.
func WithSTS(api STSAPI) ClientOption {
	return func(c *RealClient) { c.sts = api }
}

// NewRealClient loads AWS credentials from the default chain (optionally
// for a named profile) and creates a client for region.
func NewRealClient(ctx context.Context, region, profile string, opts ...ClientOption) (*RealClient, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	c := &RealClient{
		region:   region,
		timeouts: config.LoadTimeouts(),
		logger:   logr.Discard(),
		ec2:      ec2.NewFromConfig(cfg),
		elb:      elbv2.NewFromConfig(cfg),
		acm:      acm.NewFromConfig(cfg),
		route53:  route53.NewFromConfig(cfg),
		ecs:      ecs.NewFromConfig(cfg),
		efs:      efs.NewFromConfig(cfg),
		logs:     cloudwatchlogs.NewFromConfig(cfg),
		iam:      iam.NewFromConfig(cfg),
		sts:      sts.NewFromConfig(cfg),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// newClient builds a RealClient from options only.
func newClient(region string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		region:   region,
		timeouts: config.LoadTimeouts(),
		logger:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Region returns the region the client operates in.
func (c *RealClient) Region() string {
	return c.region
}

var _ InfrastructureManager = (*RealClient)(nil)
