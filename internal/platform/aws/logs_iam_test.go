package aws

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureLogGroup_ExistingStillSetsRetention(t *testing.T) {
	t.Parallel()

	var retention *cloudwatchlogs.PutRetentionPolicyInput
	fake := &fakeLogs{
		createLogGroup: func(_ *cloudwatchlogs.CreateLogGroupInput) (*cloudwatchlogs.CreateLogGroupOutput, error) {
			return nil, apiErr("ResourceAlreadyExistsException")
		},
		putRetentionPolicy: func(in *cloudwatchlogs.PutRetentionPolicyInput) (*cloudwatchlogs.PutRetentionPolicyOutput, error) {
			retention = in
			return &cloudwatchlogs.PutRetentionPolicyOutput{}, nil
		},
	}
	client := newTestClient(WithLogs(fake))

	require.NoError(t, client.EnsureLogGroup(context.Background(), "/unifictl/home/unifi-controller", 30, nil))
	require.NotNil(t, retention)
	assert.Equal(t, int32(30), aws.ToInt32(retention.RetentionInDays))
}

func TestEnsureLogGroup_CreateFails(t *testing.T) {
	t.Parallel()

	fake := &fakeLogs{
		createLogGroup: func(_ *cloudwatchlogs.CreateLogGroupInput) (*cloudwatchlogs.CreateLogGroupOutput, error) {
			return nil, apiErr("AccessDeniedException")
		},
	}
	client := newTestClient(WithLogs(fake))

	err := client.EnsureLogGroup(context.Background(), "/unifictl/home/unifi-controller", 30, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create log group")
}

func TestEnsureExecutionRole_CreatesAndAttachesPolicy(t *testing.T) {
	t.Parallel()

	var created *iam.CreateRoleInput
	var attached *iam.AttachRolePolicyInput
	fake := &fakeIAM{
		getRole: func(_ *iam.GetRoleInput) (*iam.GetRoleOutput, error) {
			return nil, apiErr("NoSuchEntity")
		},
		createRole: func(in *iam.CreateRoleInput) (*iam.CreateRoleOutput, error) {
			created = in
			return &iam.CreateRoleOutput{Role: &iamtypes.Role{Arn: aws.String("arn:iam:role/home-unifi-task-execution")}}, nil
		},
		attachRolePolicy: func(in *iam.AttachRolePolicyInput) (*iam.AttachRolePolicyOutput, error) {
			attached = in
			return &iam.AttachRolePolicyOutput{}, nil
		},
	}
	client := newTestClient(WithIAM(fake))

	arn, err := client.EnsureExecutionRole(context.Background(), "home-unifi-task-execution", nil)
	require.NoError(t, err)
	assert.Equal(t, "arn:iam:role/home-unifi-task-execution", arn)
	assert.Contains(t, aws.ToString(created.AssumeRolePolicyDocument), "ecs-tasks.amazonaws.com")
	assert.Equal(t, TaskExecutionPolicyARN, aws.ToString(attached.PolicyArn))
}

func TestEnsureExecutionRole_ExistingReattachesPolicy(t *testing.T) {
	t.Parallel()

	fake := &fakeIAM{
		getRole: func(_ *iam.GetRoleInput) (*iam.GetRoleOutput, error) {
			return &iam.GetRoleOutput{Role: &iamtypes.Role{Arn: aws.String("arn:iam:role/existing")}}, nil
		},
		attachRolePolicy: func(_ *iam.AttachRolePolicyInput) (*iam.AttachRolePolicyOutput, error) {
			return &iam.AttachRolePolicyOutput{}, nil
		},
	}
	client := newTestClient(WithIAM(fake))

	arn, err := client.EnsureExecutionRole(context.Background(), "existing", nil)
	require.NoError(t, err)
	assert.Equal(t, "arn:iam:role/existing", arn)
	assert.Equal(t, []string{"GetRole", "AttachRolePolicy"}, fake.Calls())
}
