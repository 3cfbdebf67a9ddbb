package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/iam"
)

// TaskExecutionPolicyARN is the managed policy that lets ECS pull images and
// write container logs.
const TaskExecutionPolicyARN = "arn:aws:iam::aws:policy/service-role/AmazonECSTaskExecutionRolePolicy"

const ecsTasksTrustPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"Service": "ecs-tasks.amazonaws.com"},
    "Action": "sts:AssumeRole"
  }]
}`

// EnsureLogGroup creates the log group and sets its retention.
func (c *RealClient) EnsureLogGroup(ctx context.Context, name string, retentionDays int32, t map[string]string) error {
	_, err := c.logs.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: aws.String(name),
		Tags:         t,
	})
	if err != nil && !IsAlreadyExists(err) {
		return fmt.Errorf("failed to create log group %s: %w", name, err)
	}

	if _, err := c.logs.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
		LogGroupName:    aws.String(name),
		RetentionInDays: aws.Int32(retentionDays),
	}); err != nil {
		return fmt.Errorf("failed to set retention on %s: %w", name, err)
	}
	return nil
}

func (c *RealClient) getRoleARN(ctx context.Context, name string) (*string, error) {
	out, err := c.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(name)})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return out.Role.Arn, nil
}

// EnsureExecutionRole creates the ECS task execution role and attaches the
// managed execution policy.
func (c *RealClient) EnsureExecutionRole(ctx context.Context, name string, t map[string]string) (string, error) {
	attach := func(ctx context.Context, _ *string) error {
		_, err := c.iam.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
			RoleName:  aws.String(name),
			PolicyArn: aws.String(TaskExecutionPolicyARN),
		})
		return err
	}

	arn, err := (&EnsureOperation[*string]{
		Name:         name,
		ResourceType: "iam role",
		Get:          c.getRoleARN,
		Create: func(ctx context.Context) (*string, error) {
			out, err := c.iam.CreateRole(ctx, &iam.CreateRoleInput{
				RoleName:                 aws.String(name),
				AssumeRolePolicyDocument: aws.String(ecsTasksTrustPolicy),
				Description:              aws.String("Task execution role for the Unifi controller"),
				Tags:                     iamTags(t),
			})
			if err != nil {
				return nil, err
			}
			return out.Role.Arn, nil
		},
		AfterCreate: attach,
		Update:      attach,
	}).Execute(ctx, c)
	if err != nil {
		return "", err
	}
	return aws.ToString(arn), nil
}
