package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/acm"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/aws-sdk-go-v2/service/efs"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
)

// CleanupError represents accumulated errors from cleanup operations.
type CleanupError struct {
	Errors []error
}

func (e *CleanupError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("cleanup encountered %d errors: %v", len(e.Errors), e.Errors)
}

func (e *CleanupError) Unwrap() error {
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return errors.Join(e.Errors...)
}

func (e *CleanupError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

func (e *CleanupError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ErrorOrNil returns e if any error was added and nil otherwise.
func (e *CleanupError) ErrorOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// DeleteService scales the service to zero, deletes it and waits until its
// tasks have drained.
func (c *RealClient) DeleteService(ctx context.Context, cluster, name string) error {
	svc, err := c.describeService(ctx, cluster, name)
	if err != nil {
		return fmt.Errorf("failed to describe service %s: %w", name, err)
	}
	if svc == nil {
		return nil
	}

	c.logger.Info("deleting resource", "type", "ecs service", "name", name)
	if aws.ToString(svc.Status) == statusActive && svc.DesiredCount > 0 {
		if _, err := c.ecs.UpdateService(ctx, &ecs.UpdateServiceInput{
			Cluster:      aws.String(cluster),
			Service:      aws.String(name),
			DesiredCount: aws.Int32(0),
		}); err != nil && !IsNotFound(err) {
			return fmt.Errorf("failed to scale service %s to zero: %w", name, err)
		}
	}

	if _, err := c.ecs.DeleteService(ctx, &ecs.DeleteServiceInput{
		Cluster: aws.String(cluster),
		Service: aws.String(name),
		Force:   aws.Bool(true),
	}); err != nil && !IsNotFound(err) && !hasErrorCode(err, "ServiceNotActiveException") {
		return fmt.Errorf("failed to delete service %s: %w", name, err)
	}

	return pollUntil(ctx, c, c.timeouts.ServiceStable, "service "+name+" to drain", func(ctx context.Context) (bool, error) {
		s, err := c.describeService(ctx, cluster, name)
		if err != nil {
			return false, err
		}
		return s == nil, nil
	})
}

// taskDefinitionFamily extracts the family from a task definition ARN
// (arn:aws:ecs:region:account:task-definition/family:revision).
func taskDefinitionFamily(arn string) string {
	_, rest, ok := strings.Cut(arn, "task-definition/")
	if !ok {
		return ""
	}
	family, _, _ := strings.Cut(rest, ":")
	return family
}

// DeregisterTaskDefinitions deregisters every active revision of family.
func (c *RealClient) DeregisterTaskDefinitions(ctx context.Context, family string) error {
	p := ecs.NewListTaskDefinitionsPaginator(c.ecs, &ecs.ListTaskDefinitionsInput{
		FamilyPrefix: aws.String(family),
		Status:       ecstypes.TaskDefinitionStatusActive,
	})

	cleanupErrs := &CleanupError{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list task definitions: %w", err)
		}
		for _, arn := range page.TaskDefinitionArns {
			if taskDefinitionFamily(arn) != family {
				continue
			}
			c.logger.Info("deleting resource", "type", "task definition", "name", arn)
			if _, err := c.ecs.DeregisterTaskDefinition(ctx, &ecs.DeregisterTaskDefinitionInput{
				TaskDefinition: aws.String(arn),
			}); err != nil {
				cleanupErrs.Add(fmt.Errorf("task definition %s: %w", arn, err))
			}
		}
	}
	return cleanupErrs.ErrorOrNil()
}

// DeleteLogGroup deletes the log group and its streams.
func (c *RealClient) DeleteLogGroup(ctx context.Context, name string) error {
	c.logger.Info("deleting resource", "type", "log group", "name", name)
	_, err := c.logs.DeleteLogGroup(ctx, &cloudwatchlogs.DeleteLogGroupInput{LogGroupName: aws.String(name)})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete log group %s: %w", name, err)
	}
	return nil
}

// DeleteExecutionRole detaches the execution policy and deletes the role.
func (c *RealClient) DeleteExecutionRole(ctx context.Context, name string) error {
	return (&DeleteOperation[*string]{
		Name:         name,
		ResourceType: "iam role",
		Get:          c.getRoleARN,
		Delete: func(ctx context.Context, _ *string) error {
			c.logger.Info("deleting resource", "type", "iam role", "name", name)
			if _, err := c.iam.DetachRolePolicy(ctx, &iam.DetachRolePolicyInput{
				RoleName:  aws.String(name),
				PolicyArn: aws.String(TaskExecutionPolicyARN),
			}); err != nil && !IsNotFound(err) {
				return err
			}
			_, err := c.iam.DeleteRole(ctx, &iam.DeleteRoleInput{RoleName: aws.String(name)})
			return err
		},
	}).Execute(ctx, c)
}

// DeleteLoadBalancer deletes the listeners (and with them their rules) and
// the load balancer, then waits until it is gone so its target groups are
// released.
func (c *RealClient) DeleteLoadBalancer(ctx context.Context, name string) error {
	return (&DeleteOperation[*LoadBalancer]{
		Name:         name,
		ResourceType: "load balancer",
		Get:          c.GetLoadBalancer,
		Delete: func(ctx context.Context, lb *LoadBalancer) error {
			c.logger.Info("deleting resource", "type", "load balancer", "name", name)
			out, err := c.elb.DescribeListeners(ctx, &elbv2.DescribeListenersInput{
				LoadBalancerArn: aws.String(lb.ARN),
			})
			if err != nil && !IsNotFound(err) {
				return err
			}
			if out != nil {
				for _, l := range out.Listeners {
					if _, err := c.elb.DeleteListener(ctx, &elbv2.DeleteListenerInput{
						ListenerArn: l.ListenerArn,
					}); err != nil && !IsNotFound(err) {
						return err
					}
				}
			}

			if _, err := c.elb.DeleteLoadBalancer(ctx, &elbv2.DeleteLoadBalancerInput{
				LoadBalancerArn: aws.String(lb.ARN),
			}); err != nil {
				return err
			}

			return pollUntil(ctx, c, c.timeouts.LoadBalancer, "deletion of "+name, func(ctx context.Context) (bool, error) {
				current, err := c.GetLoadBalancer(ctx, name)
				return current == nil, err
			})
		},
	}).Execute(ctx, c)
}

// DeleteTargetGroup deletes the target group. It stays in use until the
// load balancers forwarding to it are gone, which is retried.
func (c *RealClient) DeleteTargetGroup(ctx context.Context, name string) error {
	return (&DeleteOperation[*TargetGroup]{
		Name:         name,
		ResourceType: "target group",
		Get:          c.getTargetGroup,
		Delete: func(ctx context.Context, tg *TargetGroup) error {
			c.logger.Info("deleting resource", "type", "target group", "name", name)
			_, err := c.elb.DeleteTargetGroup(ctx, &elbv2.DeleteTargetGroupInput{
				TargetGroupArn: aws.String(tg.ARN),
			})
			return err
		},
	}).Execute(ctx, c)
}

// DeleteCertificates deletes the stack's certificate for domain.
func (c *RealClient) DeleteCertificates(ctx context.Context, domain, stack string) error {
	return (&DeleteOperation[*string]{
		Name:         domain,
		ResourceType: "certificate",
		Get: func(ctx context.Context, name string) (*string, error) {
			arn, err := c.findCertificate(ctx, name, stack)
			if err != nil || arn == "" {
				return nil, err
			}
			return &arn, nil
		},
		Delete: func(ctx context.Context, arn *string) error {
			c.logger.Info("deleting resource", "type", "certificate", "name", domain, "arn", *arn)
			_, err := c.acm.DeleteCertificate(ctx, &acm.DeleteCertificateInput{CertificateArn: arn})
			return err
		},
	}).Execute(ctx, c)
}

// DeleteFileSystem deletes the access points, mount targets and the file
// system identified by its creation token.
func (c *RealClient) DeleteFileSystem(ctx context.Context, creationToken string) error {
	return (&DeleteOperation[*string]{
		Name:         creationToken,
		ResourceType: "file system",
		Get: func(ctx context.Context, token string) (*string, error) {
			fs, err := c.getFileSystem(ctx, token)
			if err != nil || fs == nil {
				return nil, err
			}
			return fs.FileSystemId, nil
		},
		Delete: func(ctx context.Context, id *string) error {
			c.logger.Info("deleting resource", "type", "file system", "name", creationToken, "id", *id)
			aps, err := c.efs.DescribeAccessPoints(ctx, &efs.DescribeAccessPointsInput{FileSystemId: id})
			if err != nil {
				return err
			}
			for _, ap := range aps.AccessPoints {
				if _, err := c.efs.DeleteAccessPoint(ctx, &efs.DeleteAccessPointInput{
					AccessPointId: ap.AccessPointId,
				}); err != nil && !IsNotFound(err) {
					return err
				}
			}

			targets, err := c.mountTargets(ctx, aws.ToString(id))
			if err != nil {
				return err
			}
			for _, mt := range targets {
				if _, err := c.efs.DeleteMountTarget(ctx, &efs.DeleteMountTargetInput{
					MountTargetId: mt.MountTargetId,
				}); err != nil && !IsNotFound(err) {
					return err
				}
			}
			if err := pollUntil(ctx, c, c.timeouts.FileSystem, "mount targets of "+aws.ToString(id), func(ctx context.Context) (bool, error) {
				remaining, err := c.mountTargets(ctx, aws.ToString(id))
				return len(remaining) == 0, err
			}); err != nil {
				return err
			}

			_, err = c.efs.DeleteFileSystem(ctx, &efs.DeleteFileSystemInput{FileSystemId: id})
			return err
		},
	}).Execute(ctx, c)
}

// DeleteCluster deletes the ECS cluster.
func (c *RealClient) DeleteCluster(ctx context.Context, name string) error {
	return (&DeleteOperation[*ecstypes.Cluster]{
		Name:         name,
		ResourceType: "ecs cluster",
		Get:          c.describeCluster,
		Delete: func(ctx context.Context, cl *ecstypes.Cluster) error {
			c.logger.Info("deleting resource", "type", "ecs cluster", "name", name)
			_, err := c.ecs.DeleteCluster(ctx, &ecs.DeleteClusterInput{Cluster: cl.ClusterArn})
			return err
		},
	}).Execute(ctx, c)
}

// DeleteNetwork deletes the stack's NAT gateways and Elastic IPs and then
// everything inside the VPC: security groups, route tables, subnets and the
// internet gateway, and finally the VPC itself.
// Returns a CleanupError containing all errors encountered.
func (c *RealClient) DeleteNetwork(ctx context.Context, vpcName, stack string) error {
	cleanupErrs := &CleanupError{}

	cleanupErrs.Add(c.deleteNATGateways(ctx, stack))
	cleanupErrs.Add(c.releaseAddresses(ctx, stack))

	vpc, err := c.GetVPC(ctx, vpcName)
	if err != nil {
		cleanupErrs.Add(fmt.Errorf("failed to get vpc: %w", err))
		return cleanupErrs
	}
	if vpc == nil {
		return cleanupErrs.ErrorOrNil()
	}

	cleanupErrs.Add(c.deleteSecurityGroups(ctx, vpc.ID))
	cleanupErrs.Add(c.deleteRouteTables(ctx, vpc.ID, stack))
	cleanupErrs.Add(c.deleteSubnets(ctx, vpc.ID))
	cleanupErrs.Add(c.deleteInternetGateways(ctx, vpc.ID))

	if !cleanupErrs.HasErrors() {
		c.logger.Info("deleting resource", "type", "vpc", "name", vpcName)
		err := withRetry(ctx, c, func() error {
			_, err := c.ec2.DeleteVpc(ctx, &ec2.DeleteVpcInput{VpcId: aws.String(vpc.ID)})
			if IsNotFound(err) {
				return nil
			}
			return err
		})
		if err != nil {
			cleanupErrs.Add(fmt.Errorf("vpc %s: %w", vpc.ID, err))
		}
	}
	return cleanupErrs.ErrorOrNil()
}

func (c *RealClient) deleteNATGateways(ctx context.Context, stack string) error {
	out, err := c.ec2.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{
		Filter: []ec2types.Filter{
			stackFilter(stack),
			ec2Filter("state", string(ec2types.NatGatewayStatePending), string(ec2types.NatGatewayStateAvailable)),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to list NAT gateways: %w", err)
	}

	var ids []string
	for _, nat := range out.NatGateways {
		id := aws.ToString(nat.NatGatewayId)
		c.logger.Info("deleting resource", "type", "NAT gateway", "name", id)
		if _, err := c.ec2.DeleteNatGateway(ctx, &ec2.DeleteNatGatewayInput{NatGatewayId: nat.NatGatewayId}); err != nil && !IsNotFound(err) {
			return fmt.Errorf("NAT gateway %s: %w", id, err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}

	return pollUntil(ctx, c, c.timeouts.NATGateway, "NAT gateway deletion", func(ctx context.Context) (bool, error) {
		out, err := c.ec2.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{NatGatewayIds: ids})
		if err != nil {
			return false, err
		}
		for _, nat := range out.NatGateways {
			if nat.State != ec2types.NatGatewayStateDeleted {
				return false, nil
			}
		}
		return true, nil
	})
}

func (c *RealClient) releaseAddresses(ctx context.Context, stack string) error {
	out, err := c.ec2.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{
		Filters: []ec2types.Filter{stackFilter(stack)},
	})
	if err != nil {
		return fmt.Errorf("failed to list addresses: %w", err)
	}

	cleanupErrs := &CleanupError{}
	for _, addr := range out.Addresses {
		id := aws.ToString(addr.AllocationId)
		c.logger.Info("deleting resource", "type", "elastic ip", "name", id)
		err := withRetry(ctx, c, func() error {
			_, err := c.ec2.ReleaseAddress(ctx, &ec2.ReleaseAddressInput{AllocationId: addr.AllocationId})
			if IsNotFound(err) {
				return nil
			}
			return err
		})
		if err != nil {
			cleanupErrs.Add(fmt.Errorf("elastic ip %s: %w", id, err))
		}
	}
	return cleanupErrs.ErrorOrNil()
}

func (c *RealClient) deleteSecurityGroups(ctx context.Context, vpcID string) error {
	out, err := c.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []ec2types.Filter{ec2Filter("vpc-id", vpcID)},
	})
	if err != nil {
		return fmt.Errorf("failed to list security groups: %w", err)
	}

	cleanupErrs := &CleanupError{}
	for _, sg := range out.SecurityGroups {
		if aws.ToString(sg.GroupName) == "default" {
			continue
		}
		name := aws.ToString(sg.GroupName)
		c.logger.Info("deleting resource", "type", "security group", "name", name)
		// ENIs of deleted load balancers and tasks release the group with a delay.
		err := withRetry(ctx, c, func() error {
			_, err := c.ec2.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{GroupId: sg.GroupId})
			if IsNotFound(err) {
				return nil
			}
			return err
		})
		if err != nil {
			cleanupErrs.Add(fmt.Errorf("security group %s: %w", name, err))
		}
	}
	return cleanupErrs.ErrorOrNil()
}

func (c *RealClient) deleteRouteTables(ctx context.Context, vpcID, stack string) error {
	out, err := c.ec2.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{
		Filters: []ec2types.Filter{ec2Filter("vpc-id", vpcID), stackFilter(stack)},
	})
	if err != nil {
		return fmt.Errorf("failed to list route tables: %w", err)
	}

	cleanupErrs := &CleanupError{}
	for _, rt := range out.RouteTables {
		id := aws.ToString(rt.RouteTableId)
		c.logger.Info("deleting resource", "type", "route table", "name", id)
		for _, a := range rt.Associations {
			if aws.ToBool(a.Main) {
				continue
			}
			if _, err := c.ec2.DisassociateRouteTable(ctx, &ec2.DisassociateRouteTableInput{
				AssociationId: a.RouteTableAssociationId,
			}); err != nil && !IsNotFound(err) {
				cleanupErrs.Add(fmt.Errorf("route table association %s: %w", aws.ToString(a.RouteTableAssociationId), err))
			}
		}
		if _, err := c.ec2.DeleteRouteTable(ctx, &ec2.DeleteRouteTableInput{RouteTableId: rt.RouteTableId}); err != nil && !IsNotFound(err) {
			cleanupErrs.Add(fmt.Errorf("route table %s: %w", id, err))
		}
	}
	return cleanupErrs.ErrorOrNil()
}

func (c *RealClient) deleteSubnets(ctx context.Context, vpcID string) error {
	subnets, err := c.ListSubnets(ctx, vpcID)
	if err != nil {
		return err
	}

	cleanupErrs := &CleanupError{}
	for _, s := range subnets {
		c.logger.Info("deleting resource", "type", "subnet", "name", s.Name)
		err := withRetry(ctx, c, func() error {
			_, err := c.ec2.DeleteSubnet(ctx, &ec2.DeleteSubnetInput{SubnetId: aws.String(s.ID)})
			if IsNotFound(err) {
				return nil
			}
			return err
		})
		if err != nil {
			cleanupErrs.Add(fmt.Errorf("subnet %s: %w", s.Name, err))
		}
	}
	return cleanupErrs.ErrorOrNil()
}

func (c *RealClient) deleteInternetGateways(ctx context.Context, vpcID string) error {
	out, err := c.ec2.DescribeInternetGateways(ctx, &ec2.DescribeInternetGatewaysInput{
		Filters: []ec2types.Filter{ec2Filter("attachment.vpc-id", vpcID)},
	})
	if err != nil {
		return fmt.Errorf("failed to list internet gateways: %w", err)
	}

	cleanupErrs := &CleanupError{}
	for _, igw := range out.InternetGateways {
		id := aws.ToString(igw.InternetGatewayId)
		c.logger.Info("deleting resource", "type", "internet gateway", "name", id)
		if _, err := c.ec2.DetachInternetGateway(ctx, &ec2.DetachInternetGatewayInput{
			InternetGatewayId: igw.InternetGatewayId,
			VpcId:             aws.String(vpcID),
		}); err != nil && !IsNotFound(err) {
			cleanupErrs.Add(fmt.Errorf("detach internet gateway %s: %w", id, err))
			continue
		}
		if _, err := c.ec2.DeleteInternetGateway(ctx, &ec2.DeleteInternetGatewayInput{
			InternetGatewayId: igw.InternetGatewayId,
		}); err != nil && !IsNotFound(err) {
			cleanupErrs.Add(fmt.Errorf("internet gateway %s: %w", id, err))
		}
	}
	return cleanupErrs.ErrorOrNil()
}
