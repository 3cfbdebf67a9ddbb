package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// ProtocolAll matches every protocol in a security group rule.
const ProtocolAll = "-1"

func (c *RealClient) describeSecurityGroup(ctx context.Context, vpcID, name string) (*ec2types.SecurityGroup, error) {
	out, err := c.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []ec2types.Filter{
			ec2Filter("group-name", name),
			ec2Filter("vpc-id", vpcID),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(out.SecurityGroups) == 0 {
		return nil, nil
	}
	return &out.SecurityGroups[0], nil
}

// GetSecurityGroup returns the security group with name in the VPC, or nil.
func (c *RealClient) GetSecurityGroup(ctx context.Context, vpcID, name string) (*SecurityGroup, error) {
	sg, err := c.describeSecurityGroup(ctx, vpcID, name)
	if err != nil || sg == nil {
		return nil, err
	}
	return &SecurityGroup{ID: aws.ToString(sg.GroupId), Name: name}, nil
}

// EnsureSecurityGroup creates the group and authorizes every missing rule.
// Rules are never revoked.
func (c *RealClient) EnsureSecurityGroup(ctx context.Context, opts SecurityGroupOpts) (*SecurityGroup, error) {
	sg, err := (&EnsureOperation[*ec2types.SecurityGroup]{
		Name:         opts.Name,
		ResourceType: "security group",
		Get: func(ctx context.Context, name string) (*ec2types.SecurityGroup, error) {
			return c.describeSecurityGroup(ctx, opts.VPCID, name)
		},
		Create: func(ctx context.Context) (*ec2types.SecurityGroup, error) {
			out, err := c.ec2.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
				GroupName:         aws.String(opts.Name),
				Description:       aws.String(opts.Description),
				VpcId:             aws.String(opts.VPCID),
				TagSpecifications: tagSpec(ec2types.ResourceTypeSecurityGroup, withName(opts.Tags, opts.Name)),
			})
			if err != nil {
				return nil, err
			}
			return &ec2types.SecurityGroup{GroupId: out.GroupId, GroupName: aws.String(opts.Name)}, nil
		},
	}).Execute(ctx, c)
	if err != nil {
		return nil, err
	}

	groupID := aws.ToString(sg.GroupId)
	for _, rule := range opts.Ingress {
		if hasPermission(sg.IpPermissions, rule) {
			continue
		}
		_, err := c.ec2.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
			GroupId:       aws.String(groupID),
			IpPermissions: []ec2types.IpPermission{toIPPermission(rule)},
		})
		if err != nil && !IsAlreadyExists(err) {
			return nil, fmt.Errorf("failed to authorize ingress on %s: %w", opts.Name, err)
		}
	}
	for _, rule := range opts.Egress {
		if hasPermission(sg.IpPermissionsEgress, rule) {
			continue
		}
		_, err := c.ec2.AuthorizeSecurityGroupEgress(ctx, &ec2.AuthorizeSecurityGroupEgressInput{
			GroupId:       aws.String(groupID),
			IpPermissions: []ec2types.IpPermission{toIPPermission(rule)},
		})
		if err != nil && !IsAlreadyExists(err) {
			return nil, fmt.Errorf("failed to authorize egress on %s: %w", opts.Name, err)
		}
	}

	return &SecurityGroup{ID: groupID, Name: opts.Name}, nil
}

func toIPPermission(rule SecurityGroupRule) ec2types.IpPermission {
	perm := ec2types.IpPermission{
		IpProtocol: aws.String(rule.Protocol),
		IpRanges: []ec2types.IpRange{{
			CidrIp:      aws.String(rule.CIDR),
			Description: aws.String(rule.Description),
		}},
	}
	if rule.Protocol != ProtocolAll {
		perm.FromPort = aws.Int32(rule.FromPort)
		perm.ToPort = aws.Int32(rule.ToPort)
	}
	return perm
}

func hasPermission(perms []ec2types.IpPermission, rule SecurityGroupRule) bool {
	for _, p := range perms {
		if aws.ToString(p.IpProtocol) != rule.Protocol {
			continue
		}
		if rule.Protocol != ProtocolAll &&
			(aws.ToInt32(p.FromPort) != rule.FromPort || aws.ToInt32(p.ToPort) != rule.ToPort) {
			continue
		}
		for _, r := range p.IpRanges {
			if aws.ToString(r.CidrIp) == rule.CIDR {
				return true
			}
		}
	}
	return false
}
