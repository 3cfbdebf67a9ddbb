package aws

import (
	"github.com/homelab-infra/unifictl/internal/util/tags"

	"github.com/aws/aws-sdk-go-v2/aws"
	acmtypes "github.com/aws/aws-sdk-go-v2/service/acm/types"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	efstypes "github.com/aws/aws-sdk-go-v2/service/efs/types"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
)

// The SDK services each declare their own Tag type. These helpers convert a
// tag map in sorted key order so requests are deterministic.

func ec2Tags(m map[string]string) []ec2types.Tag {
	out := make([]ec2types.Tag, 0, len(m))
	for _, k := range tags.Keys(m) {
		out = append(out, ec2types.Tag{Key: aws.String(k), Value: aws.String(m[k])})
	}
	return out
}

func tagSpec(resourceType ec2types.ResourceType, m map[string]string) []ec2types.TagSpecification {
	return []ec2types.TagSpecification{{ResourceType: resourceType, Tags: ec2Tags(m)}}
}

func ec2TagValue(t []ec2types.Tag, key string) string {
	for _, tag := range t {
		if aws.ToString(tag.Key) == key {
			return aws.ToString(tag.Value)
		}
	}
	return ""
}

func ec2Filter(name string, values ...string) ec2types.Filter {
	return ec2types.Filter{Name: aws.String(name), Values: values}
}

// nameFilters selects resources by Name tag within the VPC (if given).
func nameFilters(vpcID, name string) []ec2types.Filter {
	filters := []ec2types.Filter{ec2Filter("tag:"+tags.KeyName, name)}
	if vpcID != "" {
		filters = append(filters, ec2Filter("vpc-id", vpcID))
	}
	return filters
}

func stackFilter(stack string) ec2types.Filter {
	return ec2Filter("tag:"+tags.KeyStack, stack)
}

func elbTags(m map[string]string) []elbtypes.Tag {
	out := make([]elbtypes.Tag, 0, len(m))
	for _, k := range tags.Keys(m) {
		out = append(out, elbtypes.Tag{Key: aws.String(k), Value: aws.String(m[k])})
	}
	return out
}

func ecsTags(m map[string]string) []ecstypes.Tag {
	out := make([]ecstypes.Tag, 0, len(m))
	for _, k := range tags.Keys(m) {
		out = append(out, ecstypes.Tag{Key: aws.String(k), Value: aws.String(m[k])})
	}
	return out
}

func efsTags(m map[string]string) []efstypes.Tag {
	out := make([]efstypes.Tag, 0, len(m))
	for _, k := range tags.Keys(m) {
		out = append(out, efstypes.Tag{Key: aws.String(k), Value: aws.String(m[k])})
	}
	return out
}

func acmTags(m map[string]string) []acmtypes.Tag {
	out := make([]acmtypes.Tag, 0, len(m))
	for _, k := range tags.Keys(m) {
		out = append(out, acmtypes.Tag{Key: aws.String(k), Value: aws.String(m[k])})
	}
	return out
}

func iamTags(m map[string]string) []iamtypes.Tag {
	out := make([]iamtypes.Tag, 0, len(m))
	for _, k := range tags.Keys(m) {
		out = append(out, iamtypes.Tag{Key: aws.String(k), Value: aws.String(m[k])})
	}
	return out
}
