package aws

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
)

// fqdn normalizes a DNS name for comparison with Route53 responses, which
// are lower case, end in a dot and escape '*' as \052.
func fqdn(name string) string {
	name = strings.ToLower(strings.ReplaceAll(name, `\052`, "*"))
	if !strings.HasSuffix(name, ".") {
		name += "."
	}
	return name
}

// FindHostedZone returns the public hosted zone called name.
func (c *RealClient) FindHostedZone(ctx context.Context, name string) (*HostedZone, error) {
	out, err := c.route53.ListHostedZonesByName(ctx, &route53.ListHostedZonesByNameInput{
		DNSName: aws.String(name),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list hosted zones: %w", err)
	}

	for _, z := range out.HostedZones {
		if fqdn(aws.ToString(z.Name)) != fqdn(name) {
			continue
		}
		if z.Config != nil && z.Config.PrivateZone {
			continue
		}
		return &HostedZone{
			ID:   strings.TrimPrefix(aws.ToString(z.Id), "/hostedzone/"),
			Name: strings.TrimSuffix(aws.ToString(z.Name), "."),
		}, nil
	}
	return nil, fmt.Errorf("public hosted zone %q not found", name)
}

func toRecordSet(r RecordSet) *r53types.ResourceRecordSet {
	rrs := &r53types.ResourceRecordSet{
		Name: aws.String(r.Name),
		Type: r53types.RRType(r.Type),
	}
	if r.Alias != nil {
		rrs.AliasTarget = &r53types.AliasTarget{
			DNSName:              aws.String(r.Alias.DNSName),
			HostedZoneId:         aws.String(r.Alias.HostedZoneID),
			EvaluateTargetHealth: r.Alias.EvaluateTargetHealth,
		}
		return rrs
	}
	rrs.TTL = aws.Int64(r.TTL)
	for _, v := range r.Values {
		rrs.ResourceRecords = append(rrs.ResourceRecords, r53types.ResourceRecord{Value: aws.String(v)})
	}
	return rrs
}

// UpsertRecords creates or replaces the records and waits until Route53
// reports the change as in sync.
func (c *RealClient) UpsertRecords(ctx context.Context, zoneID string, records []RecordSet) error {
	if len(records) == 0 {
		return nil
	}
	changes := make([]r53types.Change, 0, len(records))
	for _, r := range records {
		changes = append(changes, r53types.Change{
			Action:            r53types.ChangeActionUpsert,
			ResourceRecordSet: toRecordSet(r),
		})
	}
	return c.applyChanges(ctx, zoneID, changes)
}

// DeleteRecords deletes the named records. Route53 requires a delete to
// match the current record exactly, so each record is read back first;
// records that do not exist are skipped.
func (c *RealClient) DeleteRecords(ctx context.Context, zoneID string, records []RecordSet) error {
	var changes []r53types.Change
	for _, r := range records {
		out, err := c.route53.ListResourceRecordSets(ctx, &route53.ListResourceRecordSetsInput{
			HostedZoneId:    aws.String(zoneID),
			StartRecordName: aws.String(r.Name),
			StartRecordType: r53types.RRType(r.Type),
			MaxItems:        aws.Int32(1),
		})
		if err != nil {
			if IsNotFound(err) {
				return nil
			}
			return fmt.Errorf("failed to read record %s %s: %w", r.Type, r.Name, err)
		}
		if len(out.ResourceRecordSets) == 0 {
			continue
		}
		current := out.ResourceRecordSets[0]
		if fqdn(aws.ToString(current.Name)) != fqdn(r.Name) || string(current.Type) != r.Type {
			continue
		}
		changes = append(changes, r53types.Change{
			Action:            r53types.ChangeActionDelete,
			ResourceRecordSet: &current,
		})
	}
	if len(changes) == 0 {
		return nil
	}
	return c.applyChanges(ctx, zoneID, changes)
}

func (c *RealClient) applyChanges(ctx context.Context, zoneID string, changes []r53types.Change) error {
	var changeID string
	err := withRetry(ctx, c, func() error {
		out, err := c.route53.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
			HostedZoneId: aws.String(zoneID),
			ChangeBatch: &r53types.ChangeBatch{
				Comment: aws.String("managed by unifictl"),
				Changes: changes,
			},
		})
		if err != nil {
			return err
		}
		changeID = aws.ToString(out.ChangeInfo.Id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to change records in zone %s: %w", zoneID, err)
	}

	return pollUntil(ctx, c, c.timeouts.DNSChange, "DNS change "+changeID, func(ctx context.Context) (bool, error) {
		out, err := c.route53.GetChange(ctx, &route53.GetChangeInput{Id: aws.String(changeID)})
		if err != nil {
			return false, err
		}
		return out.ChangeInfo.Status == r53types.ChangeStatusInsync, nil
	})
}
