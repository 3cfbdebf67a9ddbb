package dns

import (
	"context"

	"github.com/homelab-infra/unifictl/internal/platform/aws"
)

// Route53Provider writes records to a public Route53 hosted zone.
type Route53Provider struct {
	dns      aws.DNSManager
	zoneName string
}

func NewRoute53Provider(dns aws.DNSManager, zoneName string) *Route53Provider {
	return &Route53Provider{dns: dns, zoneName: zoneName}
}

func (p *Route53Provider) Name() string { return "route53" }

func (p *Route53Provider) Zone(ctx context.Context) (*Zone, error) {
	z, err := p.dns.FindHostedZone(ctx, p.zoneName)
	if err != nil {
		return nil, err
	}
	return &Zone{ID: z.ID, Name: z.Name}, nil
}

func (p *Route53Provider) UpsertValidationRecords(ctx context.Context, zoneID string, records []aws.DNSRecord) ([]Record, error) {
	sets := make([]aws.RecordSet, 0, len(records))
	refs := make([]Record, 0, len(records))
	for _, r := range records {
		sets = append(sets, aws.RecordSet{
			Name:   r.Name,
			Type:   r.Type,
			TTL:    ValidationTTL,
			Values: []string{r.Value},
		})
		refs = append(refs, Record{Name: r.Name, Type: r.Type})
	}
	if err := p.dns.UpsertRecords(ctx, zoneID, sets); err != nil {
		return nil, err
	}
	return refs, nil
}

// UpsertHost writes an A and an AAAA alias to the load balancer.
func (p *Route53Provider) UpsertHost(ctx context.Context, zoneID, hostname string, target Target) ([]Record, error) {
	var sets []aws.RecordSet
	var refs []Record
	for _, recordType := range []string{"A", "AAAA"} {
		sets = append(sets, aws.RecordSet{
			Name: hostname,
			Type: recordType,
			Alias: &aws.AliasTarget{
				DNSName:              target.DNSName,
				HostedZoneID:         target.HostedZoneID,
				EvaluateTargetHealth: false,
			},
		})
		refs = append(refs, Record{Name: hostname, Type: recordType})
	}
	if err := p.dns.UpsertRecords(ctx, zoneID, sets); err != nil {
		return nil, err
	}
	return refs, nil
}

func (p *Route53Provider) DeleteRecords(ctx context.Context, zoneID string, records []Record) error {
	sets := make([]aws.RecordSet, 0, len(records))
	for _, r := range records {
		sets = append(sets, aws.RecordSet{Name: r.Name, Type: r.Type})
	}
	return p.dns.DeleteRecords(ctx, zoneID, sets)
}
