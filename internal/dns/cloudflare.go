package dns

import (
	"context"
	"fmt"
	"strings"

	"github.com/homelab-infra/unifictl/internal/platform/aws"
	"github.com/homelab-infra/unifictl/internal/platform/cloudflare"
)

// CloudflareProvider writes records to a Cloudflare zone. Records are never
// proxied: the controller speaks UDP and custom TCP ports Cloudflare does
// not forward.
type CloudflareProvider struct {
	client   cloudflareAPI
	zoneName string
	stack    string
}

func NewCloudflareProvider(client cloudflareAPI, zoneName, stack string) *CloudflareProvider {
	return &CloudflareProvider{client: client, zoneName: zoneName, stack: stack}
}

func (p *CloudflareProvider) Name() string { return "cloudflare" }

func (p *CloudflareProvider) Zone(ctx context.Context) (*Zone, error) {
	id, err := p.client.GetZoneID(ctx, p.zoneName)
	if err != nil {
		return nil, err
	}
	return &Zone{ID: id, Name: p.zoneName}, nil
}

func (p *CloudflareProvider) UpsertValidationRecords(ctx context.Context, zoneID string, records []aws.DNSRecord) ([]Record, error) {
	refs := make([]Record, 0, len(records))
	for _, r := range records {
		rec := p.record(r.Type, r.Name, r.Value, ValidationTTL)
		if _, err := p.client.UpsertDNSRecord(ctx, zoneID, rec); err != nil {
			return nil, fmt.Errorf("failed to write validation record %s: %w", rec.Name, err)
		}
		refs = append(refs, Record{Name: rec.Name, Type: rec.Type})
	}
	return refs, nil
}

// UpsertHost writes one CNAME to the load balancer's DNS name.
func (p *CloudflareProvider) UpsertHost(ctx context.Context, zoneID, hostname string, target Target) ([]Record, error) {
	// TTL 1 is Cloudflare's "automatic".
	rec := p.record("CNAME", hostname, target.DNSName, 1)
	if _, err := p.client.UpsertDNSRecord(ctx, zoneID, rec); err != nil {
		return nil, fmt.Errorf("failed to write host record %s: %w", rec.Name, err)
	}
	return []Record{{Name: rec.Name, Type: rec.Type}}, nil
}

// DeleteRecords removes the given records when they carry the stack's
// owner comment, then sweeps any other record the stack owns.
func (p *CloudflareProvider) DeleteRecords(ctx context.Context, zoneID string, records []Record) error {
	owner := cloudflare.OwnerComment(p.stack)
	for _, r := range records {
		existing, err := p.client.ListDNSRecords(ctx, zoneID, cloudflare.RecordFilter{Name: trimDot(r.Name), Type: r.Type})
		if err != nil {
			return err
		}
		for _, e := range existing {
			if e.Comment != owner {
				continue
			}
			if err := p.client.DeleteDNSRecord(ctx, zoneID, e.ID); err != nil {
				return err
			}
		}
	}

	if _, err := p.client.CleanupStackRecords(ctx, zoneID, p.stack); err != nil {
		return err
	}
	return nil
}

func (p *CloudflareProvider) record(recordType, name, content string, ttl int) cloudflare.Record {
	proxied := false
	return cloudflare.Record{
		Type:    recordType,
		Name:    trimDot(name),
		Content: trimDot(content),
		TTL:     ttl,
		Proxied: &proxied,
		Comment: cloudflare.OwnerComment(p.stack),
	}
}

// trimDot drops the trailing root dot ACM puts on record names.
func trimDot(name string) string {
	return strings.TrimSuffix(name, ".")
}
