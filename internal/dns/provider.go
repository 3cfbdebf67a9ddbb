package dns

import (
	"context"
	"fmt"
	"os"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/platform/aws"
	"github.com/homelab-infra/unifictl/internal/platform/cloudflare"
)

// CloudflareTokenEnv holds the API token for the Cloudflare provider.
const CloudflareTokenEnv = "CLOUDFLARE_API_TOKEN"

// ValidationTTL is the TTL of certificate validation records.
const ValidationTTL = 300

// Zone is the DNS zone records are written to.
type Zone struct {
	ID   string
	Name string
}

// Record identifies a record written by a provider.
type Record struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

// Target is the load balancer a host record points at.
type Target struct {
	DNSName      string
	HostedZoneID string
}

// Provider writes and removes the records a stack owns.
type Provider interface {
	Name() string

	// Zone resolves the zone named by the configuration.
	Zone(ctx context.Context) (*Zone, error)

	// UpsertValidationRecords writes the CNAME records ACM validates against.
	UpsertValidationRecords(ctx context.Context, zoneID string, records []aws.DNSRecord) ([]Record, error)

	// UpsertHost points hostname at target.
	UpsertHost(ctx context.Context, zoneID, hostname string, target Target) ([]Record, error)

	// DeleteRecords removes the given records. Records that are already
	// gone are skipped.
	DeleteRecords(ctx context.Context, zoneID string, records []Record) error
}

// cloudflareAPI is the part of the Cloudflare client the provider uses.
type cloudflareAPI interface {
	GetZoneID(ctx context.Context, domain string) (string, error)
	UpsertDNSRecord(ctx context.Context, zoneID string, record cloudflare.Record) (*cloudflare.Record, error)
	ListDNSRecords(ctx context.Context, zoneID string, filter cloudflare.RecordFilter) ([]cloudflare.Record, error)
	DeleteDNSRecord(ctx context.Context, zoneID, recordID string) error
	CleanupStackRecords(ctx context.Context, zoneID, stack string) (int, error)
}

// NewProvider returns the provider selected by cfg.DNS.Provider. The
// Route53 provider writes through infra.
func NewProvider(cfg *config.Config, infra aws.DNSManager) (Provider, error) {
	switch cfg.DNS.Provider {
	case "", config.DNSProviderRoute53:
		return NewRoute53Provider(infra, cfg.LoadBalancer.ZoneName), nil
	case config.DNSProviderCloudflare:
		token := os.Getenv(CloudflareTokenEnv)
		if token == "" {
			return nil, fmt.Errorf("%s must be set for the cloudflare DNS provider", CloudflareTokenEnv)
		}
		zone := cfg.DNS.CloudflareZone
		if zone == "" {
			zone = cfg.LoadBalancer.ZoneName
		}
		return NewCloudflareProvider(cloudflare.NewClient(token), zone, cfg.Stack), nil
	default:
		return nil, fmt.Errorf("unsupported DNS provider %q", cfg.DNS.Provider)
	}
}

// HostRecords returns the records UpsertHost of the named provider writes
// for hostname.
func HostRecords(providerName, hostname string) []Record {
	if providerName == config.DNSProviderCloudflare {
		return []Record{{Name: hostname, Type: "CNAME"}}
	}
	return []Record{{Name: hostname, Type: "A"}, {Name: hostname, Type: "AAAA"}}
}
