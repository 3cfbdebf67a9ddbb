package config

import "strconv"

// Controller ports.
const (
	WebAdminPort    = 8443
	GuestPortalPort = 8843
	STUNPort        = 3478
	InformPort      = 8080
)

// Defaults applied by LoadFile when a field is left empty.
const (
	DefaultRegion            = "eu-west-1"
	DefaultCIDR              = "10.0.0.0/16"
	DefaultAvailabilityZones = 2
	DefaultNATGateways       = 1
	DefaultCapacityProvider  = "FARGATE_SPOT"
	DefaultImage             = "lscr.io/linuxserver/unifi-controller"
	DefaultCPU               = 1024
	DefaultMemory            = 1024
	DefaultDesiredCount      = 1
	DefaultHealthCheckGrace  = 60
	DefaultLogRetentionDays  = 14
	DefaultDNSProvider       = DNSProviderRoute53
	DefaultStateBackend      = StateBackendFile
	DefaultStatePath         = ".unifictl/state.yaml"
	DefaultSQLitePath        = ".unifictl/state.db"
)

// DNS providers.
const (
	DNSProviderRoute53    = "route53"
	DNSProviderCloudflare = "cloudflare"
)

// State backends.
const (
	StateBackendFile   = "file"
	StateBackendS3     = "s3"
	StateBackendSQLite = "sqlite"
)

// MaxAvailabilityZones bounds the per-tier subnet index space.
const MaxAvailabilityZones = 6

func itoa(i int) string {
	return strconv.Itoa(i)
}
