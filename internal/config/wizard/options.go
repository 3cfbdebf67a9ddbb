package wizard

import (
	"github.com/charmbracelet/huh"

	"github.com/homelab-infra/unifictl/internal/config"
)

// RegionOption represents an AWS region.
type RegionOption struct {
	Value       string
	Label       string
	Description string
}

// VersionOption represents a controller image tag.
type VersionOption struct {
	Value       string
	Label       string
	Description string
}

// Regions contains the AWS regions offered by the wizard. Any other
// region can be set in the file afterwards.
var Regions = []RegionOption{
	{Value: "eu-west-1", Label: "eu-west-1", Description: "Ireland"},
	{Value: "eu-central-1", Label: "eu-central-1", Description: "Frankfurt"},
	{Value: "eu-west-2", Label: "eu-west-2", Description: "London"},
	{Value: "us-east-1", Label: "us-east-1", Description: "N. Virginia"},
	{Value: "us-west-2", Label: "us-west-2", Description: "Oregon"},
	{Value: "ap-southeast-2", Label: "ap-southeast-2", Description: "Sydney"},
}

// ControllerVersions contains suggested controller versions.
var ControllerVersions = []VersionOption{
	{Value: "7.3.83", Label: "7.3.83", Description: "Latest tested"},
	{Value: "7.2.95", Label: "7.2.95", Description: "Previous stable"},
}

// DNSProviderOptions selects where records are written.
var DNSProviderOptions = []huh.Option[string]{
	huh.NewOption("Route53 (Recommended)", config.DNSProviderRoute53),
	huh.NewOption("Cloudflare", config.DNSProviderCloudflare),
}

// StateBackendOptions selects where apply outputs are kept.
var StateBackendOptions = []huh.Option[string]{
	huh.NewOption("Local file (Recommended)", config.StateBackendFile),
	huh.NewOption("S3 bucket", config.StateBackendS3),
	huh.NewOption("SQLite with history", config.StateBackendSQLite),
}

// AvailabilityZoneOptions offers the zone counts worth choosing.
var AvailabilityZoneOptions = []huh.Option[int]{
	huh.NewOption("2 (Recommended)", 2),
	huh.NewOption("3", 3),
}

// NATGatewayOptions offers one shared or one gateway per zone.
var NATGatewayOptions = []huh.Option[int]{
	huh.NewOption("1 (Cheapest)", 1),
	huh.NewOption("2", 2),
	huh.NewOption("3", 3),
}

// MemoryOptions offers container memory sizes in MiB.
var MemoryOptions = []huh.Option[int]{
	huh.NewOption("1024 MiB (Recommended)", 1024),
	huh.NewOption("2048 MiB", 2048),
	huh.NewOption("4096 MiB (Large sites)", 4096),
}

// RegionsToOptions converts the Regions slice to huh options.
func RegionsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(Regions))
	for i, r := range Regions {
		opts[i] = huh.NewOption(r.Label+" - "+r.Description, r.Value)
	}
	return opts
}

// VersionsToOptions converts VersionOption slice to huh.Option slice.
func VersionsToOptions(versions []VersionOption) []huh.Option[string] {
	opts := make([]huh.Option[string], len(versions))
	for i, v := range versions {
		opts[i] = huh.NewOption(v.Label+" - "+v.Description, v.Value)
	}
	return opts
}
