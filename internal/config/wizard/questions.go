package wizard

import (
	"context"
	"net"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/homelab-infra/unifictl/internal/config"
)

// stackNameRegex validates stack names: 1-16 lowercase alphanumeric with
// hyphens, short enough for the 32 character load balancer names.
var stackNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,14}[a-z0-9])?$`)

// domainRegex accepts a hostname with at least two labels.
var domainRegex = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)

// runIdentityGroup prompts for stack name and region.
func runIdentityGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Stack Name").
				Description("Prefixes every AWS resource, 1-16 lowercase characters").
				Placeholder("home").
				Value(&result.Stack).
				Validate(validateStackName),
			huh.NewSelect[string]().
				Title("Region").
				Description("AWS region the controller runs in").
				Options(RegionsToOptions()...).
				Value(&result.Region),
		).Title("Stack Identity"),
	).RunWithContext(ctx)
}

// runControllerGroup prompts for the controller hostname, zone and version.
func runControllerGroup(ctx context.Context, result *WizardResult) error {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Hostname").
				Description("Name the controller is reached at").
				Placeholder("unifi.example.com").
				Value(&result.Hostname).
				Validate(validateDomain),
			huh.NewInput().
				Title("DNS Zone").
				Description("Public zone the hostname lives in").
				Placeholder("example.com").
				Value(&result.ZoneName).
				Validate(validateDomain),
			huh.NewSelect[string]().
				Title("Controller Version").
				Description("linuxserver/unifi-controller image tag").
				Options(VersionsToOptions(ControllerVersions)...).
				Value(&result.Version),
		).Title("Controller"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	result.CertificateDomain = CertificateDomainFor(result.ZoneName)
	return nil
}

// runFeaturesGroup prompts for the DNS provider and optional features.
func runFeaturesGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("DNS Provider").
				Description("Cloudflare requires CLOUDFLARE_API_TOKEN").
				Options(DNSProviderOptions...).
				Value(&result.DNSProvider),
			huh.NewConfirm().
				Title("Persistent Storage").
				Description("Keep the controller configuration on EFS across restarts").
				Value(&result.StorageEnabled),
			huh.NewConfirm().
				Title("Device Inform Port").
				Description("Expose TCP 8080 so devices can be adopted over the internet").
				Value(&result.InformPort),
		).Title("Features"),
	).RunWithContext(ctx)
}

// runStateGroup prompts for the state backend and, for s3, its bucket.
func runStateGroup(ctx context.Context, result *WizardResult) error {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("State Backend").
				Description("Where apply outputs are stored").
				Options(StateBackendOptions...).
				Value(&result.StateBackend),
		).Title("State"),
	).RunWithContext(ctx)
	if err != nil || result.StateBackend != config.StateBackendS3 {
		return err
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("State Bucket").
				Description("Created on first apply if missing").
				Placeholder("my-unifictl-state").
				Value(&result.StateBucket).
				Validate(validateBucket),
		).Title("State Bucket"),
	).RunWithContext(ctx)
}

// runNetworkGroup prompts for the VPC layout (advanced mode).
func runNetworkGroup(ctx context.Context, opts *AdvancedOptions) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("VPC CIDR").
				Description("An IPv4 /16 range").
				Placeholder(config.DefaultCIDR).
				Value(&opts.NetworkCIDR).
				Validate(validateCIDR),
			huh.NewSelect[int]().
				Title("Availability Zones").
				Options(AvailabilityZoneOptions...).
				Value(&opts.AvailabilityZones),
			huh.NewSelect[int]().
				Title("NAT Gateways").
				Description("One per zone survives a zone outage; each one is billed hourly").
				Options(NATGatewayOptions...).
				Value(&opts.NATGateways),
		).Title("Network"),
	).RunWithContext(ctx)
}

// runResourcesGroup prompts for the container size (advanced mode).
func runResourcesGroup(ctx context.Context, opts *AdvancedOptions) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Container Memory").
				Options(MemoryOptions...).
				Value(&opts.Memory),
		).Title("Resources"),
	).RunWithContext(ctx)
}

// CertificateDomainFor returns the wildcard certificate domain of zone.
func CertificateDomainFor(zone string) string {
	zone = strings.TrimSuffix(strings.TrimSpace(zone), ".")
	if zone == "" {
		return ""
	}
	return "*." + zone
}

func validateStackName(s string) error {
	if s == "" {
		return errStackNameRequired
	}
	if !stackNameRegex.MatchString(s) {
		return errStackNameInvalid
	}
	return nil
}

func validateDomain(s string) error {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	if s == "" {
		return errDomainRequired
	}
	if !domainRegex.MatchString(s) {
		return errDomainInvalid
	}
	return nil
}

func validateBucket(s string) error {
	if strings.TrimSpace(s) == "" {
		return errBucketRequired
	}
	return nil
}

func validateCIDR(s string) error {
	if s == "" {
		return errCIDRRequired
	}
	ip, ipNet, err := net.ParseCIDR(s)
	if err != nil || ip.To4() == nil {
		return errCIDRInvalid
	}
	if ones, _ := ipNet.Mask.Size(); ones != 16 {
		return errCIDRInvalid
	}
	return nil
}
