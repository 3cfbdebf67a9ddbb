package wizard

import (
	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/util/ptr"
)

// BuildConfig creates a Config struct from the wizard result. Fields the
// wizard does not ask about are left empty and filled by ApplyDefaults.
func BuildConfig(result *WizardResult) *config.Config {
	cfg := &config.Config{
		Stack:  result.Stack,
		Region: result.Region,
		LoadBalancer: config.LoadBalancerConfig{
			CertificateDomain: result.CertificateDomain,
			ZoneName:          result.ZoneName,
		},
		Controller: config.ControllerConfig{
			Version:  result.Version,
			Hostname: result.Hostname,
		},
		DNS: config.DNSConfig{
			Provider: result.DNSProvider,
		},
		State: config.StateConfig{
			Backend: result.StateBackend,
		},
	}

	if cfg.LoadBalancer.CertificateDomain == "" {
		cfg.LoadBalancer.CertificateDomain = CertificateDomainFor(result.ZoneName)
	}

	// Only write the toggles when they differ from the default.
	if !result.StorageEnabled {
		cfg.Storage.Enabled = ptr.Bool(false)
	}
	if !result.InformPort {
		cfg.Controller.InformPort = ptr.Bool(false)
	}

	if result.StateBackend == config.StateBackendS3 {
		cfg.State.Bucket = result.StateBucket
	}

	if result.AdvancedOptions != nil {
		applyAdvancedOptions(cfg, result.AdvancedOptions)
	}

	return cfg
}

// applyAdvancedOptions applies advanced configuration options to the config.
func applyAdvancedOptions(cfg *config.Config, opts *AdvancedOptions) {
	cfg.Network = config.NetworkConfig{
		CIDR:              opts.NetworkCIDR,
		AvailabilityZones: opts.AvailabilityZones,
		NATGateways:       opts.NATGateways,
	}
	cfg.Controller.Memory = opts.Memory
}
