package wizard

import (
	"context"
	"fmt"

	"github.com/homelab-infra/unifictl/internal/config"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Stack identity
	Stack  string
	Region string

	// Controller
	Hostname          string
	ZoneName          string
	CertificateDomain string
	Version           string

	// DNS and features
	DNSProvider    string
	StorageEnabled bool
	InformPort     bool

	// State
	StateBackend string
	StateBucket  string

	// Advanced options (only set in advanced mode)
	AdvancedOptions *AdvancedOptions
}

// AdvancedOptions holds advanced configuration options.
type AdvancedOptions struct {
	// Network
	NetworkCIDR       string
	AvailabilityZones int
	NATGateways       int

	// Container
	Memory int
}

// RunWizard runs the interactive configuration wizard.
// If advanced is true, additional configuration options are shown.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context, advanced bool) (*WizardResult, error) {
	result := DefaultResult("")

	if err := runIdentityGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("stack identity: %w", err)
	}

	if err := runControllerGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}

	if err := runFeaturesGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}

	if err := runStateGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("state: %w", err)
	}

	if advanced {
		advOpts := DefaultAdvancedOptions()

		if err := runNetworkGroup(ctx, advOpts); err != nil {
			return nil, fmt.Errorf("network: %w", err)
		}

		if err := runResourcesGroup(ctx, advOpts); err != nil {
			return nil, fmt.Errorf("resources: %w", err)
		}

		result.AdvancedOptions = advOpts
	}

	return result, nil
}

// DefaultResult returns the answers the wizard starts from. An empty stack
// is left for the user to fill in.
func DefaultResult(stack string) *WizardResult {
	return &WizardResult{
		Stack:          stack,
		Region:         Regions[0].Value,
		Version:        ControllerVersions[0].Value,
		DNSProvider:    DNSProviderOptions[0].Value,
		StorageEnabled: true,
		InformPort:     true,
		StateBackend:   StateBackendOptions[0].Value,
	}
}

// DefaultAdvancedOptions returns the defaults shown in advanced mode.
func DefaultAdvancedOptions() *AdvancedOptions {
	return &AdvancedOptions{
		NetworkCIDR:       config.DefaultCIDR,
		AvailabilityZones: config.DefaultAvailabilityZones,
		NATGateways:       config.DefaultNATGateways,
		Memory:            config.DefaultMemory,
	}
}
