package handlers

import (
	"context"
	"fmt"
)

// Validate checks the configuration. Unless offline is set it also checks
// that the AWS credentials work and that the DNS zone can be found.
func Validate(ctx context.Context, configPath string, offline bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Configuration for stack %s is valid.\n", cfg.Stack)
	if offline {
		return nil
	}

	log := newLogger().WithValues("stack", cfg.Stack, "region", cfg.Region)

	infra, err := newInfraClient(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create AWS client: %w", err)
	}

	identity, err := infra.CallerIdentity(ctx)
	if err != nil {
		return fmt.Errorf("AWS credentials check failed: %w", err)
	}
	fmt.Fprintf(stdout, "  AWS account:  %s (%s)\n", identity.Account, identity.ARN)

	provider, err := newDNSProvider(cfg, infra)
	if err != nil {
		return fmt.Errorf("failed to create DNS provider: %w", err)
	}
	zone, err := provider.Zone(ctx)
	if err != nil {
		return fmt.Errorf("DNS zone check failed: %w", err)
	}
	fmt.Fprintf(stdout, "  DNS zone:     %s (%s, %s)\n", zone.Name, zone.ID, provider.Name())

	return nil
}
