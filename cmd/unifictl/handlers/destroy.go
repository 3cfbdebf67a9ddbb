package handlers

import (
	"context"
	"fmt"

	"github.com/homelab-infra/unifictl/internal/dns"
	"github.com/homelab-infra/unifictl/internal/orchestration"
)

// Destroy removes every resource of the stack and then its state.
//
// The DNS records written by the last apply are taken from the state and
// deleted through the configured provider, together with the validation
// records of the stack's certificate. With keepDNS the records and the
// certificate are left alone and no DNS provider is required.
func Destroy(ctx context.Context, configPath string, keepDNS bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log := newLogger().WithValues("stack", cfg.Stack, "region", cfg.Region)
	log.Info("destroying stack")

	infra, err := newInfraClient(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create AWS client: %w", err)
	}

	var provider dns.Provider
	if !keepDNS {
		provider, err = newDNSProvider(cfg, infra)
		if err != nil {
			return fmt.Errorf("failed to create DNS provider: %w", err)
		}
	}

	store, previous, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	opts := orchestration.DestroyOptions{KeepDNS: keepDNS}
	if previous != nil {
		opts.Records = previous.DNSRecords
	}

	if _, err := newReconciler(infra, provider, cfg).Destroy(ctx, opts); err != nil {
		return fmt.Errorf("destroy failed: %w", err)
	}

	if err := store.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}

	log.Info("stack destroyed")
	fmt.Fprintf(stdout, "Stack %s destroyed.\n", cfg.Stack)
	return nil
}
