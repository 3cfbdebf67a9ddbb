package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/provisioning"
	"github.com/homelab-infra/unifictl/internal/state"
)

// Apply provisions or updates the stack described by the configuration.
//
// The workflow:
//  1. Loads and validates the configuration
//  2. Creates the AWS client and the DNS provider
//  3. Loads the outputs of the previous apply, if any
//  4. Reconciles every phase from network to controller
//  5. Writes the metrics file, also when reconciliation failed
//  6. Saves the new outputs to the state backend
func Apply(ctx context.Context, configPath, metricsFile string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log := newLogger().WithValues("stack", cfg.Stack, "region", cfg.Region)
	log.Info("applying configuration")

	infra, err := newInfraClient(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create AWS client: %w", err)
	}

	provider, err := newDNSProvider(cfg, infra)
	if err != nil {
		return fmt.Errorf("failed to create DNS provider: %w", err)
	}

	store, previous, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	result, runErr := newReconciler(infra, provider, cfg).Reconcile(ctx)
	if result != nil {
		if err := writeMetrics(result.Metrics, metricsFile); err != nil {
			log.Error(err, "failed to write metrics", "path", metricsFile)
		}
	}
	if runErr != nil {
		return fmt.Errorf("reconciliation failed: %w", runErr)
	}

	out := state.FromState(cfg, result.State, previous, result.Finished)
	if err := store.Save(ctx, out); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	log.Info("apply complete", "duration", result.Finished.Sub(result.Started).Round(time.Millisecond).String())
	printApplySuccess(cfg, out)
	return nil
}

func writeMetrics(m *provisioning.Metrics, path string) error {
	if path == "" {
		return nil
	}
	return m.WriteToTextfile(path)
}

// printApplySuccess outputs the endpoints of the stack.
func printApplySuccess(cfg *config.Config, out *state.Outputs) {
	fmt.Fprintf(stdout, "\nStack %s is up to date.\n", out.Stack)
	fmt.Fprintf(stdout, "  Web admin:     %s\n", out.WebAdminURL)
	if out.NLBDNSName != "" {
		fmt.Fprintf(stdout, "  Device target: %s\n", out.NLBDNSName)
	}
	if cfg.Controller.InformPortEnabled() {
		fmt.Fprintf(stdout, "  Inform URL:    http://%s:%d/inform\n", cfg.Controller.Hostname, config.InformPort)
	}
	fmt.Fprintf(stdout, "  Resources:     %d\n", len(out.Resources))
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Run 'unifictl status' to see every resource.")
}
