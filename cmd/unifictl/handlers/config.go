// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/dns"
	"github.com/homelab-infra/unifictl/internal/orchestration"
	"github.com/homelab-infra/unifictl/internal/platform/aws"
	"github.com/homelab-infra/unifictl/internal/provisioning"
	"github.com/homelab-infra/unifictl/internal/state"
)

// Reconciler interface for testing - matches orchestration.Reconciler.
type Reconciler interface {
	Reconcile(ctx context.Context) (*orchestration.Result, error)
	Destroy(ctx context.Context, opts orchestration.DestroyOptions) (*orchestration.Result, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newLogger builds the logger handlers report through.
	newLogger = provisioning.LoggerFromEnv

	// newInfraClient creates the AWS client for the stack's region.
	newInfraClient = func(ctx context.Context, cfg *config.Config, log logr.Logger) (aws.InfrastructureManager, error) {
		return aws.NewRealClient(ctx, cfg.Region, cfg.AWS.Profile, aws.WithLogger(log))
	}

	// newDNSProvider selects the DNS provider of the stack.
	newDNSProvider = func(cfg *config.Config, infra aws.InfrastructureManager) (dns.Provider, error) {
		return dns.NewProvider(cfg, infra)
	}

	// newReconciler creates the orchestration reconciler.
	newReconciler = func(infra aws.InfrastructureManager, provider dns.Provider, cfg *config.Config) Reconciler {
		return orchestration.NewReconciler(infra, provider, cfg)
	}

	// newStore opens the state backend of the stack.
	newStore = state.NewStore

	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.LoadFile

	// findConfigFile finds unifictl.yaml (for testing injection).
	findConfigFile = config.FindConfigFile

	// stdout receives command output.
	stdout io.Writer = os.Stdout
)

// loadConfig loads and validates the stack configuration. If configPath is
// empty, unifictl.yaml is searched for from the working directory up.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no config file found: %w\nRun 'unifictl init' to create one", err)
		}
		configPath = path
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openStore opens the state store and loads the last outputs. A stack
// that was never applied yields nil outputs.
func openStore(ctx context.Context, cfg *config.Config) (state.Store, *state.Outputs, error) {
	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open state: %w", err)
	}

	out, err := store.Load(ctx)
	if err != nil && !errors.Is(err, state.ErrNotFound) {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to load state: %w", err)
	}
	return store, out, nil
}
