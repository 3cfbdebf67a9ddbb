package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/config/wizard"
	"github.com/homelab-infra/unifictl/internal/ui/status"
)

// InitOptions are the flags of the init command.
type InitOptions struct {
	OutputPath     string
	Advanced       bool
	FullOutput     bool
	NonInteractive bool

	// Stack, Zone and Hostname seed a non-interactive run.
	Stack    string
	Zone     string
	Hostname string
}

// Factory function variables for init - can be replaced in tests.
var (
	fileExists       = wizard.FileExists
	confirmOverwrite = wizard.ConfirmOverwrite
	runWizard        = wizard.RunWizard
	writeConfig      = wizard.WriteConfig

	// stdinInteractive reports whether prompts can be answered.
	stdinInteractive = func() bool {
		return status.IsInteractive(os.Stdin)
	}
)

// Init creates a stack configuration file, either through the interactive
// wizard or from defaults and flags.
func Init(ctx context.Context, opts InitOptions) error {
	if !opts.NonInteractive && !stdinInteractive() {
		return errors.New("stdin is not a terminal: use --non-interactive with --zone")
	}

	if fileExists(opts.OutputPath) {
		if opts.NonInteractive {
			return fmt.Errorf("%s already exists", opts.OutputPath)
		}
		ok, err := confirmOverwrite(opts.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !ok {
			fmt.Fprintln(stdout, "Aborted.")
			return nil
		}
	}

	var (
		result *wizard.WizardResult
		err    error
	)
	if opts.NonInteractive {
		result, err = defaultResult(opts)
		if err != nil {
			return err
		}
	} else {
		printWelcome()
		result, err = runWizard(ctx, opts.Advanced)
		if err != nil {
			return fmt.Errorf("wizard canceled: %w", err)
		}
	}

	cfg := wizard.BuildConfig(result)

	check := *cfg
	check.ApplyDefaults()
	if err := check.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := writeConfig(cfg, opts.OutputPath, opts.FullOutput); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(opts.OutputPath, &check)
	return nil
}

// defaultResult builds wizard answers from flags alone.
func defaultResult(opts InitOptions) (*wizard.WizardResult, error) {
	if opts.Zone == "" {
		return nil, errors.New("--zone is required with --non-interactive")
	}

	stack := opts.Stack
	if stack == "" {
		stack = "home"
	}
	result := wizard.DefaultResult(stack)
	result.ZoneName = opts.Zone
	result.CertificateDomain = wizard.CertificateDomainFor(opts.Zone)
	result.Hostname = opts.Hostname
	if result.Hostname == "" {
		result.Hostname = "unifi." + opts.Zone
	}
	return result, nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "unifictl - Unifi controller on AWS")
	fmt.Fprintln(stdout, "==================================")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "This wizard creates a stack configuration with sensible defaults.")
	fmt.Fprintln(stdout)
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration saved!")
	fmt.Fprintf(stdout, "  File: %s\n", outputPath)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Stack Summary")
	fmt.Fprintln(stdout, "-------------")
	fmt.Fprintf(stdout, "  Stack:       %s\n", cfg.Stack)
	fmt.Fprintf(stdout, "  Region:      %s\n", cfg.Region)
	fmt.Fprintf(stdout, "  Controller:  %s\n", cfg.Controller.ImageRef())
	fmt.Fprintf(stdout, "  Web admin:   %s\n", cfg.Controller.WebAdminURL())
	fmt.Fprintf(stdout, "  DNS:         %s (%s)\n", cfg.LoadBalancer.ZoneName, cfg.DNS.Provider)
	fmt.Fprintf(stdout, "  Storage:     %t\n", cfg.Storage.StorageEnabled())
	fmt.Fprintf(stdout, "  State:       %s\n", cfg.State.Backend)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Next Steps")
	fmt.Fprintln(stdout, "----------")
	step := 1
	if cfg.DNS.Provider == config.DNSProviderCloudflare {
		fmt.Fprintf(stdout, "  %d. Set your Cloudflare API token:\n", step)
		fmt.Fprintln(stdout, "     export CLOUDFLARE_API_TOKEN=<your-token>")
		step++
	}
	fmt.Fprintf(stdout, "  %d. Check AWS access and the DNS zone:\n", step)
	fmt.Fprintf(stdout, "     unifictl validate -c %s\n", outputPath)
	step++
	fmt.Fprintf(stdout, "  %d. Create the stack:\n", step)
	fmt.Fprintf(stdout, "     unifictl apply -c %s\n", outputPath)
	fmt.Fprintln(stdout)
}
