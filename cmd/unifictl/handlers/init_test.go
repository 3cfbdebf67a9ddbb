package handlers

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/config/wizard"
)

func TestInit_NonInteractive(t *testing.T) {
	saveAndRestoreFactories(t)
	var out bytes.Buffer
	stdout = &out
	path := filepath.Join(t.TempDir(), "unifictl.yaml")

	err := Init(context.Background(), InitOptions{OutputPath: path, NonInteractive: true, Stack: "lab", Zone: "example.com"})
	require.NoError(t, err)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "lab", cfg.Stack)
	assert.Equal(t, "unifi.example.com", cfg.Controller.Hostname)
	assert.Equal(t, "*.example.com", cfg.LoadBalancer.CertificateDomain)
	assert.Contains(t, out.String(), "unifictl apply -c "+path)
}

func TestInit_NonInteractiveRequiresZone(t *testing.T) {
	saveAndRestoreFactories(t)
	stdout = &bytes.Buffer{}

	err := Init(context.Background(), InitOptions{OutputPath: filepath.Join(t.TempDir(), "u.yaml"), NonInteractive: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--zone is required")
}

func TestInit_NonInteractiveRefusesOverwrite(t *testing.T) {
	saveAndRestoreFactories(t)
	stdout = &bytes.Buffer{}
	fileExists = func(string) bool { return true }
	writeConfig = func(*config.Config, string, bool) error {
		t.Fatal("must not write")
		return nil
	}

	err := Init(context.Background(), InitOptions{OutputPath: "unifictl.yaml", NonInteractive: true, Zone: "example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_NoTerminal(t *testing.T) {
	saveAndRestoreFactories(t)
	stdinInteractive = func() bool { return false }

	err := Init(context.Background(), InitOptions{OutputPath: "unifictl.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--non-interactive")
}

func TestInit_Wizard(t *testing.T) {
	saveAndRestoreFactories(t)
	stdout = &bytes.Buffer{}
	stdinInteractive = func() bool { return true }
	fileExists = func(string) bool { return false }

	var advanced bool
	runWizard = func(_ context.Context, adv bool) (*wizard.WizardResult, error) {
		advanced = adv
		r := wizard.DefaultResult("home")
		r.Hostname = "unifi.example.com"
		r.ZoneName = "example.com"
		r.DNSProvider = config.DNSProviderCloudflare
		return r, nil
	}
	var written *config.Config
	var full bool
	writeConfig = func(cfg *config.Config, _ string, fullOutput bool) error {
		written, full = cfg, fullOutput
		return nil
	}

	err := Init(context.Background(), InitOptions{OutputPath: "unifictl.yaml", Advanced: true, FullOutput: true})
	require.NoError(t, err)
	assert.True(t, advanced)
	assert.True(t, full)
	require.NotNil(t, written)
	assert.Equal(t, "*.example.com", written.LoadBalancer.CertificateDomain)
	assert.Contains(t, stdout.(*bytes.Buffer).String(), "CLOUDFLARE_API_TOKEN")
}

func TestInit_WizardCanceled(t *testing.T) {
	saveAndRestoreFactories(t)
	stdout = &bytes.Buffer{}
	stdinInteractive = func() bool { return true }
	fileExists = func(string) bool { return false }
	runWizard = func(context.Context, bool) (*wizard.WizardResult, error) {
		return nil, errors.New("user aborted")
	}

	err := Init(context.Background(), InitOptions{OutputPath: "unifictl.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wizard canceled")
}

func TestInit_OverwriteDeclined(t *testing.T) {
	saveAndRestoreFactories(t)
	var out bytes.Buffer
	stdout = &out
	stdinInteractive = func() bool { return true }
	fileExists = func(string) bool { return true }
	confirmOverwrite = func(string) (bool, error) { return false, nil }
	runWizard = func(context.Context, bool) (*wizard.WizardResult, error) {
		t.Fatal("wizard must not run")
		return nil, nil
	}

	require.NoError(t, Init(context.Background(), InitOptions{OutputPath: "unifictl.yaml"}))
	assert.Contains(t, out.String(), "Aborted.")
}

func TestInit_InvalidAnswers(t *testing.T) {
	saveAndRestoreFactories(t)
	stdout = &bytes.Buffer{}

	err := Init(context.Background(), InitOptions{
		OutputPath:     filepath.Join(t.TempDir(), "u.yaml"),
		NonInteractive: true,
		Zone:           "example.com",
		Hostname:       "unifi.other.org",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}
