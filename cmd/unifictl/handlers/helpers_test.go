package handlers

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/dns"
	"github.com/homelab-infra/unifictl/internal/orchestration"
	"github.com/homelab-infra/unifictl/internal/platform/aws"
	"github.com/homelab-infra/unifictl/internal/state"
)

// saveAndRestoreFactories restores every factory variable when the test ends.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origLogger := newLogger
	origInfra := newInfraClient
	origDNS := newDNSProvider
	origReconciler := newReconciler
	origStore := newStore
	origLoad := loadConfigFile
	origFind := findConfigFile
	origStdout := stdout
	origInteractive := isInteractive
	origFileExists := fileExists
	origConfirm := confirmOverwrite
	origWizard := runWizard
	origWrite := writeConfig
	origStdin := stdinInteractive
	t.Cleanup(func() {
		newLogger = origLogger
		newInfraClient = origInfra
		newDNSProvider = origDNS
		newReconciler = origReconciler
		newStore = origStore
		loadConfigFile = origLoad
		findConfigFile = origFind
		stdout = origStdout
		isInteractive = origInteractive
		fileExists = origFileExists
		confirmOverwrite = origConfirm
		runWizard = origWizard
		writeConfig = origWrite
		stdinInteractive = origStdin
	})

	newLogger = logr.Discard
	isInteractive = func() bool { return false }
}

// testEnv wires the handlers to a mock AWS client, a Route53 provider on
// that client and a file store under a temp dir.
type testEnv struct {
	cfg        *config.Config
	infra      *aws.MockClient
	reconciler *fakeReconciler
	store      *state.FileStore
	out        *bytes.Buffer
	dnsCalls   int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	saveAndRestoreFactories(t)

	cfg := &config.Config{
		Stack:  "home",
		Region: "eu-west-1",
		LoadBalancer: config.LoadBalancerConfig{
			CertificateDomain: "*.example.com",
			ZoneName:          "example.com",
		},
		Controller: config.ControllerConfig{Version: "7.3.83", Hostname: "unifi.example.com"},
	}
	cfg.ApplyDefaults()

	env := &testEnv{
		cfg:        cfg,
		infra:      &aws.MockClient{},
		reconciler: &fakeReconciler{},
		store:      state.NewFileStore(filepath.Join(t.TempDir(), "state.yaml")),
		out:        &bytes.Buffer{},
	}

	loadConfigFile = func(path string) (*config.Config, error) {
		return env.cfg, nil
	}
	findConfigFile = func() (string, error) { return "unifictl.yaml", nil }
	newInfraClient = func(_ context.Context, _ *config.Config, _ logr.Logger) (aws.InfrastructureManager, error) {
		return env.infra, nil
	}
	newDNSProvider = func(cfg *config.Config, infra aws.InfrastructureManager) (dns.Provider, error) {
		env.dnsCalls++
		return dns.NewRoute53Provider(infra, cfg.LoadBalancer.ZoneName), nil
	}
	newReconciler = func(_ aws.InfrastructureManager, provider dns.Provider, _ *config.Config) Reconciler {
		env.reconciler.provider = provider
		return env.reconciler
	}
	newStore = func(_ context.Context, _ *config.Config) (state.Store, error) {
		return env.store, nil
	}
	stdout = env.out

	return env
}

type fakeReconciler struct {
	result   *orchestration.Result
	err      error
	provider dns.Provider

	reconciled  bool
	destroyOpts *orchestration.DestroyOptions
}

func (f *fakeReconciler) Reconcile(_ context.Context) (*orchestration.Result, error) {
	f.reconciled = true
	return f.result, f.err
}

func (f *fakeReconciler) Destroy(_ context.Context, opts orchestration.DestroyOptions) (*orchestration.Result, error) {
	f.destroyOpts = &opts
	return f.result, f.err
}

func writeTestFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
