package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/dns"
	"github.com/homelab-infra/unifictl/internal/orchestration"
	"github.com/homelab-infra/unifictl/internal/platform/aws"
	"github.com/homelab-infra/unifictl/internal/provisioning"
	"github.com/homelab-infra/unifictl/internal/state"
)

func appliedResult(finished time.Time) *orchestration.Result {
	s := provisioning.NewState()
	s.VPC = &aws.VPC{ID: "vpc-1"}
	s.NLB = &aws.LoadBalancer{Name: "home-nlb", DNSName: "home-nlb.elb.amazonaws.com"}
	s.WebAdminURL = "https://unifi.example.com:8443"
	s.DNSRecords = []dns.Record{{Name: "unifi.example.com", Type: "A"}}

	m := provisioning.NewMetrics()
	m.MarkSuccess(finished)
	return &orchestration.Result{State: s, Metrics: m, Started: finished.Add(-time.Minute), Finished: finished}
}

func TestApply(t *testing.T) {
	env := newTestEnv(t)
	finished := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	env.reconciler.result = appliedResult(finished)

	require.NoError(t, Apply(context.Background(), "unifictl.yaml", ""))

	assert.True(t, env.reconciler.reconciled)
	require.NotNil(t, env.reconciler.provider)
	assert.Equal(t, "route53", env.reconciler.provider.Name())

	out, err := env.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "home", out.Stack)
	assert.Equal(t, "https://unifi.example.com:8443", out.WebAdminURL)
	assert.Equal(t, "home-nlb.elb.amazonaws.com", out.NLBDNSName)
	assert.Equal(t, "vpc-1", out.Resources["vpc"])
	assert.Equal(t, []dns.Record{{Name: "unifi.example.com", Type: "A"}}, out.DNSRecords)
	assert.True(t, finished.Equal(out.CreatedAt))

	assert.Contains(t, env.out.String(), "Stack home is up to date.")
	assert.Contains(t, env.out.String(), "http://unifi.example.com:8080/inform")
}

func TestApply_KeepsCreationTime(t *testing.T) {
	env := newTestEnv(t)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, env.store.Save(context.Background(), &state.Outputs{Stack: "home", CreatedAt: created, UpdatedAt: created}))

	finished := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	env.reconciler.result = appliedResult(finished)

	require.NoError(t, Apply(context.Background(), "", ""))

	out, err := env.store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, created.Equal(out.CreatedAt))
	assert.True(t, finished.Equal(out.UpdatedAt))
}

func TestApply_WritesMetrics(t *testing.T) {
	env := newTestEnv(t)
	env.reconciler.result = appliedResult(time.Now())
	path := filepath.Join(t.TempDir(), "unifictl.prom")

	require.NoError(t, Apply(context.Background(), "unifictl.yaml", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "unifictl_apply_last_success_timestamp_seconds")
}

func TestApply_ReconcileFails(t *testing.T) {
	env := newTestEnv(t)
	env.reconciler.result = &orchestration.Result{State: provisioning.NewState(), Metrics: provisioning.NewMetrics()}
	env.reconciler.err = errors.New("cluster phase failed: access denied")
	path := filepath.Join(t.TempDir(), "unifictl.prom")

	err := Apply(context.Background(), "unifictl.yaml", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reconciliation failed: cluster phase failed")

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "metrics are written for failed runs too")

	_, err = env.store.Load(context.Background())
	assert.ErrorIs(t, err, state.ErrNotFound)
}

func TestApply_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(env *testEnv)
		wantErr string
	}{
		{
			name: "config",
			setup: func(*testEnv) {
				loadConfigFile = func(string) (*config.Config, error) { return nil, errors.New("bad yaml") }
			},
			wantErr: "failed to load config: bad yaml",
		},
		{
			name: "aws client",
			setup: func(*testEnv) {
				newInfraClient = func(context.Context, *config.Config, logr.Logger) (aws.InfrastructureManager, error) {
					return nil, errors.New("no credentials")
				}
			},
			wantErr: "failed to create AWS client: no credentials",
		},
		{
			name: "dns provider",
			setup: func(*testEnv) {
				newDNSProvider = func(*config.Config, aws.InfrastructureManager) (dns.Provider, error) {
					return nil, errors.New("CLOUDFLARE_API_TOKEN must be set")
				}
			},
			wantErr: "failed to create DNS provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.setup(env)

			err := Apply(context.Background(), "unifictl.yaml", "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.False(t, env.reconciler.reconciled)
		})
	}
}
