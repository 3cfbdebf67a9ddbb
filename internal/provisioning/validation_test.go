package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/dns"
	"github.com/homelab-infra/unifictl/internal/platform/aws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *config.Config {
	cfg := &config.Config{
		Stack:  "home",
		Region: "eu-west-1",
		LoadBalancer: config.LoadBalancerConfig{
			CertificateDomain: "*.home.example.com",
			ZoneName:          "home.example.com",
		},
		Controller: config.ControllerConfig{
			Version:  "7.3.83",
			Hostname: "unifi.home.example.com",
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

type stubDNS struct {
	zone *dns.Zone
	err  error
}

func (s *stubDNS) Name() string { return "stub" }
func (s *stubDNS) Zone(context.Context) (*dns.Zone, error) {
	return s.zone, s.err
}
func (s *stubDNS) UpsertValidationRecords(context.Context, string, []aws.DNSRecord) ([]dns.Record, error) {
	return nil, nil
}
func (s *stubDNS) UpsertHost(context.Context, string, string, dns.Target) ([]dns.Record, error) {
	return nil, nil
}
func (s *stubDNS) DeleteRecords(context.Context, string, []dns.Record) error { return nil }

func newValidationContext(cfg *config.Config, infra aws.InfrastructureManager, provider dns.Provider) (*Context, *MockObserver) {
	observer := NewMockObserver()
	return &Context{
		Context:  context.Background(),
		Config:   cfg,
		State:    NewState(),
		Infra:    infra,
		DNS:      provider,
		Observer: observer,
		Timeouts: config.TestTimeouts(),
	}, observer
}

func TestValidationPhase_Name(t *testing.T) {
	assert.Equal(t, "validation", NewValidationPhase().Name())
}

func TestValidationPhase_Passes(t *testing.T) {
	provider := &stubDNS{zone: &dns.Zone{ID: "Z1", Name: "home.example.com"}}
	ctx, observer := newValidationContext(validConfig(), &aws.MockClient{}, provider)

	require.NoError(t, NewValidationPhase().Provision(ctx))
	assert.Contains(t, observer.messages, "[Validation] Found stub zone home.example.com (Z1)")
	assert.Contains(t, observer.messages, "[Validation] Using AWS account 123456789012 as arn:aws:iam::123456789012:user/mock")
}

func TestValidationPhase_ConfigErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Stack = ""
	cfg.Network.CIDR = "not-a-cidr"
	ctx, observer := newValidationContext(cfg, &aws.MockClient{}, nil)

	err := NewValidationPhase().Provision(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
	assert.Contains(t, err.Error(), "stack is required")
	assert.Contains(t, err.Error(), "[error] network.cidr: invalid CIDR")
	assert.GreaterOrEqual(t, len(observer.eventsOfType(EventValidationError)), 2)
}

func TestValidationPhase_WarningsDoNotFail(t *testing.T) {
	cfg := validConfig()
	cfg.Network.AvailabilityZones = 3
	cfg.Network.NATGateways = 1
	disabled := false
	cfg.Storage.Enabled = &disabled
	ctx, observer := newValidationContext(cfg, &aws.MockClient{}, nil)

	require.NoError(t, NewValidationPhase().Provision(ctx))

	warnings := observer.eventsOfType(EventValidationWarning)
	require.Len(t, warnings, 2)
	assert.Equal(t, "network.natGateways", warnings[0].Fields["field"])
	assert.Equal(t, "storage.enabled", warnings[1].Fields["field"])
}

func TestValidationPhase_PreflightFailures(t *testing.T) {
	t.Run("caller identity", func(t *testing.T) {
		infra := &aws.MockClient{
			CallerIdentityFunc: func(context.Context) (*aws.Identity, error) {
				return nil, errors.New("ExpiredToken")
			},
		}
		ctx, _ := newValidationContext(validConfig(), infra, nil)

		err := NewValidationPhase().Provision(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to resolve AWS caller identity: ExpiredToken")
	})

	t.Run("zone lookup", func(t *testing.T) {
		ctx, _ := newValidationContext(validConfig(), &aws.MockClient{}, &stubDNS{err: errors.New("no such zone")})

		err := NewValidationPhase().Provision(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to look up stub zone: no such zone")
	})

	t.Run("skipped", func(t *testing.T) {
		infra := &aws.MockClient{
			CallerIdentityFunc: func(context.Context) (*aws.Identity, error) {
				return nil, errors.New("should not be called")
			},
		}
		ctx, _ := newValidationContext(validConfig(), infra, nil)

		assert.NoError(t, (&ValidationPhase{}).Provision(ctx))
	})
}

func TestSplitField(t *testing.T) {
	tests := []struct {
		in        string
		wantField string
		wantMsg   string
	}{
		{"network.cidr: prefix must be /16, got /24", "network.cidr", "prefix must be /16, got /24"},
		{"stack is required", "config", "stack is required"},
		{`stack "Home" must be lowercase: x`, "config", `stack "Home" must be lowercase: x`},
	}
	for _, tt := range tests {
		field, msg := splitField(tt.in)
		assert.Equal(t, tt.wantField, field)
		assert.Equal(t, tt.wantMsg, msg)
	}
}

func TestValidationError(t *testing.T) {
	ve := ValidationError{Field: "stack", Message: "stack is required", Severity: SeverityError}
	assert.Equal(t, "[error] stack: stack is required", ve.Error())
	assert.True(t, ve.IsError())

	warn := ValidationError{Field: "storage.enabled", Message: "off", Severity: SeverityWarning}
	assert.False(t, warn.IsError())
}
