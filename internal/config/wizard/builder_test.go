package wizard

import (
	"testing"

	"github.com/homelab-infra/unifictl/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeResult() *WizardResult {
	r := DefaultResult("home")
	r.Hostname = "unifi.example.com"
	r.ZoneName = "example.com"
	r.CertificateDomain = CertificateDomainFor(r.ZoneName)
	return r
}

func TestDefaultResult(t *testing.T) {
	r := DefaultResult("home")
	assert.Equal(t, "home", r.Stack)
	assert.Equal(t, "eu-west-1", r.Region)
	assert.Equal(t, config.DNSProviderRoute53, r.DNSProvider)
	assert.Equal(t, config.StateBackendFile, r.StateBackend)
	assert.True(t, r.StorageEnabled)
	assert.True(t, r.InformPort)
	assert.Nil(t, r.AdvancedOptions)
}

func TestBuildConfig_Defaults(t *testing.T) {
	cfg := BuildConfig(completeResult())

	assert.Equal(t, "home", cfg.Stack)
	assert.Equal(t, "*.example.com", cfg.LoadBalancer.CertificateDomain)
	assert.Equal(t, "example.com", cfg.LoadBalancer.ZoneName)
	assert.Equal(t, "unifi.example.com", cfg.Controller.Hostname)
	assert.Nil(t, cfg.Storage.Enabled)
	assert.Nil(t, cfg.Controller.InformPort)
	assert.Empty(t, cfg.State.Bucket)

	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
}

func TestBuildConfig_Toggles(t *testing.T) {
	r := completeResult()
	r.StorageEnabled = false
	r.InformPort = false
	r.StateBackend = config.StateBackendS3
	r.StateBucket = "my-state"
	r.CertificateDomain = ""

	cfg := BuildConfig(r)
	require.NotNil(t, cfg.Storage.Enabled)
	assert.False(t, *cfg.Storage.Enabled)
	require.NotNil(t, cfg.Controller.InformPort)
	assert.False(t, *cfg.Controller.InformPort)
	assert.Equal(t, "my-state", cfg.State.Bucket)
	assert.Equal(t, "*.example.com", cfg.LoadBalancer.CertificateDomain)
}

func TestBuildConfig_AdvancedOptions(t *testing.T) {
	r := completeResult()
	r.AdvancedOptions = &AdvancedOptions{NetworkCIDR: "10.20.0.0/16", AvailabilityZones: 3, NATGateways: 3, Memory: 2048}

	cfg := BuildConfig(r)
	assert.Equal(t, config.NetworkConfig{CIDR: "10.20.0.0/16", AvailabilityZones: 3, NATGateways: 3}, cfg.Network)
	assert.Equal(t, 2048, cfg.Controller.Memory)
}

func TestDefaultAdvancedOptions(t *testing.T) {
	opts := DefaultAdvancedOptions()
	assert.Equal(t, config.DefaultCIDR, opts.NetworkCIDR)
	assert.Equal(t, config.DefaultMemory, opts.Memory)
}
