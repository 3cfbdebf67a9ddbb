package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := LoadFromBytes([]byte(minimalYAML))
	require.NoError(t, err)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing stack", mutate: func(c *Config) { c.Stack = "" }, wantErr: "stack is required"},
		{name: "stack too long", mutate: func(c *Config) { c.Stack = "a-very-long-stack-name" }, wantErr: "1-16 lowercase"},
		{name: "uppercase stack", mutate: func(c *Config) { c.Stack = "Home" }, wantErr: "1-16 lowercase"},
		{name: "bad cidr", mutate: func(c *Config) { c.Network.CIDR = "10.0.0.0" }, wantErr: "network.cidr: invalid CIDR"},
		{name: "cidr not /16", mutate: func(c *Config) { c.Network.CIDR = "10.0.0.0/20" }, wantErr: "prefix must be /16"},
		{name: "ipv6 cidr", mutate: func(c *Config) { c.Network.CIDR = "2001:db8::/56" }, wantErr: "only IPv4"},
		{name: "one az", mutate: func(c *Config) { c.Network.AvailabilityZones = 1; c.Network.NATGateways = 1 }, wantErr: "network.availabilityZones"},
		{name: "too many nats", mutate: func(c *Config) { c.Network.NATGateways = 3 }, wantErr: "network.natGateways"},
		{name: "bad capacity provider", mutate: func(c *Config) { c.Cluster.CapacityProviders = []string{"EC2"} }, wantErr: "unsupported capacity provider"},
		{name: "missing zone", mutate: func(c *Config) { c.LoadBalancer.ZoneName = "" }, wantErr: "loadBalancer.zoneName is required"},
		{name: "cert outside zone", mutate: func(c *Config) { c.LoadBalancer.CertificateDomain = "*.other.org" }, wantErr: "is not within zone"},
		{name: "hostname not covered", mutate: func(c *Config) { c.Controller.Hostname = "a.b.home.example.com" }, wantErr: "not covered by certificate"},
		{name: "missing version", mutate: func(c *Config) { c.Controller.Version = "" }, wantErr: "controller.version is required"},
		{name: "oversized task", mutate: func(c *Config) { c.Controller.CPU = 8192 }, wantErr: "no Fargate task size"},
		{name: "bad env name", mutate: func(c *Config) { c.Controller.Environment = map[string]string{"A B": "x"} }, wantErr: "invalid variable name"},
		{name: "bad dns provider", mutate: func(c *Config) { c.DNS.Provider = "bind" }, wantErr: "unsupported provider"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.State.Backend = StateBackendS3 }, wantErr: "state.bucket is required"},
		{name: "unknown backend", mutate: func(c *Config) { c.State.Backend = "etcd" }, wantErr: "unsupported backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)

	for _, msg := range []string{"stack is required", "region is required", "controller.version is required", "loadBalancer.certificateDomain is required"} {
		assert.Contains(t, err.Error(), msg)
	}
}

func TestCertificateCovers(t *testing.T) {
	tests := []struct {
		domain, host string
		want         bool
	}{
		{"*.home.example.com", "unifi.home.example.com", true},
		{"*.home.example.com", "home.example.com", false},
		{"*.home.example.com", "a.unifi.home.example.com", false},
		{"unifi.home.example.com", "unifi.home.example.com", true},
		{"unifi.home.example.com.", "UNIFI.home.example.com", true},
		{"other.home.example.com", "unifi.home.example.com", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CertificateCovers(tt.domain, tt.host), "%s covers %s", tt.domain, tt.host)
	}
}
