package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFilename is the file FindConfigFile looks for.
const DefaultConfigFilename = "unifictl.yaml"

// LoadFile reads, defaults and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses, defaults and validates a YAML document.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// parse decodes YAML strictly so that misspelled keys are reported.
func parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &cfg, nil
}

// ApplyDefaults fills every empty field with its default value.
func (c *Config) ApplyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}

	if c.Network.CIDR == "" {
		c.Network.CIDR = DefaultCIDR
	}
	if c.Network.AvailabilityZones == 0 {
		c.Network.AvailabilityZones = DefaultAvailabilityZones
	}
	if c.Network.NATGateways == 0 {
		c.Network.NATGateways = DefaultNATGateways
	}

	if len(c.Cluster.CapacityProviders) == 0 {
		c.Cluster.CapacityProviders = []string{DefaultCapacityProvider}
	}

	ctl := &c.Controller
	if ctl.Image == "" {
		ctl.Image = DefaultImage
	}
	if ctl.CPU == 0 {
		ctl.CPU = DefaultCPU
	}
	if ctl.Memory == 0 {
		ctl.Memory = DefaultMemory
	}
	if ctl.DesiredCount == 0 {
		ctl.DesiredCount = DefaultDesiredCount
	}
	if ctl.HealthCheckGracePeriod == 0 {
		ctl.HealthCheckGracePeriod = DefaultHealthCheckGrace
	}
	if ctl.LogRetentionDays == 0 {
		ctl.LogRetentionDays = DefaultLogRetentionDays
	}

	if c.DNS.Provider == "" {
		c.DNS.Provider = DefaultDNSProvider
	}

	if c.State.Backend == "" {
		c.State.Backend = DefaultStateBackend
	}
	if c.State.Path == "" {
		switch c.State.Backend {
		case StateBackendSQLite:
			c.State.Path = DefaultSQLitePath
		case StateBackendFile:
			c.State.Path = DefaultStatePath
		}
	}
	if c.State.Backend == StateBackendS3 && c.State.Key == "" {
		c.State.Key = c.Stack + "/state.yaml"
	}
}

// FindConfigFile looks for unifictl.yaml in the working directory and
// then in each parent directory.
func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	for {
		path := filepath.Join(dir, DefaultConfigFilename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("config file %s not found", DefaultConfigFilename)
}

// Save writes cfg to path as YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
