package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/homelab-infra/unifictl/internal/config"
)

// Function variable for dependency injection in tests.
var confirmOverwrite = defaultConfirmOverwrite

// WriteConfig writes the config to a YAML file with a descriptive header.
// If fullOutput is false, only essential non-default values are written.
func WriteConfig(cfg *config.Config, outputPath string, fullOutput bool) error {
	var yamlBytes []byte
	var err error

	if fullOutput {
		full := *cfg
		full.ApplyDefaults()
		yamlBytes, err = yaml.Marshal(&full)
	} else {
		yamlBytes, err = yaml.Marshal(buildMinimalConfig(cfg))
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(cfg, outputPath, fullOutput))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// MinimalConfig represents the minimal configuration for YAML output.
// Only contains fields that are essential or explicitly set by the user.
type MinimalConfig struct {
	Stack        string                    `yaml:"stack"`
	Region       string                    `yaml:"region"`
	Network      *MinimalNetworkConfig     `yaml:"network,omitempty"`
	LoadBalancer config.LoadBalancerConfig `yaml:"loadBalancer"`
	Controller   MinimalControllerConfig   `yaml:"controller"`
	Storage      *config.StorageConfig     `yaml:"storage,omitempty"`
	DNS          *config.DNSConfig         `yaml:"dns,omitempty"`
	State        *config.StateConfig       `yaml:"state,omitempty"`
}

// MinimalNetworkConfig contains network settings if customized.
type MinimalNetworkConfig struct {
	CIDR              string `yaml:"cidr,omitempty"`
	AvailabilityZones int    `yaml:"availabilityZones,omitempty"`
	NATGateways       int    `yaml:"natGateways,omitempty"`
}

// MinimalControllerConfig contains essential controller settings.
type MinimalControllerConfig struct {
	Version    string `yaml:"version"`
	Hostname   string `yaml:"hostname"`
	Memory     int    `yaml:"memory,omitempty"`
	InformPort *bool  `yaml:"informPort,omitempty"`
}

// buildMinimalConfig creates a minimal config from the full config.
func buildMinimalConfig(cfg *config.Config) *MinimalConfig {
	minCfg := &MinimalConfig{
		Stack:        cfg.Stack,
		Region:       cfg.Region,
		LoadBalancer: cfg.LoadBalancer,
		Controller: MinimalControllerConfig{
			Version:    cfg.Controller.Version,
			Hostname:   cfg.Controller.Hostname,
			InformPort: cfg.Controller.InformPort,
		},
	}

	// Network config - only if customized
	n := cfg.Network
	if (n.CIDR != "" && n.CIDR != config.DefaultCIDR) ||
		(n.AvailabilityZones != 0 && n.AvailabilityZones != config.DefaultAvailabilityZones) ||
		(n.NATGateways != 0 && n.NATGateways != config.DefaultNATGateways) {
		minCfg.Network = &MinimalNetworkConfig{
			CIDR:              n.CIDR,
			AvailabilityZones: n.AvailabilityZones,
			NATGateways:       n.NATGateways,
		}
	}

	if cfg.Controller.Memory != 0 && cfg.Controller.Memory != config.DefaultMemory {
		minCfg.Controller.Memory = cfg.Controller.Memory
	}
	if cfg.Storage.Enabled != nil {
		minCfg.Storage = &config.StorageConfig{Enabled: cfg.Storage.Enabled}
	}
	if cfg.DNS.Provider != "" && cfg.DNS.Provider != config.DefaultDNSProvider {
		dnsCfg := cfg.DNS
		minCfg.DNS = &dnsCfg
	}
	if cfg.State.Backend != "" && cfg.State.Backend != config.DefaultStateBackend {
		stateCfg := cfg.State
		minCfg.State = &stateCfg
	}

	return minCfg
}

// generateHeader creates the YAML file header comment.
func generateHeader(cfg *config.Config, outputPath string, fullOutput bool) string {
	mode := "minimal"
	note := "\n# Note: This is a minimal config. Use --full flag for all options."
	if fullOutput {
		mode = "full"
		note = ""
	}

	env := "#   AWS credentials from the default chain (AWS_PROFILE, AWS_ACCESS_KEY_ID, ...)"
	if cfg.DNS.Provider == config.DNSProviderCloudflare {
		env += "\n#   CLOUDFLARE_API_TOKEN - token with DNS edit permission on the zone"
	}

	return fmt.Sprintf(`# unifictl stack configuration
# Generated by: unifictl init
# Generated at: %s
# Output mode: %s%s
#
# Required environment:
%s
#
# Usage:
#   unifictl apply -c %s
`, time.Now().Format(time.RFC3339), mode, note, env, outputPath)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfirmOverwrite prompts the user to confirm overwriting an existing file.
func ConfirmOverwrite(path string) (bool, error) {
	return confirmOverwrite(path)
}

// defaultConfirmOverwrite is the default implementation that prompts via stdin.
func defaultConfirmOverwrite(path string) (bool, error) {
	fmt.Printf("\nFile already exists: %s\n", path)
	fmt.Print("Overwrite? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
