package config

// Config holds the desired state of one controller stack.
type Config struct {
	// Stack names the deployment. It prefixes every resource name and is
	// stored in the ownership tag used by destroy.
	Stack  string `yaml:"stack"`
	Region string `yaml:"region"`

	AWS          AWSConfig          `yaml:"aws,omitempty"`
	Network      NetworkConfig      `yaml:"network"`
	Cluster      ClusterConfig      `yaml:"cluster"`
	LoadBalancer LoadBalancerConfig `yaml:"loadBalancer"`
	Controller   ControllerConfig   `yaml:"controller"`
	Storage      StorageConfig      `yaml:"storage"`
	DNS          DNSConfig          `yaml:"dns"`
	State        StateConfig        `yaml:"state"`

	// Tags are added to every taggable resource.
	Tags map[string]string `yaml:"tags,omitempty"`
}

// AWSConfig selects credentials for the AWS SDK default chain.
type AWSConfig struct {
	Profile string `yaml:"profile,omitempty"`
}

// NetworkConfig describes the VPC layout.
type NetworkConfig struct {
	CIDR              string `yaml:"cidr"`
	AvailabilityZones int    `yaml:"availabilityZones"`
	NATGateways       int    `yaml:"natGateways"`
}

// ClusterConfig describes the ECS cluster.
type ClusterConfig struct {
	CapacityProviders []string `yaml:"capacityProviders"`
}

// LoadBalancerConfig holds the certificate and zone used by the ALB.
type LoadBalancerConfig struct {
	// CertificateDomain is the domain on the ACM certificate, usually a
	// wildcard covering Controller.Hostname.
	CertificateDomain string `yaml:"certificateDomain"`

	// ZoneName is the public hosted zone the certificate is validated in.
	ZoneName string `yaml:"zoneName"`
}

// ControllerConfig describes the Unifi controller container.
type ControllerConfig struct {
	Version  string `yaml:"version"`
	Hostname string `yaml:"hostname"`
	Image    string `yaml:"image"`

	CPU    int `yaml:"cpu"`
	Memory int `yaml:"memory"`

	DesiredCount           int `yaml:"desiredCount"`
	HealthCheckGracePeriod int `yaml:"healthCheckGracePeriod"`

	// InformPort exposes TCP 8080 on the NLB for device adoption.
	InformPort *bool `yaml:"informPort,omitempty"`

	// Environment is merged over the built-in container environment.
	Environment map[string]string `yaml:"environment,omitempty"`

	LogRetentionDays int `yaml:"logRetentionDays"`
}

// StorageConfig toggles the EFS volume mounted at /config.
type StorageConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// DNSConfig selects where controller and validation records are written.
type DNSConfig struct {
	// Provider is "route53" or "cloudflare".
	Provider string `yaml:"provider"`

	// CloudflareZone overrides LoadBalancer.ZoneName for Cloudflare lookups.
	CloudflareZone string `yaml:"cloudflareZone,omitempty"`
}

// StateConfig selects where apply outputs are persisted.
type StateConfig struct {
	// Backend is "file", "s3" or "sqlite".
	Backend string `yaml:"backend"`

	// Path is the file or database path for the file and sqlite backends.
	Path string `yaml:"path,omitempty"`

	Bucket string `yaml:"bucket,omitempty"`
	Key    string `yaml:"key,omitempty"`

	// Endpoint selects an S3 compatible service for the s3 backend. Static
	// keys for it are read from UNIFICTL_STATE_ACCESS_KEY_ID and
	// UNIFICTL_STATE_SECRET_ACCESS_KEY.
	Endpoint string `yaml:"endpoint,omitempty"`
}

// InformPortEnabled reports whether the TCP inform port is published.
func (c *ControllerConfig) InformPortEnabled() bool {
	return c.InformPort == nil || *c.InformPort
}

// StorageEnabled reports whether persistent storage is provisioned.
func (s *StorageConfig) StorageEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// ImageRef returns the full container image reference.
func (c *ControllerConfig) ImageRef() string {
	return c.Image + ":" + c.Version
}

// WebAdminURL returns the URL of the controller's admin UI.
func (c *ControllerConfig) WebAdminURL() string {
	return "https://" + c.Hostname + ":" + itoa(WebAdminPort)
}
