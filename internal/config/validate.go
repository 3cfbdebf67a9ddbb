package config

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
)

// stackNameRegex keeps stack names short enough for ALB and target group
// names, which AWS limits to 32 characters.
var stackNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,14}[a-z0-9])?$`)

// ValidCapacityProviders lists the Fargate capacity providers ECS accepts.
var ValidCapacityProviders = map[string]bool{
	"FARGATE":      true,
	"FARGATE_SPOT": true,
}

// Validate checks the configuration and returns every problem found,
// joined into a single error.
func (c *Config) Validate() error {
	var errs []error

	if c.Stack == "" {
		errs = append(errs, errors.New("stack is required"))
	} else if !stackNameRegex.MatchString(c.Stack) {
		errs = append(errs, fmt.Errorf("stack %q must be 1-16 lowercase alphanumeric characters or hyphens", c.Stack))
	}
	if c.Region == "" {
		errs = append(errs, errors.New("region is required"))
	}

	errs = append(errs, c.validateNetwork()...)
	errs = append(errs, c.validateCluster()...)
	errs = append(errs, c.validateLoadBalancer()...)
	errs = append(errs, c.validateController()...)
	errs = append(errs, c.validateDNS()...)
	errs = append(errs, c.validateState()...)

	return errors.Join(errs...)
}

func (c *Config) validateNetwork() []error {
	var errs []error
	n := c.Network

	_, ipNet, err := net.ParseCIDR(n.CIDR)
	if err != nil {
		errs = append(errs, fmt.Errorf("network.cidr: invalid CIDR %q: %w", n.CIDR, err))
	} else {
		ones, bits := ipNet.Mask.Size()
		if bits != 32 {
			errs = append(errs, errors.New("network.cidr: only IPv4 CIDRs are supported"))
		} else if ones > 16 || ones < 16 {
			errs = append(errs, fmt.Errorf("network.cidr: prefix must be /16, got /%d", ones))
		}
	}

	if n.AvailabilityZones < 2 || n.AvailabilityZones > MaxAvailabilityZones {
		errs = append(errs, fmt.Errorf("network.availabilityZones: must be between 2 and %d, got %d", MaxAvailabilityZones, n.AvailabilityZones))
	}
	if n.NATGateways < 1 || n.NATGateways > n.AvailabilityZones {
		errs = append(errs, fmt.Errorf("network.natGateways: must be between 1 and availabilityZones (%d), got %d", n.AvailabilityZones, n.NATGateways))
	}
	return errs
}

func (c *Config) validateCluster() []error {
	var errs []error
	for _, cp := range c.Cluster.CapacityProviders {
		if !ValidCapacityProviders[cp] {
			errs = append(errs, fmt.Errorf("cluster.capacityProviders: unsupported capacity provider %q", cp))
		}
	}
	return errs
}

func (c *Config) validateLoadBalancer() []error {
	var errs []error
	lb := c.LoadBalancer
	if lb.CertificateDomain == "" {
		errs = append(errs, errors.New("loadBalancer.certificateDomain is required"))
	}
	if lb.ZoneName == "" {
		errs = append(errs, errors.New("loadBalancer.zoneName is required"))
	}
	if lb.CertificateDomain != "" && lb.ZoneName != "" && !domainWithinZone(lb.CertificateDomain, lb.ZoneName) {
		errs = append(errs, fmt.Errorf("loadBalancer.certificateDomain %q is not within zone %q", lb.CertificateDomain, lb.ZoneName))
	}
	return errs
}

func (c *Config) validateController() []error {
	var errs []error
	ctl := c.Controller

	if ctl.Version == "" {
		errs = append(errs, errors.New("controller.version is required"))
	}
	if ctl.Hostname == "" {
		errs = append(errs, errors.New("controller.hostname is required"))
	} else {
		if c.LoadBalancer.ZoneName != "" && !domainWithinZone(ctl.Hostname, c.LoadBalancer.ZoneName) {
			errs = append(errs, fmt.Errorf("controller.hostname %q is not within zone %q", ctl.Hostname, c.LoadBalancer.ZoneName))
		}
		if c.LoadBalancer.CertificateDomain != "" && !CertificateCovers(c.LoadBalancer.CertificateDomain, ctl.Hostname) {
			errs = append(errs, fmt.Errorf("controller.hostname %q is not covered by certificate domain %q", ctl.Hostname, c.LoadBalancer.CertificateDomain))
		}
	}

	if _, _, err := FargateTaskSize(ctl.CPU, ctl.Memory); err != nil {
		errs = append(errs, fmt.Errorf("controller: %w", err))
	}

	if ctl.DesiredCount < 0 {
		errs = append(errs, errors.New("controller.desiredCount must not be negative"))
	}
	if ctl.HealthCheckGracePeriod < 0 {
		errs = append(errs, errors.New("controller.healthCheckGracePeriod must not be negative"))
	}
	for k := range ctl.Environment {
		if k == "" || strings.ContainsAny(k, " =") {
			errs = append(errs, fmt.Errorf("controller.environment: invalid variable name %q", k))
		}
	}
	return errs
}

func (c *Config) validateDNS() []error {
	switch c.DNS.Provider {
	case DNSProviderRoute53, DNSProviderCloudflare:
		return nil
	default:
		return []error{fmt.Errorf("dns.provider: unsupported provider %q", c.DNS.Provider)}
	}
}

func (c *Config) validateState() []error {
	switch c.State.Backend {
	case StateBackendFile, StateBackendSQLite:
		if c.State.Path == "" {
			return []error{fmt.Errorf("state.path is required for backend %q", c.State.Backend)}
		}
	case StateBackendS3:
		if c.State.Bucket == "" {
			return []error{errors.New("state.bucket is required for backend \"s3\"")}
		}
	default:
		return []error{fmt.Errorf("state.backend: unsupported backend %q", c.State.Backend)}
	}
	return nil
}

// domainWithinZone reports whether name equals zone or is a subdomain of it.
func domainWithinZone(name, zone string) bool {
	name = strings.TrimSuffix(strings.ToLower(name), ".")
	zone = strings.TrimSuffix(strings.ToLower(zone), ".")
	name = strings.TrimPrefix(name, "*.")
	return name == zone || strings.HasSuffix(name, "."+zone)
}

// CertificateCovers reports whether a certificate for domain is valid for
// hostname. A wildcard matches exactly one label.
func CertificateCovers(domain, hostname string) bool {
	domain = strings.TrimSuffix(strings.ToLower(domain), ".")
	hostname = strings.TrimSuffix(strings.ToLower(hostname), ".")
	if domain == hostname {
		return true
	}
	base, ok := strings.CutPrefix(domain, "*.")
	if !ok {
		return false
	}
	label, rest, found := strings.Cut(hostname, ".")
	return found && label != "" && rest == base
}
