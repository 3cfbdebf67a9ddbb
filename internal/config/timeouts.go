package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	Certificate       time.Duration // Waiting for ACM to issue the certificate
	LoadBalancer      time.Duration // Waiting for ALB/NLB to become active
	NATGateway        time.Duration // Waiting for NAT gateways to become available
	FileSystem        time.Duration // Waiting for EFS and mount targets
	ServiceStable     time.Duration // Waiting for the ECS service to reach steady state
	DNSChange         time.Duration // Waiting for Route53 changes to propagate
	Delete            time.Duration // Timeout for each delete operation
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
	PollInterval      time.Duration // Interval for status polling loops
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - UNIFICTL_TIMEOUT_CERTIFICATE (default: 45m)
//   - UNIFICTL_TIMEOUT_LOAD_BALANCER (default: 10m)
//   - UNIFICTL_TIMEOUT_NAT_GATEWAY (default: 10m)
//   - UNIFICTL_TIMEOUT_FILE_SYSTEM (default: 10m)
//   - UNIFICTL_TIMEOUT_SERVICE_STABLE (default: 15m)
//   - UNIFICTL_TIMEOUT_DNS_CHANGE (default: 5m)
//   - UNIFICTL_TIMEOUT_DELETE (default: 10m)
//   - UNIFICTL_RETRY_MAX_ATTEMPTS (default: 8)
//   - UNIFICTL_RETRY_INITIAL_DELAY (default: 2s)
//   - UNIFICTL_POLL_INTERVAL (default: 10s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Certificate:       parseDuration("UNIFICTL_TIMEOUT_CERTIFICATE", 45*time.Minute),
		LoadBalancer:      parseDuration("UNIFICTL_TIMEOUT_LOAD_BALANCER", 10*time.Minute),
		NATGateway:        parseDuration("UNIFICTL_TIMEOUT_NAT_GATEWAY", 10*time.Minute),
		FileSystem:        parseDuration("UNIFICTL_TIMEOUT_FILE_SYSTEM", 10*time.Minute),
		ServiceStable:     parseDuration("UNIFICTL_TIMEOUT_SERVICE_STABLE", 15*time.Minute),
		DNSChange:         parseDuration("UNIFICTL_TIMEOUT_DNS_CHANGE", 5*time.Minute),
		Delete:            parseDuration("UNIFICTL_TIMEOUT_DELETE", 10*time.Minute),
		RetryMaxAttempts:  parseInt("UNIFICTL_RETRY_MAX_ATTEMPTS", 8),
		RetryInitialDelay: parseDuration("UNIFICTL_RETRY_INITIAL_DELAY", 2*time.Second),
		PollInterval:      parseDuration("UNIFICTL_POLL_INTERVAL", 10*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}

// TestTimeouts returns short timeouts for use in tests.
func TestTimeouts() *Timeouts {
	return &Timeouts{
		Certificate:       time.Second,
		LoadBalancer:      time.Second,
		NATGateway:        time.Second,
		FileSystem:        time.Second,
		ServiceStable:     time.Second,
		DNSChange:         time.Second,
		Delete:            time.Second,
		RetryMaxAttempts:  3,
		RetryInitialDelay: time.Millisecond,
		PollInterval:      time.Millisecond,
	}
}
