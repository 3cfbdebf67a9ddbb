// Package config defines the stack configuration consumed by every
// provisioning phase.
//
// A [Config] is loaded from a unifictl.yaml file, completed with defaults
// and validated before any AWS call is made. Timeouts and retry knobs are
// read from UNIFICTL_* environment variables by [LoadTimeouts].
package config
