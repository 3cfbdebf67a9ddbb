package provisioning

import (
	"fmt"
	"strings"
)

// Validation severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a configuration validation error or warning.
type ValidationError struct {
	Field    string // Configuration field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == SeverityError
}

// ValidationPhase checks the configuration and, when Preflight is set,
// that the AWS credentials and the hosted zone are usable.
type ValidationPhase struct {
	Preflight bool
}

// NewValidationPhase creates a validation phase with preflight checks.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{Preflight: true}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	ctx.Observer.Printf("[Validation] Running pre-flight validation...")

	var errs []ValidationError
	for _, ve := range Validate(ctx) {
		if ve.IsError() {
			errs = append(errs, ve)
			continue
		}
		ctx.Observer.Event(Event{
			Type:    EventValidationWarning,
			Phase:   vp.Name(),
			Message: ve.Message,
			Fields:  map[string]string{"field": ve.Field},
		})
	}

	if len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			ctx.Observer.Event(Event{
				Type:    EventValidationError,
				Phase:   vp.Name(),
				Message: e.Message,
				Fields:  map[string]string{"field": e.Field},
			})
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(msgs, "\n  "))
	}

	if vp.Preflight {
		if err := preflight(ctx); err != nil {
			return err
		}
	}

	ctx.Observer.Printf("[Validation] Validation passed")
	return nil
}

// Validate runs the configuration checks and returns errors and warnings.
func Validate(ctx *Context) []ValidationError {
	var out []ValidationError
	cfg := ctx.Config

	if err := cfg.Validate(); err != nil {
		for _, e := range splitJoined(err) {
			field, msg := splitField(e.Error())
			out = append(out, ValidationError{Field: field, Message: msg, Severity: SeverityError})
		}
	}

	if cfg.Network.NATGateways > 0 && cfg.Network.NATGateways < cfg.Network.AvailabilityZones {
		out = append(out, ValidationError{
			Field: "network.natGateways",
			Message: fmt.Sprintf("%d NAT gateway(s) for %d availability zones: losing a zone can cut egress for tasks in the others",
				cfg.Network.NATGateways, cfg.Network.AvailabilityZones),
			Severity: SeverityWarning,
		})
	}

	if !cfg.Storage.StorageEnabled() {
		out = append(out, ValidationError{
			Field:    "storage.enabled",
			Message:  "persistent storage is disabled; controller data is lost when the task is replaced",
			Severity: SeverityWarning,
		})
	}

	return out
}

func preflight(ctx *Context) error {
	id, err := ctx.Infra.CallerIdentity(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve AWS caller identity: %w", err)
	}
	ctx.Observer.Printf("[Validation] Using AWS account %s as %s", id.Account, id.ARN)

	if ctx.DNS != nil {
		zone, err := ctx.DNS.Zone(ctx)
		if err != nil {
			return fmt.Errorf("failed to look up %s zone: %w", ctx.DNS.Name(), err)
		}
		ctx.Observer.Printf("[Validation] Found %s zone %s (%s)", ctx.DNS.Name(), zone.Name, zone.ID)
	}
	return nil
}

func splitJoined(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// splitField separates a leading "path.to.field: " from msg.
func splitField(msg string) (string, string) {
	field, rest, ok := strings.Cut(msg, ": ")
	if !ok || strings.ContainsAny(field, " \"") {
		return "config", msg
	}
	return field, rest
}
