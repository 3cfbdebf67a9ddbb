package aws

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/homelab-infra/unifictl/internal/util/retry"
)

// EnsureOperation encapsulates get-or-create logic for any AWS resource.
// It supports optional validation and update of an existing resource and a
// hook that runs after creation (attributes, waits).
//
// Usage example:
//
//	func (c *RealClient) EnsureVPC(ctx context.Context, name, cidr string, tags map[string]string) (*VPC, error) {
//	    return (&EnsureOperation[*VPC]{
//	        Name:         name,
//	        ResourceType: "vpc",
//	        Get:          c.GetVPC,
//	        Create:       func(ctx context.Context) (*VPC, error) { ... },
//	        Validate: func(v *VPC) error {
//	            if v.CIDR != cidr {
//	                return fmt.Errorf("vpc exists with different CIDR")
//	            }
//	            return nil
//	        },
//	    }).Execute(ctx, c)
//	}
type EnsureOperation[T any] struct {
	Name         string
	ResourceType string

	// Get retrieves the resource by name, returning nil if it does not exist
	Get func(ctx context.Context, name string) (T, error)

	// Create creates the resource
	Create func(ctx context.Context) (T, error)

	// AfterCreate runs once after a successful create (optional)
	AfterCreate func(ctx context.Context, resource T) error

	// Validate checks if existing resource matches desired state (optional)
	Validate func(resource T) error

	// Update reconciles an existing resource (optional)
	Update func(ctx context.Context, resource T) error
}

// Execute performs the ensure operation: get existing resource, validate and
// update it if needed, or create a new one. Throttled creates are retried.
func (op *EnsureOperation[T]) Execute(ctx context.Context, client *RealClient) (T, error) {
	var zero T

	resource, err := op.Get(ctx, op.Name)
	if err != nil {
		return zero, fmt.Errorf("failed to get %s: %w", op.ResourceType, err)
	}

	if !isNil(resource) {
		if op.Validate != nil {
			if err := op.Validate(resource); err != nil {
				return zero, fmt.Errorf("%s %q: %w", op.ResourceType, op.Name, err)
			}
		}
		if op.Update != nil {
			if err := op.Update(ctx, resource); err != nil {
				return zero, fmt.Errorf("failed to update %s: %w", op.ResourceType, err)
			}
		}
		return resource, nil
	}

	var created T
	err = retry.WithExponentialBackoff(ctx, func() error {
		var createErr error
		created, createErr = op.Create(ctx)
		return createErr
	}, client.retryOptions("create "+op.ResourceType, IsThrottled)...)
	if err != nil {
		return zero, fmt.Errorf("failed to create %s: %w", op.ResourceType, err)
	}

	if op.AfterCreate != nil {
		if err := op.AfterCreate(ctx, created); err != nil {
			return zero, fmt.Errorf("failed to configure %s: %w", op.ResourceType, err)
		}
	}

	return created, nil
}

// DeleteOperation encapsulates deletion logic for any AWS resource.
// It provides consistent retry, timeout, and error handling across all
// resource types.
//
// Usage example:
//
//	func (c *RealClient) DeleteCluster(ctx context.Context, name string) error {
//	    return (&DeleteOperation[*Cluster]{
//	        Name:         name,
//	        ResourceType: "cluster",
//	        Get:          c.getCluster,
//	        Delete:       func(ctx context.Context, cl *Cluster) error { ... },
//	    }).Execute(ctx, c)
//	}
type DeleteOperation[T any] struct {
	Name         string
	ResourceType string

	// Get retrieves the resource by name, returning nil if it does not exist
	Get func(ctx context.Context, name string) (T, error)

	// Delete removes the resource
	Delete func(ctx context.Context, resource T) error
}

// Execute performs the delete operation with retry logic and timeout handling.
// The operation is idempotent - it succeeds if the resource doesn't exist.
// Dependency violations and throttling are retried with exponential backoff.
func (op *DeleteOperation[T]) Execute(ctx context.Context, client *RealClient) error {
	ctx, cancel := context.WithTimeout(ctx, client.timeouts.Delete)
	defer cancel()

	return retry.WithExponentialBackoff(ctx, func() error {
		resource, err := op.Get(ctx, op.Name)
		if err != nil {
			if IsThrottled(err) {
				return err
			}
			return retry.Fatal(fmt.Errorf("failed to get %s: %w", op.ResourceType, err))
		}

		if isNil(resource) {
			return nil
		}

		if err := op.Delete(ctx, resource); err != nil {
			if IsNotFound(err) {
				return nil
			}
			if isRetryable(err) {
				return err
			}
			return retry.Fatal(fmt.Errorf("failed to delete %s %q: %w", op.ResourceType, op.Name, err))
		}
		return nil
	}, client.retryOptions("delete "+op.ResourceType, nil)...)
}

// withRetry runs fn, retrying throttling and dependency errors.
func withRetry(ctx context.Context, client *RealClient, fn func() error) error {
	return retry.WithExponentialBackoff(ctx, fn, client.retryOptions("request", isRetryable)...)
}

// retryOptions returns the client's backoff settings. Retries are logged at
// debug level; retryable, when set, limits which errors are retried.
func (c *RealClient) retryOptions(what string, retryable func(error) bool) []retry.Option {
	opts := []retry.Option{
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			c.logger.V(1).Info("retrying", "operation", what, "attempt", attempt, "delay", delay.String(), "error", err.Error())
		}),
	}
	if retryable != nil {
		opts = append(opts, retry.WithRetryIf(retryable))
	}
	return opts
}

// pollUntil polls cond at the client's poll interval until it reports done,
// fails, or timeout elapses.
func pollUntil(ctx context.Context, client *RealClient, timeout time.Duration, what string, cond retry.Condition) error {
	if err := retry.Poll(ctx, client.timeouts.PollInterval, timeout, cond); err != nil {
		return fmt.Errorf("waiting for %s: %w", what, err)
	}
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
