package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errStackNameRequired = errors.New("stack name is required")
	errStackNameInvalid  = errors.New("stack name must be 1-16 lowercase alphanumeric characters or hyphens, starting and ending with alphanumeric")
	errDomainRequired    = errors.New("domain name is required")
	errDomainInvalid     = errors.New("invalid domain name")
	errBucketRequired    = errors.New("bucket name is required for the s3 backend")
	errCIDRRequired      = errors.New("CIDR is required")
	errCIDRInvalid       = errors.New("invalid CIDR format (expected an IPv4 x.x.x.x/16)")
)
