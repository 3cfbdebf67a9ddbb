package aws

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

// errorCode returns the API error code of err, or "" if err is not an API error.
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// hasErrorCode checks if err is an API error with one of the given codes.
func hasErrorCode(err error, codes ...string) bool {
	if err == nil {
		return false
	}
	code := errorCode(err)
	for _, c := range codes {
		if code == c {
			return true
		}
	}
	return false
}

// IsNotFound checks if an error indicates a resource was not found.
// EC2 reports these as "<Resource>.NotFound" codes; the other services use
// dedicated exception names ending in NotFound or starting with NoSuch.
func IsNotFound(err error) bool {
	code := errorCode(err)
	if code == "" {
		return false
	}
	return strings.HasSuffix(code, "NotFound") ||
		strings.HasSuffix(code, "NotFoundException") ||
		strings.HasPrefix(code, "NoSuch")
}

// IsAlreadyExists checks if an error indicates the resource already exists.
func IsAlreadyExists(err error) bool {
	return hasErrorCode(err,
		"ResourceAlreadyExistsException",
		"EntityAlreadyExists",
		"InvalidPermission.Duplicate",
		"RouteAlreadyExists",
		"Resource.AlreadyAssociated",
		"FileSystemAlreadyExists",
		"MountTargetConflict",
		"AccessPointAlreadyExists",
		"DuplicateLoadBalancerName",
		"DuplicateTargetGroupName",
		"DuplicateListener",
	)
}

// isDependencyViolation checks if a delete failed because something still
// references the resource. These errors are retryable during teardown.
func isDependencyViolation(err error) bool {
	return hasErrorCode(err,
		"DependencyViolation",
		"ResourceInUse",
		"ResourceInUseException",
		"DeleteConflict",
		"FileSystemInUse",
		"ClusterContainsServicesException",
		"ClusterContainsTasksException",
		"InvalidIPAddress.InUse",
	)
}

// IsThrottled checks if an error indicates rate limiting.
func IsThrottled(err error) bool {
	return hasErrorCode(err,
		"Throttling",
		"ThrottlingException",
		"RequestLimitExceeded",
		"TooManyRequestsException",
		"ThrottledException",
		"PriorRequestNotComplete",
	)
}

// isRetryable checks if an operation should be retried.
func isRetryable(err error) bool {
	return IsThrottled(err) || isDependencyViolation(err)
}
