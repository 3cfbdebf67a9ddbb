// Package retry provides exponential backoff and polling helpers for AWS
// calls that fail transiently or complete asynchronously.
//
// [WithExponentialBackoff] retries an operation until it succeeds, returns
// an error marked with [Fatal], or runs out of attempts. [Poll] checks a
// condition on a fixed interval until it reports done or the timeout passes.
package retry
