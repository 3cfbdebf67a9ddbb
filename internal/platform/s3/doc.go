// Package s3 provides a client for the S3 bucket that holds unifictl state.
//
// The bucket is created on first use with versioning enabled and public
// access blocked, so earlier revisions of a stack's outputs stay
// recoverable.
package s3
