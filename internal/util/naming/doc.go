// Package naming provides consistent names for the AWS resources of a stack.
//
// Every name starts with the stack name so that resources are easy to find
// in the console and so that destroy can derive the full inventory from the
// configuration alone. Load balancer and target group names are capped at
// the 32 characters AWS allows.
package naming
