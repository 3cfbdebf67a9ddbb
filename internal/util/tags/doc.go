// Package tags provides consistent tagging for AWS resources.
//
// All tag keys use the unifictl.io prefix. The stack tag is the ownership
// marker destroy relies on, so every resource created by unifictl carries it.
package tags
