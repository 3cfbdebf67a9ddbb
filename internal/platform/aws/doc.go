// Package aws wraps the AWS SDK services used to provision a controller stack.
//
// Each concern is exposed as a small manager interface (networks, security
// groups, load balancers, certificates, DNS, containers, file systems) and
// the managers are combined into InfrastructureManager. RealClient implements
// it on top of aws-sdk-go-v2; MockClient is the function-field fake used by
// the provisioning phases' tests.
//
// All Ensure methods are idempotent: they look a resource up by its name or
// ownership tag, validate or update it if it exists and create it otherwise.
package aws
