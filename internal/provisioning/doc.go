// Package provisioning provides shared types, interfaces, and orchestration
// for building a controller stack.
//
// # Subpackages
//
//   - network/: VPC, subnet tiers, internet and NAT gateways, routes
//   - cluster/: ECS cluster and capacity providers
//   - certificate/: hosted zone lookup, ACM certificate and DNS validation
//   - loadbalancer/: ALB and NLB, listeners and their target groups
//   - storage/: EFS file system, mount targets and access point
//   - controller/: the Unifi controller service and its DNS records
//   - destroy/: teardown in reverse dependency order
//
// # Core Types
//
// Context carries configuration, state, the AWS client, the DNS provider,
// an Observer and run metrics. Phase defines a provisioning step with
// Name() and Provision() methods. State accumulates the IDs and ARNs each
// phase produces for the ones after it.
package provisioning
