// Package orchestration runs the provisioning phases of a stack.
//
// The Reconciler builds a provisioning.Context and delegates to the phase
// provisioners in internal/provisioning. It defines the execution order
// and hands the resulting state to the caller.
//
// # Workflow
//
// Reconcile executes the following phases in order:
//  1. Validation - configuration checks and AWS preflight
//  2. Network - VPC, subnets, gateways and route tables
//  3. Cluster - ECS cluster
//  4. Certificate - ACM certificate validated through DNS
//  5. Load balancer - ALB, NLB and their listeners
//  6. Storage - EFS file system, mount targets and access point
//  7. Controller - target groups, DNS record, task definition and service
//
// Destroy runs the destroy phase, which removes the same resources in
// reverse order.
//
// # Usage
//
//	reconciler := orchestration.NewReconciler(infra, dnsProvider, cfg)
//	result, err := reconciler.Reconcile(ctx)
//
// Every phase ensures its resources, so Reconcile can be run repeatedly
// and only changes what differs from the configuration.
package orchestration
