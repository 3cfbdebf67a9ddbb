// Package destroy tears a stack down.
//
// Resources are looked up by the names the apply phases derive from the
// stack name and deleted in reverse dependency order: the ECS service and
// its task definitions, the log group and execution role, the load
// balancers and their target groups, DNS records and the certificate, the
// EFS file system, the ECS cluster and finally the network. A failed
// deletion is recorded and the teardown continues.
package destroy
