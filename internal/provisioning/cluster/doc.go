// Package cluster provisions the ECS cluster the controller runs in.
//
// The cluster carries the Fargate capacity providers from the
// configuration and uses the first of them as its default strategy, which
// the controller service inherits.
package cluster
