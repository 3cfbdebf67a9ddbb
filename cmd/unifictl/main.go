// Package main is the entry point for the unifictl CLI.
//
// unifictl provisions a Unifi network controller on AWS: a VPC, an ECS
// Fargate service running the controller image, the load balancers in
// front of it, an ACM certificate and the DNS records that point at it.
// Every resource is tagged with its stack so it can be found again by
// apply and removed by destroy.
//
// Commands: init, apply, destroy, status, validate, version.
//
// For detailed usage information, run:
//
//	unifictl --help
package main

import (
	"fmt"
	"os"

	"github.com/homelab-infra/unifictl/cmd/unifictl/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
