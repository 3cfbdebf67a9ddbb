package commands

import (
	"github.com/spf13/cobra"

	"github.com/homelab-infra/unifictl/cmd/unifictl/handlers"
)

// Destroy returns the destroy command.
//
// The destroy command removes every resource of the stack in reverse
// dependency order and then deletes the stored state.
func Destroy() *cobra.Command {
	var (
		configPath string
		keepDNS    bool
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy the controller stack and all associated resources",
		Long: `Destroy removes every resource of the stack from AWS.

This includes:
  - The ECS service, task definitions, log group and execution role
  - Load balancers and target groups
  - DNS records and the ACM certificate
  - The EFS file system
  - The ECS cluster
  - The VPC with its subnets, gateways and security groups

Use --keep-dns to leave the DNS records and the certificate in place.

Example:
  unifictl destroy -c unifictl.yaml

WARNING: This operation is irreversible. The controller configuration
stored on EFS is lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath, keepDNS)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to stack configuration file (required)")
	cmd.Flags().BoolVar(&keepDNS, "keep-dns", false, "Keep DNS records and the certificate")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
