package commands

import (
	"github.com/spf13/cobra"

	"github.com/homelab-infra/unifictl/cmd/unifictl/handlers"
)

// Apply returns the command for provisioning a stack.
func Apply() *cobra.Command {
	var (
		configPath  string
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update the controller stack",
		Long: `Apply creates or updates every resource of the stack.

Phases run in order:
  - network: VPC, subnets, internet and NAT gateways, routes
  - cluster: ECS cluster with Fargate capacity providers
  - certificate: ACM certificate validated through DNS
  - loadbalancer: ALB for the web UI, NLB for device traffic
  - storage: EFS file system for the controller configuration
  - controller: task definition, service and DNS records

Apply is idempotent: resources that already match are left alone.

Example:
  unifictl apply -c unifictl.yaml --metrics-file /var/lib/node_exporter/unifictl.prom`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath, metricsFile)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", configFlagUsage)
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file (node_exporter textfile format)")

	return cmd
}
