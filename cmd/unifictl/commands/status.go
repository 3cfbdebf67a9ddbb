package commands

import (
	"github.com/spf13/cobra"

	"github.com/homelab-infra/unifictl/cmd/unifictl/handlers"
)

// Status returns the command that prints the outputs of the last apply.
func Status() *cobra.Command {
	var (
		configPath string
		jsonOutput bool
		history    bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the endpoints and resources of the stack",
		Long: `Status prints what the last apply stored: the web admin URL, the
load balancer names, the DNS records and every resource identifier.

Use --history with the sqlite state backend to list recent applies.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), configPath, jsonOutput, history)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", configFlagUsage)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print as JSON")
	cmd.Flags().BoolVar(&history, "history", false, "List recent applies (sqlite backend)")

	return cmd
}
