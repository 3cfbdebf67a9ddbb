package commands

import (
	"github.com/spf13/cobra"

	"github.com/homelab-infra/unifictl/cmd/unifictl/handlers"
)

// Validate returns the command that checks a configuration.
func Validate() *cobra.Command {
	var (
		configPath string
		offline    bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration, AWS credentials and DNS zone",
		Long: `Validate loads the configuration and reports every problem in it.

Unless --offline is given it then resolves the AWS caller identity and
looks up the DNS zone with the configured provider.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), configPath, offline)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", configFlagUsage)
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the AWS and DNS checks")

	return cmd
}
