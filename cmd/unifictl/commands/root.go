// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the unifictl CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "unifictl",
		Short:         "Run a Unifi network controller on AWS Fargate",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(Init())
	cmd.AddCommand(Apply())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Status())
	cmd.AddCommand(Validate())
	cmd.AddCommand(Version())

	return cmd
}

// configFlagUsage is the usage text of every --config flag.
const configFlagUsage = "Path to stack configuration file (default: unifictl.yaml in the working directory or a parent)"
