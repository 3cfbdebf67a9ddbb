package commands

import (
	"github.com/spf13/cobra"

	"github.com/homelab-infra/unifictl/cmd/unifictl/handlers"
	"github.com/homelab-infra/unifictl/internal/config"
)

// Init returns the command for creating a stack configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "unifictl.yaml")
//	--advanced, -a: Ask for network and sizing options
//	--full, -f: Output full YAML with all options (default: minimal output)
//	--non-interactive: Write defaults without prompting
//	--stack, --zone, --hostname: Answers for --non-interactive
func Init() *cobra.Command {
	var opts handlers.InitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a stack configuration",
		Long: `Create a stack configuration file.

The interactive wizard asks about:

  - Stack name and AWS region
  - Controller hostname, DNS zone and version
  - DNS provider (Route53 or Cloudflare)
  - Persistent storage and the device inform port
  - Where apply outputs are stored (file, s3 or sqlite)

Use --advanced for the VPC layout and container memory.

Use --non-interactive to write a configuration from defaults, for
example in scripts:

  unifictl init --non-interactive --zone example.com`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", config.DefaultConfigFilename, "Output file path")
	cmd.Flags().BoolVarP(&opts.Advanced, "advanced", "a", false, "Show advanced configuration options")
	cmd.Flags().BoolVarP(&opts.FullOutput, "full", "f", false, "Output full YAML with all options")
	cmd.Flags().BoolVar(&opts.NonInteractive, "non-interactive", false, "Write defaults without prompting")
	cmd.Flags().StringVar(&opts.Stack, "stack", "", "Stack name for --non-interactive (default \"home\")")
	cmd.Flags().StringVar(&opts.Zone, "zone", "", "DNS zone for --non-interactive")
	cmd.Flags().StringVar(&opts.Hostname, "hostname", "", "Controller hostname for --non-interactive (default \"unifi.<zone>\")")

	return cmd
}
