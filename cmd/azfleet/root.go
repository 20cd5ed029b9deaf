package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	verbose    bool
	dryRun     bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "azfleet",
		Short:         "azfleet reconciles an Azure VM fleet against its desired state",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "azfleet.yaml", "Path to configuration file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "Preview actions without changing any resource")

	cmd.AddCommand(newAgentCmd(flags))
	cmd.AddCommand(newPowerCmd(flags))
	cmd.AddCommand(newExportCmd(flags))
	cmd.AddCommand(newCredsCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
