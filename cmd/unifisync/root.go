package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	debug   int
	logFile string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "unifisync",
		Short:         "unifisync reconciles declared resources against a UniFi controller",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().IntVar(&flags.debug, "debug", 0, "Diagnostic verbosity ordinal (0 disables, 10 retains everything)")
	cmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Mirror retained diagnostics to this file")

	cmd.AddCommand(newApplyCmd(flags))
	cmd.AddCommand(newVerifyCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
