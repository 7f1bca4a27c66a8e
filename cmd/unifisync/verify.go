package main

import (
	"github.com/spf13/cobra"
)

var verifyCmdRunner = runApply

func newVerifyCmd(root *rootFlags) *cobra.Command {
	opts := applyOptions{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Report the changes a document would cause without applying them",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Check = true
			opts.Debug = root.debug
			opts.LogFile = root.logFile

			if err := validateApplyOptions(opts); err != nil {
				return err
			}

			return verifyCmdRunner(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the resource document")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}
