package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/rollseq/rollseq/config"
	"github.com/rollseq/rollseq/version"
)

func (a *app) versionCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rollseq %s\n", version.String())
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "  go:     %s\n", runtime.Version())
				path := a.configPath
				if path == "" {
					path, _ = config.Path()
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  config: %s\n", path)
			}
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show build details")
	return cmd
}
