package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rickgao/sessionlink/internal/version"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			info := version.Get()
			if short {
				fmt.Fprintln(out, info.Version)
				return
			}

			fmt.Fprintf(out, "sessionlink %s\n", info)
			fmt.Fprintf(out, "  Go version: %s\n", info.GoVersion)
			fmt.Fprintf(out, "  OS/Arch:    %s\n", info.Platform)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")

	return cmd
}
