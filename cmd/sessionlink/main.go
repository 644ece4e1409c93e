// Command sessionlink keeps a persistent connection to a session server and
// logs the session events it receives.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sessionlink",
		Short: "Persistent WebSocket client for a session server",
		Long: `sessionlink maintains one long-lived WebSocket connection to a session
server. It reconnects after abnormal closes, sends keepalive pings,
authenticates with a configured token and logs every session event.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		runCmd(),
		versionCmd(),
	)

	return rootCmd
}
