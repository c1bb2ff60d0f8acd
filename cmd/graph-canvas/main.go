package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tbrumbaugh5396/graph-canvas/cmd/graph-canvas/commands"
	"github.com/tbrumbaugh5396/graph-canvas/logger"
)

var rootCmd = &cobra.Command{
	Use:   "graph-canvas",
	Short: "graph-canvas - Direct-manipulation graph editing backend and tools",
	Long: `graph-canvas serves and manipulates diagram graphs: plain graphs, trees,
DAGs, multigraphs, hypergraphs, and ubergraphs.

Available commands:
  serve   - Start the graph server (REST API + WebSocket updates)
  graphs  - Inspect and manage graphs on a running server
  version - Show build information

Examples:
  graph-canvas serve                      # Serve with the configured backend
  graph-canvas serve --backend memory     # Serve without persistence
  graph-canvas graphs ls                  # List graphs on the server
  graph-canvas graphs create "My Graph"   # Create a graph`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.InitializeWithLevel(jsonLogs, logger.VerbosityToLevel(verbosity)); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON instead of console output")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.GraphsCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
