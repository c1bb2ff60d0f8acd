package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tbrumbaugh5396/graph-canvas/config"
	"github.com/tbrumbaugh5396/graph-canvas/errors"
	"github.com/tbrumbaugh5396/graph-canvas/store"
)

// GraphsCmd groups graph management subcommands against a running server.
var GraphsCmd = &cobra.Command{
	Use:   "graphs",
	Short: "Inspect and manage graphs on a running server",
}

var graphsServerURL string

func init() {
	GraphsCmd.PersistentFlags().StringVar(&graphsServerURL, "server", "", "Server base URL (overrides config)")
	graphsCreateCmd.Flags().String("type", "graph", "Graph type: list, tree, dag, graph, multigraph, hypergraph, or ubergraph")

	GraphsCmd.AddCommand(graphsLsCmd)
	GraphsCmd.AddCommand(graphsCreateCmd)
	GraphsCmd.AddCommand(graphsShowCmd)
	GraphsCmd.AddCommand(graphsRmCmd)
}

func newStoreClient() (*store.Client, error) {
	baseURL := graphsServerURL
	if baseURL == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load configuration")
		}
		baseURL = cfg.Client.BaseURL
	}
	return store.NewClient(baseURL, nil), nil
}

func clientContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

var graphsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List graphs",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newStoreClient()
		if err != nil {
			return err
		}
		ctx, cancel := clientContext()
		defer cancel()

		graphs, err := client.ListGraphs(ctx)
		if err != nil {
			return err
		}
		if len(graphs) == 0 {
			pterm.Info.Println("No graphs")
			return nil
		}
		for _, g := range graphs {
			pterm.Printf("%s  %s %s  %s\n",
				pterm.LightMagenta(g.ID),
				pterm.White(g.Name),
				pterm.Gray(fmt.Sprintf("(%s)", g.Type)),
				pterm.Gray(fmt.Sprintf("%d nodes, %d edges", len(g.Nodes), len(g.Edges))))
		}
		return nil
	},
}

var graphsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		graphType, _ := cmd.Flags().GetString("type")
		client, err := newStoreClient()
		if err != nil {
			return err
		}
		ctx, cancel := clientContext()
		defer cancel()

		g, err := client.CreateGraph(ctx, args[0], graphType)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Created graph %s (%s)\n", g.ID, g.Type)
		return nil
	},
}

var graphsShowCmd = &cobra.Command{
	Use:   "show <graph-id>",
	Short: "Show one graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newStoreClient()
		if err != nil {
			return err
		}
		ctx, cancel := clientContext()
		defer cancel()

		g, err := client.GetGraph(ctx, args[0])
		if err != nil {
			return err
		}
		pterm.Printf("%s %s\n", pterm.White(g.Name), pterm.Gray(fmt.Sprintf("(%s, directed=%t)", g.Type, g.Directed)))
		for _, n := range g.Nodes {
			pterm.Printf("  %s %s %s\n",
				pterm.Gray("node"), pterm.LightCyan(n.ID),
				pterm.Gray(fmt.Sprintf("%q at (%.1f, %.1f)", n.Text, n.X, n.Y)))
		}
		for _, e := range g.Edges {
			pterm.Printf("  %s %s %s\n",
				pterm.Gray("edge"), pterm.LightGreen(e.ID),
				pterm.Gray(fmt.Sprintf("%v -> %v", e.SourceIDs, e.TargetIDs)))
		}
		return nil
	},
}

var graphsRmCmd = &cobra.Command{
	Use:   "rm <graph-id>",
	Short: "Delete a graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newStoreClient()
		if err != nil {
			return err
		}
		ctx, cancel := clientContext()
		defer cancel()

		if err := client.DeleteGraph(ctx, args[0]); err != nil {
			return err
		}
		pterm.Success.Printf("Deleted graph %s\n", args[0])
		return nil
	},
}
