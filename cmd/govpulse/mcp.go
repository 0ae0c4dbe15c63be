package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/govpulse/govpulse/internal/mcp"
)

// mcpCmd starts the Model Context Protocol server over stdio.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start Model Context Protocol (MCP) server",
	Long: `Starts a JSON-RPC server implementing the Model Context Protocol (MCP).
This allows AI agents (e.g., Claude Desktop, Cursor) to analyze DAO
governance interactively: scoring, risk detection, and comparisons.

Communication happens over standard input/output (stdio).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, cleanup, err := buildAnalyzer()
		if err != nil {
			return err
		}
		defer cleanup()

		srv := mcp.NewServer(version, a)
		return srv.Start(ctx)
	},
}
