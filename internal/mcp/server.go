// Package mcp exposes governance analysis as Model Context Protocol tools
// over stdio, for AI assistants such as Claude Desktop or Cursor.
package mcp

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/govpulse/govpulse/internal/analyzer"
)

// Server wraps the MCP server instance.
type Server struct {
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server with all governance tools registered.
func NewServer(version string, a *analyzer.Analyzer) *Server {
	s := server.NewMCPServer("govpulse", version,
		server.WithLogging(),
		server.WithRecovery(),
	)

	registerTools(s, &handlers{analyzer: a})

	return &Server{mcpServer: s}
}

// Start runs the server in stdio mode (blocking).
func (s *Server) Start(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.mcpServer)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// registerTools adds all supported tools to the server.
func registerTools(s *server.MCPServer, h *handlers) {
	// Tool: analyze_governance
	analyzeTool := mcp.NewTool("analyze_governance",
		mcp.WithDescription("Analyze the governance health of a DeFi DAO. Returns a 0-100 overall score, five weighted category scores, typed risks, and recommendations as a Markdown report or JSON."),
		mcp.WithString("dao",
			mcp.Required(),
			mcp.Description("DAO identifier: Tally organization slug (e.g. 'uniswap') or a name to search for."),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'report' for Markdown, 'json' for the raw analysis record"),
			mcp.DefaultString("report"),
			mcp.Enum("report", "json"),
		),
	)
	s.AddTool(analyzeTool, h.handleAnalyzeGovernance)

	// Tool: get_governance_metrics
	metricsTool := mcp.NewTool("get_governance_metrics",
		mcp.WithDescription("Fetch the raw normalized governance metrics for a DAO (turnout, concentration, delegate activity, proposal stats) without scoring. Useful for custom analysis."),
		mcp.WithString("dao",
			mcp.Required(),
			mcp.Description("DAO identifier: Tally organization slug or name."),
		),
	)
	s.AddTool(metricsTool, h.handleGetMetrics)

	// Tool: compare_daos
	compareTool := mcp.NewTool("compare_daos",
		mcp.WithDescription("Analyze several DAOs in parallel and return a comparison ranked by overall governance score."),
		mcp.WithString("daos",
			mcp.Required(),
			mcp.Description("Comma-separated DAO identifiers, e.g. 'uniswap,ens,compound' (2-5 entries)."),
		),
	)
	s.AddTool(compareTool, h.handleCompareDAOs)

	// Tool: list_risk_rules
	listTool := mcp.NewTool("list_risk_rules",
		mcp.WithDescription("List all governance risk rules with their IDs, thresholds, and severities. Use with explain_risk for detailed guidance."),
	)
	s.AddTool(listTool, handleListRiskRules)

	// Tool: explain_risk
	explainTool := mcp.NewTool("explain_risk",
		mcp.WithDescription("Get a detailed explanation, root causes, and remediation guidance for a specific risk rule. Use list_risk_rules to discover available IDs."),
		mcp.WithString("risk_id",
			mcp.Required(),
			mcp.Description("Risk rule ID (e.g. 'low_voter_turnout'). Use list_risk_rules to see all."),
		),
	)
	s.AddTool(explainTool, handleExplainRisk)
}
