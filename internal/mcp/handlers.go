package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/govpulse/govpulse/internal/analyzer"
	"github.com/govpulse/govpulse/internal/model"
	"github.com/govpulse/govpulse/internal/output"
	"github.com/govpulse/govpulse/internal/tally"
)

// analyzeTimeout bounds a single-DAO analysis.
const analyzeTimeout = 30 * time.Second

// compareTimeout bounds a multi-DAO comparison; fetches run in parallel so
// this covers the slowest one, not the sum.
const compareTimeout = 2 * time.Minute

// maxCompareDAOs caps how many identifiers one comparison accepts.
const maxCompareDAOs = 5

// handlers carries the analyzer into the tool callbacks.
type handlers struct {
	analyzer *analyzer.Analyzer
}

// handleAnalyzeGovernance runs the full pipeline for one DAO.
func (h *handlers) handleAnalyzeGovernance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, cancel := context.WithTimeout(ctx, analyzeTimeout)
	defer cancel()

	args := getArgs(request)
	dao := stringArg(args, "dao", "")
	if dao == "" {
		return errResult("dao is required"), nil
	}
	format := stringArg(args, "format", "report")

	health, err := h.analyzer.Analyze(ctx, dao)
	if err != nil {
		if errors.Is(err, tally.ErrNotFound) {
			return errResult(fmt.Sprintf("DAO %q not found on Tally; try the organization slug or a different name", dao)), nil
		}
		return errResult(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	if format == "json" {
		jsonData, err := json.MarshalIndent(health, "", "  ")
		if err != nil {
			return errResult(fmt.Sprintf("json marshal failed: %v", err)), nil
		}
		return newTextResult(string(jsonData)), nil
	}
	return newTextResult(output.AssembleReport(*health)), nil
}

// handleGetMetrics returns the raw normalized metrics without scoring.
func (h *handlers) handleGetMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, cancel := context.WithTimeout(ctx, analyzeTimeout)
	defer cancel()

	args := getArgs(request)
	dao := stringArg(args, "dao", "")
	if dao == "" {
		return errResult("dao is required"), nil
	}

	metrics, err := h.analyzer.Metrics(ctx, dao)
	if err != nil {
		if errors.Is(err, tally.ErrNotFound) {
			return errResult(fmt.Sprintf("DAO %q not found on Tally", dao)), nil
		}
		return errResult(fmt.Sprintf("metrics fetch failed: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return errResult(fmt.Sprintf("json marshal failed: %v", err)), nil
	}
	return newTextResult(string(jsonData)), nil
}

// handleCompareDAOs analyzes a comma-separated list of DAOs in parallel.
func (h *handlers) handleCompareDAOs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, cancel := context.WithTimeout(ctx, compareTimeout)
	defer cancel()

	args := getArgs(request)
	identifiers := splitIdentifiers(stringArg(args, "daos", ""))
	if len(identifiers) < 2 {
		return errResult("daos must list at least 2 comma-separated identifiers"), nil
	}
	if len(identifiers) > maxCompareDAOs {
		return errResult(fmt.Sprintf("daos must list at most %d identifiers", maxCompareDAOs)), nil
	}

	ranked, err := h.analyzer.Compare(ctx, identifiers)
	if err != nil {
		return errResult(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	return newTextResult(output.AssembleComparison(ranked)), nil
}

// handleListRiskRules returns the rule table as JSON.
func handleListRiskRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type entry struct {
		ID        string `json:"id"`
		Condition string `json:"condition"`
		Severity  string `json:"severity"`
		Category  string `json:"category"`
		Brief     string `json:"brief"`
	}

	var entries []entry
	for _, rule := range model.RiskRules() {
		entries = append(entries, entry{
			ID:        rule.ID,
			Condition: rule.Condition,
			Severity:  string(rule.Risk.Type),
			Category:  rule.Risk.Category,
			Brief:     rule.Risk.Description,
		})
	}

	jsonData, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errResult(fmt.Sprintf("json marshal failed: %v", err)), nil
	}
	return newTextResult(string(jsonData)), nil
}

// handleExplainRisk provides detailed guidance for a specific risk rule.
func handleExplainRisk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)
	riskID := stringArg(args, "risk_id", "")
	if riskID == "" {
		return errResult("risk_id is required"), nil
	}

	desc, ok := riskExplanations[riskID]
	if !ok {
		return newTextResult(fmt.Sprintf(
			"No specific explanation for risk %q. "+
				"General guidance: run 'analyze_governance' for the DAO and review the "+
				"mitigation attached to each detected risk. Use 'list_risk_rules' to see all rule IDs.",
			riskID,
		)), nil
	}
	return newTextResult(desc), nil
}

// splitIdentifiers parses a comma-separated identifier list, dropping empty
// entries and surrounding whitespace.
func splitIdentifiers(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getArgs safely extracts the arguments map from a CallToolRequest.
// Returns an empty map if Arguments is nil or not a map.
func getArgs(request mcp.CallToolRequest) map[string]interface{} {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

// stringArg extracts a string argument with a default value.
func stringArg(args map[string]interface{}, key, defaultVal string) string {
	val, ok := args[key]
	if !ok || val == nil {
		return defaultVal
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return defaultVal
	}
	return s
}

// newTextResult creates a successful MCP tool result with text content.
func newTextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

// errResult creates an MCP tool error result (IsError=true).
// This is returned as a tool-level error, not a transport-level JSON-RPC error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: msg,
			},
		},
	}
}

var riskExplanations = map[string]string{
	"low_voter_turnout": `**Low Voter Turnout**
Average voter turnout is below 10% of token holders. Quorum is fragile and a
small coordinated group can steer outcomes.
**Root Causes:**
- Voting costs gas with no offsetting incentive
- Token holders treat the token purely as a financial asset
- Proposals are hard to evaluate (no summaries, short voting windows)
**Recommendations:**
- Introduce participation incentives (gas rebates, reputation, rewards).
- Promote delegation so passive holders route power to active voters.
- Publish plain-language proposal summaries before votes open.`,

	"token_concentration": `**High Token Concentration**
The top holders control more than 70% of voting power. Governance is
nominally decentralized but practically captured.
**Root Causes:**
- Large allocations to founders, investors, or the treasury itself
- Low float after launch or aggressive buybacks
- Whales accumulating during price drawdowns
**Recommendations:**
- Broaden distribution via grants, airdrops, or liquidity mining.
- Consider quadratic or capped voting mechanisms.
- Track concentration over time; 'analyze_governance' flags it above 70%.`,

	"low_proposal_activity": `**Low Proposal Activity**
Fewer than 5 proposals have ever been raised. The governance process may be
dormant or too costly to use.
**Root Causes:**
- Proposal threshold set higher than most holders can reach
- No governance roadmap or forum culture
- Team still controls parameters off-chain
**Recommendations:**
- Lower the proposal threshold or add a delegated proposal path.
- Publish a roadmap of expected governance decisions.
- Seed discussion with temperature-check posts before formal proposals.`,

	"low_success_rate": `**Low Proposal Success Rate**
Less than 30% of decided proposals pass. Proposals reach the floor without
consensus, burning voter attention.
**Root Causes:**
- No off-chain signaling stage before on-chain votes
- Factional voter base with conflicting interests
- Spam or low-quality proposals reaching the ballot
**Recommendations:**
- Adopt temperature checks (forum polls, snapshot votes) before on-chain votes.
- Raise proposal quality bars: templates, sponsor requirements.
- Review quorum and threshold settings for mismatches with turnout.`,

	"inactive_delegates": `**Inactive Delegates**
Delegate activity is below 20%: most delegated voting power never votes.
Delegation concentrates power without adding participation.
**Root Causes:**
- Delegates accumulated power once and lost interest
- No accountability loop between delegators and delegates
- Delegates lack context or tooling to evaluate proposals
**Recommendations:**
- Publish delegate scorecards (votes cast, rationale posted).
- Prompt holders to re-delegate away from inactive delegates.
- Recognize active delegates with compensation or reputation programs.`,
}
