// Package output renders analysis results: Markdown reports for humans and
// AI assistants, and indented JSON for machines.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/govpulse/govpulse/internal/model"
)

// InvestmentSignal classifies an overall score into a coarse presentation
// label. Boundary values belong to the higher tier.
func InvestmentSignal(score int) string {
	switch {
	case score >= 80:
		return "STRONG_BUY"
	case score >= 60:
		return "BUY"
	case score >= 40:
		return "HOLD"
	default:
		return "AVOID"
	}
}

// OverallRiskLevel derives the aggregate risk level from risk counts, not
// from the score. Evaluated in priority order; the first match wins.
func OverallRiskLevel(risks []model.Risk) string {
	high := model.CountHighRisks(risks)
	switch {
	case high > 2:
		return "CRITICAL"
	case high > 0:
		return "HIGH"
	case len(risks) > 3:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// AssembleReport renders a GovernanceHealth as a Markdown report. The
// timestamp comes from the health record itself; assembly performs no
// wall-clock reads of its own.
func AssembleReport(h model.GovernanceHealth) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Governance Health Report: %s\n\n", h.DAO)
	fmt.Fprintf(&sb, "**Overall Score:** %d/100\n", h.OverallScore)
	fmt.Fprintf(&sb, "**Investment Signal:** %s\n", InvestmentSignal(h.OverallScore))
	fmt.Fprintf(&sb, "**Risk Level:** %s\n\n", OverallRiskLevel(h.Risks))

	sb.WriteString("## Category Scores\n")
	fmt.Fprintf(&sb, "- Participation: %d/100\n", h.CategoryScores.Participation)
	fmt.Fprintf(&sb, "- Decentralization: %d/100\n", h.CategoryScores.Decentralization)
	fmt.Fprintf(&sb, "- Activity: %d/100\n", h.CategoryScores.Activity)
	fmt.Fprintf(&sb, "- Transparency: %d/100\n", h.CategoryScores.Transparency)
	fmt.Fprintf(&sb, "- Stability: %d/100\n", h.CategoryScores.Stability)

	sb.WriteString("\n## High Risks\n")
	writeRiskSection(&sb, h.Risks, model.RiskHigh)

	sb.WriteString("\n## Medium Risks\n")
	writeRiskSection(&sb, h.Risks, model.RiskMedium)

	sb.WriteString("\n## Recommendations\n")
	if len(h.Recommendations) == 0 {
		sb.WriteString("None\n")
	}
	for _, rec := range h.Recommendations {
		fmt.Fprintf(&sb, "- %s\n", rec)
	}

	fmt.Fprintf(&sb, "\n_Generated at %s_\n", h.LastUpdated.UTC().Format(time.RFC3339))
	return sb.String()
}

func writeRiskSection(sb *strings.Builder, risks []model.Risk, level model.RiskLevel) {
	found := false
	for _, r := range risks {
		if r.Type != level {
			continue
		}
		found = true
		fmt.Fprintf(sb, "- **%s**: %s\n  - Impact: %s\n  - Mitigation: %s\n",
			r.Category, r.Description, r.Impact, r.Mitigation)
	}
	if !found {
		sb.WriteString("None identified\n")
	}
}

// AssembleComparison renders a ranked comparison of several analyses. The
// caller supplies results already ordered by overall score.
func AssembleComparison(results []model.GovernanceHealth) string {
	var sb strings.Builder

	sb.WriteString("# DAO Governance Comparison\n\n")
	sb.WriteString("| Rank | DAO | Score | Signal | Risk Level | Risks |\n")
	sb.WriteString("|------|-----|-------|--------|------------|-------|\n")
	for i, h := range results {
		fmt.Fprintf(&sb, "| %d | %s | %d/100 | %s | %s | %d |\n",
			i+1, h.DAO, h.OverallScore,
			InvestmentSignal(h.OverallScore), OverallRiskLevel(h.Risks), len(h.Risks))
	}

	if len(results) > 0 {
		top := results[0]
		fmt.Fprintf(&sb, "\n%s leads with a score of %d/100 (%s).\n",
			top.DAO, top.OverallScore, InvestmentSignal(top.OverallScore))
	}
	return sb.String()
}
