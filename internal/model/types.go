// Package model defines the governance data types and the pure scoring
// pipeline: raw DAO metrics in, weighted category scores, typed risks,
// and remediation recommendations out. Every function here is a
// deterministic computation over its inputs, with no I/O and no shared state.
package model

import "time"

// RiskLevel is the severity of a detected governance risk.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
)

// DAOMetrics is the normalized governance record consumed by every scorer.
// Percentage-like fields are treated as unbounded: upstream sources are not
// trusted to clamp, so each scorer bounds its own output to [0, 100].
type DAOMetrics struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`

	TotalProposals  int `json:"total_proposals"`
	ActiveProposals int `json:"active_proposals"`

	// AvgVoterTurnout is the mean share of token holders voting, in percent.
	AvgVoterTurnout float64 `json:"avg_voter_turnout"`

	// TokenConcentration is the share of voting power held by the top
	// holders, in percent. Higher means more centralized.
	TokenConcentration float64 `json:"token_concentration"`

	// DelegateActivity blends active-delegate ratio with delegation growth
	// and can exceed 100 in source data.
	DelegateActivity float64 `json:"delegate_activity"`

	ProposalSuccessRate float64 `json:"proposal_success_rate"`

	// AvgProposalDuration is the mean voting period in days.
	AvgProposalDuration float64 `json:"avg_proposal_duration_days"`

	TreasuryHealth      float64 `json:"treasury_health"`
	CommunityEngagement float64 `json:"community_engagement"`
}

// CategoryScores holds the five governance health dimensions, each in
// [0, 100]. A closed struct (not a map) so the overall-score weighting is
// exhaustive at compile time and cannot silently skip a category.
type CategoryScores struct {
	Participation    int `json:"participation"`
	Decentralization int `json:"decentralization"`
	Activity         int `json:"activity"`
	Transparency     int `json:"transparency"`
	Stability        int `json:"stability"`
}

// Risk is a single detected governance vulnerability. The Description,
// Impact, and Mitigation strings are fixed copy owned by the rule table.
type Risk struct {
	Type        RiskLevel `json:"type"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Impact      string    `json:"impact"`
	Mitigation  string    `json:"mitigation"`
}

// GovernanceHealth is the complete analysis result for one DAO. Instances
// are created fresh per analysis call and never mutated afterwards; the
// caller owns them and may cache them keyed by (platform, identifier).
type GovernanceHealth struct {
	DAO             string         `json:"dao"`
	OverallScore    int            `json:"overall_score"`
	CategoryScores  CategoryScores `json:"category_scores"`
	Risks           []Risk         `json:"risks"`
	Recommendations []string       `json:"recommendations"`
	LastUpdated     time.Time      `json:"last_updated"`
}
