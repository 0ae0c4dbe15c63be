package tally

import "github.com/govpulse/govpulse/internal/model"

// organizationData is the raw per-organization payload returned by the API.
type organizationData struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	TokenSymbol string `json:"tokenSymbol"`

	ProposalsCount       int `json:"proposalsCount"`
	ActiveProposalsCount int `json:"activeProposalsCount"`
	PassedProposalsCount int `json:"passedProposalsCount"`
	FailedProposalsCount int `json:"failedProposalsCount"`

	TokenHoldersCount int `json:"tokenHoldersCount"`
	VotersCount       int `json:"votersCount"`

	DelegatesCount       int     `json:"delegatesCount"`
	ActiveDelegatesCount int     `json:"activeDelegatesCount"`
	DelegationGrowthPct  float64 `json:"delegationGrowthPct"`

	TopTenOwnershipPct      float64 `json:"topTenOwnershipPct"`
	TreasuryUSD             float64 `json:"treasuryUsd"`
	MonthlyOutflowUSD       float64 `json:"monthlyOutflowUsd"`
	AvgProposalDurationDays float64 `json:"avgProposalDurationDays"`
	EngagementScore         float64 `json:"engagementScore"`
}

// buildMetrics normalizes a raw payload into DAOMetrics. All
// division-by-zero cases resolve to 0 here, before the scoring engine ever
// sees the numbers: zero decided proposals means success rate 0, zero
// holders means turnout 0, zero delegates means activity 0.
func buildMetrics(org *organizationData) model.DAOMetrics {
	name := org.Name
	if name == "" {
		name = org.Slug
	}

	return model.DAOMetrics{
		Name:                name,
		Symbol:              org.TokenSymbol,
		TotalProposals:      nonNegInt(org.ProposalsCount),
		ActiveProposals:     nonNegInt(org.ActiveProposalsCount),
		AvgVoterTurnout:     ratioPct(org.VotersCount, org.TokenHoldersCount),
		TokenConcentration:  boundPct(org.TopTenOwnershipPct),
		DelegateActivity:    delegateActivity(org),
		ProposalSuccessRate: successRate(org),
		AvgProposalDuration: nonNeg(org.AvgProposalDurationDays),
		TreasuryHealth:      treasuryHealth(org),
		CommunityEngagement: boundPct(org.EngagementScore),
	}
}

// successRate is the share of decided proposals that passed.
func successRate(org *organizationData) float64 {
	decided := nonNegInt(org.PassedProposalsCount) + nonNegInt(org.FailedProposalsCount)
	if decided == 0 {
		return 0
	}
	return float64(nonNegInt(org.PassedProposalsCount)) / float64(decided) * 100
}

// delegateActivity blends the active-delegate ratio with delegation growth.
// The growth bonus can push the value above 100; scorers clamp downstream.
func delegateActivity(org *organizationData) float64 {
	if org.DelegatesCount <= 0 {
		return 0
	}
	ratio := float64(nonNegInt(org.ActiveDelegatesCount)) / float64(org.DelegatesCount) * 100
	if org.DelegationGrowthPct > 0 {
		ratio += org.DelegationGrowthPct
	}
	return ratio
}

// treasuryHealth maps treasury runway onto [0, 100]: two years of runway at
// the current outflow is a full score, no treasury is zero, no outflow with
// a funded treasury is a full score.
func treasuryHealth(org *organizationData) float64 {
	if org.TreasuryUSD <= 0 {
		return 0
	}
	if org.MonthlyOutflowUSD <= 0 {
		return 100
	}
	runwayMonths := org.TreasuryUSD / org.MonthlyOutflowUSD
	return boundPct(runwayMonths / 24 * 100)
}

func ratioPct(num, den int) float64 {
	if den <= 0 || num <= 0 {
		return 0
	}
	return boundPct(float64(num) / float64(den) * 100)
}

func boundPct(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}

func nonNeg(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

func nonNegInt(x int) int {
	if x < 0 {
		return 0
	}
	return x
}
