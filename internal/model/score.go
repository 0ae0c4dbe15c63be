package model

import "math"

// Category weights for the overall score. Must sum to 1.00.
const (
	weightParticipation    = 0.25
	weightDecentralization = 0.25
	weightActivity         = 0.20
	weightTransparency     = 0.15
	weightStability        = 0.15
)

// clamp bounds a partial score to the valid [0, 100] range. Every scorer
// routes its terms through this so adversarial inputs (negative, huge)
// can never leak an out-of-range score.
func clamp(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}

// roundScore clamps and rounds a final category score to an integer.
func roundScore(x float64) int {
	return int(math.Round(clamp(x)))
}

// scoreParticipation weights voter turnout, delegate activity, and
// community engagement. Realistic turnout tops out near 50%, so it is
// doubled onto the 0-100 scale before weighting.
func scoreParticipation(m DAOMetrics) int {
	return roundScore(0.4*clamp(m.AvgVoterTurnout*2) +
		0.3*clamp(m.DelegateActivity) +
		0.3*clamp(m.CommunityEngagement))
}

// scoreDecentralization inverts token concentration (more concentrated
// voting power means a lower score) and credits delegate activity.
func scoreDecentralization(m DAOMetrics) int {
	return roundScore(0.7*clamp(100-m.TokenConcentration) +
		0.3*clamp(m.DelegateActivity))
}

// scoreActivity normalizes one proposal per month (12/year) to a full
// proposal-frequency score; the active-proposal term saturates at 4
// concurrent proposals.
func scoreActivity(m DAOMetrics) int {
	return roundScore(0.4*clamp(float64(m.TotalProposals)/12*20) +
		0.3*clamp(float64(m.ActiveProposals)*25) +
		0.3*clamp(m.ProposalSuccessRate))
}

// scoreTransparency is a deliberately coarse two-tier step function: the
// upstream API exposes no richer transparency signals than proposal volume
// and voting-period length.
func scoreTransparency(m DAOMetrics) int {
	proposalTier := 50.0
	if m.TotalProposals > 10 {
		proposalTier = 80
	}
	durationTier := 40.0
	if m.AvgProposalDuration > 3 {
		durationTier = 70
	}
	return roundScore(0.6*proposalTier + 0.4*durationTier)
}

// scoreStability treats a longer voting period (up to 10 days) as a
// stability signal alongside success rate and treasury health.
func scoreStability(m DAOMetrics) int {
	return roundScore(0.4*clamp(m.ProposalSuccessRate) +
		0.3*clamp(m.TreasuryHealth) +
		0.3*clamp(m.AvgProposalDuration*10))
}

// ComputeCategoryScores runs the five independent category scorers.
// Each score is clamped and rounded on its own.
func ComputeCategoryScores(m DAOMetrics) CategoryScores {
	return CategoryScores{
		Participation:    scoreParticipation(m),
		Decentralization: scoreDecentralization(m),
		Activity:         scoreActivity(m),
		Transparency:     scoreTransparency(m),
		Stability:        scoreStability(m),
	}
}

// ComputeOverallScore aggregates already-computed category scores with the
// fixed weights. The sum is rounded once, after weighting, so per-term
// rounding error cannot compound.
func ComputeOverallScore(cs CategoryScores) int {
	sum := weightParticipation*float64(cs.Participation) +
		weightDecentralization*float64(cs.Decentralization) +
		weightActivity*float64(cs.Activity) +
		weightTransparency*float64(cs.Transparency) +
		weightStability*float64(cs.Stability)
	return int(math.Round(sum))
}
