package model

// recommendationRule pairs a predicate over (metrics, detected risks) with
// a fixed recommendation string.
type recommendationRule struct {
	When func(m DAOMetrics, risks []Risk) bool
	Text string
}

// recommendationRules is the ordered rule list. Like the risk ruleset, the
// output order equals declaration order and every rule is evaluated on
// every call.
func recommendationRules() []recommendationRule {
	return []recommendationRule{
		{
			When: func(m DAOMetrics, _ []Risk) bool { return m.AvgVoterTurnout < 20 },
			Text: "Implement voter incentive programs such as gas rebates or participation rewards to raise turnout",
		},
		{
			When: func(m DAOMetrics, _ []Risk) bool { return m.TokenConcentration > 50 },
			Text: "Encourage wider token distribution to reduce concentration among top holders",
		},
		{
			When: func(m DAOMetrics, _ []Risk) bool { return m.DelegateActivity < 30 },
			Text: "Recognize and reward active delegates to revive idle delegated voting power",
		},
		{
			When: func(_ DAOMetrics, risks []Risk) bool { return CountHighRisks(risks) > 0 },
			Text: "Address the identified high-priority risks before they compound into governance failure",
		},
		{
			When: func(m DAOMetrics, _ []Risk) bool { return m.ProposalSuccessRate < 40 },
			Text: "Strengthen pre-vote consensus building so proposals reach the floor with broader support",
		},
	}
}

// GenerateRecommendations produces remediation guidance from metrics and
// already-detected risks. Always returns a non-nil slice: callers
// distinguish "no recommendations" from "not computed" by emptiness.
func GenerateRecommendations(m DAOMetrics, risks []Risk) []string {
	recs := []string{}
	for _, rule := range recommendationRules() {
		if rule.When(m, risks) {
			recs = append(recs, rule.Text)
		}
	}
	return recs
}
