package model

// RiskRule is a single threshold check evaluated against DAO metrics.
// Category scores are passed to every predicate even though the canonical
// rules only read raw metrics, so score-based rules can be added without
// changing the detector.
type RiskRule struct {
	// ID is a stable identifier, e.g. "low_voter_turnout".
	ID string

	// Condition is the human-readable threshold, e.g. "avg_voter_turnout < 10".
	Condition string

	When func(m DAOMetrics, cs CategoryScores) bool

	// Risk is the fixed record appended when the rule fires. The copy
	// strings are a contract with report consumers; tests pin them exactly.
	Risk Risk
}

// RiskRules returns the canonical ordered ruleset. Detected risks keep this
// declaration order, not severity order. All rules are evaluated on every
// call; none short-circuits another.
func RiskRules() []RiskRule {
	return []RiskRule{
		{
			ID:        "low_voter_turnout",
			Condition: "avg_voter_turnout < 10",
			When: func(m DAOMetrics, _ CategoryScores) bool {
				return m.AvgVoterTurnout < 10
			},
			Risk: Risk{
				Type:        RiskHigh,
				Category:    "Participation",
				Description: "Voter turnout below 10% indicates minimal community participation",
				Impact:      "Governance decisions are made by a small minority of token holders",
				Mitigation:  "Introduce voter incentives and lower participation friction through delegation campaigns",
			},
		},
		{
			ID:        "token_concentration",
			Condition: "token_concentration > 70",
			When: func(m DAOMetrics, _ CategoryScores) bool {
				return m.TokenConcentration > 70
			},
			Risk: Risk{
				Type:        RiskHigh,
				Category:    "Centralization",
				Description: "Token concentration above 70% places voting control with very few holders",
				Impact:      "A handful of wallets can pass or veto any proposal unilaterally",
				Mitigation:  "Broaden token distribution through grants, airdrops, or vesting programs",
			},
		},
		{
			ID:        "low_proposal_activity",
			Condition: "total_proposals < 5",
			When: func(m DAOMetrics, _ CategoryScores) bool {
				return m.TotalProposals < 5
			},
			Risk: Risk{
				Type:        RiskMedium,
				Category:    "Activity",
				Description: "Fewer than 5 proposals suggests an inactive governance process",
				Impact:      "Protocol parameters drift out of date without active stewardship",
				Mitigation:  "Lower proposal thresholds and publish a governance roadmap to invite proposals",
			},
		},
		{
			ID:        "low_success_rate",
			Condition: "proposal_success_rate < 30",
			When: func(m DAOMetrics, _ CategoryScores) bool {
				return m.ProposalSuccessRate < 30
			},
			Risk: Risk{
				Type:        RiskHigh,
				Category:    "Stability",
				Description: "Proposal success rate below 30% signals a fractured voter base",
				Impact:      "Contentious governance blocks protocol upgrades and erodes contributor trust",
				Mitigation:  "Adopt temperature checks and off-chain signaling before on-chain votes",
			},
		},
		{
			ID:        "inactive_delegates",
			Condition: "delegate_activity < 20",
			When: func(m DAOMetrics, _ CategoryScores) bool {
				return m.DelegateActivity < 20
			},
			Risk: Risk{
				Type:        RiskMedium,
				Category:    "Delegation",
				Description: "Delegate activity below 20% means delegated voting power sits idle",
				Impact:      "Delegated tokens contribute nothing to quorum, weakening every vote",
				Mitigation:  "Run delegate accountability programs and periodic re-delegation reminders",
			},
		},
	}
}

// DetectRisks evaluates every rule against the metrics and returns the
// risks that fired, in rule-declaration order. The result is non-nil even
// when no rule fires.
func DetectRisks(m DAOMetrics, cs CategoryScores) []Risk {
	risks := []Risk{}
	for _, rule := range RiskRules() {
		if rule.When(m, cs) {
			risks = append(risks, rule.Risk)
		}
	}
	return risks
}

// CountHighRisks returns the number of HIGH-severity risks in the list.
func CountHighRisks(risks []Risk) int {
	n := 0
	for _, r := range risks {
		if r.Type == RiskHigh {
			n++
		}
	}
	return n
}
