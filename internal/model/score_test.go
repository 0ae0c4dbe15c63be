package model

import (
	"math"
	"testing"
)

// healthyMetrics is scenario A from the scoring contract: an active,
// well-distributed DAO that should land in the BUY band with no HIGH risks.
func healthyMetrics() DAOMetrics {
	return DAOMetrics{
		Name:                "Uniswap",
		Symbol:              "UNI",
		TotalProposals:      25,
		ActiveProposals:     3,
		AvgVoterTurnout:     40,
		TokenConcentration:  30,
		DelegateActivity:    60,
		ProposalSuccessRate: 75,
		AvgProposalDuration: 5,
		TreasuryHealth:      80,
		CommunityEngagement: 50,
	}
}

// distressedMetrics is scenario B: every risk rule fires.
func distressedMetrics() DAOMetrics {
	return DAOMetrics{
		Name:                "GhostDAO",
		Symbol:              "GHOST",
		TotalProposals:      2,
		ActiveProposals:     0,
		AvgVoterTurnout:     5,
		TokenConcentration:  85,
		DelegateActivity:    10,
		ProposalSuccessRate: 15,
		AvgProposalDuration: 1,
		TreasuryHealth:      20,
		CommunityEngagement: 5,
	}
}

func TestCategoryScoresHealthyScenario(t *testing.T) {
	got := ComputeCategoryScores(healthyMetrics())

	want := CategoryScores{
		Participation:    65, // 0.4*80 + 0.3*60 + 0.3*50
		Decentralization: 67, // 0.7*70 + 0.3*60
		Activity:         62, // 0.4*41.67 + 0.3*75 + 0.3*75
		Transparency:     76, // 0.6*80 + 0.4*70
		Stability:        69, // 0.4*75 + 0.3*80 + 0.3*50
	}
	if got != want {
		t.Errorf("category scores = %+v, want %+v", got, want)
	}

	overall := ComputeOverallScore(got)
	if overall != 67 {
		t.Errorf("overall score = %d, want 67", overall)
	}
	if overall < 60 {
		t.Errorf("healthy scenario must land in the BUY band (>=60), got %d", overall)
	}
}

func TestCategoryScoresDistressedScenario(t *testing.T) {
	got := ComputeCategoryScores(distressedMetrics())

	want := CategoryScores{
		Participation:    9,  // round(0.4*10 + 0.3*10 + 0.3*5) = round(8.5)
		Decentralization: 14, // round(0.7*15 + 0.3*10) = round(13.5)
		Activity:         6,  // round(0.4*3.33 + 0 + 0.3*15)
		Transparency:     46, // 0.6*50 + 0.4*40
		Stability:        15, // 0.4*15 + 0.3*20 + 0.3*10
	}
	if got != want {
		t.Errorf("category scores = %+v, want %+v", got, want)
	}

	overall := ComputeOverallScore(got)
	if overall != 16 {
		t.Errorf("overall score = %d, want 16", overall)
	}
	if overall >= 40 {
		t.Errorf("distressed scenario must land below the HOLD band (<40), got %d", overall)
	}
}

// TestScoresStayBoundedOnAdversarialInput feeds negative and absurdly large
// metrics; every category and the overall score must stay in [0, 100].
func TestScoresStayBoundedOnAdversarialInput(t *testing.T) {
	tests := []struct {
		name string
		m    DAOMetrics
	}{
		{"all_zero", DAOMetrics{}},
		{"all_negative", DAOMetrics{
			TotalProposals: -10, ActiveProposals: -3,
			AvgVoterTurnout: -50, TokenConcentration: -20,
			DelegateActivity: -100, ProposalSuccessRate: -5,
			AvgProposalDuration: -1, TreasuryHealth: -80, CommunityEngagement: -40,
		}},
		{"all_huge", DAOMetrics{
			TotalProposals: 100000, ActiveProposals: 500,
			AvgVoterTurnout: 9999, TokenConcentration: 5000,
			DelegateActivity: 12345, ProposalSuccessRate: 700,
			AvgProposalDuration: 365, TreasuryHealth: 2000, CommunityEngagement: 800,
		}},
		{"concentration_negative", DAOMetrics{TokenConcentration: -500, DelegateActivity: 150}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cs := ComputeCategoryScores(tc.m)
			for name, score := range map[string]int{
				"participation":    cs.Participation,
				"decentralization": cs.Decentralization,
				"activity":         cs.Activity,
				"transparency":     cs.Transparency,
				"stability":        cs.Stability,
				"overall":          ComputeOverallScore(cs),
			} {
				if score < 0 || score > 100 {
					t.Errorf("%s score %d outside [0, 100]", name, score)
				}
			}
		})
	}
}

// TestOverallScoreWeightedSumProperty checks the aggregator against the
// weight vector directly, rounding once after summation.
func TestOverallScoreWeightedSumProperty(t *testing.T) {
	scores := []CategoryScores{
		{65, 67, 62, 76, 69},
		{0, 0, 0, 0, 0},
		{100, 100, 100, 100, 100},
		{1, 99, 50, 33, 77},
		{13, 87, 41, 9, 66},
	}

	for _, cs := range scores {
		want := int(math.Round(0.25*float64(cs.Participation) +
			0.25*float64(cs.Decentralization) +
			0.20*float64(cs.Activity) +
			0.15*float64(cs.Transparency) +
			0.15*float64(cs.Stability)))
		if got := ComputeOverallScore(cs); got != want {
			t.Errorf("ComputeOverallScore(%+v) = %d, want %d", cs, got, want)
		}
	}
}

// TestParticipationMonotonicInTurnout: raising turnout with everything else
// fixed never lowers the participation score, until it saturates.
func TestParticipationMonotonicInTurnout(t *testing.T) {
	m := healthyMetrics()
	prev := -1
	for turnout := 0.0; turnout <= 120; turnout += 0.5 {
		m.AvgVoterTurnout = turnout
		got := ComputeCategoryScores(m).Participation
		if got < prev {
			t.Fatalf("participation dropped from %d to %d at turnout=%.1f", prev, got, turnout)
		}
		prev = got
	}
}

// TestDecentralizationMonotonicInConcentration: raising concentration never
// raises the decentralization score.
func TestDecentralizationMonotonicInConcentration(t *testing.T) {
	m := healthyMetrics()
	prev := 101
	for conc := 0.0; conc <= 120; conc += 0.5 {
		m.TokenConcentration = conc
		got := ComputeCategoryScores(m).Decentralization
		if got > prev {
			t.Fatalf("decentralization rose from %d to %d at concentration=%.1f", prev, got, conc)
		}
		prev = got
	}
}

// TestActivitySaturation pins the two saturation points: one proposal per
// month fills the frequency term, four active proposals fill the active term.
func TestActivitySaturation(t *testing.T) {
	m := DAOMetrics{TotalProposals: 60, ActiveProposals: 4, ProposalSuccessRate: 100}
	if got := ComputeCategoryScores(m).Activity; got != 100 {
		t.Errorf("saturated activity = %d, want 100", got)
	}

	// Beyond the saturation points nothing changes.
	more := DAOMetrics{TotalProposals: 600, ActiveProposals: 40, ProposalSuccessRate: 100}
	if got := ComputeCategoryScores(more).Activity; got != 100 {
		t.Errorf("over-saturated activity = %d, want 100", got)
	}
}

// TestTransparencyTiers walks the two-tier step function across both
// boundaries (strict '>' on each).
func TestTransparencyTiers(t *testing.T) {
	tests := []struct {
		proposals int
		duration  float64
		want      int
	}{
		{10, 3, 46},   // both lower tiers: 0.6*50 + 0.4*40
		{11, 3, 64},   // proposal tier only: 0.6*80 + 0.4*40
		{10, 3.1, 58}, // duration tier only: 0.6*50 + 0.4*70
		{11, 3.1, 76}, // both upper tiers: 0.6*80 + 0.4*70
	}
	for _, tc := range tests {
		m := DAOMetrics{TotalProposals: tc.proposals, AvgProposalDuration: tc.duration}
		if got := ComputeCategoryScores(m).Transparency; got != tc.want {
			t.Errorf("transparency(proposals=%d, duration=%.1f) = %d, want %d",
				tc.proposals, tc.duration, got, tc.want)
		}
	}
}

// TestZeroProposalsScenario: with zero proposals the frequency term is zero
// and the pre-normalized success rate of 0 keeps everything finite.
func TestZeroProposalsScenario(t *testing.T) {
	m := DAOMetrics{TotalProposals: 0, ActiveProposals: 0, ProposalSuccessRate: 0}
	cs := ComputeCategoryScores(m)
	if cs.Activity != 0 {
		t.Errorf("activity with zero proposals = %d, want 0", cs.Activity)
	}
	if overall := ComputeOverallScore(cs); overall < 0 || overall > 100 {
		t.Errorf("overall = %d outside [0, 100]", overall)
	}
}

// TestPipelineIdempotence: two runs over identical metrics yield identical
// scores, risks, and recommendations: no hidden state anywhere.
func TestPipelineIdempotence(t *testing.T) {
	m := distressedMetrics()

	cs1 := ComputeCategoryScores(m)
	cs2 := ComputeCategoryScores(m)
	if cs1 != cs2 {
		t.Errorf("category scores differ across calls: %+v vs %+v", cs1, cs2)
	}

	r1 := DetectRisks(m, cs1)
	r2 := DetectRisks(m, cs2)
	if len(r1) != len(r2) {
		t.Fatalf("risk counts differ: %d vs %d", len(r1), len(r2))
	}
	for i := range r1 {
		if r1[i] != r2[i] {
			t.Errorf("risk %d differs: %+v vs %+v", i, r1[i], r2[i])
		}
	}

	rec1 := GenerateRecommendations(m, r1)
	rec2 := GenerateRecommendations(m, r2)
	if len(rec1) != len(rec2) {
		t.Fatalf("recommendation counts differ: %d vs %d", len(rec1), len(rec2))
	}
	for i := range rec1 {
		if rec1[i] != rec2[i] {
			t.Errorf("recommendation %d differs: %q vs %q", i, rec1[i], rec2[i])
		}
	}
}
