// Package analyzer composes the metrics provider, the cache, and the pure
// scoring pipeline into the analysis entry points used by the CLI and the
// MCP tools.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/govpulse/govpulse/internal/model"
)

// Platform is the cache-key namespace for the metrics source. Only Tally is
// produced today; the key component exists so cached analyses from another
// source could never collide.
const Platform = "tally"

// MetricsProvider supplies normalized governance metrics for a DAO
// identifier. The Tally client implements it; tests use fakes.
type MetricsProvider interface {
	FetchMetrics(ctx context.Context, identifier string) (*model.DAOMetrics, error)
}

// Store is the optional analysis cache. Get misses must be cheap; Set
// failures are non-fatal.
type Store interface {
	Get(platform, identifier string) (*model.GovernanceHealth, bool)
	Set(platform, identifier string, h *model.GovernanceHealth) error
}

// Analyzer runs governance analyses. Safe for concurrent use: every
// invocation is independent and the scoring pipeline is stateless.
type Analyzer struct {
	provider MetricsProvider
	store    Store // may be nil

	// now stamps results; swapped in tests for determinism.
	now func() time.Time
}

// New creates an Analyzer. A nil store disables caching.
func New(provider MetricsProvider, store Store) *Analyzer {
	return &Analyzer{provider: provider, store: store, now: time.Now}
}

// Analyze fetches metrics for one DAO and runs the full scoring pipeline.
// Results are served from the cache when fresh and written through after a
// fetch; a failing cache write never fails the analysis.
func (a *Analyzer) Analyze(ctx context.Context, identifier string) (*model.GovernanceHealth, error) {
	if a.store != nil {
		if h, ok := a.store.Get(Platform, identifier); ok {
			return h, nil
		}
	}

	m, err := a.provider.FetchMetrics(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("fetch metrics for %q: %w", identifier, err)
	}

	h := a.analyze(*m)
	if a.store != nil {
		_ = a.store.Set(Platform, identifier, h)
	}
	return h, nil
}

// analyze runs the pure pipeline over already-fetched metrics.
func (a *Analyzer) analyze(m model.DAOMetrics) *model.GovernanceHealth {
	scores := model.ComputeCategoryScores(m)
	risks := model.DetectRisks(m, scores)
	return &model.GovernanceHealth{
		DAO:             m.Name,
		OverallScore:    model.ComputeOverallScore(scores),
		CategoryScores:  scores,
		Risks:           risks,
		Recommendations: model.GenerateRecommendations(m, risks),
		LastUpdated:     a.now().UTC(),
	}
}

// Metrics returns the raw normalized metrics for a DAO without scoring.
func (a *Analyzer) Metrics(ctx context.Context, identifier string) (*model.DAOMetrics, error) {
	m, err := a.provider.FetchMetrics(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("fetch metrics for %q: %w", identifier, err)
	}
	return m, nil
}

// Compare analyzes several DAOs in parallel and returns the results ranked
// by overall score descending, name ascending on ties. Individual failures
// are tolerated as long as at least one DAO resolves; if all fail, the
// combined error is returned.
func (a *Analyzer) Compare(ctx context.Context, identifiers []string) ([]model.GovernanceHealth, error) {
	results := make([]*model.GovernanceHealth, len(identifiers))
	errs := make([]error, len(identifiers))

	var wg sync.WaitGroup
	for i, id := range identifiers {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i], errs[i] = a.Analyze(ctx, id)
		}(i, id)
	}
	wg.Wait()

	var ranked []model.GovernanceHealth
	for _, h := range results {
		if h != nil {
			ranked = append(ranked, *h)
		}
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("no DAO could be analyzed: %w", errors.Join(errs...))
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].OverallScore != ranked[j].OverallScore {
			return ranked[i].OverallScore > ranked[j].OverallScore
		}
		return ranked[i].DAO < ranked[j].DAO
	})
	return ranked, nil
}
