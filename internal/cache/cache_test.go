package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/govpulse/govpulse/internal/model"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := Open("", ttl)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleHealth(dao string) *model.GovernanceHealth {
	return &model.GovernanceHealth{
		DAO:          dao,
		OverallScore: 67,
		CategoryScores: model.CategoryScores{
			Participation: 65, Decentralization: 67, Activity: 62,
			Transparency: 76, Stability: 69,
		},
		Risks:           []model.Risk{},
		Recommendations: []string{},
		LastUpdated:     time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
	}
}

func TestCacheMissOnEmpty(t *testing.T) {
	c := newTestCache(t, time.Minute)
	if _, ok := c.Get("tally", "uniswap"); ok {
		t.Fatal("expected miss on empty cache")
	}
}

func TestCacheSetGetRoundTrip(t *testing.T) {
	c := newTestCache(t, time.Minute)
	want := sampleHealth("Uniswap")

	if err := c.Set("tally", "uniswap", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := c.Get("tally", "uniswap")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got.DAO != want.DAO || got.OverallScore != want.OverallScore {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if got.CategoryScores != want.CategoryScores {
		t.Errorf("category scores = %+v, want %+v", got.CategoryScores, want.CategoryScores)
	}
	if !got.LastUpdated.Equal(want.LastUpdated) {
		t.Errorf("last updated = %v, want %v", got.LastUpdated, want.LastUpdated)
	}
}

// TestCacheKeyIncludesPlatform: the same identifier under a different
// platform is a different entry.
func TestCacheKeyIncludesPlatform(t *testing.T) {
	c := newTestCache(t, time.Minute)
	if err := c.Set("tally", "uniswap", sampleHealth("Uniswap")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := c.Get("snapshot", "uniswap"); ok {
		t.Fatal("entry must be scoped to its platform")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := newTestCache(t, time.Minute)

	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	if err := c.Set("tally", "uniswap", sampleHealth("Uniswap")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := c.Get("tally", "uniswap"); !ok {
		t.Fatal("expected hit before expiry")
	}

	c.now = func() time.Time { return base.Add(time.Minute) }
	if _, ok := c.Get("tally", "uniswap"); ok {
		t.Fatal("expected miss at the TTL deadline")
	}

	// The expired row is gone even if the clock rolls back.
	c.now = func() time.Time { return base }
	if _, ok := c.Get("tally", "uniswap"); ok {
		t.Fatal("expired row must be deleted lazily")
	}
}

func TestCacheUpsertReplaces(t *testing.T) {
	c := newTestCache(t, time.Minute)

	first := sampleHealth("Uniswap")
	first.OverallScore = 50
	if err := c.Set("tally", "uniswap", first); err != nil {
		t.Fatalf("Set: %v", err)
	}

	second := sampleHealth("Uniswap")
	second.OverallScore = 80
	if err := c.Set("tally", "uniswap", second); err != nil {
		t.Fatalf("second Set: %v", err)
	}

	got, ok := c.Get("tally", "uniswap")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.OverallScore != 80 {
		t.Errorf("score = %d, want 80 (upsert must replace)", got.OverallScore)
	}
}

func TestCacheFileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "govpulse.db")

	c, err := Open(path, time.Minute)
	if err != nil {
		t.Fatalf("Open(%q): %v", path, err)
	}
	if err := c.Set("tally", "ens", sampleHealth("ENS")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen: the entry survives the process boundary.
	c2, err := Open(path, time.Minute)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c2.Close()
	if _, ok := c2.Get("tally", "ens"); !ok {
		t.Fatal("file-backed cache must survive reopen")
	}
}
