package rank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testClock() time.Time {
	return time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
}

func testCandidates() []Candidate {
	now := testClock()
	names := []struct {
		name, path string
		age        time.Duration
	}{
		{"config.ts", "src/config.ts", 2 * time.Hour},
		{"config.js", "lib/config.js", 0},
		{"constants.go", "internal/constants.go", 48 * time.Hour},
		{"controller.go", "internal/api/controller.go", 0},
		{"main.go", "cmd/app/main.go", time.Hour},
		{"conv_util.py", "tools/conv_util.py", 0},
		{"README.md", "README.md", 200 * time.Hour},
		{"cache.go", "pkg/cache/cache.go", 5 * time.Hour},
		{"connect.sh", "scripts/connect.sh", 0},
		{"notes.txt", "docs/notes.txt", 0},
	}
	candidates := make([]Candidate, len(names))
	for i, n := range names {
		candidates[i] = Candidate{
			Name:  n.name,
			Path:  n.path,
			Kind:  KindFile,
			Index: i,
		}
		if n.age > 0 {
			candidates[i].ModifiedAt = now.Add(-n.age)
		}
	}
	return candidates
}

func newTestSearcher(bonuses BonusSource, maxResults int) *Searcher {
	scorer := NewScorer(nil, nil, DefaultBonusConfig())
	scorer.now = testClock
	return NewSearcher(scorer, bonuses, maxResults)
}

func TestSearchAllOrdering(t *testing.T) {
	s := newTestSearcher(nil, 50)
	results := s.SearchAll(testCandidates(), "config")

	require.NotEmpty(t, results)
	for i := 1; i < len(results); i++ {
		require.GreaterOrEqual(t, results[i-1].Score, results[i].Score,
			"results must be sorted by score descending")
	}

	// Both config files classify as prefix matches; config.ts additionally
	// carries a freshness bonus from its recent mtime.
	require.Equal(t, "config.ts", results[0].Candidate.Name)
	require.Equal(t, "config.js", results[1].Candidate.Name)
	require.GreaterOrEqual(t, results[0].Score, float64(ScoreStartsWith))
}

func TestSearchAllTiebreakPrefersShorterName(t *testing.T) {
	s := newTestSearcher(nil, 50)
	candidates := []Candidate{
		{Name: "config_backup.ts", Path: "a/config_backup.ts", Kind: KindFile, Index: 0},
		{Name: "config.ts", Path: "a/config.ts", Kind: KindFile, Index: 1},
	}
	results := s.SearchAll(candidates, "conf")

	require.Len(t, results, 2)
	require.Equal(t, "config.ts", results[0].Candidate.Name,
		"equal scores should fall to the shorter name")
}

func TestSearchAllTruncates(t *testing.T) {
	s := newTestSearcher(nil, 3)
	results := s.SearchAll(testCandidates(), "")

	require.Len(t, results, 3)
	require.True(t, s.wasTruncated)
}

func TestIncrementalEquivalence(t *testing.T) {
	bonuses := BonusMap{
		"src/config.ts": 25,
		"lib/config.js": 3.5,
	}
	candidates := testCandidates()

	incremental := newTestSearcher(bonuses, 50)
	var viaIncremental []ScoredCandidate
	for _, query := range []string{"c", "co", "con", "conf"} {
		viaIncremental = incremental.SearchAll(candidates, query)
	}
	require.Equal(t, "conf", incremental.lastQuery)

	fresh := newTestSearcher(bonuses, 50)
	viaFullScan := fresh.SearchAll(candidates, "conf")

	require.Equal(t, viaFullScan, viaIncremental,
		"narrowing over the previous result set must equal a full rescan")
}

func TestIncrementalNarrowingEngages(t *testing.T) {
	s := newTestSearcher(nil, 50)
	s.SearchAll(testCandidates(), "con")

	require.True(t, s.canNarrow("conf"))
	require.False(t, s.canNarrow("con"), "identical query is not a strict extension")
	require.False(t, s.canNarrow("cx"), "non-extension must rescan")
	require.False(t, s.canNarrow(""), "empty query must rescan")
}

func TestIncrementalNotUsedAfterEmptyQuery(t *testing.T) {
	s := newTestSearcher(nil, 50)
	s.SearchAll(testCandidates(), "")

	require.False(t, s.canNarrow("c"),
		"an empty previous query never gates the incremental path")
}

func TestTruncatedResultNotReused(t *testing.T) {
	candidates := testCandidates()

	truncated := newTestSearcher(nil, 2)
	truncated.SearchAll(candidates, "c")
	require.True(t, truncated.wasTruncated)
	require.False(t, truncated.canNarrow("co"),
		"a truncated result set is not a safe superset")

	// Even so, the follow-up query must match a fresh full scan.
	viaTruncated := truncated.SearchAll(candidates, "co")
	fresh := newTestSearcher(nil, 2)
	viaFresh := fresh.SearchAll(candidates, "co")
	require.Equal(t, viaFresh, viaTruncated)
}

func TestSearchAllClearForgetsState(t *testing.T) {
	s := newTestSearcher(nil, 50)
	s.SearchAll(testCandidates(), "con")
	require.True(t, s.canNarrow("conf"))

	s.Clear()
	require.False(t, s.canNarrow("conf"))

	s.SearchAll(testCandidates(), "con")
	s.SetScope("src")
	require.False(t, s.canNarrow("conf"), "scope change must clear the cache")
}

func TestSearchAllSynthesizesDirectories(t *testing.T) {
	s := newTestSearcher(nil, 50)
	candidates := []Candidate{
		{Name: "main.go", Path: "src/config/main.go", Kind: KindFile, Index: 0},
		{Name: "util.go", Path: "src/config/util.go", Kind: KindFile, Index: 1},
		{Name: "app.ts", Path: "config/app.ts", Kind: KindFile, Index: 2},
	}
	results := s.SearchAll(candidates, "config")

	var dirs []ScoredCandidate
	for _, r := range results {
		if r.Candidate.Kind == KindDirectory {
			dirs = append(dirs, r)
		}
	}
	require.Len(t, dirs, 1, "duplicate directory names must deduplicate")
	require.Equal(t, "config", dirs[0].Candidate.Name)
	require.Equal(t, "config", dirs[0].Candidate.Path,
		"the shallowest path wins the dedup")

	// The exact-named directory outranks the path-contains files.
	require.Equal(t, KindDirectory, results[0].Candidate.Kind)
}

func TestSearchAllLeafMatchSynthesizesNoDirectory(t *testing.T) {
	s := newTestSearcher(nil, 50)
	candidates := []Candidate{
		{Name: "config.ts", Path: "src/config.ts", Kind: KindFile, Index: 0},
	}
	results := s.SearchAll(candidates, "config")

	for _, r := range results {
		require.NotEqual(t, KindDirectory, r.Candidate.Kind,
			"only non-leaf segments imply directories")
	}
}

func TestSearchAllAgentWithEmptyQuery(t *testing.T) {
	s := newTestSearcher(BonusMap{"claude": 100}, 50)
	candidates := []Candidate{
		{Name: "claude", Kind: KindAgent, Index: 0},
	}
	results := s.SearchAll(candidates, "")

	require.Len(t, results, 1)
	require.Equal(t, float64(ScoreAgentBase), results[0].Score,
		"empty-query agent scoring ignores the usage bonus")
}

func TestSearchAllUsageBonusBreaksTies(t *testing.T) {
	bonuses := BonusMap{"lib/config.js": 50}
	s := newTestSearcher(bonuses, 50)
	candidates := []Candidate{
		{Name: "config.ts", Path: "src/config.ts", Kind: KindFile, Index: 0},
		{Name: "config.js", Path: "lib/config.js", Kind: KindFile, Index: 1},
	}
	results := s.SearchAll(candidates, "config")

	require.Equal(t, "config.js", results[0].Candidate.Name,
		"usage bonus should outweigh the index tiebreak")
}
