package rank

import (
	"sort"
	"strings"
)

// DefaultMaxResults bounds the suggestion list handed to the popup.
const DefaultMaxResults = 20

// tiebreakCriteria is the secondary ordering applied when scores tie.
var tiebreakCriteria = []Criterion{CriterionLength, CriterionIndex, CriterionPathname}

// Searcher is the ranking pipeline for the unscoped "search everything"
// entry point. It scores candidates, synthesizes directory suggestions from
// the path segments of matching files, sorts, truncates, and remembers the
// previous full result set so a strictly extending query can re-score that
// smaller subset instead of the whole candidate list.
//
// The remembered state is scoped to one search session and one goroutine;
// call Clear when the search scope changes.
type Searcher struct {
	scorer     *Scorer
	bonuses    BonusSource
	maxResults int
	baseDir    string

	lastQuery    string
	lastFull     []Candidate
	wasTruncated bool
}

// NewSearcher builds a pipeline around the given scorer and bonus source.
// A nil bonus source means no usage bonuses; non-positive maxResults falls
// back to DefaultMaxResults.
func NewSearcher(scorer *Scorer, bonuses BonusSource, maxResults int) *Searcher {
	if scorer == nil {
		scorer = NewScorer(nil, nil, DefaultBonusConfig())
	}
	if bonuses == nil {
		bonuses = NoBonus{}
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Searcher{
		scorer:     scorer,
		bonuses:    bonuses,
		maxResults: maxResults,
	}
}

// SetScope records the base directory used for path-depth bonuses and
// clears the incremental state, since results from another scope are not a
// valid superset.
func (s *Searcher) SetScope(baseDir string) {
	s.baseDir = baseDir
	s.Clear()
}

// Clear forgets the previous query and result set. The next SearchAll will
// re-score the full candidate list.
func (s *Searcher) Clear() {
	s.lastQuery = ""
	s.lastFull = nil
	s.wasTruncated = false
}

// SetMaxResults changes the truncation limit and clears the incremental
// state so the truncation flag stays consistent with the new limit.
func (s *Searcher) SetMaxResults(limit int) {
	if limit > 0 {
		s.maxResults = limit
		s.Clear()
	}
}

// SearchAll ranks candidates against query and returns at most the
// configured number of results, best first.
//
// When query strictly extends the previous query and the previous full
// result set was not truncated, only that result set is re-scored. Because
// every stage of the scorer is monotone in the query (a candidate matching
// "conf" also matched "con"), the narrowed pass yields exactly the result a
// full rescan would.
func (s *Searcher) SearchAll(candidates []Candidate, query string) []ScoredCandidate {
	queryLower := strings.ToLower(query)

	pool := candidates
	if s.canNarrow(query) {
		pool = s.lastFull
	}

	merged := s.rank(pool, queryLower)

	full := make([]Candidate, len(merged))
	for i, sc := range merged {
		full[i] = sc.Candidate
	}
	s.lastQuery = query
	s.lastFull = full
	s.wasTruncated = len(merged) > s.maxResults

	if s.wasTruncated {
		merged = merged[:s.maxResults]
	}
	return merged
}

// canNarrow reports whether the previous result set is a safe superset for
// query. A truncated previous result is not: candidates cut off by the
// limit could re-enter under a longer query's ordering.
func (s *Searcher) canNarrow(query string) bool {
	return s.lastQuery != "" &&
		len(query) > len(s.lastQuery) &&
		strings.HasPrefix(query, s.lastQuery) &&
		len(s.lastFull) > 0 &&
		!s.wasTruncated
}

// rank scores every non-directory candidate in pool, synthesizes virtual
// directory candidates from the path segments of matching files, and
// returns the merged list sorted by score descending with deterministic
// tiebreaks. Directory entries already in pool are skipped: they are
// virtual results of a previous pass and are re-derived from the files.
func (s *Searcher) rank(pool []Candidate, queryLower string) []ScoredCandidate {
	scored := make([]ScoredCandidate, 0, len(pool))
	dirs := make(map[string]Candidate)

	for _, c := range pool {
		if c.Kind == KindDirectory {
			continue
		}
		score := s.scorer.Score(c, queryLower, s.bonuses.Bonus(c.Identity()), s.baseDir)
		if score <= 0 {
			continue
		}
		scored = append(scored, ScoredCandidate{Candidate: c, Score: score})
		s.collectDirs(c, queryLower, dirs)
	}

	// Map iteration order is random; walk names sorted so ties that survive
	// every criterion still come out in a fixed order.
	names := make([]string, 0, len(dirs))
	for name := range dirs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dir := dirs[name]
		score := s.scorer.Score(dir, queryLower, s.bonuses.Bonus(dir.Identity()), s.baseDir)
		if score > 0 {
			scored = append(scored, ScoredCandidate{Candidate: dir, Score: score})
		}
	}

	acc := CandidateAccessors()
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return Compare(scored[i], scored[j], tiebreakCriteria, acc) < 0
	})
	return scored
}

// collectDirs synthesizes a virtual directory candidate for every non-leaf
// path segment of c that contains the query. Duplicated names keep the
// shallowest path; equal depths keep the lexicographically smaller path and
// the lowest contributing file index, so synthesis does not depend on pool
// order.
func (s *Searcher) collectDirs(c Candidate, queryLower string, dirs map[string]Candidate) {
	if queryLower == "" || c.Path == "" {
		return
	}
	segments := strings.Split(c.Path, "/")
	if len(segments) < 2 {
		return
	}

	prefix := ""
	for _, segment := range segments[:len(segments)-1] {
		if prefix == "" {
			prefix = segment
		} else {
			prefix = prefix + "/" + segment
		}
		if !strings.Contains(s.scorer.Fold(segment), queryLower) {
			continue
		}

		next := Candidate{
			Name:  segment,
			Path:  prefix,
			Kind:  KindDirectory,
			Index: c.Index,
		}
		existing, ok := dirs[segment]
		if !ok {
			dirs[segment] = next
			continue
		}
		existingDepth := pathSegments(existing.Path)
		nextDepth := pathSegments(prefix)
		switch {
		case nextDepth < existingDepth,
			nextDepth == existingDepth && prefix < existing.Path:
			dirs[segment] = next
		case prefix == existing.Path && c.Index < existing.Index:
			existing.Index = c.Index
			dirs[segment] = existing
		}
	}
}
