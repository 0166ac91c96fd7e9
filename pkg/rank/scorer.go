package rank

import (
	"strings"
	"time"
)

// Staged classification base scores. The gaps between stages are large
// enough that no bonus combination can promote a candidate past a stage it
// did not earn.
const (
	ScoreExact        = 1000
	ScoreStartsWith   = 500
	ScoreContains     = 200
	ScorePathContains = 50

	// ScoreAgentBase is returned for agent candidates matched against an
	// empty query, with no bonuses applied.
	ScoreAgentBase = 100
)

// Fuzzy fallback scores are scaled then clamped strictly between
// ScorePathContains and ScoreContains, so a fuzzy match never outranks a
// literal substring match of equal specificity.
const (
	fuzzyFloor   = 60
	fuzzyCeiling = 190
	fuzzyScale   = 0.5
)

// Additive bonuses aggregated on top of the staged base.
const (
	fileBonus     = 10
	pathDepthMax  = 20
	pathDepthStep = 4
)

// Scorer assigns a single score to a candidate for a query: a staged
// exact -> prefix -> contains -> path-contains -> fuzzy base, plus additive
// bonuses for files, shallow paths, usage and recent modification.
//
// A Scorer holds no per-query state beyond its fold cache and is scoped to
// one search session. Construct one at session start and drop it at the end.
type Scorer struct {
	fold    *FoldCache
	matcher *Matcher
	bonuses BonusConfig
	now     func() time.Time
}

// NewScorer builds a scorer around the given caches. Nil fold or matcher
// fall back to fresh defaults.
func NewScorer(fold *FoldCache, matcher *Matcher, bonuses BonusConfig) *Scorer {
	if fold == nil {
		fold = NewFoldCache(0)
	}
	if matcher == nil {
		matcher = NewMatcher()
	}
	return &Scorer{
		fold:    fold,
		matcher: matcher,
		bonuses: bonuses,
		now:     time.Now,
	}
}

// Fold exposes the scorer's case-fold cache.
func (s *Scorer) Fold(text string) string {
	return s.fold.Fold(text)
}

// Score ranks candidate c against the already case-folded query. usageBonus
// is supplied externally and added raw; baseDir, when non-empty, is stripped
// from the candidate path before the path-depth bonus is computed.
//
// A return of zero or less means no match. Missing optional fields degrade
// to zero contribution rather than failing.
func (s *Scorer) Score(c Candidate, queryLower string, usageBonus float64, baseDir string) float64 {
	if c.Kind == KindAgent && queryLower == "" {
		// Known quirk kept on purpose: the usage bonus is NOT added here,
		// unlike file scoring at empty query. Downstream ordering depends
		// on agents holding a flat base score until the user types.
		return ScoreAgentBase
	}
	if c.Name == "" {
		return 0
	}

	nameLower := s.fold.Fold(c.Name)

	var base float64
	switch {
	case nameLower == queryLower:
		base = ScoreExact
	case strings.HasPrefix(nameLower, queryLower):
		base = ScoreStartsWith
	case strings.Contains(nameLower, queryLower):
		base = ScoreContains
	case s.secondaryContains(c, queryLower):
		base = ScorePathContains
	default:
		// Original-case name so camelCase boundaries survive folding.
		result := s.matcher.Match(c.Name, queryLower)
		if !result.Matched {
			return 0
		}
		base = clamp(float64(result.Score)*fuzzyScale, fuzzyFloor, fuzzyCeiling)
	}

	return base + s.bonus(c, usageBonus, baseDir)
}

// secondaryContains checks the case-folded path, or for pathless candidates
// the description, for a literal substring of the query.
func (s *Scorer) secondaryContains(c Candidate, queryLower string) bool {
	if c.Path != "" {
		return strings.Contains(s.fold.Fold(c.Path), queryLower)
	}
	if c.Description != "" {
		return strings.Contains(s.fold.Fold(c.Description), queryLower)
	}
	return false
}

func (s *Scorer) bonus(c Candidate, usageBonus float64, baseDir string) float64 {
	total := usageBonus
	if !c.IsContainer() {
		total += fileBonus
	}
	total += float64(pathDepthBonus(c.Path, baseDir))
	if !c.ModifiedAt.IsZero() {
		age := s.now().Sub(c.ModifiedAt)
		total += float64(LastUsedBonus(age, s.bonuses.MaxModified, s.bonuses.HalfLife, s.bonuses.TTL))
	}
	return total
}

// pathDepthBonus favors shallow paths: full bonus for a single segment,
// stepping down to zero as segments accumulate. Pathless candidates count
// as a single segment.
func pathDepthBonus(path, baseDir string) int {
	if path == "" {
		return pathDepthMax
	}
	rel := path
	if baseDir != "" {
		rel = strings.TrimPrefix(path, strings.TrimSuffix(baseDir, "/")+"/")
	}
	segments := strings.Count(rel, "/") + 1
	bonus := pathDepthMax - (segments-1)*pathDepthStep
	if bonus < 0 {
		return 0
	}
	return bonus
}

func clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
