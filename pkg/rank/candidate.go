// Package rank is the core, providing staged candidate scoring, fuzzy
// subsequence matching, usage decay bonuses and incremental re-ranking for
// popup suggestion lists.
package rank

import "time"

// Kind classifies what a candidate refers to.
type Kind int

const (
	// KindFile is a regular file entry with a path.
	KindFile Kind = iota
	// KindDirectory is a container entry. Directory candidates returned by
	// SearchAll are virtual: synthesized from the path segments of matching
	// files, never taken from the input list.
	KindDirectory
	// KindAgent is a named non-file entity (no path, optional description).
	KindAgent
)

// Candidate is a single rankable entry. Candidates are owned by the caller;
// nothing in this package mutates them.
type Candidate struct {
	Name        string
	Path        string
	Kind        Kind
	Description string
	// ModifiedAt is the last modified or last used instant. Zero means
	// unknown and contributes nothing to the score.
	ModifiedAt time.Time
	// Index is the original enumeration position, used as a tiebreak.
	Index int
}

// IsContainer reports whether the candidate is a directory-like entry.
func (c Candidate) IsContainer() bool {
	return c.Kind == KindDirectory
}

// Identity returns the key used for usage bonus lookups: the path when
// present, otherwise the name.
func (c Candidate) Identity() string {
	if c.Path != "" {
		return c.Path
	}
	return c.Name
}

// ScoredCandidate pairs a candidate with its rank score. Higher is better;
// zero or negative means no match and is filtered out before sorting.
type ScoredCandidate struct {
	Candidate Candidate
	Score     float64
}

// BonusSource supplies externally computed usage bonuses by candidate
// identity. Implementations return 0 for unknown identities.
type BonusSource interface {
	Bonus(identity string) float64
}

// NoBonus is a BonusSource that contributes nothing.
type NoBonus struct{}

// Bonus always returns 0.
func (NoBonus) Bonus(string) float64 { return 0 }

// BonusMap adapts a plain map to the BonusSource interface.
type BonusMap map[string]float64

// Bonus returns the mapped value, 0 when absent.
func (m BonusMap) Bonus(identity string) float64 { return m[identity] }
