package rank

import "strings"

// Criterion names one deterministic secondary ordering rule.
type Criterion int

const (
	// CriterionLength prefers the shorter name.
	CriterionLength Criterion = iota
	// CriterionIndex prefers the lower original enumeration position.
	CriterionIndex
	// CriterionPathname prefers the path with fewer segments.
	CriterionPathname
	// CriterionBegin prefers the smaller match offset, reserved for
	// line-based matches.
	CriterionBegin
)

// Accessors supplies the field getters Compare needs. A nil getter makes
// its criterion a no-op.
type Accessors[T any] struct {
	Name  func(T) string
	Index func(T) int
	Path  func(T) string
	Begin func(T) int
}

// Compare applies each criterion in order until one produces a nonzero
// difference. Negative means a orders before b. A zero result means the
// pair ties on every criterion; callers must use a stable sort so original
// order is kept.
func Compare[T any](a, b T, criteria []Criterion, acc Accessors[T]) int {
	for _, criterion := range criteria {
		var diff int
		switch criterion {
		case CriterionLength:
			if acc.Name != nil {
				diff = len(acc.Name(a)) - len(acc.Name(b))
			}
		case CriterionIndex:
			if acc.Index != nil {
				diff = acc.Index(a) - acc.Index(b)
			}
		case CriterionPathname:
			if acc.Path != nil {
				diff = pathSegments(acc.Path(a)) - pathSegments(acc.Path(b))
			}
		case CriterionBegin:
			if acc.Begin != nil {
				diff = acc.Begin(a) - acc.Begin(b)
			}
		}
		if diff != 0 {
			return diff
		}
	}
	return 0
}

func pathSegments(path string) int {
	return len(strings.Split(path, "/"))
}

// CandidateAccessors are the getters used when tiebreaking scored
// candidates in the ranking pipeline.
func CandidateAccessors() Accessors[ScoredCandidate] {
	return Accessors[ScoredCandidate]{
		Name:  func(s ScoredCandidate) string { return s.Candidate.Name },
		Index: func(s ScoredCandidate) int { return s.Candidate.Index },
		Path:  func(s ScoredCandidate) string { return s.Candidate.Path },
	}
}
