package rank

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Per-position scoring weights for the subsequence matcher.
const (
	charMatchScore   = 16
	consecutiveBonus = 4
	gapStartPenalty  = 3
	gapExtendPenalty = 1

	whitespaceBoundaryBonus = 10
	delimiterBoundaryBonus  = 9
	camelBoundaryBonus      = 7
	classBoundaryBonus      = 8

	// Applied to the positional bonus of the first matched pattern rune.
	firstMatchBonusFactor = 2
)

// MatchResult is the outcome of matching a pattern against a text.
type MatchResult struct {
	Matched bool
	Score   int
	// Positions holds the ordered rune indices of matched text characters,
	// for highlight rendering by the consumer. Not used internally.
	Positions []int
	// Consecutive counts adjacent-match transitions, useful as a secondary
	// ranking signal.
	Consecutive int
}

// Matcher is a greedy forward character-subsequence matcher. It walks the
// text once and consumes the next pattern rune at the first text rune that
// equals it, so it always finds a subsequence in O(len(text)) but not
// necessarily the best-scoring one. That tradeoff is deliberate: per
// keystroke the matcher runs over thousands of candidates.
type Matcher struct {
	// CaseSensitive disables case folding during rune comparison.
	CaseSensitive bool
	// DetectBoundaries enables positional bonuses for matches that start a
	// word, a camelCase hump or a number run.
	DetectBoundaries bool
}

// NewMatcher returns a case-insensitive matcher with boundary detection on,
// the configuration used by the candidate scorer.
func NewMatcher() *Matcher {
	return &Matcher{DetectBoundaries: true}
}

// Match matches pattern against text as a forward subsequence.
// An empty pattern always matches with score 0 and no positions; an empty
// text never matches a non-empty pattern.
func (m *Matcher) Match(text, pattern string) MatchResult {
	if pattern == "" {
		return MatchResult{Matched: true}
	}
	if text == "" {
		return MatchResult{}
	}

	patternRunes := []rune(pattern)
	positions := make([]int, 0, len(patternRunes))

	score := 0
	consecutive := 0
	patternIdx := 0
	prevMatch := -1
	idx := 0
	var prev rune

	for _, curr := range text {
		if patternIdx < len(patternRunes) && m.runesEqual(curr, patternRunes[patternIdx]) {
			score += charMatchScore

			if prevMatch >= 0 {
				gap := idx - prevMatch - 1
				if gap == 0 {
					score += consecutiveBonus
					consecutive++
				} else {
					score -= gapStartPenalty + (gap-1)*gapExtendPenalty
				}
			}

			if m.DetectBoundaries {
				bonus := boundaryBonus(prev, curr, idx == 0)
				if bonus > 0 && patternIdx == 0 {
					bonus *= firstMatchBonusFactor
				}
				score += bonus
			}

			positions = append(positions, idx)
			prevMatch = idx
			patternIdx++
		}
		prev = curr
		idx++
	}

	if patternIdx < len(patternRunes) {
		return MatchResult{}
	}
	return MatchResult{
		Matched:     true,
		Score:       score,
		Positions:   positions,
		Consecutive: consecutive,
	}
}

func (m *Matcher) runesEqual(a, b rune) bool {
	if a == b {
		return true
	}
	if m.CaseSensitive {
		return false
	}
	// ASCII fast path before full Unicode folding.
	if a < utf8.RuneSelf && b < utf8.RuneSelf {
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		return a == b
	}
	return strings.EqualFold(string(a), string(b))
}

type charClass int

const (
	classOther charClass = iota
	classWhitespace
	classDelimiter
	classLower
	classUpper
	classDigit
)

func classify(r rune) charClass {
	switch {
	case unicode.IsSpace(r):
		return classWhitespace
	case isDelimiter(r):
		return classDelimiter
	case unicode.IsLower(r):
		return classLower
	case unicode.IsUpper(r):
		return classUpper
	case unicode.IsDigit(r):
		return classDigit
	}
	return classOther
}

func isDelimiter(r rune) bool {
	switch r {
	case '/', ':', ',', ';', '|', '_', '-':
		return true
	}
	return false
}

// boundaryBonus scores the transition into the matched rune. Whitespace and
// delimiter predecessors win over the generic class-transition bonus;
// camelCase and number boundaries are carved out at a slightly lower weight.
// Start of text counts as a whitespace boundary.
func boundaryBonus(prev, curr rune, atStart bool) int {
	prevClass := classWhitespace
	if !atStart {
		prevClass = classify(prev)
	}
	switch prevClass {
	case classWhitespace:
		return whitespaceBoundaryBonus
	case classDelimiter:
		return delimiterBoundaryBonus
	}

	currClass := classify(curr)
	if prevClass == classLower && currClass == classUpper {
		return camelBoundaryBonus
	}
	if prevClass == classOther && currClass == classDigit {
		return camelBoundaryBonus
	}
	if prevClass != currClass && currClass != classOther {
		return classBoundaryBonus
	}
	return 0
}
