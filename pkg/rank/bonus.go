package rank

import (
	"math"
	"time"
)

// BonusConfig parameterizes the usage and recency decay curves.
type BonusConfig struct {
	// MaxFrequency caps the logarithmic use-count bonus.
	MaxFrequency int
	// MaxRecency is the full bonus for items used within the last day.
	MaxRecency int
	// MaxModified caps the last-modified decay bonus so recency can only
	// combine with match quality, never override it (staged bases are
	// hundreds of points apart).
	MaxModified int
	// HalfLife drives the exponential phase of the modified-time decay.
	HalfLife time.Duration
	// TTL is the age at which every decayed bonus reaches zero.
	TTL time.Duration
}

// DefaultBonusConfig returns the tuning used by the ranking pipeline.
func DefaultBonusConfig() BonusConfig {
	return BonusConfig{
		MaxFrequency: 50,
		MaxRecency:   30,
		MaxModified:  40,
		HalfLife:     6 * time.Hour,
		TTL:          7 * 24 * time.Hour,
	}
}

const (
	recencyFullWindow = 24 * time.Hour

	// Decay proportions at the phase boundaries of LastUsedBonus. The value
	// at one half-life is 1/2 by definition; the 24h anchor continues the
	// curve at a flatter slope through the rest of the week.
	proportionAtHalfLife = 0.5
	proportionAtDay      = 0.25
)

// FrequencyBonus maps a use count to floor(log10(count+1) * max/2), clamped
// to [0, max]. Logarithmic so repeated use has diminishing returns.
func FrequencyBonus(count, max int) int {
	if count <= 0 || max <= 0 {
		return 0
	}
	bonus := int(math.Floor(math.Log10(float64(count)+1) * float64(max) / 2))
	if bonus > max {
		return max
	}
	if bonus < 0 {
		return 0
	}
	return bonus
}

// UsageRecencyBonus returns the full max for ages under 24 hours, zero at or
// past ttl, and a linear interpolation between.
func UsageRecencyBonus(age time.Duration, max int, ttl time.Duration) int {
	if max <= 0 || ttl <= recencyFullWindow {
		return 0
	}
	if age < recencyFullWindow {
		return max
	}
	if age >= ttl {
		return 0
	}
	remaining := float64(ttl-age) / float64(ttl-recencyFullWindow)
	return int(math.Floor(float64(max) * remaining))
}

// LastUsedBonus maps the age of a modified/last-used timestamp to a bonus
// through a three-phase hybrid decay: exponential with the configured half
// life inside the first half-life window, then linear down to a quarter of
// max at 24 hours, then linear down to zero at ttl. Future timestamps
// (negative age, e.g. clock skew) return the full max. Results are floored
// to integers.
func LastUsedBonus(age time.Duration, max int, halfLife, ttl time.Duration) int {
	if max <= 0 {
		return 0
	}
	if age <= 0 {
		return max
	}
	if age >= ttl {
		return 0
	}

	day := 24 * time.Hour
	fmax := float64(max)

	switch {
	case age < halfLife:
		return int(math.Floor(fmax * math.Exp2(-float64(age)/float64(halfLife))))
	case age < day:
		atHalfLife := fmax * proportionAtHalfLife
		atDay := fmax * proportionAtDay
		progress := float64(age-halfLife) / float64(day-halfLife)
		return int(math.Floor(atHalfLife - (atHalfLife-atDay)*progress))
	default:
		atDay := fmax * proportionAtDay
		remaining := float64(ttl-age) / float64(ttl-day)
		return int(math.Floor(atDay * remaining))
	}
}
