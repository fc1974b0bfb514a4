// Package progression holds the pure XP/level math. All functions are
// side-effect free: callers persist the returned aggregates themselves.
package progression

import (
	"math"

	"sata-backend/internal/models"
)

const (
	// RecoveryBonus is the flat XP bonus for a perfect recovery mission.
	RecoveryBonus = 500

	// XPPerFlashcard is awarded per distinct card viewed in a review.
	XPPerFlashcard = 50

	// CreditsPerCorrect feeds the shop economy.
	CreditsPerCorrect = 10

	maxSessionXP = 800
)

// LevelForXP maps cumulative XP to a level: floor(sqrt(xp/100)) + 1.
// Monotonic non-decreasing; xp must be >= 0.
func LevelForXP(xp float64) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(xp/100))) + 1
}

// XPThresholdForLevel is the inverse: the minimum XP at which a level is
// reached. LevelForXP(XPThresholdForLevel(l)) == l for all l >= 1.
func XPThresholdForLevel(level int) float64 {
	if level <= 1 {
		return 0
	}
	return float64(level-1) * float64(level-1) * 100
}

type rankTier struct {
	minLevel int
	title    string
}

// Highest threshold wins; bands are non-overlapping by construction.
var rankTiers = []rankTier{
	{150, "Transcendent"},
	{100, "Immortal"},
	{75, "Grandmaster"},
	{50, "Legend"},
	{25, "Elite"},
	{10, "Scholar"},
	{5, "Apprentice"},
}

func RankForLevel(level int) string {
	for _, tier := range rankTiers {
		if level >= tier.minLevel {
			return tier.title
		}
	}
	return "Novice"
}

// ApplyXP adds a non-negative XP delta to the stats aggregate, recomputing
// the cached level. It reports the number of levels gained and whether the
// rank title changed; the caller must grant one streak freeze per level
// gained. Non-finite or negative deltas are rejected without mutation.
func ApplyXP(stats models.Stats, delta float64) (models.Stats, int, bool) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta < 0 {
		return stats, 0, false
	}
	oldLevel := LevelForXP(stats.TotalXP)
	stats.TotalXP += delta
	newLevel := LevelForXP(stats.TotalXP)
	stats.Level = newLevel

	gained := newLevel - oldLevel
	rankChanged := RankForLevel(newLevel) != RankForLevel(oldLevel)
	return stats, gained, rankChanged
}

// SessionAward is the XP for a completed timed/practice session:
// round((correct/total) * 800), with an empty session worth nothing.
func SessionAward(correct, total int) float64 {
	if total < 1 {
		total = 1
	}
	return math.Round(float64(correct) / float64(total) * maxSessionXP)
}

// FlashcardAward counts distinct card indices so revisiting a card does
// not inflate XP.
func FlashcardAward(viewedIndices []int) float64 {
	seen := make(map[int]struct{}, len(viewedIndices))
	for _, idx := range viewedIndices {
		if idx < 0 {
			continue
		}
		seen[idx] = struct{}{}
	}
	return float64(len(seen) * XPPerFlashcard)
}

// CreditAward is the shop-currency payout for a completed session.
func CreditAward(correct int) int {
	if correct < 0 {
		return 0
	}
	return correct * CreditsPerCorrect
}
