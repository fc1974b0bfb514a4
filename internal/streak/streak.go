// Package streak implements the daily-streak calendar rules: gap checks,
// freeze consumption, daily credit, and recovery-mission outcomes. All
// transforms are pure (old data + date -> new data); persistence and
// notifications belong to the caller.
package streak

import (
	"cloud.google.com/go/civil"

	"sata-backend/internal/models"
)

type Outcome string

const (
	OutcomeIntact     Outcome = "intact"
	OutcomeFreezeUsed Outcome = "freeze_used"
	OutcomeLost       Outcome = "lost"
)

// CheckDayBoundary evaluates the gap between today and the last completion.
// A gap of more than one day either consumes a freeze (bridging exactly one
// day) or, with no freezes left, drops the streak and opens the recovery
// offer. Never called with a mutation in flight; evaluated once per process
// start and at each UTC midnight.
func CheckDayBoundary(d models.StreakData, today civil.Date) (models.StreakData, Outcome) {
	last, ok := d.LastCompletion()
	if !ok {
		return d, OutcomeIntact
	}

	diffDays := today.DaysSince(last)
	if diffDays < 0 {
		diffDays = -diffDays
	}
	if diffDays <= 1 {
		return d, OutcomeIntact
	}

	if d.Freezes > 0 {
		d.Freezes--
		d.SetLastCompletion(today.AddDays(-1))
		// Today stays unmarked; the bridged day is recorded at index 1.
		history := d.History
		d.History[0] = false
		d.History[1] = true
		copy(d.History[2:], history[1:models.HistoryDays-1])
		return d, OutcomeFreezeUsed
	}

	// Re-running the check while a recovery is already on offer must not
	// clobber the recorded pre-loss count.
	if !d.RecoveryEligible {
		d.LostCount = d.Count
		d.RecoveryEligible = true
	}
	d.Count = 0
	return d, OutcomeLost
}

type DailyResult struct {
	// AlreadyDone means a qualifying activity was already credited today;
	// the streak counter is untouched.
	AlreadyDone bool
	// Extended means the count went up (consecutive day) rather than
	// restarting at one.
	Extended bool
	// MilestoneFreeze means the 7-day milestone granted a freeze.
	MilestoneFreeze bool
}

// CompleteDaily credits the daily challenge. At most one credit applies per
// UTC calendar day. A day bridged by a freeze counts as consecutive because
// the gap check advanced the completion date to yesterday.
func CompleteDaily(d models.StreakData, today civil.Date) (models.StreakData, DailyResult) {
	if last, ok := d.LastCompletion(); ok && last == today {
		return d, DailyResult{AlreadyDone: true}
	}

	consecutive := false
	if last, ok := d.LastCompletion(); ok && last == today.AddDays(-1) {
		consecutive = true
	}

	res := DailyResult{Extended: consecutive}
	if consecutive {
		d.Count++
	} else {
		d.Count = 1
	}

	if d.Count%7 == 0 && d.Freezes < d.MaxFreezes {
		d.Freezes++
		res.MilestoneFreeze = true
	}

	d.SetLastCompletion(today)
	pushHistory(&d, true)
	d.RecoveryEligible = false
	d.LostCount = 0
	return d, res
}

// ApplyRecovery resolves a finished recovery mission. A perfect score
// restores the pre-loss count; an imperfect one still uses up the day.
func ApplyRecovery(d models.StreakData, today civil.Date, perfect bool) models.StreakData {
	if perfect {
		d.Count = d.LostCount
	} else {
		d.Count = 0
	}
	d.SetLastCompletion(today)
	pushHistory(&d, perfect)
	d.RecoveryEligible = false
	d.LostCount = 0
	return d
}

// AcceptLoss declines the recovery offer: the count stays at zero and the
// completion date is left alone.
func AcceptLoss(d models.StreakData) models.StreakData {
	d.RecoveryEligible = false
	d.LostCount = 0
	return d
}

// GrantFreezes awards level-up freezes. Capacity grows with level, so both
// the freeze count and the cap increase, clamped to the invariant
// freezes <= maxFreezes.
func GrantFreezes(d models.StreakData, n int) models.StreakData {
	if n <= 0 {
		return d
	}
	d.MaxFreezes += n
	d.Freezes += n
	if d.Freezes > d.MaxFreezes {
		d.Freezes = d.MaxFreezes
	}
	return d
}

func pushHistory(d *models.StreakData, completed bool) {
	history := d.History
	d.History[0] = completed
	copy(d.History[1:], history[:models.HistoryDays-1])
}
