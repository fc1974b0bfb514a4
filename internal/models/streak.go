package models

import (
	"encoding/json"
	"time"

	"cloud.google.com/go/civil"
)

const (
	DefaultFreezes    = 2
	DefaultMaxFreezes = 5
	HistoryDays       = 7
)

// StreakData is the persisted daily-streak aggregate, stored as the
// "dailyStreak" record. LastDate is a UTC calendar date string
// (YYYY-MM-DD), never a full timestamp, so day-difference arithmetic is
// exact. History[i] is true iff a qualifying activity covered today-i days;
// index 0 is today.
type StreakData struct {
	LastDate   string            `json:"last_date"`
	Count      int               `json:"count"`
	Freezes    int               `json:"freezes"`
	MaxFreezes int               `json:"max_freezes"`
	History    [HistoryDays]bool `json:"history"`

	// LostCount holds the pre-loss streak length while a recovery mission
	// is on offer; zero otherwise.
	LostCount        int  `json:"lost_count"`
	RecoveryEligible bool `json:"recovery_eligible"`
}

func DefaultStreak() StreakData {
	return StreakData{
		Freezes:    DefaultFreezes,
		MaxFreezes: DefaultMaxFreezes,
	}
}

// legacy pre-ISO format written by early versions ("Mon Jan 02 2006").
const legacyDateLayout = "Mon Jan 02 2006"

// MergeStreak decodes raw JSON over the defaults and normalizes the result:
// the date field is migrated to canonical ISO form (legacy localized strings
// are accepted, anything unparseable becomes null) and the freeze counters
// are clamped to their invariants.
func MergeStreak(raw []byte) StreakData {
	d := DefaultStreak()
	if len(raw) == 0 {
		return d
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return DefaultStreak()
	}
	d.Normalize()
	return d
}

// Normalize enforces the StreakData invariants in place.
func (d *StreakData) Normalize() {
	d.LastDate = canonicalDate(d.LastDate)
	if d.MaxFreezes <= 0 {
		d.MaxFreezes = DefaultMaxFreezes
	}
	if d.Freezes < 0 {
		d.Freezes = 0
	}
	if d.Freezes > d.MaxFreezes {
		d.Freezes = d.MaxFreezes
	}
	if d.Count < 0 {
		d.Count = 0
	}
	if d.LostCount < 0 {
		d.LostCount = 0
	}
}

// LastCompletion reports the last completion date, if any.
func (d *StreakData) LastCompletion() (civil.Date, bool) {
	if d.LastDate == "" {
		return civil.Date{}, false
	}
	date, err := civil.ParseDate(d.LastDate)
	if err != nil {
		return civil.Date{}, false
	}
	return date, true
}

func (d *StreakData) SetLastCompletion(date civil.Date) {
	d.LastDate = date.String()
}

func canonicalDate(s string) string {
	if s == "" {
		return ""
	}
	if date, err := civil.ParseDate(s); err == nil {
		return date.String()
	}
	if t, err := time.Parse(legacyDateLayout, s); err == nil {
		return civil.DateOf(t.UTC()).String()
	}
	return ""
}

// TodayUTC is the calendar date the streak rules operate on.
func TodayUTC() civil.Date {
	return civil.DateOf(time.Now().UTC())
}
