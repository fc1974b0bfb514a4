package models

import "testing"

func TestMergeStreak_EmptyYieldsDefaults(t *testing.T) {
	d := MergeStreak(nil)

	if d.Count != 0 || d.Freezes != DefaultFreezes || d.MaxFreezes != DefaultMaxFreezes {
		t.Errorf("defaults wrong: %+v", d)
	}
	if d.LastDate != "" {
		t.Errorf("last date = %q, want empty", d.LastDate)
	}
	for i, done := range d.History {
		if done {
			t.Errorf("history[%d] = true in defaults", i)
		}
	}
}

func TestMergeStreak_CorruptYieldsDefaults(t *testing.T) {
	d := MergeStreak([]byte("{oops"))
	if d.Freezes != DefaultFreezes || d.Count != 0 {
		t.Errorf("corrupt input did not yield defaults: %+v", d)
	}
}

func TestMergeStreak_LegacyDateMigrated(t *testing.T) {
	d := MergeStreak([]byte(`{"last_date": "Tue Mar 10 2026", "count": 5}`))

	if d.LastDate != "2026-03-10" {
		t.Errorf("legacy date = %q, want 2026-03-10", d.LastDate)
	}
	if d.Count != 5 {
		t.Errorf("count = %d, want 5", d.Count)
	}
}

func TestMergeStreak_UnparseableDateCleared(t *testing.T) {
	d := MergeStreak([]byte(`{"last_date": "soonish", "count": 5}`))
	if d.LastDate != "" {
		t.Errorf("last date = %q, want empty for garbage input", d.LastDate)
	}
	if _, ok := d.LastCompletion(); ok {
		t.Error("cleared date should report no completion")
	}
}

func TestMergeStreak_ClampsCounters(t *testing.T) {
	d := MergeStreak([]byte(`{"freezes": 99, "max_freezes": 5, "count": -3, "lost_count": -1}`))

	if d.Freezes != 5 {
		t.Errorf("freezes = %d, want clamped to 5", d.Freezes)
	}
	if d.Count != 0 || d.LostCount != 0 {
		t.Errorf("negative counters not repaired: count=%d lost=%d", d.Count, d.LostCount)
	}
}

func TestMergeStreak_ShortHistoryPadded(t *testing.T) {
	// Older records wrote fewer than seven entries; the tail stays false.
	d := MergeStreak([]byte(`{"history": [true, true]}`))

	if !d.History[0] || !d.History[1] {
		t.Error("leading entries lost")
	}
	for i := 2; i < HistoryDays; i++ {
		if d.History[i] {
			t.Errorf("history[%d] = true, want padded false", i)
		}
	}
}

func TestLastCompletionRoundTrip(t *testing.T) {
	d := DefaultStreak()
	today := TodayUTC()
	d.SetLastCompletion(today)

	got, ok := d.LastCompletion()
	if !ok || got != today {
		t.Errorf("round trip = %v (%v), want %v", got, ok, today)
	}
}
