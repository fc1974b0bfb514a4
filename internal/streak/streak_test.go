package streak

import (
	"testing"

	"cloud.google.com/go/civil"

	"sata-backend/internal/models"
)

func date(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCheckDayBoundary_NoHistory(t *testing.T) {
	d := models.DefaultStreak()

	after, outcome := CheckDayBoundary(d, date("2026-03-10"))
	if outcome != OutcomeIntact {
		t.Errorf("expected intact for fresh data, got %q", outcome)
	}
	if after != d {
		t.Error("fresh data should pass through unchanged")
	}
}

func TestCheckDayBoundary_SameDayAndYesterday(t *testing.T) {
	tests := []struct {
		name     string
		lastDate string
		today    string
	}{
		{"completed today", "2026-03-10", "2026-03-10"},
		{"completed yesterday", "2026-03-09", "2026-03-10"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := models.DefaultStreak()
			d.Count = 5
			d.LastDate = tc.lastDate

			after, outcome := CheckDayBoundary(d, date(tc.today))
			if outcome != OutcomeIntact {
				t.Errorf("expected intact, got %q", outcome)
			}
			if after.Count != 5 || after.Freezes != models.DefaultFreezes {
				t.Errorf("intact check mutated data: %+v", after)
			}
		})
	}
}

func TestCheckDayBoundary_FreezeBridgesGap(t *testing.T) {
	d := models.DefaultStreak()
	d.Count = 12
	d.Freezes = 2
	d.LastDate = "2026-03-08"
	d.History = [models.HistoryDays]bool{true, true, true, false, false, false, false}

	after, outcome := CheckDayBoundary(d, date("2026-03-10"))
	if outcome != OutcomeFreezeUsed {
		t.Fatalf("expected freeze_used, got %q", outcome)
	}
	if after.Freezes != 1 {
		t.Errorf("freezes = %d, want 1", after.Freezes)
	}
	if after.Count != 12 {
		t.Errorf("count = %d, want 12 (freeze preserves the streak)", after.Count)
	}
	// The bridge advances the completion date to yesterday, so completing
	// today's challenge reads as consecutive.
	if after.LastDate != "2026-03-09" {
		t.Errorf("last date = %q, want 2026-03-09", after.LastDate)
	}
	// Today unmarked, bridged day marked, old entries shifted.
	want := [models.HistoryDays]bool{false, true, true, true, false, false, false}
	if after.History != want {
		t.Errorf("history = %v, want %v", after.History, want)
	}
}

func TestCheckDayBoundary_LossOpensRecovery(t *testing.T) {
	d := models.DefaultStreak()
	d.Count = 9
	d.Freezes = 0
	d.LastDate = "2026-03-01"

	after, outcome := CheckDayBoundary(d, date("2026-03-10"))
	if outcome != OutcomeLost {
		t.Fatalf("expected lost, got %q", outcome)
	}
	if after.Count != 0 {
		t.Errorf("count = %d, want 0", after.Count)
	}
	if !after.RecoveryEligible {
		t.Error("expected recovery to be offered")
	}
	if after.LostCount != 9 {
		t.Errorf("lost count = %d, want 9", after.LostCount)
	}
}

func TestCheckDayBoundary_RerunKeepsLostCount(t *testing.T) {
	d := models.DefaultStreak()
	d.Count = 9
	d.Freezes = 0
	d.LastDate = "2026-03-01"

	after, _ := CheckDayBoundary(d, date("2026-03-10"))
	// A second evaluation (say, the midnight sweep plus an app-load check)
	// must not overwrite the recorded pre-loss count with zero.
	again, outcome := CheckDayBoundary(after, date("2026-03-11"))
	if outcome != OutcomeLost {
		t.Fatalf("expected lost, got %q", outcome)
	}
	if again.LostCount != 9 {
		t.Errorf("lost count after rerun = %d, want 9", again.LostCount)
	}
}

func TestCompleteDaily_FirstEver(t *testing.T) {
	d := models.DefaultStreak()

	after, res := CompleteDaily(d, date("2026-03-10"))
	if res.AlreadyDone || res.Extended {
		t.Errorf("unexpected result flags: %+v", res)
	}
	if after.Count != 1 {
		t.Errorf("count = %d, want 1", after.Count)
	}
	if after.LastDate != "2026-03-10" {
		t.Errorf("last date = %q", after.LastDate)
	}
	if !after.History[0] {
		t.Error("today should be marked complete")
	}
}

func TestCompleteDaily_SameDayIdempotent(t *testing.T) {
	d := models.DefaultStreak()
	d.Count = 3
	d.LastDate = "2026-03-10"

	after, res := CompleteDaily(d, date("2026-03-10"))
	if !res.AlreadyDone {
		t.Fatal("expected AlreadyDone")
	}
	if after.Count != 3 {
		t.Errorf("count = %d, want 3 (no double credit)", after.Count)
	}
}

func TestCompleteDaily_Consecutive(t *testing.T) {
	d := models.DefaultStreak()
	d.Count = 3
	d.LastDate = "2026-03-09"

	after, res := CompleteDaily(d, date("2026-03-10"))
	if !res.Extended {
		t.Fatal("expected Extended")
	}
	if after.Count != 4 {
		t.Errorf("count = %d, want 4", after.Count)
	}
}

func TestCompleteDaily_GapRestartsAtOne(t *testing.T) {
	d := models.DefaultStreak()
	d.Count = 30
	d.LastDate = "2026-03-01"

	after, res := CompleteDaily(d, date("2026-03-10"))
	if res.Extended {
		t.Fatal("gap should not extend")
	}
	if after.Count != 1 {
		t.Errorf("count = %d, want 1", after.Count)
	}
}

func TestCompleteDaily_MilestoneFreeze(t *testing.T) {
	d := models.DefaultStreak()
	d.Count = 6
	d.Freezes = 1
	d.LastDate = "2026-03-09"

	after, res := CompleteDaily(d, date("2026-03-10"))
	if after.Count != 7 {
		t.Fatalf("count = %d, want 7", after.Count)
	}
	if !res.MilestoneFreeze {
		t.Error("expected milestone freeze at 7 days")
	}
	if after.Freezes != 2 {
		t.Errorf("freezes = %d, want 2", after.Freezes)
	}
}

func TestCompleteDaily_MilestoneRespectsCap(t *testing.T) {
	d := models.DefaultStreak()
	d.Count = 13
	d.Freezes = d.MaxFreezes
	d.LastDate = "2026-03-09"

	after, res := CompleteDaily(d, date("2026-03-10"))
	if res.MilestoneFreeze {
		t.Error("milestone freeze should not exceed the cap")
	}
	if after.Freezes != after.MaxFreezes {
		t.Errorf("freezes = %d, want %d", after.Freezes, after.MaxFreezes)
	}
}

func TestCompleteDaily_AfterFreezeBridgeIsConsecutive(t *testing.T) {
	d := models.DefaultStreak()
	d.Count = 12
	d.Freezes = 1
	d.LastDate = "2026-03-08"

	bridged, outcome := CheckDayBoundary(d, date("2026-03-10"))
	if outcome != OutcomeFreezeUsed {
		t.Fatalf("expected freeze_used, got %q", outcome)
	}

	after, res := CompleteDaily(bridged, date("2026-03-10"))
	if !res.Extended {
		t.Fatal("day after a freeze bridge should count as consecutive")
	}
	if after.Count != 13 {
		t.Errorf("count = %d, want 13", after.Count)
	}
}

func TestApplyRecovery_PerfectRestoresCount(t *testing.T) {
	d := models.DefaultStreak()
	d.Count = 0
	d.LostCount = 15
	d.RecoveryEligible = true

	after := ApplyRecovery(d, date("2026-03-10"), true)
	if after.Count != 15 {
		t.Errorf("count = %d, want 15", after.Count)
	}
	if after.RecoveryEligible || after.LostCount != 0 {
		t.Errorf("recovery fields not cleared: %+v", after)
	}
	if after.LastDate != "2026-03-10" {
		t.Errorf("last date = %q", after.LastDate)
	}
	if !after.History[0] {
		t.Error("recovered day should be marked complete")
	}
}

func TestApplyRecovery_ImperfectStaysAtZero(t *testing.T) {
	d := models.DefaultStreak()
	d.LostCount = 15
	d.RecoveryEligible = true

	after := ApplyRecovery(d, date("2026-03-10"), false)
	if after.Count != 0 {
		t.Errorf("count = %d, want 0", after.Count)
	}
	if after.RecoveryEligible || after.LostCount != 0 {
		t.Errorf("recovery fields not cleared: %+v", after)
	}
	if after.History[0] {
		t.Error("failed recovery should not mark the day complete")
	}
}

func TestAcceptLoss(t *testing.T) {
	d := models.DefaultStreak()
	d.LostCount = 8
	d.RecoveryEligible = true
	d.LastDate = "2026-03-01"

	after := AcceptLoss(d)
	if after.RecoveryEligible || after.LostCount != 0 {
		t.Errorf("recovery fields not cleared: %+v", after)
	}
	if after.LastDate != "2026-03-01" {
		t.Error("accepting a loss should not touch the completion date")
	}
}

func TestGrantFreezes(t *testing.T) {
	tests := []struct {
		name        string
		freezes     int
		maxFreezes  int
		grant       int
		wantFreezes int
		wantMax     int
	}{
		{"single level", 2, 5, 1, 3, 6},
		{"multi level", 2, 5, 3, 5, 8},
		{"zero grant is noop", 2, 5, 0, 2, 5},
		{"negative grant is noop", 2, 5, -2, 2, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := models.DefaultStreak()
			d.Freezes = tc.freezes
			d.MaxFreezes = tc.maxFreezes

			after := GrantFreezes(d, tc.grant)
			if after.Freezes != tc.wantFreezes || after.MaxFreezes != tc.wantMax {
				t.Errorf("freezes=%d max=%d, want %d and %d", after.Freezes, after.MaxFreezes, tc.wantFreezes, tc.wantMax)
			}
			if after.Freezes > after.MaxFreezes {
				t.Error("freezes exceeded cap")
			}
		})
	}
}
