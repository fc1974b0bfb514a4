package progression

import (
	"math"
	"testing"

	"sata-backend/internal/models"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		name     string
		xp       float64
		expected int
	}{
		{"zero xp", 0, 1},
		{"negative xp clamps", -50, 1},
		{"just below level 2", 99, 1},
		{"exactly level 2", 100, 2},
		{"level 3 threshold", 400, 3},
		{"just below level 3", 399, 2},
		{"level 5 threshold", 1600, 5},
		{"large xp", 1000000, 101},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := LevelForXP(tc.xp); got != tc.expected {
				t.Errorf("LevelForXP(%v) = %d, want %d", tc.xp, got, tc.expected)
			}
		})
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 0.0; xp <= 50000; xp += 37 {
		level := LevelForXP(xp)
		if level < prev {
			t.Fatalf("level decreased from %d to %d at xp=%v", prev, level, xp)
		}
		prev = level
	}
}

func TestXPThresholdForLevel_RoundTrips(t *testing.T) {
	for level := 1; level <= 200; level++ {
		threshold := XPThresholdForLevel(level)
		if got := LevelForXP(threshold); got != level {
			t.Errorf("LevelForXP(XPThresholdForLevel(%d)) = %d", level, got)
		}
		// One XP below the threshold is still the previous level.
		if level > 1 {
			if got := LevelForXP(threshold - 1); got != level-1 {
				t.Errorf("LevelForXP(%v) = %d, want %d", threshold-1, got, level-1)
			}
		}
	}
}

func TestRankForLevel(t *testing.T) {
	tests := []struct {
		level    int
		expected string
	}{
		{1, "Novice"},
		{4, "Novice"},
		{5, "Apprentice"},
		{9, "Apprentice"},
		{10, "Scholar"},
		{24, "Scholar"},
		{25, "Elite"},
		{49, "Elite"},
		{50, "Legend"},
		{74, "Legend"},
		{75, "Grandmaster"},
		{99, "Grandmaster"},
		{100, "Immortal"},
		{149, "Immortal"},
		{150, "Transcendent"},
		{500, "Transcendent"},
	}

	for _, tc := range tests {
		if got := RankForLevel(tc.level); got != tc.expected {
			t.Errorf("RankForLevel(%d) = %q, want %q", tc.level, got, tc.expected)
		}
	}
}

func TestApplyXP(t *testing.T) {
	stats := models.DefaultStats()

	stats, gained, rankChanged := ApplyXP(stats, 50)
	if stats.TotalXP != 50 || stats.Level != 1 || gained != 0 || rankChanged {
		t.Errorf("ApplyXP(50): xp=%v level=%d gained=%d rankChanged=%v", stats.TotalXP, stats.Level, gained, rankChanged)
	}

	stats, gained, _ = ApplyXP(stats, 60)
	if stats.Level != 2 || gained != 1 {
		t.Errorf("crossing 100 XP: level=%d gained=%d, want 2 and 1", stats.Level, gained)
	}
}

func TestApplyXP_MultiLevelJump(t *testing.T) {
	stats := models.DefaultStats()

	// 0 -> 1600 XP is level 1 -> 5: four levels in one award.
	stats, gained, rankChanged := ApplyXP(stats, 1600)
	if stats.Level != 5 || gained != 4 {
		t.Errorf("level=%d gained=%d, want 5 and 4", stats.Level, gained)
	}
	if !rankChanged {
		t.Error("expected rank change crossing Novice -> Apprentice")
	}
}

func TestApplyXP_SequenceNeverDecreases(t *testing.T) {
	stats := models.DefaultStats()
	deltas := []float64{0, 50, 800, 0, 120, 600, 33, 1500}

	prevXP, prevLevel := stats.TotalXP, stats.Level
	for _, delta := range deltas {
		stats, _, _ = ApplyXP(stats, delta)
		if stats.TotalXP < prevXP {
			t.Fatalf("xp decreased: %v -> %v", prevXP, stats.TotalXP)
		}
		if stats.Level < prevLevel {
			t.Fatalf("level decreased: %d -> %d", prevLevel, stats.Level)
		}
		prevXP, prevLevel = stats.TotalXP, stats.Level
	}
}

func TestApplyXP_FourToSixGrantsTwoLevels(t *testing.T) {
	stats := models.DefaultStats()
	stats.TotalXP = XPThresholdForLevel(4)
	stats.Level = 4

	// Jump past the level 6 threshold in one award.
	stats, gained, _ := ApplyXP(stats, XPThresholdForLevel(6)-XPThresholdForLevel(4))
	if stats.Level != 6 || gained != 2 {
		t.Errorf("level=%d gained=%d, want 6 and 2", stats.Level, gained)
	}
}

func TestRecoveryMissionTotalAward(t *testing.T) {
	// A perfect one-question recovery pays the full session award plus the
	// flat recovery bonus.
	total := SessionAward(1, 1) + RecoveryBonus
	if total != 1300 {
		t.Errorf("perfect recovery total = %v, want 1300", total)
	}
}

func TestApplyXP_RejectsBadDeltas(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
	}{
		{"negative", -100},
		{"NaN", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stats := models.DefaultStats()
			stats.TotalXP = 500
			stats.Level = LevelForXP(500)

			after, gained, rankChanged := ApplyXP(stats, tc.delta)
			if after.TotalXP != 500 || gained != 0 || rankChanged {
				t.Errorf("bad delta mutated stats: xp=%v gained=%d rankChanged=%v", after.TotalXP, gained, rankChanged)
			}
		})
	}
}

func TestSessionAward(t *testing.T) {
	tests := []struct {
		name     string
		correct  int
		total    int
		expected float64
	}{
		{"perfect score", 20, 20, 800},
		{"zero correct", 0, 20, 0},
		{"half", 10, 20, 400},
		{"fifteen of twenty", 15, 20, 600},
		{"rounding up", 13, 20, 520},
		{"single question daily", 1, 1, 800},
		{"empty session", 0, 0, 0},
		{"one of three", 1, 3, 267},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SessionAward(tc.correct, tc.total); got != tc.expected {
				t.Errorf("SessionAward(%d, %d) = %v, want %v", tc.correct, tc.total, got, tc.expected)
			}
		})
	}
}

func TestFlashcardAward(t *testing.T) {
	tests := []struct {
		name     string
		indices  []int
		expected float64
	}{
		{"empty", nil, 0},
		{"three distinct", []int{0, 1, 2}, 150},
		{"duplicates collapse", []int{0, 0, 1, 1, 1}, 100},
		{"negative indices ignored", []int{-1, 0, 2}, 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FlashcardAward(tc.indices); got != tc.expected {
				t.Errorf("FlashcardAward(%v) = %v, want %v", tc.indices, got, tc.expected)
			}
		})
	}
}

func TestCreditAward(t *testing.T) {
	if got := CreditAward(7); got != 70 {
		t.Errorf("CreditAward(7) = %d, want 70", got)
	}
	if got := CreditAward(-3); got != 0 {
		t.Errorf("CreditAward(-3) = %d, want 0", got)
	}
}
