package session

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"sata-backend/internal/models"
)

func testQuestions(n int) []models.Question {
	questions := make([]models.Question, n)
	for i := range questions {
		questions[i] = models.Question{
			Text:         "What is 2 + 2?",
			Options:      []string{"3", "4", "5", "6"},
			CorrectIndex: 1,
			Topic:        "Arithmetic",
		}
	}
	return questions
}

// haltClock stops the real one-second ticker so tests can drive tick()
// deterministically. The session stays active.
func haltClock(c *Controller) {
	c.mu.Lock()
	c.stopTimerLocked()
	c.mu.Unlock()
}

func practiceConfig() Config {
	return Config{
		Flavor:     models.FlavorStandard,
		Subject:    models.SubjectMath,
		Difficulty: models.DifficultyMedium,
		Mode:       models.ModePractice,
	}
}

func TestController_AnswerScoring(t *testing.T) {
	var got *Result
	c := New(practiceConfig(), testQuestions(3), func(r Result) { got = &r })

	if err := c.Answer(0, 1); err != nil {
		t.Fatalf("answer 0: %v", err)
	}
	if err := c.Answer(1, 0); err != nil {
		t.Fatalf("answer 1: %v", err)
	}
	if err := c.Answer(2, 1); err != nil {
		t.Fatalf("answer 2: %v", err)
	}

	if got == nil {
		t.Fatal("answering the last question should finish the session")
	}
	if got.Score != 2 || got.Total != 3 {
		t.Errorf("score = %d/%d, want 2/3", got.Score, got.Total)
	}
	if c.State() != models.StateFinished {
		t.Errorf("state = %q, want finished", c.State())
	}
}

func TestController_FirstAnswerWins(t *testing.T) {
	c := New(practiceConfig(), testQuestions(2), nil)

	if err := c.Answer(0, 3); err != nil {
		t.Fatalf("first answer: %v", err)
	}
	// Re-answering the same question is a silent no-op.
	if err := c.Answer(0, 1); err != nil {
		t.Fatalf("repeat answer: %v", err)
	}

	view := c.View()
	if view.Answered[0] != 3 {
		t.Errorf("answered[0] = %d, want the original choice 3", view.Answered[0])
	}
}

func TestController_AnswerValidation(t *testing.T) {
	c := New(practiceConfig(), testQuestions(2), nil)

	tests := []struct {
		name          string
		questionIndex int
		chosenIndex   int
	}{
		{"question index negative", -1, 0},
		{"question index too large", 2, 0},
		{"option index negative", 0, -1},
		{"option index too large", 0, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := c.Answer(tc.questionIndex, tc.chosenIndex); err != ErrOutOfRange {
				t.Errorf("expected ErrOutOfRange, got %v", err)
			}
		})
	}
}

func TestController_AutoAdvance(t *testing.T) {
	c := New(practiceConfig(), testQuestions(3), nil)

	c.Answer(0, 1)
	if view := c.View(); view.Cursor != 1 {
		t.Errorf("cursor = %d, want 1 after answering question 0", view.Cursor)
	}

	// Answering out of order does not move the cursor past the end.
	c.Navigate("next")
	c.Answer(2, 1)
	if view := c.View(); view.Cursor != 2 {
		t.Errorf("cursor = %d, want 2", view.Cursor)
	}
}

func TestController_Navigate(t *testing.T) {
	c := New(practiceConfig(), testQuestions(3), nil)

	if err := c.Navigate("previous"); err != nil {
		t.Fatalf("navigate previous at start: %v", err)
	}
	if view := c.View(); view.Cursor != 0 {
		t.Errorf("cursor moved below zero: %d", view.Cursor)
	}

	c.Navigate("next")
	c.Navigate("next")
	c.Navigate("next")
	if view := c.View(); view.Cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped at last question)", view.Cursor)
	}

	if err := c.Navigate("sideways"); err != ErrBadDirection {
		t.Errorf("expected ErrBadDirection, got %v", err)
	}
}

func TestController_ExplicitFinishScoresUnansweredAsIncorrect(t *testing.T) {
	var got *Result
	c := New(practiceConfig(), testQuestions(5), func(r Result) { got = &r })

	c.Answer(0, 1)
	c.Answer(1, 1)
	if err := c.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}

	if got == nil {
		t.Fatal("finish should emit a result")
	}
	if got.Score != 2 || got.Total != 5 {
		t.Errorf("score = %d/%d, want 2/5", got.Score, got.Total)
	}
	if len(got.History) != 2 {
		t.Errorf("history length = %d, want 2 (unanswered stay absent)", len(got.History))
	}

	if err := c.Finish(); err != ErrFinished {
		t.Errorf("double finish: expected ErrFinished, got %v", err)
	}
}

func TestController_PauseOnlyInTimedMode(t *testing.T) {
	c := New(practiceConfig(), testQuestions(2), nil)
	if err := c.Pause(); err != ErrNotTimed {
		t.Errorf("expected ErrNotTimed, got %v", err)
	}
}

func TestController_TimedPauseResume(t *testing.T) {
	cfg := practiceConfig()
	cfg.Mode = models.ModeTimed
	cfg.TimePerQuestion = 30
	c := New(cfg, testQuestions(2), nil)
	defer c.Abandon()
	haltClock(c)

	if view := c.View(); view.TotalTime != 60 || view.TimeLeft != 60 {
		t.Fatalf("budget = %d/%d, want 60/60", view.TimeLeft, view.TotalTime)
	}

	if err := c.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if c.State() != models.StatePaused {
		t.Errorf("state = %q, want paused", c.State())
	}

	// A tick while paused must not touch the clock.
	c.tick()
	if view := c.View(); view.TimeLeft != 60 {
		t.Errorf("time left = %d after paused tick, want 60", view.TimeLeft)
	}

	if err := c.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if err := c.Resume(); err != ErrNotPaused {
		t.Errorf("double resume: expected ErrNotPaused, got %v", err)
	}

	c.tick()
	if view := c.View(); view.TimeLeft != 59 {
		t.Errorf("time left = %d after active tick, want 59", view.TimeLeft)
	}
}

func TestController_TimerExpiryForcesFinish(t *testing.T) {
	cfg := practiceConfig()
	cfg.Mode = models.ModeTimed
	cfg.TimePerQuestion = 1
	var got *Result
	c := New(cfg, testQuestions(2), func(r Result) { got = &r })
	haltClock(c)

	c.Answer(0, 1)
	// Drain the clock directly instead of sleeping through it.
	c.tick()
	c.tick()

	if got == nil {
		t.Fatal("expiry should emit a result")
	}
	if got.Score != 1 || got.Total != 2 {
		t.Errorf("score = %d/%d, want 1/2", got.Score, got.Total)
	}

	// Ticks after finish are no-ops, and never emit a second result.
	emitted := *got
	c.tick()
	if got.Score != emitted.Score || c.View().TimeLeft != 0 {
		t.Error("post-finish tick mutated the session")
	}
}

func TestController_AnswerAfterFinishRejected(t *testing.T) {
	c := New(practiceConfig(), testQuestions(2), nil)
	c.Finish()

	if err := c.Answer(0, 1); err != ErrNotActive {
		t.Errorf("expected ErrNotActive, got %v", err)
	}
	if err := c.Navigate("next"); err != ErrNotActive {
		t.Errorf("expected ErrNotActive, got %v", err)
	}
}

func TestController_AbandonSuppressesEmit(t *testing.T) {
	fired := false
	cfg := practiceConfig()
	cfg.Mode = models.ModeTimed
	cfg.TimePerQuestion = 1
	c := New(cfg, testQuestions(1), func(Result) { fired = true })

	c.Abandon()
	c.tick()
	if err := c.Finish(); err != ErrFinished {
		t.Errorf("finish after abandon: expected ErrFinished, got %v", err)
	}
	if fired {
		t.Error("abandoned session must not emit a result")
	}
}

func TestController_ViewRedactsAnswers(t *testing.T) {
	c := New(practiceConfig(), testQuestions(2), nil)
	view := c.View()

	if len(view.Questions) != 2 {
		t.Fatalf("view has %d questions, want 2", len(view.Questions))
	}
	for i, q := range view.Questions {
		if q.Text == "" || len(q.Options) != models.OptionCount {
			t.Errorf("question %d incomplete in view", i)
		}
	}
}

func TestManager_PutAbandonsPrevious(t *testing.T) {
	m := NewManager()
	userID := uuid.New()

	fired := false
	first := New(practiceConfig(), testQuestions(1), func(Result) { fired = true })
	m.Put(userID, first)

	second := New(practiceConfig(), testQuestions(1), nil)
	m.Put(userID, second)

	if first.State() != models.StateFinished {
		t.Error("replaced session should be abandoned")
	}
	if fired {
		t.Error("replaced session must not emit")
	}
	if current, _ := m.Get(userID); current != second {
		t.Error("manager should hold the new session")
	}
}

func TestManager_RemoveIgnoresStaleController(t *testing.T) {
	m := NewManager()
	userID := uuid.New()

	stale := New(practiceConfig(), testQuestions(1), nil)
	current := New(practiceConfig(), testQuestions(1), nil)
	m.Put(userID, current)

	m.Remove(userID, stale)
	if _, ok := m.Get(userID); !ok {
		t.Error("removing a stale controller must not drop the current session")
	}

	m.Remove(userID, current)
	if _, ok := m.Get(userID); ok {
		t.Error("current session should be removed")
	}
}

func TestManager_Abandon(t *testing.T) {
	m := NewManager()
	userID := uuid.New()

	if m.Abandon(userID) {
		t.Error("abandon with no session should report false")
	}

	c := New(practiceConfig(), testQuestions(1), nil)
	m.Put(userID, c)
	if !m.Abandon(userID) {
		t.Error("abandon should report true for a live session")
	}
	if c.State() != models.StateFinished {
		t.Error("session should be torn down")
	}
}

func TestController_TimerGoroutineStops(t *testing.T) {
	cfg := practiceConfig()
	cfg.Mode = models.ModeTimed
	cfg.TimePerQuestion = 30
	c := New(cfg, testQuestions(1), nil)

	c.Abandon()

	// The run loop exits via the closed stop channel; give it a beat and
	// confirm the clock no longer moves.
	time.Sleep(20 * time.Millisecond)
	before := c.View().TimeLeft
	time.Sleep(1100 * time.Millisecond)
	if after := c.View().TimeLeft; after != before {
		t.Errorf("clock moved after abandon: %d -> %d", before, after)
	}
}
