// Package session holds the in-memory quiz session state machine:
// Active <-> Paused -> Finished. Finished is terminal; retrying means
// constructing a new controller.
package session

import (
	"sync"
	"time"

	"sata-backend/internal/models"
)

// Config fixes the immutable parameters of one session.
type Config struct {
	Flavor          models.Flavor
	Subject         models.Subject
	Difficulty      models.Difficulty
	Mode            models.Mode
	TimePerQuestion int // seconds, timed mode only
}

// Result is handed to the completion callback exactly once.
type Result struct {
	Config    Config
	Score     int
	Total     int
	History   []models.AnswerRecord
	Questions []models.Question
}

// Controller drives one quiz attempt. All methods are safe for concurrent
// use; the countdown tick and HTTP handlers may race, and a tick that fires
// after the session finished is a guaranteed no-op.
type Controller struct {
	mu  sync.Mutex
	cfg Config

	questions []models.Question
	state     models.SessionState
	cursor    int
	history   []models.AnswerRecord
	answered  map[int]int

	timeLeft  int
	totalTime int
	stopTimer chan struct{}

	finishOnce sync.Once
	onFinish   func(Result)
}

// New builds an Active controller over a validated question batch. onFinish
// fires exactly once, on whichever of explicit finish, final answer, or
// timer expiry happens first.
func New(cfg Config, questions []models.Question, onFinish func(Result)) *Controller {
	c := &Controller{
		cfg:       cfg,
		questions: questions,
		state:     models.StateActive,
		answered:  make(map[int]int, len(questions)),
		stopTimer: make(chan struct{}),
		onFinish:  onFinish,
	}
	if cfg.Mode == models.ModeTimed {
		c.totalTime = len(questions) * cfg.TimePerQuestion
		c.timeLeft = c.totalTime
		go c.runTimer()
	}
	return c
}

func (c *Controller) runTimer() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopTimer:
			return
		case <-ticker.C:
			c.tick()
		}
	}
}

// tick decrements the countdown by one second. Paused and finished
// sessions ignore ticks.
func (c *Controller) tick() {
	c.mu.Lock()
	if c.state != models.StateActive {
		c.mu.Unlock()
		return
	}
	c.timeLeft--
	if c.timeLeft > 0 {
		c.mu.Unlock()
		return
	}
	c.timeLeft = 0
	result := c.finishLocked()
	c.mu.Unlock()
	c.emit(result)
}

// Answer records a choice for a question. Answering an already-answered
// index is a no-op: the first submission wins, regardless of the chosen
// option. Answering the last open question finishes the session.
func (c *Controller) Answer(questionIndex, chosenIndex int) error {
	c.mu.Lock()

	if c.state != models.StateActive {
		c.mu.Unlock()
		return ErrNotActive
	}
	if questionIndex < 0 || questionIndex >= len(c.questions) {
		c.mu.Unlock()
		return ErrOutOfRange
	}
	if chosenIndex < 0 || chosenIndex >= models.OptionCount {
		c.mu.Unlock()
		return ErrOutOfRange
	}
	if _, done := c.answered[questionIndex]; done {
		c.mu.Unlock()
		return nil
	}

	c.answered[questionIndex] = chosenIndex
	c.history = append(c.history, models.AnswerRecord{
		QuestionIndex: questionIndex,
		CorrectIndex:  c.questions[questionIndex].CorrectIndex,
		ChosenIndex:   chosenIndex,
	})

	if len(c.history) == len(c.questions) {
		result := c.finishLocked()
		c.mu.Unlock()
		c.emit(result)
		return nil
	}

	if questionIndex < len(c.questions)-1 {
		c.cursor = questionIndex + 1
	}
	c.mu.Unlock()
	return nil
}

// Navigate moves the cursor freely; answered state does not restrict it.
func (c *Controller) Navigate(direction string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != models.StateActive && c.state != models.StatePaused {
		return ErrNotActive
	}
	switch direction {
	case "next":
		if c.cursor < len(c.questions)-1 {
			c.cursor++
		}
	case "previous":
		if c.cursor > 0 {
			c.cursor--
		}
	default:
		return ErrBadDirection
	}
	return nil
}

// Pause freezes the countdown. Only meaningful in timed mode.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != models.StateActive {
		return ErrNotActive
	}
	if c.cfg.Mode != models.ModeTimed {
		return ErrNotTimed
	}
	c.state = models.StatePaused
	return nil
}

func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != models.StatePaused {
		return ErrNotPaused
	}
	c.state = models.StateActive
	return nil
}

// Finish ends the session explicitly. Unanswered questions stay absent
// from the history and score as incorrect.
func (c *Controller) Finish() error {
	c.mu.Lock()
	if c.state == models.StateFinished {
		c.mu.Unlock()
		return ErrFinished
	}
	result := c.finishLocked()
	c.mu.Unlock()
	c.emit(result)
	return nil
}

// Abandon tears the session down without emitting a result. Used when the
// user exits mid-session or starts a new one.
func (c *Controller) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == models.StateFinished {
		return
	}
	c.state = models.StateFinished
	c.stopTimerLocked()
	// Consume the once so a racing tick cannot emit after abandonment.
	c.finishOnce.Do(func() {})
}

// finishLocked transitions to Finished, cancels the timer, and computes
// the score. Caller holds the mutex.
func (c *Controller) finishLocked() Result {
	c.state = models.StateFinished
	c.stopTimerLocked()

	score := 0
	for _, rec := range c.history {
		if rec.ChosenIndex == rec.CorrectIndex {
			score++
		}
	}
	history := make([]models.AnswerRecord, len(c.history))
	copy(history, c.history)

	return Result{
		Config:    c.cfg,
		Score:     score,
		Total:     len(c.questions),
		History:   history,
		Questions: c.questions,
	}
}

func (c *Controller) stopTimerLocked() {
	select {
	case <-c.stopTimer:
	default:
		close(c.stopTimer)
	}
}

func (c *Controller) emit(result Result) {
	c.finishOnce.Do(func() {
		if c.onFinish != nil {
			c.onFinish(result)
		}
	})
}

// View renders the client-facing snapshot, with correct answers withheld.
func (c *Controller) View() models.SessionView {
	c.mu.Lock()
	defer c.mu.Unlock()

	redacted := make([]models.RedactedView, len(c.questions))
	for i, q := range c.questions {
		redacted[i] = models.RedactedView{Text: q.Text, Options: q.Options, Topic: q.Topic}
	}
	answered := make(map[int]int, len(c.answered))
	for k, v := range c.answered {
		answered[k] = v
	}

	return models.SessionView{
		Flavor:        c.cfg.Flavor,
		State:         c.state,
		Subject:       c.cfg.Subject,
		Difficulty:    c.cfg.Difficulty,
		Mode:          c.cfg.Mode,
		QuestionCount: len(c.questions),
		Cursor:        c.cursor,
		TimeLeft:      c.timeLeft,
		TotalTime:     c.totalTime,
		Questions:     redacted,
		Answered:      answered,
	}
}

// State reports the current machine state.
func (c *Controller) State() models.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Questions exposes the owned batch for flashcard review completion.
func (c *Controller) Questions() []models.Question {
	return c.questions
}

// Flavor reports the session's tagged variant.
func (c *Controller) Flavor() models.Flavor {
	return c.cfg.Flavor
}
