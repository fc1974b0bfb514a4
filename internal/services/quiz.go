package services

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"sata-backend/internal/models"
	"sata-backend/internal/progression"
	"sata-backend/internal/repository"
	"sata-backend/internal/session"
	"sata-backend/internal/streak"
)

const (
	dailyQuestionCount = 1
	dailyTimePerQ      = 60 // seconds

	recoveryQuestionCount = 1
	recoveryTimePerQ      = 90

	flashcardCount = 10
)

// QuestionSource produces a validated question batch. GeminiService is the
// production implementation; tests substitute a stub.
type QuestionSource interface {
	Fetch(ctx context.Context, subject models.Subject, difficulty models.Difficulty, count int) ([]models.Question, error)
}

// QuizService owns the per-user session lifecycle and applies every
// post-completion effect: stats, XP/levels, credits, and streak updates.
type QuizService struct {
	source   QuestionSource
	sessions *session.Manager
	state    StateStore
	bank     *repository.BankRepo
	notifier *Notifier
	locks    *UserLocks

	// now is injectable so calendar-boundary behavior is testable.
	now func() civil.Date

	mu      sync.Mutex
	results map[uuid.UUID]*models.SessionResult
}

func NewQuizService(source QuestionSource, sessions *session.Manager, state StateStore, bank *repository.BankRepo, notifier *Notifier, locks *UserLocks) *QuizService {
	return &QuizService{
		source:   source,
		sessions: sessions,
		state:    state,
		bank:     bank,
		notifier: notifier,
		locks:    locks,
		now:      models.TodayUTC,
		results:  make(map[uuid.UUID]*models.SessionResult),
	}
}

// fetchBatch asks the source for questions, retrying exactly once before
// giving up. A successful batch is archived to the question bank.
func (s *QuizService) fetchBatch(ctx context.Context, userID uuid.UUID, subject models.Subject, difficulty models.Difficulty, count int) ([]models.Question, error) {
	questions, err := s.source.Fetch(ctx, subject, difficulty, count)
	if err != nil {
		log.Printf("Question fetch failed for user %s, retrying: %v", userID, err)
		questions, err = s.source.Fetch(ctx, subject, difficulty, count)
	}
	if err != nil {
		return nil, &GenerationError{Message: "Failed to generate questions"}
	}

	if s.bank != nil {
		if archiveErr := s.bank.ArchiveBatch(ctx, userID, subject, difficulty, questions); archiveErr != nil {
			log.Printf("Failed to archive question batch for user %s: %v", userID, archiveErr)
		}
	}
	return questions, nil
}

func (s *QuizService) start(ctx context.Context, userID uuid.UUID, cfg session.Config, count int) (models.SessionView, error) {
	questions, err := s.fetchBatch(ctx, userID, cfg.Subject, cfg.Difficulty, count)
	if err != nil {
		return models.SessionView{}, err
	}

	var c *session.Controller
	c = session.New(cfg, questions, func(res session.Result) {
		s.complete(userID, c, res)
	})
	s.sessions.Put(userID, c)
	return c.View(), nil
}

// StartStandard launches a full session at the requested subject, difficulty
// and mode. Question count and per-question time come from the difficulty
// tier.
func (s *QuizService) StartStandard(ctx context.Context, userID uuid.UUID, req models.StartSessionRequest) (models.SessionView, error) {
	fields := make(map[string]string)
	subject, err := models.ParseSubject(req.Subject)
	if err != nil {
		fields["subject"] = "Subject must be math or english"
	}
	difficulty, err := models.ParseDifficulty(req.Difficulty)
	if err != nil {
		fields["difficulty"] = "Difficulty must be easy, medium, or hard"
	}
	mode, err := models.ParseMode(req.Mode)
	if err != nil {
		fields["mode"] = "Mode must be timed or practice"
	}
	if len(fields) > 0 {
		return models.SessionView{}, &ValidationError{Fields: fields}
	}

	setting := models.DifficultySettings[difficulty]
	cfg := session.Config{
		Flavor:          models.FlavorStandard,
		Subject:         subject,
		Difficulty:      difficulty,
		Mode:            mode,
		TimePerQuestion: setting.TimePerQ,
	}
	return s.start(ctx, userID, cfg, setting.NumQuestions)
}

// StartDaily launches the daily challenge: one medium question on a randomly
// chosen subject, 60 seconds on the clock.
func (s *QuizService) StartDaily(ctx context.Context, userID uuid.UUID) (models.SessionView, error) {
	subject := models.SubjectMath
	if rand.Intn(2) == 1 {
		subject = models.SubjectEnglish
	}
	cfg := session.Config{
		Flavor:          models.FlavorDaily,
		Subject:         subject,
		Difficulty:      models.DifficultyMedium,
		Mode:            models.ModeTimed,
		TimePerQuestion: dailyTimePerQ,
	}
	return s.start(ctx, userID, cfg, dailyQuestionCount)
}

// StartRecovery launches the recovery mission: one hard math question with
// 90 seconds. Only available while a lost streak is recoverable.
func (s *QuizService) StartRecovery(ctx context.Context, userID uuid.UUID) (models.SessionView, error) {
	d, err := s.state.LoadStreak(ctx, userID)
	if err != nil {
		return models.SessionView{}, err
	}
	if !d.RecoveryEligible {
		return models.SessionView{}, &ConflictError{Message: "No streak recovery is available"}
	}

	cfg := session.Config{
		Flavor:          models.FlavorRecovery,
		Subject:         models.SubjectMath,
		Difficulty:      models.DifficultyHard,
		Mode:            models.ModeTimed,
		TimePerQuestion: recoveryTimePerQ,
	}
	return s.start(ctx, userID, cfg, recoveryQuestionCount)
}

// StartFlashcards launches an untimed review deck. XP is granted on explicit
// completion based on distinct cards viewed, not on answers.
func (s *QuizService) StartFlashcards(ctx context.Context, userID uuid.UUID, req models.StartSessionRequest) (models.SessionView, error) {
	fields := make(map[string]string)
	subject, err := models.ParseSubject(req.Subject)
	if err != nil {
		fields["subject"] = "Subject must be math or english"
	}
	difficulty, err := models.ParseDifficulty(req.Difficulty)
	if err != nil {
		fields["difficulty"] = "Difficulty must be easy, medium, or hard"
	}
	if len(fields) > 0 {
		return models.SessionView{}, &ValidationError{Fields: fields}
	}

	cfg := session.Config{
		Flavor:     models.FlavorFlashcards,
		Subject:    subject,
		Difficulty: difficulty,
		Mode:       models.ModePractice,
	}
	return s.start(ctx, userID, cfg, flashcardCount)
}

// complete applies every end-of-session effect. It runs on whatever
// goroutine finished the session (handler or timer), so it carries its own
// context.
func (s *QuizService) complete(userID uuid.UUID, c *session.Controller, res session.Result) {
	defer s.sessions.Remove(userID, c)

	// Flashcard decks award XP through CompleteFlashcards, never here.
	if res.Config.Flavor == models.FlavorFlashcards {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	defer s.locks.Lock(userID)()

	stats, err := s.state.LoadStats(ctx, userID)
	if err != nil {
		log.Printf("Failed to load stats for user %s: %v", userID, err)
		return
	}

	incorrect := res.Total - res.Score
	stats.TotalSessions++
	stats.TotalCorrect += res.Score
	stats.TotalIncorrect += incorrect

	subj := stats.Subjects[res.Config.Subject]
	subj.Correct += res.Score
	subj.Incorrect += incorrect
	stats.Subjects[res.Config.Subject] = subj

	for _, rec := range res.History {
		topic := res.Questions[rec.QuestionIndex].Topic
		if topic == "" {
			continue
		}
		t := stats.Topics[topic]
		t.Total++
		if rec.ChosenIndex == rec.CorrectIndex {
			t.Correct++
		}
		stats.Topics[topic] = t
	}

	perfect := res.Score == res.Total && res.Total > 0

	xp := progression.SessionAward(res.Score, res.Total)
	if res.Config.Flavor == models.FlavorRecovery && perfect {
		xp += progression.RecoveryBonus
	}
	credits := progression.CreditAward(res.Score)
	stats.Credits += credits

	stats, levelsGained, rankChanged := progression.ApplyXP(stats, xp)

	d, err := s.state.LoadStreak(ctx, userID)
	if err != nil {
		log.Printf("Failed to load streak for user %s: %v", userID, err)
		return
	}

	var streakOutcome string
	switch res.Config.Flavor {
	case models.FlavorDaily:
		var daily streak.DailyResult
		d, daily = streak.CompleteDaily(d, s.now())
		switch {
		case daily.AlreadyDone:
			streakOutcome = "already_done"
		case daily.Extended:
			streakOutcome = "extended"
		default:
			streakOutcome = "started"
		}
		if daily.MilestoneFreeze {
			s.notifier.Toast(ctx, userID, "7-day milestone! You earned a streak freeze.")
		}
	case models.FlavorRecovery:
		d = streak.ApplyRecovery(d, s.now(), perfect)
		if perfect {
			streakOutcome = "recovered"
		} else {
			streakOutcome = "recovery_failed"
		}
	}

	if levelsGained > 0 {
		d = streak.GrantFreezes(d, levelsGained)
		s.notifier.Publish(ctx, userID, models.WSMessage{
			Type: "level_up",
			Payload: models.LevelUpEvent{
				Level:          stats.Level,
				LevelsGained:   levelsGained,
				Rank:           progression.RankForLevel(stats.Level),
				FreezesGranted: levelsGained,
			},
		})
	}

	if err := s.state.SaveStats(ctx, userID, stats); err != nil {
		log.Printf("Failed to save stats for user %s: %v", userID, err)
	}
	if err := s.state.SaveStreak(ctx, userID, d); err != nil {
		log.Printf("Failed to save streak for user %s: %v", userID, err)
	}

	if streakOutcome != "" && streakOutcome != "already_done" {
		s.notifier.Publish(ctx, userID, models.WSMessage{
			Type: "streak",
			Payload: models.StreakEvent{
				Count:            d.Count,
				Freezes:          d.Freezes,
				Outcome:          streakOutcome,
				LostCount:        d.LostCount,
				RecoveryEligible: d.RecoveryEligible,
			},
		})
	}

	result := &models.SessionResult{
		Flavor:        res.Config.Flavor,
		Score:         res.Score,
		Total:         res.Total,
		History:       res.History,
		Questions:     res.Questions,
		XPAwarded:     xp,
		CreditsEarned: credits,
		LevelsGained:  levelsGained,
		Level:         stats.Level,
		Rank:          progression.RankForLevel(stats.Level),
		RankChanged:   rankChanged,
		StreakCount:   d.Count,
		StreakOutcome: streakOutcome,
	}

	s.mu.Lock()
	s.results[userID] = result
	s.mu.Unlock()
}

func (s *QuizService) controller(userID uuid.UUID) (*session.Controller, error) {
	c, ok := s.sessions.Get(userID)
	if !ok {
		return nil, &NotFoundError{Message: "No active session"}
	}
	return c, nil
}

func (s *QuizService) View(userID uuid.UUID) (models.SessionView, error) {
	c, err := s.controller(userID)
	if err != nil {
		return models.SessionView{}, err
	}
	return c.View(), nil
}

func (s *QuizService) Answer(userID uuid.UUID, req models.AnswerRequest) (models.SessionView, error) {
	c, err := s.controller(userID)
	if err != nil {
		return models.SessionView{}, err
	}
	if err := c.Answer(req.QuestionIndex, req.ChosenIndex); err != nil {
		return models.SessionView{}, mapSessionError(err)
	}
	return c.View(), nil
}

func (s *QuizService) Navigate(userID uuid.UUID, req models.NavigateRequest) (models.SessionView, error) {
	c, err := s.controller(userID)
	if err != nil {
		return models.SessionView{}, err
	}
	if err := c.Navigate(req.Direction); err != nil {
		return models.SessionView{}, mapSessionError(err)
	}
	return c.View(), nil
}

func (s *QuizService) Pause(userID uuid.UUID) (models.SessionView, error) {
	c, err := s.controller(userID)
	if err != nil {
		return models.SessionView{}, err
	}
	if err := c.Pause(); err != nil {
		return models.SessionView{}, mapSessionError(err)
	}
	return c.View(), nil
}

func (s *QuizService) Resume(userID uuid.UUID) (models.SessionView, error) {
	c, err := s.controller(userID)
	if err != nil {
		return models.SessionView{}, err
	}
	if err := c.Resume(); err != nil {
		return models.SessionView{}, mapSessionError(err)
	}
	return c.View(), nil
}

// Finish ends the session early; unanswered questions count as incorrect.
// The completion callback has already run by the time this returns, so the
// stored result is immediately retrievable.
func (s *QuizService) Finish(userID uuid.UUID) (*models.SessionResult, error) {
	c, err := s.controller(userID)
	if err != nil {
		return nil, err
	}
	if err := c.Finish(); err != nil {
		return nil, mapSessionError(err)
	}
	return s.LastResult(userID)
}

// Abandon discards the active session without awarding anything.
func (s *QuizService) Abandon(userID uuid.UUID) error {
	if !s.sessions.Abandon(userID) {
		return &NotFoundError{Message: "No active session"}
	}
	return nil
}

// LastResult returns the most recent completed-session result.
func (s *QuizService) LastResult(userID uuid.UUID) (*models.SessionResult, error) {
	s.mu.Lock()
	result, ok := s.results[userID]
	s.mu.Unlock()
	if !ok {
		return nil, &NotFoundError{Message: "No session result"}
	}
	return result, nil
}

// CompleteFlashcards finishes a review deck, awarding XP for each distinct
// card viewed.
func (s *QuizService) CompleteFlashcards(ctx context.Context, userID uuid.UUID, req models.FlashcardsCompleteRequest) (*models.SessionResult, error) {
	c, err := s.controller(userID)
	if err != nil {
		return nil, err
	}
	if c.Flavor() != models.FlavorFlashcards {
		return nil, &ConflictError{Message: "Active session is not a flashcard review"}
	}
	total := len(c.Questions())
	s.sessions.Abandon(userID)

	defer s.locks.Lock(userID)()

	stats, err := s.state.LoadStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	xp := progression.FlashcardAward(req.ViewedIndices)
	stats, levelsGained, rankChanged := progression.ApplyXP(stats, xp)

	if levelsGained > 0 {
		d, streakErr := s.state.LoadStreak(ctx, userID)
		if streakErr != nil {
			return nil, streakErr
		}
		d = streak.GrantFreezes(d, levelsGained)
		if saveErr := s.state.SaveStreak(ctx, userID, d); saveErr != nil {
			return nil, saveErr
		}
		s.notifier.Publish(ctx, userID, models.WSMessage{
			Type: "level_up",
			Payload: models.LevelUpEvent{
				Level:          stats.Level,
				LevelsGained:   levelsGained,
				Rank:           progression.RankForLevel(stats.Level),
				FreezesGranted: levelsGained,
			},
		})
	}

	if err := s.state.SaveStats(ctx, userID, stats); err != nil {
		return nil, err
	}

	result := &models.SessionResult{
		Flavor:       models.FlavorFlashcards,
		Total:        total,
		XPAwarded:    xp,
		LevelsGained: levelsGained,
		Level:        stats.Level,
		Rank:         progression.RankForLevel(stats.Level),
		RankChanged:  rankChanged,
	}

	s.mu.Lock()
	s.results[userID] = result
	s.mu.Unlock()
	return result, nil
}

// GetStreak reads the streak state without evaluating the day boundary.
func (s *QuizService) GetStreak(ctx context.Context, userID uuid.UUID) (models.StreakData, error) {
	return s.state.LoadStreak(ctx, userID)
}

// CheckStreak runs the day-boundary evaluation and persists any change. The
// client calls it on app load; the midnight sweeper calls it for every known
// user.
func (s *QuizService) CheckStreak(ctx context.Context, userID uuid.UUID) (models.StreakData, error) {
	defer s.locks.Lock(userID)()

	d, err := s.state.LoadStreak(ctx, userID)
	if err != nil {
		return models.StreakData{}, err
	}

	updated, outcome := streak.CheckDayBoundary(d, s.now())
	if outcome == streak.OutcomeIntact {
		return updated, nil
	}

	if err := s.state.SaveStreak(ctx, userID, updated); err != nil {
		return models.StreakData{}, err
	}

	s.notifier.Publish(ctx, userID, models.WSMessage{
		Type: "streak",
		Payload: models.StreakEvent{
			Count:            updated.Count,
			Freezes:          updated.Freezes,
			Outcome:          string(outcome),
			LostCount:        updated.LostCount,
			RecoveryEligible: updated.RecoveryEligible,
		},
	})
	return updated, nil
}

// AcceptLoss declines the recovery offer.
func (s *QuizService) AcceptLoss(ctx context.Context, userID uuid.UUID) (models.StreakData, error) {
	defer s.locks.Lock(userID)()

	d, err := s.state.LoadStreak(ctx, userID)
	if err != nil {
		return models.StreakData{}, err
	}
	if !d.RecoveryEligible {
		return models.StreakData{}, &ConflictError{Message: "No streak recovery is pending"}
	}
	d = streak.AcceptLoss(d)
	if err := s.state.SaveStreak(ctx, userID, d); err != nil {
		return models.StreakData{}, err
	}
	return d, nil
}

// GetProgress assembles the dashboard aggregate.
func (s *QuizService) GetProgress(ctx context.Context, userID uuid.UUID) (models.ProgressView, error) {
	stats, err := s.state.LoadStats(ctx, userID)
	if err != nil {
		return models.ProgressView{}, err
	}
	d, err := s.state.LoadStreak(ctx, userID)
	if err != nil {
		return models.ProgressView{}, err
	}
	return models.ProgressView{
		Stats:          stats,
		Streak:         d,
		Rank:           progression.RankForLevel(stats.Level),
		CurrentLevelXP: progression.XPThresholdForLevel(stats.Level),
		NextLevelXP:    progression.XPThresholdForLevel(stats.Level + 1),
	}, nil
}

// ResetAll wipes the user's progress back to the defaults.
func (s *QuizService) ResetAll(ctx context.Context, userID uuid.UUID) error {
	s.sessions.Abandon(userID)

	s.mu.Lock()
	delete(s.results, userID)
	s.mu.Unlock()

	defer s.locks.Lock(userID)()

	if err := s.state.SaveStats(ctx, userID, models.DefaultStats()); err != nil {
		return err
	}
	return s.state.SaveStreak(ctx, userID, models.DefaultStreak())
}

// SetLevel is the admin override: total XP is pinned to the exact threshold
// of the requested level. No freezes are granted on the way.
func (s *QuizService) SetLevel(ctx context.Context, userID uuid.UUID, level int) (models.Stats, error) {
	if level < 1 || level > 1000 {
		return models.Stats{}, &ValidationError{Fields: map[string]string{"level": "Level must be between 1 and 1000"}}
	}

	defer s.locks.Lock(userID)()

	stats, err := s.state.LoadStats(ctx, userID)
	if err != nil {
		return models.Stats{}, err
	}
	stats.TotalXP = progression.XPThresholdForLevel(level)
	stats.Level = level
	if err := s.state.SaveStats(ctx, userID, stats); err != nil {
		return models.Stats{}, err
	}
	return stats, nil
}

// SetStreak is the admin override for the streak counter.
func (s *QuizService) SetStreak(ctx context.Context, userID uuid.UUID, count int) (models.StreakData, error) {
	if count < 0 {
		return models.StreakData{}, &ValidationError{Fields: map[string]string{"count": "Count must be non-negative"}}
	}

	defer s.locks.Lock(userID)()

	d, err := s.state.LoadStreak(ctx, userID)
	if err != nil {
		return models.StreakData{}, err
	}
	d.Count = count
	if count > 0 {
		d.SetLastCompletion(s.now())
	}
	if err := s.state.SaveStreak(ctx, userID, d); err != nil {
		return models.StreakData{}, err
	}
	return d, nil
}

// ListBank returns archived questions matching the filter.
func (s *QuizService) ListBank(ctx context.Context, userID uuid.UUID, filter models.BankFilter) ([]models.BankEntry, error) {
	return s.bank.List(ctx, userID, filter)
}

func mapSessionError(err error) error {
	switch err {
	case session.ErrNotActive, session.ErrNotPaused, session.ErrNotTimed, session.ErrFinished:
		return &ConflictError{Message: err.Error()}
	case session.ErrOutOfRange, session.ErrBadDirection:
		return &ValidationError{Fields: map[string]string{"request": err.Error()}}
	}
	return err
}
