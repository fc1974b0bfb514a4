package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"sata-backend/internal/repository"
)

// StreakSweeper runs the day-boundary check for every known user at each
// UTC midnight, so freezes burn and streaks drop even for users who never
// open the app that day.
type StreakSweeper struct {
	scheduler *gocron.Scheduler
	quiz      *QuizService
	state     *repository.StateRepo
}

func NewStreakSweeper(quiz *QuizService, state *repository.StateRepo) *StreakSweeper {
	return &StreakSweeper{
		scheduler: gocron.NewScheduler(time.UTC),
		quiz:      quiz,
		state:     state,
	}
}

// Start schedules the sweep and runs the scheduler in the background.
func (s *StreakSweeper) Start() {
	s.scheduler.Every(1).Day().At("00:00").Do(s.sweep)
	s.scheduler.StartAsync()
}

func (s *StreakSweeper) Stop() {
	s.scheduler.Stop()
}

func (s *StreakSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	userIDs, err := s.state.ListUserIDs(ctx)
	if err != nil {
		log.Printf("Streak sweep: failed to list users: %v", err)
		return
	}

	for _, userID := range userIDs {
		if _, err := s.quiz.CheckStreak(ctx, userID); err != nil {
			log.Printf("Streak sweep: check failed for user %s: %v", userID, err)
		}
	}
	log.Printf("Streak sweep completed for %d users", len(userIDs))
}
