package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"sata-backend/internal/models"
)

// StateStore is the per-user blob persistence the services mutate.
// *repository.StateRepo is the production implementation; tests substitute
// an in-memory fake.
type StateStore interface {
	LoadStats(ctx context.Context, userID uuid.UUID) (models.Stats, error)
	SaveStats(ctx context.Context, userID uuid.UUID, stats models.Stats) error
	LoadStreak(ctx context.Context, userID uuid.UUID) (models.StreakData, error)
	SaveStreak(ctx context.Context, userID uuid.UUID, d models.StreakData) error
}

// UserLocks hands out one mutex per user. Every load-modify-save sequence on
// a user's records takes that user's lock first: a finishing session, the
// client's boundary check, the midnight sweep, and a shop purchase can all
// run concurrently for the same user, and unserialized writes would let the
// last save win over the others.
type UserLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Lock acquires the user's mutex and returns the unlock func.
func (u *UserLocks) Lock(userID uuid.UUID) func() {
	u.mu.Lock()
	l, ok := u.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		u.locks[userID] = l
	}
	u.mu.Unlock()

	l.Lock()
	return l.Unlock
}
