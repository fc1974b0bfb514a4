package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sata-backend/internal/models"
	"sata-backend/internal/progression"
)

// Record names, fixed by the store contract.
const (
	RecordStats  = "quizStats"
	RecordStreak = "dailyStreak"
)

// StateRepo is the persistent blob store for the two per-user aggregates.
// Loads merge over defaults so records written by older schema versions
// (or corrupted ones) never crash startup; saves are write-through,
// invoked after every mutation.
type StateRepo struct {
	pool *pgxpool.Pool
}

func NewStateRepo(pool *pgxpool.Pool) *StateRepo {
	return &StateRepo{pool: pool}
}

func (r *StateRepo) loadRecord(ctx context.Context, userID uuid.UUID, name string) ([]byte, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		"SELECT data FROM user_state WHERE user_id = $1 AND record = $2",
		userID, name,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	return raw, nil
}

func (r *StateRepo) saveRecord(ctx context.Context, userID uuid.UUID, name string, data []byte) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_state (user_id, record, data, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, record) DO UPDATE SET data = $3, updated_at = NOW()
	`, userID, name, data)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}

// LoadStats returns the stats aggregate with the cached level recomputed
// from TotalXP, never trusting a stale persisted value.
func (r *StateRepo) LoadStats(ctx context.Context, userID uuid.UUID) (models.Stats, error) {
	raw, err := r.loadRecord(ctx, userID, RecordStats)
	if err != nil {
		return models.DefaultStats(), err
	}
	stats := models.MergeStats(raw)
	stats.Level = progression.LevelForXP(stats.TotalXP)
	return stats, nil
}

func (r *StateRepo) SaveStats(ctx context.Context, userID uuid.UUID, stats models.Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	return r.saveRecord(ctx, userID, RecordStats, data)
}

func (r *StateRepo) LoadStreak(ctx context.Context, userID uuid.UUID) (models.StreakData, error) {
	raw, err := r.loadRecord(ctx, userID, RecordStreak)
	if err != nil {
		return models.DefaultStreak(), err
	}
	return models.MergeStreak(raw), nil
}

func (r *StateRepo) SaveStreak(ctx context.Context, userID uuid.UUID, streak models.StreakData) error {
	data, err := json.Marshal(streak)
	if err != nil {
		return fmt.Errorf("failed to encode streak: %w", err)
	}
	return r.saveRecord(ctx, userID, RecordStreak, data)
}

// ListUserIDs feeds the midnight streak sweep.
func (r *StateRepo) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT DISTINCT user_id FROM user_state WHERE record = $1", RecordStreak)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
