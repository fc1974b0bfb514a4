package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"sata-backend/internal/models"
)

// BankRepo archives every validated generated batch so past questions can
// be browsed and filtered later.
type BankRepo struct {
	pool *pgxpool.Pool
}

func NewBankRepo(pool *pgxpool.Pool) *BankRepo {
	return &BankRepo{pool: pool}
}

func (r *BankRepo) ArchiveBatch(ctx context.Context, userID uuid.UUID, subject models.Subject, difficulty models.Difficulty, questions []models.Question) error {
	for _, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("failed to encode options: %w", err)
		}
		_, err = r.pool.Exec(ctx, `
			INSERT INTO question_bank (id, user_id, subject, difficulty, question_text, options_json, correct_index, topic, explanation)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, uuid.New(), userID, subject, difficulty, q.Text, options, q.CorrectIndex, q.Topic, q.Explanation)
		if err != nil {
			return fmt.Errorf("failed to archive question: %w", err)
		}
	}
	return nil
}

func (r *BankRepo) List(ctx context.Context, userID uuid.UUID, filter models.BankFilter) ([]models.BankEntry, error) {
	query := `SELECT id, user_id, subject, difficulty, question_text, options_json, correct_index, topic, explanation, created_at
		FROM question_bank WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.Subject != "" {
		args = append(args, filter.Subject)
		query += fmt.Sprintf(" AND subject = $%d", len(args))
	}
	if filter.Difficulty != "" {
		args = append(args, filter.Difficulty)
		query += fmt.Sprintf(" AND difficulty = $%d", len(args))
	}
	if filter.Topic != "" {
		args = append(args, filter.Topic)
		query += fmt.Sprintf(" AND topic = $%d", len(args))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.BankEntry
	for rows.Next() {
		var e models.BankEntry
		var options []byte
		err := rows.Scan(&e.ID, &e.UserID, &e.Subject, &e.Difficulty,
			&e.Question.Text, &options, &e.Question.CorrectIndex,
			&e.Question.Topic, &e.Question.Explanation, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(options, &e.Question.Options); err != nil {
			return nil, fmt.Errorf("corrupt options for bank entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
