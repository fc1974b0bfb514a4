package models

import (
	"time"

	"github.com/google/uuid"
)

// BankEntry is one archived generated question. Every validated batch is
// archived when a session starts so past questions can be browsed later.
type BankEntry struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Subject    Subject    `json:"subject"`
	Difficulty Difficulty `json:"difficulty"`
	Question   Question   `json:"question"`
	CreatedAt  time.Time  `json:"created_at"`
}

type BankFilter struct {
	Subject    string
	Difficulty string
	Topic      string
	Limit      int
}
