package models

// Flavor tags a session with the post-completion rule that fires for it.
// Exactly one flavor is active per session.
type Flavor string

const (
	FlavorStandard   Flavor = "standard"
	FlavorDaily      Flavor = "daily"
	FlavorRecovery   Flavor = "recovery"
	FlavorFlashcards Flavor = "flashcards"
)

// SessionState is the live lifecycle phase. Question fetch happens before a
// session exists, so a session is born active.
type SessionState string

const (
	StateActive   SessionState = "active"
	StatePaused   SessionState = "paused"
	StateFinished SessionState = "finished"
)

// StartSessionRequest configures a standard session.
type StartSessionRequest struct {
	Subject    string `json:"subject"`
	Difficulty string `json:"difficulty"`
	Mode       string `json:"mode"`
}

type AnswerRequest struct {
	QuestionIndex int `json:"question_index"`
	ChosenIndex   int `json:"chosen_index"`
}

type NavigateRequest struct {
	Direction string `json:"direction"` // "next" | "previous"
}

type FlashcardsCompleteRequest struct {
	ViewedIndices []int `json:"viewed_indices"`
}

// SessionView is what the client sees of a live session. Correct indices
// are withheld until the session finishes.
type SessionView struct {
	Flavor        Flavor           `json:"flavor"`
	State         SessionState     `json:"state"`
	Subject       Subject          `json:"subject"`
	Difficulty    Difficulty       `json:"difficulty"`
	Mode          Mode             `json:"mode"`
	QuestionCount int              `json:"question_count"`
	Cursor        int              `json:"cursor"`
	TimeLeft      int              `json:"time_left"`
	TotalTime     int              `json:"total_time"`
	Questions     []RedactedView   `json:"questions"`
	Answered      map[int]int      `json:"answered"` // question index -> chosen index
}

type RedactedView struct {
	Text    string   `json:"q"`
	Options []string `json:"a"`
	Topic   string   `json:"topic,omitempty"`
}

// SessionResult is the completion payload: score, full history with correct
// answers revealed, and every progression/streak effect that was applied.
type SessionResult struct {
	Flavor        Flavor         `json:"flavor"`
	Score         int            `json:"score"`
	Total         int            `json:"total"`
	History       []AnswerRecord `json:"history"`
	Questions     []Question     `json:"questions"`
	XPAwarded     float64        `json:"xp_awarded"`
	CreditsEarned int            `json:"credits_earned"`
	LevelsGained  int            `json:"levels_gained"`
	Level         int            `json:"level"`
	Rank          string         `json:"rank"`
	RankChanged   bool           `json:"rank_changed"`
	StreakCount   int            `json:"streak_count"`
	StreakOutcome string         `json:"streak_outcome,omitempty"`
}
