package models

import "fmt"

type Subject string

const (
	SubjectMath    Subject = "math"
	SubjectEnglish Subject = "english"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Mode string

const (
	ModeTimed    Mode = "timed"
	ModePractice Mode = "practice"
)

func ParseSubject(s string) (Subject, error) {
	switch Subject(s) {
	case SubjectMath, SubjectEnglish:
		return Subject(s), nil
	}
	return "", fmt.Errorf("invalid subject %q", s)
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("invalid difficulty %q", s)
}

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTimed, ModePractice:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid mode %q", s)
}

// Question is immutable once fetched; it is owned by the active session
// for its lifetime.
type Question struct {
	Text         string   `json:"q"`
	Options      []string `json:"a"`
	CorrectIndex int      `json:"correct"`
	Topic        string   `json:"topic,omitempty"`
	Type         string   `json:"type,omitempty"`
	Explanation  string   `json:"explanation,omitempty"`
}

const OptionCount = 4

// Validate enforces the generator contract: non-empty text, exactly four
// options, correct index in range.
func (q *Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("question text is empty")
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("expected %d options, got %d", OptionCount, len(q.Options))
	}
	for i, opt := range q.Options {
		if opt == "" {
			return fmt.Errorf("option %d is empty", i)
		}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= OptionCount {
		return fmt.Errorf("correct index %d out of range", q.CorrectIndex)
	}
	return nil
}

// AnswerRecord is one entry of the append-only answer history built during
// a session. At most one record exists per QuestionIndex.
type AnswerRecord struct {
	QuestionIndex int `json:"question_index"`
	CorrectIndex  int `json:"correct_index"`
	ChosenIndex   int `json:"chosen_index"`
}

// DifficultySetting fixes the question count and per-question time for a
// standard session at a given tier.
type DifficultySetting struct {
	NumQuestions int
	TimePerQ     int // seconds
}

var DifficultySettings = map[Difficulty]DifficultySetting{
	DifficultyEasy:   {NumQuestions: 20, TimePerQ: 90},
	DifficultyMedium: {NumQuestions: 20, TimePerQ: 30},
	DifficultyHard:   {NumQuestions: 20, TimePerQ: 15},
}
