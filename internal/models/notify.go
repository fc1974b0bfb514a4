package models

// WebSocket message types pushed over the notification socket.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ToastEvent is a transient user-facing notice ("Streak Freeze Activated!").
type ToastEvent struct {
	Message string `json:"message"`
}

type LevelUpEvent struct {
	Level          int    `json:"level"`
	LevelsGained   int    `json:"levels_gained"`
	Rank           string `json:"rank"`
	FreezesGranted int    `json:"freezes_granted"`
}

type StreakEvent struct {
	Count            int    `json:"count"`
	Freezes          int    `json:"freezes"`
	Outcome          string `json:"outcome"` // boundary: "freeze_used" | "lost"; completion: "started" | "extended" | "recovered" | "recovery_failed"
	LostCount        int    `json:"lost_count,omitempty"`
	RecoveryEligible bool   `json:"recovery_eligible"`
}

// API error envelope.
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
