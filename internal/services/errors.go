package services

// Typed service errors, mapped to HTTP status codes in the handler layer.

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type RateLimitError struct{ Message string }

func (e *RateLimitError) Error() string { return e.Message }

// GenerationError is the question-source failure surfaced after the single
// automatic retry is exhausted. It aborts the pending session start.
type GenerationError struct{ Message string }

func (e *GenerationError) Error() string { return e.Message }
