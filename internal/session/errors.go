package session

import "errors"

var (
	ErrNotActive    = errors.New("session is not active")
	ErrNotPaused    = errors.New("session is not paused")
	ErrNotTimed     = errors.New("session is not timed")
	ErrFinished     = errors.New("session already finished")
	ErrOutOfRange   = errors.New("index out of range")
	ErrBadDirection = errors.New("direction must be next or previous")
)
