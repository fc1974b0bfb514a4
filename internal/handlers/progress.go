package handlers

import (
	"net/http"

	"sata-backend/internal/middleware"
	"sata-backend/internal/services"
)

type ProgressHandler struct {
	quizService *services.QuizService
}

func NewProgressHandler(quizService *services.QuizService) *ProgressHandler {
	return &ProgressHandler{quizService: quizService}
}

func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	progress, err := h.quizService.GetProgress(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

// Streak reads the current streak state without running the boundary check.
func (h *ProgressHandler) Streak(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	streakData, err := h.quizService.GetStreak(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, streakData)
}

// CheckStreak runs the day-boundary evaluation on demand. Clients call it
// once on startup so a missed day is resolved before anything renders.
func (h *ProgressHandler) CheckStreak(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	streakData, err := h.quizService.CheckStreak(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, streakData)
}

func (h *ProgressHandler) AcceptLoss(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	streakData, err := h.quizService.AcceptLoss(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, streakData)
}

func (h *ProgressHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.quizService.ResetAll(r.Context(), userID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Progress reset"})
}
