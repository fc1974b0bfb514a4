package handlers

import (
	"encoding/json"
	"net/http"

	"sata-backend/internal/middleware"
	"sata-backend/internal/models"
	"sata-backend/internal/services"
)

// AdminHandler exposes the developer-console overrides. The routes are
// mounted only when the server runs outside production.
type AdminHandler struct {
	quizService *services.QuizService
}

func NewAdminHandler(quizService *services.QuizService) *AdminHandler {
	return &AdminHandler{quizService: quizService}
}

func (h *AdminHandler) SetLevel(w http.ResponseWriter, r *http.Request) {
	var req models.SetLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	stats, err := h.quizService.SetLevel(r.Context(), userID, req.Level)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) SetStreak(w http.ResponseWriter, r *http.Request) {
	var req models.SetStreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	streakData, err := h.quizService.SetStreak(r.Context(), userID, req.Count)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, streakData)
}
