package handlers

import (
	"net/http"
	"strconv"

	"sata-backend/internal/middleware"
	"sata-backend/internal/models"
	"sata-backend/internal/services"
)

// BankHandler serves the archive of previously generated questions.
type BankHandler struct {
	quizService *services.QuizService
}

func NewBankHandler(quizService *services.QuizService) *BankHandler {
	return &BankHandler{quizService: quizService}
}

func (h *BankHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.BankFilter{
		Subject:    r.URL.Query().Get("subject"),
		Difficulty: r.URL.Query().Get("difficulty"),
		Topic:      r.URL.Query().Get("topic"),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Limit must be a positive integer", r))
			return
		}
		filter.Limit = limit
	}

	userID := middleware.GetUserID(r.Context())
	entries, err := h.quizService.ListBank(r.Context(), userID, filter)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"questions": entries,
		"count":     len(entries),
	})
}
