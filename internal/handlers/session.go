package handlers

import (
	"encoding/json"
	"net/http"

	"sata-backend/internal/middleware"
	"sata-backend/internal/models"
	"sata-backend/internal/services"
)

// SessionHandler exposes the lifecycle of the single active session per
// user: start variants, answering, navigation, clock control, and results.
type SessionHandler struct {
	quizService *services.QuizService
}

func NewSessionHandler(quizService *services.QuizService) *SessionHandler {
	return &SessionHandler{quizService: quizService}
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	view, err := h.quizService.StartStandard(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

func (h *SessionHandler) StartDaily(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	view, err := h.quizService.StartDaily(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

func (h *SessionHandler) StartRecovery(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	view, err := h.quizService.StartRecovery(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

func (h *SessionHandler) StartFlashcards(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	view, err := h.quizService.StartFlashcards(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	view, err := h.quizService.View(userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req models.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	view, err := h.quizService.Answer(userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req models.NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	view, err := h.quizService.Navigate(userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) Pause(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	view, err := h.quizService.Pause(userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) Resume(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	view, err := h.quizService.Resume(userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) Finish(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	result, err := h.quizService.Finish(userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *SessionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.quizService.Abandon(userID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Session abandoned"})
}

func (h *SessionHandler) Result(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	result, err := h.quizService.LastResult(userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *SessionHandler) CompleteFlashcards(w http.ResponseWriter, r *http.Request) {
	var req models.FlashcardsCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	result, err := h.quizService.CompleteFlashcards(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
