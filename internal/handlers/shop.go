package handlers

import (
	"encoding/json"
	"net/http"

	"sata-backend/internal/middleware"
	"sata-backend/internal/models"
	"sata-backend/internal/services"
)

type ShopHandler struct {
	shopService *services.ShopService
}

func NewShopHandler(shopService *services.ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

func (h *ShopHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	items, credits, err := h.shopService.Catalog(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":   items,
		"credits": credits,
	})
}

func (h *ShopHandler) Buy(w http.ResponseWriter, r *http.Request) {
	var req models.BuyItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	stats, err := h.shopService.Buy(r.Context(), userID, req.ItemID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *ShopHandler) Equip(w http.ResponseWriter, r *http.Request) {
	var req models.EquipItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	stats, err := h.shopService.Equip(r.Context(), userID, req.ItemID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
