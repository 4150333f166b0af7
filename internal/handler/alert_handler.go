package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	_ "github.com/cryptosden/backend/internal/model" // swagger types
	"github.com/cryptosden/backend/internal/service"
)

type AlertHandler struct {
	service AlertServiceInterface
}

func NewAlertHandler(service AlertServiceInterface) *AlertHandler {
	return &AlertHandler{service: service}
}

// Create godoc
// @Summary Create an alert
// @Description Create a new alert watching a market metric against a threshold
// @Tags alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.CreateAlertInput true "Alert data"
// @Success 201 {object} model.Alert
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /alerts [post]
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input service.CreateAlertInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	alert, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		handleServiceError(w, err, "failed to create alert")
		return
	}

	respondJSON(w, http.StatusCreated, alert)
}

// List godoc
// @Summary List alerts
// @Description Get all alerts for the current user
// @Tags alerts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Alert
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /alerts [get]
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	alerts, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err, "failed to list alerts")
		return
	}

	respondJSON(w, http.StatusOK, alerts)
}

// Get godoc
// @Summary Get an alert
// @Description Get a single alert by ID
// @Tags alerts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Success 200 {object} model.Alert
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /alerts/{id} [get]
func (h *AlertHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	alert, err := h.service.Get(r.Context(), id, userID)
	if err != nil {
		handleServiceError(w, err, "failed to get alert")
		return
	}

	respondJSON(w, http.StatusOK, alert)
}

type toggleRequest struct {
	Active bool `json:"active"`
}

// Toggle godoc
// @Summary Toggle an alert
// @Description Activate or deactivate a single alert
// @Tags alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Param input body toggleRequest true "Desired state"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /alerts/{id}/toggle [post]
func (h *AlertHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.Toggle(r.Context(), id, userID, req.Active); err != nil {
		handleServiceError(w, err, "failed to toggle alert")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleAll godoc
// @Summary Toggle all alerts
// @Description Activate or deactivate every alert owned by the current user
// @Tags alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body toggleRequest true "Desired state"
// @Success 200 {object} map[string]int64
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /alerts/toggle-all [post]
func (h *AlertHandler) ToggleAll(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	count, err := h.service.ToggleAll(r.Context(), userID, req.Active)
	if err != nil {
		handleServiceError(w, err, "failed to toggle alerts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"updated": count})
}

// ClearTrigger godoc
// @Summary Clear a trigger
// @Description Reset an alert's triggered state so it can fire again
// @Tags alerts
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /alerts/{id}/clear [post]
func (h *AlertHandler) ClearTrigger(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.service.ClearTrigger(r.Context(), id, userID); err != nil {
		handleServiceError(w, err, "failed to clear trigger")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete an alert
// @Description Delete an alert by ID; its dispatch history is preserved
// @Tags alerts
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /alerts/{id} [delete]
func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		handleServiceError(w, err, "failed to delete alert")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TestFire godoc
// @Summary Send a test notification
// @Description Fire a test notification through the real resolution and delivery path
// @Tags alerts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Success 200 {object} model.TriggerEvent
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /alerts/{id}/test [post]
func (h *AlertHandler) TestFire(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	event, err := h.service.TestFire(r.Context(), id, userID)
	if err != nil {
		handleServiceError(w, err, "failed to send test notification")
		return
	}

	respondJSON(w, http.StatusOK, event)
}

// Stats godoc
// @Summary Alert statistics
// @Description Alert counts and delivery success rate for the current user
// @Tags alerts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.AlertStats
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /alerts/stats [get]
func (h *AlertHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err, "failed to compute stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// Dispatches godoc
// @Summary Dispatch history
// @Description Recent notification dispatch records for the current user
// @Tags alerts
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum records to return (default 50)"
// @Success 200 {array} model.DispatchRecord
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /alerts/dispatches [get]
func (h *AlertHandler) Dispatches(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.service.Dispatches(r.Context(), userID, limit)
	if err != nil {
		handleServiceError(w, err, "failed to list dispatches")
		return
	}

	respondJSON(w, http.StatusOK, records)
}
