package handler

import (
	"encoding/json"
	"net/http"

	"github.com/cryptosden/backend/internal/repository"
)

type PushHandler struct {
	repo           repository.PushRepository
	vapidPublicKey string
}

func NewPushHandler(repo repository.PushRepository, vapidPublicKey string) *PushHandler {
	return &PushHandler{repo: repo, vapidPublicKey: vapidPublicKey}
}

// VAPIDKey godoc
// @Summary Get VAPID public key
// @Description Public key web clients need to register push subscriptions
// @Tags push
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /push/vapid-key [get]
func (h *PushHandler) VAPIDKey(w http.ResponseWriter, r *http.Request) {
	if h.vapidPublicKey == "" {
		respondError(w, http.StatusNotFound, "push notifications are not configured")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"publicKey": h.vapidPublicKey})
}

type subscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// Subscribe godoc
// @Summary Register a push subscription
// @Description Store a browser push subscription for the current user
// @Tags push
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body subscribeRequest true "Push subscription"
// @Success 201 {object} repository.PushSubscription
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /push/subscriptions [post]
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		respondError(w, http.StatusBadRequest, "endpoint and keys are required")
		return
	}

	sub := &repository.PushSubscription{
		UserID:   userID,
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	}
	if err := h.repo.CreateSubscription(r.Context(), sub); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save subscription")
		return
	}

	respondJSON(w, http.StatusCreated, sub)
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

// Unsubscribe godoc
// @Summary Remove a push subscription
// @Description Delete a browser push subscription by endpoint
// @Tags push
// @Accept json
// @Security BearerAuth
// @Param input body unsubscribeRequest true "Subscription endpoint"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /push/subscriptions [delete]
func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req unsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Endpoint == "" {
		respondError(w, http.StatusBadRequest, "endpoint is required")
		return
	}

	if err := h.repo.DeleteByEndpoint(r.Context(), req.Endpoint); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete subscription")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
