package handler

import (
	"encoding/json"
	"net/http"

	"github.com/cryptosden/backend/internal/service"
)

type PreferenceHandler struct {
	service PreferenceServiceInterface
}

func NewPreferenceHandler(service PreferenceServiceInterface) *PreferenceHandler {
	return &PreferenceHandler{service: service}
}

// Get godoc
// @Summary Get notification preferences
// @Description Get the current user's notification preferences; defaults apply until the user saves their own
// @Tags preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.NotificationPreference
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /preferences [get]
func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	prefs, err := h.service.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err, "failed to get preferences")
		return
	}

	respondJSON(w, http.StatusOK, prefs)
}

// Update godoc
// @Summary Update notification preferences
// @Description Replace the current user's notification preferences
// @Tags preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.UpdatePreferenceInput true "Preference data"
// @Success 200 {object} model.NotificationPreference
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /preferences [put]
func (h *PreferenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input service.UpdatePreferenceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prefs, err := h.service.Update(r.Context(), userID, input)
	if err != nil {
		handleServiceError(w, err, "failed to update preferences")
		return
	}

	respondJSON(w, http.StatusOK, prefs)
}
