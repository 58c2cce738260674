package handler

import (
	"net/http"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/services"
)

type BroadcastHandler struct {
	broadcasts *services.BroadcastService
}

func NewBroadcastHandler(broadcasts *services.BroadcastService) *BroadcastHandler {
	return &BroadcastHandler{broadcasts: broadcasts}
}

type BroadcastRequest struct {
	FacilityID string `json:"facility_id" validate:"required"`
	Audience   string `json:"audience" validate:"required,oneof=staff parents"`
	Subject    string `json:"subject"`
	Message    string `json:"message" validate:"required"`
}

// Send queues the message for delivery and answers 202 with the
// composed broadcast.
func (h *BroadcastHandler) Send(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var req BroadcastRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.broadcasts.Send(r.Context(), sess, services.BroadcastRequest{
		FacilityID: req.FacilityID,
		Audience:   req.Audience,
		Subject:    req.Subject,
		Message:    req.Message,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, b)
}
