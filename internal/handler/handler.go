// Package handler is the HTTP boundary: it decodes requests, delegates to
// the services, and maps the error taxonomy onto status codes.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/finbook/finance-service/internal/apperr"
	"github.com/finbook/finance-service/internal/config"
	"github.com/finbook/finance-service/internal/service"
)

// Handler holds the services behind the HTTP routes.
type Handler struct {
	users  *service.UserService
	events *service.EventService
	rates  *service.RateService
	log    *logrus.Logger
	cfg    *config.Config
}

// NewHandler initializes a new handler
func NewHandler(users *service.UserService, events *service.EventService,
	rates *service.RateService, log *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{users: users, events: events, rates: rates, log: log, cfg: cfg}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			h.log.Errorf("Failed to encode response: %v", err)
		}
	}
}

// respondError writes the error as either a field-error map or a single
// message, with the status taken from the error kind. Unexpected faults are
// logged and downgraded to a generic server error.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	appErr := apperr.From(err)
	if appErr.Kind == apperr.Internal || appErr.Kind == apperr.Delivery {
		h.log.Errorf("Request failed: %v", err)
	}
	if appErr.Fields != nil {
		h.respondJSON(w, appErr.StatusCode(), map[string]any{"errors": appErr.Fields})
		return
	}
	h.respondJSON(w, appErr.StatusCode(), map[string]string{"message": appErr.Message})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return false
	}
	return true
}
