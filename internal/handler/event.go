package handler

import (
	"net/http"
	"time"

	"github.com/finbook/finance-service/internal/middleware"
	"github.com/finbook/finance-service/internal/service"
)

// AddEvent creates a financial event for the authenticated user
func (h *Handler) AddEvent(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	var in service.EventInput
	if !h.decode(w, r, &in) {
		return
	}
	if _, err := h.events.CreateEvent(user, in); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// GetEvents lists the authenticated user's events within a date range
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	start, err := time.Parse("2006-01-02", r.URL.Query().Get("startDate"))
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"message": "expected date format YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("endDate"))
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"message": "expected date format YYYY-MM-DD"})
		return
	}

	list, err := h.events.ListEvents(user, start, end)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if list.FirstEventDate == nil {
		h.respondJSON(w, http.StatusNotFound, map[string]string{"message": "no events recorded yet"})
		return
	}
	h.respondJSON(w, http.StatusOK, list)
}
