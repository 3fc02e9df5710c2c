package handler

import "net/http"

// CurrencyRates returns the previous and current cached rate snapshots
func (h *Handler) CurrencyRates(w http.ResponseWriter, r *http.Request) {
	pair, err := h.rates.CurrentRates()
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, pair)
}
