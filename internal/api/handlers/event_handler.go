package handlers

import (
	"net/http"
	"strconv"

	"github.com/SydAsim/Visaguardai-Upwork/internal/services"
)

const defaultEventLimit = 50

// EventHandler serves the account activity feed.
type EventHandler struct {
	accounts services.AccountServiceProvider
	events   services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(accounts services.AccountServiceProvider, events services.EventServiceProvider) *EventHandler {
	return &EventHandler{accounts: accounts, events: events}
}

// Recent returns the newest events for the current user.
func (h *EventHandler) Recent(w http.ResponseWriter, r *http.Request) {
	user, err := resolveSessionUser(h.accounts, r)
	if err != nil {
		respondError(w, err)
		return
	}

	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	events, err := h.events.RecentEvents(user.Email, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}
