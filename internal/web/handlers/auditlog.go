package handlers

import (
	"net/http"
	"strconv"

	"github.com/fdumary/HawkEye/internal/audit"
)

// AuditHandler serves the access log. Routes using it are restricted
// to TOP_SECRET clearance by middleware.
type AuditHandler struct {
	ledger *audit.Ledger
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(ledger *audit.Ledger) *AuditHandler {
	return &AuditHandler{ledger: ledger}
}

// AccessLog returns the most recent audit events, newest first. The
// optional limit query parameter caps the number of events returned.
func (h *AuditHandler) AccessLog(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	events := h.ledger.Recent(limit)
	respondJSON(w, http.StatusOK, map[string]any{"log": events})
}
