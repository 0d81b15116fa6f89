package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fdumary/HawkEye/internal/access"
	"github.com/fdumary/HawkEye/internal/identity"
	"github.com/fdumary/HawkEye/internal/web/middleware"
)

// AccessHandler exposes area access decisions.
type AccessHandler struct {
	engine *access.Engine
}

// NewAccessHandler creates a new access handler.
func NewAccessHandler(engine *access.Engine) *AccessHandler {
	return &AccessHandler{engine: engine}
}

// RequestAccessRequest is the body accepted by RequestAccess.
type RequestAccessRequest struct {
	Area string `json:"area"`
}

// RequestAccessResponse is the body returned by RequestAccess.
type RequestAccessResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	AccessLevel string `json:"access_level,omitempty"`
}

// RequestAccess decides whether the authenticated identity may enter
// the requested area and records the decision in the audit ledger.
func (h *AccessHandler) RequestAccess(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromContext(r.Context())
	if ident == nil {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req RequestAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	decision, err := h.engine.RequestAccess(r.Context(), ident.ID, req.Area)
	if err != nil {
		switch {
		case errors.Is(err, access.ErrAreaRequired):
			respondError(w, http.StatusBadRequest, "Area is required")
		case errors.Is(err, identity.ErrNotFound):
			respondError(w, http.StatusNotFound, "Unknown soldier ID")
		default:
			log.Printf("request-access: %s -> %s: %v", sanitizeForLog(ident.ID), sanitizeForLog(req.Area), err)
			respondError(w, http.StatusInternalServerError, "Could not process access request")
		}
		return
	}

	if !decision.Granted {
		respondJSON(w, http.StatusForbidden, RequestAccessResponse{
			Success: false,
			Message: "Access denied to " + decision.Area + ". Insufficient clearance.",
		})
		return
	}

	respondJSON(w, http.StatusOK, RequestAccessResponse{
		Success:     true,
		Message:     "Access granted to " + decision.Area,
		AccessLevel: decision.Clearance.String(),
	})
}
