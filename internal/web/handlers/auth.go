package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/fdumary/HawkEye/internal/audit"
	"github.com/fdumary/HawkEye/internal/credential"
	"github.com/fdumary/HawkEye/internal/identity"
	"github.com/fdumary/HawkEye/internal/web/middleware"
)

// entranceArea is the audit area recorded for authentication attempts.
const entranceArea = "Main Entrance"

// AuthHandler handles authentication, logout and session status.
type AuthHandler struct {
	verifier       *credential.Verifier
	identities     *identity.Store
	ledger         *audit.Ledger
	sessionManager *middleware.SessionManager
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(v *credential.Verifier, ids *identity.Store, l *audit.Ledger, sm *middleware.SessionManager) *AuthHandler {
	return &AuthHandler{verifier: v, identities: ids, ledger: l, sessionManager: sm}
}

// AuthenticateResponse is the body returned by Authenticate.
type AuthenticateResponse struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message"`
	SoldierID  string  `json:"soldier_id,omitempty"`
	Name       string  `json:"name,omitempty"`
	SessionID  string  `json:"session_id,omitempty"`
	ExpiresAt  string  `json:"expires_at,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Authenticate verifies an uploaded credential sample against the
// enrolled templates and issues a session on a match. Both outcomes
// are audit-logged.
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	sample, err := readSample(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, AuthenticateResponse{Success: false, Message: "No image provided"})
		return
	}

	match, err := h.verifier.Verify(r.Context(), sample)
	if err != nil {
		switch {
		case errors.Is(err, credential.ErrInvalidSample):
			respondJSON(w, http.StatusBadRequest, AuthenticateResponse{Success: false, Message: "Invalid image"})
		case errors.Is(err, credential.ErrNoMatch):
			h.ledger.Append(r.Context(), audit.NewEvent("", "unidentified", audit.OutcomeDenied, entranceArea, "no matching credential"))
			respondJSON(w, http.StatusUnauthorized, AuthenticateResponse{Success: false, Message: "Face not recognized"})
		default:
			log.Printf("authenticate: verify failed: %v", err)
			respondJSON(w, http.StatusInternalServerError, AuthenticateResponse{Success: false, Message: "Authentication unavailable"})
		}
		return
	}

	rec, err := h.identities.Get(match.IdentityID)
	if err != nil {
		// Enrolled credential for an identity no longer on the roster:
		// fail closed as an ordinary rejection.
		h.ledger.Append(r.Context(), audit.NewEvent("", "unidentified", audit.OutcomeDenied, entranceArea, "credential without roster entry"))
		respondJSON(w, http.StatusUnauthorized, AuthenticateResponse{Success: false, Message: "Face not recognized"})
		return
	}

	session, err := h.sessionManager.Issue(r.Context(), rec.ID)
	if err != nil {
		log.Printf("authenticate: issuing session for %s: %v", sanitizeForLog(rec.ID), err)
		respondJSON(w, http.StatusInternalServerError, AuthenticateResponse{Success: false, Message: "Authentication unavailable"})
		return
	}
	h.sessionManager.SetSessionCookie(w, session)

	h.ledger.Append(r.Context(), audit.NewEvent(rec.ID, rec.Name, audit.OutcomeSuccess, entranceArea, ""))

	respondJSON(w, http.StatusOK, AuthenticateResponse{
		Success:    true,
		Message:    "Authentication successful! Welcome back.",
		SoldierID:  rec.ID,
		Name:       rec.Name,
		SessionID:  session.ID,
		ExpiresAt:  session.ExpiresAt.UTC().Format(time.RFC3339),
		Confidence: match.Confidence,
	})
}

// Logout revokes the caller's session and records a LOGOUT event.
// Safe to call without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := h.sessionManager.SessionFromRequest(r); session != nil {
		h.sessionManager.Revoke(r.Context(), session.ID)
		if rec, err := h.identities.Get(session.IdentityID); err == nil {
			h.ledger.Append(r.Context(), audit.NewEvent(rec.ID, rec.Name, audit.OutcomeLogout, "System", ""))
		}
	}

	h.sessionManager.ClearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// CheckSessionResponse is the body returned by CheckSession.
type CheckSessionResponse struct {
	LoggedIn  bool   `json:"logged_in"`
	SoldierID string `json:"soldier_id,omitempty"`
	Name      string `json:"name,omitempty"`
}

// CheckSession reports whether the caller holds a live session, with
// minimal identity details.
func (h *AuthHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	session := h.sessionManager.SessionFromRequest(r)
	if session == nil {
		respondJSON(w, http.StatusOK, CheckSessionResponse{LoggedIn: false})
		return
	}
	rec, err := h.identities.Get(session.IdentityID)
	if err != nil {
		respondJSON(w, http.StatusOK, CheckSessionResponse{LoggedIn: false})
		return
	}
	respondJSON(w, http.StatusOK, CheckSessionResponse{
		LoggedIn:  true,
		SoldierID: rec.ID,
		Name:      rec.Name,
	})
}
