package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/fdumary/HawkEye/internal/credential"
	"github.com/fdumary/HawkEye/internal/identity"
)

// CredentialsHandler handles credential enrollment.
type CredentialsHandler struct {
	verifier   *credential.Verifier
	identities *identity.Store
}

// NewCredentialsHandler creates a new credentials handler.
func NewCredentialsHandler(v *credential.Verifier, ids *identity.Store) *CredentialsHandler {
	return &CredentialsHandler{verifier: v, identities: ids}
}

// RegisterFaceResponse is the body returned by RegisterFace.
type RegisterFaceResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegisterFace enrolls an uploaded sample as the credential template
// for a roster identity, replacing any previous template. Requires an
// authenticated caller.
func (h *CredentialsHandler) RegisterFace(w http.ResponseWriter, r *http.Request) {
	sample, err := readSample(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, RegisterFaceResponse{Success: false, Message: "No image provided"})
		return
	}

	soldierID := r.FormValue("soldier_id")
	rec, err := h.identities.Get(soldierID)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, RegisterFaceResponse{Success: false, Message: "Invalid soldier ID"})
		return
	}

	if _, err := h.verifier.Enroll(r.Context(), rec.ID, sample); err != nil {
		if errors.Is(err, credential.ErrInvalidSample) {
			respondJSON(w, http.StatusBadRequest, RegisterFaceResponse{Success: false, Message: "Invalid image"})
			return
		}
		log.Printf("register-face: enroll for %s: %v", sanitizeForLog(rec.ID), err)
		respondJSON(w, http.StatusInternalServerError, RegisterFaceResponse{Success: false, Message: "Enrollment unavailable"})
		return
	}

	respondJSON(w, http.StatusOK, RegisterFaceResponse{
		Success: true,
		Message: "Face registered for " + rec.Name,
	})
}
