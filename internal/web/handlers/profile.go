package handlers

import (
	"net/http"
	"sort"

	"github.com/fdumary/HawkEye/internal/identity"
	"github.com/fdumary/HawkEye/internal/web/middleware"
)

// ProfileHandler serves roster information for authenticated callers.
type ProfileHandler struct {
	identities *identity.Store
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(ids *identity.Store) *ProfileHandler {
	return &ProfileHandler{identities: ids}
}

// ProfileResponse describes a single roster identity. Credential
// templates are never included.
type ProfileResponse struct {
	SoldierID   string   `json:"soldier_id"`
	Name        string   `json:"name"`
	Rank        string   `json:"rank"`
	Unit        string   `json:"unit"`
	AccessLevel string   `json:"access_level"`
	Areas       []string `json:"authorized_areas"`
}

func profileOf(ident *identity.Identity) ProfileResponse {
	areas := make([]string, len(ident.Areas))
	copy(areas, ident.Areas)
	sort.Strings(areas)
	return ProfileResponse{
		SoldierID:   ident.ID,
		Name:        ident.Name,
		Rank:        ident.Rank,
		Unit:        ident.Unit,
		AccessLevel: ident.Clearance.String(),
		Areas:       areas,
	}
}

// Profile returns the authenticated identity's own roster entry.
func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromContext(r.Context())
	if ident == nil {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	respondJSON(w, http.StatusOK, profileOf(ident))
}

// AllPersonnel lists every roster identity. Restricted to TOP_SECRET
// clearance by route middleware.
func (h *ProfileHandler) AllPersonnel(w http.ResponseWriter, r *http.Request) {
	idents := h.identities.List()
	out := make([]ProfileResponse, 0, len(idents))
	for _, ident := range idents {
		out = append(out, profileOf(ident))
	}
	respondJSON(w, http.StatusOK, map[string]any{"personnel": out})
}
