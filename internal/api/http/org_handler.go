package http

import (
	"net/http"

	"tontine-backend/internal/domain"
)

func (s *Server) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	var org domain.Organization
	if err := decodeBody(r, &org); err != nil {
		writeError(w, err)
		return
	}
	created, err := s.orgs.CreateOrganization(r.Context(), userIDFrom(r), &org)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (s *Server) handleListMyOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := s.orgs.ListMyOrganizations(r.Context(), userIDFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, orgs)
}

func (s *Server) handleGetOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := s.orgs.GetOrganization(r.Context(), userIDFrom(r), pathVar(r, "orgID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, org)
}

func (s *Server) handleUpdateOrganization(w http.ResponseWriter, r *http.Request) {
	var org domain.Organization
	if err := decodeBody(r, &org); err != nil {
		writeError(w, err)
		return
	}
	// The target organization comes from the route, never the body.
	org.ID = pathVar(r, "orgID")
	updated, err := s.orgs.UpdateOrganization(r.Context(), userIDFrom(r), &org)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) handleDeactivateOrganization(w http.ResponseWriter, r *http.Request) {
	if err := s.orgs.DeactivateOrganization(r.Context(), userIDFrom(r), pathVar(r, "orgID")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"deactivated": true})
}
