package http

import (
	"net/http"

	"tontine-backend/internal/domain"
)

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string                `json:"email"`
		FirstName string                `json:"first_name"`
		LastName  string                `json:"last_name"`
		Phone     string                `json:"phone"`
		Role      domain.MembershipRole `json:"role"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := s.members.AddMember(r.Context(), userIDFrom(r), pathVar(r, "orgID"),
		req.Email, req.FirstName, req.LastName, req.Phone, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, m)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	filter := domain.MembershipFilter{
		Status:   domain.MembershipStatus(r.URL.Query().Get("status")),
		Role:     domain.MembershipRole(r.URL.Query().Get("role")),
		Search:   r.URL.Query().Get("search"),
		Page:     queryInt32(r, "page", 1),
		PageSize: queryInt32(r, "page_size", 10),
	}
	members, page, err := s.members.ListMembers(r.Context(), userIDFrom(r), pathVar(r, "orgID"), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, members, page)
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	m, err := s.members.GetMember(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "memberID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, m)
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role   domain.MembershipRole   `json:"role"`
		Status domain.MembershipStatus `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := s.members.UpdateMember(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "memberID"), req.Role, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, m)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := s.members.RemoveMember(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "memberID")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"removed": true})
}

func (s *Server) handleMemberSummary(w http.ResponseWriter, r *http.Request) {
	contributions, debts, err := s.members.MemberFinancialSummary(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "memberID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"contributions": contributions, "debts": debts})
}
