package http

import (
	"net/http"

	"tontine-backend/internal/domain"
)

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var plan domain.ContributionPlan
	if err := decodeBody(r, &plan); err != nil {
		writeError(w, err)
		return
	}
	created, err := s.plans.CreatePlan(r.Context(), userIDFrom(r), pathVar(r, "orgID"), &plan)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	filter := domain.PlanFilter{
		Search:   r.URL.Query().Get("search"),
		Page:     queryInt32(r, "page", 1),
		PageSize: queryInt32(r, "page_size", 10),
	}
	if v := r.URL.Query().Get("is_active"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}
	plans, page, err := s.plans.ListPlans(r.Context(), userIDFrom(r), pathVar(r, "orgID"), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, plans, page)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.plans.GetPlan(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "planID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, plan)
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	var plan domain.ContributionPlan
	if err := decodeBody(r, &plan); err != nil {
		writeError(w, err)
		return
	}
	plan.ID = pathVar(r, "planID")
	updated, err := s.plans.UpdatePlan(r.Context(), userIDFrom(r), pathVar(r, "orgID"), &plan)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) handleTogglePlanStatus(w http.ResponseWriter, r *http.Request) {
	plan, err := s.plans.TogglePlanStatus(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "planID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, plan)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.plans.DeletePlan(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "planID")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleAssignPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MembershipID string `json:"membership_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.MembershipID == "" {
		writeError(w, domain.Errf(domain.KindValidation, "membership_id is required"))
		return
	}
	c, err := s.plans.AssignPlanToMember(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "planID"), req.MembershipID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, c)
}

func (s *Server) handleGenerateContributions(w http.ResponseWriter, r *http.Request) {
	var opts domain.GenerateOptions
	if r.ContentLength > 0 {
		if err := decodeBody(r, &opts); err != nil {
			writeError(w, err)
			return
		}
	}
	generated, err := s.plans.GenerateContributions(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "planID"), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]interface{}{"count": len(generated), "contributions": generated})
}
