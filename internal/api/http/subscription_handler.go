package http

import (
	"net/http"

	"tontine-backend/internal/domain"
)

func (s *Server) handleListPlanOptions(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.subscriptions.ListPlanOptions(r.Context()))
}

func (s *Server) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := s.subscriptions.GetSubscription(r.Context(), userIDFrom(r), pathVar(r, "orgID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, sub)
}

func (s *Server) handleSubscriptionUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := s.subscriptions.GetUsage(r.Context(), userIDFrom(r), pathVar(r, "orgID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, usage)
}

func (s *Server) handleChangePlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Plan string `json:"plan"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sub, err := s.subscriptions.ChangePlan(r.Context(), userIDFrom(r), pathVar(r, "orgID"), req.Plan)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, sub)
}

func (s *Server) handleUpdateSubscription(w http.ResponseWriter, r *http.Request) {
	var patch domain.Subscription
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	sub, err := s.subscriptions.UpdateSubscription(r.Context(), userIDFrom(r), pathVar(r, "orgID"), &patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, sub)
}

func (s *Server) handleUpdateSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.SubscriptionStatus `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sub, err := s.subscriptions.UpdateStatus(r.Context(), userIDFrom(r), pathVar(r, "orgID"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, sub)
}
