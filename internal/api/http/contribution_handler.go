package http

import (
	"net/http"

	"tontine-backend/internal/domain"
)

func contributionFilterFrom(r *http.Request) domain.ContributionFilter {
	return domain.ContributionFilter{
		Status:       domain.ContributionStatus(r.URL.Query().Get("status")),
		MembershipID: r.URL.Query().Get("membership_id"),
		PlanID:       r.URL.Query().Get("plan_id"),
		StartDate:    queryTime(r, "start_date"),
		EndDate:      queryTime(r, "end_date"),
		Page:         queryInt32(r, "page", 1),
		PageSize:     queryInt32(r, "page_size", 10),
	}
}

func (s *Server) handleListContributions(w http.ResponseWriter, r *http.Request) {
	cs, page, err := s.contributions.ListContributions(r.Context(), userIDFrom(r), pathVar(r, "orgID"), contributionFilterFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, cs, page)
}

func (s *Server) handleListMyContributions(w http.ResponseWriter, r *http.Request) {
	cs, page, err := s.contributions.ListMyContributions(r.Context(), userIDFrom(r), pathVar(r, "orgID"), contributionFilterFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, cs, page)
}

func (s *Server) handleGetContribution(w http.ResponseWriter, r *http.Request) {
	c, err := s.contributions.GetContribution(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "contributionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

type paymentRequest struct {
	Amount        float64              `json:"amount"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
}

func (s *Server) handleMarkAsPaid(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := s.contributions.MarkAsPaid(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "contributionID"), req.Amount, req.PaymentMethod)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (s *Server) handlePartialPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := s.contributions.RecordPartialPayment(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "contributionID"), req.Amount, req.PaymentMethod)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}
