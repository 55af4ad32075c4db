package http

import (
	"net/http"

	"tontine-backend/internal/domain"
)

func debtFilterFrom(r *http.Request) domain.DebtFilter {
	return domain.DebtFilter{
		Status:       domain.DebtStatus(r.URL.Query().Get("status")),
		MembershipID: r.URL.Query().Get("membership_id"),
		Search:       r.URL.Query().Get("search"),
		Page:         queryInt32(r, "page", 1),
		PageSize:     queryInt32(r, "page_size", 10),
	}
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var debt domain.Debt
	if err := decodeBody(r, &debt); err != nil {
		writeError(w, err)
		return
	}
	created, err := s.debts.CreateDebt(r.Context(), userIDFrom(r), pathVar(r, "orgID"), &debt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, page, err := s.debts.ListDebts(r.Context(), userIDFrom(r), pathVar(r, "orgID"), debtFilterFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, debts, page)
}

func (s *Server) handleListMyDebts(w http.ResponseWriter, r *http.Request) {
	debts, page, err := s.debts.ListMyDebts(r.Context(), userIDFrom(r), pathVar(r, "orgID"), debtFilterFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, debts, page)
}

func (s *Server) handleDebtSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.debts.DebtSummary(r.Context(), userIDFrom(r), pathVar(r, "orgID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, summary)
}

func (s *Server) handleGetDebt(w http.ResponseWriter, r *http.Request) {
	debt, err := s.debts.GetDebt(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "debtID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, debt)
}

func (s *Server) handleRecordRepayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	debt, err := s.debts.RecordRepayment(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "debtID"), req.Amount, req.PaymentMethod)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, debt)
}

func (s *Server) handleListRepayments(w http.ResponseWriter, r *http.Request) {
	history, err := s.debts.ListRepayments(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "debtID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, history)
}

func (s *Server) handleUpdateDebtStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.DebtStatus `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	debt, err := s.debts.UpdateDebtStatus(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "debtID"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, debt)
}
