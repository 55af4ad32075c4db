package http

import (
	"net/http"

	"tontine-backend/internal/domain"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := domain.TransactionFilter{
		Type:          domain.TransactionType(r.URL.Query().Get("type")),
		PaymentMethod: domain.PaymentMethod(r.URL.Query().Get("payment_method")),
		PaymentStatus: domain.PaymentStatus(r.URL.Query().Get("payment_status")),
		MembershipID:  r.URL.Query().Get("membership_id"),
		StartDate:     queryTime(r, "start_date"),
		EndDate:       queryTime(r, "end_date"),
		Search:        r.URL.Query().Get("search"),
		Page:          queryInt32(r, "page", 1),
		PageSize:      queryInt32(r, "page_size", 10),
	}
	txs, page, totals, err := s.transactions.ListTransactions(r.Context(), userIDFrom(r), pathVar(r, "orgID"), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]interface{}{"transactions": txs, "totals": totals},
		Meta:    &page,
	})
}

func (s *Server) handleSearchTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.SearchTransactions(r.Context(), userIDFrom(r), pathVar(r, "orgID"),
		r.URL.Query().Get("q"), queryInt32(r, "limit", 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, txs)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.transactions.GetTransaction(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "transactionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, t)
}
