package http

import (
	"net/http"
)

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	ns, page, err := s.notifications.ListMyNotifications(r.Context(), userIDFrom(r), pathVar(r, "orgID"),
		queryInt32(r, "page", 1), queryInt32(r, "page_size", 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, ns, page)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := s.notifications.MarkAsRead(r.Context(), userIDFrom(r), pathVar(r, "orgID"), pathVar(r, "notificationID")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"read": true})
}
