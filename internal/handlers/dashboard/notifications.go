package dashboard_handler

import (
	"net/http"

	"streamvault_agent/internal/middleware"

	"github.com/gorilla/mux"
)

func (dh *DashboardHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	middleware.WriteSuccessData(w, r, dh.Notifications.Queue().List())
}

func (dh *DashboardHandler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	dh.Notifications.Queue().Clear()
	middleware.WriteSuccessMessage(w, r, "notifications cleared")
}

func (dh *DashboardHandler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	if err := dh.Notifications.Dismiss(mux.Vars(r)["id"]); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteSuccessMessage(w, r, "notification dismissed")
}

func (dh *DashboardHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := dh.Notifications.MarkRead(r.Context(), mux.Vars(r)["id"]); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteSuccessMessage(w, r, "notification marked as read")
}

func (dh *DashboardHandler) GetNotificationHistory(w http.ResponseWriter, r *http.Request) {
	history, err := dh.Notifications.History(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteSuccessData(w, r, history)
}

func (dh *DashboardHandler) ClearNotificationHistory(w http.ResponseWriter, r *http.Request) {
	if err := dh.Notifications.ClearHistory(r.Context()); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteSuccessMessage(w, r, "notification history cleared")
}
