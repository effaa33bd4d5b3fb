package dashboard_handler

import (
	"net/http"
	"strconv"

	"streamvault_agent/internal/middleware"
)

// GetWebsocketConnections proxies the server's diagnostics as-is.
func (dh *DashboardHandler) GetWebsocketConnections(w http.ResponseWriter, r *http.Request) {
	res, err := dh.Admin.WebsocketConnections(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteSuccessData(w, r, res)
}

func (dh *DashboardHandler) GetRecentEvents(w http.ResponseWriter, r *http.Request) {

	if dh.Mirror == nil {
		middleware.WriteErrorResponse(w, r, http.StatusNotFound, "event mirror is not configured")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := dh.Mirror.Recent(r.Context(), limit)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteSuccessData(w, r, events)
}
