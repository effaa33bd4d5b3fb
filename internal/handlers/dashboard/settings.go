package dashboard_handler

import (
	"net/http"

	"streamvault_agent/internal/middleware"
	"streamvault_agent/internal/service/cleanup"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

// policyStreamerID is 0 on /settings/cleanup-policy, the streamer id otherwise.
func policyStreamerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if _, ok := mux.Vars(r)["id"]; !ok {
		return 0, true
	}
	return pathID(w, r, "id")
}

func (dh *DashboardHandler) GetCleanupPolicy(w http.ResponseWriter, r *http.Request) {

	id, ok := policyStreamerID(w, r)
	if !ok {
		return
	}

	policy, err := dh.Cleanup.Load(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteSuccessData(w, r, policy)
}

func (dh *DashboardHandler) SaveCleanupPolicy(w http.ResponseWriter, r *http.Request) {

	id, ok := policyStreamerID(w, r)
	if !ok {
		return
	}

	reqDTO := cleanup.PolicyRequest{}
	if err := jsoniter.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logrus.Errorf("failed decode request, error: %v", err)
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	policy, err := reqDTO.ToPolicy()
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	if err := dh.Cleanup.Save(r.Context(), id, policy); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteSuccessData(w, r, policy)
}

func (dh *DashboardHandler) RunCleanup(w http.ResponseWriter, r *http.Request) {

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	res, err := dh.Cleanup.Run(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteSuccessData(w, r, res)
}
