package dashboard_handler

import (
	"net/http"

	"streamvault_agent/internal/middleware"
	"streamvault_agent/internal/models"
	"streamvault_agent/internal/service/streamer"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func (dh *DashboardHandler) GetStreamers(w http.ResponseWriter, r *http.Request) {
	middleware.WriteSuccessData(w, r, models.StreamersResponse{Streamers: dh.Streamers.List()})
}

type addStreamerResponse struct {
	Streamer *models.Streamer `json:"streamer"`
	Form     *streamer.Form   `json:"form"`
}

func (dh *DashboardHandler) AddStreamer(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()

	reqDTO := models.AddStreamerRequest{}
	if err := jsoniter.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logrus.Errorf("failed decode request, error: %v", err)
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	form, added, err := dh.Streamer.Add(ctx, reqDTO.Username)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteSuccessData(w, r, addStreamerResponse{Streamer: added, Form: form})
}

func (dh *DashboardHandler) DeleteStreamer(w http.ResponseWriter, r *http.Request) {

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := dh.Streamer.Delete(r.Context(), id); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	dh.Streams.Forget(id)

	middleware.WriteSuccessMessage(w, r, "streamer deleted")
}

func (dh *DashboardHandler) StartRecording(w http.ResponseWriter, r *http.Request) {

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := dh.Recording.StartRecording(r.Context(), id); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteSuccessMessage(w, r, "recording started")
}

func (dh *DashboardHandler) StopRecording(w http.ResponseWriter, r *http.Request) {

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := dh.Recording.StopRecording(r.Context(), id); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteSuccessMessage(w, r, "recording stopped")
}
