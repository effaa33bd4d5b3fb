package dashboard_handler

import (
	"net/http"
	"strconv"

	"streamvault_agent/internal/middleware"
	"streamvault_agent/internal/models"
)

func (dh *DashboardHandler) GetStreams(w http.ResponseWriter, r *http.Request) {

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	streams, tracked := dh.Streams.Streams(id)
	if !tracked {
		var err error
		streams, err = dh.Streams.Load(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}
	}

	middleware.WriteSuccessData(w, r, models.StreamsResponse{Streams: streams})
}

func (dh *DashboardHandler) DeleteStream(w http.ResponseWriter, r *http.Request) {

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	streamID, ok := pathID(w, r, "stream_id")
	if !ok {
		return
	}

	if err := dh.Library.DeleteStream(r.Context(), id, streamID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteSuccessMessage(w, r, "stream deleted")
}

func (dh *DashboardHandler) DeleteAllStreams(w http.ResponseWriter, r *http.Request) {

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	deleted, err := dh.Library.DeleteAllStreams(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteSuccessData(w, r, models.DeleteStreamsResponse{DeletedCount: deleted})
}

func (dh *DashboardHandler) GetChapters(w http.ResponseWriter, r *http.Request) {

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	offset := 0.0
	if at := r.URL.Query().Get("at"); at != "" {
		v, err := strconv.ParseFloat(at, 64)
		if err != nil || v < 0 {
			middleware.WriteErrorResponse(w, r, http.StatusBadRequest, "invalid at")
			return
		}
		offset = v
	}

	nav, err := dh.Chapters.Navigate(r.Context(), id, offset)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteSuccessData(w, r, nav)
}
