package dashboard_handler

import (
	"net/http"

	"streamvault_agent/internal/middleware"
	"streamvault_agent/internal/models"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func (dh *DashboardHandler) GetTwitchAuthURL(w http.ResponseWriter, r *http.Request) {
	authURL, err := dh.Streamer.AuthURL(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteSuccessData(w, r, models.TwitchAuthURLResponse{AuthURL: authURL})
}

func (dh *DashboardHandler) GetFollowedChannels(w http.ResponseWriter, r *http.Request) {

	token := r.URL.Query().Get("access_token")
	if token == "" {
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, "access_token is required")
		return
	}

	channels, err := dh.Streamer.FollowedChannels(r.Context(), token)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteSuccessData(w, r, models.FollowedChannelsResponse{Channels: channels})
}

func (dh *DashboardHandler) ImportStreamers(w http.ResponseWriter, r *http.Request) {

	reqDTO := models.ImportStreamersRequest{}
	if err := jsoniter.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logrus.Errorf("failed decode request, error: %v", err)
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := dh.Streamer.Import(r.Context(), reqDTO.Channels)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.WriteSuccessData(w, r, res)
}

func (dh *DashboardHandler) GetSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := dh.Streamer.Subscriptions(r.Context())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteSuccessData(w, r, models.SubscriptionsResponse{Subscriptions: subs})
}

func (dh *DashboardHandler) DeleteAllSubscriptions(w http.ResponseWriter, r *http.Request) {
	if err := dh.Streamer.DeleteAllSubscriptions(r.Context()); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteSuccessMessage(w, r, "subscriptions deleted")
}

func (dh *DashboardHandler) ResubscribeAll(w http.ResponseWriter, r *http.Request) {
	if err := dh.Streamer.ResubscribeAll(r.Context()); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.WriteSuccessMessage(w, r, "resubscribed")
}
