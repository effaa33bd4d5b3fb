package dashboard_handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"streamvault_agent/internal/middleware"
	"streamvault_agent/internal/models"
	"streamvault_agent/internal/service/chapters"
	"streamvault_agent/internal/service/cleanup"
	"streamvault_agent/internal/service/mirror"
	"streamvault_agent/internal/service/notification"
	"streamvault_agent/internal/service/reconcile"
	"streamvault_agent/internal/service/recording"
	"streamvault_agent/internal/service/streamer"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type AdminClient interface {
	WebsocketConnections(ctx context.Context) (*models.WebsocketConnectionsResponse, error)
}

type ConnectionState interface {
	Connected() bool
}

type Services struct {
	Streamers     *reconcile.StreamerStore
	Streams       *reconcile.StreamStore
	Streamer      *streamer.StreamerService
	Recording     *recording.RecordingService
	Library       *recording.StreamLibrary
	Chapters      *chapters.ChapterService
	Notifications *notification.NotificationService
	Cleanup       *cleanup.CleanupService
	Admin         AdminClient
	Mirror        *mirror.Mirror
	Connection    ConnectionState
}

type DashboardHandler struct {
	Services
}

func NewDashboardHandler(services Services) *DashboardHandler {
	return &DashboardHandler{Services: services}
}

func (dh *DashboardHandler) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", dh.GetHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.HandleFunc("/streamers", dh.GetStreamers).Methods(http.MethodGet)
	router.HandleFunc("/streamers", dh.AddStreamer).Methods(http.MethodPost)
	router.HandleFunc("/streamers/{id:[0-9]+}", dh.DeleteStreamer).Methods(http.MethodDelete)
	router.HandleFunc("/streamers/{id:[0-9]+}/streams", dh.GetStreams).Methods(http.MethodGet)
	router.HandleFunc("/streamers/{id:[0-9]+}/streams", dh.DeleteAllStreams).Methods(http.MethodDelete)
	router.HandleFunc("/streamers/{id:[0-9]+}/streams/{stream_id:[0-9]+}", dh.DeleteStream).Methods(http.MethodDelete)
	router.HandleFunc("/streamers/{id:[0-9]+}/recording/start", dh.StartRecording).Methods(http.MethodPost)
	router.HandleFunc("/streamers/{id:[0-9]+}/recording/stop", dh.StopRecording).Methods(http.MethodPost)
	router.HandleFunc("/streamers/{id:[0-9]+}/cleanup", dh.RunCleanup).Methods(http.MethodPost)
	router.HandleFunc("/streamers/{id:[0-9]+}/cleanup-policy", dh.GetCleanupPolicy).Methods(http.MethodGet)
	router.HandleFunc("/streamers/{id:[0-9]+}/cleanup-policy", dh.SaveCleanupPolicy).Methods(http.MethodPut)

	router.HandleFunc("/streams/{id:[0-9]+}/chapters", dh.GetChapters).Methods(http.MethodGet)

	router.HandleFunc("/notifications", dh.GetNotifications).Methods(http.MethodGet)
	router.HandleFunc("/notifications", dh.ClearNotifications).Methods(http.MethodDelete)
	router.HandleFunc("/notifications/history", dh.GetNotificationHistory).Methods(http.MethodGet)
	router.HandleFunc("/notifications/history", dh.ClearNotificationHistory).Methods(http.MethodDelete)
	router.HandleFunc("/notifications/{id}/read", dh.MarkNotificationRead).Methods(http.MethodPost)
	router.HandleFunc("/notifications/{id}", dh.DismissNotification).Methods(http.MethodDelete)

	router.HandleFunc("/settings/cleanup-policy", dh.GetCleanupPolicy).Methods(http.MethodGet)
	router.HandleFunc("/settings/cleanup-policy", dh.SaveCleanupPolicy).Methods(http.MethodPut)

	router.HandleFunc("/twitch/auth-url", dh.GetTwitchAuthURL).Methods(http.MethodGet)
	router.HandleFunc("/twitch/followed-channels", dh.GetFollowedChannels).Methods(http.MethodGet)
	router.HandleFunc("/twitch/import", dh.ImportStreamers).Methods(http.MethodPost)

	router.HandleFunc("/subscriptions", dh.GetSubscriptions).Methods(http.MethodGet)
	router.HandleFunc("/subscriptions", dh.DeleteAllSubscriptions).Methods(http.MethodDelete)
	router.HandleFunc("/subscriptions/resubscribe", dh.ResubscribeAll).Methods(http.MethodPost)

	router.HandleFunc("/admin/websocket-connections", dh.GetWebsocketConnections).Methods(http.MethodGet)
	router.HandleFunc("/events/recent", dh.GetRecentEvents).Methods(http.MethodGet)

	return router
}

type healthResponse struct {
	WebsocketConnected bool      `json:"websocket_connected"`
	Streamers          int       `json:"streamers"`
	LastSync           time.Time `json:"last_sync"`
	QueuedNotification int       `json:"queued_notifications"`
}

func (dh *DashboardHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	res := healthResponse{
		Streamers:          len(dh.Streamers.List()),
		LastSync:           dh.Streamers.LastSync(),
		QueuedNotification: dh.Notifications.Queue().Len(),
	}
	if dh.Connection != nil {
		res.WebsocketConnected = dh.Connection.Connected()
	}

	middleware.WriteSuccessData(w, r, res)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
