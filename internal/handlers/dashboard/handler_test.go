package dashboard_handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"streamvault_agent/db"
	"streamvault_agent/db/repository"
	streamvault_client "streamvault_agent/internal/client/streamvault-client"
	"streamvault_agent/internal/models"
	"streamvault_agent/internal/service/chapters"
	"streamvault_agent/internal/service/cleanup"
	"streamvault_agent/internal/service/notification"
	"streamvault_agent/internal/service/reconcile"
	"streamvault_agent/internal/service/recording"
	"streamvault_agent/internal/service/streamer"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type upstream struct {
	mu          sync.Mutex
	savedPolicy string
	forced      []string
}

func (u *upstream) handler() http.Handler {
	r := mux.NewRouter()
	write := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(body)) }
	}

	r.HandleFunc("/api/streamers", write(`{"data":[{"id":1,"username":"alpha","display_name":"Alpha","is_live":true}],"error":null}`)).Methods(http.MethodGet)
	r.HandleFunc("/api/streamers/validate/{username}", write(`{"valid":true,"message":"ok"}`)).Methods(http.MethodGet)
	r.HandleFunc("/api/streamers/{id:[0-9]+}/streams", write(`[{"id":10,"streamer_id":1,"title":"Sunday","category_name":"Chess",
		"started_at":"2026-04-01T18:00:00Z","ended_at":"2026-04-01T19:00:00Z"}]`)).Methods(http.MethodGet)
	r.HandleFunc("/api/streamers/{id:[0-9]+}/streams/{sid:[0-9]+}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"storage offline"}`))
	}).Methods(http.MethodDelete)
	r.HandleFunc("/api/streamers/{username}", write(`{"id":5,"username":"testuser"}`)).Methods(http.MethodPost)
	r.HandleFunc("/api/streams/{id:[0-9]+}/chapters", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/recording/force/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.forced = append(u.forced, mux.Vars(r)["id"])
		u.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/settings/cleanup-policy", write(`{"type":"count","threshold":10,"preserve_favorites":true}`)).Methods(http.MethodGet)
	r.HandleFunc("/api/settings/cleanup-policy", func(w http.ResponseWriter, r *http.Request) {
		var policy models.CleanupPolicy
		_ = jsoniter.NewDecoder(r.Body).Decode(&policy)
		s, _ := jsoniter.MarshalToString(policy)
		u.mu.Lock()
		u.savedPolicy = s
		u.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPut)
	r.HandleFunc("/admin/websocket-connections", write(`{"active_connections":2,"connections":[]}`)).Methods(http.MethodGet)

	return r
}

type fixture struct {
	router   *mux.Router
	upstream *upstream
	services Services
}

func newFixture(t *testing.T) *fixture {
	up := &upstream{}
	srv := httptest.NewServer(up.handler())
	t.Cleanup(srv.Close)

	conn, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.RunMigrations(conn.DB, "sqlite", false))
	repo := repository.NewDBRepository(conn)

	ctx := context.Background()
	client := streamvault_client.NewStreamVaultClient(srv.URL, "token")
	streamers := reconcile.NewStreamerStore(client, reconcile.Options{})
	require.NoError(t, streamers.Sync(ctx))
	streams := reconcile.NewStreamStore(client, reconcile.Options{})

	services := Services{
		Streamers:     streamers,
		Streams:       streams,
		Streamer:      streamer.NewStreamerService(client, streamers),
		Recording:     recording.NewRecordingService(client, streamers),
		Library:       recording.NewStreamLibrary(client, streams),
		Chapters:      chapters.NewChapterService(client, streams),
		Notifications: notification.NewNotificationService(notification.NewQueue(10, time.Minute), repo, 100, streamers, nil),
		Cleanup:       cleanup.NewCleanupService(client, repo),
		Admin:         client,
	}

	return &fixture{
		router:   NewDashboardHandler(services).Router(),
		upstream: up,
		services: services,
	}
}

func (f *fixture) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var resp map[string]interface{}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestGetStreamers(t *testing.T) {
	f := newFixture(t)

	rec, resp := f.do(t, http.MethodGet, "/streamers", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp["data"].(map[string]interface{})
	list := data["streamers"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "alpha", list[0].(map[string]interface{})["username"])
}

func TestAddStreamer(t *testing.T) {
	f := newFixture(t)

	rec, resp := f.do(t, http.MethodPost, "/streamers", `{"username":"TestUser"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := resp["data"].(map[string]interface{})
	form := data["form"].(map[string]interface{})
	assert.Equal(t, "", form["username"])
	assert.Equal(t, false, form["is_valid"])

	_, ok := f.services.Streamers.Get(5)
	assert.True(t, ok)
}

func TestAddStreamer_EmptyName(t *testing.T) {
	f := newFixture(t)

	rec, resp := f.do(t, http.MethodPost, "/streamers", `{"username":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.ErrInvalidUsername.Error(), resp["error"])
}

func TestStartRecording(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodPost, "/streamers/1/recording/start", "")
	require.Equal(t, http.StatusOK, rec.Code)

	s, _ := f.services.Streamers.Get(1)
	assert.True(t, s.IsRecording)
	assert.Equal(t, []string{"1"}, f.upstream.forced)

	rec, _ = f.do(t, http.MethodPost, "/streamers/99/recording/start", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteStream_RollsBackOnUpstreamError(t *testing.T) {
	f := newFixture(t)

	rec, resp := f.do(t, http.MethodGet, "/streamers/1/streams", "")
	require.Equal(t, http.StatusOK, rec.Code)
	streams := resp["data"].(map[string]interface{})["streams"].([]interface{})
	require.Len(t, streams, 1)

	rec, resp = f.do(t, http.MethodDelete, "/streamers/1/streams/10", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, resp["error"], "storage offline")

	kept, tracked := f.services.Streams.Streams(1)
	require.True(t, tracked)
	assert.Len(t, kept, 1)
}

func TestGetChapters(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/streamers/1/streams", "")

	rec, resp := f.do(t, http.MethodGet, "/streams/10/chapters?at=120", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := resp["data"].(map[string]interface{})
	assert.Len(t, data["chapters"], 1)
	assert.Equal(t, "Chess", data["current"].(map[string]interface{})["category_name"])

	rec, _ = f.do(t, http.MethodGet, "/streams/10/chapters?at=soon", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/streams/77/chapters", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.services.Notifications.HandleEvent(ctx, models.Envelope{
		Type: models.EventStreamOnline,
		Data: map[string]interface{}{"streamer_id": 1.0},
	})
	require.NoError(t, err)

	rec, resp := f.do(t, http.MethodGet, "/notifications", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp["data"], 1)

	rec, _ = f.do(t, http.MethodPost, "/notifications/"+n.ID+"/read", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodDelete, "/notifications/"+n.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = f.do(t, http.MethodDelete, "/notifications/"+n.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, resp = f.do(t, http.MethodGet, "/notifications/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	history := resp["data"].([]interface{})
	require.Len(t, history, 1)
	assert.Equal(t, true, history[0].(map[string]interface{})["read"])

	rec, _ = f.do(t, http.MethodDelete, "/notifications/history", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCleanupPolicy(t *testing.T) {
	f := newFixture(t)

	rec, resp := f.do(t, http.MethodGet, "/settings/cleanup-policy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "count", resp["data"].(map[string]interface{})["type"])

	rec, resp = f.do(t, http.MethodPut, "/settings/cleanup-policy", `{"type":"size","threshold":"20 GB"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.InDelta(t, 20.0, resp["data"].(map[string]interface{})["threshold"], 0.0001)
	assert.Contains(t, f.upstream.savedPolicy, `"type":"size"`)

	rec, _ = f.do(t, http.MethodPut, "/settings/cleanup-policy", `{"type":"size","threshold":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.do(t, http.MethodPut, "/settings/cleanup-policy", `{"type":"count","threshold":5,"preserve_timeframe":{"weekdays":[9]}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminAndMetrics(t *testing.T) {
	f := newFixture(t)

	rec, resp := f.do(t, http.MethodGet, "/admin/websocket-connections", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, resp["data"].(map[string]interface{})["active_connections"])

	rec, _ = f.do(t, http.MethodGet, "/events/recent", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsRec := httptest.NewRecorder()
	f.router.ServeHTTP(metricsRec, req)
	assert.Equal(t, http.StatusOK, metricsRec.Code)

	rec, resp = f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, resp["data"].(map[string]interface{})["streamers"])
}
