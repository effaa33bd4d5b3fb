package reconcile

import (
	"context"
	"sync"
	"time"

	"streamvault_agent/internal/metrics"
	"streamvault_agent/internal/models"
	"streamvault_agent/internal/service/eventbus"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	streamerStoreName   = "streamers"
	streamerStoreBGSync = "streamerStore_BGSync"
)

var StreamerEvents = []models.EventType{
	models.EventStreamOnline,
	models.EventStreamOffline,
	models.EventChannelUpdate,
	models.EventStreamUpdate,
	models.EventRecordingStarted,
	models.EventRecordingCompleted,
	models.EventRecordingFailed,
	models.EventStreamerAdded,
	models.EventStreamerDeleted,
}

type StreamerFetcher interface {
	GetStreamers(ctx context.Context) ([]models.Streamer, error)
}

// StreamerStore is the locally reconciled list of streamers. Its content is
// provisional: every Sync replaces it with what the API returns.
type StreamerStore struct {
	mu        sync.RWMutex
	streamers []models.Streamer
	lastSync  time.Time

	fetcher StreamerFetcher
	opts    Options
}

func NewStreamerStore(fetcher StreamerFetcher, opts Options) *StreamerStore {
	if opts.MissPolicy == "" {
		opts.MissPolicy = MissIgnore
	}
	return &StreamerStore{
		fetcher: fetcher,
		opts:    opts,
	}
}

func (ss *StreamerStore) Subscribe(bus *eventbus.Bus) *eventbus.Subscription {
	return bus.Subscribe(streamerStoreName, StreamerEvents, func(ctx context.Context, env models.Envelope) {
		ss.Apply(ctx, env)
	})
}

// Sync replaces the local list with the API's.
func (ss *StreamerStore) Sync(ctx context.Context) error {
	streamers, err := ss.fetcher.GetStreamers(ctx)
	if err != nil {
		return errors.Wrap(err, "GetStreamers")
	}

	ss.mu.Lock()
	ss.streamers = streamers
	ss.lastSync = time.Now()
	ss.mu.Unlock()

	return nil
}

func (ss *StreamerStore) SyncBg(ctx context.Context, interval time.Duration) {
	syncBg(ctx, streamerStoreBGSync, ss, interval)
}

// Apply reconciles one event into the store and reports whether an entity
// was changed.
func (ss *StreamerStore) Apply(ctx context.Context, env models.Envelope) bool {
	id, ok := env.StreamerID()
	if !ok {
		logrus.Debugf("streamer store: %s without streamer id, skipped", env.Type)
		return false
	}

	var applied bool

	switch env.Type {
	case models.EventStreamerDeleted:
		_, applied = ss.Remove(id)
	case models.EventStreamerAdded:
		ss.mu.Lock()
		if i := ss.indexOf(id); i >= 0 {
			PatchStreamer(&ss.streamers[i], env)
		} else {
			streamer := models.Streamer{ID: id}
			PatchStreamer(&streamer, env)
			ss.streamers = append(ss.streamers, streamer)
		}
		ss.mu.Unlock()
		applied = true
	default:
		ss.mu.Lock()
		if i := ss.indexOf(id); i >= 0 {
			PatchStreamer(&ss.streamers[i], env)
			applied = true
		}
		ss.mu.Unlock()

		if !applied {
			ss.miss(ctx, env, id)
			return false
		}
	}

	if applied {
		metrics.EventsApplied.WithLabelValues(streamerStoreName, string(env.Type)).Inc()
		if ss.opts.RefetchAfterApply {
			ss.refetch(ctx, "hint")
		}
	}

	return applied
}

func (ss *StreamerStore) miss(ctx context.Context, env models.Envelope, id int64) {
	metrics.EventsMissed.WithLabelValues(streamerStoreName, string(ss.opts.MissPolicy)).Inc()

	if ss.opts.MissPolicy == MissRefetch {
		logrus.Debugf("streamer store: %s for unknown streamer %d, refetching", env.Type, id)
		ss.refetch(ctx, "miss")
		return
	}

	logrus.Debugf("streamer store: %s for unknown streamer %d, ignored", env.Type, id)
}

// refetch reloads the store in the background. Overlapping refetches are not
// collapsed, the last one to finish wins.
func (ss *StreamerStore) refetch(ctx context.Context, reason string) {
	metrics.Refetches.WithLabelValues(streamerStoreName, reason).Inc()

	go func() {
		if err := ss.Sync(ctx); err != nil {
			logrus.Errorf("streamer store refetch (%s): %v", reason, err)
		}
	}()
}

func (ss *StreamerStore) List() []models.Streamer {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	res := make([]models.Streamer, len(ss.streamers))
	copy(res, ss.streamers)
	return res
}

func (ss *StreamerStore) Get(id int64) (models.Streamer, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	if i := ss.indexOf(id); i >= 0 {
		return ss.streamers[i], true
	}
	return models.Streamer{}, false
}

// Update runs fn on the stored streamer and returns its state before fn.
func (ss *StreamerStore) Update(id int64, fn func(s *models.Streamer)) (prev models.Streamer, ok bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	i := ss.indexOf(id)
	if i < 0 {
		return models.Streamer{}, false
	}

	prev = ss.streamers[i]
	fn(&ss.streamers[i])
	return prev, true
}

func (ss *StreamerStore) Upsert(streamer models.Streamer) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if i := ss.indexOf(streamer.ID); i >= 0 {
		ss.streamers[i] = streamer
		return
	}
	ss.streamers = append(ss.streamers, streamer)
}

func (ss *StreamerStore) Remove(id int64) (models.Streamer, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	i := ss.indexOf(id)
	if i < 0 {
		return models.Streamer{}, false
	}

	removed := ss.streamers[i]
	ss.streamers = append(ss.streamers[:i:i], ss.streamers[i+1:]...)
	return removed, true
}

func (ss *StreamerStore) LastSync() time.Time {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.lastSync
}

// indexOf must be called with mu held.
func (ss *StreamerStore) indexOf(id int64) int {
	for i := range ss.streamers {
		if ss.streamers[i].ID == id {
			return i
		}
	}
	return -1
}
