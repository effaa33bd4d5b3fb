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
	streamStoreName   = "streams"
	streamStoreBGSync = "streamStore_BGSync"
)

var StreamEvents = []models.EventType{
	models.EventStreamOnline,
	models.EventStreamOffline,
	models.EventChannelUpdate,
	models.EventStreamUpdate,
	models.EventRecordingCompleted,
}

type StreamFetcher interface {
	GetStreams(ctx context.Context, streamerID int64) ([]models.Stream, error)
}

// StreamStore caches the streams of the streamers that were loaded through
// Load. Events for streamers that were never loaded are not tracked.
type StreamStore struct {
	mu      sync.RWMutex
	streams map[int64][]models.Stream

	fetcher StreamFetcher
	opts    Options
}

func NewStreamStore(fetcher StreamFetcher, opts Options) *StreamStore {
	if opts.MissPolicy == "" {
		opts.MissPolicy = MissIgnore
	}
	return &StreamStore{
		streams: make(map[int64][]models.Stream),
		fetcher: fetcher,
		opts:    opts,
	}
}

func (ss *StreamStore) Subscribe(bus *eventbus.Bus) *eventbus.Subscription {
	return bus.Subscribe(streamStoreName, StreamEvents, func(ctx context.Context, env models.Envelope) {
		ss.Apply(ctx, env)
	})
}

// Load fetches the streams of streamerID and starts tracking them.
func (ss *StreamStore) Load(ctx context.Context, streamerID int64) ([]models.Stream, error) {
	streams, err := ss.fetcher.GetStreams(ctx, streamerID)
	if err != nil {
		return nil, errors.Wrap(err, "GetStreams")
	}
	if streams == nil {
		streams = []models.Stream{}
	}

	ss.mu.Lock()
	ss.streams[streamerID] = streams
	ss.mu.Unlock()

	return copyStreams(streams), nil
}

// Sync reloads every tracked streamer. It keeps going past individual
// failures and returns the first one.
func (ss *StreamStore) Sync(ctx context.Context) error {
	var firstErr error
	for _, id := range ss.Tracked() {
		if _, err := ss.Load(ctx, id); err != nil {
			logrus.Errorf("stream store sync for streamer %d: %v", id, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (ss *StreamStore) SyncBg(ctx context.Context, interval time.Duration) {
	syncBg(ctx, streamStoreBGSync, ss, interval)
}

func (ss *StreamStore) Apply(ctx context.Context, env models.Envelope) bool {
	streamerID, ok := env.StreamerID()
	if !ok {
		return false
	}

	ss.mu.Lock()
	streams, tracked := ss.streams[streamerID]
	if !tracked {
		ss.mu.Unlock()
		return false
	}

	i := ss.targetIndex(streams, env)
	if i < 0 && env.Type == models.EventStreamOnline {
		streams = append([]models.Stream{newLiveStream(streamerID, env)}, streams...)
		ss.streams[streamerID] = streams
		i = 0
	}
	applied := i >= 0
	if applied {
		st := &streams[i]
		switch env.Type {
		case models.EventStreamOffline:
			PatchStream(st, env)
			ended := eventTime(env, "ended_at", "timestamp")
			st.EndedAt = &ended
		default:
			PatchStream(st, env)
		}
	}
	ss.mu.Unlock()

	if !applied {
		metrics.EventsMissed.WithLabelValues(streamStoreName, string(ss.opts.MissPolicy)).Inc()
		if ss.opts.MissPolicy == MissRefetch {
			ss.refetch(ctx, streamerID, "miss")
		}
		return false
	}

	metrics.EventsApplied.WithLabelValues(streamStoreName, string(env.Type)).Inc()
	if ss.opts.RefetchAfterApply {
		ss.refetch(ctx, streamerID, "hint")
	}

	return true
}

// targetIndex picks the stream an event refers to: an explicit stream_id
// when given, the live stream otherwise. Recording events may also land on
// the most recent stream. Must be called with mu held.
func (ss *StreamStore) targetIndex(streams []models.Stream, env models.Envelope) int {
	if id, ok := env.ID("stream_id"); ok {
		for i := range streams {
			if streams[i].ID == id {
				return i
			}
		}
		return -1
	}

	for i := range streams {
		if streams[i].IsLive() {
			return i
		}
	}

	if env.Type == models.EventRecordingCompleted {
		latest := -1
		for i := range streams {
			if latest < 0 || streams[i].StartedAt.After(streams[latest].StartedAt) {
				latest = i
			}
		}
		return latest
	}

	return -1
}

// newLiveStream is the provisional stream created when a streamer goes live
// before the API has been asked about it.
func newLiveStream(streamerID int64, env models.Envelope) models.Stream {
	st := models.Stream{
		StreamerID: streamerID,
		StartedAt:  eventTime(env, "started_at", "timestamp"),
	}
	if id, ok := env.ID("stream_id"); ok {
		st.ID = id
	}
	if v, ok := env.String("category_name"); ok {
		st.CategoryName = v
	}
	if v, ok := env.String("title"); ok {
		st.Title = v
	}
	return st
}

func (ss *StreamStore) refetch(ctx context.Context, streamerID int64, reason string) {
	metrics.Refetches.WithLabelValues(streamStoreName, reason).Inc()

	go func() {
		if _, err := ss.Load(ctx, streamerID); err != nil {
			logrus.Errorf("stream store refetch (%s) for streamer %d: %v", reason, streamerID, err)
		}
	}()
}

func (ss *StreamStore) Streams(streamerID int64) ([]models.Stream, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	streams, ok := ss.streams[streamerID]
	if !ok {
		return nil, false
	}
	return copyStreams(streams), true
}

func (ss *StreamStore) Stream(streamID int64) (models.Stream, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	for _, streams := range ss.streams {
		for _, st := range streams {
			if st.ID == streamID {
				return st, true
			}
		}
	}
	return models.Stream{}, false
}

func (ss *StreamStore) Tracked() []int64 {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	ids := make([]int64, 0, len(ss.streams))
	for id := range ss.streams {
		ids = append(ids, id)
	}
	return ids
}

// Remove drops one stream and returns it with its position, for Restore.
func (ss *StreamStore) Remove(streamerID, streamID int64) (models.Stream, int, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	streams := ss.streams[streamerID]
	for i := range streams {
		if streams[i].ID == streamID {
			removed := streams[i]
			ss.streams[streamerID] = append(streams[:i:i], streams[i+1:]...)
			return removed, i, true
		}
	}
	return models.Stream{}, -1, false
}

// Restore puts a removed stream back at its former position.
func (ss *StreamStore) Restore(streamerID int64, st models.Stream, pos int) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	streams := ss.streams[streamerID]
	if pos < 0 || pos > len(streams) {
		pos = len(streams)
	}

	restored := make([]models.Stream, 0, len(streams)+1)
	restored = append(restored, streams[:pos]...)
	restored = append(restored, st)
	restored = append(restored, streams[pos:]...)
	ss.streams[streamerID] = restored
}

// Replace sets the tracked streams of a streamer, returning the previous ones
// and whether the streamer was tracked before.
func (ss *StreamStore) Replace(streamerID int64, streams []models.Stream) ([]models.Stream, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	prev, tracked := ss.streams[streamerID]
	ss.streams[streamerID] = streams
	return prev, tracked
}

func (ss *StreamStore) Forget(streamerID int64) {
	ss.mu.Lock()
	delete(ss.streams, streamerID)
	ss.mu.Unlock()
}

func copyStreams(streams []models.Stream) []models.Stream {
	res := make([]models.Stream, len(streams))
	for i, st := range streams {
		st.CategoryChanges = append([]models.CategoryChange(nil), st.CategoryChanges...)
		res[i] = st
	}
	return res
}
