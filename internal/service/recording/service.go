package recording

import (
	"context"
	"sync"

	"streamvault_agent/internal/metrics"
	"streamvault_agent/internal/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type RecordingClient interface {
	ForceRecording(ctx context.Context, streamerID int64) error
	ForceOffline(ctx context.Context, streamerID int64) error
}

type StreamerState interface {
	Update(id int64, fn func(s *models.Streamer)) (models.Streamer, bool)
}

// RecordingService flips the local recording flag before the request and
// puts the previous value back if the request fails.
type RecordingService struct {
	client RecordingClient
	state  StreamerState

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

func NewRecordingService(client RecordingClient, state StreamerState) *RecordingService {
	return &RecordingService{
		client:   client,
		state:    state,
		inFlight: make(map[int64]struct{}),
	}
}

func (rs *RecordingService) StartRecording(ctx context.Context, streamerID int64) error {
	return rs.toggle(ctx, streamerID, true, "start", rs.client.ForceRecording)
}

func (rs *RecordingService) StopRecording(ctx context.Context, streamerID int64) error {
	return rs.toggle(ctx, streamerID, false, "stop", rs.client.ForceOffline)
}

func (rs *RecordingService) toggle(
	ctx context.Context,
	streamerID int64,
	recording bool,
	action string,
	call func(ctx context.Context, streamerID int64) error,
) error {

	if !rs.acquire(streamerID) {
		return errors.Wrapf(models.ErrAlreadyInProgress, "streamer %d", streamerID)
	}
	defer rs.release(streamerID)

	prev, ok := rs.state.Update(streamerID, func(s *models.Streamer) {
		s.IsRecording = recording
	})
	if !ok {
		return errors.Wrapf(models.ErrNotFound, "streamer %d", streamerID)
	}

	err := call(ctx, streamerID)
	if err != nil {
		rs.state.Update(streamerID, func(s *models.Streamer) {
			s.IsRecording = prev.IsRecording
		})
		metrics.Rollbacks.WithLabelValues("recording_" + action).Inc()
		logrus.Errorf("%s recording for streamer %d failed, local state reverted: %v", action, streamerID, err)

		return errors.Wrapf(err, "%s recording", action)
	}

	logrus.Infof("%s recording requested for streamer %d", action, streamerID)

	return nil
}

// acquire keeps a second toggle from racing the first one's rollback.
func (rs *RecordingService) acquire(streamerID int64) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if _, busy := rs.inFlight[streamerID]; busy {
		return false
	}
	rs.inFlight[streamerID] = struct{}{}
	return true
}

func (rs *RecordingService) release(streamerID int64) {
	rs.mu.Lock()
	delete(rs.inFlight, streamerID)
	rs.mu.Unlock()
}
