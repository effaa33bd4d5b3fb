package recording

import (
	"context"

	"streamvault_agent/internal/metrics"
	"streamvault_agent/internal/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type StreamClient interface {
	DeleteStream(ctx context.Context, streamerID, streamID int64) error
	DeleteAllStreams(ctx context.Context, streamerID int64) (int, error)
}

type StreamState interface {
	Remove(streamerID, streamID int64) (models.Stream, int, bool)
	Restore(streamerID int64, st models.Stream, pos int)
	Replace(streamerID int64, streams []models.Stream) ([]models.Stream, bool)
	Forget(streamerID int64)
}

// StreamLibrary deletes recorded streams, removing them locally first.
type StreamLibrary struct {
	client StreamClient
	state  StreamState
}

func NewStreamLibrary(client StreamClient, state StreamState) *StreamLibrary {
	return &StreamLibrary{
		client: client,
		state:  state,
	}
}

func (sl *StreamLibrary) DeleteStream(ctx context.Context, streamerID, streamID int64) error {

	removed, pos, found := sl.state.Remove(streamerID, streamID)

	err := sl.client.DeleteStream(ctx, streamerID, streamID)
	if err != nil {
		if found {
			sl.state.Restore(streamerID, removed, pos)
			metrics.Rollbacks.WithLabelValues("delete_stream").Inc()
		}
		logrus.Errorf("delete stream %d of streamer %d failed: %v", streamID, streamerID, err)

		return errors.Wrap(err, "DeleteStream")
	}

	return nil
}

func (sl *StreamLibrary) DeleteAllStreams(ctx context.Context, streamerID int64) (int, error) {

	prev, tracked := sl.state.Replace(streamerID, []models.Stream{})

	deleted, err := sl.client.DeleteAllStreams(ctx, streamerID)
	if err != nil {
		if tracked {
			sl.state.Replace(streamerID, prev)
		} else {
			sl.state.Forget(streamerID)
		}
		metrics.Rollbacks.WithLabelValues("delete_all_streams").Inc()
		logrus.Errorf("delete all streams of streamer %d failed: %v", streamerID, err)

		return 0, errors.Wrap(err, "DeleteAllStreams")
	}

	logrus.Infof("deleted %d streams of streamer %d", deleted, streamerID)

	return deleted, nil
}
