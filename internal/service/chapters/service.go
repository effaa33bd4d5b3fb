package chapters

import (
	"context"
	"net/http"
	"time"

	"streamvault_agent/internal/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Client interface {
	GetChapters(ctx context.Context, streamID int64) ([]models.Chapter, error)
}

type StreamLookup interface {
	Stream(streamID int64) (models.Stream, bool)
}

// Navigation is the chapter list with the position of a playback offset in it.
type Navigation struct {
	Chapters []models.Chapter `json:"chapters"`
	Offset   float64          `json:"offset"`
	Current  *models.Chapter  `json:"current"`
	Next     *models.Chapter  `json:"next"`
	Previous *models.Chapter  `json:"previous"`
}

type ChapterService struct {
	client  Client
	streams StreamLookup
	now     func() time.Time
}

func NewChapterService(client Client, streams StreamLookup) *ChapterService {
	return &ChapterService{client: client, streams: streams, now: time.Now}
}

// Chapters prefers the server's chapters and derives them from the reconciled stream otherwise.
func (cs *ChapterService) Chapters(ctx context.Context, streamID int64) ([]models.Chapter, error) {

	remote, err := cs.client.GetChapters(ctx, streamID)
	if err == nil && len(remote) > 0 {
		return remote, nil
	}
	if err != nil {
		logrus.Debugf("chapters for stream %d from api: %v", streamID, err)
	}

	stream, ok := cs.streams.Stream(streamID)
	if !ok {
		if apiErr, isAPI := errors.Cause(err).(*models.APIError); err == nil || (isAPI && apiErr.Status == http.StatusNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, errors.Wrap(err, "GetChapters")
	}

	return Derive(stream, cs.now()), nil
}

func (cs *ChapterService) Navigate(ctx context.Context, streamID int64, offset float64) (*Navigation, error) {

	list, err := cs.Chapters(ctx, streamID)
	if err != nil {
		return nil, err
	}

	nav := &Navigation{Chapters: list, Offset: offset}

	if i := ChapterAt(list, offset); i >= 0 {
		current := list[i]
		nav.Current = &current
	}
	if c, ok := Next(list, offset); ok {
		nav.Next = &c
	}
	if c, ok := Previous(list, offset); ok {
		nav.Previous = &c
	}

	return nav, nil
}
