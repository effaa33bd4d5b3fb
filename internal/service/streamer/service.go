package streamer

import (
	"context"

	"streamvault_agent/internal/metrics"
	"streamvault_agent/internal/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Client interface {
	FormClient
	DeleteStreamer(ctx context.Context, id int64) error
	TwitchAuthURL(ctx context.Context) (string, error)
	FollowedChannels(ctx context.Context, accessToken string) ([]models.FollowedChannel, error)
	ImportStreamers(ctx context.Context, channels []models.FollowedChannel) (*models.ImportStreamersResponse, error)
	GetSubscriptions(ctx context.Context) ([]models.Subscription, error)
	DeleteAllSubscriptions(ctx context.Context) error
	ResubscribeAll(ctx context.Context) error
}

type Store interface {
	Upsert(streamer models.Streamer)
	Remove(id int64) (models.Streamer, bool)
	Sync(ctx context.Context) error
}

type StreamerService struct {
	client Client
	store  Store
}

func NewStreamerService(client Client, store Store) *StreamerService {
	return &StreamerService{client: client, store: store}
}

// Add runs the whole form flow for one username.
func (ss *StreamerService) Add(ctx context.Context, username string) (form *Form, streamer *models.Streamer, err error) {

	form = NewForm(ss.client, username)

	err = form.Validate(ctx)
	if err != nil {
		return form, nil, err
	}

	streamer, err = form.Submit(ctx)
	if err != nil {
		return form, nil, err
	}

	if streamer != nil && streamer.ID != 0 {
		ss.store.Upsert(*streamer)
	}

	return form, streamer, nil
}

// Delete removes the streamer locally first and puts it back if the API call fails.
// A streamer the local list does not know is still deleted upstream.
func (ss *StreamerService) Delete(ctx context.Context, id int64) error {

	prev, tracked := ss.store.Remove(id)

	err := ss.client.DeleteStreamer(ctx, id)
	if err != nil {
		if tracked {
			ss.store.Upsert(prev)
			metrics.Rollbacks.WithLabelValues("delete_streamer").Inc()
		}
		return errors.Wrap(err, "DeleteStreamer")
	}

	return nil
}

func (ss *StreamerService) AuthURL(ctx context.Context) (string, error) {
	u, err := ss.client.TwitchAuthURL(ctx)
	return u, errors.Wrap(err, "TwitchAuthURL")
}

func (ss *StreamerService) FollowedChannels(ctx context.Context, accessToken string) ([]models.FollowedChannel, error) {
	if accessToken == "" {
		return nil, errors.New("access token is required")
	}
	channels, err := ss.client.FollowedChannels(ctx, accessToken)
	if err != nil {
		return nil, errors.Wrap(err, "FollowedChannels")
	}
	return channels, nil
}

// Import adds the selected channels and resyncs the streamer list afterwards.
func (ss *StreamerService) Import(ctx context.Context, channels []models.FollowedChannel) (*models.ImportStreamersResponse, error) {

	if len(channels) == 0 {
		return &models.ImportStreamersResponse{}, nil
	}

	res, err := ss.client.ImportStreamers(ctx, channels)
	if err != nil {
		return nil, errors.Wrap(err, "ImportStreamers")
	}

	logrus.Infof("twitch import: added %d, skipped %d, failed %d", len(res.Added), len(res.Skipped), len(res.Failed))

	if err := ss.store.Sync(ctx); err != nil {
		logrus.Infof("could not resync streamers after import: %v", err)
	}

	return res, nil
}

func (ss *StreamerService) Subscriptions(ctx context.Context) ([]models.Subscription, error) {
	subs, err := ss.client.GetSubscriptions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "GetSubscriptions")
	}
	return subs, nil
}

func (ss *StreamerService) ResubscribeAll(ctx context.Context) error {
	return errors.Wrap(ss.client.ResubscribeAll(ctx), "ResubscribeAll")
}

func (ss *StreamerService) DeleteAllSubscriptions(ctx context.Context) error {
	return errors.Wrap(ss.client.DeleteAllSubscriptions(ctx), "DeleteAllSubscriptions")
}
