package cleanup

import (
	"context"

	"streamvault_agent/internal/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Client interface {
	GetCleanupPolicy(ctx context.Context, streamerID int64) (*models.CleanupPolicy, error)
	SaveCleanupPolicy(ctx context.Context, streamerID int64, policy models.CleanupPolicy) error
	RunCleanup(ctx context.Context, streamerID int64) (*models.CleanupResult, error)
}

// Cache keeps the last policy seen per streamer, 0 being the global one.
type Cache interface {
	GetCleanupPolicy(ctx context.Context, streamerID int64) (*models.CleanupPolicy, error)
	SaveCleanupPolicy(ctx context.Context, streamerID int64, policy models.CleanupPolicy) error
}

type CleanupService struct {
	client Client
	cache  Cache
}

func NewCleanupService(client Client, cache Cache) *CleanupService {
	return &CleanupService{client: client, cache: cache}
}

// Load fetches the policy from the API and falls back to the local copy when the API is unreachable.
func (cs *CleanupService) Load(ctx context.Context, streamerID int64) (policy models.CleanupPolicy, err error) {

	remote, err := cs.client.GetCleanupPolicy(ctx, streamerID)
	if err == nil && remote != nil {
		cs.store(ctx, streamerID, *remote)
		return *remote, nil
	}

	apiErr := errors.Wrap(err, "GetCleanupPolicy")

	if cs.cache != nil {
		cached, cacheErr := cs.cache.GetCleanupPolicy(ctx, streamerID)
		if cacheErr != nil {
			logrus.Infof("could not read cached cleanup policy %d: %v", streamerID, cacheErr)
		}
		if cached != nil {
			logrus.Infof("using cached cleanup policy %d: %v", streamerID, apiErr)
			return *cached, nil
		}
	}

	if apiErr == nil {
		return models.DefaultCleanupPolicy(), nil
	}

	return policy, apiErr
}

func (cs *CleanupService) Save(ctx context.Context, streamerID int64, policy models.CleanupPolicy) error {

	if err := Validate(policy); err != nil {
		return err
	}

	err := cs.client.SaveCleanupPolicy(ctx, streamerID, policy)
	if err != nil {
		return errors.Wrap(err, "SaveCleanupPolicy")
	}

	cs.store(ctx, streamerID, policy)

	return nil
}

func (cs *CleanupService) Run(ctx context.Context, streamerID int64) (*models.CleanupResult, error) {

	if streamerID <= 0 {
		return nil, errors.Wrap(models.ErrInvalidPolicy, "cleanup needs a streamer")
	}

	res, err := cs.client.RunCleanup(ctx, streamerID)
	if err != nil {
		return nil, errors.Wrap(err, "RunCleanup")
	}

	logrus.Infof("cleanup for streamer %d removed %d recordings", streamerID, res.DeletedCount)

	return res, nil
}

func (cs *CleanupService) store(ctx context.Context, streamerID int64, policy models.CleanupPolicy) {
	if cs.cache == nil {
		return
	}
	if err := cs.cache.SaveCleanupPolicy(ctx, streamerID, policy); err != nil {
		logrus.Infof("could not cache cleanup policy %d: %v", streamerID, err)
	}
}
