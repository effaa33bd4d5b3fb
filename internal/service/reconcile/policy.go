package reconcile

import (
	"context"
	"time"

	"streamvault_agent/internal/models"

	"github.com/sirupsen/logrus"
)

// MissPolicy decides what happens when an update event names an entity
// the store does not hold.
type MissPolicy string

var (
	MissIgnore  MissPolicy = "ignore"
	MissRefetch MissPolicy = "refetch"
)

func ParseMissPolicy(s string) MissPolicy {
	if MissPolicy(s) == MissRefetch {
		return MissRefetch
	}
	return MissIgnore
}

type Options struct {
	MissPolicy MissPolicy
	// RefetchAfterApply treats every applied event as a hint and reloads
	// the store from the API afterwards.
	RefetchAfterApply bool
}

type syncer interface {
	Sync(ctx context.Context) error
}

// syncBg runs s.Sync on every tick until ctx is done.
func syncBg(ctx context.Context, name string, s syncer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Infof("stoping bg %s process", name)
			return
		case <-ticker.C:
			logrus.Debugf("started bg %s process", name)
			err := s.Sync(ctx)
			if err != nil {
				logrus.Infof("could not resync %s: %v", name, err)
				continue
			}
			logrus.Debugf("%s resync was completed", name)
		}
	}
}

func eventTime(env models.Envelope, keys ...string) time.Time {
	for _, k := range keys {
		if t, ok := env.Time(k); ok {
			return t
		}
	}
	if !env.ReceivedAt.IsZero() {
		return env.ReceivedAt
	}
	return time.Now()
}
