// Package mirror republishes websocket events to Redis so other processes can follow them.
package mirror

import (
	"context"
	"fmt"

	"streamvault_agent/internal/models"
	"streamvault_agent/internal/service/eventbus"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	channelPrefix = "streamvault:events:"
	recentKey     = "streamvault:events:recent"
	recentMax     = 100
)

func Channel(t models.EventType) string {
	return fmt.Sprintf("%s%s", channelPrefix, t)
}

type Mirror struct {
	rdb *redis.Client
}

func NewMirror(rdb *redis.Client) *Mirror {
	return &Mirror{rdb: rdb}
}

// Subscribe mirrors every event type.
func (m *Mirror) Subscribe(bus *eventbus.Bus) *eventbus.Subscription {
	return bus.Subscribe("redis-mirror", nil, func(ctx context.Context, env models.Envelope) {
		if err := m.Publish(ctx, env); err != nil {
			logrus.Infof("could not mirror %s event: %v", env.Type, err)
		}
	})
}

func (m *Mirror) Publish(ctx context.Context, env models.Envelope) error {
	if m.rdb == nil {
		return nil
	}

	payload, err := jsoniter.MarshalToString(env)
	if err != nil {
		return errors.Wrap(err, "MarshalToString")
	}

	pipe := m.rdb.TxPipeline()
	pipe.Publish(ctx, Channel(env.Type), payload)
	pipe.LPush(ctx, recentKey, payload)
	pipe.LTrim(ctx, recentKey, 0, recentMax-1)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "Exec")
	}

	return nil
}

// Recent returns the newest mirrored events first.
func (m *Mirror) Recent(ctx context.Context, limit int) ([]models.Envelope, error) {
	if m.rdb == nil {
		return nil, nil
	}
	if limit < 1 || limit > recentMax {
		limit = recentMax
	}

	raw, err := m.rdb.LRange(ctx, recentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "LRange")
	}

	res := make([]models.Envelope, 0, len(raw))
	for _, r := range raw {
		var env models.Envelope
		if err := jsoniter.UnmarshalFromString(r, &env); err != nil {
			continue
		}
		res = append(res, env)
	}

	return res, nil
}
