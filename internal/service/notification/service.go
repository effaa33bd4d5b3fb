package notification

import (
	"context"

	"streamvault_agent/internal/models"
	"streamvault_agent/internal/service/eventbus"
	formater "streamvault_agent/internal/utils/formater"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const subscriptionName = "notifications"

var NotifiedEvents = []models.EventType{
	models.EventStreamOnline,
	models.EventStreamOffline,
	models.EventChannelUpdate,
	models.EventRecordingStarted,
	models.EventRecordingCompleted,
	models.EventRecordingFailed,
}

type HistoryRepository interface {
	BeginTransaction(ctx context.Context) (*sqlx.Tx, error)
	AddNotification(ctx context.Context, tx *sqlx.Tx, n models.Notification) error
	TrimNotifications(ctx context.Context, tx *sqlx.Tx, keep int) (int64, error)
	GetNotifications(ctx context.Context, limit int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	ClearNotifications(ctx context.Context) error
}

type StreamerLookup interface {
	Get(id int64) (models.Streamer, bool)
}

// Relay forwards a notification outside the agent, e.g. to a telegram chat.
type Relay interface {
	Relay(ctx context.Context, n models.Notification) error
}

type NotificationService struct {
	queue      *Queue
	history    HistoryRepository
	historyMax int
	streamers  StreamerLookup
	relay      Relay
}

func NewNotificationService(
	queue *Queue,
	history HistoryRepository,
	historyMax int,
	streamers StreamerLookup,
	relay Relay,
) *NotificationService {
	if historyMax < 1 {
		historyMax = models.DefaultNotificationHistoryMax
	}
	return &NotificationService{
		queue:      queue,
		history:    history,
		historyMax: historyMax,
		streamers:  streamers,
		relay:      relay,
	}
}

func (ns *NotificationService) Queue() *Queue {
	return ns.queue
}

func (ns *NotificationService) Subscribe(bus *eventbus.Bus) *eventbus.Subscription {
	return bus.Subscribe(subscriptionName, NotifiedEvents, func(ctx context.Context, env models.Envelope) {
		if _, err := ns.HandleEvent(ctx, env); err != nil {
			logrus.Errorf("notification for %s: %v", env.Type, err)
		}
	})
}

// HandleEvent turns env into a queued notification. Events that produce none return a zero value.
func (ns *NotificationService) HandleEvent(ctx context.Context, env models.Envelope) (n models.Notification, err error) {

	streamerID, _ := env.StreamerID()
	name, login := ns.streamerNames(env, streamerID)

	title, _ := env.String("title")
	category, _ := env.String("category_name")
	errMsg, _ := env.String("error")

	msg, ok := formater.NotificationMessage(env.Type, name, title, category, errMsg)
	if !ok {
		return n, nil
	}

	n = ns.queue.Push(models.Notification{
		Type:          env.Type,
		StreamerID:    streamerID,
		StreamerName:  name,
		StreamerLogin: login,
		Message:       msg,
	})

	if ns.relay != nil {
		go func(n models.Notification) {
			if err := ns.relay.Relay(context.Background(), n); err != nil {
				logrus.Infof("could not relay notification %s: %v", n.ID, err)
			}
		}(n)
	}

	err = ns.appendHistory(ctx, n)
	if err != nil {
		return n, errors.Wrap(err, "appendHistory")
	}

	return n, nil
}

func (ns *NotificationService) streamerNames(env models.Envelope, streamerID int64) (name, login string) {

	name, _ = env.String("streamer_name")
	login, _ = env.String("twitch_login")
	if login == "" {
		login, _ = env.String("username")
	}

	if ns.streamers != nil && streamerID != 0 {
		if s, ok := ns.streamers.Get(streamerID); ok {
			if name == "" {
				name = s.Name()
			}
			if login == "" {
				login = s.Username
			}
		}
	}

	return name, login
}

func (ns *NotificationService) appendHistory(ctx context.Context, n models.Notification) (err error) {

	tx, err := ns.history.BeginTransaction(ctx)
	if err != nil {
		return errors.Wrap(err, "BeginTransaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = ns.history.AddNotification(ctx, tx, n)
	if err != nil {
		return errors.Wrap(err, "AddNotification")
	}

	_, err = ns.history.TrimNotifications(ctx, tx, ns.historyMax)
	if err != nil {
		return errors.Wrap(err, "TrimNotifications")
	}

	return tx.Commit()
}

func (ns *NotificationService) History(ctx context.Context) ([]models.Notification, error) {
	data, err := ns.history.GetNotifications(ctx, ns.historyMax)
	if err != nil {
		return nil, errors.Wrap(err, "GetNotifications")
	}
	return data, nil
}

// MarkRead flags the notification in the live queue and in history.
func (ns *NotificationService) MarkRead(ctx context.Context, id string) error {

	inQueue := ns.queue.MarkRead(id)

	err := ns.history.MarkNotificationRead(ctx, id)
	if errors.Is(err, models.ErrNotFound) && inQueue {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "MarkNotificationRead")
	}

	return nil
}

func (ns *NotificationService) Dismiss(id string) error {
	if !ns.queue.Dismiss(id) {
		return models.ErrNotFound
	}
	return nil
}

func (ns *NotificationService) ClearHistory(ctx context.Context) error {
	return errors.Wrap(ns.history.ClearNotifications(ctx), "ClearNotifications")
}
