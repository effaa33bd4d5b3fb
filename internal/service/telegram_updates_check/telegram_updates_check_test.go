package telegram_updates_check

import (
	"context"
	"sync"
	"testing"
	"time"

	"streamvault_agent/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	mu       sync.Mutex
	updates  chan tgbotapi.Update
	sent     []tgbotapi.MessageConfig
	stopped  bool
	requests int
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return b.updates
}

func (b *fakeBot) StopReceivingUpdates() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (b *fakeBot) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) sentCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sent)
}

type staticStreamers []models.Streamer

func (s staticStreamers) List() []models.Streamer { return s }

type staticHistory struct {
	items []models.Notification
	err   error
}

func (h staticHistory) History(context.Context) ([]models.Notification, error) {
	return h.items, h.err
}

var now = time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)

func update(chatID int64, text string, age time.Duration) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 9,
		Chat:      &tgbotapi.Chat{ID: chatID},
		Date:      int(now.Add(-age).Unix()),
		Text:      text,
	}}
}

func newTestService(bot updatesBot, history NotificationHistory) *TelegramUpdatesCheckService {
	streamers := staticStreamers{
		{ID: 1, Username: "alpha", DisplayName: "Alpha", IsLive: true, IsRecording: true, Title: "speedruns", CategoryName: "Celeste"},
		{ID: 2, Username: "beta", IsLive: false},
	}
	s := newService(bot, 100, streamers, history)
	s.now = func() time.Time { return now }
	return s
}

func TestReply_Commands(t *testing.T) {
	s := newTestService(&fakeBot{}, staticHistory{items: []models.Notification{
		{Message: "Alpha is live", CreatedAt: now.Add(-time.Minute)},
	}})
	ctx := context.Background()

	tests := []struct {
		text string
		want string
	}{
		{"/ping", "pong"},
		{"/live", "Live now:\nAlpha [Celeste]: speedruns"},
		{"/live@streamvault_bot", "Live now:\nAlpha [Celeste]: speedruns"},
		{"/recording", "Recording: Alpha"},
		{"/notifications", "19:59 Alpha is live"},
	}

	for _, tt := range tests {
		msg, ok := s.reply(ctx, update(100, tt.text, time.Second))
		require.True(t, ok, tt.text)
		assert.Equal(t, tt.want, msg.Text, tt.text)
		assert.Equal(t, 9, msg.ReplyToMessageID)
	}

	msg, ok := s.reply(ctx, update(100, "/commands", 0))
	require.True(t, ok)
	assert.Contains(t, msg.Text, commandListHeader)
	assert.Contains(t, msg.Text, "/live - streamers live right now")
}

func TestReply_Ignored(t *testing.T) {
	s := newTestService(&fakeBot{}, staticHistory{})
	ctx := context.Background()

	_, ok := s.reply(ctx, update(555, "/ping", 0))
	assert.False(t, ok, "foreign chat")

	_, ok = s.reply(ctx, update(100, "/ping", time.Minute))
	assert.False(t, ok, "stale message")

	_, ok = s.reply(ctx, update(100, "hello there", 0))
	assert.False(t, ok, "not a command")

	_, ok = s.reply(ctx, tgbotapi.Update{})
	assert.False(t, ok, "no message")
}

func TestReply_EmptyState(t *testing.T) {
	s := newService(&fakeBot{}, 0, staticStreamers{}, staticHistory{err: errors.New("db down")})
	s.now = func() time.Time { return now }
	ctx := context.Background()

	msg, _ := s.reply(ctx, update(1, "/live", 0))
	assert.Equal(t, "Nobody is live", msg.Text)

	msg, _ = s.reply(ctx, update(1, "/recording", 0))
	assert.Equal(t, "Nothing is being recorded", msg.Text)

	msg, _ = s.reply(ctx, update(1, "/notifications", 0))
	assert.Equal(t, somethingWrong, msg.Text)
}

func TestRun_SendsRepliesAndStops(t *testing.T) {
	bot := &fakeBot{updates: make(chan tgbotapi.Update, 2)}
	s := newTestService(bot, staticHistory{})

	require.NoError(t, s.RegisterCommands())
	assert.Equal(t, 1, bot.requests)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	bot.updates <- update(100, "/ping", 0)
	bot.updates <- update(100, "ignored", 0)

	assert.Eventually(t, func() bool { return bot.sentCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.True(t, bot.stopped)
}
