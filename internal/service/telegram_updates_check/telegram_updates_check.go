package telegram_updates_check

import (
	"context"
	"strings"
	"time"

	"streamvault_agent/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	telegramUpdatesCheckBGSync = "telegramUpdatesCheck_BGSync"

	// messages older than this were sent while the agent was down
	staleMessageAge = 12 * time.Second
)

type updatesBot interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type StreamerLister interface {
	List() []models.Streamer
}

type NotificationHistory interface {
	History(ctx context.Context) ([]models.Notification, error)
}

// TelegramUpdatesCheckService answers bot commands from the configured chat
// with the agent's reconciled state.
type TelegramUpdatesCheckService struct {
	bot           updatesBot
	chatID        int64
	streamers     StreamerLister
	notifications NotificationHistory
	now           func() time.Time
}

func NewTelegramUpdatesCheckService(
	bot *tgbotapi.BotAPI,
	chatID int64,
	streamers StreamerLister,
	notifications NotificationHistory,
) *TelegramUpdatesCheckService {
	return newService(bot, chatID, streamers, notifications)
}

func newService(bot updatesBot, chatID int64, streamers StreamerLister, notifications NotificationHistory) *TelegramUpdatesCheckService {
	return &TelegramUpdatesCheckService{
		bot:           bot,
		chatID:        chatID,
		streamers:     streamers,
		notifications: notifications,
		now:           time.Now,
	}
}

// RegisterCommands publishes the command list shown in telegram clients.
func (tmcs *TelegramUpdatesCheckService) RegisterCommands() error {
	_, err := tmcs.bot.Request(tgbotapi.NewSetMyCommands(botCommands...))
	return errors.Wrap(err, "SetMyCommands")
}

// Run long-polls telegram for updates until ctx is done.
func (tmcs *TelegramUpdatesCheckService) Run(ctx context.Context) {
	logrus.Infof("started bg %s process", telegramUpdatesCheckBGSync)

	reader := tgbotapi.NewUpdate(0)
	reader.Timeout = 60

	updates := tmcs.bot.GetUpdatesChan(reader)

	for {
		select {
		case <-ctx.Done():
			tmcs.bot.StopReceivingUpdates()
			logrus.Infof("stoping bg %s process", telegramUpdatesCheckBGSync)
			return
		case updateInfo, ok := <-updates:
			if !ok {
				logrus.Infof("stoping bg %s process", telegramUpdatesCheckBGSync)
				return
			}

			msg, ok := tmcs.reply(ctx, updateInfo)
			if !ok {
				continue
			}

			if _, err := tmcs.bot.Send(msg); err != nil {
				logrus.Infof("telegram send message error: %v", err)
			}
		}
	}
}

func (tmcs *TelegramUpdatesCheckService) reply(ctx context.Context, updateInfo tgbotapi.Update) (msg tgbotapi.MessageConfig, ok bool) {

	if updateInfo.Message == nil || updateInfo.Message.Chat == nil {
		return msg, false
	}
	if tmcs.chatID != 0 && updateInfo.Message.Chat.ID != tmcs.chatID {
		logrus.Debugf("ignoring telegram message from chat %d", updateInfo.Message.Chat.ID)
		return msg, false
	}

	msg = tgbotapi.NewMessage(updateInfo.Message.Chat.ID, "")
	msg.ReplyToMessageID = updateInfo.Message.MessageID

	sentAt := time.Unix(int64(updateInfo.Message.Date), 0)
	if sentAt.Add(staleMessageAge).Before(tmcs.now()) {
		logrus.Debugf("skip reason: old time. message time %s", sentAt)
		return msg, false
	}

	command := strings.Fields(updateInfo.Message.Text)
	if len(command) == 0 {
		return msg, false
	}
	// commands in groups arrive as /live@botname
	name := strings.SplitN(command[0], "@", 2)[0]

	switch name {
	case startCommand:
		msg.Text = greetingMessage + "\n" + commandList()
	case commandsCommand:
		msg.Text = commandList()
	case pingCommand:
		msg.Text = "pong"
	case liveCommand:
		msg.Text = liveText(tmcs.streamers.List())
	case recordingCommand:
		msg.Text = recordingText(tmcs.streamers.List())
	case notificationsCommand:
		msg.Text = tmcs.notificationsText(ctx)
	default:
		return msg, false
	}

	return msg, true
}
