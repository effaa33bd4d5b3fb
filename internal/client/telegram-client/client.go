package telegram_client

import (
	"context"

	"streamvault_agent/internal/models"
	formater "streamvault_agent/internal/utils/formater"

	tgBotApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type messageSender interface {
	Send(c tgBotApi.Chattable) (tgBotApi.Message, error)
}

// TelegramClient relays dashboard notifications to a single chat.
type TelegramClient struct {
	bot    messageSender
	chatID int64
}

func NewTelegramClient(bot *tgBotApi.BotAPI, chatID int64) *TelegramClient {
	return &TelegramClient{bot: bot, chatID: chatID}
}

func newTelegramClientWithSender(bot messageSender, chatID int64) *TelegramClient {
	return &TelegramClient{bot: bot, chatID: chatID}
}

func (tc *TelegramClient) Relay(ctx context.Context, n models.Notification) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgBotApi.NewMessage(tc.chatID, formater.TwitchTagToTelegram(n.Message))
	msg.ParseMode = tgBotApi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if n.StreamerLogin != "" {
		msg = formater.AttachChannelButton(msg, formater.ChannelLink(n.StreamerLogin), "Open channel")
	}

	_, err := tc.bot.Send(msg)
	if err == nil {
		return nil
	}

	// markdown parse errors are common for titles with stray symbols
	logrus.Infof("Relay: telegram markdown send error: %v", err)

	msg.ParseMode = ""
	msg.Text = formater.ClearTags(n.Message)

	_, err = tc.bot.Send(msg)
	if err != nil {
		return errors.Wrap(err, "Send")
	}

	return nil
}
