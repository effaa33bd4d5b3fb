package telegram_updates_check

import (
	"context"
	"fmt"
	"strings"

	"streamvault_agent/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	startCommand         = "/start"
	commandsCommand      = "/commands"
	pingCommand          = "/ping"
	liveCommand          = "/live"
	recordingCommand     = "/recording"
	notificationsCommand = "/notifications"

	greetingMessage   = "Greetings! The bot reports what the StreamVault agent sees"
	commandListHeader = "Bot's command list:"
	commandFormat     = "%s - %s"
	somethingWrong    = "Something went wrong, try again later"

	notificationsShown = 5
)

var botCommands = []tgbotapi.BotCommand{
	{Command: commandsCommand, Description: "show this list"},
	{Command: pingCommand, Description: "check the bot is alive"},
	{Command: liveCommand, Description: "streamers live right now"},
	{Command: recordingCommand, Description: "streamers being recorded"},
	{Command: notificationsCommand, Description: "latest notifications"},
}

func commandList() string {
	var builder strings.Builder

	builder.WriteString(commandListHeader)
	for _, teleCommand := range botCommands {
		builder.WriteString("\n")
		builder.WriteString(fmt.Sprintf(commandFormat, teleCommand.Command, teleCommand.Description))
	}

	return builder.String()
}

func liveText(streamers []models.Streamer) string {
	var builder strings.Builder

	for _, s := range streamers {
		if !s.IsLive {
			continue
		}
		builder.WriteString("\n")
		builder.WriteString(s.Name())
		if s.CategoryName != "" {
			builder.WriteString(fmt.Sprintf(" [%s]", s.CategoryName))
		}
		if s.Title != "" {
			builder.WriteString(": " + s.Title)
		}
	}

	if builder.Len() == 0 {
		return "Nobody is live"
	}

	return "Live now:" + builder.String()
}

func recordingText(streamers []models.Streamer) string {
	var names []string
	for _, s := range streamers {
		if s.IsRecording {
			names = append(names, s.Name())
		}
	}

	if len(names) == 0 {
		return "Nothing is being recorded"
	}

	return "Recording: " + strings.Join(names, ", ")
}

func (tmcs *TelegramUpdatesCheckService) notificationsText(ctx context.Context) string {
	history, err := tmcs.notifications.History(ctx)
	if err != nil {
		logrus.Errorf("Failed to get notification history: %v", err)
		return somethingWrong
	}

	if len(history) == 0 {
		return "No notifications yet"
	}

	if len(history) > notificationsShown {
		history = history[:notificationsShown]
	}

	var builder strings.Builder
	for i, n := range history {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("%s %s", n.CreatedAt.Format("15:04"), n.Message))
	}

	return builder.String()
}
