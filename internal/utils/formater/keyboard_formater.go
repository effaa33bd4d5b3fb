package formater

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AttachChannelButton adds a single inline url button below the message.
func AttachChannelButton(msg tgbotapi.MessageConfig, link, text string) tgbotapi.MessageConfig {

	if link == "" {
		return msg
	}

	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(text, link),
		),
	)

	return msg
}
