package formater

import (
	"fmt"
	"regexp"
	"strings"

	"streamvault_agent/internal/models"
)

var twitchTagRe = regexp.MustCompile(`@[^\s.,!?]+`)

// change all twitch tags to hyperlinks with twitch channel's address for telegram
func TwitchTagToTelegram(text string) string {
	matches := twitchTagRe.FindAllString(text, -1)
	for _, match := range matches {
		text = strings.ReplaceAll(text, match, fmt.Sprintf("[%s](%s/%s)", match, models.TwitchWWWSchemeHost, match[1:]))
	}

	return text
}

// clear all @ symbols in tag subtrings because we can interpret it wrong
func ClearTags(text string) string {
	matches := twitchTagRe.FindAllString(text, -1)
	for _, match := range matches {
		text = strings.ReplaceAll(text, match, match[1:])
	}

	return text
}

// NotificationMessage builds the text shown for an event. The second return is false for
// event types that never produce a notification.
func NotificationMessage(eventType models.EventType, name, title, category, errMsg string) (string, bool) {

	if name == "" {
		name = "Unknown streamer"
	}

	switch eventType {
	case models.EventStreamOnline:
		msg := fmt.Sprintf("%s is live", name)
		if title != "" {
			msg += ": " + title
		}
		if category != "" {
			msg += fmt.Sprintf(" [%s]", category)
		}
		return msg, true
	case models.EventStreamOffline:
		return fmt.Sprintf("%s went offline", name), true
	case models.EventChannelUpdate:
		switch {
		case title != "" && category != "":
			return fmt.Sprintf("%s updated the stream: %s [%s]", name, title, category), true
		case category != "":
			return fmt.Sprintf("%s switched category to %s", name, category), true
		case title != "":
			return fmt.Sprintf("%s changed the title: %s", name, title), true
		}
		return fmt.Sprintf("%s updated the channel", name), true
	case models.EventRecordingStarted:
		return fmt.Sprintf("Recording started for %s", name), true
	case models.EventRecordingCompleted:
		return fmt.Sprintf("Recording completed for %s", name), true
	case models.EventRecordingFailed:
		msg := fmt.Sprintf("Recording failed for %s", name)
		if errMsg != "" {
			msg += ": " + errMsg
		}
		return msg, true
	}

	return "", false
}

func ChannelLink(login string) string {
	return fmt.Sprintf("%s/%s", models.TwitchWWWSchemeHost, strings.ToLower(login))
}
