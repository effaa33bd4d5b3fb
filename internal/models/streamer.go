package models

import "time"

type Streamer struct {
	ID              int64     `json:"id" db:"id"`
	Username        string    `json:"username" db:"username"`
	TwitchID        string    `json:"twitch_id" db:"twitch_id"`
	DisplayName     string    `json:"display_name" db:"display_name"`
	IsLive          bool      `json:"is_live" db:"is_live"`
	IsRecording     bool      `json:"is_recording" db:"is_recording"`
	Title           string    `json:"title" db:"title"`
	CategoryName    string    `json:"category_name" db:"category_name"`
	Language        string    `json:"language" db:"language"`
	ProfileImageUrl string    `json:"profile_image_url" db:"profile_image_url"`
	LastUpdated     time.Time `json:"last_updated" db:"last_updated"`
}

// Name is the label used in notifications: display name when known, login otherwise.
func (s Streamer) Name() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Username
}

type StreamersResponse struct {
	Streamers []Streamer `json:"streamers"`
}

type ValidateUsernameResponse struct {
	Valid       bool   `json:"valid"`
	Message     string `json:"message"`
	TwitchID    string `json:"twitch_id"`
	DisplayName string `json:"display_name"`
}

type AddStreamerRequest struct {
	Username string `json:"username"`
}
