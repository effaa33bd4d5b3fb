package models

import "time"

type Notification struct {
	ID            string    `json:"id" db:"id"`
	Type          EventType `json:"type" db:"event_type"`
	StreamerID    int64     `json:"streamer_id" db:"streamer_id"`
	StreamerName  string    `json:"streamer_name" db:"streamer_name"`
	StreamerLogin string    `json:"streamer_login" db:"streamer_login"`
	Message       string    `json:"message" db:"message"`
	Read          bool      `json:"read" db:"is_read"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	ExpiresAt     time.Time `json:"expires_at" db:"-"`
}

const (
	DefaultNotificationMax        = 50
	DefaultNotificationHistoryMax = 100
	DefaultNotificationTTL        = 10 * time.Second
)
