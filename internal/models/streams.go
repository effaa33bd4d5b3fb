package models

import "time"

type Stream struct {
	ID              int64            `json:"id"`
	StreamerID      int64            `json:"streamer_id"`
	Title           string           `json:"title"`
	CategoryName    string           `json:"category_name"`
	Language        string           `json:"language"`
	StartedAt       time.Time        `json:"started_at"`
	EndedAt         *time.Time       `json:"ended_at"` // nil while the stream is live
	CategoryChanges []CategoryChange `json:"category_changes"`
	RecordingPath   string           `json:"recording_path"`
}

func (s Stream) IsLive() bool {
	return s.EndedAt == nil
}

type CategoryChange struct {
	CategoryName string    `json:"category_name"`
	Title        string    `json:"title"`
	Timestamp    time.Time `json:"timestamp"`
}

type StreamsResponse struct {
	Streams []Stream `json:"streams"`
}

// Chapter is a segment of a stream between two category changes.
// Start and End are offsets from the stream start, in seconds.
type Chapter struct {
	Title        string  `json:"title"`
	CategoryName string  `json:"category_name"`
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
}

type ChaptersResponse struct {
	Chapters []Chapter `json:"chapters"`
}

type DeleteStreamsResponse struct {
	DeletedCount int `json:"deleted_count"`
}
