package models

import (
	"strconv"
	"time"
)

type EventType string

var (
	EventStreamOnline       EventType = "stream.online"
	EventStreamOffline      EventType = "stream.offline"
	EventStreamUpdate       EventType = "stream.update"
	EventChannelUpdate      EventType = "channel.update"
	EventRecordingStarted   EventType = "recording.started"
	EventRecordingCompleted EventType = "recording.completed"
	EventRecordingFailed    EventType = "recording.failed"
	EventStreamerAdded      EventType = "streamer.added"
	EventStreamerDeleted    EventType = "streamer.deleted"
)

// Envelope is the websocket message as delivered by the StreamVault server.
type Envelope struct {
	Type EventType              `json:"type"`
	Data map[string]interface{} `json:"data"`

	ReceivedAt time.Time `json:"-"`
}

func (e Envelope) String(key string) (string, bool) {
	v, ok := e.Data[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (e Envelope) Bool(key string) (bool, bool) {
	v, ok := e.Data[key]
	if !ok || v == nil {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// ID returns the numeric value of key. Ids arrive as json numbers or as
// strings depending on the producer, both are accepted.
func (e Envelope) ID(key string) (int64, bool) {
	v, ok := e.Data[key]
	if !ok || v == nil {
		return 0, false
	}
	return CoerceID(v)
}

// StreamerID resolves the streamer an event refers to, falling back to "id".
func (e Envelope) StreamerID() (int64, bool) {
	if id, ok := e.ID("streamer_id"); ok {
		return id, true
	}
	return e.ID("id")
}

func (e Envelope) Time(key string) (time.Time, bool) {
	s, ok := e.String(key)
	if !ok || s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func CoerceID(v interface{}) (int64, bool) {
	switch id := v.(type) {
	case int:
		return int64(id), true
	case int64:
		return id, true
	case int32:
		return int64(id), true
	case uint64:
		return int64(id), true
	case float64:
		if id != float64(int64(id)) {
			return 0, false
		}
		return int64(id), true
	case float32:
		return CoerceID(float64(id))
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(id, 64)
			if ferr != nil {
				return 0, false
			}
			return CoerceID(f)
		}
		return n, true
	}
	return 0, false
}
