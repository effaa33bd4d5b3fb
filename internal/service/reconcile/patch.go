package reconcile

import (
	"streamvault_agent/internal/models"
)

// PatchStreamer merges the fields present in env into s. Fields missing from
// the payload are left untouched. The event type then sets the flags it implies.
func PatchStreamer(s *models.Streamer, env models.Envelope) {
	if v, ok := env.String("username"); ok {
		s.Username = v
	} else if v, ok := env.String("twitch_login"); ok {
		s.Username = v
	}
	if v, ok := env.String("twitch_id"); ok {
		s.TwitchID = v
	}
	if v, ok := env.String("display_name"); ok {
		s.DisplayName = v
	} else if v, ok := env.String("streamer_name"); ok {
		s.DisplayName = v
	}
	if v, ok := env.String("title"); ok {
		s.Title = v
	}
	if v, ok := env.String("category_name"); ok {
		s.CategoryName = v
	}
	if v, ok := env.String("language"); ok {
		s.Language = v
	}
	if v, ok := env.String("profile_image_url"); ok {
		s.ProfileImageUrl = v
	}
	if v, ok := env.Bool("is_live"); ok {
		s.IsLive = v
	}
	if v, ok := env.Bool("is_recording"); ok {
		s.IsRecording = v
	}
	if v, ok := env.Time("last_updated"); ok {
		s.LastUpdated = v
	}

	switch env.Type {
	case models.EventStreamOnline:
		s.IsLive = true
	case models.EventStreamOffline:
		s.IsLive = false
	case models.EventRecordingStarted:
		s.IsRecording = true
	case models.EventRecordingCompleted, models.EventRecordingFailed:
		s.IsRecording = false
	}
}

// PatchStream merges a channel/stream update into a stream. A category that
// differs from the current one is recorded as a category change.
func PatchStream(st *models.Stream, env models.Envelope) {
	category, hasCategory := env.String("category_name")
	title, hasTitle := env.String("title")

	if hasCategory && category != st.CategoryName {
		change := models.CategoryChange{
			CategoryName: category,
			Title:        st.Title,
			Timestamp:    eventTime(env, "timestamp"),
		}
		if hasTitle {
			change.Title = title
		}
		st.CategoryChanges = append(st.CategoryChanges, change)
		st.CategoryName = category
	}
	if hasTitle {
		st.Title = title
	}
	if v, ok := env.String("language"); ok {
		st.Language = v
	}
	if v, ok := env.String("recording_path"); ok {
		st.RecordingPath = v
	} else if v, ok := env.String("file_path"); ok {
		st.RecordingPath = v
	}
}
