package formater

import (
	"fmt"
	"time"
)

// FormatDuration renders whole seconds as "{h}h {m}m {s}s", dropping the hour part when it is zero.
func FormatDuration(seconds float64) string {

	if seconds < 0 {
		seconds = 0
	}

	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	}

	return fmt.Sprintf("%dm %ds", minutes, secs)
}

func CreateStreamDuration(startedAt time.Time, endedAt *time.Time) string {

	end := time.Now()
	if endedAt != nil {
		end = *endedAt
	}

	return FormatDuration(end.Sub(startedAt).Seconds())
}
