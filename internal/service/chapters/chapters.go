package chapters

import (
	"sort"
	"time"

	"streamvault_agent/internal/models"
)

// restartWindow is how far into a chapter Previous still jumps to the chapter before.
const restartWindow = 3.0

// Derive splits a stream into chapters at its category changes. A stream still
// live is cut at now. Changes outside the stream are clamped to its bounds and
// zero length chapters are dropped.
func Derive(stream models.Stream, now time.Time) []models.Chapter {

	end := now
	if stream.EndedAt != nil {
		end = *stream.EndedAt
	}
	total := end.Sub(stream.StartedAt).Seconds()
	if total < 0 {
		total = 0
	}

	changes := make([]models.CategoryChange, len(stream.CategoryChanges))
	copy(changes, stream.CategoryChanges)
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Timestamp.Before(changes[j].Timestamp)
	})

	if len(changes) == 0 {
		return []models.Chapter{{
			Title:        stream.Title,
			CategoryName: stream.CategoryName,
			Start:        0,
			End:          total,
		}}
	}

	offset := func(t time.Time) float64 {
		o := t.Sub(stream.StartedAt).Seconds()
		if o < 0 {
			return 0
		}
		if o > total {
			return total
		}
		return o
	}

	res := make([]models.Chapter, 0, len(changes)+1)

	if first := offset(changes[0].Timestamp); first > 0 {
		res = append(res, models.Chapter{Title: stream.Title, Start: 0, End: first})
	}

	for i, c := range changes {
		start := offset(c.Timestamp)
		stop := total
		if i+1 < len(changes) {
			stop = offset(changes[i+1].Timestamp)
		}
		if stop <= start && (i+1 < len(changes) || len(res) > 0) {
			continue
		}

		title := c.Title
		if title == "" {
			title = stream.Title
		}
		res = append(res, models.Chapter{
			Title:        title,
			CategoryName: c.CategoryName,
			Start:        start,
			End:          stop,
		})
	}

	return res
}

// ChapterAt returns the index of the chapter playing at offset seconds, -1 if none.
func ChapterAt(chapters []models.Chapter, offset float64) int {
	if len(chapters) == 0 || offset < 0 {
		return -1
	}

	for i, c := range chapters {
		if offset >= c.Start && offset < c.End {
			return i
		}
	}

	last := len(chapters) - 1
	if offset >= chapters[last].Start && offset <= chapters[last].End {
		return last
	}

	return -1
}

func Next(chapters []models.Chapter, offset float64) (models.Chapter, bool) {
	for _, c := range chapters {
		if c.Start > offset {
			return c, true
		}
	}
	return models.Chapter{}, false
}

// Previous returns the start of the current chapter, or of the one before it when
// offset is within restartWindow of the current chapter's start.
func Previous(chapters []models.Chapter, offset float64) (models.Chapter, bool) {
	i := ChapterAt(chapters, offset)
	if i < 0 {
		return models.Chapter{}, false
	}

	if offset-chapters[i].Start > restartWindow || i == 0 {
		return chapters[i], true
	}

	return chapters[i-1], true
}
