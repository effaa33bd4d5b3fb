package notification

import (
	"sync"
	"time"

	"streamvault_agent/internal/metrics"
	"streamvault_agent/internal/models"

	"github.com/google/uuid"
)

type entry struct {
	n     models.Notification
	timer *time.Timer
}

// Queue is the live, newest-first notification list. Every entry expires on its own timer.
type Queue struct {
	mu      sync.Mutex
	entries []*entry
	max     int
	ttl     time.Duration
}

func NewQueue(max int, ttl time.Duration) *Queue {
	if max < 1 {
		max = models.DefaultNotificationMax
	}
	if ttl <= 0 {
		ttl = models.DefaultNotificationTTL
	}

	return &Queue{max: max, ttl: ttl}
}

// Push inserts n at the head, assigning an id and timestamps when missing,
// and evicts the oldest entries past the cap.
func (q *Queue) Push(n models.Notification) models.Notification {

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	n.ExpiresAt = n.CreatedAt.Add(q.ttl)

	id := n.ID
	e := &entry{n: n}

	q.mu.Lock()
	defer q.mu.Unlock()

	ttl := time.Until(n.ExpiresAt)
	if ttl < 0 {
		ttl = 0
	}
	e.timer = time.AfterFunc(ttl, func() { q.expire(id) })
	q.entries = append([]*entry{e}, q.entries...)

	for len(q.entries) > q.max {
		last := q.entries[len(q.entries)-1]
		last.timer.Stop()
		q.entries = q.entries[:len(q.entries)-1]
		metrics.NotificationsEvicted.WithLabelValues("overflow").Inc()
	}

	metrics.NotificationsQueued.Set(float64(len(q.entries)))

	return n
}

func (q *Queue) expire(id string) {
	if q.remove(id) {
		metrics.NotificationsEvicted.WithLabelValues("expired").Inc()
	}
}

// Dismiss removes the notification; unknown ids are a no-op.
func (q *Queue) Dismiss(id string) bool {
	if q.remove(id) {
		metrics.NotificationsEvicted.WithLabelValues("dismissed").Inc()
		return true
	}
	return false
}

func (q *Queue) remove(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, e := range q.entries {
		if e.n.ID != id {
			continue
		}
		e.timer.Stop()
		q.entries = append(q.entries[:i], q.entries[i+1:]...)
		metrics.NotificationsQueued.Set(float64(len(q.entries)))
		return true
	}

	return false
}

func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		e.timer.Stop()
	}
	metrics.NotificationsEvicted.WithLabelValues("cleared").Add(float64(len(q.entries)))
	q.entries = nil
	metrics.NotificationsQueued.Set(0)
}

func (q *Queue) MarkRead(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		if e.n.ID == id {
			e.n.Read = true
			return true
		}
	}

	return false
}

func (q *Queue) List() []models.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	res := make([]models.Notification, 0, len(q.entries))
	for _, e := range q.entries {
		res = append(res, e.n)
	}

	return res
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.entries)
}
