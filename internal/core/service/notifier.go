package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sirenecole/admin-console/internal/core/domain"
)

const (
	DefaultNotificationDuration = 5 * time.Second
	DefaultErrorDuration        = 7 * time.Second
)

// Notifier keeps transient user-facing messages. Messages with a positive
// duration remove themselves once it elapses.
type Notifier struct {
	mu     sync.Mutex
	items  []domain.Notification
	timers map[string]func() bool
	seq    int

	now       func() time.Time
	afterFunc func(d time.Duration, f func()) func() bool
}

func NewNotifier() *Notifier {
	return &Notifier{
		timers: make(map[string]func() bool),
		now:    time.Now,
		afterFunc: func(d time.Duration, f func()) func() bool {
			return time.AfterFunc(d, f).Stop
		},
	}
}

// Add appends a notification and returns its id. A duration of zero or less
// keeps the notification until it is removed explicitly.
func (n *Notifier) Add(typ domain.NotificationType, title, message string, duration time.Duration) string {
	n.mu.Lock()
	n.seq++
	id := fmt.Sprintf("notification-%d-%s", n.seq, uuid.NewString())
	n.items = append(n.items, domain.Notification{
		ID:        id,
		Type:      typ,
		Title:     title,
		Message:   message,
		Duration:  duration,
		Timestamp: n.now(),
	})
	n.mu.Unlock()

	if duration > 0 {
		stop := n.afterFunc(duration, func() { n.Remove(id) })
		n.mu.Lock()
		if n.indexOf(id) >= 0 {
			n.timers[id] = stop
		}
		n.mu.Unlock()
	}
	return id
}

// Remove deletes the notification with id, if it is still present.
func (n *Notifier) Remove(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if stop, ok := n.timers[id]; ok {
		stop()
		delete(n.timers, id)
	}
	if i := n.indexOf(id); i >= 0 {
		n.items = append(n.items[:i], n.items[i+1:]...)
	}
}

func (n *Notifier) indexOf(id string) int {
	for i, item := range n.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Success, Warning and Info use DefaultNotificationDuration unless a duration
// is given; an explicit zero keeps the notification until removed.
func (n *Notifier) Success(title, message string, duration ...time.Duration) string {
	return n.Add(domain.NotificationSuccess, title, message, pickDuration(duration, DefaultNotificationDuration))
}

// Error notifications stay longer than the others. A zero or missing
// duration selects DefaultErrorDuration.
func (n *Notifier) Error(title, message string, duration ...time.Duration) string {
	d := pickDuration(duration, DefaultErrorDuration)
	if d <= 0 {
		d = DefaultErrorDuration
	}
	return n.Add(domain.NotificationError, title, message, d)
}

func (n *Notifier) Warning(title, message string, duration ...time.Duration) string {
	return n.Add(domain.NotificationWarning, title, message, pickDuration(duration, DefaultNotificationDuration))
}

func (n *Notifier) Info(title, message string, duration ...time.Duration) string {
	return n.Add(domain.NotificationInfo, title, message, pickDuration(duration, DefaultNotificationDuration))
}

func pickDuration(given []time.Duration, fallback time.Duration) time.Duration {
	if len(given) > 0 {
		return given[0]
	}
	return fallback
}

// ClearAll drops every notification and cancels pending expiries.
func (n *Notifier) ClearAll() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, stop := range n.timers {
		stop()
		delete(n.timers, id)
	}
	n.items = nil
}

// List returns the live notifications, oldest first.
func (n *Notifier) List() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notification(nil), n.items...)
}
