package service

import (
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"github.com/Badsnus/cu-events-notifier/internal/domain/entity"
	"github.com/Badsnus/cu-events-notifier/pkg/logger/types"
)

const (
	DefaultDisplayDuration = 5 * time.Second
	DefaultSettleDelay     = 300 * time.Millisecond
)

type QueueState int

const (
	QueueIdle QueueState = iota
	QueueShowing
)

func (s QueueState) String() string {
	if s == QueueShowing {
		return "showing"
	}
	return "idle"
}

// QueueListener is called with the notification occupying the current slot (nil when idle).
// Listeners run in order of slot changes and must not call back into the queue synchronously.
type QueueListener func(current *entity.Notification)

type QueueOptions struct {
	Clock clock.Clock
	// DisplayFor is how long a notification stays current before it is dismissed automatically
	DisplayFor time.Duration
	// SettleDelay separates a dismissal from showing the next notification; zero advances immediately
	SettleDelay time.Duration
	Logger      *types.Logger
}

// NotificationQueue feeds pending notifications, oldest first, into a single display slot
type NotificationQueue struct {
	mu           sync.Mutex
	clock        clock.Clock
	displayFor   time.Duration
	settleDelay  time.Duration
	current      *entity.Notification
	pending      []entity.Notification
	dismissTimer *clock.Timer
	settleTimer  *clock.Timer
	// shows counts promotions; an auto-dismiss only applies to the show that armed it
	shows  uint64
	closed bool

	notifyMu  sync.Mutex
	listeners []QueueListener

	logger *types.Logger
}

func NewNotificationQueue(opts QueueOptions) *NotificationQueue {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.DisplayFor <= 0 {
		opts.DisplayFor = DefaultDisplayDuration
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}
	if opts.Logger == nil {
		opts.Logger = types.Nop()
	}
	return &NotificationQueue{
		clock:       opts.Clock,
		displayFor:  opts.DisplayFor,
		settleDelay: opts.SettleDelay,
		logger:      opts.Logger,
	}
}

// Subscribe registers a display sink
func (q *NotificationQueue) Subscribe(listener QueueListener) {
	q.notifyMu.Lock()
	defer q.notifyMu.Unlock()
	q.listeners = append(q.listeners, listener)
}

// Enqueue appends n to the pending queue and shows it right away when the slot is free.
// Missing id, timestamp and type are filled in; the stored notification is returned.
func (q *NotificationQueue) Enqueue(n entity.Notification) entity.Notification {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = q.clock.Now()
	}
	if !n.Type.Valid() {
		n.Type = entity.NotificationTypeInfo
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warnf("dropping notification %s: queue is closed", n.ID)
		return n
	}
	q.pending = append(q.pending, n)
	q.logger.Debugf("Notification queued (id=%s, event_id=%s, pending=%d)", n.ID, n.EventID, len(q.pending))

	// An idle slot with no settle timer means nothing was waiting before this call
	if q.current != nil || q.settleTimer != nil {
		q.mu.Unlock()
		return n
	}
	q.promoteLocked()
	q.publishAndUnlock()
	return n
}

// Dismiss removes the notification with the given id from the current slot.
// It returns false, and changes nothing, when that notification is not current.
func (q *NotificationQueue) Dismiss(id string) bool {
	q.mu.Lock()
	if q.current == nil || q.current.ID != id {
		q.mu.Unlock()
		return false
	}
	q.dismissAndUnlock()
	return true
}

// expire is the auto-dismiss callback of the show numbered show
func (q *NotificationQueue) expire(show uint64) {
	q.mu.Lock()
	if q.current == nil || q.shows != show {
		q.mu.Unlock()
		return
	}
	q.dismissAndUnlock()
}

func (q *NotificationQueue) dismissAndUnlock() {
	id := q.current.ID
	if q.dismissTimer != nil {
		q.dismissTimer.Stop()
		q.dismissTimer = nil
	}
	q.current = nil
	q.logger.Debugf("Notification dismissed (id=%s, pending=%d)", id, len(q.pending))

	if len(q.pending) > 0 && !q.closed {
		if q.settleDelay > 0 {
			q.settleTimer = q.clock.AfterFunc(q.settleDelay, q.advance)
		} else {
			q.promoteLocked()
		}
	}
	q.publishAndUnlock()
}

// DismissCurrent dismisses whatever is showing
func (q *NotificationQueue) DismissCurrent() bool {
	current := q.Current()
	if current == nil {
		return false
	}
	return q.Dismiss(current.ID)
}

// Current returns a copy of the notification being displayed, or nil
func (q *NotificationQueue) Current() *entity.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.currentCopyLocked()
}

// Pending returns the notifications waiting for the slot, oldest first
func (q *NotificationQueue) Pending() []entity.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	pending := make([]entity.Notification, len(q.pending))
	copy(pending, q.pending)
	return pending
}

func (q *NotificationQueue) State() QueueState {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current != nil {
		return QueueShowing
	}
	return QueueIdle
}

// Close stops all timers; later enqueues are dropped
func (q *NotificationQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	if q.dismissTimer != nil {
		q.dismissTimer.Stop()
		q.dismissTimer = nil
	}
	if q.settleTimer != nil {
		q.settleTimer.Stop()
		q.settleTimer = nil
	}
}

func (q *NotificationQueue) advance() {
	q.mu.Lock()
	q.settleTimer = nil
	if q.current != nil || len(q.pending) == 0 || q.closed {
		q.mu.Unlock()
		return
	}
	q.promoteLocked()
	q.publishAndUnlock()
}

func (q *NotificationQueue) promoteLocked() {
	next := q.pending[0]
	q.pending = q.pending[1:]
	q.current = &next

	q.shows++
	show := q.shows
	q.dismissTimer = q.clock.AfterFunc(q.displayFor, func() {
		q.expire(show)
	})
	q.logger.Debugf("Notification shown (id=%s, event_id=%s)", next.ID, next.EventID)
}

func (q *NotificationQueue) currentCopyLocked() *entity.Notification {
	if q.current == nil {
		return nil
	}
	current := *q.current
	return &current
}

// publishAndUnlock hands the new slot content to listeners. notifyMu is taken before
// mu is released so listeners observe slot changes in the order they happened.
func (q *NotificationQueue) publishAndUnlock() {
	current := q.currentCopyLocked()
	q.notifyMu.Lock()
	q.mu.Unlock()
	defer q.notifyMu.Unlock()

	for _, listener := range q.listeners {
		listener(current)
	}
}
