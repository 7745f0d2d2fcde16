package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/facebookgo/clock"

	"github.com/Badsnus/cu-events-notifier/internal/domain/common/errorz"
	"github.com/Badsnus/cu-events-notifier/internal/domain/dto"
	"github.com/Badsnus/cu-events-notifier/internal/domain/entity"
	"github.com/Badsnus/cu-events-notifier/internal/domain/utils/location"
	"github.com/Badsnus/cu-events-notifier/internal/domain/utils/schedule"
	"github.com/Badsnus/cu-events-notifier/pkg/logger/types"
)

// DefaultPollInterval is how often liked events are re-evaluated
const DefaultPollInterval = time.Minute

type sessionProvider interface {
	Viewer() (dto.Viewer, bool)
}

type preferenceStorage interface {
	NotificationsEnabled(ctx context.Context, userID string) (bool, error)
}

type likedEventStorage interface {
	GetLikedEvents(ctx context.Context, userID string) ([]dto.LikedEvent, error)
}

type shownEventStore interface {
	Seen(eventID string) bool
	MarkSeen(ctx context.Context, eventID string)
}

type notificationQueue interface {
	Enqueue(n entity.Notification) entity.Notification
}

type TickOutcome string

const (
	TickCompleted       TickOutcome = "completed"
	TickSkippedInFlight TickOutcome = "skipped_in_flight"
	TickSkippedNoViewer TickOutcome = "skipped_no_viewer"
	TickSkippedLanding  TickOutcome = "skipped_landing"
	TickSkippedDisabled TickOutcome = "skipped_disabled"
	TickCancelled       TickOutcome = "cancelled"
	TickFailed          TickOutcome = "failed"
)

// TickResult describes what a single evaluation of liked events did
type TickResult struct {
	Outcome  TickOutcome
	Enqueued int
	Err      error
}

type NotifyOptions struct {
	Clock    clock.Clock
	Interval time.Duration
	Logger   *types.Logger
}

// NotifyService periodically raises a notification for every liked event that is in progress
type NotifyService struct {
	session     sessionProvider
	preferences preferenceStorage
	likedEvents likedEventStorage
	shownEvents shownEventStore
	queue       notificationQueue

	clock    clock.Clock
	interval time.Duration
	inFlight atomic.Bool

	mu      sync.Mutex
	stopCh  chan struct{}
	cancel  context.CancelFunc
	loopWG  sync.WaitGroup
	ticksWG sync.WaitGroup

	logger *types.Logger
}

func NewNotifyService(
	opts NotifyOptions,
	session sessionProvider,
	preferences preferenceStorage,
	likedEvents likedEventStorage,
	shownEvents shownEventStore,
	queue notificationQueue,
) *NotifyService {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.Logger == nil {
		opts.Logger = types.Nop()
	}
	return &NotifyService{
		session:     session,
		preferences: preferences,
		likedEvents: likedEvents,
		shownEvents: shownEvents,
		queue:       queue,
		clock:       opts.Clock,
		interval:    opts.Interval,
		logger:      opts.Logger,
	}
}

// Start begins polling: one check right away, then one per interval. Calling Start
// on a running service does nothing.
func (s *NotifyService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		return
	}

	s.logger.Infof("Starting liked events poller (interval=%s)", s.interval)
	stopCh := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	s.stopCh = stopCh
	s.cancel = cancel

	ticker := s.clock.Ticker(s.interval)
	s.loopWG.Add(1)
	go func() {
		defer s.loopWG.Done()
		defer ticker.Stop()

		s.spawnTick(ctx)
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				s.spawnTick(ctx)
			}
		}
	}()
}

// Stop cancels the ticker and any in-flight check and waits for them to finish
func (s *NotifyService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh == nil {
		return
	}

	close(s.stopCh)
	s.cancel()
	s.stopCh = nil
	s.cancel = nil

	s.loopWG.Wait()
	s.ticksWG.Wait()
	s.logger.Info("Liked events poller stopped")
}

// Running reports whether the poll loop is active
func (s *NotifyService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopCh != nil
}

func (s *NotifyService) spawnTick(ctx context.Context) {
	s.ticksWG.Add(1)
	go func() {
		defer s.ticksWG.Done()
		s.Tick(ctx)
	}()
}

// Tick evaluates the viewer's liked events once. A tick that starts while another
// is still running is skipped rather than queued.
func (s *NotifyService) Tick(ctx context.Context) TickResult {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Debug("Previous liked events check still running, skipping tick")
		return TickResult{Outcome: TickSkippedInFlight}
	}
	defer s.inFlight.Store(false)

	result := s.checkAndNotify(ctx)
	if result.Err != nil {
		s.logger.Errorf("liked events check failed: %v", result.Err)
	}
	return result
}

func (s *NotifyService) checkAndNotify(ctx context.Context) TickResult {
	viewer, ok := s.session.Viewer()
	if !ok {
		return TickResult{Outcome: TickSkippedNoViewer}
	}
	if viewer.OnLanding() {
		return TickResult{Outcome: TickSkippedLanding}
	}

	enabled, err := s.preferences.NotificationsEnabled(ctx, viewer.UserID)
	if err != nil {
		return TickResult{
			Outcome: TickFailed,
			Err:     fmt.Errorf("%w: notification preference of %s: %w", errorz.ErrFetchFailure, viewer.UserID, err),
		}
	}
	if !enabled {
		s.logger.Debugf("Notifications disabled for user %s", viewer.UserID)
		return TickResult{Outcome: TickSkippedDisabled}
	}

	events, err := s.likedEvents.GetLikedEvents(ctx, viewer.UserID)
	if err != nil {
		return TickResult{
			Outcome: TickFailed,
			Err:     fmt.Errorf("%w: liked events of %s: %w", errorz.ErrFetchFailure, viewer.UserID, err),
		}
	}

	// Stop may land while the fetch is returning; nothing is enqueued after it
	if ctx.Err() != nil {
		return TickResult{Outcome: TickCancelled}
	}

	now := s.clock.Now().In(location.Location())
	s.logger.Debugf("Checking %d liked events for user %s", len(events), viewer.UserID)

	result := TickResult{Outcome: TickCompleted}
	for _, event := range events {
		if !schedule.IsActive(event.Date, event.StartTime, event.EndTime, now) {
			continue
		}
		if s.shownEvents.Seen(event.EventID) {
			continue
		}
		if ctx.Err() != nil {
			result.Outcome = TickCancelled
			return result
		}

		s.shownEvents.MarkSeen(ctx, event.EventID)
		notification := s.queue.Enqueue(entity.Notification{
			Message:   EventMessage(event),
			Type:      entity.NotificationTypeInfo,
			Timestamp: now,
			EventID:   event.EventID,
		})
		result.Enqueued++
		s.logger.Infof(
			"Liked event is happening now (user_id=%s, event_id=%s, notification_id=%s)",
			viewer.UserID,
			event.EventID,
			notification.ID,
		)
	}

	return result
}

// Notify surfaces an arbitrary message through the same display queue
func (s *NotifyService) Notify(message string, notificationType entity.NotificationType) entity.Notification {
	return s.queue.Enqueue(entity.Notification{
		Message:   message,
		Type:      notificationType,
		Timestamp: s.clock.Now(),
	})
}

// EventMessage is the text of a liked-event notification
func EventMessage(event dto.LikedEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is happening now!", event.Name)
	if event.Building != "" {
		fmt.Fprintf(&b, "\nWhere: %s", event.Building)
	}
	fmt.Fprintf(&b, "\nWhen: %s - %s", schedule.FormatClock(event.StartTime), schedule.FormatClock(event.EndTime))
	if food := event.FoodLine(); food != "" {
		fmt.Fprintf(&b, "\nFood: %s", food)
	}
	return b.String()
}
