package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Badsnus/cu-events-notifier/internal/domain/common/errorz"
	"github.com/Badsnus/cu-events-notifier/pkg/logger/types"
)

// DefaultShownEventsKey is the namespaced slot holding the JSON array of notified event ids
const DefaultShownEventsKey = "cu-events:shown-event-ids"

type kvStorage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}

// ShownEventStore remembers which liked events were already notified.
//
// Every mutation is written through to the key-value slot. After the first
// storage failure the store keeps working in memory only until the process restarts.
type ShownEventStore struct {
	mu       sync.Mutex
	storage  kvStorage
	key      string
	ids      map[string]struct{}
	order    []string
	degraded bool

	logger *types.Logger
}

func NewShownEventStore(ctx context.Context, logger *types.Logger, storage kvStorage, key string) *ShownEventStore {
	if key == "" {
		key = DefaultShownEventsKey
	}
	s := &ShownEventStore{
		storage: storage,
		key:     key,
		ids:     make(map[string]struct{}),
		logger:  logger,
	}
	s.load(ctx)
	return s
}

func (s *ShownEventStore) load(ctx context.Context) {
	raw, found, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.degrade(fmt.Errorf("%w: load %s: %w", errorz.ErrStorageFailure, s.key, err))
		return
	}
	if !found || raw == "" {
		return
	}

	var ids []string
	if err = json.Unmarshal([]byte(raw), &ids); err != nil {
		s.logger.Warnf("ignoring malformed shown event ids in %s: %v", s.key, err)
		return
	}
	for _, id := range ids {
		s.add(id)
	}
	s.logger.Debugf("loaded %d shown event ids", len(s.order))
}

// Seen reports whether a notification was already raised for the event
func (s *ShownEventStore) Seen(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[eventID]
	return ok
}

// MarkSeen records the event and persists the set. Marking a known id is a no-op.
func (s *ShownEventStore) MarkSeen(ctx context.Context, eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.add(eventID) {
		return
	}
	s.persist(ctx)
}

// Clear forgets every shown event, in memory and in storage
func (s *ShownEventStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.degraded {
		if err := s.storage.Remove(context.WithoutCancel(ctx), s.key); err != nil {
			s.degrade(fmt.Errorf("%w: remove %s: %w", errorz.ErrStorageFailure, s.key, err))
		}
	}
	s.ids = make(map[string]struct{})
	s.order = nil
	s.logger.Info("Shown event ids cleared")
}

// Len returns the number of remembered events
func (s *ShownEventStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Degraded reports whether the store stopped writing to storage after a failure
func (s *ShownEventStore) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func (s *ShownEventStore) add(eventID string) bool {
	if _, ok := s.ids[eventID]; ok {
		return false
	}
	s.ids[eventID] = struct{}{}
	s.order = append(s.order, eventID)
	return true
}

func (s *ShownEventStore) persist(ctx context.Context) {
	if s.degraded {
		return
	}
	raw, err := json.Marshal(s.order)
	if err != nil {
		s.degrade(fmt.Errorf("%w: encode %s: %w", errorz.ErrStorageFailure, s.key, err))
		return
	}
	// A cancelled caller must not leave the slot behind the in-memory set
	if err = s.storage.Set(context.WithoutCancel(ctx), s.key, string(raw)); err != nil {
		s.degrade(fmt.Errorf("%w: save %s: %w", errorz.ErrStorageFailure, s.key, err))
	}
}

func (s *ShownEventStore) degrade(err error) {
	s.degraded = true
	s.logger.Errorf("shown event ids are kept in memory only for this session: %v", err)
}
