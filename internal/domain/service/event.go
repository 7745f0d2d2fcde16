package service

import (
	"context"

	"github.com/Badsnus/cu-events-notifier/internal/domain/dto"
)

type EventStorage interface {
	GetLikedEvents(ctx context.Context, userID string) ([]dto.LikedEvent, error)
	Like(ctx context.Context, userID, eventID string) error
	Unlike(ctx context.Context, userID, eventID string) error
}

type EventService struct {
	eventStorage EventStorage
}

func NewEventService(storage EventStorage) *EventService {
	return &EventService{
		eventStorage: storage,
	}
}

// GetLikedEvents returns the viewer's liked events with their food in one query
func (s *EventService) GetLikedEvents(ctx context.Context, userID string) ([]dto.LikedEvent, error) {
	return s.eventStorage.GetLikedEvents(ctx, userID)
}

func (s *EventService) Like(ctx context.Context, userID, eventID string) error {
	return s.eventStorage.Like(ctx, userID, eventID)
}

func (s *EventService) Unlike(ctx context.Context, userID, eventID string) error {
	return s.eventStorage.Unlike(ctx, userID, eventID)
}
