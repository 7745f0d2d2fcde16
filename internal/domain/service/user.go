package service

import (
	"context"

	"github.com/Badsnus/cu-events-notifier/internal/domain/entity"
)

type UserStorage interface {
	Get(ctx context.Context, id string) (*entity.User, error)
	NotificationsEnabled(ctx context.Context, id string) (bool, error)
	SetNotificationsEnabled(ctx context.Context, id string, enabled bool) error
}

type UserService struct {
	userStorage UserStorage
}

func NewUserService(userStorage UserStorage) *UserService {
	return &UserService{
		userStorage: userStorage,
	}
}

func (s *UserService) Get(ctx context.Context, userID string) (*entity.User, error) {
	return s.userStorage.Get(ctx, userID)
}

func (s *UserService) NotificationsEnabled(ctx context.Context, userID string) (bool, error) {
	return s.userStorage.NotificationsEnabled(ctx, userID)
}

func (s *UserService) SetNotificationsEnabled(ctx context.Context, userID string, enabled bool) error {
	return s.userStorage.SetNotificationsEnabled(ctx, userID, enabled)
}

// ToggleNotifications flips the viewer's opt-out flag and returns the new value
func (s *UserService) ToggleNotifications(ctx context.Context, userID string) (bool, error) {
	enabled, err := s.userStorage.NotificationsEnabled(ctx, userID)
	if err != nil {
		return false, err
	}
	if err = s.userStorage.SetNotificationsEnabled(ctx, userID, !enabled); err != nil {
		return enabled, err
	}
	return !enabled, nil
}
