package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Badsnus/cu-events-notifier/internal/domain/common/errorz"
	"github.com/Badsnus/cu-events-notifier/internal/domain/entity"
	"gorm.io/gorm"
)

type UserStorage struct {
	db *gorm.DB
}

func NewUserStorage(db *gorm.DB) *UserStorage {
	return &UserStorage{
		db: db,
	}
}

// Get is a function that gets a user from the database by id.
func (s *UserStorage) Get(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %s", errorz.ErrNotFound, id)
	}
	return &user, err
}

// NotificationsEnabled reads only the notification preference flag of a user.
func (s *UserStorage) NotificationsEnabled(ctx context.Context, id string) (bool, error) {
	var user entity.User
	err := s.db.WithContext(ctx).Select("notifications_enabled").Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("%w: user %s", errorz.ErrNotFound, id)
	}
	return user.NotificationsEnabled, err
}

// SetNotificationsEnabled updates the notification preference flag of a user.
func (s *UserStorage) SetNotificationsEnabled(ctx context.Context, id string, enabled bool) error {
	res := s.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Update("notifications_enabled", enabled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %s", errorz.ErrNotFound, id)
	}
	return nil
}
