package postgres

import (
	"context"

	"github.com/Badsnus/cu-events-notifier/internal/domain/dto"
	"github.com/Badsnus/cu-events-notifier/internal/domain/entity"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventStorage struct {
	db *gorm.DB
}

func NewEventStorage(db *gorm.DB) *EventStorage {
	return &EventStorage{
		db: db,
	}
}

type likedEventRow struct {
	EventID         string
	Name            string
	Date            string
	StartTime       string
	EndTime         string
	Building        string
	FoodName        string
	FoodDescription string
	DietaryTags     pq.StringArray `gorm:"type:text[]"`
}

// GetLikedEvents returns the events liked by a user joined with their food in one round trip.
func (s *EventStorage) GetLikedEvents(ctx context.Context, userID string) ([]dto.LikedEvent, error) {
	var rows []likedEventRow
	err := s.db.WithContext(ctx).
		Table("likes").
		Select(`events.id AS event_id, events.name, events.date, events.start_time, events.end_time, events.building,
			COALESCE(foods.name, '') AS food_name, COALESCE(foods.description, '') AS food_description, foods.dietary_tags`).
		Joins("JOIN events ON events.id = likes.event_id AND events.deleted_at IS NULL").
		Joins("LEFT JOIN foods ON foods.id = events.food_id").
		Where("likes.user_id = ?", userID).
		Order("events.date, events.start_time").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	events := make([]dto.LikedEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, dto.LikedEvent{
			EventID:         row.EventID,
			Name:            row.Name,
			Date:            row.Date,
			StartTime:       row.StartTime,
			EndTime:         row.EndTime,
			Building:        row.Building,
			FoodName:        row.FoodName,
			FoodDescription: row.FoodDescription,
			DietaryTags:     row.DietaryTags,
		})
	}
	return events, nil
}

// Like is a function that marks an event as liked by a user. Liking twice is a no-op.
func (s *EventStorage) Like(ctx context.Context, userID, eventID string) error {
	return s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.Like{UserID: userID, EventID: eventID}).Error
}

// Unlike is a function that removes a like.
func (s *EventStorage) Unlike(ctx context.Context, userID, eventID string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Delete(&entity.Like{}).Error
}
