package entity

import (
	"time"

	"gorm.io/gorm"
)

// User is the viewer record owned by the campus app backend.
// NotificationsEnabled is the global opt-out flag toggled from the profile page.
type User struct {
	ID                   string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DeletedAt            gorm.DeletedAt `gorm:"index"`
	Email                string         `gorm:"not null;uniqueIndex"`
	Name                 string
	Role                 string `gorm:"not null;default:student"`
	NotificationsEnabled bool   `gorm:"not null;default:true"`
	TelegramChatID       int64
}
