package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Event is a campus event. Date and times are stored the way the events form
// submits them: a plain "2006-01-02" date and "15:04" wall-clock times in campus time.
type Event struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	Name        string         `gorm:"not null"`
	Description string
	Date        string `gorm:"not null;type:varchar(10)"`
	StartTime   string `gorm:"not null;type:varchar(8)"`
	EndTime     string `gorm:"not null;type:varchar(8)"`
	Building    string `gorm:"not null"`
	FoodID      *string `gorm:"type:uuid"`
	Food        *Food
	CreatedBy   string `gorm:"type:uuid"`
}

// Food is the leftover food offered at an event.
type Food struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string `gorm:"not null"`
	Description string
	DietaryTags pq.StringArray `gorm:"type:text[]"`
}

// Like marks an event as interesting for a user.
type Like struct {
	UserID    string `gorm:"primaryKey;type:uuid"`
	EventID   string `gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time

	Event Event `gorm:"foreignKey:EventID"`
	User  User  `gorm:"foreignKey:UserID"`
}
