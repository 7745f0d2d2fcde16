package postgres

import "github.com/Badsnus/cu-events-notifier/internal/domain/entity"

// Migrations is a list of all gorm migrations for the database.
var Migrations = []interface{}{
	&entity.User{},
	&entity.Food{},
	&entity.Event{},
	&entity.Like{},
}
