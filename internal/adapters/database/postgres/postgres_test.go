package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Badsnus/cu-events-notifier/internal/domain/common/errorz"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err, "unable to open the mock database connection")
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestNotificationsEnabled(t *testing.T) {
	assert := assert.New(t)
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .*notifications_enabled.* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"notifications_enabled"}).AddRow(false))

	enabled, err := NewUserStorage(db).NotificationsEnabled(context.Background(), "user-1")
	assert.NoError(err)
	assert.False(enabled)
	assert.NoError(mock.ExpectationsWereMet(), "not all mock expectations were met")
}

func TestNotificationsEnabledUnknownUser(t *testing.T) {
	assert := assert.New(t)
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"notifications_enabled"}))

	_, err := NewUserStorage(db).NotificationsEnabled(context.Background(), "ghost")
	assert.ErrorIs(err, errorz.ErrNotFound)
	assert.NoError(mock.ExpectationsWereMet())
}

func TestSetNotificationsEnabled(t *testing.T) {
	assert := assert.New(t)
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "notifications_enabled"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "notifications_enabled"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	storage := NewUserStorage(db)
	assert.NoError(storage.SetNotificationsEnabled(context.Background(), "user-1", true))
	assert.ErrorIs(storage.SetNotificationsEnabled(context.Background(), "ghost", true), errorz.ErrNotFound)
	assert.NoError(mock.ExpectationsWereMet())
}

func TestGetLikedEvents(t *testing.T) {
	assert := assert.New(t)
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{
		"event_id", "name", "date", "start_time", "end_time", "building", "food_name", "food_description", "dietary_tags",
	}).
		AddRow("e1", "Robotics Lunch", "2026-10-15", "12:00", "13:00", "Engineering Hall", "Pizza", "cheese", "{vegetarian}").
		AddRow("e2", "Chess Night", "2026-10-16", "18:00", "20:00", "Library", "", "", nil)
	mock.ExpectQuery(`FROM "likes" JOIN events ON events.id = likes.event_id`).
		WithArgs("user-1").
		WillReturnRows(rows)

	events, err := NewEventStorage(db).GetLikedEvents(context.Background(), "user-1")
	assert.NoError(err)
	if assert.Len(events, 2) {
		assert.Equal("e1", events[0].EventID)
		assert.Equal("Engineering Hall", events[0].Building)
		assert.Equal([]string{"vegetarian"}, events[0].DietaryTags)
		assert.Equal("Pizza (cheese) [vegetarian]", events[0].FoodLine())
		assert.Empty(events[1].FoodLine())
	}
	assert.NoError(mock.ExpectationsWereMet())
}

func TestLikeAndUnlike(t *testing.T) {
	assert := assert.New(t)
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "likes"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes" WHERE user_id = $1 AND event_id = $2`)).
		WithArgs("user-1", "e1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	storage := NewEventStorage(db)
	assert.NoError(storage.Like(context.Background(), "user-1", "e1"))
	assert.NoError(storage.Unlike(context.Background(), "user-1", "e1"))
	assert.NoError(mock.ExpectationsWereMet())
}
