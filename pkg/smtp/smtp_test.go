package smtp

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/Badsnus/cu-events-notifier/internal/domain/entity"
)

type fakeDialer struct {
	messages []*gomail.Message
	err      error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.messages = append(d.messages, m...)
	return nil
}

func TestSendNotification(t *testing.T) {
	d := &fakeDialer{}
	client := NewClient(d, Options{From: "events@campus.edu", To: "student@campus.edu", Domain: "campus.edu"}, nil)

	err := client.SendNotification(entity.Notification{
		ID:        "n1",
		Message:   "Chess club is happening now!\nWhere: Library",
		Type:      entity.NotificationTypeInfo,
		Timestamp: time.Date(2026, 10, 15, 12, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, d.messages, 1)

	msg := d.messages[0]
	assert.Equal(t, []string{"Chess club is happening now!"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{"student@campus.edu"}, msg.GetHeader("To"))
	assert.Regexp(t, `^<[0-9a-f-]{36}@campus\.edu>$`, msg.GetHeader("Message-ID")[0])

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Where: Library")
}

func TestSubjectCarriesNonInfoType(t *testing.T) {
	assert.Equal(t, "[WARNING] Storage unavailable", subject(entity.Notification{
		Message: "Storage unavailable\ndetails",
		Type:    entity.NotificationTypeWarning,
	}))
}

func TestSendNotificationError(t *testing.T) {
	client := NewClient(&fakeDialer{err: errors.New("connection refused")}, Options{}, nil)
	err := client.SendNotification(entity.Notification{ID: "n1", Message: "hi"})
	assert.ErrorContains(t, err, "connection refused")
}
