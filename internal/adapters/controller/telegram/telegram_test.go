package telegram

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	tele "gopkg.in/telebot.v3"

	"github.com/Badsnus/cu-events-notifier/internal/domain/entity"
	"github.com/Badsnus/cu-events-notifier/pkg/logger/types"
)

type sentMessage struct {
	chat string
	text string
	opts []interface{}
}

type fakeBot struct {
	mu      sync.Mutex
	nextID  int
	sent    []sentMessage
	deleted []int
	sendErr error
}

func (b *fakeBot) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return nil, b.sendErr
	}
	b.nextID++
	b.sent = append(b.sent, sentMessage{chat: to.Recipient(), text: what.(string), opts: opts})
	return &tele.Message{ID: b.nextID}, nil
}

func (b *fakeBot) Delete(msg tele.Editable) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, msg.(*tele.Message).ID)
	return nil
}

func TestSinkReplacesPreviousMessage(t *testing.T) {
	bot := &fakeBot{}
	sink := NewSink(bot, 42, nil)

	sink.Show(&entity.Notification{ID: "n1", Message: "Chess club is happening now!", Type: entity.NotificationTypeInfo})
	sink.flush()
	sink.Show(&entity.Notification{ID: "n2", Message: "Robotics is happening now!", Type: entity.NotificationTypeInfo})
	sink.flush()
	sink.Show(nil)
	sink.flush()

	require.Len(t, bot.sent, 2)
	assert.Equal(t, "42", bot.sent[0].chat)
	assert.Contains(t, bot.sent[0].text, "Chess club")
	assert.Equal(t, []int{1, 2}, bot.deleted)

	markup, ok := bot.sent[1].opts[0].(*tele.ReplyMarkup)
	require.True(t, ok)
	button := markup.InlineKeyboard[0][0]
	assert.Equal(t, "n2", button.Data)
	assert.Equal(t, DismissButton.Unique, button.Unique)
}

func TestSinkKeepsOnlyLatestState(t *testing.T) {
	bot := &fakeBot{}
	sink := NewSink(bot, 42, nil)

	sink.Show(&entity.Notification{ID: "n1", Message: "first"})
	sink.Show(nil)
	sink.flush()
	sink.flush()

	assert.Empty(t, bot.sent)
}

func TestSinkSendFailureIsLogged(t *testing.T) {
	bot := &fakeBot{sendErr: errors.New("telegram: bad gateway")}
	sink := NewSink(bot, 42, nil)

	sink.Show(&entity.Notification{ID: "n1", Message: "first"})
	sink.flush()

	assert.Nil(t, sink.message)
}

func TestFormatEscapesHTML(t *testing.T) {
	text := Format(entity.Notification{
		Message: "Pizza <night> is happening now!\nWhere: B&C",
		Type:    entity.NotificationTypeWarning,
	})
	assert.Equal(t, "⚠️ <b>Pizza &lt;night&gt; is happening now!</b>\nWhere: B&amp;C", text)
}

func TestLogHookFiltersByLevel(t *testing.T) {
	bot := &fakeBot{}
	hook := NewSink(bot, 42, nil).LogHook(-100, zapcore.WarnLevel)

	hook(types.Log{Level: zapcore.InfoLevel, Message: "fine"})
	hook(types.Log{Level: zapcore.ErrorLevel, LoggerName: "main.poller", Message: "liked events check failed"})

	require.Len(t, bot.sent, 1)
	assert.Equal(t, "-100", bot.sent[0].chat)
	assert.Contains(t, bot.sent[0].text, "ERROR")
	assert.Contains(t, bot.sent[0].text, "liked events check failed")
}
