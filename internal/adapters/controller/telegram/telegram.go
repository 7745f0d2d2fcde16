package telegram

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
	tele "gopkg.in/telebot.v3"

	"github.com/Badsnus/cu-events-notifier/internal/domain/entity"
	"github.com/Badsnus/cu-events-notifier/pkg/logger/types"
)

// DismissButton is the inline button attached to every notification; its data is the notification id
var DismissButton = tele.Btn{Unique: "dismiss"}

type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Delete(msg tele.Editable) error
}

type dismisser interface {
	Dismiss(id string) bool
}

// Sink mirrors the current notification slot into a Telegram chat
type Sink struct {
	bot  sender
	chat *tele.Chat

	mu      sync.Mutex
	latest  *entity.Notification
	dirty   bool
	wake    chan struct{}
	message *tele.Message

	logger *types.Logger
}

func NewSink(bot sender, chatID int64, logger *types.Logger) *Sink {
	if logger == nil {
		logger = types.Nop()
	}
	return &Sink{
		bot:    bot,
		chat:   &tele.Chat{ID: chatID},
		wake:   make(chan struct{}, 1),
		logger: logger,
	}
}

// Show records the new slot content; Run delivers it. Only the latest state is kept.
func (s *Sink) Show(current *entity.Notification) {
	s.mu.Lock()
	s.latest = current
	s.dirty = true
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run delivers slot changes until ctx is done
func (s *Sink) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
			s.flush()
		}
	}
}

func (s *Sink) flush() {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return
	}
	current := s.latest
	s.dirty = false
	previous := s.message
	s.message = nil
	s.mu.Unlock()

	if previous != nil {
		if err := s.bot.Delete(previous); err != nil {
			s.logger.Warnf("failed to delete notification message %d: %v", previous.ID, err)
		}
	}
	if current == nil {
		return
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("Dismiss", DismissButton.Unique, current.ID)))

	msg, err := s.bot.Send(s.chat, Format(*current), markup, tele.ModeHTML)
	if err != nil {
		s.logger.Errorf("failed to send notification %s to chat %d: %v", current.ID, s.chat.ID, err)
		return
	}

	s.mu.Lock()
	s.message = msg
	s.mu.Unlock()
}

// OnDismiss handles presses of DismissButton
func (s *Sink) OnDismiss(queue dismisser) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !queue.Dismiss(c.Data()) {
			return c.Respond(&tele.CallbackResponse{Text: "Already gone"})
		}
		return c.Respond()
	}
}

// LogHook forwards log entries at or above level to the chat
func (s *Sink) LogHook(chatID int64, level zapcore.Level) types.LogHook {
	chat := &tele.Chat{ID: chatID}
	return func(log types.Log) {
		if log.Level < level {
			return
		}
		_, err := s.bot.Send(chat, FormatLog(log), tele.ModeHTML)
		if err != nil && !strings.Contains(log.Message, "failed to send log to chat") {
			s.logger.Errorf("failed to send log to chat %d: %v", chatID, err)
		}
	}
}

var typeIcons = map[entity.NotificationType]string{
	entity.NotificationTypeInfo:    "🔔",
	entity.NotificationTypeSuccess: "✅",
	entity.NotificationTypeWarning: "⚠️",
	entity.NotificationTypeError:   "❌",
}

// Format renders a notification as Telegram HTML
func Format(n entity.Notification) string {
	lines := strings.Split(n.Message, "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	lines[0] = fmt.Sprintf("%s <b>%s</b>", typeIcons[n.Type], lines[0])
	return strings.Join(lines, "\n")
}

func FormatLog(log types.Log) string {
	return fmt.Sprintf(
		"<b>%s</b> <code>%s</code>\n%s\n<i>%s</i>",
		log.Level.CapitalString(),
		html.EscapeString(log.LoggerName),
		html.EscapeString(log.Message),
		html.EscapeString(log.Caller),
	)
}
