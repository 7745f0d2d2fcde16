package logsink

import (
	"strings"

	"github.com/Badsnus/cu-events-notifier/internal/domain/entity"
	"github.com/Badsnus/cu-events-notifier/pkg/logger/types"
)

// Sink writes every displayed notification to the log, for headless runs
type Sink struct {
	logger *types.Logger
}

func New(logger *types.Logger) *Sink {
	return &Sink{logger: logger}
}

func (s *Sink) Show(current *entity.Notification) {
	if current == nil {
		s.logger.Debug("Notification slot is empty")
		return
	}

	message := strings.ReplaceAll(current.Message, "\n", " | ")
	switch current.Type {
	case entity.NotificationTypeError:
		s.logger.Errorw(message, "notification_id", current.ID, "event_id", current.EventID)
	case entity.NotificationTypeWarning:
		s.logger.Warnw(message, "notification_id", current.ID, "event_id", current.EventID)
	default:
		s.logger.Infow(message, "notification_id", current.ID, "event_id", current.EventID)
	}
}
