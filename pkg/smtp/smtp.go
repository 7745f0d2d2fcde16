package smtp

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/Badsnus/cu-events-notifier/internal/domain/entity"
	"github.com/Badsnus/cu-events-notifier/pkg/logger/types"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Options struct {
	From   string
	To     string
	Domain string // used for Message-ID
}

// Client mirrors notifications to a mailbox
type Client struct {
	dialer dialer
	opts   Options
	logger *types.Logger
}

func NewClient(dialer dialer, opts Options, logger *types.Logger) *Client {
	if logger == nil {
		logger = types.Nop()
	}
	return &Client{dialer: dialer, opts: opts, logger: logger}
}

// SendNotification mails n to the configured recipient
func (c *Client) SendNotification(n entity.Notification) error {
	msg := gomail.NewMessage()

	msg.SetHeader("Message-ID", generateMessageID(c.opts.Domain))
	msg.SetHeader("Date", n.Timestamp.Format(time.RFC1123Z))
	msg.SetHeader("From", c.opts.From)
	msg.SetHeader("To", c.opts.To)
	msg.SetHeader("Subject", subject(n))
	msg.SetBody("text/plain", n.Message)
	msg.AddAlternative("text/html", strings.ReplaceAll(html.EscapeString(n.Message), "\n", "<br>"))

	if err := c.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send notification %s: %w", n.ID, err)
	}

	c.logger.Infof("Notification mailed (id=%s, to=%s)", n.ID, c.opts.To)
	return nil
}

func subject(n entity.Notification) string {
	first, _, _ := strings.Cut(n.Message, "\n")
	if n.Type == entity.NotificationTypeInfo {
		return first
	}
	return fmt.Sprintf("[%s] %s", strings.ToUpper(string(n.Type)), first)
}

func generateMessageID(domain string) string {
	uniqueID := uuid.New().String()
	return fmt.Sprintf("<%s@%s>", uniqueID, domain)
}
