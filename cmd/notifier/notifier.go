package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/facebookgo/clock"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/gomail.v2"
	tele "gopkg.in/telebot.v3"

	"github.com/Badsnus/cu-events-notifier/internal/adapters/config"
	"github.com/Badsnus/cu-events-notifier/internal/adapters/controller/logsink"
	"github.com/Badsnus/cu-events-notifier/internal/adapters/controller/telegram"
	"github.com/Badsnus/cu-events-notifier/internal/adapters/controller/tui"
	"github.com/Badsnus/cu-events-notifier/internal/adapters/database/postgres"
	"github.com/Badsnus/cu-events-notifier/internal/adapters/session"
	"github.com/Badsnus/cu-events-notifier/internal/domain/dto"
	"github.com/Badsnus/cu-events-notifier/internal/domain/entity"
	"github.com/Badsnus/cu-events-notifier/internal/domain/service"
	"github.com/Badsnus/cu-events-notifier/pkg/logger"
	"github.com/Badsnus/cu-events-notifier/pkg/logger/types"
	"github.com/Badsnus/cu-events-notifier/pkg/smtp"
)

// Notifier wires the session, the poller and the display sinks together
type Notifier struct {
	Session     *session.Session
	Queue       *service.NotificationQueue
	ShownEvents *service.ShownEventStore
	Poller      *service.NotifyService
	Users       *service.UserService

	bot          *tele.Bot
	telegramSink *telegram.Sink
	mail         *smtp.Client
	feed         *tui.Feed

	logger *types.Logger
}

func New(cfg *config.Config) (*Notifier, error) {
	clk := clock.New()

	mainLogger, err := logger.Named("notifier")
	if err != nil {
		return nil, err
	}
	queueLogger, err := logger.Named("queue")
	if err != nil {
		return nil, err
	}
	pollerLogger, err := logger.Named("poller")
	if err != nil {
		return nil, err
	}
	sessionLogger, err := logger.Named("session")
	if err != nil {
		return nil, err
	}

	users := service.NewUserService(postgres.NewUserStorage(cfg.Database))
	events := service.NewEventService(postgres.NewEventStorage(cfg.Database))

	queue := service.NewNotificationQueue(service.QueueOptions{
		Clock:       clk,
		DisplayFor:  viper.GetDuration("notifications.display-duration"),
		SettleDelay: viper.GetDuration("notifications.settle-delay"),
		Logger:      queueLogger,
	})

	shownEvents := service.NewShownEventStore(
		context.Background(),
		pollerLogger,
		cfg.Slots,
		viper.GetString("notifications.shown-key"),
	)

	sess := session.New(session.Options{
		Secret:   viper.GetString("session.jwt-secret"),
		Audience: viper.GetString("session.audience"),
		Clock:    clk,
		Logger:   sessionLogger,
	})

	poller := service.NewNotifyService(
		service.NotifyOptions{
			Clock:    clk,
			Interval: viper.GetDuration("notifications.poll-interval"),
			Logger:   pollerLogger,
		},
		sess,
		users,
		events,
		shownEvents,
		queue,
	)

	n := &Notifier{
		Session:     sess,
		Queue:       queue,
		ShownEvents: shownEvents,
		Poller:      poller,
		Users:       users,
		logger:      mainLogger,
	}

	if err = n.setupTelegram(); err != nil {
		return nil, err
	}
	n.setupMail()
	n.subscribe()

	return n, nil
}

func (n *Notifier) setupTelegram() error {
	token := viper.GetString("telegram.token")
	if token == "" {
		return nil
	}

	botLogger, err := logger.Named("telegram")
	if err != nil {
		return err
	}

	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, ctx tele.Context) {
			if ctx == nil || ctx.Sender() == nil {
				botLogger.Errorf("Error: %v", err)
				return
			}
			botLogger.Errorf("(user: %d) | Error: %v", ctx.Sender().ID, err)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create telegram bot: %w", err)
	}

	n.bot = b
	n.telegramSink = telegram.NewSink(b, viper.GetInt64("telegram.chat-id"), botLogger)

	b.Handle(&telegram.DismissButton, n.telegramSink.OnDismiss(n.Queue))
	b.Handle("/check", func(c tele.Context) error {
		result := n.Poller.Tick(context.Background())
		return c.Send(fmt.Sprintf("Check %s, %d new notification(s)", result.Outcome, result.Enqueued))
	})

	if chatID := viper.GetInt64("telegram.log-chat-id"); chatID != 0 {
		logger.SetLogHook(n.telegramSink.LogHook(chatID, zapcore.Level(viper.GetInt("telegram.log-level"))))
	}
	return nil
}

func (n *Notifier) setupMail() {
	if viper.GetString("service.smtp.host") == "" {
		return
	}
	mailLogger, err := logger.Named("mail")
	if err != nil {
		mailLogger = types.Nop()
	}

	dialer := gomail.NewDialer(
		viper.GetString("service.smtp.host"),
		viper.GetInt("service.smtp.port"),
		viper.GetString("service.smtp.email"),
		viper.GetString("service.smtp.password"),
	)
	n.mail = smtp.NewClient(dialer, smtp.Options{
		From:   viper.GetString("service.smtp.email"),
		To:     viper.GetString("service.smtp.to"),
		Domain: viper.GetString("service.smtp.domain"),
	}, mailLogger)
}

func (n *Notifier) subscribe() {
	// Polling only runs for a signed-in viewer outside the landing page
	n.Session.Subscribe(func(viewer dto.Viewer, ok bool) {
		if ok && !viewer.OnLanding() {
			n.Poller.Start()
			return
		}
		n.Poller.Stop()
	})

	if viper.GetString("settings.display") == "tui" {
		n.feed = tui.NewFeed()
		n.Queue.Subscribe(n.feed.Show)
	} else {
		displayLogger, err := logger.Named("display")
		if err != nil {
			displayLogger = n.logger
		}
		n.Queue.Subscribe(logsink.New(displayLogger).Show)
	}

	if n.telegramSink != nil {
		n.Queue.Subscribe(n.telegramSink.Show)
	}

	if n.mail != nil {
		var lastMailed string
		n.Queue.Subscribe(func(current *entity.Notification) {
			if current == nil || current.ID == lastMailed {
				return
			}
			lastMailed = current.ID
			mailed := *current
			go func() {
				if err := n.mail.SendNotification(mailed); err != nil {
					n.logger.Errorf("failed to mail notification: %v", err)
				}
			}()
		})
	}
}

// Run signs the viewer in with token (when given) and serves until ctx is done
// or the terminal UI exits.
func (n *Notifier) Run(ctx context.Context, token string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer n.shutdown()

	if n.bot != nil {
		go n.telegramSink.Run(ctx)
		go n.bot.Start()
		n.logger.Info("Telegram sink started")
	}

	if token != "" {
		if err := n.Session.Login(token); err != nil {
			return err
		}
	} else {
		n.logger.Warn("No access token given, waiting without a viewer")
	}

	if n.ShownEvents.Degraded() {
		n.logger.Warn("Shown events are kept in memory only")
	}

	if n.feed == nil {
		<-ctx.Done()
		return nil
	}

	program := tea.NewProgram(tui.New(tui.Deps{
		Feed:        n.feed,
		Queue:       n.Queue,
		Poller:      n.Poller,
		ShownEvents: n.ShownEvents,
		Preferences: n.Users,
		Session:     n.Session,
	}), tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func (n *Notifier) shutdown() {
	n.Session.Logout()
	n.Poller.Stop()
	n.Queue.Close()
	if n.bot != nil {
		n.bot.Stop()
	}
	n.logger.Info("Notifier stopped")
}
