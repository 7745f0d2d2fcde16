package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Badsnus/cu-events-notifier/internal/domain/dto"
	"github.com/Badsnus/cu-events-notifier/internal/domain/entity"
	"github.com/Badsnus/cu-events-notifier/internal/domain/service"
)

type notificationQueue interface {
	Dismiss(id string) bool
	Pending() []entity.Notification
}

type poller interface {
	Tick(ctx context.Context) service.TickResult
}

type shownEvents interface {
	Clear(ctx context.Context)
	Degraded() bool
}

type preferences interface {
	ToggleNotifications(ctx context.Context, userID string) (bool, error)
}

type session interface {
	Viewer() (dto.Viewer, bool)
	Navigate(surface string)
}

type Deps struct {
	Feed        *Feed
	Queue       notificationQueue
	Poller      poller
	ShownEvents shownEvents
	Preferences preferences
	Session     session
}

type dismissedMsg struct{ ok bool }

type tickDoneMsg struct{ result service.TickResult }

type toggledMsg struct {
	enabled bool
	err     error
}

type clearedMsg struct{}

type navigatedMsg struct{ surface string }

// Model is the terminal notification view
type Model struct {
	deps    Deps
	keys    *KeyMap
	help    help.Model
	current *entity.Notification
	pending int
	status  string
	width   int
}

func New(deps Deps) Model {
	return Model{
		deps: deps,
		keys: DefaultKeyMap(),
		help: help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.deps.Feed.wait
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case SlotMsg:
		m.current = msg.Current
		m.pending = len(m.deps.Queue.Pending())
		return m, m.deps.Feed.wait

	case dismissedMsg:
		if !msg.ok {
			m.status = "Already dismissed"
		}
		return m, nil

	case tickDoneMsg:
		m.status = tickStatus(msg.result)
		return m, nil

	case toggledMsg:
		switch {
		case msg.err != nil:
			m.status = fmt.Sprintf("Could not update preference: %v", msg.err)
		case msg.enabled:
			m.status = "Notifications on"
		default:
			m.status = "Notifications off"
		}
		return m, nil

	case clearedMsg:
		m.status = "Shown events forgotten"
		if m.deps.ShownEvents.Degraded() {
			m.status += " (not persisted)"
		}
		return m, nil

	case navigatedMsg:
		m.status = "On " + msg.surface
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		if m.current == nil {
			return m, nil
		}
		id := m.current.ID
		queue := m.deps.Queue
		return m, func() tea.Msg {
			return dismissedMsg{ok: queue.Dismiss(id)}
		}

	case key.Matches(msg, m.keys.Refresh):
		p := m.deps.Poller
		m.status = "Checking liked events..."
		return m, func() tea.Msg {
			return tickDoneMsg{result: p.Tick(context.Background())}
		}

	case key.Matches(msg, m.keys.Toggle):
		viewer, ok := m.deps.Session.Viewer()
		if !ok {
			m.status = "Sign in first"
			return m, nil
		}
		prefs := m.deps.Preferences
		return m, func() tea.Msg {
			enabled, err := prefs.ToggleNotifications(context.Background(), viewer.UserID)
			return toggledMsg{enabled: enabled, err: err}
		}

	case key.Matches(msg, m.keys.Clear):
		shown := m.deps.ShownEvents
		return m, func() tea.Msg {
			shown.Clear(context.Background())
			return clearedMsg{}
		}

	case key.Matches(msg, m.keys.Landing):
		viewer, _ := m.deps.Session.Viewer()
		surface := dto.SurfaceLanding
		if viewer.OnLanding() {
			surface = dto.SurfaceHome
		}
		s := m.deps.Session
		return m, func() tea.Msg {
			s.Navigate(surface)
			return navigatedMsg{surface: surface}
		}
	}
	return m, nil
}

func tickStatus(result service.TickResult) string {
	switch result.Outcome {
	case service.TickCompleted:
		if result.Enqueued == 0 {
			return "Nothing happening right now"
		}
		return fmt.Sprintf("%d liked event(s) happening now", result.Enqueued)
	case service.TickSkippedInFlight:
		return "A check is already running"
	case service.TickSkippedNoViewer:
		return "Sign in first"
	case service.TickSkippedLanding:
		return "Paused on the landing page"
	case service.TickSkippedDisabled:
		return "Notifications are off"
	case service.TickCancelled:
		return "Check cancelled"
	default:
		return fmt.Sprintf("Check failed: %v", result.Err)
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Campus events"))
	b.WriteString("\n\n")

	if m.current == nil {
		b.WriteString(mutedStyle.Render("No notifications"))
	} else {
		style := notificationStyle(m.current.Type)
		if m.width > 4 {
			style = style.Width(m.width - 4)
		}
		b.WriteString(style.Render(m.current.Message))
	}
	b.WriteString("\n")

	var footer []string
	if m.pending > 0 {
		footer = append(footer, fmt.Sprintf("%d waiting", m.pending))
	}
	if m.status != "" {
		footer = append(footer, m.status)
	}
	if len(footer) > 0 {
		b.WriteString(statusStyle.Render(strings.Join(footer, " · ")))
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().MarginTop(1).Render(m.help.View(m.keys)))
	return b.String()
}
