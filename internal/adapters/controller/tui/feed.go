package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Badsnus/cu-events-notifier/internal/domain/entity"
)

// SlotMsg carries the notification now occupying the display slot
type SlotMsg struct {
	Current *entity.Notification
}

// Feed bridges queue slot changes into the Bubble Tea runtime. Show never blocks;
// when the program lags behind, only the latest slot content is delivered.
type Feed struct {
	mu     sync.Mutex
	latest *entity.Notification
	wake   chan struct{}
}

func NewFeed() *Feed {
	return &Feed{wake: make(chan struct{}, 1)}
}

func (f *Feed) Show(current *entity.Notification) {
	f.mu.Lock()
	f.latest = current
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func (f *Feed) wait() tea.Msg {
	<-f.wake
	f.mu.Lock()
	defer f.mu.Unlock()
	return SlotMsg{Current: f.latest}
}
