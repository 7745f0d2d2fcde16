package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Badsnus/cu-events-notifier/internal/domain/entity"
)

var (
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorWhite).
	Background(colorBlue).
	Padding(0, 1)

var mutedStyle = lipgloss.NewStyle().
	Foreground(colorGray).
	Italic(true)

var statusStyle = lipgloss.NewStyle().
	Foreground(colorGray)

// notificationStyle returns the bordered card style for a notification type
func notificationStyle(t entity.NotificationType) lipgloss.Style {
	color := colorBlue
	switch t {
	case entity.NotificationTypeSuccess:
		color = colorGreen
	case entity.NotificationTypeWarning:
		color = colorYellow
	case entity.NotificationTypeError:
		color = colorRed
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color)
}
