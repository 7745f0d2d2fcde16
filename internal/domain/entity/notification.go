package entity

import "time"

type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeError   NotificationType = "error"
)

// Valid reports whether t is one of the known notification types
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeInfo, NotificationTypeWarning, NotificationTypeSuccess, NotificationTypeError:
		return true
	}
	return false
}

// Notification is a transient message shown to the viewer. It is never persisted;
// EventID is set when the notification was raised for a liked event.
type Notification struct {
	ID        string
	Message   string
	Type      NotificationType
	Timestamp time.Time
	EventID   string
}
