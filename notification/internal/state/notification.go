// Package state holds the notification container, an append-only inbox with
// read bookkeeping.
package state

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	TypeOrderUpdate   NotificationType = "order_update"
	TypeServiceUpdate NotificationType = "service_update"
	TypePromotional   NotificationType = "promotional"
	TypeSystem        NotificationType = "system"
	TypePayment       NotificationType = "payment"
	TypeReminder      NotificationType = "reminder"
)

// ParseType maps raw onto a known type, defaulting to TypeSystem.
func ParseType(raw string) NotificationType {
	switch t := NotificationType(raw); t {
	case TypeOrderUpdate, TypeServiceUpdate, TypePromotional, TypePayment, TypeReminder:
		return t
	default:
		return TypeSystem
	}
}

type Notification struct {
	ID        string            `json:"id"`
	UserID    uuid.UUID         `json:"userId"`
	Type      NotificationType  `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
	IsRead    bool              `json:"isRead"`
	DeepLink  *string           `json:"deepLink,omitempty"`
	ImageURL  *string           `json:"imageUrl,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

type Inbox struct {
	Notifications []Notification `json:"notifications"`
}

func NewInbox() Inbox {
	return Inbox{Notifications: []Notification{}}
}

func (i *Inbox) Add(n Notification) {
	i.Notifications = append(i.Notifications, n)
}

// MarkAsRead flags the notification with id as read and reports whether it
// exists.
func (i *Inbox) MarkAsRead(id string) bool {
	for idx := range i.Notifications {
		if i.Notifications[idx].ID == id {
			i.Notifications[idx].IsRead = true
			return true
		}
	}
	return false
}

func (i *Inbox) MarkAllAsRead() {
	for idx := range i.Notifications {
		i.Notifications[idx].IsRead = true
	}
}

func (i *Inbox) UnreadCount() int {
	count := 0
	for _, n := range i.Notifications {
		if !n.IsRead {
			count++
		}
	}
	return count
}
