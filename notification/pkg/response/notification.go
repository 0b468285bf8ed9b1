package response

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        string            `json:"id"`
	UserID    uuid.UUID         `json:"userId"`
	Type      string            `json:"type"`
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
	UnreadCount   int            `json:"unreadCount"`
}
