package state

import "github.com/Alturino/cityat/notification/pkg/response"

func (n Notification) Response() response.Notification {
	return response.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead,
		DeepLink:  n.DeepLink,
		ImageURL:  n.ImageURL,
		CreatedAt: n.CreatedAt,
	}
}

func (i Inbox) Response() response.Inbox {
	notifications := make([]response.Notification, len(i.Notifications))
	for idx, n := range i.Notifications {
		notifications[idx] = n.Response()
	}
	return response.Inbox{Notifications: notifications, UnreadCount: i.UnreadCount()}
}
