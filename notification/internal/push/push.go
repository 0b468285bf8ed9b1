// Package push turns push channel payloads and locally raised events into
// inbox notifications.
package push

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Alturino/cityat/notification/internal/state"
	"github.com/Alturino/cityat/notification/pkg/request"
)

const (
	DefaultTitle = "New Notification"
	keyType      = "type"
	keyDeepLink  = "deepLink"
)

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func imageURL(n *request.RemoteNotification) *string {
	if n == nil {
		return nil
	}
	if n.Android != nil {
		if url := nonEmpty(n.Android.ImageURL); url != nil {
			return url
		}
	}
	if n.IOS != nil && len(n.IOS.Attachments) > 0 {
		return nonEmpty(n.IOS.Attachments[0].URL)
	}
	return nil
}

// FromRemote maps a push payload for userID into an unread notification.
func FromRemote(userID uuid.UUID, msg request.RemoteMessage, now time.Time) state.Notification {
	n := state.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      state.ParseType(msg.Data[keyType]),
		Title:     DefaultTitle,
		Data:      msg.Data,
		ImageURL:  imageURL(msg.Notification),
		CreatedAt: now,
	}
	if id := nonEmpty(msg.MessageID); id != nil {
		n.ID = *id
	}
	if msg.Notification != nil {
		if title := nonEmpty(msg.Notification.Title); title != nil {
			n.Title = *title
		}
		if msg.Notification.Body != nil {
			n.Message = *msg.Notification.Body
		}
	}
	if deepLink, ok := msg.Data[keyDeepLink]; ok && deepLink != "" {
		n.DeepLink = &deepLink
	}
	return n
}

func NewLocal(
	userID uuid.UUID,
	notificationType state.NotificationType,
	title string,
	message string,
	data map[string]string,
	now time.Time,
) state.Notification {
	return state.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      notificationType,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: now,
	}
}

const (
	orderPlacedTitle = "Order placed"
	keyOrderID       = "orderId"
	keyStoreID       = "storeId"
)

// FromOrderPlaced builds the order update raised when a checkout goes
// through. The deep link points at the placed order.
func FromOrderPlaced(event request.OrderPlaced, now time.Time) state.Notification {
	n := NewLocal(
		event.UserID,
		state.TypeOrderUpdate,
		orderPlacedTitle,
		fmt.Sprintf(
			"Your order of %d item(s) totalling %s has been placed",
			event.ItemCount,
			event.TotalAmount.StringFixed(2),
		),
		map[string]string{
			keyOrderID: event.OrderID.String(),
			keyStoreID: event.StoreID,
		},
		now,
	)
	deepLink := "cityat://orders/" + event.OrderID.String()
	n.DeepLink = &deepLink
	return n
}
