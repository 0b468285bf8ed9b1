package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		raw      string
		expected NotificationType
	}{
		{raw: "order_update", expected: TypeOrderUpdate},
		{raw: "service_update", expected: TypeServiceUpdate},
		{raw: "promotional", expected: TypePromotional},
		{raw: "payment", expected: TypePayment},
		{raw: "reminder", expected: TypeReminder},
		{raw: "system", expected: TypeSystem},
		{raw: "", expected: TypeSystem},
		{raw: "ORDER_UPDATE", expected: TypeSystem},
		{raw: "chat", expected: TypeSystem},
	}

	for _, tt := range tests {
		t.Run("given "+tt.raw+" should parse", func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseType(tt.raw))
		})
	}
}

func TestInbox(t *testing.T) {
	t.Run("given added notifications should keep append order", func(t *testing.T) {
		inbox := NewInbox()
		inbox.Add(Notification{ID: "a"})
		inbox.Add(Notification{ID: "b"})

		assert.Equal(t, "a", inbox.Notifications[0].ID)
		assert.Equal(t, "b", inbox.Notifications[1].ID)
		assert.Equal(t, 2, inbox.UnreadCount())
	})

	t.Run("given known id mark as read should flip only that one", func(t *testing.T) {
		inbox := NewInbox()
		inbox.Add(Notification{ID: "a"})
		inbox.Add(Notification{ID: "b"})

		assert.True(t, inbox.MarkAsRead("a"))
		assert.True(t, inbox.Notifications[0].IsRead)
		assert.False(t, inbox.Notifications[1].IsRead)
		assert.Equal(t, 1, inbox.UnreadCount())

		assert.True(t, inbox.MarkAsRead("a"))
		assert.Equal(t, 1, inbox.UnreadCount())
	})

	t.Run("given unknown id mark as read should report missing", func(t *testing.T) {
		inbox := NewInbox()
		inbox.Add(Notification{ID: "a"})

		assert.False(t, inbox.MarkAsRead("z"))
		assert.Equal(t, 1, inbox.UnreadCount())
	})

	t.Run("given mark all as read should leave nothing unread", func(t *testing.T) {
		inbox := NewInbox()
		inbox.Add(Notification{ID: "a"})
		inbox.Add(Notification{ID: "b"})
		inbox.Add(Notification{ID: "c"})

		inbox.MarkAllAsRead()
		assert.Equal(t, 0, inbox.UnreadCount())
		assert.Len(t, inbox.Notifications, 3)
	})
}
