package notification

import (
	"context"
)

// Service is the notification sink. Producers queue and move on; background
// workers batch-insert and push to open SSE streams.
type Service interface {
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error

	GetNotifications(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkAsRead(ctx context.Context, recipientID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, recipientID string) error

	// Subscribe opens an SSE stream for the employee; the returned func
	// tears it down.
	Subscribe(ctx context.Context, recipientID string) (<-chan SSEEvent, func())

	// Stop drains the queue and stops the workers.
	Stop()
}
