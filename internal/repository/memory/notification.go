package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/domain/notification"
)

type NotificationStore struct {
	mu            sync.RWMutex
	notifications map[string]*notification.Notification
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{notifications: make(map[string]*notification.Notification)}
}

func (s *NotificationStore) Create(ctx context.Context, n *notification.Notification) error {
	return s.CreateBatch(ctx, []*notification.Notification{n})
}

func (s *NotificationStore) CreateBatch(_ context.Context, notifications []*notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range notifications {
		stored := *n
		s.notifications[n.ID] = &stored
	}
	return nil
}

func (s *NotificationStore) GetByRecipient(_ context.Context, recipientID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*notification.Notification
	for _, n := range s.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		copied := *n
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *NotificationStore) GetUnreadCount(_ context.Context, recipientID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *NotificationStore) MarkAsRead(_ context.Context, ids []string, recipientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	marked := 0
	for _, id := range ids {
		n, ok := s.notifications[id]
		if !ok || n.RecipientID != recipientID || n.IsRead {
			continue
		}
		n.IsRead = true
		n.ReadAt = &now
		marked++
	}
	if marked == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationStore) MarkAllAsRead(_ context.Context, recipientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	return nil
}
