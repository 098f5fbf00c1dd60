package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yugash007/nexel-api/internal/models"
	"github.com/yugash007/nexel-api/internal/store"
)

// NotificationRepository handles persistence of notifications.
type NotificationRepository struct {
	store store.Store
}

// NewNotificationRepository constructs the repository.
func NewNotificationRepository(s store.Store) *NotificationRepository {
	return &NotificationRepository{store: s}
}

// Create writes a new unread notification for the recipient.
func (r *NotificationRepository) Create(ctx context.Context, userID, message, link string) error {
	notification := models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		Link:      link,
		CreatedAt: time.Now().UTC(),
		Read:      false,
	}
	if err := r.store.Insert(ctx, store.Notifications, notification.ID, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// FindByUser returns all notifications addressed to the user.
func (r *NotificationRepository) FindByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := r.store.Find(ctx, store.Notifications, store.Filter{"user_id": userID}, &notifications); err != nil {
		return nil, fmt.Errorf("list notifications by user: %w", err)
	}
	return notifications, nil
}

// MarkAllRead flags every unread notification of the user as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	notifications, err := r.FindByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, n := range notifications {
		if n.Read {
			continue
		}
		if err := r.store.Update(ctx, store.Notifications, n.ID, map[string]interface{}{"read": true}); err != nil {
			return fmt.Errorf("mark notification read: %w", err)
		}
	}
	return nil
}

// CountUnread returns the number of unread notifications for the user.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var notifications []models.Notification
	filter := store.Filter{"user_id": userID, "read": false}
	if err := r.store.Find(ctx, store.Notifications, filter, &notifications); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return len(notifications), nil
}
