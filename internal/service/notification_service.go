package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yugash007/nexel-api/internal/models"
	appErrors "github.com/yugash007/nexel-api/pkg/errors"
)

type notificationRepository interface {
	FindByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

// NotificationService serves the per-user notification feed. The unread count
// is cached in Redis with a short TTL when a client is configured.
type NotificationService struct {
	notifications notificationRepository
	cache         *redis.Client
	metrics       *MetricsService
	unreadTTL     time.Duration
	logger        *zap.Logger
}

// NewNotificationService constructs a NotificationService. cache and metrics
// may be nil; caching is then skipped.
func NewNotificationService(notifications notificationRepository, cache *redis.Client, metrics *MetricsService, unreadTTL time.Duration, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if unreadTTL <= 0 {
		unreadTTL = 30 * time.Second
	}
	return &NotificationService{
		notifications: notifications,
		cache:         cache,
		metrics:       metrics,
		unreadTTL:     unreadTTL,
		logger:        logger,
	}
}

// ListByUser returns the user's notifications, newest first.
func (s *NotificationService) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications, err := s.notifications.FindByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

// MarkAllRead marks every unread notification of the user as read and
// invalidates the cached unread count.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.notifications.MarkAllRead(ctx, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notifications read")
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// UnreadCount returns the number of unread notifications, served from cache
// when fresh.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	key := unreadCountKey(userID)

	if s.cache != nil {
		start := time.Now()
		cached, err := s.cache.Get(ctx, key).Result()
		switch {
		case err == nil:
			s.metrics.RecordCacheOperation(true, time.Since(start))
			if count, parseErr := strconv.Atoi(cached); parseErr == nil {
				return count, nil
			}
		case errors.Is(err, redis.Nil):
			s.metrics.RecordCacheOperation(false, time.Since(start))
		default:
			s.metrics.RecordCacheOperation(false, time.Since(start))
			s.logger.Warn("unread count cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count unread notifications")
	}

	if s.cache != nil {
		start := time.Now()
		if err := s.cache.Set(ctx, key, strconv.Itoa(count), s.unreadTTL).Err(); err != nil {
			s.logger.Warn("unread count cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
		s.metrics.ObserveCacheWrite(time.Since(start))
	}
	return count, nil
}

func (s *NotificationService) invalidateUnread(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, unreadCountKey(userID)).Err(); err != nil {
		s.logger.Warn("unread count cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func unreadCountKey(userID string) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}
