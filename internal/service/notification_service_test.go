package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yugash007/nexel-api/internal/repository"
	"github.com/yugash007/nexel-api/internal/store/memory"
)

func newNotificationService() (*NotificationService, *repository.NotificationRepository) {
	repo := repository.NewNotificationRepository(memory.New())
	svc := NewNotificationService(repo, nil, nil, time.Minute, zap.NewNop())
	return svc, repo
}

func TestNotificationServiceListByUser(t *testing.T) {
	svc, repo := newNotificationService()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "u1", "first", "/courses/c1"))
	require.NoError(t, repo.Create(ctx, "u1", "second", "/grades"))
	require.NoError(t, repo.Create(ctx, "u2", "other user", "/courses/c2"))

	notifications, err := svc.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notifications, 2)

	messages := []string{notifications[0].Message, notifications[1].Message}
	assert.ElementsMatch(t, []string{"first", "second"}, messages)
	for _, n := range notifications {
		assert.False(t, n.Read)
	}
}

func TestNotificationServiceUnreadCount(t *testing.T) {
	svc, repo := newNotificationService()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "u1", "a", ""))
	require.NoError(t, repo.Create(ctx, "u1", "b", ""))
	require.NoError(t, repo.Create(ctx, "u2", "c", ""))

	count, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNotificationServiceMarkAllRead(t *testing.T) {
	svc, repo := newNotificationService()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "u1", "a", ""))
	require.NoError(t, repo.Create(ctx, "u1", "b", ""))
	require.NoError(t, repo.Create(ctx, "u2", "untouched", ""))

	require.NoError(t, svc.MarkAllRead(ctx, "u1"))

	count, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	otherCount, err := svc.UnreadCount(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, otherCount)

	notifications, err := svc.ListByUser(ctx, "u1")
	require.NoError(t, err)
	for _, n := range notifications {
		assert.True(t, n.Read)
	}
}

func TestNotificationServiceUnreadCountEmpty(t *testing.T) {
	svc, _ := newNotificationService()

	count, err := svc.UnreadCount(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
