package notification

import (
	"context"
	"fmt"
	"strconv"
	
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	
	db "github.com/hostelia/hostelia-BE/internal/db/sqlc"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

type ListParams struct {
	Limit      int
	Skip       int
	UnreadOnly bool
}

type ListResult struct {
	Notifications []db.Notification
	TotalCount    int64
	HasMore       bool
}

// ListNotifications returns a user's notifications newest-first. Out of
// range limit/skip values are clamped, never rejected.
func (s *NotificationService) ListNotifications(ctx context.Context, userID string, params ListParams) (ListResult, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	
	skip := params.Skip
	if skip < 0 {
		skip = 0
	}
	
	notifications, err := s.store.ListNotificationsByUser(ctx, db.ListNotificationsByUserParams{
		UserID:     userID,
		UnreadOnly: params.UnreadOnly,
		Limit:      int32(limit),
		Offset:     int32(skip),
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("failed to list notifications: %w", err)
	}
	
	total, err := s.store.CountNotificationsByUser(ctx, db.CountNotificationsByUserParams{
		UserID:     userID,
		UnreadOnly: params.UnreadOnly,
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("failed to count notifications: %w", err)
	}
	
	return ListResult{
		Notifications: notifications,
		TotalCount:    total,
		HasMore:       int64(skip)+int64(len(notifications)) < total,
	}, nil
}

// MarkNotificationRead marks one notification as read, but only if it
// belongs to the caller. A foreign or unknown id surfaces as
// db.ErrRecordNotFound so existence under another owner is not revealed.
func (s *NotificationService) MarkNotificationRead(ctx context.Context, notificationID, userID string) (db.Notification, error) {
	n, err := s.store.MarkNotificationRead(ctx, db.MarkNotificationReadParams{
		ID:     notificationID,
		UserID: userID,
	})
	if err != nil {
		return db.Notification{}, err
	}
	
	s.invalidateUnreadCount(ctx, userID)
	
	return n, nil
}

// MarkAllNotificationsRead marks every unread notification owned by the
// user and returns the count mutated. Zero unread is not an error.
func (s *NotificationService) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	updated, err := s.store.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	
	if updated > 0 {
		s.invalidateUnreadCount(ctx, userID)
	}
	
	return updated, nil
}

// CountUnreadNotifications returns the user's unread count, served from a
// short-lived redis cache when available. The cache only ever degrades to
// the store; it never fails the request.
func (s *NotificationService) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, unreadCountCacheKey(userID)).Result()
		if err == nil {
			if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return count, nil
			}
		} else if err != redis.Nil {
			log.Warn().Err(err).Msg("failed to read unread count cache")
		}
	}
	
	count, err := s.store.CountUnreadNotificationsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	
	if s.redis != nil {
		if err := s.redis.Set(ctx, unreadCountCacheKey(userID), count, unreadCountCacheTTL).Err(); err != nil {
			log.Warn().Err(err).Msg("failed to write unread count cache")
		}
	}
	
	return count, nil
}
