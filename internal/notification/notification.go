package notification

import (
	"context"
	"fmt"
	"time"
	
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	
	db "github.com/hostelia/hostelia-BE/internal/db/sqlc"
	"github.com/hostelia/hostelia-BE/internal/event"
)

const unreadCountCacheTTL = 30 * time.Second

// NotificationService owns the persisted notification records and the
// best-effort live fan-out on top of them. The registry is injected so it
// can be swapped for a test double; the redis client is an optional cache
// for unread counts and may be nil.
type NotificationService struct {
	store    db.Store
	registry *event.Registry
	redis    *redis.Client
}

func NewNotificationService(store db.Store, registry *event.Registry, redisClient *redis.Client) *NotificationService {
	return &NotificationService{
		store:    store,
		registry: registry,
		redis:    redisClient,
	}
}

// Registry exposes the connection registry so the stream endpoint can
// register and deregister its channels.
func (s *NotificationService) Registry() *event.Registry {
	return s.registry
}

func unreadCountCacheKey(userID string) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}

// invalidateUnreadCount drops the cached unread counter for a user. Cache
// errors are logged and swallowed: the store stays the system of record.
func (s *NotificationService) invalidateUnreadCount(ctx context.Context, userIDs ...string) {
	if s.redis == nil {
		return
	}
	
	keys := make([]string, len(userIDs))
	for i, userID := range userIDs {
		keys[i] = unreadCountCacheKey(userID)
	}
	
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate unread count cache")
	}
}
