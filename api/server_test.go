package api

import (
	"context"
	"sync"
	"testing"
	"time"
	
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgtype"
	
	db "github.com/hostelia/hostelia-BE/internal/db/sqlc"
	"github.com/hostelia/hostelia-BE/internal/event"
	"github.com/hostelia/hostelia-BE/internal/notification"
	"github.com/hostelia/hostelia-BE/internal/util"
	"github.com/hostelia/hostelia-BE/internal/worker"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStore is an in-memory db.Store so handlers can be exercised without
// Postgres.
type fakeStore struct {
	mu            sync.Mutex
	notifications []db.Notification
}

func (s *fakeStore) Ping(ctx context.Context) error { return nil }

func (s *fakeStore) CreateNotification(ctx context.Context, arg db.CreateNotificationParams) (db.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	
	now := time.Now().UTC()
	n := db.Notification{
		ID:                arg.ID,
		UserID:            arg.UserID,
		Type:              arg.Type,
		Title:             arg.Title,
		Message:           arg.Message,
		RelatedEntityID:   arg.RelatedEntityID,
		RelatedEntityType: arg.RelatedEntityType,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.notifications = append(s.notifications, n)
	
	return n, nil
}

func (s *fakeStore) CreateNotifications(ctx context.Context, args []db.CreateNotificationsParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	
	for _, arg := range args {
		s.notifications = append(s.notifications, db.Notification{
			ID:        arg.ID,
			UserID:    arg.UserID,
			Type:      arg.Type,
			Title:     arg.Title,
			Message:   arg.Message,
			CreatedAt: arg.CreatedAt,
			UpdatedAt: arg.UpdatedAt,
		})
	}
	
	return int64(len(args)), nil
}

func (s *fakeStore) matchedLocked(userID string, unreadOnly bool) []db.Notification {
	matched := []db.Notification{}
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		matched = append(matched, n)
	}
	
	return matched
}

func (s *fakeStore) ListNotificationsByUser(ctx context.Context, arg db.ListNotificationsByUserParams) ([]db.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	
	matched := s.matchedLocked(arg.UserID, arg.UnreadOnly)
	
	skip := int(arg.Offset)
	if skip > len(matched) {
		skip = len(matched)
	}
	end := skip + int(arg.Limit)
	if end > len(matched) {
		end = len(matched)
	}
	
	return matched[skip:end], nil
}

func (s *fakeStore) CountNotificationsByUser(ctx context.Context, arg db.CountNotificationsByUserParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	
	return int64(len(s.matchedLocked(arg.UserID, arg.UnreadOnly))), nil
}

func (s *fakeStore) CountUnreadNotificationsByUser(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	
	return int64(len(s.matchedLocked(userID, true))), nil
}

func (s *fakeStore) MarkNotificationRead(ctx context.Context, arg db.MarkNotificationReadParams) (db.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	
	for i, n := range s.notifications {
		if n.ID != arg.ID || n.UserID != arg.UserID {
			continue
		}
		
		s.notifications[i].Read = true
		if !s.notifications[i].ReadAt.Valid {
			s.notifications[i].ReadAt = pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
		}
		
		return s.notifications[i], nil
	}
	
	return db.Notification{}, db.ErrRecordNotFound
}

func (s *fakeStore) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	
	var updated int64
	now := time.Now().UTC()
	for i, n := range s.notifications {
		if n.UserID != userID || n.Read {
			continue
		}
		
		s.notifications[i].Read = true
		s.notifications[i].ReadAt = pgtype.Timestamptz{Time: now, Valid: true}
		updated++
	}
	
	return updated, nil
}

func (s *fakeStore) DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

// fakeDistributor records enqueued payloads instead of talking to redis.
type fakeDistributor struct {
	mu       sync.Mutex
	payloads []*worker.PayloadSendNotification
}

func (d *fakeDistributor) DistributeTaskSendNotification(ctx context.Context, payload *worker.PayloadSendNotification, opts ...asynq.Option) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	
	d.payloads = append(d.payloads, payload)
	return nil
}

func newTestServer(t *testing.T) (*Server, *notification.NotificationService, *fakeDistributor) {
	t.Helper()
	
	store := &fakeStore{}
	registry := event.NewRegistry()
	service := notification.NewNotificationService(store, registry, nil)
	distributor := &fakeDistributor{}
	
	config := &util.Config{
		AllowedOrigins:      []string{"http://localhost:3000"},
		TokenSecretKey:      "0123456789abcdef0123456789abcdef",
		AccessTokenDuration: time.Hour,
	}
	
	server, err := NewServer(store, distributor, service, config)
	if err != nil {
		t.Fatalf("failed to create test server: %v", err)
	}
	
	return server, service, distributor
}

func bearerToken(t *testing.T, server *Server, userID, role string) string {
	t.Helper()
	
	accessToken, _, err := server.tokenMaker.CreateToken(userID, role, time.Minute)
	if err != nil {
		t.Fatalf("failed to create token: %v", err)
	}
	
	return authorizationTypeBearer + " " + accessToken
}
