package notification

import (
	"context"
	"sync"
	"time"
	
	"github.com/jackc/pgx/v5/pgtype"
	
	db "github.com/hostelia/hostelia-BE/internal/db/sqlc"
)

// fakeStore is an in-memory db.Store so the service can be exercised
// without Postgres. Records are held in insertion order, which doubles as
// creation order.
type fakeStore struct {
	mu            sync.Mutex
	notifications []db.Notification
	failCreate    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (s *fakeStore) Ping(ctx context.Context) error { return nil }

func (s *fakeStore) CreateNotification(ctx context.Context, arg db.CreateNotificationParams) (db.Notification, error) {
	if s.failCreate != nil {
		return db.Notification{}, s.failCreate
	}
	
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
	if s.failCreate != nil {
		return 0, s.failCreate
	}
	
	s.mu.Lock()
	defer s.mu.Unlock()
	
	for _, arg := range args {
		s.notifications = append(s.notifications, db.Notification{
			ID:                arg.ID,
			UserID:            arg.UserID,
			Type:              arg.Type,
			Title:             arg.Title,
			Message:           arg.Message,
			RelatedEntityID:   arg.RelatedEntityID,
			RelatedEntityType: arg.RelatedEntityType,
			CreatedAt:         arg.CreatedAt,
			UpdatedAt:         arg.UpdatedAt,
		})
	}
	
	return int64(len(args)), nil
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

// matchedLocked returns the user's records newest-first.
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
		s.notifications[i].UpdatedAt = time.Now().UTC()
		
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
		s.notifications[i].UpdatedAt = now
		updated++
	}
	
	return updated, nil
}

func (s *fakeStore) DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	
	kept := s.notifications[:0]
	var deleted int64
	for _, n := range s.notifications {
		if n.Read && n.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	s.notifications = kept
	
	return deleted, nil
}
