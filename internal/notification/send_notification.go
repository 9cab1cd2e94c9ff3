package notification

import (
	"context"
	"fmt"
	"time"
	
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	
	db "github.com/hostelia/hostelia-BE/internal/db/sqlc"
	"github.com/hostelia/hostelia-BE/internal/event"
)

// CreateNotification persists one record, then attempts live delivery to
// any channel currently open for the recipient. A persistence failure
// propagates to the caller; a delivery failure never does.
func (s *NotificationService) CreateNotification(ctx context.Context, params CreateParams) (db.Notification, error) {
	if err := params.Validate(); err != nil {
		return db.Notification{}, err
	}
	
	n, err := s.store.CreateNotification(ctx, db.CreateNotificationParams{
		ID:                uuid.NewString(),
		UserID:            params.UserID,
		Type:              params.Type,
		Title:             params.Title,
		Message:           params.Message,
		RelatedEntityID:   textOrNull(params.RelatedEntityID),
		RelatedEntityType: textOrNull(params.RelatedEntityType),
	})
	if err != nil {
		return db.Notification{}, fmt.Errorf("failed to persist notification: %w", err)
	}
	
	s.invalidateUnreadCount(ctx, params.UserID)
	s.dispatch(n)
	
	return n, nil
}

// CreateNotifications persists one record per recipient in a single batch
// insert, then dispatches each record independently. Once the insert
// succeeds nothing rolls back: the live push is purely best-effort.
func (s *NotificationService) CreateNotifications(ctx context.Context, userIDs []string, data CreateParams) ([]db.Notification, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	if err := data.ValidateData(); err != nil {
		return nil, err
	}
	
	now := time.Now().UTC()
	rows := make([]db.CreateNotificationsParams, len(userIDs))
	records := make([]db.Notification, len(userIDs))
	for i, userID := range userIDs {
		if userID == "" {
			return nil, fmt.Errorf("user ID at index %d is empty", i)
		}
		
		rows[i] = db.CreateNotificationsParams{
			ID:                uuid.NewString(),
			UserID:            userID,
			Type:              data.Type,
			Title:             data.Title,
			Message:           data.Message,
			RelatedEntityID:   textOrNull(data.RelatedEntityID),
			RelatedEntityType: textOrNull(data.RelatedEntityType),
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		records[i] = db.Notification{
			ID:                rows[i].ID,
			UserID:            userID,
			Type:              data.Type,
			Title:             data.Title,
			Message:           data.Message,
			RelatedEntityID:   rows[i].RelatedEntityID,
			RelatedEntityType: rows[i].RelatedEntityType,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
	}
	
	inserted, err := s.store.CreateNotifications(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to persist notifications: %w", err)
	}
	
	log.Info().Int64("inserted", inserted).Str("type", data.Type).Msg("bulk notifications persisted")
	
	s.invalidateUnreadCount(ctx, userIDs...)
	for _, n := range records {
		s.dispatch(n)
	}
	
	return records, nil
}

// dispatch pushes a freshly created record to every channel open for its
// owner. A write failure on one channel deregisters that channel only and
// never reaches the caller that triggered the notification: the persisted
// record is the durable copy, the push is a latency optimization.
func (s *NotificationService) dispatch(n db.Notification) {
	channels := s.registry.ChannelsFor(n.UserID)
	if len(channels) == 0 {
		return
	}
	
	evt := event.Event{
		Type: event.TypeNotification,
		Data: NewEventPayload(n),
	}
	
	for _, channel := range channels {
		if err := channel.Send(evt); err != nil {
			log.Warn().Err(err).
				Str("user_id", n.UserID).
				Str("channel_id", channel.ID()).
				Str("notification_id", n.ID).
				Msg("dropping dead live channel")
			s.registry.Unregister(n.UserID, channel)
		}
	}
}
