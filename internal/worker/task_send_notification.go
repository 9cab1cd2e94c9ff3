package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	
	"github.com/hostelia/hostelia-BE/internal/notification"
)

// PayloadSendNotification contain all data of the task that we want to store in Redis.
// One recipient means a single record; several mean one record per recipient.
// EmailRecipients is optional: when present and SMTP is configured, an email
// copy of the notification is sent as well.
type PayloadSendNotification struct {
	UserIDs           []string `json:"user_ids"`
	Type              string   `json:"type"`
	Title             string   `json:"title"`
	Message           string   `json:"message"`
	RelatedEntityID   string   `json:"related_entity_id"`
	RelatedEntityType string   `json:"related_entity_type"`
	EmailRecipients   []string `json:"email_recipients"`
}

func (distributor *RedisTaskDistributor) DistributeTaskSendNotification(
	ctx context.Context,
	payload *PayloadSendNotification,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}
	
	task := asynq.NewTask(TaskSendNotification, jsonPayload, opts...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	
	log.Info().Str("type", task.Type()).Bytes("payload", task.Payload()).Str("queue", info.Queue).Int("max_retry", info.MaxRetry).Msg("task enqueued")
	
	return nil
}

func (processor *RedisTaskProcessor) ProcessTaskSendNotification(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload PayloadSendNotification
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}
	
	if len(payload.UserIDs) == 0 {
		return fmt.Errorf("no recipients in payload: %w", asynq.SkipRetry)
	}
	
	data := notification.CreateParams{
		Type:              payload.Type,
		Title:             payload.Title,
		Message:           payload.Message,
		RelatedEntityID:   payload.RelatedEntityID,
		RelatedEntityType: payload.RelatedEntityType,
	}
	
	if len(payload.UserIDs) == 1 {
		data.UserID = payload.UserIDs[0]
		
		n, err := processor.notificationService.CreateNotification(ctx, data)
		if err != nil {
			return err
		}
		
		processor.sendEmailCopies(payload, n.CreatedAt)
		
		log.Info().Str("type", task.Type()).Str("notification_id", n.ID).
			Str("user_id", n.UserID).Msg("task processed")
		
		return nil
	}
	
	records, err := processor.notificationService.CreateNotifications(ctx, payload.UserIDs, data)
	if err != nil {
		return err
	}
	
	if len(records) > 0 {
		processor.sendEmailCopies(payload, records[0].CreatedAt)
	}
	
	log.Info().Str("type", task.Type()).Int("recipients", len(records)).Msg("task processed")
	
	return nil
}

// sendEmailCopies delivers the optional email side channel. Failures are
// logged only: the records are already persisted and the task must not retry
// a completed insert just because SMTP hiccuped.
func (processor *RedisTaskProcessor) sendEmailCopies(payload PayloadSendNotification, createdAt time.Time) {
	if processor.mailService == nil || len(payload.EmailRecipients) == 0 {
		return
	}

	if err := processor.mailService.SendNotificationEmail(payload.EmailRecipients, payload.Title, payload.Message, createdAt); err != nil {
		log.Error().Err(err).Strs("recipients", payload.EmailRecipients).Msg("failed to send notification email")
	}
}
