package worker

import (
	"context"
	
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	
	"github.com/hostelia/hostelia-BE/internal/mailer"
	"github.com/hostelia/hostelia-BE/internal/notification"
)

/*
 This file contains code that will pick up the tasks from the Redis queue and process them.
*/

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

type TaskProcessor interface {
	Start() error
	Shutdown()
}

type RedisTaskProcessor struct {
	server              *asynq.Server
	notificationService *notification.NotificationService
	mailService         *mailer.GmailSender // nil when SMTP is not configured
}

func NewRedisTaskProcessor(redisOpt asynq.RedisClientOpt, notificationService *notification.NotificationService, mailService *mailer.GmailSender) *RedisTaskProcessor {
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				QueueCritical: 10,
				QueueDefault:  5,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).
					Bytes("payload", task.Payload()).Msg("process task failed")
			}),
			Logger: NewLogger(),
		},
	)
	
	return &RedisTaskProcessor{
		server:              server,
		notificationService: notificationService,
		mailService:         mailService,
	}
}

// Start registers the task handlers for the mux, attaches the mux to the asynq server, and starts the server.
func (processor *RedisTaskProcessor) Start() error {
	mux := asynq.NewServeMux()
	
	mux.HandleFunc(TaskSendNotification, processor.ProcessTaskSendNotification)
	
	return processor.server.Start(mux)
}

// Shutdown waits for in-flight tasks before stopping the server.
func (processor *RedisTaskProcessor) Shutdown() {
	processor.server.Shutdown()
}
