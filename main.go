package main

import (
	"context"
	"os"
	
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	
	"github.com/rs/zerolog/log"
	
	"github.com/hostelia/hostelia-BE/api"
	db "github.com/hostelia/hostelia-BE/internal/db/sqlc"
	"github.com/hostelia/hostelia-BE/internal/event"
	"github.com/hostelia/hostelia-BE/internal/mailer"
	"github.com/hostelia/hostelia-BE/internal/notification"
	"github.com/hostelia/hostelia-BE/internal/retention"
	"github.com/hostelia/hostelia-BE/internal/util"
	"github.com/hostelia/hostelia-BE/internal/worker"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	
	// Load configurations
	config, err := util.LoadConfig("./app.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file 😣")
	}
	
	log.Info().Msg("configurations loaded successfully ✅")
	
	// Create connection pool
	connPool, err := pgxpool.New(context.Background(), config.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to validate db connection string 😣")
	}
	
	pingErr := connPool.Ping(context.Background())
	if pingErr != nil {
		log.Fatal().Err(pingErr).Msg("failed to connect to db 😣")
	}
	log.Info().Msg("connected to db ✅")
	
	store := db.NewStore(connPool)
	
	redisDb := redis.NewClient(&redis.Options{
		Addr:     config.RedisServerAddress,
		Password: "", // no password set
		DB:       0,  // use default DB
	})
	
	redisOpt := asynq.RedisClientOpt{
		Addr: config.RedisServerAddress,
	}
	taskDistributor := worker.NewTaskDistributor(redisOpt)
	
	// The connection registry is built once here and injected everywhere,
	// so the stream endpoint and the dispatcher share the same one.
	registry := event.NewRegistry()
	notificationService := notification.NewNotificationService(store, registry, redisDb)
	log.Info().Msg("Notification service created successfully ✅")
	
	var mailService *mailer.GmailSender
	if config.MailEnabled() {
		mailService, err = mailer.NewGmailSender(config.GmailSMTPUsername, config.GmailSMTPPassword, config)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create mailer service 😣")
		}
		log.Info().Msg("Mailer service created successfully ✅")
	} else {
		log.Info().Msg("SMTP credentials not provided, email side channel disabled")
	}
	
	go runTaskProcessor(redisOpt, notificationService, mailService)
	
	sweeper, err := retention.NewSweeper(store, config.NotificationRetentionDays)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create retention sweeper 😣")
	}
	if err = sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start retention sweeper 😣")
	}
	log.Info().Msg("Retention sweeper started successfully ✅")
	
	runHTTPServer(config, store, taskDistributor, notificationService)
}

func runTaskProcessor(redisOpt asynq.RedisClientOpt, notificationService *notification.NotificationService, mailService *mailer.GmailSender) {
	taskProcessor := worker.NewRedisTaskProcessor(redisOpt, notificationService, mailService)
	
	log.Info().Msg("Task processor started successfully ✅")
	if err := taskProcessor.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start task processor 😣")
	}
}

func runHTTPServer(config util.Config, store db.Store, taskDistributor worker.TaskDistributor, notificationService *notification.NotificationService) {
	server, err := api.NewServer(store, taskDistributor, notificationService, &config)
	
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create HTTP server 😣")
	}
	
	err = server.Start(config.HTTPServerAddress)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start HTTP server 😣")
	}
}
