package retention

import (
	"context"
	"time"
	
	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
	
	db "github.com/hostelia/hostelia-BE/internal/db/sqlc"
)

// Sweeper periodically deletes read notifications that are older than the
// retention window. Unread notifications are never purged.
type Sweeper struct {
	store     db.Store
	retention time.Duration
	scheduler gocron.Scheduler
}

func NewSweeper(store db.Store, retentionDays int) (*Sweeper, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	
	return &Sweeper{
		store:     store,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		scheduler: scheduler,
	}, nil
}

// Start schedules the hourly sweep and runs the scheduler.
func (s *Sweeper) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(
			func() {
				s.sweep()
			},
		),
	)
	
	if err != nil {
		return err
	}
	
	s.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down.
func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	
	cutoff := time.Now().Add(-s.retention)
	
	deleted, err := s.store.DeleteReadNotificationsBefore(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("failed to purge old notifications")
		return
	}
	
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("purged old read notifications")
	}
}
