package services

import (
	"log"
	"time"

	"imc-punching/internal/adapters/storage"

	"github.com/robfig/cron/v3"
)

// PhotoCleanupSchedule runs the local photo sweep every midnight
const PhotoCleanupSchedule = "0 0 * * *"

// CronService runs scheduled maintenance jobs
type CronService struct {
	cron    *cron.Cron
	sweeper storage.Sweeper
}

// NewCronService creates a cron service. Schedules are evaluated in loc.
func NewCronService(sweeper storage.Sweeper, loc *time.Location) *CronService {
	return &CronService{
		cron:    cron.New(cron.WithLocation(loc)),
		sweeper: sweeper,
	}
}

// Start registers the jobs and launches the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(PhotoCleanupSchedule, s.RunPhotoCleanup); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("🚀 CronService started (photo cleanup: %s)", PhotoCleanupSchedule)
	return nil
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

// RunPhotoCleanup deletes expired local photos once
func (s *CronService) RunPhotoCleanup() {
	deleted, err := s.sweeper.Sweep(time.Now())
	if err != nil {
		log.Printf("❌ Photo cleanup error: %v", err)
		return
	}
	log.Printf("🧹 Photo cleanup removed %d file(s)", deleted)
}
