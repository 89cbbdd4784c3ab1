// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/melodia-community/melodia-backend/internal/config"
	"github.com/melodia-community/melodia-backend/internal/services"
)

// Scheduler runs the periodic background jobs: the roster sync against the
// Google Sheet and the orphaned-receipt cleanup sweep.
type Scheduler struct {
	cron               *cron.Cron
	config             *config.Config
	rosterService      *services.RosterService
	applicationService *services.ApplicationService
}

func New(cfg *config.Config, rosterService *services.RosterService, applicationService *services.ApplicationService) *Scheduler {
	return &Scheduler{
		cron:               cron.New(cron.WithSeconds()),
		config:             cfg,
		rosterService:      rosterService,
		applicationService: applicationService,
	}
}

func (s *Scheduler) Start() error {
	if s.config.Roster.SpreadsheetID != "" {
		if _, err := s.cron.AddFunc(s.config.Roster.SyncSchedule, s.syncRoster); err != nil {
			return err
		}
	} else {
		logrus.Warn("Roster spreadsheet not configured, skipping scheduled sync")
	}

	if _, err := s.cron.AddFunc(s.config.Roster.CleanupSchedule, s.cleanupReceipts); err != nil {
		return err
	}

	s.cron.Start()
	logrus.Info("Scheduler started")
	return nil
}

// Stop halts the cron loop and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logrus.Info("Scheduler stopped")
}

func (s *Scheduler) syncRoster() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.rosterService.SyncFromSheet(ctx); err != nil {
		logrus.WithError(err).Error("Scheduled roster sync failed")
		return
	}
	logrus.Info("Scheduled roster sync completed")
}

func (s *Scheduler) cleanupReceipts() {
	deleted, err := s.applicationService.DeleteOrphanedReceipts()
	if err != nil {
		logrus.WithError(err).Error("Receipt cleanup sweep failed")
		return
	}
	if deleted > 0 {
		logrus.WithField("deleted", deleted).Info("Receipt cleanup sweep completed")
	}
}
