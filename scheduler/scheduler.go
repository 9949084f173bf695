// Package scheduler runs the background maintenance jobs: the hourly license
// expiry sweep with its one-shot expiry notifications, and the daily
// validation log retention prune.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"licenseserver/logger"
	"licenseserver/models"
	"licenseserver/services"
)

// expiryNoticeHorizon is how far ahead the sweep looks for licenses that are
// about to expire. Each license is flagged at most once.
const expiryNoticeHorizon = 7 * 24 * time.Hour

// Scheduler drives the periodic jobs. Stop terminates the loops; a job
// already running finishes first.
type Scheduler struct {
	licenses         services.LicenseService
	audit            services.AuditService
	admins           services.AdminService
	logRetentionDays int

	stopChan chan struct{}
}

// New creates a Scheduler over the injected services.
func New(licenses services.LicenseService, audit services.AuditService, admins services.AdminService, logRetentionDays int) *Scheduler {
	return &Scheduler{
		licenses:         licenses,
		audit:            audit,
		admins:           admins,
		logRetentionDays: logRetentionDays,
		stopChan:         make(chan struct{}),
	}
}

// Start launches the job loops. The expiry sweep also runs once immediately
// so a restart converges stale statuses without waiting an hour.
func (s *Scheduler) Start() {
	logger.Info("Scheduler started")

	s.RunExpirySweep()

	go s.loop(1*time.Hour, "expiry sweep", s.RunExpirySweep)
	go s.loop(24*time.Hour, "log cleanup", s.RunLogCleanup)
}

// Stop terminates the job loops.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	logger.Info("Scheduler stopped")
}

func (s *Scheduler) loop(interval time.Duration, name string, job func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Scheduler tick: running %s", name)
			job()
		case <-s.stopChan:
			return
		}
	}
}

// RunExpirySweep flips overdue licenses to expired and flags licenses
// expiring within the horizon exactly once.
func (s *Scheduler) RunExpirySweep() {
	ctx := context.Background()

	expired, err := s.licenses.ExpireOverdue(ctx)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Error("Failed to expire overdue licenses")
		return
	}

	if expired > 0 {
		logger.WithFields(map[string]interface{}{
			"count": expired,
		}).Info("Expired licenses updated")

		s.admins.RecordActivity(ctx, "system", "System", models.AdminActionExpirySweep,
			fmt.Sprintf("Automatically expired %d licenses", expired))
	}

	expiring, err := s.licenses.FindExpiringSoon(ctx, expiryNoticeHorizon)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Error("Failed to find expiring licenses")
		return
	}

	for _, license := range expiring {
		logger.WithFields(map[string]interface{}{
			"license_id":  license.ID,
			"license_key": license.LicenseKey,
			"end_date":    license.EndDate,
		}).Warn("License expiring soon")

		if err := s.licenses.MarkExpiryNotified(ctx, license.ID); err != nil {
			logger.WithFields(map[string]interface{}{
				"license_id": license.ID,
				"error":      err.Error(),
			}).Error("Failed to mark expiry notified")
		}
	}
}

// RunLogCleanup prunes validation logs past the configured retention. The
// retention floor inside the audit service caps how aggressive this can be.
func (s *Scheduler) RunLogCleanup() {
	ctx := context.Background()

	pruned, err := s.audit.PruneOlderThan(ctx, s.logRetentionDays)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Error("Failed to prune validation logs")
		return
	}

	if pruned > 0 {
		logger.WithFields(map[string]interface{}{
			"count":          pruned,
			"retention_days": s.logRetentionDays,
		}).Info("Validation logs pruned")

		s.admins.RecordActivity(ctx, "system", "System", models.AdminActionLogCleanup,
			fmt.Sprintf("Pruned %d validation log entries", pruned))
	}
}
