package services

import (
	"time"

	"gymdesk_go/database"
	"gymdesk_go/models"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// MaintenanceScheduler runs the recurring housekeeping jobs: flushing Redis
// buffered activity logs to the database, archiving old logs to S3, and
// logging a daily summary of memberships that expired.
type MaintenanceScheduler struct {
	cron       *cron.Cron
	logArchive *LogArchiveService
}

func NewMaintenanceScheduler() *MaintenanceScheduler {
	return &MaintenanceScheduler{
		cron:       cron.New(),
		logArchive: NewLogArchiveService(),
	}
}

// Start registers the jobs and starts the scheduler. Call Stop on shutdown.
func (ms *MaintenanceScheduler) Start() error {
	// Hourly: move buffered activity logs out of Redis
	if _, err := ms.cron.AddFunc("0 * * * *", func() {
		if err := ms.logArchive.FlushCachedLogsToDatabase(); err != nil {
			logrus.WithError(err).Warn("Scheduled log flush failed")
		}
	}); err != nil {
		return err
	}

	// Nightly at 03:00: archive activity logs older than 30 days to S3
	if _, err := ms.cron.AddFunc("0 3 * * *", func() {
		if err := ms.logArchive.ArchiveOldLogs(30); err != nil {
			logrus.WithError(err).Warn("Scheduled log archive failed")
		}
	}); err != nil {
		return err
	}

	// Daily at 07:00: summarize memberships that expired yesterday so the
	// front desk sees them in the morning logs
	if _, err := ms.cron.AddFunc("0 7 * * *", ms.reportExpiredMemberships); err != nil {
		return err
	}

	ms.cron.Start()
	logrus.Info("Maintenance scheduler started")
	return nil
}

// Stop halts the scheduler, waiting for running jobs to finish.
func (ms *MaintenanceScheduler) Stop() {
	ctx := ms.cron.Stop()
	<-ctx.Done()
}

func (ms *MaintenanceScheduler) reportExpiredMemberships() {
	today := DateOnly(time.Now())
	yesterday := today.AddDate(0, 0, -1)

	var expired []models.Member
	if err := database.DB.
		Where("is_active = ? AND membership_end_date >= ? AND membership_end_date < ?", true, yesterday, today).
		Find(&expired).Error; err != nil {
		logrus.WithError(err).Warn("Failed to query expired memberships")
		return
	}

	if len(expired) == 0 {
		return
	}

	numbers := make([]string, 0, len(expired))
	for _, m := range expired {
		numbers = append(numbers, m.MembershipNumber)
	}

	logrus.WithFields(logrus.Fields{
		"count":   len(expired),
		"members": numbers,
	}).Info("Memberships expired yesterday")
}
