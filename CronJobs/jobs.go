package CronJobs

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"InspectionPro/HousecallPro"
)

// JobSyncer runs the scheduled Housecall Pro job import for every company
// with an active integration.
type JobSyncer struct {
	cronScheduler  *cron.Cron
	db             *gorm.DB
	runImmediately bool
	jobID          cron.EntryID
}

// NewJobSyncer creates a new job syncer with the given configuration
func NewJobSyncer(db *gorm.DB, runImmediately bool) *JobSyncer {
	return &JobSyncer{
		cronScheduler:  cron.New(cron.WithSeconds()),
		db:             db,
		runImmediately: runImmediately,
	}
}

// Start initiates the sync cron job
func (s *JobSyncer) Start() error {
	// Every hour on the hour
	var err error
	s.jobID, err = s.cronScheduler.AddFunc("0 0 * * * *", func() {
		log.Println("Running scheduled Housecall Pro job sync")
		HousecallPro.SyncAllCompanies(s.db)
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	s.cronScheduler.Start()
	fmt.Println("Job sync scheduler started - will run hourly")

	if s.runImmediately {
		fmt.Println("Running initial job sync")
		go HousecallPro.SyncAllCompanies(s.db)
	}

	return nil
}

// Stop terminates the syncer
func (s *JobSyncer) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}
