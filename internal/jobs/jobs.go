package jobs

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// SessionCleanupJobID identifies the job removing expired local sessions.
const SessionCleanupJobID = "session-cleanup"

// RegisterJobs registers every background job on jm.
func RegisterJobs(jm *JobManager) {
	jm.Register(SessionCleanupJobID, "Session Cleanup", RunSessionCleanup)
}

// RunSessionCleanup deletes sessions past their expiry.
func RunSessionCleanup(ctx JobContext) error {
	removed, err := ctx.Store().DeleteExpiredSessions()
	if err != nil {
		log.Printf("Session cleanup failed: %v", err)
		return err
	}
	if removed > 0 {
		log.Printf("Session cleanup removed %d expired sessions", removed)
	}
	return nil
}

// StartJobs starts the background job scheduler.
func StartJobs(app JobContext) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	startSessionCleanupJob(s, app)

	log.Println("Starting background job scheduler...")
	s.StartAsync()
	return s
}

func startSessionCleanupJob(s *gocron.Scheduler, app JobContext) {
	interval := app.Config().Jobs.SessionCleanupInterval
	if interval <= 0 {
		log.Println("Session cleanup interval is 0, scheduled cleanup is disabled.")
		return
	}

	jobID := SessionCleanupJobID
	log.Printf("Scheduling job: '%s' to run every %d minutes.", jobID, interval)

	_, err := s.Every(interval).Minutes().Do(func() {
		log.Println("Scheduler is triggering job:", jobID)
		// Go through the manager so scheduled and manual runs never overlap.
		if err := app.JobManager().RunJob(jobID, app); err != nil {
			log.Printf("Scheduled job '%s' could not start: %v", jobID, err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling '%s' job: %v", jobID, err)
	}
}
