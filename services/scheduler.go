package services

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

// StartSessionSweeper runs the hourly sweep that closes reading sessions
// with no activity for a day.
func (s *ReadingService) StartSessionSweeper() {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.WithError(err).Error("failed to start session sweeper")
		return
	}
	sched.Start()

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			closed, err := s.CloseStaleSessions()
			if err != nil {
				log.WithError(err).Error("session sweep failed")
				return
			}
			if closed > 0 {
				log.WithField("closed", closed).Info("swept stale reading sessions")
			}
		}),
	)
	if err != nil {
		log.WithError(err).Error("failed to schedule session sweep")
	}
}
