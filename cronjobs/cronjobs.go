package cronjobs

import (
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"go-sentinel/emergency"
	"go-sentinel/route"
	"go-sentinel/tracking"
)

// InitCronJobs starts the connection-loss watchdog: every minute it checks
// tracked subjects whose samples have gone quiet and raises an emergency
// session for each, snapshotting their active route.
func InitCronJobs(
	trackers *tracking.Manager,
	emergencies *emergency.Manager,
	routes *route.Store,
	staleThreshold time.Duration,
) *cron.Cron {
	log.Println("Starting Cron Jobs -------------------------------------------------------")
	c := cron.New()

	_, err := c.AddFunc("* * * * *", func() {
		stale := trackers.StaleSubjects(staleThreshold)
		for _, subjectID := range stale {
			if emergencies.Has(subjectID) {
				continue
			}
			log.Printf("CronJob: connection lost for %s, raising emergency", subjectID)
			snapshot, _ := routes.Get(subjectID)
			if _, err := emergencies.Raise(subjectID, snapshot); err != nil && !errors.Is(err, emergency.ErrSessionExists) {
				log.Printf("Error raising emergency for %s: %v", subjectID, err)
			}
		}
	})
	if err != nil {
		log.Println("Error scheduling connection-loss watchdog:", err)
	}

	c.Start()
	return c
}
