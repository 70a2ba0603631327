// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartClaimExpiryScheduler runs the ACTIVE → EXPIRED sweep every minute.
// The sweep is a janitor: eligibility checks expires_at directly, so a late
// sweep never lets an expired claim block or be spent.
func (s *LoyaltyService) StartClaimExpiryScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			expired, err := s.ExpireOverdueClaims()
			if err != nil {
				log.Printf("[Scheduler] Claim expiry sweep failed: %v", err)
				return
			}
			if expired > 0 {
				log.Printf("✅ Expired %d overdue reward claims", expired)
			}
		}),
	)
}
