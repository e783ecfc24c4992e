// Package scheduler runs the periodic lifecycle sweep.
package scheduler

import (
	"context"
	"log"
	"time"

	"echobackend/internal/service"
)

// Sweeper runs the lifecycle sweep on a fixed interval. The sweep is an
// optimization, not a correctness dependency: every transition it applies
// also happens lazily when a chat or invite is read, so a missed tick
// self-heals.
type Sweeper struct {
	lifecycle *service.LifecycleService
	interval  time.Duration
}

func NewSweeper(lifecycle *service.LifecycleService, interval time.Duration) *Sweeper {
	return &Sweeper{lifecycle: lifecycle, interval: interval}
}

// Run sweeps until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := s.lifecycle.Sweep(ctx)
			if err != nil {
				log.Printf("lifecycle sweep: %v", err)
				continue
			}
			if res.InvitesExpired > 0 || res.ChatsExpired > 0 || res.ChatsEligible > 0 {
				log.Printf("lifecycle sweep: invites_expired=%d chats_expired=%d chats_eligible=%d",
					res.InvitesExpired, res.ChatsExpired, res.ChatsEligible)
			}
		}
	}
}
