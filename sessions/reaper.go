package sessions

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Reaper periodically transitions expired-but-still-flagged-active sessions
// to inactive. It runs independently of the request path.
type Reaper struct {
	registry *Registry
	interval time.Duration
}

func NewReaper(registry *Registry, interval time.Duration) *Reaper {
	return &Reaper{
		registry: registry,
		interval: interval,
	}
}

// Run blocks, reaping on every tick until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := r.registry.ReapExpired(ctx)
			if err != nil {
				log.Err(err).Msg("Failed to reap expired sessions")
				continue
			}
			if count > 0 {
				log.Info().Int("count", count).Msg("Reaped expired sessions")
			}
		}
	}
}
