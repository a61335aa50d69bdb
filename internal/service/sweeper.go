package service

import (
	"context"
	"log"
	"time"
)

// Sweeper runs the expiry sweep on a fixed period for the lifetime of the
// process. It competes with request handlers for the record store; the
// repository's locking makes the interleaving safe in-process.
type Sweeper struct {
	svc      ShareService
	interval time.Duration
}

// NewSweeper constructs a Sweeper driving svc.Sweep every interval.
func NewSweeper(svc ShareService, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{svc: svc, interval: interval}
}

// Run blocks, sweeping once per interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := s.svc.Sweep(ctx)
			if err != nil {
				log.Printf(`{"level":"error","msg":"expiry sweep failed","error":%q}`, err.Error())
				continue
			}
			if res.Removed > 0 || res.CleanupFailures > 0 {
				log.Printf(`{"level":"info","msg":"expiry sweep completed","scanned":%d,"removed":%d,"cleanup_failures":%d}`,
					res.Scanned, res.Removed, res.CleanupFailures)
			}
		}
	}
}
