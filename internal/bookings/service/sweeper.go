package service

import (
	"context"
	"time"

	"communityportal/pkg/logger"
)

// Sweeper runs the expiry sweep on a fixed interval, independent of request
// traffic. A failed iteration is logged and retried on the next tick; the
// sweep is idempotent so a partial run left behind by shutdown is harmless.
type Sweeper struct {
	service  BookingService
	interval time.Duration
	log      *logger.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewSweeper(service BookingService, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	go s.run()
	s.log.Info("Expiry sweeper started", "interval", s.interval)
}

func (s *Sweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	removed, err := s.service.ExpireBookings(ctx)
	if err != nil {
		s.log.Error("Expiry sweep failed, will retry on next tick", "error", err)
		return
	}

	if removed > 0 {
		s.log.Debug("Expiry sweep completed", "removed", removed)
	}
}

// Stop halts the ticker and waits for an in-flight sweep to return.
func (s *Sweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.log.Info("Expiry sweeper stopped")
}
