package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"communityportal/pkg/logger"
	"communityportal/pkg/model"
)

// stubBookingService lets sweeper tests script ExpireBookings without the
// full service stack.
type stubBookingService struct {
	expireFunc func(ctx context.Context) (int64, error)
}

func (s *stubBookingService) Create(ctx context.Context, booking *model.Booking) error {
	return nil
}

func (s *stubBookingService) Availability(ctx context.Context, resourceID string, day time.Time, durationHours int) ([]model.Slot, error) {
	return nil, nil
}

func (s *stubBookingService) ListForUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	return nil, nil
}

func (s *stubBookingService) Cancel(ctx context.Context, id string, requestingUserID string) error {
	return nil
}

func (s *stubBookingService) ExpireBookings(ctx context.Context) (int64, error) {
	return s.expireFunc(ctx)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Output: io.Discard})
}

func TestSweeper_RunsOnInterval(t *testing.T) {
	var calls atomic.Int64
	svc := &stubBookingService{
		expireFunc: func(ctx context.Context) (int64, error) {
			calls.Add(1)
			return 0, nil
		},
	}

	sweeper := NewSweeper(svc, 5*time.Millisecond, testLogger())
	sweeper.Start()

	deadline := time.After(time.Second)
	for calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 sweeps, got %d", calls.Load())
		case <-time.After(time.Millisecond):
		}
	}

	sweeper.Stop()
}

func TestSweeper_ContinuesAfterFailure(t *testing.T) {
	var calls atomic.Int64
	svc := &stubBookingService{
		expireFunc: func(ctx context.Context) (int64, error) {
			if calls.Add(1) == 1 {
				return 0, errors.New("mongo unavailable")
			}
			return 2, nil
		},
	}

	sweeper := NewSweeper(svc, 5*time.Millisecond, testLogger())
	sweeper.Start()

	deadline := time.After(time.Second)
	for calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("sweeper stopped after a failure, got %d calls", calls.Load())
		case <-time.After(time.Millisecond):
		}
	}

	sweeper.Stop()
}

func TestSweeper_StopWaitsForCompletion(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var startOnce sync.Once
	var finished atomic.Bool

	svc := &stubBookingService{
		expireFunc: func(ctx context.Context) (int64, error) {
			first := false
			startOnce.Do(func() { first = true })
			if !first {
				return 0, nil
			}
			close(started)
			<-release
			finished.Store(true)
			return 0, nil
		},
	}

	sweeper := NewSweeper(svc, 5*time.Millisecond, testLogger())
	sweeper.Start()

	<-started

	stopped := make(chan struct{})
	go func() {
		sweeper.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a sweep was still in flight")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the sweep completed")
	}

	if !finished.Load() {
		t.Error("in-flight sweep did not run to completion")
	}
}
