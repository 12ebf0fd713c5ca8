package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	bookingerrors "communityportal/internal/bookings/errors"
	"communityportal/internal/bookings/events"
	"communityportal/internal/bookings/repository"
	"communityportal/internal/bookings/validator"
	"communityportal/internal/resources"
	"communityportal/pkg/config"
	apperrors "communityportal/pkg/errors"
	"communityportal/pkg/model"
	"communityportal/pkg/sanitizer"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	Availability(ctx context.Context, resourceID string, day time.Time, durationHours int) ([]model.Slot, error)
	ListForUser(ctx context.Context, userID string) ([]*model.Booking, error)
	Cancel(ctx context.Context, id string, requestingUserID string) error
	ExpireBookings(ctx context.Context) (int64, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.SlotLockRepository
	catalog   *resources.Catalog
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.SlotLockRepository,
	catalog *resources.Catalog,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
	now func() time.Time,
) BookingService {
	if now == nil {
		now = time.Now
	}
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		catalog:   catalog,
		validator: bookingValidator,
		publisher: publisher,
		cfg:       cfg,
		now:       now,
	}
}

// Create is the only path that persists a booking. Advisory locks are taken
// on every whole hour the requested window touches, so any two overlapping
// windows contend on at least one shared lock id before either reaches the
// transaction; the transaction then re-reads the overlap set before the
// insert so the invariant holds even if a lock expires mid-flight. The
// transaction alone is not enough: snapshot isolation never conflicts two
// inserts of distinct documents.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.sanitize(booking)

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	resource, err := s.catalog.Get(booking.ResourceID)
	if err != nil {
		if errors.Is(err, resources.ErrNotFound) {
			return apperrors.NotFoundWithID("Resource", booking.ResourceID)
		}
		return apperrors.Internal("Failed to resolve resource", err)
	}

	if booking.Attendees > resource.Capacity {
		return apperrors.CapacityExceeded(booking.Attendees, resource.Capacity)
	}

	if !booking.EndTime.After(booking.StartTime) {
		return apperrors.InvalidWindow("end_time must be after start_time")
	}

	now := s.now()
	if booking.StartTime.Before(now) {
		return apperrors.InvalidWindow("start_time must not be in the past")
	}

	booking.ID = uuid.NewString()
	booking.CreatedAt = now.UTC().Truncate(time.Millisecond)

	lockIDs, err := s.acquireSlotLocks(ctx, booking.ResourceID, booking.StartTime, booking.EndTime)
	if err != nil {
		return err
	}
	defer s.releaseSlotLocks(ctx, lockIDs)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"resource_id", booking.ResourceID,
			"start_time", booking.StartTime,
			"error", err,
		)
		return err
	}

	s.publisher.BookingCreated(ctx, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"resource_id", booking.ResourceID,
		"user_id", booking.UserID,
		"start_time", booking.StartTime,
	)
	return nil
}

// Availability returns the open slots for a resource on one calendar day.
// The snapshot read here may be slightly stale; the authoritative overlap
// check happens again inside Create's transaction.
func (s *bookingService) Availability(ctx context.Context, resourceID string, day time.Time, durationHours int) ([]model.Slot, error) {
	resourceID = sanitizer.NormalizeID(resourceID)

	if _, err := s.catalog.Get(resourceID); err != nil {
		if errors.Is(err, resources.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", resourceID)
		}
		return nil, apperrors.Internal("Failed to resolve resource", err)
	}

	if durationHours <= 0 {
		return nil, apperrors.InvalidInput("duration must be a positive number of hours")
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	existing, err := s.repo.FindByResourceWindow(ctx, resourceID, dayStart, dayEnd)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for availability",
			"resource_id", resourceID,
			"day", dayStart,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to compute availability", err)
	}

	return OpenSlots(existing, dayStart, durationHours, s.cfg.OpenHour, s.cfg.CloseHour, s.now())
}

func (s *bookingService) ListForUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings for user", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, nil
}

// Cancel deletes a booking on behalf of its owner. The delete-by-id is
// atomic in the store, so a concurrent duplicate cancel sees NotFound rather
// than a second silent success.
func (s *bookingService) Cancel(ctx context.Context, id string, requestingUserID string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if requestingUserID == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to check booking existence", err)
	}

	if booking.UserID != requestingUserID {
		s.cfg.Log.Warn("Non-owner cancellation attempt",
			"booking_id", id,
			"owner", booking.UserID,
			"requester", requestingUserID,
		)
		return apperrors.Forbidden("Only the booking owner may cancel it")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingerrors.ErrNotFound) {
			// Lost the race with another cancel or the expiry sweep.
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to cancel booking", err)
	}

	s.publisher.BookingCancelled(ctx, booking)

	s.cfg.Log.Info("Booking cancelled", "id", id, "user_id", requestingUserID)
	return nil
}

// ExpireBookings removes every booking that has already ended, plus any slot
// locks whose holders disappeared. Repeating the sweep removes nothing new.
func (s *bookingService) ExpireBookings(ctx context.Context) (int64, error) {
	now := s.now()

	removed, err := s.repo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, apperrors.Internal("Failed to expire bookings", err)
	}

	if _, err := s.lockRepo.DeleteExpired(ctx, now); err != nil {
		s.cfg.Log.Warn("Failed to prune expired slot locks", "error", err)
	}

	if removed > 0 {
		s.publisher.BookingsExpired(ctx, removed, now)
		s.cfg.Log.Info("Expired bookings removed", "count", removed)
	}

	return removed, nil
}

// --- Helpers ---

func (s *bookingService) sanitize(b *model.Booking) {
	b.ResourceID = sanitizer.NormalizeID(b.ResourceID)
	b.Purpose = sanitizer.NormalizePurpose(b.Purpose)
}

func (s *bookingService) verifyNoOverlap(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindByResourceWindow(ctx, booking.ResourceID, booking.StartTime, booking.EndTime)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.ID == booking.ID {
			continue
		}
		if b.Overlaps(booking.StartTime, booking.EndTime) {
			return apperrors.Conflict(fmt.Sprintf(
				"Booking time overlaps with existing booking (%s - %s)",
				b.StartTime.Format(time.RFC3339),
				b.EndTime.Format(time.RFC3339),
			))
		}
	}
	return nil
}

// acquireSlotLocks takes one advisory lock per whole hour in [start, end),
// ascending. Two overlapping windows always cover a common hour, so at most
// one of them can hold its full lock set. On a held lock the locks already
// taken are released before returning Conflict.
func (s *bookingService) acquireSlotLocks(ctx context.Context, resourceID string, start, end time.Time) ([]string, error) {
	expiresAt := s.now().Add(s.cfg.SlotLockTTL)

	var acquired []string
	for hour := start.Truncate(time.Hour); hour.Before(end); hour = hour.Add(time.Hour) {
		lock := &model.SlotLock{
			ID:        fmt.Sprintf("slot_lock_%s_%d", resourceID, hour.Unix()),
			ExpiresAt: expiresAt,
		}

		if err := s.lockRepo.Acquire(ctx, lock); err != nil {
			s.releaseSlotLocks(ctx, acquired)
			if errors.Is(err, bookingerrors.ErrLockHeld) {
				return nil, apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
			}
			return nil, apperrors.Internal("Failed to acquire slot lock", err)
		}
		acquired = append(acquired, lock.ID)
	}

	return acquired, nil
}

func (s *bookingService) releaseSlotLocks(ctx context.Context, lockIDs []string) {
	for _, lockID := range lockIDs {
		if err := s.lockRepo.Release(ctx, lockID); err != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", err)
		}
	}
}
