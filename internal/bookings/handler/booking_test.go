package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	apperrors "communityportal/pkg/errors"
	"communityportal/pkg/logger"
	"communityportal/pkg/middleware"
	"communityportal/pkg/model"
)

type stubBookingService struct {
	createFunc       func(ctx context.Context, booking *model.Booking) error
	availabilityFunc func(ctx context.Context, resourceID string, day time.Time, durationHours int) ([]model.Slot, error)
	listFunc         func(ctx context.Context, userID string) ([]*model.Booking, error)
	cancelFunc       func(ctx context.Context, id string, requestingUserID string) error
}

func (s *stubBookingService) Create(ctx context.Context, booking *model.Booking) error {
	if s.createFunc == nil {
		return nil
	}
	return s.createFunc(ctx, booking)
}

func (s *stubBookingService) Availability(ctx context.Context, resourceID string, day time.Time, durationHours int) ([]model.Slot, error) {
	if s.availabilityFunc == nil {
		return nil, nil
	}
	return s.availabilityFunc(ctx, resourceID, day, durationHours)
}

func (s *stubBookingService) ListForUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	if s.listFunc == nil {
		return nil, nil
	}
	return s.listFunc(ctx, userID)
}

func (s *stubBookingService) Cancel(ctx context.Context, id string, requestingUserID string) error {
	if s.cancelFunc == nil {
		return nil
	}
	return s.cancelFunc(ctx, id, requestingUserID)
}

func (s *stubBookingService) ExpireBookings(ctx context.Context) (int64, error) {
	return 0, nil
}

// newTestServer wires the handler behind the identity middleware the same way
// the application does, so the X-User-ID header drives authentication.
func newTestServer(t *testing.T, svc *stubBookingService) http.Handler {
	t.Helper()

	log := logger.New(logger.Config{Level: "error", Output: io.Discard})
	router := httprouter.New()
	NewBookingHandler(svc, time.UTC, log).RegisterRoutes(router)
	return middleware.Identity(log)(router)
}

func doRequest(t *testing.T, h http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set(middleware.HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateHandler_RequiresIdentity(t *testing.T) {
	h := newTestServer(t, &stubBookingService{})

	rec := doRequest(t, h, http.MethodPost, "/api/v1/bookings", "", `{"resource_id":"hall"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestCreateHandler_InvalidBody(t *testing.T) {
	h := newTestServer(t, &stubBookingService{})

	rec := doRequest(t, h, http.MethodPost, "/api/v1/bookings", "user-1", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreateHandler_OwnerComesFromHeader(t *testing.T) {
	var captured *model.Booking
	svc := &stubBookingService{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			booking.ID = "b-1"
			captured = booking
			return nil
		},
	}
	h := newTestServer(t, svc)

	body := `{
		"resource_id": "meeting-room-2",
		"user_id": "spoofed-owner",
		"start_time": "2025-06-01T10:00:00Z",
		"end_time": "2025-06-01T12:00:00Z",
		"purpose": "Team sync",
		"attendees": 4
	}`
	rec := doRequest(t, h, http.MethodPost, "/api/v1/bookings", "user-1", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured == nil {
		t.Fatal("service was not called")
	}
	if captured.UserID != "user-1" {
		t.Errorf("owner must come from the identity header, got %q", captured.UserID)
	}

	var resp struct {
		Data model.Booking `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Data.ID != "b-1" {
		t.Errorf("expected booking id in response, got %q", resp.Data.ID)
	}
}

func TestCreateHandler_MapsServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"conflict", apperrors.Conflict("slot taken"), http.StatusConflict},
		{"capacity", apperrors.CapacityExceeded(20, 12), http.StatusUnprocessableEntity},
		{"not found", apperrors.NotFoundWithID("Resource", "x"), http.StatusNotFound},
		{"invalid window", apperrors.InvalidWindow("in the past"), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubBookingService{
				createFunc: func(ctx context.Context, booking *model.Booking) error {
					return tt.err
				},
			}
			h := newTestServer(t, svc)

			rec := doRequest(t, h, http.MethodPost, "/api/v1/bookings", "user-1", `{"resource_id":"x"}`)
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestListMineHandler(t *testing.T) {
	t.Run("requires identity", func(t *testing.T) {
		h := newTestServer(t, &stubBookingService{})
		rec := doRequest(t, h, http.MethodGet, "/api/v1/bookings", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("empty list is an empty array", func(t *testing.T) {
		h := newTestServer(t, &stubBookingService{})
		rec := doRequest(t, h, http.MethodGet, "/api/v1/bookings", "user-1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"data":[]`) {
			t.Errorf("expected empty data array, got %s", rec.Body.String())
		}
	})

	t.Run("lists the caller's bookings", func(t *testing.T) {
		svc := &stubBookingService{
			listFunc: func(ctx context.Context, userID string) ([]*model.Booking, error) {
				if userID != "user-1" {
					t.Errorf("expected user-1, got %q", userID)
				}
				return []*model.Booking{{ID: "b-1", UserID: userID}}, nil
			},
		}
		h := newTestServer(t, svc)
		rec := doRequest(t, h, http.MethodGet, "/api/v1/bookings", "user-1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"b-1"`) {
			t.Errorf("expected booking in response, got %s", rec.Body.String())
		}
	})
}

func TestCancelHandler(t *testing.T) {
	t.Run("requires identity", func(t *testing.T) {
		h := newTestServer(t, &stubBookingService{})
		rec := doRequest(t, h, http.MethodDelete, "/api/v1/bookings/id/b-1", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("owner cancel returns no content", func(t *testing.T) {
		svc := &stubBookingService{
			cancelFunc: func(ctx context.Context, id string, requestingUserID string) error {
				if id != "b-1" || requestingUserID != "user-1" {
					t.Errorf("unexpected args: id=%q user=%q", id, requestingUserID)
				}
				return nil
			},
		}
		h := newTestServer(t, svc)
		rec := doRequest(t, h, http.MethodDelete, "/api/v1/bookings/id/b-1", "user-1", "")
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		svc := &stubBookingService{
			cancelFunc: func(ctx context.Context, id string, requestingUserID string) error {
				return apperrors.Forbidden("Only the booking owner may cancel it")
			},
		}
		h := newTestServer(t, svc)
		rec := doRequest(t, h, http.MethodDelete, "/api/v1/bookings/id/b-1", "user-2", "")
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})
}

func TestAvailabilityHandler(t *testing.T) {
	t.Run("date is required", func(t *testing.T) {
		h := newTestServer(t, &stubBookingService{})
		rec := doRequest(t, h, http.MethodGet, "/api/v1/resources/hall/availability", "", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("malformed date", func(t *testing.T) {
		h := newTestServer(t, &stubBookingService{})
		rec := doRequest(t, h, http.MethodGet, "/api/v1/resources/hall/availability?date=06-01-2025", "", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("malformed duration", func(t *testing.T) {
		h := newTestServer(t, &stubBookingService{})
		rec := doRequest(t, h, http.MethodGet, "/api/v1/resources/hall/availability?date=2025-06-01&duration=two", "", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("duration defaults to one hour", func(t *testing.T) {
		svc := &stubBookingService{
			availabilityFunc: func(ctx context.Context, resourceID string, day time.Time, durationHours int) ([]model.Slot, error) {
				if resourceID != "hall" {
					t.Errorf("expected resource hall, got %q", resourceID)
				}
				if durationHours != 1 {
					t.Errorf("expected default duration 1, got %d", durationHours)
				}
				if day.Format("2006-01-02") != "2025-06-01" {
					t.Errorf("unexpected day %s", day)
				}
				return nil, nil
			},
		}
		h := newTestServer(t, svc)
		rec := doRequest(t, h, http.MethodGet, "/api/v1/resources/hall/availability?date=2025-06-01", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"data":[]`) {
			t.Errorf("expected empty data array, got %s", rec.Body.String())
		}
	})

	t.Run("returns the computed slots", func(t *testing.T) {
		day := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
		svc := &stubBookingService{
			availabilityFunc: func(ctx context.Context, resourceID string, d time.Time, durationHours int) ([]model.Slot, error) {
				return []model.Slot{
					{StartHour: 8, DurationHours: 2, StartTime: day.Add(8 * time.Hour), EndTime: day.Add(10 * time.Hour)},
				}, nil
			},
		}
		h := newTestServer(t, svc)
		rec := doRequest(t, h, http.MethodGet, "/api/v1/resources/hall/availability?date=2025-06-01&duration=2", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp struct {
			Data []model.Slot `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if len(resp.Data) != 1 || resp.Data[0].StartHour != 8 {
			t.Errorf("unexpected slots: %+v", resp.Data)
		}
	})
}
