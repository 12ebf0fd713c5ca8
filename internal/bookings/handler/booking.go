package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"communityportal/internal/bookings/service"
	apperrors "communityportal/pkg/errors"
	httputil "communityportal/pkg/http"
	"communityportal/pkg/logger"
	"communityportal/pkg/middleware"
	"communityportal/pkg/model"
)

type BookingHandler struct {
	service  service.BookingService
	log      *logger.Logger
	location *time.Location
}

func NewBookingHandler(service service.BookingService, location *time.Location, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:  service,
		log:      log,
		location: location,
	}
}

// createRequest is the caller-supplied shape; the owner comes from the
// trusted identity headers, never from the body.
type createRequest struct {
	ResourceID string    `json:"resource_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Purpose    string    `json:"purpose"`
	Attendees  int       `json:"attendees"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		h.writeError(w, "Create", apperrors.Unauthorized("Authenticated identity required"))
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking := &model.Booking{
		ResourceID: req.ResourceID,
		UserID:     userID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Purpose:    req.Purpose,
		Attendees:  req.Attendees,
	}

	if err := h.service.Create(r.Context(), booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		h.writeError(w, "ListMine", apperrors.Unauthorized("Authenticated identity required"))
		return
	}

	bookings, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	if bookings == nil {
		bookings = []*model.Booking{}
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListMine", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		h.writeError(w, "Cancel", apperrors.Unauthorized("Authenticated identity required"))
		return
	}

	if err := h.service.Cancel(r.Context(), ps.ByName("id"), userID); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	resourceID := ps.ByName("id")
	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		h.writeError(w, "Availability", apperrors.InvalidInput("'date' query parameter is required (YYYY-MM-DD)"))
		return
	}
	day, err := time.ParseInLocation("2006-01-02", dateStr, h.location)
	if err != nil {
		h.writeError(w, "Availability", apperrors.InvalidInput(fmt.Sprintf("invalid date %q, must be YYYY-MM-DD", dateStr)))
		return
	}

	duration := 1
	if durationStr := query.Get("duration"); durationStr != "" {
		duration, err = strconv.Atoi(durationStr)
		if err != nil {
			h.writeError(w, "Availability", apperrors.InvalidInput(fmt.Sprintf("invalid duration parameter: %s", durationStr)))
			return
		}
	}

	slots, err := h.service.Availability(r.Context(), resourceID, day, duration)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if slots == nil {
		slots = []model.Slot{}
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.ListMine)
	router.DELETE("/api/v1/bookings/id/:id", h.Cancel)
	router.GET("/api/v1/resources/:id/availability", h.Availability)
}
