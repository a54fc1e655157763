package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ironpeak/gym-class-booking/internal/model"
	"github.com/ironpeak/gym-class-booking/internal/repository"
	"github.com/ironpeak/gym-class-booking/internal/service"
)

// BookingHandler exposes the booking lifecycle API.  All capacity
// decisions happen inside the service and repository; this layer only
// binds requests, resolves the caller's user reference and maps domain
// errors onto HTTP codes.
type BookingHandler struct {
	svc *service.BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{svc: svc}
}

// Create handles POST /v1/bookings.  On success it returns 201 with the
// booking and a confirmation receipt.  Capacity rejections return 400
// with the number of spots still available for that class and date.
func (h *BookingHandler) Create(c echo.Context) error {
	var body struct {
		ClassID      uint64  `json:"classId"`
		BookingDate  string  `json:"bookingDate"`
		Participants int     `json:"participants"`
		Notes        *string `json:"notes,omitempty"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	date, err := time.Parse(time.RFC3339, body.BookingDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Validation failed",
			"details": []service.FieldError{{Field: "bookingDate", Message: "must be an ISO-8601 timestamp"}},
		})
	}

	booking, receipt, err := h.svc.Reserve(c.Request().Context(), model.ReserveRequest{
		ClassID:      body.ClassID,
		UserRef:      currentUser(c),
		BookingDate:  date,
		Participants: body.Participants,
		Notes:        body.Notes,
	})
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Booking confirmed!",
		"data":    booking,
		"receipt": receipt,
	})
}

// List handles GET /v1/bookings with userId/status/startDate/endDate
// query filters.  Results are ordered by booking date ascending, then
// creation time descending.
func (h *BookingHandler) List(c echo.Context) error {
	filter := model.BookingFilter{
		UserRef: c.QueryParam("userId"),
		Status:  c.QueryParam("status"),
	}
	if raw := c.QueryParam("startDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid startDate"})
		}
		filter.StartDate = &t
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid endDate"})
		}
		filter.EndDate = &t
	}

	bookings, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    bookings,
		"count":   len(bookings),
	})
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid booking id"})
	}
	booking, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": booking})
}

// Update handles PUT /v1/bookings/:id with a partial patch.  A status
// change to cancelled releases the booking's spots exactly once.
func (h *BookingHandler) Update(c echo.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid booking id"})
	}
	var body struct {
		BookingDate  *string `json:"bookingDate,omitempty"`
		Participants *int    `json:"participants,omitempty"`
		Status       *string `json:"status,omitempty"`
		Notes        *string `json:"notes,omitempty"`
		CheckInTime  *string `json:"checkInTime,omitempty"`
		CheckOutTime *string `json:"checkOutTime,omitempty"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}

	patch := model.BookingPatch{
		Participants: body.Participants,
		Status:       body.Status,
		Notes:        body.Notes,
	}
	var details []service.FieldError
	patch.BookingDate = parseTimeField(body.BookingDate, "bookingDate", &details)
	patch.CheckInTime = parseTimeField(body.CheckInTime, "checkInTime", &details)
	patch.CheckOutTime = parseTimeField(body.CheckOutTime, "checkOutTime", &details)
	if len(details) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Validation failed",
			"details": details,
		})
	}

	booking, err := h.svc.Update(c.Request().Context(), id, patch)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Booking updated successfully",
		"data":    booking,
	})
}

// Delete handles DELETE /v1/bookings/:id.  Deleting releases the
// booking's spots before the row is removed.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid booking id"})
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Booking deleted successfully",
	})
}

func bookingID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func parseTimeField(raw *string, field string, details *[]service.FieldError) *time.Time {
	if raw == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		*details = append(*details, service.FieldError{Field: field, Message: "must be an ISO-8601 timestamp"})
		return nil
	}
	u := t.UTC()
	return &u
}

// bookingError translates engine errors into the API's stable codes.
func bookingError(c echo.Context, err error) error {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Validation failed",
			"details": vErr.Fields,
		})
	}
	var capErr *repository.CapacityError
	if errors.As(err, &capErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success":        false,
			"error":          "Not enough spots available",
			"availableSpots": capErr.Available,
		})
	}
	switch {
	case errors.Is(err, repository.ErrClassNotFound), errors.Is(err, repository.ErrClassInactive):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Class not found or inactive"})
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Booking not found"})
	case errors.Is(err, repository.ErrDuplicateBooking):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "You already have a booking for this class"})
	case errors.Is(err, repository.ErrBookingFinal):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Booking can no longer be changed"})
	}
	c.Logger().Errorf("booking: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to process booking"})
}
