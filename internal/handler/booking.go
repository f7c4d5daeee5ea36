// This file defines the customer booking endpoints: listing bookings,
// fetching one booking with its rooms and payment, and cancellation.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// BookingHandler bundles the repositories the booking endpoints need.
type BookingHandler struct {
	BookingRepo *repository.BookingRepo
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(bookingRepo *repository.BookingRepo) *BookingHandler {
	if bookingRepo == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{BookingRepo: bookingRepo}
}

// ListMyBookings handles GET /v1/bookings and returns the caller's
// bookings with rooms and payment details.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetMyBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetMyBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.BookingRepo.GetByIDForUser(c.Request().Context(), id, userID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, detail)
}

// CancelBooking handles POST /v1/bookings/:id/cancel.  The status
// check and the update run in one transaction so two concurrent
// cancels (or a cancel racing a checkout that reads availability)
// observe a consistent row.  Cancellation releases the booking's rooms
// because availability only counts non-cancelled bookings.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()

	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	status, checkIn, err := h.BookingRepo.GetInfoForUserTx(ctx, tx, id, userID)
	if err != nil {
		switch err {
		case repository.ErrBookingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}
	if status == model.BookingStatusCancelled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is already cancelled"})
	}
	// No cancellations once the stay has started.
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if !checkIn.After(today) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "stay has already started"})
	}
	if err := h.BookingRepo.CancelTx(ctx, tx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.BookingStatusCancelled})
}
