package handler // handler package contains owner-facing booking views

import (
	"net/http"
	"strconv"

	"github.com/iliyamo/hotel-room-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// ListHotelBookings handles GET /v1/owner/hotels/:id/bookings and returns
// all bookings placed against one of the owner's hotels.
func (h *OwnerHandler) ListHotelBookings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	items, err := h.BookingRepo.ListByHotelForOwner(c.Request().Context(), hotelID, ownerID)
	if err != nil {
		switch err {
		case repository.ErrHotelNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your hotel"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
