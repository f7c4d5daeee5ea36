// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public browsing API. These routes allow
// unauthenticated users to browse hotels and room categories and probe
// availability without requiring authentication. Sensitive fields
// (owner IDs, timestamps, etc.) are filtered from responses.

package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/iliyamo/hotel-room-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// PublicHandler aggregates repositories needed for unauthenticated browsing.
// It produces sanitized responses suitable for public consumption.
type PublicHandler struct {
	HotelRepo    *repository.HotelRepo    // provides access to hotel data
	CategoryRepo *repository.CategoryRepo // provides access to category data
	RoomRepo     *repository.RoomRepo     // provides availability counting
}

// PublicHotel represents a hotel exposed via the public API. It contains
// only safe fields.
type PublicHotel struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

// PublicCategory represents a room category exposed via the public API.
type PublicCategory struct {
	ID                 uint64 `json:"id"`
	Name               string `json:"name"`
	PricePerNightCents uint32 `json:"price_per_night_cents"`
}

// GetPublicHotels returns hotels for unauthenticated browsing, optionally
// filtered by the ?city query parameter.  Response JSON contains an
// "items" array of PublicHotel.
func (h *PublicHandler) GetPublicHotels(c echo.Context) error {
	ctx := c.Request().Context()
	city := strings.TrimSpace(c.QueryParam("city"))
	hotels, err := h.HotelRepo.ListPublic(ctx, city)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicHotel, 0, len(hotels))
	for _, hot := range hotels {
		out = append(out, PublicHotel{ID: hot.ID, Name: hot.Name, City: hot.City})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetPublicCategories lists the room categories of a hotel for
// unauthenticated users. It validates the hotel exists, then returns
// only non-sensitive fields.
func (h *PublicHandler) GetPublicCategories(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	// ensure hotel exists
	if _, err := h.HotelRepo.GetByID(ctx, id); err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	categories, err := h.CategoryRepo.ListByHotel(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicCategory, 0, len(categories))
	for _, cat := range categories {
		out = append(out, PublicCategory{ID: cat.ID, Name: cat.Name, PricePerNightCents: cat.PricePerNightCents})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetAvailability reports how many rooms of one category are free for
// a stay interval given as ?check_in and ?check_out.  The count is a
// snapshot with no reservation semantics; only a committed checkout
// claims rooms.
func (h *PublicHandler) GetAvailability(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	checkIn, checkOut, err := parseStayRange(c.QueryParam("check_in"), c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := h.CategoryRepo.GetByID(ctx, id); err != nil {
		if err == repository.ErrCategoryNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	free, err := h.RoomRepo.CountAvailable(ctx, id, checkIn, checkOut)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"category_id": id,
		"check_in":    checkIn.Format(stayDateLayout),
		"check_out":   checkOut.Format(stayDateLayout),
		"free_rooms":  free,
	})
}

// SearchAvailability finds room categories with free rooms in a city
// for a stay interval.  Query parameters: ?city, ?check_in, ?check_out.
// Results are cheapest-first.
func (h *PublicHandler) SearchAvailability(c echo.Context) error {
	ctx := c.Request().Context()
	city := strings.TrimSpace(c.QueryParam("city"))
	if city == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "city is required"})
	}
	checkIn, checkOut, err := parseStayRange(c.QueryParam("check_in"), c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	items, err := h.CategoryRepo.SearchAvailable(ctx, city, checkIn, checkOut)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
