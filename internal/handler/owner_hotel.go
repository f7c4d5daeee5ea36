package handler // handler package contains owner-specific hotel handlers

import (
	"net/http" // http provides status code constants
	"strconv"  // strconv parses string identifiers to numeric types
	"strings"  // strings offers trimming utilities

	"github.com/iliyamo/hotel-room-booking/internal/model"      // model holds database records
	"github.com/iliyamo/hotel-room-booking/internal/repository" // repository holds database access
	"github.com/labstack/echo/v4"                               // echo is the web framework used for handlers
)

// CreateHotel handles POST /v1/hotels and creates a new hotel for the authenticated owner
func (h *OwnerHandler) CreateHotel(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name    string  `json:"name"`
		City    string  `json:"city"`
		Address *string `json:"address"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	city := strings.TrimSpace(body.City)
	if name == "" || city == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city are required"})
	}
	hotel := &model.Hotel{
		OwnerID: ownerID,
		Name:    name,
		City:    city,
		Address: body.Address,
	}
	if err := h.HotelRepo.Create(c.Request().Context(), hotel); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "hotel name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create hotel"})
	}
	return c.JSON(http.StatusCreated, hotel)
}

// ListHotels handles GET /v1/owner/hotels and returns all hotels owned by the authenticated user
func (h *OwnerHandler) ListHotels(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.HotelRepo.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetHotel handles GET /v1/owner/hotels/:id for the owning user
func (h *OwnerHandler) GetHotel(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	hotel, err := h.HotelRepo.GetByIDAndOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, hotel)
}

// UpdateHotel handles PUT /v1/hotels/:id and updates name, city and address
func (h *OwnerHandler) UpdateHotel(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name    string  `json:"name"`
		City    string  `json:"city"`
		Address *string `json:"address"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	city := strings.TrimSpace(body.City)
	if name == "" || city == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city are required"})
	}
	hotel := &model.Hotel{ID: id, OwnerID: ownerID, Name: name, City: city, Address: body.Address}
	if err := h.HotelRepo.UpdateByIDAndOwner(c.Request().Context(), hotel); err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "hotel name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, _ := h.HotelRepo.GetByID(c.Request().Context(), id)
	return c.JSON(http.StatusOK, updated)
}

// DeleteHotel handles DELETE /v1/hotels/:id.  Hotels with non-cancelled
// bookings are protected because their rooms are part of the financial
// record; the repository reports that as a conflict.
func (h *OwnerHandler) DeleteHotel(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.HotelRepo.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		switch err {
		case repository.ErrHotelNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "hotel has active bookings"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
