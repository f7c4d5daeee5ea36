package handler // handler package contains owner-specific room handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// CreateRoom handles POST /v1/categories/:id/rooms and adds a physical
// room to one of the owner's categories.
func (h *OwnerHandler) CreateRoom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		RoomNumber string `json:"room_number"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	number := strings.TrimSpace(body.RoomNumber)
	if number == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_number is required"})
	}
	room := &model.Room{CategoryID: categoryID, RoomNumber: number}
	if err := h.RoomRepo.Create(c.Request().Context(), room, ownerID); err != nil {
		switch err {
		case repository.ErrCategoryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your hotel"})
		default:
			if strings.Contains(err.Error(), "1062") {
				return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists in this category"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create room"})
		}
	}
	return c.JSON(http.StatusCreated, room)
}

// ListRooms handles GET /v1/categories/:id/rooms for the owner
func (h *OwnerHandler) ListRooms(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.CategoryRepo.GetByIDForOwner(c.Request().Context(), categoryID, ownerID); err != nil {
		switch err {
		case repository.ErrCategoryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your hotel"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}
	items, err := h.RoomRepo.ListByCategory(c.Request().Context(), categoryID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteRoom handles DELETE /v1/rooms/:id.  Rooms referenced by
// non-cancelled bookings are protected and the delete reports a
// conflict instead.
func (h *OwnerHandler) DeleteRoom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.RoomRepo.DeleteForOwner(c.Request().Context(), id, ownerID); err != nil {
		switch err {
		case repository.ErrRoomNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your hotel"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "room has active bookings"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
