package handler // handler package contains owner-specific room category handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// CreateCategory handles POST /v1/hotels/:id/categories and adds a room
// category (price tier) to one of the owner's hotels.
func (h *OwnerHandler) CreateCategory(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name               string `json:"name"`
		PricePerNightCents uint32 `json:"price_per_night_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.PricePerNightCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_night_cents must be positive"})
	}
	// ownership check before touching the category table
	if _, err := h.HotelRepo.GetByIDAndOwner(c.Request().Context(), hotelID, ownerID); err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	category := &model.RoomCategory{
		HotelID:            hotelID,
		Name:               name,
		PricePerNightCents: body.PricePerNightCents,
	}
	if err := h.CategoryRepo.Create(c.Request().Context(), category); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "category name already exists in this hotel"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create category"})
	}
	return c.JSON(http.StatusCreated, category)
}

// ListCategories handles GET /v1/owner/hotels/:id/categories for the owner
func (h *OwnerHandler) ListCategories(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.HotelRepo.GetByIDAndOwner(c.Request().Context(), hotelID, ownerID); err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items, err := h.CategoryRepo.ListByHotel(c.Request().Context(), hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateCategory handles PUT /v1/categories/:id and updates name and price
func (h *OwnerHandler) UpdateCategory(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name               string `json:"name"`
		PricePerNightCents uint32 `json:"price_per_night_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" || body.PricePerNightCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and positive price are required"})
	}
	category := &model.RoomCategory{ID: id, Name: name, PricePerNightCents: body.PricePerNightCents}
	if err := h.CategoryRepo.UpdateForOwner(c.Request().Context(), category, ownerID); err != nil {
		switch err {
		case repository.ErrCategoryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your hotel"})
		default:
			if strings.Contains(err.Error(), "1062") {
				return c.JSON(http.StatusConflict, echo.Map{"error": "category name already exists in this hotel"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	updated, _ := h.CategoryRepo.GetByID(c.Request().Context(), id)
	return c.JSON(http.StatusOK, updated)
}

// DeleteCategory handles DELETE /v1/categories/:id
func (h *OwnerHandler) DeleteCategory(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.CategoryRepo.DeleteForOwner(c.Request().Context(), id, ownerID); err != nil {
		switch err {
		case repository.ErrCategoryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your hotel"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "category has rooms with active bookings"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// AddDiscount handles POST /v1/categories/:id/discounts.  Discounts are
// percentage reductions valid inside a time window; the best single one
// applies at checkout time.
func (h *OwnerHandler) AddDiscount(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Percentage uint8     `json:"percentage"`
		StartsAt   time.Time `json:"starts_at"`
		EndsAt     time.Time `json:"ends_at"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Percentage < 1 || body.Percentage > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "percentage must be between 1 and 100"})
	}
	if !body.EndsAt.After(body.StartsAt) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
	}
	discount := &model.Discount{
		CategoryID: categoryID,
		Percentage: body.Percentage,
		StartsAt:   body.StartsAt.UTC(),
		EndsAt:     body.EndsAt.UTC(),
	}
	if err := h.CategoryRepo.AddDiscount(c.Request().Context(), discount, ownerID); err != nil {
		switch err {
		case repository.ErrCategoryNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your hotel"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create discount"})
		}
	}
	return c.JSON(http.StatusCreated, discount)
}

// ListDiscounts handles GET /v1/categories/:id/discounts
func (h *OwnerHandler) ListDiscounts(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	items, err := h.CategoryRepo.ListDiscounts(c.Request().Context(), categoryID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteDiscount handles DELETE /v1/discounts/:id
func (h *OwnerHandler) DeleteDiscount(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.CategoryRepo.DeleteDiscount(c.Request().Context(), id, ownerID); err != nil {
		switch err {
		case repository.ErrDiscountNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "discount not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your hotel"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
