// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines the customer cart endpoints: viewing the cart,
// adding and removing stay requests and clearing the cart outright.
// The cart is a staging area only; nothing here reserves rooms.
package handler

import (
	"net/http"
	"strconv"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/pricing"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// CartHandler bundles the repositories the cart endpoints need.
type CartHandler struct {
	CartRepo     *repository.CartRepo
	CategoryRepo *repository.CategoryRepo
	RoomRepo     *repository.RoomRepo
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(cartRepo *repository.CartRepo, categoryRepo *repository.CategoryRepo, roomRepo *repository.RoomRepo) *CartHandler {
	if cartRepo == nil || categoryRepo == nil || roomRepo == nil {
		panic("nil repository passed to NewCartHandler")
	}
	return &CartHandler{CartRepo: cartRepo, CategoryRepo: categoryRepo, RoomRepo: roomRepo}
}

// GetCart handles GET /v1/cart and returns the caller's cart with its items.
// A user without a cart gets an empty item list rather than a 404.
func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	cart, err := h.CartRepo.GetWithItems(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if cart == nil {
		return c.JSON(http.StatusOK, echo.Map{"items": []model.CartItem{}})
	}
	return c.JSON(http.StatusOK, cart)
}

// AddItem handles POST /v1/cart/items.  It validates the stay interval
// and quantity, verifies the category exists, and runs a soft
// availability check so obviously impossible requests are rejected
// early.  The check is advisory: checkout re-verifies inside its
// transaction and is the only authority.
func (h *CartHandler) AddItem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		CategoryID uint64 `json:"category_id"`
		CheckIn    string `json:"check_in"`
		CheckOut   string `json:"check_out"`
		Quantity   uint32 `json:"quantity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	checkIn, checkOut, err := parseStayRange(body.CheckIn, body.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if body.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": pricing.ErrInvalidQuantity.Error()})
	}
	ctx := c.Request().Context()
	if _, err := h.CategoryRepo.GetByID(ctx, body.CategoryID); err != nil {
		if err == repository.ErrCategoryNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	free, err := h.RoomRepo.CountAvailable(ctx, body.CategoryID, checkIn, checkOut)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if free < int(body.Quantity) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "not enough rooms available for the requested dates"})
	}
	item := &model.CartItem{
		CategoryID: body.CategoryID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Quantity:   body.Quantity,
	}
	if err := h.CartRepo.AddItem(ctx, userID, item); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not add item"})
	}
	return c.JSON(http.StatusCreated, item)
}

// RemoveItem handles DELETE /v1/cart/items/:id
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.CartRepo.RemoveItem(c.Request().Context(), userID, itemID); err != nil {
		if err == repository.ErrCartItemNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearCart handles DELETE /v1/cart
func (h *CartHandler) ClearCart(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.CartRepo.Clear(c.Request().Context(), userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.NoContent(http.StatusNoContent)
}
