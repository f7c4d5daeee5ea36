package handler

import (
	"net/http"
	"strings"

	"github.com/iliyamo/hotel-room-booking/internal/checkout"
	"github.com/labstack/echo/v4"
)

// CheckoutHandler exposes the checkout endpoint.  All orchestration
// lives in the checkout service; this handler only translates between
// HTTP and the service's request/result types.
type CheckoutHandler struct {
	Svc *checkout.Service
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(svc *checkout.Service) *CheckoutHandler {
	if svc == nil {
		panic("nil service passed to NewCheckoutHandler")
	}
	return &CheckoutHandler{Svc: svc}
}

// Checkout handles POST /v1/checkout.  The body carries only the
// payment method; everything else comes from the caller's cart.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	result := h.Svc.Checkout(c.Request().Context(), checkout.Request{
		UserID:        userID,
		PaymentMethod: strings.ToUpper(strings.TrimSpace(body.PaymentMethod)),
	})
	return c.JSON(result.HTTPStatus(), result)
}
