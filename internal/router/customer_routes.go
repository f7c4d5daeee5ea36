package router

import (
	"github.com/iliyamo/hotel-room-booking/internal/handler"
	"github.com/iliyamo/hotel-room-booking/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All routes
// require a valid JWT and the CUSTOMER role.  Customers manage their
// cart, run checkout and view or cancel their own bookings.
func RegisterCustomer(e *echo.Echo, cart *handler.CartHandler, co *handler.CheckoutHandler, bk *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)

	// ---- Cart ----
	g.GET("/cart", cart.GetCart)
	g.POST("/cart/items", cart.AddItem)
	g.DELETE("/cart/items/:id", cart.RemoveItem)
	g.DELETE("/cart", cart.ClearCart)

	// ---- Checkout ----
	// Converts the whole cart into bookings in one transaction.
	g.POST("/checkout", co.Checkout)

	// ---- Bookings ----
	g.GET("/bookings", bk.ListMyBookings)
	g.GET("/bookings/:id", bk.GetMyBooking)
	g.POST("/bookings/:id/cancel", bk.CancelBooking)
}
