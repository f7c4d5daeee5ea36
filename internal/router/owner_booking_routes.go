package router

// This file registers owner-specific routes for inspecting bookings.
// They are separate from the generic owner routes to keep concerns
// isolated.

import (
	"github.com/iliyamo/hotel-room-booking/internal/handler"
	"github.com/iliyamo/hotel-room-booking/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterOwnerBookings registers routes that allow owners to inspect
// bookings placed against their hotels.  All routes are mounted under
// /v1 and require a JWT token as well as the OWNER role.
func RegisterOwnerBookings(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)
	// List all bookings for a specific hotel
	g.GET("/owner/hotels/:id/bookings", o.ListHotelBookings)
}
