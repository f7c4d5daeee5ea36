package router // router defines how HTTP routes are registered for the API

import (
	"github.com/iliyamo/hotel-room-booking/internal/handler"    // owner handlers
	"github.com/iliyamo/hotel-room-booking/internal/middleware" // JWT + role middlewares
	"github.com/labstack/echo/v4"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1.
// All routes require a valid JWT and OWNER role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	// ---- Hotels ----
	g.POST("/hotels", o.CreateHotel)
	// NOTE: GET /v1/hotels is the public browse endpoint.  The owner's own
	// hotels (including address and ownership data) live under /v1/owner.
	g.GET("/owner/hotels", o.ListHotels)
	g.GET("/owner/hotels/:id", o.GetHotel)
	g.PUT("/hotels/:id", o.UpdateHotel)
	g.PATCH("/hotels/:id", o.UpdateHotel) // allow partial/semantic updates via PATCH as well
	g.DELETE("/hotels/:id", o.DeleteHotel)

	// ---- Room categories ----
	g.POST("/hotels/:id/categories", o.CreateCategory)
	// NOTE: Listing categories of a hotel is provided by the public API
	// (GET /v1/hotels/:id/categories); the owner variant lives under /v1/owner
	// to avoid a route conflict.
	g.GET("/owner/hotels/:id/categories", o.ListCategories)
	g.PUT("/categories/:id", o.UpdateCategory)
	g.PATCH("/categories/:id", o.UpdateCategory)
	g.DELETE("/categories/:id", o.DeleteCategory)

	// ---- Discounts ----
	g.POST("/categories/:id/discounts", o.AddDiscount)
	g.GET("/categories/:id/discounts", o.ListDiscounts)
	g.DELETE("/discounts/:id", o.DeleteDiscount)

	// ---- Rooms ----
	g.POST("/categories/:id/rooms", o.CreateRoom)
	g.GET("/categories/:id/rooms", o.ListRooms)
	g.DELETE("/rooms/:id", o.DeleteRoom)
}
