package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getUserID
	"strconv" // strconv converts strings to numeric types
	"strings" // strings provides trimming helpers
	"time"    // time parses stay dates

	"github.com/iliyamo/hotel-room-booking/internal/repository" // repository holds data access layer
	"github.com/labstack/echo/v4"                               // echo defines request context types
)

// OwnerHandler bundles repositories for owners to manipulate resources
type OwnerHandler struct {
	HotelRepo    *repository.HotelRepo    // HotelRepo provides hotel persistence
	CategoryRepo *repository.CategoryRepo // CategoryRepo provides room category persistence
	RoomRepo     *repository.RoomRepo     // RoomRepo provides room persistence
	BookingRepo  *repository.BookingRepo  // BookingRepo provides booking reads for owners
}

// NewOwnerHandler constructs a new OwnerHandler and panics if any dependency is nil
func NewOwnerHandler(hotelRepo *repository.HotelRepo, categoryRepo *repository.CategoryRepo, roomRepo *repository.RoomRepo, bookingRepo *repository.BookingRepo) *OwnerHandler {
	if hotelRepo == nil || categoryRepo == nil || roomRepo == nil || bookingRepo == nil {
		panic("nil repository passed to NewOwnerHandler")
	}
	return &OwnerHandler{
		HotelRepo:    hotelRepo,
		CategoryRepo: categoryRepo,
		RoomRepo:     roomRepo,
		BookingRepo:  bookingRepo,
	}
}

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// stayDateLayout is the wire format for check-in/check-out dates.
const stayDateLayout = "2006-01-02"

// parseStayDate parses a calendar date like "2026-09-14" as UTC midnight.
func parseStayDate(raw string) (time.Time, error) {
	return time.Parse(stayDateLayout, strings.TrimSpace(raw))
}

// parseStayRange parses and validates a check-in/check-out pair.  The
// interval is half-open, so check-out must be strictly after check-in.
func parseStayRange(rawIn, rawOut string) (time.Time, time.Time, error) {
	in, err := parseStayDate(rawIn)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid check_in, expected YYYY-MM-DD")
	}
	out, err := parseStayDate(rawOut)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid check_out, expected YYYY-MM-DD")
	}
	if !out.After(in) {
		return time.Time{}, time.Time{}, errors.New("check_out must be after check_in")
	}
	return in, out, nil
}
