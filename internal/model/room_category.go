package model

import "time"

// RoomCategory is a price tier within a hotel (e.g. "Standard Double",
// "Junior Suite").  A category carries the nightly price and owns a
// fixed pool of physical rooms.  Availability is always computed per
// category: total rooms minus rooms committed to overlapping bookings.
//
// Fields:
//  ID                 – primary key identifier.
//  HotelID            – hotel to which this category belongs.
//  Name               – unique category name per hotel.
//  PricePerNightCents – nightly price in cents before discounts.
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type RoomCategory struct {
	ID                 uint64    `json:"id"`                    // room_categories.id
	HotelID            uint64    `json:"hotel_id"`              // room_categories.hotel_id
	Name               string    `json:"name"`                  // room_categories.name
	PricePerNightCents uint32    `json:"price_per_night_cents"` // room_categories.price_per_night_cents
	CreatedAt          time.Time `json:"created_at"`            // room_categories.created_at
	UpdatedAt          time.Time `json:"updated_at"`            // room_categories.updated_at
}

// Discount is a time-bounded percentage reduction attached to a room
// category.  A discount applies when the current time falls inside
// [StartsAt, EndsAt].  When several discounts are valid at once the
// highest percentage wins; discounts never stack.
//
// Fields:
//  ID         – primary key identifier.
//  CategoryID – room category the discount belongs to.
//  Percentage – reduction in whole percent (1–100).
//  StartsAt   – beginning of the validity window.
//  EndsAt     – end of the validity window.
//  CreatedAt  – creation timestamp.
type Discount struct {
	ID         uint64    `json:"id"`          // discounts.id
	CategoryID uint64    `json:"category_id"` // discounts.category_id
	Percentage uint8     `json:"percentage"`  // discounts.percentage
	StartsAt   time.Time `json:"starts_at"`   // discounts.starts_at
	EndsAt     time.Time `json:"ends_at"`     // discounts.ends_at
	CreatedAt  time.Time `json:"created_at"`  // discounts.created_at
}
