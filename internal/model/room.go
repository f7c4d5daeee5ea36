package model

import "time"

// Room describes a physical room unit belonging to a room category.
// Rooms are the unit of allocation during checkout: a booking consumes
// concrete room rows for its stay interval.  Rooms carry no status
// flag; busyness is derived on demand from booking_rooms.
//
// Fields:
//  ID         – primary key identifier.
//  CategoryID – room category to which this room belongs.
//  RoomNumber – door number or label unique within the hotel.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Room struct {
	ID         uint64    `json:"id"`          // rooms.id
	CategoryID uint64    `json:"category_id"` // rooms.category_id
	RoomNumber string    `json:"room_number"` // rooms.room_number
	CreatedAt  time.Time `json:"created_at"`  // rooms.created_at
	UpdatedAt  time.Time `json:"updated_at"`  // rooms.updated_at
}
