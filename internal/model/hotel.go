package model

import "time"

// Hotel represents a property that rents rooms to guests.  Each hotel
// belongs to a single owner and contains one or more room categories.
// Only minimal fields (ID, Name, City) should be exposed in public API
// responses.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – user ID of the hotel owner.
//  Name      – human-friendly name of the hotel.
//  City      – city where the hotel is located.
//  Address   – street address (optional).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Hotel struct {
	ID        uint64    `json:"id"`                // hotels.id
	OwnerID   uint64    `json:"owner_id"`          // hotels.owner_id
	Name      string    `json:"name"`              // hotels.name
	City      string    `json:"city"`              // hotels.city
	Address   *string   `json:"address,omitempty"` // hotels.address (nullable)
	CreatedAt time.Time `json:"created_at"`        // hotels.created_at
	UpdatedAt time.Time `json:"updated_at"`        // hotels.updated_at
}
