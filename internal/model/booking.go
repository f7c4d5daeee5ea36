package model

import "time"

// Booking records a committed reservation of specific physical rooms
// at one hotel.  A checkout produces exactly one booking per hotel
// represented in the cart.  Bookings are created only inside a
// committed checkout transaction and are immutable afterwards, except
// for cancellation.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – user who made the booking.
//  HotelID          – hotel the rooms belong to.
//  CheckIn          – earliest check-in across the booking's rooms.
//  CheckOut         – latest check-out across the booking's rooms.
//  Status           – state of the booking (CONFIRMED, CANCELLED).
//  TotalAmountCents – discounted total for all rooms and nights.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
// Booking status values.  CANCELLED bookings release their rooms for
// new reservations; all other statuses keep them occupied.
const (
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
)

type Booking struct {
	ID               uint64    // bookings.id
	UserID           uint64    // bookings.user_id
	HotelID          uint64    // bookings.hotel_id
	CheckIn          time.Time // bookings.check_in
	CheckOut         time.Time // bookings.check_out
	Status           string    // bookings.status
	TotalAmountCents uint32    // bookings.total_amount_cents
	CreatedAt        time.Time // bookings.created_at
	UpdatedAt        time.Time // bookings.updated_at
}

// BookingRoom attaches one physical room to a booking for a stay
// interval.  These rows are the source of truth for availability:
// a room is busy for [CheckIn, CheckOut) when it appears in a
// booking_rooms row of a non-cancelled booking.
//
// Fields:
//  ID        – primary key identifier.
//  BookingID – booking that consumes the room.
//  RoomID    – physical room being consumed.
//  CheckIn   – start of the occupied interval.
//  CheckOut  – end of the occupied interval (exclusive).
//  CreatedAt – creation timestamp.
type BookingRoom struct {
	ID        uint64    // booking_rooms.id
	BookingID uint64    // booking_rooms.booking_id
	RoomID    uint64    // booking_rooms.room_id
	CheckIn   time.Time // booking_rooms.check_in
	CheckOut  time.Time // booking_rooms.check_out
	CreatedAt time.Time // booking_rooms.created_at
}

// PaymentDetails is the one-to-one payment record of a booking.  The
// amount must equal the discounted price sum for the booking's rooms
// and nights.
//
// Fields:
//  ID          – primary key identifier.
//  BookingID   – booking this payment belongs to (unique).
//  AmountCents – charged amount in cents.
//  Method      – payment method (CARD, WALLET, BANK_TRANSFER).
//  PaymentRef  – reference returned by the payment gateway.
//  PaidAt      – payment timestamp.
type PaymentDetails struct {
	ID          uint64    // payment_details.id
	BookingID   uint64    // payment_details.booking_id
	AmountCents uint32    // payment_details.amount_cents
	Method      string    // payment_details.method
	PaymentRef  string    // payment_details.payment_ref
	PaidAt      time.Time // payment_details.paid_at
}
