package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup fails.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides persistence for bookings, their allocated rooms
// and the one-to-one payment record.  Bookings are only ever created
// inside a checkout transaction; the *Tx methods therefore take an
// explicit transaction and the caller must commit or roll back.  All
// timestamp fields are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for callers that need to run the
// cancel flow in their own transaction.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new booking within the scope of an existing
// transaction.  It populates the generated ID on the provided record
// and reads the row back so timestamps and defaults are filled in.
// Status should be a valid enumeration ('CONFIRMED','CANCELLED').
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, hotel_id, check_in, check_out, status, total_amount_cents)
	           VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, b.UserID, b.HotelID,
		b.CheckIn.UTC().Format("2006-01-02"), b.CheckOut.UTC().Format("2006-01-02"),
		b.Status, b.TotalAmountCents)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT id, user_id, hotel_id, check_in, check_out, status, total_amount_cents, created_at, updated_at
	             FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(
		&b.ID, &b.UserID, &b.HotelID, &b.CheckIn, &b.CheckOut, &b.Status, &b.TotalAmountCents,
		&b.CreatedAt, &b.UpdatedAt,
	)
}

// AddRoomsBulkTx inserts multiple booking_rooms rows in a single
// statement.  Each record attaches one physical room with its own stay
// interval to the booking.  The caller must supply the booking ID in
// each record.  Passing an empty slice has no effect and returns nil.
func (r *BookingRepo) AddRoomsBulkTx(ctx context.Context, tx *sql.Tx, rooms []model.BookingRoom) error {
	if len(rooms) == 0 {
		return nil
	}
	query := `INSERT INTO booking_rooms (booking_id, room_id, check_in, check_out) VALUES `
	args := make([]interface{}, 0, len(rooms)*4)
	for i, br := range rooms {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, br.BookingID, br.RoomID,
			br.CheckIn.UTC().Format("2006-01-02"), br.CheckOut.UTC().Format("2006-01-02"))
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// CreatePaymentTx inserts the booking's payment record within the
// transaction and populates the generated ID.
func (r *BookingRepo) CreatePaymentTx(ctx context.Context, tx *sql.Tx, p *model.PaymentDetails) error {
	const q = `INSERT INTO payment_details (booking_id, amount_cents, method, payment_ref, paid_at)
	           VALUES (?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, p.BookingID, p.AmountCents, p.Method, p.PaymentRef,
		p.PaidAt.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// BookedRoom is the room slice of a booking detail response.
type BookedRoom struct {
	RoomID     uint64 `json:"room_id"`
	RoomNumber string `json:"room_number"`
	Category   string `json:"category"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
}

// BookingDetail encapsulates a booking along with hotel information,
// the allocated rooms and the payment record.  It is returned by
// ListByUser and GetByIDForUser for display to customers.
type BookingDetail struct {
	ID               uint64       `json:"id"`
	HotelID          uint64       `json:"hotel_id"`
	HotelName        string       `json:"hotel_name"`
	City             string       `json:"city"`
	Status           string       `json:"status"`
	CheckIn          string       `json:"check_in"`
	CheckOut         string       `json:"check_out"`
	TotalAmountCents uint32       `json:"total_amount_cents"`
	PaymentMethod    *string      `json:"payment_method,omitempty"`
	PaymentRef       *string      `json:"payment_ref,omitempty"`
	Rooms            []BookedRoom `json:"rooms"`
}

// ListByUser returns all bookings for the given user along with hotel,
// room and payment details.  Bookings are ordered by creation time
// descending (newest first).  When no bookings exist, an empty slice
// is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.hotel_id, h.name, h.city, b.status, b.check_in, b.check_out, b.total_amount_cents,
	                  p.method, p.payment_ref
	           FROM bookings b
	           JOIN hotels h ON h.id = b.hotel_id
	           LEFT JOIN payment_details p ON p.booking_id = b.id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]BookingDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d BookingDetail
		var checkIn, checkOut time.Time
		var method, payRef sql.NullString
		if err := rows.Scan(&d.ID, &d.HotelID, &d.HotelName, &d.City, &d.Status, &checkIn, &checkOut,
			&d.TotalAmountCents, &method, &payRef); err != nil {
			return nil, err
		}
		d.CheckIn = checkIn.UTC().Format("2006-01-02")
		d.CheckOut = checkOut.UTC().Format("2006-01-02")
		if method.Valid {
			m := method.String
			d.PaymentMethod = &m
		}
		if payRef.Valid {
			ref := payRef.String
			d.PaymentRef = &ref
		}
		d.Rooms = []BookedRoom{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	// Populate rooms for all bookings in a single query.
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	roomQuery := `SELECT br.booking_id, br.room_id, rm.room_number, c.name, br.check_in, br.check_out
	              FROM booking_rooms br
	              JOIN rooms rm ON rm.id = br.room_id
	              JOIN room_categories c ON c.id = rm.category_id
	              WHERE br.booking_id IN (` + strings.Join(placeholders, ",") + `)
	              ORDER BY br.booking_id, br.room_id`
	rrows, err := r.db.QueryContext(ctx, roomQuery, ids...)
	if err != nil {
		return nil, err
	}
	defer rrows.Close()
	for rrows.Next() {
		var bid uint64
		var br BookedRoom
		var checkIn, checkOut time.Time
		if err := rrows.Scan(&bid, &br.RoomID, &br.RoomNumber, &br.Category, &checkIn, &checkOut); err != nil {
			return nil, err
		}
		br.CheckIn = checkIn.UTC().Format("2006-01-02")
		br.CheckOut = checkOut.UTC().Format("2006-01-02")
		idx, ok := index[bid]
		if !ok {
			continue
		}
		details[idx].Rooms = append(details[idx].Rooms, br)
	}
	if err := rrows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// GetByIDForUser returns a single booking for the given user.  It
// loads hotel, room and payment details.  When no booking with the
// specified ID exists for the user, ErrBookingNotFound is returned
// (ownership is enforced in the query, so foreign bookings look
// identical to missing ones).
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
	const q = `SELECT b.id, b.hotel_id, h.name, h.city, b.status, b.check_in, b.check_out, b.total_amount_cents,
	                  p.method, p.payment_ref
	           FROM bookings b
	           JOIN hotels h ON h.id = b.hotel_id
	           LEFT JOIN payment_details p ON p.booking_id = b.id
	           WHERE b.id = ? AND b.user_id = ?`
	var d BookingDetail
	var checkIn, checkOut time.Time
	var method, payRef sql.NullString
	err := r.db.QueryRowContext(ctx, q, bookingID, userID).Scan(
		&d.ID, &d.HotelID, &d.HotelName, &d.City, &d.Status, &checkIn, &checkOut,
		&d.TotalAmountCents, &method, &payRef,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	d.CheckIn = checkIn.UTC().Format("2006-01-02")
	d.CheckOut = checkOut.UTC().Format("2006-01-02")
	if method.Valid {
		m := method.String
		d.PaymentMethod = &m
	}
	if payRef.Valid {
		ref := payRef.String
		d.PaymentRef = &ref
	}
	d.Rooms = []BookedRoom{}
	const roomQ = `SELECT br.room_id, rm.room_number, c.name, br.check_in, br.check_out
	               FROM booking_rooms br
	               JOIN rooms rm ON rm.id = br.room_id
	               JOIN room_categories c ON c.id = rm.category_id
	               WHERE br.booking_id = ?
	               ORDER BY br.room_id`
	rows, err := r.db.QueryContext(ctx, roomQ, d.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var br BookedRoom
		var in, out time.Time
		if err := rows.Scan(&br.RoomID, &br.RoomNumber, &br.Category, &in, &out); err != nil {
			return nil, err
		}
		br.CheckIn = in.UTC().Format("2006-01-02")
		br.CheckOut = out.UTC().Format("2006-01-02")
		d.Rooms = append(d.Rooms, br)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetInfoForUserTx returns the status and check-in date of a booking
// within a transaction, validating that the booking belongs to the
// specified user.  It returns ErrBookingNotFound when the booking does
// not exist and ErrForbidden when it belongs to a different user.
// Cancellation uses this to decide whether the stay has started.
func (r *BookingRepo) GetInfoForUserTx(ctx context.Context, tx *sql.Tx, bookingID, userID uint64) (string, time.Time, error) {
	const q = `SELECT user_id, status, check_in FROM bookings WHERE id = ?`
	var actualUserID uint64
	var status string
	var checkIn time.Time
	err := tx.QueryRowContext(ctx, q, bookingID).Scan(&actualUserID, &status, &checkIn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, ErrBookingNotFound
		}
		return "", time.Time{}, err
	}
	if actualUserID != userID {
		return "", time.Time{}, ErrForbidden
	}
	return status, checkIn.UTC(), nil
}

// CancelTx marks a booking CANCELLED within the transaction.  The
// booking_rooms rows are kept for the audit trail; availability
// queries skip cancelled bookings, so the rooms free up immediately.
func (r *BookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	const q = `UPDATE bookings SET status = 'CANCELLED', updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, bookingID)
	return err
}

// OwnerBookingRow is a single row of the owner's booking listing.
type OwnerBookingRow struct {
	ID               uint64 `json:"id"`
	UserID           uint64 `json:"user_id"`
	Status           string `json:"status"`
	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
	TotalAmountCents uint32 `json:"total_amount_cents"`
	RoomCount        int    `json:"room_count"`
	CreatedAt        string `json:"created_at"`
}

// ListByHotelForOwner returns all bookings of a hotel when accessed by
// its owner.  It verifies that the hotel belongs to the owner before
// returning the list; otherwise ErrForbidden is returned.  Bookings
// are ordered by creation time descending.
func (r *BookingRepo) ListByHotelForOwner(ctx context.Context, hotelID, ownerID uint64) ([]OwnerBookingRow, error) {
	const checkQ = `SELECT owner_id FROM hotels WHERE id = ?`
	var actualOwnerID uint64
	if err := r.db.QueryRowContext(ctx, checkQ, hotelID).Scan(&actualOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	if actualOwnerID != ownerID {
		return nil, ErrForbidden
	}
	const q = `SELECT b.id, b.user_id, b.status, b.check_in, b.check_out, b.total_amount_cents,
	                  (SELECT COUNT(*) FROM booking_rooms br WHERE br.booking_id = b.id), b.created_at
	           FROM bookings b
	           WHERE b.hotel_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]OwnerBookingRow, 0)
	for rows.Next() {
		var row OwnerBookingRow
		var checkIn, checkOut, createdAt time.Time
		if err := rows.Scan(&row.ID, &row.UserID, &row.Status, &checkIn, &checkOut,
			&row.TotalAmountCents, &row.RoomCount, &createdAt); err != nil {
			return nil, err
		}
		row.CheckIn = checkIn.UTC().Format("2006-01-02")
		row.CheckOut = checkOut.UTC().Format("2006-01-02")
		row.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
