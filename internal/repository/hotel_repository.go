// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for CRUD and lookup operations on
// hotels. A hotel is a venue owned by a single user that contains room
// categories. Only minimal fields (ID, Name, City) should be exposed in
// public API responses.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to define custom error values
	"strings"      // strings normalizes optional filter values

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// ErrHotelNotFound is returned when a hotel cannot be found in the DB.
var ErrHotelNotFound = errors.New("hotel not found")

// HotelRepo encapsulates all database queries related to hotels.  It
// depends on a sql.DB connection which should be configured elsewhere.
type HotelRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewHotelRepo constructs a HotelRepo with the provided DB handle.  This
// function allows dependency injection of the database in tests and at
// startup.  There is no initialization logic beyond assigning the field.
func NewHotelRepo(db *sql.DB) *HotelRepo {
	return &HotelRepo{db: db}
}

// DB exposes the underlying handle so callers can begin transactions.
func (r *HotelRepo) DB() *sql.DB { return r.db }

// Create inserts a new hotel into the database.  On success the hotel's
// ID field will be populated with the auto-generated value.  After the
// insert, a SELECT is executed to populate the CreatedAt and UpdatedAt
// fields so that callers receive a fully populated record.
func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel) error {
	const qInsert = "INSERT INTO hotels (owner_id, name, city, address) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, h.OwnerID, h.Name, h.City, h.Address)
	if err != nil {
		return err // propagate DB errors to the caller
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)

	// Perform a follow-up SELECT to populate default timestamp fields.
	const qSelect = "SELECT owner_id, name, city, address, created_at, updated_at FROM hotels WHERE id = ?"
	var addr sql.NullString
	if err := r.db.QueryRowContext(ctx, qSelect, h.ID).Scan(&h.OwnerID, &h.Name, &h.City, &addr, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return err
	}
	if addr.Valid {
		a := addr.String
		h.Address = &a
	}
	return nil
}

// GetByID fetches a hotel by its ID regardless of owner.  It returns
// ErrHotelNotFound if no row is found.  Callers can use this method
// when they don't need to enforce ownership in the repository layer.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	const q = "SELECT id, owner_id, name, city, address, created_at, updated_at FROM hotels WHERE id = ?"
	var h model.Hotel
	var addr sql.NullString
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &addr, &h.CreatedAt, &h.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	if addr.Valid {
		a := addr.String
		h.Address = &a
	}
	return &h, nil
}

// GetByIDAndOwner fetches a hotel by id but only if it belongs to the
// specified owner.  If the hotel doesn't exist or is owned by someone
// else, ErrHotelNotFound is returned so callers cannot probe for
// other owners' hotels.
func (r *HotelRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Hotel, error) {
	const q = "SELECT id, owner_id, name, city, address, created_at, updated_at FROM hotels WHERE id = ? AND owner_id = ?"
	var h model.Hotel
	var addr sql.NullString
	if err := r.db.QueryRowContext(ctx, q, id, ownerID).Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &addr, &h.CreatedAt, &h.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	if addr.Valid {
		a := addr.String
		h.Address = &a
	}
	return &h, nil
}

// ListByOwner returns all hotels belonging to an owner ordered by id.
// Used by the owner dashboard endpoints.
func (r *HotelRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Hotel, error) {
	const q = "SELECT id, owner_id, name, city, address, created_at, updated_at FROM hotels WHERE owner_id = ? ORDER BY id"
	return r.list(ctx, q, ownerID)
}

// ListPublic returns hotels for unauthenticated browsing.  When city is
// non-empty the result is filtered to that city (case-insensitive
// courtesy of the DB collation).
func (r *HotelRepo) ListPublic(ctx context.Context, city string) ([]*model.Hotel, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		const q = "SELECT id, owner_id, name, city, address, created_at, updated_at FROM hotels ORDER BY id"
		return r.list(ctx, q)
	}
	const q = "SELECT id, owner_id, name, city, address, created_at, updated_at FROM hotels WHERE city = ? ORDER BY id"
	return r.list(ctx, q, city)
}

func (r *HotelRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Hotel
	for rows.Next() {
		h := new(model.Hotel)
		var addr sql.NullString
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &addr, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		if addr.Valid {
			a := addr.String
			h.Address = &a
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateByIDAndOwner updates hotel fields (name/city/address) if the
// hotel belongs to the given owner.  Returns sql.ErrNoRows when not found.
func (r *HotelRepo) UpdateByIDAndOwner(ctx context.Context, h *model.Hotel) error {
	const q = `UPDATE hotels
               SET name = ?, city = ?, address = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.City, h.Address, h.ID, h.OwnerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndOwner removes a hotel owned by the caller.  The delete is
// refused with ErrConflict while any non-cancelled booking references
// the hotel, because bookings are the financial record of the system.
// Categories, rooms and discounts cascade via foreign keys.
func (r *HotelRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	// Verify existence and ownership first to report accurate errors.
	if _, err := r.GetByIDAndOwner(ctx, id, ownerID); err != nil {
		return err
	}
	const qCheck = `SELECT COUNT(*) FROM bookings WHERE hotel_id = ? AND status <> 'CANCELLED'`
	var n int
	if err := r.db.QueryRowContext(ctx, qCheck, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	const qDel = "DELETE FROM hotels WHERE id = ? AND owner_id = ?"
	res, err := r.db.ExecContext(ctx, qDel, id, ownerID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrHotelNotFound
	}
	return nil
}
