package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// ErrRoomNotFound is returned when a room lookup fails.
var ErrRoomNotFound = errors.New("room not found")

// RoomRepo provides data access to physical rooms and computes their
// availability.  Rooms carry no status column: a room is busy for an
// interval exactly when it appears in a booking_rooms row of a
// non-cancelled booking that overlaps the interval.  All timestamp
// comparisons use UTC dates.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the provided database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// overlapSubquery selects room ids that are committed to any
// non-cancelled booking whose [check_in, check_out) interval overlaps
// the half-open interval given by the two bound parameters
// (checkOut, checkIn).  Two half-open intervals overlap exactly when
// existing.check_in < new.check_out AND existing.check_out > new.check_in,
// so a departure on day X never conflicts with an arrival on day X.
// CountAvailableTx and AllocateRoomsTx must use the same predicate so
// the allocation draws from the candidate set the count was based on.
const overlapSubquery = `SELECT br.room_id
	FROM booking_rooms br
	JOIN bookings b ON b.id = br.booking_id
	WHERE b.status <> 'CANCELLED' AND br.check_in < ? AND br.check_out > ?`

// Create inserts a new room into a category after validating that the
// caller owns the category's hotel.  On success the ID field is set.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room, ownerID uint64) error {
	const qOwner = `SELECT h.owner_id
	                FROM room_categories c
	                JOIN hotels h ON h.id = c.hotel_id
	                WHERE c.id = ?`
	var actualOwnerID uint64
	if err := r.db.QueryRowContext(ctx, qOwner, rm.CategoryID).Scan(&actualOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCategoryNotFound
		}
		return err
	}
	if actualOwnerID != ownerID {
		return ErrForbidden
	}
	const qInsert = `INSERT INTO rooms (category_id, room_number) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, rm.CategoryID, rm.RoomNumber)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)
	const qSelect = `SELECT id, category_id, room_number, created_at, updated_at FROM rooms WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, rm.ID).
		Scan(&rm.ID, &rm.CategoryID, &rm.RoomNumber, &rm.CreatedAt, &rm.UpdatedAt)
}

// ListByCategory returns all rooms of a category ordered by id.
func (r *RoomRepo) ListByCategory(ctx context.Context, categoryID uint64) ([]*model.Room, error) {
	const q = `SELECT id, category_id, room_number, created_at, updated_at
	           FROM rooms WHERE category_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Room
	for rows.Next() {
		rm := new(model.Room)
		if err := rows.Scan(&rm.ID, &rm.CategoryID, &rm.RoomNumber, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteForOwner removes a room owned by the caller.  The delete is
// refused with ErrConflict while the room appears in a non-cancelled
// booking, because booked rooms are part of the financial record.
func (r *RoomRepo) DeleteForOwner(ctx context.Context, id, ownerID uint64) error {
	const qOwner = `SELECT h.owner_id
	                FROM rooms rm
	                JOIN room_categories c ON c.id = rm.category_id
	                JOIN hotels h ON h.id = c.hotel_id
	                WHERE rm.id = ?`
	var actualOwnerID uint64
	if err := r.db.QueryRowContext(ctx, qOwner, id).Scan(&actualOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}
	if actualOwnerID != ownerID {
		return ErrForbidden
	}
	const qCheck = `SELECT COUNT(*)
	                FROM booking_rooms br
	                JOIN bookings b ON b.id = br.booking_id
	                WHERE br.room_id = ? AND b.status <> 'CANCELLED'`
	var n int
	if err := r.db.QueryRowContext(ctx, qCheck, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	return err
}

// CountAvailable reports how many rooms of a category are free for the
// half-open stay interval without opening a transaction.  This is the
// soft pre-check used by the public availability endpoint and at
// add-to-cart time; checkout must use CountAvailableTx instead.
func (r *RoomRepo) CountAvailable(ctx context.Context, categoryID uint64, checkIn, checkOut time.Time) (int, error) {
	return countAvailable(ctx, r.db, categoryID, checkIn, checkOut)
}

// CountAvailableTx is the transactional variant of CountAvailable.  It
// must run inside the checkout transaction, immediately before room
// allocation, to close the race window between the soft check and
// commit time.  It has no side effects.
func (r *RoomRepo) CountAvailableTx(ctx context.Context, tx *sql.Tx, categoryID uint64, checkIn, checkOut time.Time) (int, error) {
	return countAvailable(ctx, tx, categoryID, checkIn, checkOut)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func countAvailable(ctx context.Context, q querier, categoryID uint64, checkIn, checkOut time.Time) (int, error) {
	const query = `SELECT COUNT(*)
	               FROM rooms r
	               WHERE r.category_id = ?
	                 AND r.id NOT IN (` + overlapSubquery + `)`
	var n int
	err := q.QueryRowContext(ctx, query, categoryID, checkOut.UTC(), checkIn.UTC()).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// AllocateRoomsTx selects up to `quantity` concrete free rooms of a
// category for the stay interval and locks them with FOR UPDATE so
// that a concurrent checkout contending for the same rooms blocks
// until this transaction resolves.  The candidate set is identical to
// the one CountAvailableTx counts.  The exclude slice skips rooms
// already claimed earlier in the same transaction, before their
// booking_rooms rows exist.  The returned slice may be shorter than
// quantity when inventory was exhausted between the count and the
// allocation; callers must treat that as insufficient inventory and
// roll back.  Ordering by id keeps the allocation deterministic and
// makes contending transactions collide on the same rows instead of
// deadlocking on interleaved lock orders.
func (r *RoomRepo) AllocateRoomsTx(ctx context.Context, tx *sql.Tx, categoryID uint64, checkIn, checkOut time.Time, quantity uint32, exclude []uint64) ([]*model.Room, error) {
	query := `SELECT r.id, r.room_number
	          FROM rooms r
	          WHERE r.category_id = ?
	            AND r.id NOT IN (` + overlapSubquery + `)`
	args := []interface{}{categoryID, checkOut.UTC(), checkIn.UTC()}
	if len(exclude) > 0 {
		placeholders := strings.Repeat(",?", len(exclude))[1:]
		query += ` AND r.id NOT IN (` + placeholders + `)`
		for _, id := range exclude {
			args = append(args, id)
		}
	}
	query += ` ORDER BY r.id LIMIT ? FOR UPDATE`
	args = append(args, quantity)

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Room
	for rows.Next() {
		rm := &model.Room{CategoryID: categoryID}
		if err := rows.Scan(&rm.ID, &rm.RoomNumber); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
