package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions
	"time"         // time carries stay interval boundaries

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// ErrCategoryNotFound is returned when a room category lookup fails.
var ErrCategoryNotFound = errors.New("room category not found")

// ErrDiscountNotFound is returned when a discount lookup fails.
var ErrDiscountNotFound = errors.New("discount not found")

// CategoryRepo provides methods to create and retrieve room categories
// and their discounts.  It embeds a database handle to perform queries
// and commands.
type CategoryRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewCategoryRepo constructs a CategoryRepo with the given DB handle.
func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create inserts a new room category.  The category must have HotelID,
// Name and PricePerNightCents set.  After insert the ID field will be
// populated and the row is read back so timestamps are filled in.
func (r *CategoryRepo) Create(ctx context.Context, c *model.RoomCategory) error {
	const qInsert = `INSERT INTO room_categories (hotel_id, name, price_per_night_cents) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, c.HotelID, c.Name, c.PricePerNightCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	const qSelect = `SELECT id, hotel_id, name, price_per_night_cents, created_at, updated_at
	                 FROM room_categories WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, c.ID).
		Scan(&c.ID, &c.HotelID, &c.Name, &c.PricePerNightCents, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID retrieves a room category by its ID regardless of owner.  It
// returns ErrCategoryNotFound when no row is found.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (*model.RoomCategory, error) {
	const q = `SELECT id, hotel_id, name, price_per_night_cents, created_at, updated_at
	           FROM room_categories WHERE id = ?`
	var c model.RoomCategory
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.HotelID, &c.Name, &c.PricePerNightCents, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByIDForOwner retrieves a category but validates that the caller
// owns the parent hotel.  It returns ErrCategoryNotFound when the
// category does not exist and ErrForbidden when the hotel belongs to a
// different owner.
func (r *CategoryRepo) GetByIDForOwner(ctx context.Context, id, ownerID uint64) (*model.RoomCategory, error) {
	const q = `SELECT c.id, c.hotel_id, c.name, c.price_per_night_cents, c.created_at, c.updated_at, h.owner_id
	           FROM room_categories c
	           JOIN hotels h ON h.id = c.hotel_id
	           WHERE c.id = ?`
	var c model.RoomCategory
	var actualOwnerID uint64
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.HotelID, &c.Name, &c.PricePerNightCents, &c.CreatedAt, &c.UpdatedAt, &actualOwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if actualOwnerID != ownerID {
		return nil, ErrForbidden
	}
	return &c, nil
}

// ListByHotel returns all categories inside a hotel ordered by id.
// Useful for GET /v1/hotels/:hotel_id/categories.
func (r *CategoryRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]*model.RoomCategory, error) {
	const q = `SELECT id, hotel_id, name, price_per_night_cents, created_at, updated_at
               FROM room_categories
               WHERE hotel_id = ?
               ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.RoomCategory
	for rows.Next() {
		c := new(model.RoomCategory)
		if err := rows.Scan(&c.ID, &c.HotelID, &c.Name, &c.PricePerNightCents, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateForOwner updates category fields (name/price) when the parent
// hotel belongs to the given owner.  Returns ErrCategoryNotFound or
// ErrForbidden via GetByIDForOwner on lookup failure.
func (r *CategoryRepo) UpdateForOwner(ctx context.Context, c *model.RoomCategory, ownerID uint64) error {
	if _, err := r.GetByIDForOwner(ctx, c.ID, ownerID); err != nil {
		return err
	}
	const q = `UPDATE room_categories
               SET name = ?, price_per_night_cents = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, c.Name, c.PricePerNightCents, c.ID)
	return err
}

// DeleteForOwner removes a category owned by the caller.  The delete is
// refused with ErrConflict while any of the category's rooms appears in
// a non-cancelled booking.
func (r *CategoryRepo) DeleteForOwner(ctx context.Context, id, ownerID uint64) error {
	if _, err := r.GetByIDForOwner(ctx, id, ownerID); err != nil {
		return err
	}
	const qCheck = `SELECT COUNT(*)
	                FROM booking_rooms br
	                JOIN rooms rm ON rm.id = br.room_id
	                JOIN bookings b ON b.id = br.booking_id
	                WHERE rm.category_id = ? AND b.status <> 'CANCELLED'`
	var n int
	if err := r.db.QueryRowContext(ctx, qCheck, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM room_categories WHERE id = ?`, id)
	return err
}

// LoadForCheckoutTx reads a category together with all of its discounts
// within the scope of an existing transaction.  Checkout uses this to
// price cart items against a consistent snapshot of the category while
// rooms are being allocated.  It returns ErrCategoryNotFound when the
// category no longer exists (e.g. deleted after the item was added to
// the cart).
func (r *CategoryRepo) LoadForCheckoutTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.RoomCategory, []model.Discount, error) {
	const q = `SELECT id, hotel_id, name, price_per_night_cents, created_at, updated_at
	           FROM room_categories WHERE id = ?`
	var c model.RoomCategory
	err := tx.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.HotelID, &c.Name, &c.PricePerNightCents, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrCategoryNotFound
		}
		return nil, nil, err
	}
	// Ordering by percentage descending then id makes the "best single
	// discount" choice deterministic for the pricing calculator.
	const qDisc = `SELECT id, category_id, percentage, starts_at, ends_at, created_at
	               FROM discounts
	               WHERE category_id = ?
	               ORDER BY percentage DESC, id`
	rows, err := tx.QueryContext(ctx, qDisc, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var discounts []model.Discount
	for rows.Next() {
		var d model.Discount
		if err := rows.Scan(&d.ID, &d.CategoryID, &d.Percentage, &d.StartsAt, &d.EndsAt, &d.CreatedAt); err != nil {
			return nil, nil, err
		}
		discounts = append(discounts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return &c, discounts, nil
}

// AddDiscount inserts a discount for a category after validating that
// the caller owns the parent hotel.
func (r *CategoryRepo) AddDiscount(ctx context.Context, d *model.Discount, ownerID uint64) error {
	if _, err := r.GetByIDForOwner(ctx, d.CategoryID, ownerID); err != nil {
		return err
	}
	const q = `INSERT INTO discounts (category_id, percentage, starts_at, ends_at) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, d.CategoryID, d.Percentage, d.StartsAt.UTC(), d.EndsAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// ListDiscounts returns all discounts of a category ordered by start time.
func (r *CategoryRepo) ListDiscounts(ctx context.Context, categoryID uint64) ([]model.Discount, error) {
	const q = `SELECT id, category_id, percentage, starts_at, ends_at, created_at
	           FROM discounts WHERE category_id = ? ORDER BY starts_at, id`
	rows, err := r.db.QueryContext(ctx, q, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Discount
	for rows.Next() {
		var d model.Discount
		if err := rows.Scan(&d.ID, &d.CategoryID, &d.Percentage, &d.StartsAt, &d.EndsAt, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteDiscount removes a discount after validating ownership of the
// hotel the discount's category belongs to.
func (r *CategoryRepo) DeleteDiscount(ctx context.Context, discountID, ownerID uint64) error {
	const q = `SELECT h.owner_id
	           FROM discounts d
	           JOIN room_categories c ON c.id = d.category_id
	           JOIN hotels h ON h.id = c.hotel_id
	           WHERE d.id = ?`
	var actualOwnerID uint64
	if err := r.db.QueryRowContext(ctx, q, discountID).Scan(&actualOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDiscountNotFound
		}
		return err
	}
	if actualOwnerID != ownerID {
		return ErrForbidden
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM discounts WHERE id = ?`, discountID)
	return err
}

// AvailableCategory is one row of the public availability search:
// a category in the requested city with at least one free room for
// the stay interval.
type AvailableCategory struct {
	HotelID            uint64 `json:"hotel_id"`
	HotelName          string `json:"hotel_name"`
	City               string `json:"city"`
	CategoryID         uint64 `json:"category_id"`
	CategoryName       string `json:"category_name"`
	PricePerNightCents uint32 `json:"price_per_night_cents"`
	FreeRooms          int    `json:"free_rooms"`
}

// SearchAvailable finds categories in a city with free rooms for the
// half-open stay interval, cheapest first.  The free-room count uses
// the same overlap predicate checkout allocates against, so the search
// never advertises rooms checkout would refuse.  The result is a
// snapshot: nothing is reserved until a checkout commits.
func (r *CategoryRepo) SearchAvailable(ctx context.Context, city string, checkIn, checkOut time.Time) ([]AvailableCategory, error) {
	const q = `SELECT h.id, h.name, h.city, c.id, c.name, c.price_per_night_cents,
	                  (SELECT COUNT(*) FROM rooms r
	                    WHERE r.category_id = c.id
	                      AND r.id NOT IN (` + overlapSubquery + `)) AS free_rooms
	           FROM room_categories c
	           JOIN hotels h ON h.id = c.hotel_id
	           WHERE h.city = ?
	           HAVING free_rooms > 0
	           ORDER BY c.price_per_night_cents, c.id`
	rows, err := r.db.QueryContext(ctx, q, checkOut.UTC(), checkIn.UTC(), city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AvailableCategory, 0)
	for rows.Next() {
		var row AvailableCategory
		if err := rows.Scan(&row.HotelID, &row.HotelName, &row.City,
			&row.CategoryID, &row.CategoryName, &row.PricePerNightCents, &row.FreeRooms); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
