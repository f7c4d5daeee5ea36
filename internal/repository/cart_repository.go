package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// ErrCartItemNotFound is returned when a cart item lookup fails.
var ErrCartItemNotFound = errors.New("cart item not found")

// CartRepo provides data access to carts and cart items.  Every user
// has at most one cart; the row is created lazily on the first
// add-to-cart.  Clearing removes all items but keeps the cart row so
// repeated checkouts do not churn primary keys.  Stay dates are stored
// as DATE columns and handled as UTC midnights.
type CartRepo struct {
	db *sql.DB
}

// NewCartRepo returns a new CartRepo bound to the given database.
func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{db: db} }

// GetWithItems loads the user's cart together with all of its items.
// It returns (nil, nil) when the user has no cart yet, so callers can
// treat "no cart" and "empty cart" uniformly.
func (r *CartRepo) GetWithItems(ctx context.Context, userID uint64) (*model.Cart, error) {
	const q = `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = ?`
	var cart model.Cart
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	const qItems = `SELECT id, cart_id, category_id, check_in, check_out, quantity, created_at
	                FROM cart_items WHERE cart_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, qItems, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ID, &it.CartID, &it.CategoryID, &it.CheckIn, &it.CheckOut, &it.Quantity, &it.CreatedAt); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem appends an item to the user's cart, creating the cart row
// when the user does not have one yet.  The item's ID and CartID are
// populated on success.  Validation of dates and quantity happens in
// the handler; the repository only persists.
func (r *CartRepo) AddItem(ctx context.Context, userID uint64, item *model.CartItem) error {
	cartID, err := r.ensureCart(ctx, userID)
	if err != nil {
		return err
	}
	const q = `INSERT INTO cart_items (cart_id, category_id, check_in, check_out, quantity) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, cartID, item.CategoryID,
		item.CheckIn.UTC().Format("2006-01-02"), item.CheckOut.UTC().Format("2006-01-02"), item.Quantity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = uint64(id)
	item.CartID = cartID
	return nil
}

// ensureCart returns the id of the user's cart, inserting the row when
// missing.  The INSERT can race with another request of the same user;
// the unique key on user_id turns the loser into a duplicate-key error
// which is resolved by re-reading.
func (r *CartRepo) ensureCart(ctx context.Context, userID uint64) (uint64, error) {
	const qSel = `SELECT id FROM carts WHERE user_id = ?`
	var id uint64
	err := r.db.QueryRowContext(ctx, qSel, userID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO carts (user_id) VALUES (?)`, userID)
	if err != nil {
		// Lost the race; the cart exists now.
		if err2 := r.db.QueryRowContext(ctx, qSel, userID).Scan(&id); err2 == nil {
			return id, nil
		}
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(newID), nil
}

// RemoveItem deletes a single item from the user's cart.  It returns
// ErrCartItemNotFound when the item does not exist or belongs to a
// different user's cart.
func (r *CartRepo) RemoveItem(ctx context.Context, userID, itemID uint64) error {
	const q = `DELETE ci FROM cart_items ci
	           JOIN carts c ON c.id = ci.cart_id
	           WHERE ci.id = ? AND c.user_id = ?`
	res, err := r.db.ExecContext(ctx, q, itemID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// Clear removes all items from the user's cart outside of any
// transaction.  Used by the explicit DELETE /v1/cart endpoint.
func (r *CartRepo) Clear(ctx context.Context, userID uint64) error {
	const q = `DELETE ci FROM cart_items ci
	           JOIN carts c ON c.id = ci.cart_id
	           WHERE c.user_id = ?`
	_, err := r.db.ExecContext(ctx, q, userID)
	return err
}

// ClearTx removes all items from the user's cart within the provided
// transaction.  Checkout calls this in the same atomic unit that
// persists bookings, so a rollback restores the cart untouched.
func (r *CartRepo) ClearTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	const q = `DELETE ci FROM cart_items ci
	           JOIN carts c ON c.id = ci.cart_id
	           WHERE c.user_id = ?`
	_, err := tx.ExecContext(ctx, q, userID)
	return err
}
