package model

import "time"

// Cart is the per-user staging area of desired room stays.  A user has
// at most one cart; it is created on the first add-to-cart and cleared
// when a checkout commits.  A cart with zero items must never reach
// checkout.  Failed checkout attempts leave the cart untouched.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owning user (unique).
//  Items     – cart items loaded alongside the cart.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Cart struct {
	ID        uint64     `json:"id"`         // carts.id
	UserID    uint64     `json:"user_id"`    // carts.user_id
	Items     []CartItem `json:"items"`      // cart_items rows belonging to this cart
	CreatedAt time.Time  `json:"created_at"` // carts.created_at
	UpdatedAt time.Time  `json:"updated_at"` // carts.updated_at
}

// CartItem requests Quantity rooms of one category for a stay.  The
// stay interval is half-open: a checkout on day X does not conflict
// with a check-in on day X.  CheckOut must be strictly after CheckIn
// and Quantity must be at least 1.
//
// Fields:
//  ID         – primary key identifier.
//  CartID     – cart to which this item belongs.
//  CategoryID – requested room category (not a specific room).
//  CheckIn    – first night of the stay (date, UTC midnight).
//  CheckOut   – morning of departure (date, UTC midnight).
//  Quantity   – number of rooms of the category requested.
//  CreatedAt  – creation timestamp.
type CartItem struct {
	ID         uint64    `json:"id"`          // cart_items.id
	CartID     uint64    `json:"cart_id"`     // cart_items.cart_id
	CategoryID uint64    `json:"category_id"` // cart_items.category_id
	CheckIn    time.Time `json:"check_in"`    // cart_items.check_in
	CheckOut   time.Time `json:"check_out"`   // cart_items.check_out
	Quantity   uint32    `json:"quantity"`    // cart_items.quantity
	CreatedAt  time.Time `json:"created_at"`  // cart_items.created_at
}
