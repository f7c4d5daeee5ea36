// Package pricing computes line totals for cart items.  Prices are
// integer cents throughout; nights are whole days on a half-open stay
// interval.  Discount applicability is evaluated against the checkout
// time, not the stay dates, and discounts never stack: when several
// windows cover the checkout instant, the single highest percentage
// wins.
package pricing

import (
	"errors"
	"math"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// ErrInvalidStay is returned when a stay interval yields zero or
// negative nights.  Handlers reject such items at add-to-cart time, so
// seeing this during checkout means the cart was tampered with or
// validation was bypassed.
var ErrInvalidStay = errors.New("check-out must be after check-in")

// ErrInvalidQuantity is returned when an item requests zero rooms.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// ErrAmountTooLarge is returned when a line total does not fit in a
// uint32 amount column.  Totals are computed in uint64 so the check is
// exact rather than a wrap-around.
var ErrAmountTooLarge = errors.New("amount exceeds the representable maximum")

// Calculator prices cart items against their room category.  The zero
// value is ready to use; Now is overridable for tests and defaults to
// time.Now.
type Calculator struct {
	Now func() time.Time
}

// Nights returns the number of whole nights in the half-open interval
// [checkIn, checkOut).  Timestamps are truncated to UTC dates first so
// a stay expressed with stray clock components still counts calendar
// nights.
func Nights(checkIn, checkOut time.Time) int {
	in := truncateToDay(checkIn)
	out := truncateToDay(checkOut)
	return int(out.Sub(in).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LineTotal computes the discounted total in cents for one cart item:
// nights × price-per-night × quantity, reduced by the best currently
// valid discount of the category.  It validates the stay interval and
// quantity and returns ErrInvalidStay / ErrInvalidQuantity on bad
// input, and ErrAmountTooLarge when the total overflows uint32 cents.
func (c Calculator) LineTotal(item model.CartItem, category *model.RoomCategory, discounts []model.Discount) (uint32, error) {
	nights := Nights(item.CheckIn, item.CheckOut)
	if nights <= 0 {
		return 0, ErrInvalidStay
	}
	if item.Quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	perNight := uint64(category.PricePerNightCents) * uint64(item.Quantity)
	if perNight > math.MaxUint64/100/uint64(nights) {
		return 0, ErrAmountTooLarge
	}
	pct := c.bestDiscount(discounts)
	total := perNight * uint64(nights) * uint64(100-pct) / 100
	if total > math.MaxUint32 {
		return 0, ErrAmountTooLarge
	}
	return uint32(total), nil
}

// bestDiscount picks the highest percentage among discounts whose
// window covers the current time.  Ties resolve to the earliest id
// because the repository orders by (percentage DESC, id) and the scan
// below only replaces on strictly greater values.
func (c Calculator) bestDiscount(discounts []model.Discount) uint8 {
	now := time.Now().UTC()
	if c.Now != nil {
		now = c.Now().UTC()
	}
	var best uint8
	for _, d := range discounts {
		if d.Percentage > 100 {
			continue
		}
		if !now.Before(d.StartsAt) && !now.After(d.EndsAt) && d.Percentage > best {
			best = d.Percentage
		}
	}
	return best
}
