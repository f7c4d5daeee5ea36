package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNights(t *testing.T) {
	require.Equal(t, 3, Nights(day(2026, 9, 14), day(2026, 9, 17)))
	require.Equal(t, 1, Nights(day(2026, 9, 14), day(2026, 9, 15)))
	require.Equal(t, 0, Nights(day(2026, 9, 14), day(2026, 9, 14)))
	require.Equal(t, -2, Nights(day(2026, 9, 16), day(2026, 9, 14)))
}

func TestNights_IgnoresClockComponents(t *testing.T) {
	in := time.Date(2026, 9, 14, 23, 30, 0, 0, time.UTC)
	out := time.Date(2026, 9, 17, 1, 15, 0, 0, time.UTC)
	require.Equal(t, 3, Nights(in, out))
}

func TestLineTotal_NoDiscount(t *testing.T) {
	calc := Calculator{}
	item := model.CartItem{CheckIn: day(2026, 9, 14), CheckOut: day(2026, 9, 17), Quantity: 2}
	category := &model.RoomCategory{PricePerNightCents: 10000}

	total, err := calc.LineTotal(item, category, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(60000), total) // 3 nights x 2 rooms x $100
}

func TestLineTotal_DiscountApplied(t *testing.T) {
	now := day(2026, 9, 1)
	calc := Calculator{Now: func() time.Time { return now }}
	item := model.CartItem{CheckIn: day(2026, 9, 14), CheckOut: day(2026, 9, 17), Quantity: 1}
	category := &model.RoomCategory{PricePerNightCents: 10000}
	discounts := []model.Discount{
		{Percentage: 20, StartsAt: day(2026, 8, 1), EndsAt: day(2026, 10, 1)},
	}

	total, err := calc.LineTotal(item, category, discounts)
	require.NoError(t, err)
	require.Equal(t, uint32(24000), total) // 30000 minus 20%
}

func TestLineTotal_BestSingleDiscountWins(t *testing.T) {
	now := day(2026, 9, 1)
	calc := Calculator{Now: func() time.Time { return now }}
	item := model.CartItem{CheckIn: day(2026, 9, 14), CheckOut: day(2026, 9, 15), Quantity: 1}
	category := &model.RoomCategory{PricePerNightCents: 10000}
	// Two overlapping windows: the 30% one wins, they never stack.
	discounts := []model.Discount{
		{Percentage: 30, StartsAt: day(2026, 8, 1), EndsAt: day(2026, 10, 1)},
		{Percentage: 10, StartsAt: day(2026, 8, 1), EndsAt: day(2026, 10, 1)},
	}

	total, err := calc.LineTotal(item, category, discounts)
	require.NoError(t, err)
	require.Equal(t, uint32(7000), total)
}

func TestLineTotal_DiscountWindowEdges(t *testing.T) {
	calc := Calculator{Now: func() time.Time { return day(2026, 10, 1) }}
	item := model.CartItem{CheckIn: day(2026, 10, 10), CheckOut: day(2026, 10, 11), Quantity: 1}
	category := &model.RoomCategory{PricePerNightCents: 10000}
	discounts := []model.Discount{
		{Percentage: 50, StartsAt: day(2026, 9, 1), EndsAt: day(2026, 10, 1)},
	}

	// The window is inclusive on both ends: now == EndsAt still applies.
	total, err := calc.LineTotal(item, category, discounts)
	require.NoError(t, err)
	require.Equal(t, uint32(5000), total)

	// One second past the end the discount is gone.
	calc.Now = func() time.Time { return day(2026, 10, 1).Add(time.Second) }
	total, err = calc.LineTotal(item, category, discounts)
	require.NoError(t, err)
	require.Equal(t, uint32(10000), total)
}

func TestLineTotal_ExpiredAndFutureDiscountsIgnored(t *testing.T) {
	calc := Calculator{Now: func() time.Time { return day(2026, 9, 1) }}
	item := model.CartItem{CheckIn: day(2026, 9, 14), CheckOut: day(2026, 9, 15), Quantity: 1}
	category := &model.RoomCategory{PricePerNightCents: 10000}
	discounts := []model.Discount{
		{Percentage: 40, StartsAt: day(2026, 1, 1), EndsAt: day(2026, 2, 1)},   // expired
		{Percentage: 60, StartsAt: day(2026, 12, 1), EndsAt: day(2026, 12, 31)}, // not yet
	}

	total, err := calc.LineTotal(item, category, discounts)
	require.NoError(t, err)
	require.Equal(t, uint32(10000), total)
}

func TestLineTotal_InvalidInput(t *testing.T) {
	calc := Calculator{}
	category := &model.RoomCategory{PricePerNightCents: 10000}

	_, err := calc.LineTotal(model.CartItem{CheckIn: day(2026, 9, 14), CheckOut: day(2026, 9, 14), Quantity: 1}, category, nil)
	require.ErrorIs(t, err, ErrInvalidStay)

	_, err = calc.LineTotal(model.CartItem{CheckIn: day(2026, 9, 16), CheckOut: day(2026, 9, 14), Quantity: 1}, category, nil)
	require.ErrorIs(t, err, ErrInvalidStay)

	_, err = calc.LineTotal(model.CartItem{CheckIn: day(2026, 9, 14), CheckOut: day(2026, 9, 15), Quantity: 0}, category, nil)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestLineTotal_RejectsTotalsAboveUint32(t *testing.T) {
	calc := Calculator{}

	// 11 nights x 100 rooms x $40,000/night = 4,400,000,000 cents, just
	// past the uint32 ceiling. Must error, never wrap to a smaller charge.
	item := model.CartItem{CheckIn: day(2026, 9, 1), CheckOut: day(2026, 9, 12), Quantity: 100}
	category := &model.RoomCategory{PricePerNightCents: 4000000}
	_, err := calc.LineTotal(item, category, nil)
	require.ErrorIs(t, err, ErrAmountTooLarge)

	// The exact ceiling still fits.
	item = model.CartItem{CheckIn: day(2026, 9, 1), CheckOut: day(2026, 9, 2), Quantity: 1}
	category = &model.RoomCategory{PricePerNightCents: math.MaxUint32}
	total, err := calc.LineTotal(item, category, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(math.MaxUint32), total)

	// A decade-long stay at max price overflows even the 64-bit
	// intermediate product; the guard must catch it before it wraps.
	item = model.CartItem{CheckIn: day(2026, 9, 1), CheckOut: day(2036, 9, 1), Quantity: math.MaxUint32}
	_, err = calc.LineTotal(item, category, nil)
	require.ErrorIs(t, err, ErrAmountTooLarge)
}

func TestLineTotal_FullDiscountIsFree(t *testing.T) {
	calc := Calculator{Now: func() time.Time { return day(2026, 9, 1) }}
	item := model.CartItem{CheckIn: day(2026, 9, 14), CheckOut: day(2026, 9, 15), Quantity: 1}
	category := &model.RoomCategory{PricePerNightCents: 10000}
	discounts := []model.Discount{
		{Percentage: 100, StartsAt: day(2026, 8, 1), EndsAt: day(2026, 10, 1)},
	}

	total, err := calc.LineTotal(item, category, discounts)
	require.NoError(t, err)
	require.Equal(t, uint32(0), total)
}
