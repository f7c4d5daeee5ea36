package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/pricing"
)

func fixedCalc() pricing.Calculator {
	return pricing.Calculator{Now: func() time.Time { return day(2026, 9, 1) }}
}

func TestBuildBookings_StayWindowSpansItems(t *testing.T) {
	w := oneHotelWorld()
	w.categories[11] = &model.RoomCategory{ID: 11, HotelID: 3, Name: "Suite", PricePerNightCents: 30000}
	w.pool[11] = []*model.Room{{ID: 111, CategoryID: 11, RoomNumber: "401"}}
	items := []model.CartItem{
		{CategoryID: 10, CheckIn: day(2026, 9, 14), CheckOut: day(2026, 9, 17), Quantity: 1},
		{CategoryID: 11, CheckIn: day(2026, 9, 12), CheckOut: day(2026, 9, 15), Quantity: 1},
	}

	drafts, err := buildBookings(context.Background(), &fakeTx{}, w, fixedCalc(), items)
	require.NoError(t, err)
	require.Len(t, drafts, 1, "same hotel folds into one booking")

	d := drafts[0]
	require.Equal(t, uint64(3), d.hotelID)
	// The booking window is the envelope of its items' stays.
	require.Equal(t, day(2026, 9, 12), d.checkIn)
	require.Equal(t, day(2026, 9, 17), d.checkOut)
	// Each room keeps its own item's interval.
	require.Len(t, d.rooms, 2)
	require.Equal(t, day(2026, 9, 14), d.rooms[0].CheckIn)
	require.Equal(t, day(2026, 9, 12), d.rooms[1].CheckIn)
	// 3 nights x $100 + 3 nights x $300
	require.Equal(t, uint32(120000), d.totalCents)
}

func TestBuildBookings_DraftsOrderedByHotel(t *testing.T) {
	w := oneHotelWorld()
	w.categories[20] = &model.RoomCategory{ID: 20, HotelID: 1, Name: "Single", PricePerNightCents: 5000}
	w.pool[20] = []*model.Room{{ID: 201, CategoryID: 20, RoomNumber: "1"}}
	items := []model.CartItem{
		{CategoryID: 10, CheckIn: day(2026, 9, 14), CheckOut: day(2026, 9, 15), Quantity: 1}, // hotel 3
		{CategoryID: 20, CheckIn: day(2026, 9, 14), CheckOut: day(2026, 9, 15), Quantity: 1}, // hotel 1
	}

	drafts, err := buildBookings(context.Background(), &fakeTx{}, w, fixedCalc(), items)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	require.Equal(t, uint64(1), drafts[0].hotelID)
	require.Equal(t, uint64(3), drafts[1].hotelID)
}

func TestBuildBookings_ShortAllocationReportsCategory(t *testing.T) {
	w := oneHotelWorld()
	items := []model.CartItem{
		{CategoryID: 10, CheckIn: day(2026, 9, 14), CheckOut: day(2026, 9, 15), Quantity: 4},
	}

	_, err := buildBookings(context.Background(), &fakeTx{}, w, fixedCalc(), items)
	var short *InsufficientInventoryError
	require.ErrorAs(t, err, &short)
	require.Equal(t, uint64(10), short.CategoryID)
	require.Equal(t, uint32(4), short.Requested)
	require.Equal(t, 3, short.Allocated)
}

func TestBuildBookings_EventRoomsCarryCategoryName(t *testing.T) {
	w := oneHotelWorld()
	items := []model.CartItem{
		{CategoryID: 10, CheckIn: day(2026, 9, 14), CheckOut: day(2026, 9, 16), Quantity: 2},
	}

	drafts, err := buildBookings(context.Background(), &fakeTx{}, w, fixedCalc(), items)
	require.NoError(t, err)
	require.Len(t, drafts[0].eventRooms, 2)
	for _, er := range drafts[0].eventRooms {
		require.Equal(t, "Standard Double", er.Category)
		require.Equal(t, "2026-09-14", er.CheckIn)
		require.Equal(t, "2026-09-16", er.CheckOut)
	}
}
