package checkout

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/pricing"
	"github.com/iliyamo/hotel-room-booking/internal/queue"
)

// InsufficientInventoryError reports that a category could not supply
// the requested number of rooms during allocation.  It exists as a
// distinct type because the count pre-check can pass and allocation
// still come up short under concurrency.
type InsufficientInventoryError struct {
	CategoryID uint64
	Requested  uint32
	Allocated  int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("category %d: requested %d rooms, allocated %d", e.CategoryID, e.Requested, e.Allocated)
}

// bookingDraft is the in-memory shape of one booking before it is
// persisted: one draft per hotel represented in the cart.
type bookingDraft struct {
	hotelID    uint64
	bookingID  uint64 // set after persistence
	checkIn    time.Time
	checkOut   time.Time
	totalCents uint32
	rooms      []model.BookingRoom
	eventRooms []queue.BookedRoom
}

// buildBookings turns cart items into booking drafts grouped by hotel.
// For each item it loads the category within the transaction snapshot,
// allocates and locks concrete rooms, prices the line with the best
// currently valid discount, and folds the result into the hotel's
// draft.  Rooms claimed by earlier items are excluded from later
// allocations because their booking_rooms rows do not exist yet.  The
// returned drafts are ordered by hotel id so persistence is
// deterministic.
func buildBookings(ctx context.Context, tx Tx, inv Inventory, calc pricing.Calculator, items []model.CartItem) ([]*bookingDraft, error) {
	type categoryInfo struct {
		category  *model.RoomCategory
		discounts []model.Discount
	}
	categories := make(map[uint64]categoryInfo)
	drafts := make(map[uint64]*bookingDraft)
	var claimed []uint64

	for _, item := range items {
		info, ok := categories[item.CategoryID]
		if !ok {
			category, discounts, err := inv.CategoryTx(ctx, tx, item.CategoryID)
			if err != nil {
				return nil, fmt.Errorf("load category %d: %w", item.CategoryID, err)
			}
			info = categoryInfo{category: category, discounts: discounts}
			categories[item.CategoryID] = info
		}

		lineTotal, err := calc.LineTotal(item, info.category, info.discounts)
		if err != nil {
			return nil, err
		}

		rooms, err := inv.AllocateTx(ctx, tx, item.CategoryID, item.CheckIn, item.CheckOut, item.Quantity, claimed)
		if err != nil {
			return nil, fmt.Errorf("allocate rooms for category %d: %w", item.CategoryID, err)
		}
		if len(rooms) < int(item.Quantity) {
			return nil, &InsufficientInventoryError{
				CategoryID: item.CategoryID,
				Requested:  item.Quantity,
				Allocated:  len(rooms),
			}
		}

		draft, ok := drafts[info.category.HotelID]
		if !ok {
			draft = &bookingDraft{
				hotelID:  info.category.HotelID,
				checkIn:  item.CheckIn,
				checkOut: item.CheckOut,
			}
			drafts[info.category.HotelID] = draft
		}
		if item.CheckIn.Before(draft.checkIn) {
			draft.checkIn = item.CheckIn
		}
		if item.CheckOut.After(draft.checkOut) {
			draft.checkOut = item.CheckOut
		}
		if uint64(draft.totalCents)+uint64(lineTotal) > math.MaxUint32 {
			return nil, fmt.Errorf("hotel %d: %w", info.category.HotelID, pricing.ErrAmountTooLarge)
		}
		draft.totalCents += lineTotal

		for _, rm := range rooms {
			claimed = append(claimed, rm.ID)
			draft.rooms = append(draft.rooms, model.BookingRoom{
				RoomID:   rm.ID,
				CheckIn:  item.CheckIn,
				CheckOut: item.CheckOut,
			})
			draft.eventRooms = append(draft.eventRooms, queue.BookedRoom{
				RoomNumber: rm.RoomNumber,
				Category:   info.category.Name,
				CheckIn:    item.CheckIn.Format("2006-01-02"),
				CheckOut:   item.CheckOut.Format("2006-01-02"),
			})
		}
	}

	out := make([]*bookingDraft, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].hotelID < out[j].hotelID })
	return out, nil
}
