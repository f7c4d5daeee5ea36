package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/payment"
	"github.com/iliyamo/hotel-room-booking/internal/pricing"
	"github.com/iliyamo/hotel-room-booking/internal/queue"
)

// Tx is the transaction handle the orchestrator drives.  Production
// wraps *sql.Tx; tests substitute an in-memory fake.
type Tx interface {
	Commit() error
	Rollback() error
}

// UnitOfWork opens the checkout transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) (Tx, error)
}

// CartStore reads and clears the user's cart.  Load returns (nil, nil)
// when the user has no cart yet.
type CartStore interface {
	Load(ctx context.Context, userID uint64) (*model.Cart, error)
	ClearTx(ctx context.Context, tx Tx, userID uint64) error
}

// Inventory reads categories and allocates rooms inside the checkout
// transaction.  AllocateTx may return fewer rooms than requested; the
// caller must treat a short allocation as insufficient inventory.
type Inventory interface {
	CategoryTx(ctx context.Context, tx Tx, categoryID uint64) (*model.RoomCategory, []model.Discount, error)
	CountAvailableTx(ctx context.Context, tx Tx, categoryID uint64, checkIn, checkOut time.Time) (int, error)
	AllocateTx(ctx context.Context, tx Tx, categoryID uint64, checkIn, checkOut time.Time, quantity uint32, exclude []uint64) ([]*model.Room, error)
}

// BookingWriter persists bookings, their rooms and payment records
// inside the checkout transaction.
type BookingWriter interface {
	CreateBookingTx(ctx context.Context, tx Tx, b *model.Booking) error
	AddRoomsTx(ctx context.Context, tx Tx, rooms []model.BookingRoom) error
	CreatePaymentTx(ctx context.Context, tx Tx, p *model.PaymentDetails) error
}

// Directory resolves reference data needed to build confirmation
// events after the transaction has committed.
type Directory interface {
	UserEmail(ctx context.Context, userID uint64) (string, error)
	Hotel(ctx context.Context, hotelID uint64) (*model.Hotel, error)
}

// Notifier publishes one confirmation event per created booking.
// Publish failures must never affect the checkout outcome.
type Notifier interface {
	Publish(ctx context.Context, event queue.BookingConfirmedEvent) error
}

// Service runs the checkout state machine.  All collaborators are
// required except Notifier, which may be nil when the broker is not
// configured.
type Service struct {
	UoW        UnitOfWork
	Carts      CartStore
	Inventory  Inventory
	Bookings   BookingWriter
	Directory  Directory
	Authorizer payment.Authorizer
	Notifier   Notifier
	Pricing    pricing.Calculator
}

// NewService wires a checkout Service from its collaborators.
func NewService(uow UnitOfWork, carts CartStore, inv Inventory, bookings BookingWriter, dir Directory, auth payment.Authorizer, notifier Notifier) *Service {
	return &Service{
		UoW:        uow,
		Carts:      carts,
		Inventory:  inv,
		Bookings:   bookings,
		Directory:  dir,
		Authorizer: auth,
		Notifier:   notifier,
	}
}

// Checkout converts the user's cart into bookings.  The sequence is
// strict: validate the request, load the cart, authorize payment, and
// only then open the transaction that re-checks availability, allocates
// rooms, persists bookings and payments and clears the cart.  Either
// everything inside the transaction commits or none of it does; a
// failed checkout leaves the cart untouched.  Notifications are
// dispatched after commit and never change the result.
func (s *Service) Checkout(ctx context.Context, req Request) Result {
	if req.UserID == 0 {
		return failure(CodeValidation, "user id is required")
	}
	if !payment.ValidMethod(req.PaymentMethod) {
		return failure(CodeValidation, "unsupported payment method: "+req.PaymentMethod)
	}

	cart, err := s.Carts.Load(ctx, req.UserID)
	if err != nil {
		log.Printf("checkout: load cart for user %d: %v", req.UserID, err)
		return failure(CodeInternal, "could not load cart")
	}
	if cart == nil || len(cart.Items) == 0 {
		return failure(CodeEmptyCart, "cart is empty")
	}
	for _, item := range cart.Items {
		if pricing.Nights(item.CheckIn, item.CheckOut) <= 0 {
			return failure(CodeValidation, pricing.ErrInvalidStay.Error())
		}
		if item.Quantity < 1 {
			return failure(CodeValidation, pricing.ErrInvalidQuantity.Error())
		}
	}

	// Payment is authorized before the transaction opens so room locks
	// are never held across a network call to the gateway.
	auth, err := s.Authorizer.Authorize(ctx, req.UserID, req.PaymentMethod)
	if err != nil {
		var declined *payment.DeclinedError
		if errors.As(err, &declined) {
			return failure(CodePaymentFailed, declined.Reason)
		}
		log.Printf("checkout: authorize payment for user %d: %v", req.UserID, err)
		return failure(CodeInternal, "payment authorization unavailable")
	}

	tx, err := s.UoW.Begin(ctx)
	if err != nil {
		log.Printf("checkout: begin transaction: %v", err)
		return failure(CodeInternal, "could not start checkout")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Re-check every item against live inventory before allocating.
	// The soft check at add-to-cart time guarantees nothing.
	for _, item := range cart.Items {
		free, err := s.Inventory.CountAvailableTx(ctx, tx, item.CategoryID, item.CheckIn, item.CheckOut)
		if err != nil {
			log.Printf("checkout: count availability for category %d: %v", item.CategoryID, err)
			return failure(CodeInternal, "could not verify availability")
		}
		if free < int(item.Quantity) {
			return s.insufficient(item.CategoryID, auth.Ref)
		}
	}

	drafts, err := buildBookings(ctx, tx, s.Inventory, s.Pricing, cart.Items)
	if err != nil {
		var short *InsufficientInventoryError
		if errors.As(err, &short) {
			return s.insufficient(short.CategoryID, auth.Ref)
		}
		if errors.Is(err, pricing.ErrInvalidStay) || errors.Is(err, pricing.ErrInvalidQuantity) || errors.Is(err, pricing.ErrAmountTooLarge) {
			return failure(CodeValidation, err.Error())
		}
		log.Printf("checkout: build bookings for user %d: %v", req.UserID, err)
		return failure(CodeInternal, "could not assemble bookings")
	}

	now := time.Now().UTC()
	var bookingIDs []uint64
	var grandTotal uint32
	for _, d := range drafts {
		booking := &model.Booking{
			UserID:           req.UserID,
			HotelID:          d.hotelID,
			CheckIn:          d.checkIn,
			CheckOut:         d.checkOut,
			Status:           model.BookingStatusConfirmed,
			TotalAmountCents: d.totalCents,
		}
		if err := s.Bookings.CreateBookingTx(ctx, tx, booking); err != nil {
			log.Printf("checkout: create booking for hotel %d: %v", d.hotelID, err)
			return failure(CodeInternal, "could not persist booking")
		}
		for i := range d.rooms {
			d.rooms[i].BookingID = booking.ID
		}
		if err := s.Bookings.AddRoomsTx(ctx, tx, d.rooms); err != nil {
			log.Printf("checkout: attach rooms to booking %d: %v", booking.ID, err)
			return failure(CodeInternal, "could not persist booking")
		}
		pay := &model.PaymentDetails{
			BookingID:   booking.ID,
			AmountCents: d.totalCents,
			Method:      req.PaymentMethod,
			PaymentRef:  auth.Ref,
			PaidAt:      now,
		}
		if err := s.Bookings.CreatePaymentTx(ctx, tx, pay); err != nil {
			log.Printf("checkout: record payment for booking %d: %v", booking.ID, err)
			return failure(CodeInternal, "could not persist booking")
		}
		d.bookingID = booking.ID
		bookingIDs = append(bookingIDs, booking.ID)
		grandTotal += d.totalCents
	}

	if err := s.Carts.ClearTx(ctx, tx, req.UserID); err != nil {
		log.Printf("checkout: clear cart for user %d: %v", req.UserID, err)
		return failure(CodeInternal, "could not clear cart")
	}

	if err := tx.Commit(); err != nil {
		log.Printf("checkout: commit for user %d: %v", req.UserID, err)
		return failure(CodeInternal, "could not commit checkout")
	}
	committed = true

	s.notify(ctx, req, auth.Ref, now, drafts)

	return success(bookingIDs, grandTotal)
}

// insufficient maps an inventory shortfall to its result.  The
// payment authorization is deliberately not voided here: gateway holds
// expire on their own, and a void call from inside a failing checkout
// would add a second network dependency to the unhappy path.  The ref
// is logged so support can reconcile.
func (s *Service) insufficient(categoryID uint64, authRef string) Result {
	log.Printf("checkout: insufficient inventory for category %d; authorization %s left to expire", categoryID, authRef)
	return failure(CodeInsufficientInventory, "not enough rooms available for the requested dates")
}

// notify publishes one confirmation event per booking.  It runs on a
// context detached from the request so an already-answered client
// cannot cancel the publish, and it only logs failures: the bookings
// are committed, notifications are best effort.
func (s *Service) notify(ctx context.Context, req Request, paymentRef string, confirmedAt time.Time, drafts []*bookingDraft) {
	if s.Notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	email, err := s.Directory.UserEmail(ctx, req.UserID)
	if err != nil {
		log.Printf("checkout: resolve email for user %d: %v", req.UserID, err)
	}
	for _, d := range drafts {
		hotel, err := s.Directory.Hotel(ctx, d.hotelID)
		if err != nil {
			log.Printf("checkout: resolve hotel %d for booking %d: %v", d.hotelID, d.bookingID, err)
			hotel = &model.Hotel{ID: d.hotelID}
		}
		event := queue.BookingConfirmedEvent{
			BookingID:        d.bookingID,
			UserID:           req.UserID,
			UserEmail:        email,
			HotelID:          hotel.ID,
			HotelName:        hotel.Name,
			City:             hotel.City,
			CheckIn:          d.checkIn.Format("2006-01-02"),
			CheckOut:         d.checkOut.Format("2006-01-02"),
			Rooms:            d.eventRooms,
			TotalAmountCents: d.totalCents,
			PaymentMethod:    req.PaymentMethod,
			PaymentRef:       paymentRef,
			ConfirmedAt:      confirmedAt.Format(time.RFC3339),
		}
		if err := s.Notifier.Publish(ctx, event); err != nil {
			log.Printf("checkout: publish confirmation for booking %d: %v", d.bookingID, err)
		}
	}
}
