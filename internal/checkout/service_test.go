package checkout

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/payment"
	"github.com/iliyamo/hotel-room-booking/internal/pricing"
	"github.com/iliyamo/hotel-room-booking/internal/queue"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fakeTx records transaction outcomes.
type fakeTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) Commit() error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

// fakeWorld is an in-memory stand-in for every checkout collaborator
// except the authorizer and the notifier.  Writes only "count" when the
// transaction that carried them committed, which the tests assert via
// the recorded fakeTx.
type fakeWorld struct {
	cart    *model.Cart
	cartErr error

	categories map[uint64]*model.RoomCategory
	discounts  map[uint64][]model.Discount
	pool       map[uint64][]*model.Room // free rooms per category
	countFn    func(categoryID uint64) (int, error)

	hotels map[uint64]*model.Hotel
	emails map[uint64]string

	bookings     []*model.Booking
	bookingRooms []model.BookingRoom
	payments     []*model.PaymentDetails
	cartCleared  bool

	txs       []*fakeTx
	beginErr  error
	commitErr error
	createErr error
	clearErr  error

	nextBookingID uint64
}

func (w *fakeWorld) Begin(ctx context.Context) (Tx, error) {
	if w.beginErr != nil {
		return nil, w.beginErr
	}
	tx := &fakeTx{commitErr: w.commitErr}
	w.txs = append(w.txs, tx)
	return tx, nil
}

func (w *fakeWorld) Load(ctx context.Context, userID uint64) (*model.Cart, error) {
	return w.cart, w.cartErr
}

func (w *fakeWorld) ClearTx(ctx context.Context, tx Tx, userID uint64) error {
	if w.clearErr != nil {
		return w.clearErr
	}
	w.cartCleared = true
	return nil
}

func (w *fakeWorld) CategoryTx(ctx context.Context, tx Tx, categoryID uint64) (*model.RoomCategory, []model.Discount, error) {
	c, ok := w.categories[categoryID]
	if !ok {
		return nil, nil, errors.New("category not found")
	}
	return c, w.discounts[categoryID], nil
}

func (w *fakeWorld) CountAvailableTx(ctx context.Context, tx Tx, categoryID uint64, checkIn, checkOut time.Time) (int, error) {
	if w.countFn != nil {
		return w.countFn(categoryID)
	}
	return len(w.pool[categoryID]), nil
}

func (w *fakeWorld) AllocateTx(ctx context.Context, tx Tx, categoryID uint64, checkIn, checkOut time.Time, quantity uint32, exclude []uint64) ([]*model.Room, error) {
	taken := make(map[uint64]bool, len(exclude))
	for _, id := range exclude {
		taken[id] = true
	}
	var out []*model.Room
	for _, rm := range w.pool[categoryID] {
		if taken[rm.ID] {
			continue
		}
		out = append(out, rm)
		if len(out) == int(quantity) {
			break
		}
	}
	return out, nil
}

func (w *fakeWorld) CreateBookingTx(ctx context.Context, tx Tx, b *model.Booking) error {
	if w.createErr != nil {
		return w.createErr
	}
	w.nextBookingID++
	b.ID = w.nextBookingID
	cp := *b
	w.bookings = append(w.bookings, &cp)
	return nil
}

func (w *fakeWorld) AddRoomsTx(ctx context.Context, tx Tx, rooms []model.BookingRoom) error {
	w.bookingRooms = append(w.bookingRooms, rooms...)
	return nil
}

func (w *fakeWorld) CreatePaymentTx(ctx context.Context, tx Tx, p *model.PaymentDetails) error {
	cp := *p
	w.payments = append(w.payments, &cp)
	return nil
}

func (w *fakeWorld) UserEmail(ctx context.Context, userID uint64) (string, error) {
	return w.emails[userID], nil
}

func (w *fakeWorld) Hotel(ctx context.Context, hotelID uint64) (*model.Hotel, error) {
	h, ok := w.hotels[hotelID]
	if !ok {
		return nil, errors.New("hotel not found")
	}
	return h, nil
}

type fakeAuthorizer struct {
	ref   string
	err   error
	calls int
}

func (a *fakeAuthorizer) Authorize(ctx context.Context, userID uint64, method string) (*payment.Authorization, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return &payment.Authorization{Ref: a.ref, IssuedAt: time.Now().UTC()}, nil
}

type fakeNotifier struct {
	events []queue.BookingConfirmedEvent
	err    error
}

func (n *fakeNotifier) Publish(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	n.events = append(n.events, ev)
	return n.err
}

// oneHotelWorld builds a world with one hotel, one category at $100 a
// night, three free rooms and a single-item cart for user 7.
func oneHotelWorld() *fakeWorld {
	return &fakeWorld{
		cart: &model.Cart{
			ID:     1,
			UserID: 7,
			Items: []model.CartItem{
				{ID: 1, CategoryID: 10, CheckIn: day(2026, 9, 14), CheckOut: day(2026, 9, 17), Quantity: 1},
			},
		},
		categories: map[uint64]*model.RoomCategory{
			10: {ID: 10, HotelID: 3, Name: "Standard Double", PricePerNightCents: 10000},
		},
		discounts: map[uint64][]model.Discount{},
		pool: map[uint64][]*model.Room{
			10: {
				{ID: 101, CategoryID: 10, RoomNumber: "101"},
				{ID: 102, CategoryID: 10, RoomNumber: "102"},
				{ID: 103, CategoryID: 10, RoomNumber: "103"},
			},
		},
		hotels: map[uint64]*model.Hotel{
			3: {ID: 3, Name: "Hotel Astoria", City: "Vienna"},
		},
		emails: map[uint64]string{7: "guest@example.com"},
	}
}

func newTestService(w *fakeWorld, auth *fakeAuthorizer, n *fakeNotifier) *Service {
	svc := NewService(w, w, w, w, w, auth, n)
	svc.Pricing = pricing.Calculator{Now: func() time.Time { return day(2026, 9, 1) }}
	return svc
}

func TestCheckout_Success(t *testing.T) {
	w := oneHotelWorld()
	auth := &fakeAuthorizer{ref: "pay-123"}
	notifier := &fakeNotifier{}
	svc := newTestService(w, auth, notifier)

	res := svc.Checkout(context.Background(), Request{UserID: 7, PaymentMethod: payment.MethodCard})

	require.True(t, res.OK)
	require.Len(t, res.BookingIDs, 1)
	require.Equal(t, uint32(30000), res.TotalAmountCents) // 3 nights x $100
	require.Equal(t, http.StatusCreated, res.HTTPStatus())

	require.Len(t, w.txs, 1)
	require.True(t, w.txs[0].committed)
	require.True(t, w.cartCleared)

	require.Len(t, w.bookings, 1)
	b := w.bookings[0]
	require.Equal(t, uint64(7), b.UserID)
	require.Equal(t, uint64(3), b.HotelID)
	require.Equal(t, model.BookingStatusConfirmed, b.Status)
	require.Equal(t, uint32(30000), b.TotalAmountCents)

	require.Len(t, w.bookingRooms, 1)
	require.Equal(t, b.ID, w.bookingRooms[0].BookingID)
	require.Equal(t, day(2026, 9, 14), w.bookingRooms[0].CheckIn)
	require.Equal(t, day(2026, 9, 17), w.bookingRooms[0].CheckOut)

	require.Len(t, w.payments, 1)
	p := w.payments[0]
	require.Equal(t, b.ID, p.BookingID)
	require.Equal(t, uint32(30000), p.AmountCents)
	require.Equal(t, payment.MethodCard, p.Method)
	require.Equal(t, "pay-123", p.PaymentRef)

	require.Len(t, notifier.events, 1)
	ev := notifier.events[0]
	require.Equal(t, b.ID, ev.BookingID)
	require.Equal(t, "guest@example.com", ev.UserEmail)
	require.Equal(t, "Hotel Astoria", ev.HotelName)
	require.Equal(t, "pay-123", ev.PaymentRef)
	require.Len(t, ev.Rooms, 1)
	require.Equal(t, "101", ev.Rooms[0].RoomNumber)
}

func TestCheckout_DiscountedTotal(t *testing.T) {
	w := oneHotelWorld()
	w.discounts[10] = []model.Discount{
		{Percentage: 20, StartsAt: day(2026, 8, 1), EndsAt: day(2026, 10, 1)},
	}
	svc := newTestService(w, &fakeAuthorizer{ref: "pay-1"}, &fakeNotifier{})

	res := svc.Checkout(context.Background(), Request{UserID: 7, PaymentMethod: payment.MethodWallet})

	require.True(t, res.OK)
	require.Equal(t, uint32(24000), res.TotalAmountCents)
	require.Equal(t, uint32(24000), w.payments[0].AmountCents)
}

func TestCheckout_EmptyCart(t *testing.T) {
	w := oneHotelWorld()
	w.cart = nil
	auth := &fakeAuthorizer{ref: "pay-1"}
	svc := newTestService(w, auth, &fakeNotifier{})

	res := svc.Checkout(context.Background(), Request{UserID: 7, PaymentMethod: payment.MethodCard})

	require.False(t, res.OK)
	require.Equal(t, CodeEmptyCart, res.Code)
	require.Equal(t, http.StatusBadRequest, res.HTTPStatus())
	require.Zero(t, auth.calls, "payment must not be authorized for an empty cart")
	require.Empty(t, w.txs, "no transaction should be opened")
}

func TestCheckout_InvalidPaymentMethod(t *testing.T) {
	w := oneHotelWorld()
	auth := &fakeAuthorizer{ref: "pay-1"}
	svc := newTestService(w, auth, &fakeNotifier{})

	res := svc.Checkout(context.Background(), Request{UserID: 7, PaymentMethod: "IOU"})

	require.False(t, res.OK)
	require.Equal(t, CodeValidation, res.Code)
	require.Zero(t, auth.calls)
}

func TestCheckout_PaymentDeclined(t *testing.T) {
	w := oneHotelWorld()
	auth := &fakeAuthorizer{err: &payment.DeclinedError{Reason: "Insufficient funds"}}
	svc := newTestService(w, auth, &fakeNotifier{})

	res := svc.Checkout(context.Background(), Request{UserID: 7, PaymentMethod: payment.MethodCard})

	require.False(t, res.OK)
	require.Equal(t, CodePaymentFailed, res.Code)
	require.Equal(t, "Insufficient funds", res.Message)
	require.Empty(t, w.txs, "declined payment must not open a transaction")
	require.False(t, w.cartCleared)
	require.Empty(t, w.bookings)
}

func TestCheckout_GatewayOutage(t *testing.T) {
	w := oneHotelWorld()
	auth := &fakeAuthorizer{err: errors.New("connection refused")}
	svc := newTestService(w, auth, &fakeNotifier{})

	res := svc.Checkout(context.Background(), Request{UserID: 7, PaymentMethod: payment.MethodCard})

	require.False(t, res.OK)
	require.Equal(t, CodeInternal, res.Code)
	require.Equal(t, http.StatusInternalServerError, res.HTTPStatus())
}

func TestCheckout_InsufficientInventory(t *testing.T) {
	w := oneHotelWorld()
	w.cart.Items[0].Quantity = 5 // only 3 rooms exist
	notifier := &fakeNotifier{}
	svc := newTestService(w, &fakeAuthorizer{ref: "pay-1"}, notifier)

	res := svc.Checkout(context.Background(), Request{UserID: 7, PaymentMethod: payment.MethodCard})

	require.False(t, res.OK)
	require.Equal(t, CodeInsufficientInventory, res.Code)
	require.Equal(t, http.StatusConflict, res.HTTPStatus())
	require.Len(t, w.txs, 1)
	require.True(t, w.txs[0].rolledBack)
	require.False(t, w.txs[0].committed)
	require.False(t, w.cartCleared, "a failed checkout must leave the cart untouched")
	require.Empty(t, w.bookings)
	require.Empty(t, notifier.events)
}

func TestCheckout_AllocationShortfall(t *testing.T) {
	// The count says two rooms are free but allocation only finds one,
	// as happens when a concurrent checkout wins the race.
	w := oneHotelWorld()
	w.cart.Items[0].Quantity = 2
	w.pool[10] = w.pool[10][:1]
	w.countFn = func(categoryID uint64) (int, error) { return 2, nil }
	svc := newTestService(w, &fakeAuthorizer{ref: "pay-1"}, &fakeNotifier{})

	res := svc.Checkout(context.Background(), Request{UserID: 7, PaymentMethod: payment.MethodCard})

	require.False(t, res.OK)
	require.Equal(t, CodeInsufficientInventory, res.Code)
	require.True(t, w.txs[0].rolledBack)
	require.Empty(t, w.bookings)
}

func TestCheckout_MultiHotelSplit(t *testing.T) {
	w := oneHotelWorld()
	w.categories[20] = &model.RoomCategory{ID: 20, HotelID: 5, Name: "Suite", PricePerNightCents: 20000}
	w.pool[20] = []*model.Room{{ID: 201, CategoryID: 20, RoomNumber: "501"}}
	w.hotels[5] = &model.Hotel{ID: 5, Name: "Grand Plaza", City: "Berlin"}
	w.cart.Items = append(w.cart.Items, model.CartItem{
		ID: 2, CategoryID: 20, CheckIn: day(2026, 9, 15), CheckOut: day(2026, 9, 16), Quantity: 1,
	})
	notifier := &fakeNotifier{}
	svc := newTestService(w, &fakeAuthorizer{ref: "pay-9"}, notifier)

	res := svc.Checkout(context.Background(), Request{UserID: 7, PaymentMethod: payment.MethodBankTransfer})

	require.True(t, res.OK)
	require.Len(t, res.BookingIDs, 2, "one booking per hotel")
	require.Len(t, w.bookings, 2)
	require.Equal(t, uint32(50000), res.TotalAmountCents)

	// Per-booking payments sum to the grand total and share the ref.
	var sum uint32
	for _, p := range w.payments {
		sum += p.AmountCents
		require.Equal(t, "pay-9", p.PaymentRef)
	}
	require.Equal(t, res.TotalAmountCents, sum)

	require.Len(t, notifier.events, 2)
}

func TestCheckout_SameCategoryTwiceGetsDistinctRooms(t *testing.T) {
	w := oneHotelWorld()
	// Second item for the same category and overlapping dates: its rooms
	// must not collide with the first item's allocation.
	w.cart.Items = append(w.cart.Items, model.CartItem{
		ID: 2, CategoryID: 10, CheckIn: day(2026, 9, 14), CheckOut: day(2026, 9, 16), Quantity: 2,
	})
	svc := newTestService(w, &fakeAuthorizer{ref: "pay-1"}, &fakeNotifier{})

	res := svc.Checkout(context.Background(), Request{UserID: 7, PaymentMethod: payment.MethodCard})

	require.True(t, res.OK)
	require.Len(t, w.bookingRooms, 3)
	seen := make(map[uint64]bool)
	for _, br := range w.bookingRooms {
		require.False(t, seen[br.RoomID], "room %d allocated twice", br.RoomID)
		seen[br.RoomID] = true
	}
}

func TestCheckout_NotifierFailureDoesNotFailCheckout(t *testing.T) {
	w := oneHotelWorld()
	notifier := &fakeNotifier{err: errors.New("broker down")}
	svc := newTestService(w, &fakeAuthorizer{ref: "pay-1"}, notifier)

	res := svc.Checkout(context.Background(), Request{UserID: 7, PaymentMethod: payment.MethodCard})

	require.True(t, res.OK)
	require.True(t, w.txs[0].committed)
}

func TestCheckout_NilNotifier(t *testing.T) {
	w := oneHotelWorld()
	svc := newTestService(w, &fakeAuthorizer{ref: "pay-1"}, nil)
	svc.Notifier = nil

	res := svc.Checkout(context.Background(), Request{UserID: 7, PaymentMethod: payment.MethodCard})
	require.True(t, res.OK)
}

func TestCheckout_CommitFailure(t *testing.T) {
	w := oneHotelWorld()
	w.commitErr = errors.New("deadlock")
	notifier := &fakeNotifier{}
	svc := newTestService(w, &fakeAuthorizer{ref: "pay-1"}, notifier)

	res := svc.Checkout(context.Background(), Request{UserID: 7, PaymentMethod: payment.MethodCard})

	require.False(t, res.OK)
	require.Equal(t, CodeInternal, res.Code)
	require.True(t, w.txs[0].rolledBack)
	require.Empty(t, notifier.events, "no notification without a commit")
}

func TestCheckout_OversizedLineTotalRejected(t *testing.T) {
	w := oneHotelWorld()
	// A century-long stay at $40,000/night prices past the uint32 amount
	// column. Checkout must refuse it instead of charging a wrapped total.
	w.cart.Items[0].CheckOut = day(2126, 9, 14)
	w.categories[10].PricePerNightCents = 4000000
	notifier := &fakeNotifier{}
	svc := newTestService(w, &fakeAuthorizer{ref: "pay-1"}, notifier)

	res := svc.Checkout(context.Background(), Request{UserID: 7, PaymentMethod: payment.MethodCard})

	require.False(t, res.OK)
	require.Equal(t, CodeValidation, res.Code)
	require.True(t, w.txs[0].rolledBack)
	require.Empty(t, w.bookings)
	require.Empty(t, notifier.events)
}

func TestCheckout_CartClearFailureRollsBack(t *testing.T) {
	w := oneHotelWorld()
	w.clearErr = errors.New("lock wait timeout")
	notifier := &fakeNotifier{}
	svc := newTestService(w, &fakeAuthorizer{ref: "pay-1"}, notifier)

	res := svc.Checkout(context.Background(), Request{UserID: 7, PaymentMethod: payment.MethodCard})

	require.False(t, res.OK)
	require.Equal(t, CodeInternal, res.Code)
	require.Equal(t, "could not clear cart", res.Message)
	require.True(t, w.txs[0].rolledBack)
	require.False(t, w.txs[0].committed)
	require.Empty(t, notifier.events)
}

func TestCheckout_PersistFailureRollsBack(t *testing.T) {
	w := oneHotelWorld()
	w.createErr = errors.New("insert failed")
	svc := newTestService(w, &fakeAuthorizer{ref: "pay-1"}, &fakeNotifier{})

	res := svc.Checkout(context.Background(), Request{UserID: 7, PaymentMethod: payment.MethodCard})

	require.False(t, res.OK)
	require.Equal(t, CodeInternal, res.Code)
	require.True(t, w.txs[0].rolledBack)
	require.False(t, w.cartCleared)
}

func TestCheckout_InvalidCartItemRejectedBeforePayment(t *testing.T) {
	w := oneHotelWorld()
	w.cart.Items[0].CheckOut = w.cart.Items[0].CheckIn // zero nights
	auth := &fakeAuthorizer{ref: "pay-1"}
	svc := newTestService(w, auth, &fakeNotifier{})

	res := svc.Checkout(context.Background(), Request{UserID: 7, PaymentMethod: payment.MethodCard})

	require.False(t, res.OK)
	require.Equal(t, CodeValidation, res.Code)
	require.Zero(t, auth.calls)
}

func TestResult_HTTPStatus(t *testing.T) {
	cases := map[string]int{
		CodeEmptyCart:             http.StatusBadRequest,
		CodePaymentFailed:         http.StatusBadRequest,
		CodeValidation:            http.StatusBadRequest,
		CodeInsufficientInventory: http.StatusConflict,
		CodeInternal:              http.StatusInternalServerError,
	}
	for code, want := range cases {
		require.Equal(t, want, failure(code, "x").HTTPStatus(), "code %s", code)
	}
}
