package checkout

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
)

// sqlTx adapts *sql.Tx to the Tx interface.  Commit and Rollback come
// from the embedded transaction.
type sqlTx struct {
	*sql.Tx
}

// unwrap recovers the concrete *sql.Tx from a Tx produced by
// SQLUnitOfWork.  SQL adapters and fakes never mix, so a foreign Tx
// here is a wiring bug worth failing loudly on.
func unwrap(tx Tx) *sql.Tx {
	st, ok := tx.(sqlTx)
	if !ok {
		panic(fmt.Sprintf("checkout: expected sql transaction, got %T", tx))
	}
	return st.Tx
}

// ParseIsolation maps a configuration string to the transaction
// isolation level checkout runs under.  Unknown values fall back to
// serializable, the strictest option, because a typo in deployment
// config must never silently weaken the availability guarantee.
func ParseIsolation(s string) sql.IsolationLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read_committed":
		return sql.LevelReadCommitted
	case "repeatable_read":
		return sql.LevelRepeatableRead
	case "serializable", "":
		return sql.LevelSerializable
	default:
		return sql.LevelSerializable
	}
}

// SQLUnitOfWork opens checkout transactions on the primary database at
// the configured isolation level.
type SQLUnitOfWork struct {
	db        *sql.DB
	isolation sql.IsolationLevel
}

// NewSQLUnitOfWork returns a unit of work bound to db.
func NewSQLUnitOfWork(db *sql.DB, isolation sql.IsolationLevel) *SQLUnitOfWork {
	return &SQLUnitOfWork{db: db, isolation: isolation}
}

// Begin implements UnitOfWork.
func (u *SQLUnitOfWork) Begin(ctx context.Context) (Tx, error) {
	tx, err := u.db.BeginTx(ctx, &sql.TxOptions{Isolation: u.isolation})
	if err != nil {
		return nil, err
	}
	return sqlTx{tx}, nil
}

// SQLStore implements CartStore, Inventory, BookingWriter and
// Directory on top of the repositories.  It is a thin translation
// layer: all SQL lives in the repository package.
type SQLStore struct {
	Carts      *repository.CartRepo
	Categories *repository.CategoryRepo
	Rooms      *repository.RoomRepo
	Bookings   *repository.BookingRepo
	Hotels     *repository.HotelRepo
	Users      *repository.UserRepo
}

// NewSQLStore wires a SQLStore from the repositories.
func NewSQLStore(carts *repository.CartRepo, categories *repository.CategoryRepo, rooms *repository.RoomRepo, bookings *repository.BookingRepo, hotels *repository.HotelRepo, users *repository.UserRepo) *SQLStore {
	return &SQLStore{
		Carts:      carts,
		Categories: categories,
		Rooms:      rooms,
		Bookings:   bookings,
		Hotels:     hotels,
		Users:      users,
	}
}

// Load implements CartStore.
func (s *SQLStore) Load(ctx context.Context, userID uint64) (*model.Cart, error) {
	return s.Carts.GetWithItems(ctx, userID)
}

// ClearTx implements CartStore.
func (s *SQLStore) ClearTx(ctx context.Context, tx Tx, userID uint64) error {
	return s.Carts.ClearTx(ctx, unwrap(tx), userID)
}

// CategoryTx implements Inventory.
func (s *SQLStore) CategoryTx(ctx context.Context, tx Tx, categoryID uint64) (*model.RoomCategory, []model.Discount, error) {
	return s.Categories.LoadForCheckoutTx(ctx, unwrap(tx), categoryID)
}

// CountAvailableTx implements Inventory.
func (s *SQLStore) CountAvailableTx(ctx context.Context, tx Tx, categoryID uint64, checkIn, checkOut time.Time) (int, error) {
	return s.Rooms.CountAvailableTx(ctx, unwrap(tx), categoryID, checkIn, checkOut)
}

// AllocateTx implements Inventory.
func (s *SQLStore) AllocateTx(ctx context.Context, tx Tx, categoryID uint64, checkIn, checkOut time.Time, quantity uint32, exclude []uint64) ([]*model.Room, error) {
	return s.Rooms.AllocateRoomsTx(ctx, unwrap(tx), categoryID, checkIn, checkOut, quantity, exclude)
}

// CreateBookingTx implements BookingWriter.
func (s *SQLStore) CreateBookingTx(ctx context.Context, tx Tx, b *model.Booking) error {
	return s.Bookings.CreateTx(ctx, unwrap(tx), b)
}

// AddRoomsTx implements BookingWriter.
func (s *SQLStore) AddRoomsTx(ctx context.Context, tx Tx, rooms []model.BookingRoom) error {
	return s.Bookings.AddRoomsBulkTx(ctx, unwrap(tx), rooms)
}

// CreatePaymentTx implements BookingWriter.
func (s *SQLStore) CreatePaymentTx(ctx context.Context, tx Tx, p *model.PaymentDetails) error {
	return s.Bookings.CreatePaymentTx(ctx, unwrap(tx), p)
}

// UserEmail implements Directory.
func (s *SQLStore) UserEmail(ctx context.Context, userID uint64) (string, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Email, nil
}

// Hotel implements Directory.
func (s *SQLStore) Hotel(ctx context.Context, hotelID uint64) (*model.Hotel, error) {
	return s.Hotels.GetByID(ctx, hotelID)
}
