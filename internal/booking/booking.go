package booking

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/roomstay/backoffice/internal/logger"
)

type codeGenerator interface {
	Generate(ctx context.Context) (string, error)
}

type storageReader interface {
	GetRoomWithBookings(ctx context.Context, roomID int) (*Room, error)
	GetBookingByCode(ctx context.Context, code string) (*Booking, error)
	ListBookings(ctx context.Context) ([]*Booking, error)
	ListBookingsByRoom(ctx context.Context, roomID int) ([]*Booking, error)
	ListBookingsByEmail(ctx context.Context, email string) ([]*Booking, error)
}

type storageWriter interface {
	BeginTransaction(ctx context.Context, level string) (context.Context, error)
	CommitTransaction(ctx context.Context) error
	RollbackTransaction(ctx context.Context) error
	SaveRoom(ctx context.Context, room *Room) error
	AppendBooking(ctx context.Context, b *Booking) (*Booking, error)
	DeleteBooking(ctx context.Context, bookingID int) error
}

type storage interface {
	storageReader
	storageWriter
}

type Manager struct {
	l       *logger.Logger
	storage storage
	codes   codeGenerator
	locks   *roomLocks
}

func New(l *logger.Logger, storage storage, codes codeGenerator) *Manager {
	return &Manager{
		l:       l,
		storage: storage,
		codes:   codes,
		locks:   newRoomLocks(),
	}
}

func (r *BookRequest) validate() error {
	inputErr := NewInputError()

	if _, err := mail.ParseAddress(r.GuestEmail); err != nil {
		inputErr.AddError("guest_email", "provide valid email")
	}

	if r.GuestFullName == "" {
		inputErr.AddError("guest_full_name", "provide guest full name")
	}

	if r.Adults < 0 {
		inputErr.AddError("adults", "adult count must not be negative")
	}

	if r.Children < 0 {
		inputErr.AddError("children", "child count must not be negative")
	}

	if inputErr.FieldsCount() > 0 {
		return inputErr
	}

	return nil
}

// prepareDates truncates both ends to UTC day boundaries. The range
// check must run on the truncated values, or a same-day request with
// clock times would commit a zero-length stay.
func (r *BookRequest) prepareDates() {
	r.CheckIn = r.CheckIn.UTC().Truncate(24 * time.Hour)   //nolint:gomnd
	r.CheckOut = r.CheckOut.UTC().Truncate(24 * time.Hour) //nolint:gomnd
}

func (m *Manager) buildBooking(ctx context.Context, room *Room, input *BookRequest) (*Booking, error) {
	code, err := m.codes.Generate(ctx)
	if err != nil {
		return nil, ErrCode
	}

	b := &Booking{ //nolint:exhaustruct // id is assigned by storage on commit
		RoomID:           room.ID,
		CheckIn:          input.CheckIn,
		CheckOut:         input.CheckOut,
		GuestFullName:    input.GuestFullName,
		GuestEmail:       input.GuestEmail,
		Adults:           input.Adults,
		Children:         input.Children,
		TotalGuests:      input.Adults + input.Children,
		ConfirmationCode: code,
		CreatedAt:        time.Now().UTC(),
	}

	if accountID, ok := AccountFromContext(ctx); ok {
		b.UserID = accountID
	}

	return b, nil
}

// Book commits a reservation of roomID for the requested stay and
// returns the confirmation code. The whole read-check-write sequence
// runs under the room's lock and a storage transaction, so concurrent
// overlapping requests against the same room cannot both succeed.
func (m *Manager) Book(ctx context.Context, roomID int, input *BookRequest) (_ string, err error) {
	input.prepareDates()

	if !input.CheckOut.After(input.CheckIn) {
		return "", ErrInvalidRange
	}

	if err := input.validate(); err != nil {
		return "", err
	}

	unlock := m.locks.Lock(roomID)
	defer unlock()

	room, err := m.storage.GetRoomWithBookings(ctx, roomID)
	if errors.Is(err, ErrRecordNotFound) {
		return "", ErrRoomNotFound
	}

	if err != nil {
		return "", fmt.Errorf("load room %v from storage: %w", roomID, err)
	}

	candidate := Interval{CheckIn: input.CheckIn, CheckOut: input.CheckOut}
	if !Available(candidate, room.Bookings) {
		return "", fmt.Errorf("room %v from %v to %v: %w",
			roomID, input.CheckIn.Format("2006-01-02"), input.CheckOut.Format("2006-01-02"), ErrRoomUnavailable)
	}

	b, err := m.buildBooking(ctx, room, input)
	if err != nil {
		return "", fmt.Errorf("build booking: %w", err)
	}

	ctx, err = m.storage.BeginTransaction(ctx, "READ COMMITTED")
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if err = m.storage.RollbackTransaction(ctx); err != nil {
				m.l.LogErrorf("Could not rollback booking transaction after panic %v", p)
			}

			panic(p)
		}

		if err != nil {
			if err := m.storage.RollbackTransaction(ctx); err != nil {
				m.l.LogErrorf("Could not rollback booking transaction after error %v", err.Error())
			}

			return
		}

		if err = m.storage.CommitTransaction(ctx); err != nil {
			m.l.LogErrorf("Could not commit booking transaction, err %v", err.Error())
		}
	}()

	room.Booked = true

	if err = m.storage.SaveRoom(ctx, room); err != nil {
		return "", fmt.Errorf("save room to storage: %w", err)
	}

	if _, err = m.storage.AppendBooking(ctx, b); err != nil {
		return "", fmt.Errorf("append booking to storage: %w", err)
	}

	return b.ConfirmationCode, nil
}

// Cancel deletes a booking and frees its interval. A missing id is a
// silent no-op; the room's occupancy hint is not recomputed.
func (m *Manager) Cancel(ctx context.Context, bookingID int) error {
	if err := m.storage.DeleteBooking(ctx, bookingID); err != nil {
		return fmt.Errorf("delete booking %v from storage: %w", bookingID, err)
	}

	return nil
}

func (m *Manager) BookingsByRoom(ctx context.Context, roomID int) ([]*Booking, error) {
	bookings, err := m.storage.ListBookingsByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list bookings for room %v: %w", roomID, err)
	}

	return bookings, nil
}

func (m *Manager) BookingsByEmail(ctx context.Context, email string) ([]*Booking, error) {
	bookings, err := m.storage.ListBookingsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list bookings for guest %v: %w", email, err)
	}

	return bookings, nil
}

func (m *Manager) BookingByCode(ctx context.Context, code string) (*Booking, error) {
	b, err := m.storage.GetBookingByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get booking by confirmation code: %w", err)
	}

	return b, nil
}

func (m *Manager) AllBookings(ctx context.Context) ([]*Booking, error) {
	bookings, err := m.storage.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return bookings, nil
}
