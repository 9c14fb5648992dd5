package memory

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/roomstay/backoffice/internal/booking"
	"github.com/roomstay/backoffice/internal/logger"
	"github.com/roomstay/backoffice/internal/member"
)

func newDB(t *testing.T) *DB {
	t.Helper()

	return New(Config{L: logger.New(log.New(io.Discard, "", 0))})
}

func seedRoom(t *testing.T, db *DB) *booking.Room {
	t.Helper()

	room := &booking.Room{RoomType: "Suite", Price: 320}
	if err := db.SaveRoom(context.Background(), room); err != nil {
		t.Fatalf("SaveRoom(): %v", err)
	}

	return room
}

func TestRollbackRestoresRoomAndBooking(t *testing.T) {
	db := newDB(t)
	room := seedRoom(t, db)

	ctx, err := db.BeginTransaction(context.Background(), "READ COMMITTED")
	if err != nil {
		t.Fatalf("BeginTransaction(): %v", err)
	}

	room.Booked = true
	if err := db.SaveRoom(ctx, room); err != nil {
		t.Fatalf("SaveRoom() in transaction: %v", err)
	}

	b := &booking.Booking{
		RoomID:   room.ID,
		CheckIn:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	if _, err := db.AppendBooking(ctx, b); err != nil {
		t.Fatalf("AppendBooking() in transaction: %v", err)
	}

	if err := db.RollbackTransaction(ctx); err != nil {
		t.Fatalf("RollbackTransaction(): %v", err)
	}

	got, err := db.GetRoomWithBookings(context.Background(), room.ID)
	if err != nil {
		t.Fatalf("GetRoomWithBookings(): %v", err)
	}

	if got.Booked {
		t.Error("room update survived rollback")
	}

	if len(got.Bookings) != 0 {
		t.Errorf("bookings after rollback = %v, want 0", len(got.Bookings))
	}
}

func TestCommitKeepsWrites(t *testing.T) {
	db := newDB(t)
	room := seedRoom(t, db)

	ctx, err := db.BeginTransaction(context.Background(), "READ COMMITTED")
	if err != nil {
		t.Fatalf("BeginTransaction(): %v", err)
	}

	b := &booking.Booking{RoomID: room.ID, GuestEmail: "kept@example.com"}
	if _, err := db.AppendBooking(ctx, b); err != nil {
		t.Fatalf("AppendBooking(): %v", err)
	}

	if err := db.CommitTransaction(ctx); err != nil {
		t.Fatalf("CommitTransaction(): %v", err)
	}

	got, err := db.GetRoomWithBookings(context.Background(), room.ID)
	if err != nil {
		t.Fatalf("GetRoomWithBookings(): %v", err)
	}

	if len(got.Bookings) != 1 {
		t.Errorf("bookings after commit = %v, want 1", len(got.Bookings))
	}
}

func TestCommitWithoutTransaction(t *testing.T) {
	db := newDB(t)

	if err := db.CommitTransaction(context.Background()); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("CommitTransaction() = %v, want ErrTransactionNotFound", err)
	}

	if err := db.RollbackTransaction(context.Background()); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("RollbackTransaction() = %v, want ErrTransactionNotFound", err)
	}
}

func TestWritesOutsideTransactionAutoCommit(t *testing.T) {
	db := newDB(t)
	room := seedRoom(t, db)

	if _, err := db.GetRoomWithBookings(context.Background(), room.ID); err != nil {
		t.Errorf("GetRoomWithBookings(): %v", err)
	}
}

func TestDeleteRoomCascadesBookings(t *testing.T) {
	db := newDB(t)
	room := seedRoom(t, db)

	if _, err := db.AppendBooking(context.Background(), &booking.Booking{RoomID: room.ID, ConfirmationCode: "0000000001"}); err != nil {
		t.Fatalf("AppendBooking(): %v", err)
	}

	if err := db.DeleteRoom(context.Background(), room.ID); err != nil {
		t.Fatalf("DeleteRoom(): %v", err)
	}

	if _, err := db.GetRoomWithBookings(context.Background(), room.ID); !errors.Is(err, booking.ErrRecordNotFound) {
		t.Errorf("GetRoomWithBookings() after delete = %v, want ErrRecordNotFound", err)
	}

	if _, err := db.GetBookingByCode(context.Background(), "0000000001"); !errors.Is(err, booking.ErrRecordNotFound) {
		t.Errorf("GetBookingByCode() after cascade = %v, want ErrRecordNotFound", err)
	}
}

func TestDeleteRoleRevokesGrants(t *testing.T) {
	db := newDB(t)

	user := &member.User{FirstName: "Sam", LastName: "Lee", Email: "sam@example.com"}
	if err := db.SaveUser(context.Background(), user); err != nil {
		t.Fatalf("SaveUser(): %v", err)
	}

	role := &member.Role{Name: "ROLE_MANAGER"}
	if err := db.SaveRole(context.Background(), role); err != nil {
		t.Fatalf("SaveRole(): %v", err)
	}

	if err := db.GrantRole(context.Background(), user.ID, role.ID); err != nil {
		t.Fatalf("GrantRole(): %v", err)
	}

	if err := db.DeleteRole(context.Background(), role.ID); err != nil {
		t.Fatalf("DeleteRole(): %v", err)
	}

	roles, err := db.ListUserRoles(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListUserRoles(): %v", err)
	}

	if len(roles) != 0 {
		t.Errorf("roles after role delete = %v, want 0", len(roles))
	}
}

func TestReadsReturnCopies(t *testing.T) {
	db := newDB(t)
	room := seedRoom(t, db)

	got, err := db.GetRoomWithBookings(context.Background(), room.ID)
	if err != nil {
		t.Fatalf("GetRoomWithBookings(): %v", err)
	}

	got.RoomType = "Mutated"

	again, err := db.GetRoomWithBookings(context.Background(), room.ID)
	if err != nil {
		t.Fatalf("GetRoomWithBookings(): %v", err)
	}

	if again.RoomType != "Suite" {
		t.Errorf("RoomType = %q, caller mutation leaked into the store", again.RoomType)
	}
}
