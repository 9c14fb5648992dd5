// Package memory is the in-process storage collaborator. Writes apply
// immediately under the store mutex; an open transaction records undo
// actions so a rollback restores the previous state. Callers that need
// the read-check-write sequence to be atomic serialize it themselves
// (the reservation committer holds a per-room lock).
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/roomstay/backoffice/internal/booking"
	"github.com/roomstay/backoffice/internal/forum"
	"github.com/roomstay/backoffice/internal/logger"
	"github.com/roomstay/backoffice/internal/member"
)

type Config struct {
	L *logger.Logger
}

type transaction struct {
	id   string
	undo []func()
}

type DB struct {
	mu sync.Mutex
	l  *logger.Logger

	rooms    map[int]*booking.Room
	bookings map[int]*booking.Booking
	users    map[int]*member.User
	roles    map[int]*member.Role
	// userRoles[userID] holds the granted role ids.
	userRoles map[int]map[int]bool
	boards    map[int]*forum.Board
	comments  map[int]*forum.Comment

	transactions map[string]*transaction
	nextTrxID    int64
	nextID       int
}

func New(conf Config) *DB {
	//nolint:exhaustruct
	return &DB{
		l:            conf.L,
		rooms:        make(map[int]*booking.Room),
		bookings:     make(map[int]*booking.Booking),
		users:        make(map[int]*member.User),
		roles:        make(map[int]*member.Role),
		userRoles:    make(map[int]map[int]bool),
		boards:       make(map[int]*forum.Board),
		comments:     make(map[int]*forum.Comment),
		transactions: make(map[string]*transaction),
	}
}

func (db *DB) nextRecordID() int {
	db.nextID++

	return db.nextID
}

// record registers an undo action with the transaction in ctx, if any.
// Must be called with db.mu held.
func (db *DB) record(ctx context.Context, undo func()) {
	trxID, ok := transactionIDFromContext(ctx)
	if !ok {
		return
	}

	trx, exists := db.transactions[trxID]
	if !exists {
		return
	}

	trx.undo = append(trx.undo, undo)
}

func (db *DB) BeginTransaction(ctx context.Context, _ string) (context.Context, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	trxID := fmt.Sprintf("trx-%d", db.nextTrxID)
	db.nextTrxID++

	db.transactions[trxID] = &transaction{id: trxID, undo: nil}

	return withTransactionID(ctx, trxID), nil
}

func (db *DB) CommitTransaction(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	trxID, ok := transactionIDFromContext(ctx)
	if !ok {
		return ErrTransactionNotFound
	}

	if _, exists := db.transactions[trxID]; !exists {
		return fmt.Errorf("transaction %s: %w", trxID, ErrTransactionNotFound)
	}

	delete(db.transactions, trxID)

	return nil
}

func (db *DB) RollbackTransaction(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	trxID, ok := transactionIDFromContext(ctx)
	if !ok {
		return ErrTransactionNotFound
	}

	trx, exists := db.transactions[trxID]
	if !exists {
		return fmt.Errorf("transaction %s: %w", trxID, ErrTransactionNotFound)
	}

	for i := len(trx.undo) - 1; i >= 0; i-- {
		trx.undo[i]()
	}

	delete(db.transactions, trxID)

	return nil
}

// ---- rooms ----

func cloneRoom(r *booking.Room) *booking.Room {
	c := *r
	c.Bookings = nil

	return &c
}

func cloneBooking(b *booking.Booking) *booking.Booking {
	c := *b

	return &c
}

func (db *DB) SaveRoom(ctx context.Context, room *booking.Room) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if room.ID == 0 {
		room.ID = db.nextRecordID()
	}

	prev, existed := db.rooms[room.ID]
	db.rooms[room.ID] = cloneRoom(room)

	id := room.ID
	db.record(ctx, func() {
		if existed {
			db.rooms[id] = prev
		} else {
			delete(db.rooms, id)
		}
	})

	return nil
}

func (db *DB) GetRoomWithBookings(_ context.Context, roomID int) (*booking.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	room, ok := db.rooms[roomID]
	if !ok {
		return nil, booking.ErrRecordNotFound
	}

	out := cloneRoom(room)
	out.Bookings = db.bookingsForRoomLocked(roomID)

	return out, nil
}

func (db *DB) ListRooms(_ context.Context) ([]*booking.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]*booking.Room, 0, len(db.rooms))
	for _, room := range db.rooms {
		out = append(out, cloneRoom(room))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (db *DB) ListRoomTypes(_ context.Context) ([]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	seen := make(map[string]bool)

	var out []string

	for _, room := range db.rooms {
		if !seen[room.RoomType] {
			seen[room.RoomType] = true

			out = append(out, room.RoomType)
		}
	}

	sort.Strings(out)

	return out, nil
}

// DeleteRoom removes the room and cascades to its bookings.
func (db *DB) DeleteRoom(ctx context.Context, roomID int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	prev, existed := db.rooms[roomID]
	if !existed {
		return nil
	}

	delete(db.rooms, roomID)
	db.record(ctx, func() { db.rooms[roomID] = prev })

	for id, b := range db.bookings {
		if b.RoomID != roomID {
			continue
		}

		removed := b

		delete(db.bookings, id)
		db.record(ctx, func() { db.bookings[removed.ID] = removed })
	}

	return nil
}

// ---- bookings ----

func (db *DB) bookingsForRoomLocked(roomID int) []*booking.Booking {
	var out []*booking.Booking

	for _, b := range db.bookings {
		if b.RoomID == roomID {
			out = append(out, cloneBooking(b))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

func (db *DB) AppendBooking(ctx context.Context, b *booking.Booking) (*booking.Booking, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if b.ID == 0 {
		b.ID = db.nextRecordID()
	}

	db.bookings[b.ID] = cloneBooking(b)

	id := b.ID
	db.record(ctx, func() { delete(db.bookings, id) })

	return cloneBooking(b), nil
}

// DeleteBooking is unconditional: deleting an id that does not exist
// is not an error.
func (db *DB) DeleteBooking(ctx context.Context, bookingID int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	prev, existed := db.bookings[bookingID]
	if !existed {
		return nil
	}

	delete(db.bookings, bookingID)
	db.record(ctx, func() { db.bookings[bookingID] = prev })

	return nil
}

func (db *DB) GetBookingByCode(_ context.Context, code string) (*booking.Booking, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, b := range db.bookings {
		if b.ConfirmationCode == code {
			return cloneBooking(b), nil
		}
	}

	return nil, booking.ErrRecordNotFound
}

func (db *DB) ListBookings(_ context.Context) ([]*booking.Booking, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]*booking.Booking, 0, len(db.bookings))
	for _, b := range db.bookings {
		out = append(out, cloneBooking(b))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (db *DB) ListBookingsByRoom(_ context.Context, roomID int) ([]*booking.Booking, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.bookingsForRoomLocked(roomID), nil
}

func (db *DB) ListBookingsByEmail(_ context.Context, email string) ([]*booking.Booking, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []*booking.Booking

	for _, b := range db.bookings {
		if b.GuestEmail == email {
			out = append(out, cloneBooking(b))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// ---- users and roles ----

func cloneUser(u *member.User) *member.User {
	c := *u
	c.Roles = nil

	return &c
}

func (db *DB) SaveUser(ctx context.Context, user *member.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if user.ID == 0 {
		user.ID = db.nextRecordID()
	}

	prev, existed := db.users[user.ID]
	db.users[user.ID] = cloneUser(user)

	id := user.ID
	db.record(ctx, func() {
		if existed {
			db.users[id] = prev
		} else {
			delete(db.users, id)
		}
	})

	return nil
}

func (db *DB) GetUserByEmail(_ context.Context, email string) (*member.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}

	return nil, booking.ErrRecordNotFound
}

func (db *DB) ListUsers(_ context.Context) ([]*member.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]*member.User, 0, len(db.users))
	for _, u := range db.users {
		out = append(out, cloneUser(u))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (db *DB) DeleteUser(ctx context.Context, userID int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	prev, existed := db.users[userID]
	if !existed {
		return nil
	}

	grants := db.userRoles[userID]

	delete(db.users, userID)
	delete(db.userRoles, userID)
	db.record(ctx, func() {
		db.users[userID] = prev
		db.userRoles[userID] = grants
	})

	return nil
}

func (db *DB) SaveRole(ctx context.Context, role *member.Role) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if role.ID == 0 {
		role.ID = db.nextRecordID()
	}

	r := *role

	prev, existed := db.roles[role.ID]
	db.roles[role.ID] = &r

	id := role.ID
	db.record(ctx, func() {
		if existed {
			db.roles[id] = prev
		} else {
			delete(db.roles, id)
		}
	})

	return nil
}

func (db *DB) GetRole(_ context.Context, roleID int) (*member.Role, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	role, ok := db.roles[roleID]
	if !ok {
		return nil, booking.ErrRecordNotFound
	}

	r := *role

	return &r, nil
}

func (db *DB) GetRoleByName(_ context.Context, name string) (*member.Role, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, role := range db.roles {
		if role.Name == name {
			r := *role

			return &r, nil
		}
	}

	return nil, booking.ErrRecordNotFound
}

func (db *DB) ListRoles(_ context.Context) ([]*member.Role, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]*member.Role, 0, len(db.roles))

	for _, role := range db.roles {
		r := *role
		out = append(out, &r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (db *DB) DeleteRole(ctx context.Context, roleID int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	prev, existed := db.roles[roleID]
	if !existed {
		return nil
	}

	delete(db.roles, roleID)
	db.record(ctx, func() { db.roles[roleID] = prev })

	for userID, grants := range db.userRoles {
		if !grants[roleID] {
			continue
		}

		grantedTo := userID

		delete(grants, roleID)
		db.record(ctx, func() { db.userRoles[grantedTo][roleID] = true })
	}

	return nil
}

func (db *DB) GrantRole(ctx context.Context, userID, roleID int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[userID]; !ok {
		return booking.ErrRecordNotFound
	}

	if _, ok := db.roles[roleID]; !ok {
		return booking.ErrRecordNotFound
	}

	grants, ok := db.userRoles[userID]
	if !ok {
		grants = make(map[int]bool)
		db.userRoles[userID] = grants
	}

	if grants[roleID] {
		return member.ErrRoleAlreadyGranted
	}

	grants[roleID] = true
	db.record(ctx, func() { delete(db.userRoles[userID], roleID) })

	return nil
}

func (db *DB) RevokeRole(ctx context.Context, userID, roleID int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	grants, ok := db.userRoles[userID]
	if !ok || !grants[roleID] {
		return nil
	}

	delete(grants, roleID)
	db.record(ctx, func() { db.userRoles[userID][roleID] = true })

	return nil
}

func (db *DB) ListUserRoles(_ context.Context, userID int) ([]*member.Role, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []*member.Role

	for roleID := range db.userRoles[userID] {
		if role, ok := db.roles[roleID]; ok {
			r := *role
			out = append(out, &r)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// ---- forum ----

func (db *DB) SaveBoard(ctx context.Context, board *forum.Board) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if board.ID == 0 {
		board.ID = db.nextRecordID()
	}

	b := *board

	prev, existed := db.boards[board.ID]
	db.boards[board.ID] = &b

	id := board.ID
	db.record(ctx, func() {
		if existed {
			db.boards[id] = prev
		} else {
			delete(db.boards, id)
		}
	})

	return nil
}

func (db *DB) GetBoard(_ context.Context, boardID int) (*forum.Board, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	board, ok := db.boards[boardID]
	if !ok {
		return nil, booking.ErrRecordNotFound
	}

	b := *board

	return &b, nil
}

func (db *DB) ListBoards(_ context.Context) ([]*forum.Board, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]*forum.Board, 0, len(db.boards))

	for _, board := range db.boards {
		b := *board
		out = append(out, &b)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (db *DB) DeleteBoard(ctx context.Context, boardID int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	prev, existed := db.boards[boardID]
	if !existed {
		return nil
	}

	delete(db.boards, boardID)
	db.record(ctx, func() { db.boards[boardID] = prev })

	for id, c := range db.comments {
		if c.BoardID != boardID {
			continue
		}

		removed := c

		delete(db.comments, id)
		db.record(ctx, func() { db.comments[removed.ID] = removed })
	}

	return nil
}

func (db *DB) SaveComment(ctx context.Context, comment *forum.Comment) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if comment.ID == 0 {
		comment.ID = db.nextRecordID()
	}

	c := *comment

	prev, existed := db.comments[comment.ID]
	db.comments[comment.ID] = &c

	id := comment.ID
	db.record(ctx, func() {
		if existed {
			db.comments[id] = prev
		} else {
			delete(db.comments, id)
		}
	})

	return nil
}

func (db *DB) GetComment(_ context.Context, commentID int) (*forum.Comment, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	comment, ok := db.comments[commentID]
	if !ok {
		return nil, booking.ErrRecordNotFound
	}

	c := *comment

	return &c, nil
}

func (db *DB) ListCommentsByBoard(_ context.Context, boardID int) ([]*forum.Comment, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []*forum.Comment

	for _, comment := range db.comments {
		if comment.BoardID != boardID {
			continue
		}

		c := *comment
		out = append(out, &c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}
