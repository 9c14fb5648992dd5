// Package postgres is the relational storage collaborator, backed by
// GORM over Postgres. Transactions are carried in the context the way
// the in-memory store carries its transaction ids.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/roomstay/backoffice/internal/booking"
	"github.com/roomstay/backoffice/internal/forum"
	"github.com/roomstay/backoffice/internal/logger"
	"github.com/roomstay/backoffice/internal/member"
)

type contextKey string

const transactionKey contextKey = "storageTransaction"

type Store struct {
	l  *logger.Logger
	db *gorm.DB
}

func Open(l *logger.Logger, dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{}) //nolint:exhaustruct
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.AutoMigrate(
		&UserModel{},
		&RoleModel{},
		&RoomModel{},
		&BookingModel{},
		&BoardModel{},
		&CommentModel{},
	); err != nil {
		return nil, fmt.Errorf("run auto migrations: %w", err)
	}

	return &Store{l: l, db: db}, nil
}

// conn returns the transaction bound to ctx, or the plain connection.
func (s *Store) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(transactionKey).(*gorm.DB); ok {
		return tx
	}

	return s.db.WithContext(ctx)
}

func (s *Store) BeginTransaction(ctx context.Context, _ string) (context.Context, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return ctx, fmt.Errorf("begin transaction: %w", tx.Error)
	}

	return context.WithValue(ctx, transactionKey, tx), nil
}

func (s *Store) CommitTransaction(ctx context.Context) error {
	tx, ok := ctx.Value(transactionKey).(*gorm.DB)
	if !ok {
		return ErrTransactionNotFound
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (s *Store) RollbackTransaction(ctx context.Context) error {
	tx, ok := ctx.Value(transactionKey).(*gorm.DB)
	if !ok {
		return ErrTransactionNotFound
	}

	if err := tx.Rollback().Error; err != nil {
		return fmt.Errorf("rollback transaction: %w", err)
	}

	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return booking.ErrRecordNotFound
	}

	return err
}

// ---- rooms ----

func (s *Store) SaveRoom(ctx context.Context, room *booking.Room) error {
	m := fromRoom(room)

	if err := s.conn(ctx).Save(m).Error; err != nil {
		return fmt.Errorf("save room: %w", err)
	}

	room.ID = int(m.ID)

	return nil
}

func (s *Store) GetRoomWithBookings(ctx context.Context, roomID int) (*booking.Room, error) {
	var m RoomModel

	if err := s.conn(ctx).Preload("Bookings").First(&m, roomID).Error; err != nil {
		return nil, mapNotFound(err)
	}

	return toRoom(&m), nil
}

func (s *Store) ListRooms(ctx context.Context) ([]*booking.Room, error) {
	var ms []RoomModel

	if err := s.conn(ctx).Order("id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	out := make([]*booking.Room, 0, len(ms))
	for i := range ms {
		out = append(out, toRoom(&ms[i]))
	}

	return out, nil
}

func (s *Store) ListRoomTypes(ctx context.Context) ([]string, error) {
	var types []string

	if err := s.conn(ctx).Model(&RoomModel{}).Distinct().Order("room_type").Pluck("room_type", &types).Error; err != nil {
		return nil, fmt.Errorf("list room types: %w", err)
	}

	return types, nil
}

func (s *Store) DeleteRoom(ctx context.Context, roomID int) error {
	if err := s.conn(ctx).Unscoped().Delete(&RoomModel{}, roomID).Error; err != nil { //nolint:exhaustruct
		return fmt.Errorf("delete room: %w", err)
	}

	return nil
}

// ---- bookings ----

func (s *Store) AppendBooking(ctx context.Context, b *booking.Booking) (*booking.Booking, error) {
	m := fromBooking(b)

	if err := s.conn(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	b.ID = int(m.ID)

	return b, nil
}

func (s *Store) DeleteBooking(ctx context.Context, bookingID int) error {
	if err := s.conn(ctx).Unscoped().Delete(&BookingModel{}, bookingID).Error; err != nil { //nolint:exhaustruct
		return fmt.Errorf("delete booking: %w", err)
	}

	return nil
}

func (s *Store) GetBookingByCode(ctx context.Context, code string) (*booking.Booking, error) {
	var m BookingModel

	if err := s.conn(ctx).Where("confirmation_code = ?", code).First(&m).Error; err != nil {
		return nil, mapNotFound(err)
	}

	return toBooking(&m), nil
}

func (s *Store) ListBookings(ctx context.Context) ([]*booking.Booking, error) {
	return s.listBookings(ctx, s.conn(ctx))
}

func (s *Store) ListBookingsByRoom(ctx context.Context, roomID int) ([]*booking.Booking, error) {
	return s.listBookings(ctx, s.conn(ctx).Where("room_id = ?", roomID))
}

func (s *Store) ListBookingsByEmail(ctx context.Context, email string) ([]*booking.Booking, error) {
	return s.listBookings(ctx, s.conn(ctx).Where("guest_email = ?", email))
}

func (s *Store) listBookings(_ context.Context, q *gorm.DB) ([]*booking.Booking, error) {
	var ms []BookingModel

	if err := q.Order("id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	out := make([]*booking.Booking, 0, len(ms))
	for i := range ms {
		out = append(out, toBooking(&ms[i]))
	}

	return out, nil
}

// ---- users and roles ----

func (s *Store) SaveUser(ctx context.Context, user *member.User) error {
	m := fromUser(user)

	if err := s.conn(ctx).Save(m).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	user.ID = int(m.ID)

	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*member.User, error) {
	var m UserModel

	if err := s.conn(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, mapNotFound(err)
	}

	return toUser(&m), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*member.User, error) {
	var ms []UserModel

	if err := s.conn(ctx).Preload("Roles").Order("id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]*member.User, 0, len(ms))
	for i := range ms {
		out = append(out, toUser(&ms[i]))
	}

	return out, nil
}

func (s *Store) DeleteUser(ctx context.Context, userID int) error {
	m := UserModel{} //nolint:exhaustruct
	m.ID = uint(userID)

	if err := s.conn(ctx).Model(&m).Association("Roles").Clear(); err != nil {
		return fmt.Errorf("clear user roles: %w", err)
	}

	if err := s.conn(ctx).Delete(&m).Error; err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return nil
}

func (s *Store) SaveRole(ctx context.Context, role *member.Role) error {
	m := RoleModel{Name: role.Name} //nolint:exhaustruct
	m.ID = uint(role.ID)

	if err := s.conn(ctx).Save(&m).Error; err != nil {
		return fmt.Errorf("save role: %w", err)
	}

	role.ID = int(m.ID)

	return nil
}

func (s *Store) GetRole(ctx context.Context, roleID int) (*member.Role, error) {
	var m RoleModel

	if err := s.conn(ctx).First(&m, roleID).Error; err != nil {
		return nil, mapNotFound(err)
	}

	return toRole(&m), nil
}

func (s *Store) GetRoleByName(ctx context.Context, name string) (*member.Role, error) {
	var m RoleModel

	if err := s.conn(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		return nil, mapNotFound(err)
	}

	return toRole(&m), nil
}

func (s *Store) ListRoles(ctx context.Context) ([]*member.Role, error) {
	var ms []RoleModel

	if err := s.conn(ctx).Order("id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	out := make([]*member.Role, 0, len(ms))
	for i := range ms {
		out = append(out, toRole(&ms[i]))
	}

	return out, nil
}

func (s *Store) DeleteRole(ctx context.Context, roleID int) error {
	if err := s.conn(ctx).Delete(&RoleModel{}, roleID).Error; err != nil { //nolint:exhaustruct
		return fmt.Errorf("delete role: %w", err)
	}

	return nil
}

func (s *Store) GrantRole(ctx context.Context, userID, roleID int) error {
	roles, err := s.ListUserRoles(ctx, userID)
	if err != nil {
		return err
	}

	for _, r := range roles {
		if r.ID == roleID {
			return member.ErrRoleAlreadyGranted
		}
	}

	user := UserModel{} //nolint:exhaustruct
	user.ID = uint(userID)

	role := RoleModel{} //nolint:exhaustruct
	role.ID = uint(roleID)

	if err := s.conn(ctx).Model(&user).Association("Roles").Append(&role); err != nil {
		return fmt.Errorf("grant role: %w", err)
	}

	return nil
}

func (s *Store) RevokeRole(ctx context.Context, userID, roleID int) error {
	user := UserModel{} //nolint:exhaustruct
	user.ID = uint(userID)

	role := RoleModel{} //nolint:exhaustruct
	role.ID = uint(roleID)

	if err := s.conn(ctx).Model(&user).Association("Roles").Delete(&role); err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}

	return nil
}

func (s *Store) ListUserRoles(ctx context.Context, userID int) ([]*member.Role, error) {
	user := UserModel{} //nolint:exhaustruct
	user.ID = uint(userID)

	var ms []RoleModel

	if err := s.conn(ctx).Model(&user).Association("Roles").Find(&ms); err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}

	out := make([]*member.Role, 0, len(ms))
	for i := range ms {
		out = append(out, toRole(&ms[i]))
	}

	return out, nil
}

// ---- forum ----

func (s *Store) SaveBoard(ctx context.Context, board *forum.Board) error {
	m := BoardModel{ //nolint:exhaustruct
		UserID:  uint(board.UserID),
		Title:   board.Title,
		Content: board.Content,
	}
	m.ID = uint(board.ID)

	if err := s.conn(ctx).Save(&m).Error; err != nil {
		return fmt.Errorf("save board: %w", err)
	}

	board.ID = int(m.ID)

	return nil
}

func (s *Store) GetBoard(ctx context.Context, boardID int) (*forum.Board, error) {
	var m BoardModel

	if err := s.conn(ctx).First(&m, boardID).Error; err != nil {
		return nil, mapNotFound(err)
	}

	return toBoard(&m), nil
}

func (s *Store) ListBoards(ctx context.Context) ([]*forum.Board, error) {
	var ms []BoardModel

	if err := s.conn(ctx).Order("id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	out := make([]*forum.Board, 0, len(ms))
	for i := range ms {
		out = append(out, toBoard(&ms[i]))
	}

	return out, nil
}

func (s *Store) DeleteBoard(ctx context.Context, boardID int) error {
	if err := s.conn(ctx).Where("board_id = ?", boardID).Delete(&CommentModel{}).Error; err != nil { //nolint:exhaustruct
		return fmt.Errorf("delete board comments: %w", err)
	}

	if err := s.conn(ctx).Delete(&BoardModel{}, boardID).Error; err != nil { //nolint:exhaustruct
		return fmt.Errorf("delete board: %w", err)
	}

	return nil
}

func (s *Store) SaveComment(ctx context.Context, comment *forum.Comment) error {
	m := CommentModel{ //nolint:exhaustruct
		BoardID: uint(comment.BoardID),
		UserID:  uint(comment.UserID),
		Content: comment.Content,
	}
	m.ID = uint(comment.ID)

	if err := s.conn(ctx).Save(&m).Error; err != nil {
		return fmt.Errorf("save comment: %w", err)
	}

	comment.ID = int(m.ID)

	return nil
}

func (s *Store) GetComment(ctx context.Context, commentID int) (*forum.Comment, error) {
	var m CommentModel

	if err := s.conn(ctx).First(&m, commentID).Error; err != nil {
		return nil, mapNotFound(err)
	}

	return toComment(&m), nil
}

func (s *Store) ListCommentsByBoard(ctx context.Context, boardID int) ([]*forum.Comment, error) {
	var ms []CommentModel

	if err := s.conn(ctx).Where("board_id = ?", boardID).Order("id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	out := make([]*forum.Comment, 0, len(ms))
	for i := range ms {
		out = append(out, toComment(&ms[i]))
	}

	return out, nil
}
