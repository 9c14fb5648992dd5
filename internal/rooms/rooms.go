// Package rooms manages the room inventory: thin CRUD over the
// storage collaborator. Availability logic lives in internal/booking.
package rooms

import (
	"context"
	"errors"
	"fmt"

	"github.com/roomstay/backoffice/internal/booking"
	"github.com/roomstay/backoffice/internal/logger"
)

var ErrRoomNotFound = errors.New("room not found")

type storage interface {
	SaveRoom(ctx context.Context, room *booking.Room) error
	GetRoomWithBookings(ctx context.Context, roomID int) (*booking.Room, error)
	ListRooms(ctx context.Context) ([]*booking.Room, error)
	ListRoomTypes(ctx context.Context) ([]string, error)
	DeleteRoom(ctx context.Context, roomID int) error
}

type Manager struct {
	l       *logger.Logger
	storage storage
}

func New(l *logger.Logger, storage storage) *Manager {
	return &Manager{l: l, storage: storage}
}

type AddRoomInput struct {
	RoomType string  `json:"room_type"`
	Price    float64 `json:"price"`
	PhotoURL string  `json:"photo_url"`
}

func (i *AddRoomInput) validate() error {
	inputErr := booking.NewInputError()

	if i.RoomType == "" {
		inputErr.AddError("room_type", "provide room type")
	}

	if i.Price < 0 {
		inputErr.AddError("price", "price must not be negative")
	}

	if inputErr.FieldsCount() > 0 {
		return inputErr
	}

	return nil
}

func (m *Manager) Add(ctx context.Context, input *AddRoomInput) (*booking.Room, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	room := &booking.Room{ //nolint:exhaustruct // id is assigned by storage
		RoomType: input.RoomType,
		Price:    input.Price,
		PhotoURL: input.PhotoURL,
	}

	if err := m.storage.SaveRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("save room to storage: %w", err)
	}

	return room, nil
}

func (m *Manager) Room(ctx context.Context, roomID int) (*booking.Room, error) {
	room, err := m.storage.GetRoomWithBookings(ctx, roomID)
	if errors.Is(err, booking.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("load room %v from storage: %w", roomID, err)
	}

	return room, nil
}

func (m *Manager) Rooms(ctx context.Context) ([]*booking.Room, error) {
	rooms, err := m.storage.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	return rooms, nil
}

func (m *Manager) RoomTypes(ctx context.Context) ([]string, error) {
	types, err := m.storage.ListRoomTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list room types: %w", err)
	}

	return types, nil
}

func (m *Manager) Delete(ctx context.Context, roomID int) error {
	if err := m.storage.DeleteRoom(ctx, roomID); err != nil {
		return fmt.Errorf("delete room %v from storage: %w", roomID, err)
	}

	return nil
}
