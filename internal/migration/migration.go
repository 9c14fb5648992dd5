package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/roomstay/backoffice/internal/booking"
	"github.com/roomstay/backoffice/internal/logger"
	"github.com/roomstay/backoffice/internal/member"
)

type storage interface {
	GetRoleByName(ctx context.Context, name string) (*member.Role, error)
	SaveRole(ctx context.Context, role *member.Role) error
	ListRooms(ctx context.Context) ([]*booking.Room, error)
	SaveRoom(ctx context.Context, room *booking.Room) error
}

// Up seeds the default roles and, on an empty inventory, a starter set
// of rooms. It is idempotent.
func Up(ctx context.Context, l *logger.Logger, storage storage) error {
	for _, name := range []string{member.RoleUser, member.RoleAdmin} {
		_, err := storage.GetRoleByName(ctx, name)
		if err == nil {
			continue
		}

		if !errors.Is(err, booking.ErrRecordNotFound) {
			return fmt.Errorf("check role %v: %w", name, err)
		}

		if err := storage.SaveRole(ctx, &member.Role{Name: name}); err != nil { //nolint:exhaustruct
			return fmt.Errorf("seed role %v: %w", name, err)
		}

		l.LogInfo("Seeded role %v", name)
	}

	rooms, err := storage.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("list rooms: %w", err)
	}

	if len(rooms) > 0 {
		return nil
	}

	seed := []*booking.Room{
		{RoomType: "Single", Price: 95},  //nolint:exhaustruct
		{RoomType: "Double", Price: 140}, //nolint:exhaustruct
		{RoomType: "Suite", Price: 320},  //nolint:exhaustruct
	}

	for _, room := range seed {
		if err := storage.SaveRoom(ctx, room); err != nil {
			return fmt.Errorf("seed room %v: %w", room.RoomType, err)
		}
	}

	l.LogInfo("Seeded %v rooms", len(seed))

	return nil
}
