package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/roomstay/backoffice/internal/booking"
	"github.com/roomstay/backoffice/internal/forum"
	"github.com/roomstay/backoffice/internal/member"
)

type RoomModel struct {
	gorm.Model
	RoomType string  `gorm:"column:room_type"`
	Price    float64 `gorm:"column:room_price"`
	Booked   bool    `gorm:"column:is_booked"`
	PhotoURL string  `gorm:"column:photo_url"`

	Bookings []BookingModel `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}

func (RoomModel) TableName() string { return "rooms" }

type BookingModel struct {
	gorm.Model
	RoomID           uint      `gorm:"column:room_id;index"`
	UserID           uint      `gorm:"column:user_id"`
	CheckIn          time.Time `gorm:"column:check_in"`
	CheckOut         time.Time `gorm:"column:check_out"`
	GuestFullName    string    `gorm:"column:guest_full_name"`
	GuestEmail       string    `gorm:"column:guest_email;index"`
	Adults           int       `gorm:"column:adults"`
	Children         int       `gorm:"column:children"`
	TotalGuests      int       `gorm:"column:total_guest"`
	ConfirmationCode string    `gorm:"column:confirmation_code;index"`
}

func (BookingModel) TableName() string { return "bookings" }

type UserModel struct {
	gorm.Model
	FirstName    string `gorm:"column:first_name"`
	LastName     string `gorm:"column:last_name"`
	Email        string `gorm:"column:email;uniqueIndex"`
	PasswordHash string `gorm:"column:password"`

	Roles []RoleModel `gorm:"many2many:user_roles"`
}

func (UserModel) TableName() string { return "users" }

type RoleModel struct {
	gorm.Model
	Name string `gorm:"column:name;uniqueIndex"`
}

func (RoleModel) TableName() string { return "roles" }

type BoardModel struct {
	gorm.Model
	UserID  uint   `gorm:"column:user_id;index"`
	Title   string `gorm:"column:title"`
	Content string `gorm:"column:content"`
}

func (BoardModel) TableName() string { return "boards" }

type CommentModel struct {
	gorm.Model
	BoardID uint   `gorm:"column:board_id;index"`
	UserID  uint   `gorm:"column:user_id"`
	Content string `gorm:"column:content"`
}

func (CommentModel) TableName() string { return "comments" }

func toRoom(m *RoomModel) *booking.Room {
	room := &booking.Room{ //nolint:exhaustruct
		ID:       int(m.ID),
		RoomType: m.RoomType,
		Price:    m.Price,
		Booked:   m.Booked,
		PhotoURL: m.PhotoURL,
	}

	for i := range m.Bookings {
		room.Bookings = append(room.Bookings, toBooking(&m.Bookings[i]))
	}

	return room
}

func fromRoom(r *booking.Room) *RoomModel {
	m := &RoomModel{ //nolint:exhaustruct // bookings are rows of their own
		RoomType: r.RoomType,
		Price:    r.Price,
		Booked:   r.Booked,
		PhotoURL: r.PhotoURL,
	}
	m.ID = uint(r.ID)

	return m
}

func toBooking(m *BookingModel) *booking.Booking {
	return &booking.Booking{
		ID:               int(m.ID),
		RoomID:           int(m.RoomID),
		UserID:           int(m.UserID),
		CheckIn:          m.CheckIn,
		CheckOut:         m.CheckOut,
		GuestFullName:    m.GuestFullName,
		GuestEmail:       m.GuestEmail,
		Adults:           m.Adults,
		Children:         m.Children,
		TotalGuests:      m.TotalGuests,
		ConfirmationCode: m.ConfirmationCode,
		CreatedAt:        m.CreatedAt,
	}
}

func fromBooking(b *booking.Booking) *BookingModel {
	m := &BookingModel{ //nolint:exhaustruct
		RoomID:           uint(b.RoomID),
		UserID:           uint(b.UserID),
		CheckIn:          b.CheckIn,
		CheckOut:         b.CheckOut,
		GuestFullName:    b.GuestFullName,
		GuestEmail:       b.GuestEmail,
		Adults:           b.Adults,
		Children:         b.Children,
		TotalGuests:      b.TotalGuests,
		ConfirmationCode: b.ConfirmationCode,
	}
	m.ID = uint(b.ID)

	return m
}

func toUser(m *UserModel) *member.User {
	user := &member.User{ //nolint:exhaustruct
		ID:           int(m.ID),
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
	}

	for i := range m.Roles {
		user.Roles = append(user.Roles, toRole(&m.Roles[i]))
	}

	return user
}

func fromUser(u *member.User) *UserModel {
	m := &UserModel{ //nolint:exhaustruct // role grants go through the join table
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}
	m.ID = uint(u.ID)

	return m
}

func toRole(m *RoleModel) *member.Role {
	return &member.Role{
		ID:   int(m.ID),
		Name: m.Name,
	}
}

func toBoard(m *BoardModel) *forum.Board {
	return &forum.Board{
		ID:        int(m.ID),
		UserID:    int(m.UserID),
		Title:     m.Title,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toComment(m *CommentModel) *forum.Comment {
	return &forum.Comment{
		ID:        int(m.ID),
		BoardID:   int(m.BoardID),
		UserID:    int(m.UserID),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
