package booking

import "time"

// Room is the unit of availability. Its booking set is the source of
// truth for overlap checks; Booked is a cached hint and may be stale
// (it is set on booking and never cleared on cancellation).
type Room struct {
	ID       int        `json:"id"`
	RoomType string     `json:"room_type"`
	Price    float64    `json:"price"`
	Booked   bool       `json:"is_booked"`
	PhotoURL string     `json:"photo_url,omitempty"`
	Bookings []*Booking `json:"bookings,omitempty"`
}

// Booking is a confirmed reservation. It is immutable after commit
// except for deletion; ConfirmationCode is assigned exactly once, at
// commit time.
type Booking struct {
	ID               int       `json:"id"`
	RoomID           int       `json:"room_id"`
	UserID           int       `json:"user_id,omitempty"`
	CheckIn          time.Time `json:"check_in"`
	CheckOut         time.Time `json:"check_out"`
	GuestFullName    string    `json:"guest_full_name"`
	GuestEmail       string    `json:"guest_email"`
	Adults           int       `json:"adults"`
	Children         int       `json:"children"`
	TotalGuests      int       `json:"total_guests"`
	ConfirmationCode string    `json:"confirmation_code"`
	CreatedAt        time.Time `json:"created_at"`
}

func (b *Booking) Interval() Interval {
	return Interval{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

type BookRequest struct {
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	GuestFullName string    `json:"guest_full_name"`
	GuestEmail    string    `json:"guest_email"`
	Adults        int       `json:"adults"`
	Children      int       `json:"children"`
}
