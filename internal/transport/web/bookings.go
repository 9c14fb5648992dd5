package web

import (
	"net/http"
	"time"

	"github.com/roomstay/backoffice/internal/booking"
	"github.com/roomstay/backoffice/internal/rooms"
)

const dateLayout = "2006-01-02"

type addRoomDTO struct {
	RoomType string  `json:"room_type" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	PhotoURL string  `json:"photo_url" validate:"omitempty,url"`
}

type bookRoomDTO struct {
	CheckIn       string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut      string `json:"check_out" validate:"required,datetime=2006-01-02"`
	GuestFullName string `json:"guest_full_name" validate:"required"`
	GuestEmail    string `json:"guest_email" validate:"required,email"`
	Adults        int    `json:"adults" validate:"gte=0"`
	Children      int    `json:"children" validate:"gte=0"`
}

func (s *Server) listRoomsHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.rooms.Rooms(r.Context())
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) roomTypesHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.rooms.RoomTypes(r.Context())
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) getRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	out, err := s.rooms.Room(r.Context(), roomID)
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) addRoomHandler(w http.ResponseWriter, r *http.Request) {
	var dto addRoomDTO
	if !s.decode(w, r, &dto) {
		return
	}

	out, err := s.rooms.Add(r.Context(), &rooms.AddRoomInput{
		RoomType: dto.RoomType,
		Price:    dto.Price,
		PhotoURL: dto.PhotoURL,
	})
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusCreated, out)
}

func (s *Server) deleteRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.rooms.Delete(r.Context(), roomID); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) bookRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var dto bookRoomDTO
	if !s.decode(w, r, &dto) {
		return
	}

	checkIn, err := time.Parse(dateLayout, dto.CheckIn)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}

	checkOut, err := time.Parse(dateLayout, dto.CheckOut)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}

	code, err := s.bookings.Book(r.Context(), roomID, &booking.BookRequest{
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		GuestFullName: dto.GuestFullName,
		GuestEmail:    dto.GuestEmail,
		Adults:        dto.Adults,
		Children:      dto.Children,
	})
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]string{"confirmation_code": code})
}

func (s *Server) cancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.bookings.Cancel(r.Context(), bookingID); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) roomBookingsHandler(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	out, err := s.bookings.BookingsByRoom(r.Context(), roomID)
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) allBookingsHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.bookings.AllBookings(r.Context())
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) guestBookingsHandler(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	if email == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}

	out, err := s.bookings.BookingsByEmail(r.Context(), email)
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) bookingByCodeHandler(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}

	out, err := s.bookings.BookingByCode(r.Context(), code)
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusOK, out)
}
