package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/roomstay/backoffice/internal/auth"
	"github.com/roomstay/backoffice/internal/booking"
	"github.com/roomstay/backoffice/internal/forum"
	"github.com/roomstay/backoffice/internal/member"
	"github.com/roomstay/backoffice/internal/rooms"
)

func (s *Server) addRoutes(r *http.ServeMux) {
	std := func(h http.HandlerFunc) http.Handler {
		return s.applyMiddlewares(h, s.loggerMiddleware(), s.recoverMiddleware())
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return s.applyMiddlewares(h, s.authMiddleware(true), s.loggerMiddleware(), s.recoverMiddleware())
	}
	maybeAuthed := func(h http.HandlerFunc) http.Handler {
		return s.applyMiddlewares(h, s.authMiddleware(false), s.loggerMiddleware(), s.recoverMiddleware())
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return s.applyMiddlewares(h,
			s.requireRole(member.RoleAdmin), s.authMiddleware(true), s.loggerMiddleware(), s.recoverMiddleware())
	}

	r.Handle(fmt.Sprintf("GET %s", s.conf.LivenessEndpoint), std(s.livenessHandler))

	r.Handle("POST /api/auth/v1/register", std(s.registerHandler))
	r.Handle("POST /api/auth/v1/login", std(s.loginHandler))
	r.Handle("POST /api/auth/v1/refresh", std(s.refreshHandler))
	r.Handle("POST /api/auth/v1/logout", authed(s.logoutHandler))

	r.Handle("GET /api/rooms/v1", std(s.listRoomsHandler))
	r.Handle("GET /api/rooms/v1/types", std(s.roomTypesHandler))
	r.Handle("GET /api/rooms/v1/{id}", std(s.getRoomHandler))
	r.Handle("POST /api/rooms/v1", admin(s.addRoomHandler))
	r.Handle("DELETE /api/rooms/v1/{id}", admin(s.deleteRoomHandler))

	r.Handle("POST /api/rooms/v1/{id}/bookings", maybeAuthed(s.bookRoomHandler))
	r.Handle("GET /api/rooms/v1/{id}/bookings", admin(s.roomBookingsHandler))
	r.Handle("GET /api/bookings/v1", admin(s.allBookingsHandler))
	r.Handle("GET /api/bookings/v1/guest/{email}", authed(s.guestBookingsHandler))
	r.Handle("GET /api/bookings/v1/confirmation/{code}", std(s.bookingByCodeHandler))
	r.Handle("DELETE /api/bookings/v1/{id}", authed(s.cancelBookingHandler))

	r.Handle("GET /api/users/v1", admin(s.listUsersHandler))
	r.Handle("DELETE /api/users/v1/{email}", admin(s.deleteUserHandler))
	r.Handle("GET /api/roles/v1", admin(s.listRolesHandler))
	r.Handle("POST /api/roles/v1", admin(s.createRoleHandler))
	r.Handle("DELETE /api/roles/v1/{id}", admin(s.deleteRoleHandler))
	r.Handle("POST /api/roles/v1/{id}/users/{userId}", admin(s.assignRoleHandler))
	r.Handle("DELETE /api/roles/v1/{id}/users/{userId}", admin(s.removeRoleHandler))

	r.Handle("GET /api/boards/v1", std(s.listBoardsHandler))
	r.Handle("GET /api/boards/v1/{id}", std(s.getBoardHandler))
	r.Handle("POST /api/boards/v1", authed(s.createBoardHandler))
	r.Handle("PUT /api/boards/v1/{id}", authed(s.updateBoardHandler))
	r.Handle("DELETE /api/boards/v1/{id}", authed(s.deleteBoardHandler))
	r.Handle("GET /api/boards/v1/{id}/comments", std(s.listCommentsHandler))
	r.Handle("POST /api/boards/v1/{id}/comments", authed(s.createCommentHandler))
	r.Handle("PUT /api/comments/v1/{id}", authed(s.updateCommentHandler))
	r.Handle("DELETE /api/comments/v1/{id}", authed(s.deleteCommentHandler))
}

func (s *Server) livenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if body == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.l.LogErrorf("Could not encode response: %v", err.Error())
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	if inputErr := booking.IsInputError(err); inputErr != nil {
		s.respondJSON(w, http.StatusBadRequest, map[string]any{"fields": inputErr.Fields()})

		return
	}

	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, booking.ErrInvalidRange):
		status = http.StatusBadRequest
	case errors.Is(err, booking.ErrRoomNotFound),
		errors.Is(err, booking.ErrRecordNotFound),
		errors.Is(err, rooms.ErrRoomNotFound),
		errors.Is(err, member.ErrUserNotFound),
		errors.Is(err, member.ErrRoleNotFound),
		errors.Is(err, forum.ErrBoardNotFound),
		errors.Is(err, forum.ErrCommentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, booking.ErrRoomUnavailable),
		errors.Is(err, member.ErrEmailTaken),
		errors.Is(err, member.ErrRoleExists),
		errors.Is(err, member.ErrRoleAlreadyGranted):
		status = http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, auth.ErrRefreshNotFound):
		status = http.StatusUnauthorized
	case errors.Is(err, forum.ErrNotAuthor):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		s.l.LogErrorf("Request failed: %v", err.Error())
		http.Error(w, http.StatusText(status), status)

		return
	}

	s.respondJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return false
	}

	if err := s.validate.Struct(dst); err != nil {
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})

		return false
	}

	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return 0, false
	}

	return id, true
}

func (s *Server) accountID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := booking.AccountFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)

		return 0, false
	}

	return id, true
}
