package web

import (
	"net/http"

	"github.com/roomstay/backoffice/internal/member"
)

type registerDTO struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

type loginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type logoutDTO struct {
	AccessToken string `json:"access_token" validate:"required"`
}

type createRoleDTO struct {
	Name string `json:"name" validate:"required"`
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var dto registerDTO
	if !s.decode(w, r, &dto) {
		return
	}

	user, err := s.members.Register(r.Context(), &member.RegisterInput{
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
		Password:  dto.Password,
	})
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusCreated, user)
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var dto loginDTO
	if !s.decode(w, r, &dto) {
		return
	}

	pair, err := s.auth.Login(r.Context(), dto.Email, dto.Password)
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusOK, pair)
}

func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	var dto refreshDTO
	if !s.decode(w, r, &dto) {
		return
	}

	pair, err := s.auth.Refresh(r.Context(), dto.RefreshToken)
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusOK, pair)
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	var dto logoutDTO
	if !s.decode(w, r, &dto) {
		return
	}

	if err := s.auth.Revoke(r.Context(), dto.AccessToken); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.members.Users(r.Context())
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusOK, users)
}

func (s *Server) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	if email == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}

	if err := s.members.DeleteUser(r.Context(), email); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listRolesHandler(w http.ResponseWriter, r *http.Request) {
	roles, err := s.members.Roles(r.Context())
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusOK, roles)
}

func (s *Server) createRoleHandler(w http.ResponseWriter, r *http.Request) {
	var dto createRoleDTO
	if !s.decode(w, r, &dto) {
		return
	}

	role, err := s.members.CreateRole(r.Context(), dto.Name)
	if err != nil {
		s.respondError(w, err)

		return
	}

	s.respondJSON(w, http.StatusCreated, role)
}

func (s *Server) deleteRoleHandler(w http.ResponseWriter, r *http.Request) {
	roleID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.members.DeleteRole(r.Context(), roleID); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) assignRoleHandler(w http.ResponseWriter, r *http.Request) {
	roleID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	if err := s.members.AssignRole(r.Context(), userID, roleID); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeRoleHandler(w http.ResponseWriter, r *http.Request) {
	roleID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	if err := s.members.RemoveRole(r.Context(), userID, roleID); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
