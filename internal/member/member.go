// Package member manages user accounts and their roles.
package member

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"golang.org/x/crypto/bcrypt"

	"github.com/roomstay/backoffice/internal/booking"
	"github.com/roomstay/backoffice/internal/logger"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrRoleExists         = errors.New("a role with this name already exists")
	ErrRoleAlreadyGranted = errors.New("user already has this role")
	ErrInvalidPassword    = errors.New("invalid password")
)

type storage interface {
	SaveUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	DeleteUser(ctx context.Context, userID int) error

	SaveRole(ctx context.Context, role *Role) error
	GetRole(ctx context.Context, roleID int) (*Role, error)
	GetRoleByName(ctx context.Context, name string) (*Role, error)
	ListRoles(ctx context.Context) ([]*Role, error)
	DeleteRole(ctx context.Context, roleID int) error

	GrantRole(ctx context.Context, userID, roleID int) error
	RevokeRole(ctx context.Context, userID, roleID int) error
	ListUserRoles(ctx context.Context, userID int) ([]*Role, error)
}

type Manager struct {
	l       *logger.Logger
	storage storage
}

func New(l *logger.Logger, storage storage) *Manager {
	return &Manager{l: l, storage: storage}
}

type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (i *RegisterInput) validate() error {
	inputErr := booking.NewInputError()

	if _, err := mail.ParseAddress(i.Email); err != nil {
		inputErr.AddError("email", "provide valid email")
	}

	if len(i.Password) < 8 { //nolint:gomnd
		inputErr.AddError("password", "password must be at least 8 characters")
	}

	if i.FirstName == "" {
		inputErr.AddError("first_name", "provide first name")
	}

	if inputErr.FieldsCount() > 0 {
		return inputErr
	}

	return nil
}

// Register creates an account with a bcrypt-hashed password and the
// default user role.
func (m *Manager) Register(ctx context.Context, input *RegisterInput) (*User, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if _, err := m.storage.GetUserByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, booking.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email %v: %w", input.Email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{ //nolint:exhaustruct // id is assigned by storage
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: string(hash),
	}

	if err := m.storage.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user to storage: %w", err)
	}

	if role, err := m.storage.GetRoleByName(ctx, RoleUser); err == nil {
		if err := m.storage.GrantRole(ctx, user.ID, role.ID); err != nil && !errors.Is(err, ErrRoleAlreadyGranted) {
			return nil, fmt.Errorf("grant default role: %w", err)
		}
	}

	return user, nil
}

// Authenticate verifies the password for an account and returns it
// with roles loaded.
func (m *Manager) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := m.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}

	return user, nil
}

func (m *Manager) UserByEmail(ctx context.Context, email string) (*User, error) {
	user, err := m.storage.GetUserByEmail(ctx, email)
	if errors.Is(err, booking.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("load user %v from storage: %w", email, err)
	}

	roles, err := m.storage.ListUserRoles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list roles for user %v: %w", user.ID, err)
	}

	user.Roles = roles

	return user, nil
}

func (m *Manager) Users(ctx context.Context) ([]*User, error) {
	users, err := m.storage.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

func (m *Manager) DeleteUser(ctx context.Context, email string) error {
	user, err := m.UserByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := m.storage.DeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user %v from storage: %w", user.ID, err)
	}

	return nil
}

func (m *Manager) CreateRole(ctx context.Context, name string) (*Role, error) {
	if _, err := m.storage.GetRoleByName(ctx, name); err == nil {
		return nil, ErrRoleExists
	} else if !errors.Is(err, booking.ErrRecordNotFound) {
		return nil, fmt.Errorf("check role name %v: %w", name, err)
	}

	role := &Role{Name: name} //nolint:exhaustruct // id is assigned by storage

	if err := m.storage.SaveRole(ctx, role); err != nil {
		return nil, fmt.Errorf("save role to storage: %w", err)
	}

	return role, nil
}

func (m *Manager) Roles(ctx context.Context) ([]*Role, error) {
	roles, err := m.storage.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	return roles, nil
}

func (m *Manager) DeleteRole(ctx context.Context, roleID int) error {
	if _, err := m.storage.GetRole(ctx, roleID); errors.Is(err, booking.ErrRecordNotFound) {
		return ErrRoleNotFound
	} else if err != nil {
		return fmt.Errorf("load role %v from storage: %w", roleID, err)
	}

	if err := m.storage.DeleteRole(ctx, roleID); err != nil {
		return fmt.Errorf("delete role %v from storage: %w", roleID, err)
	}

	return nil
}

func (m *Manager) AssignRole(ctx context.Context, userID, roleID int) error {
	if err := m.storage.GrantRole(ctx, userID, roleID); err != nil {
		if errors.Is(err, ErrRoleAlreadyGranted) {
			return err
		}

		return fmt.Errorf("grant role %v to user %v: %w", roleID, userID, err)
	}

	return nil
}

func (m *Manager) RemoveRole(ctx context.Context, userID, roleID int) error {
	if err := m.storage.RevokeRole(ctx, userID, roleID); err != nil {
		return fmt.Errorf("revoke role %v from user %v: %w", roleID, userID, err)
	}

	return nil
}
