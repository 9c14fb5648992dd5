package member_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/roomstay/backoffice/internal/logger"
	"github.com/roomstay/backoffice/internal/member"
	"github.com/roomstay/backoffice/internal/storage/memory"
)

func newManager(t *testing.T) *member.Manager {
	t.Helper()

	l := logger.New(log.New(io.Discard, "", 0))

	return member.New(l, memory.New(memory.Config{L: l}))
}

func register(t *testing.T, m *member.Manager, email string) *member.User {
	t.Helper()

	user, err := m.Register(context.Background(), &member.RegisterInput{
		FirstName: "Sam",
		LastName:  "Lee",
		Email:     email,
		Password:  "long-enough-password",
	})
	if err != nil {
		t.Fatalf("register %v: %v", email, err)
	}

	return user
}

func TestRegisterHashesPassword(t *testing.T) {
	m := newManager(t)

	user := register(t, m, "sam@example.com")

	if user.PasswordHash == "long-enough-password" {
		t.Error("password stored in plain text")
	}

	if _, err := m.Authenticate(context.Background(), "sam@example.com", "long-enough-password"); err != nil {
		t.Errorf("Authenticate() with correct password: %v", err)
	}

	if _, err := m.Authenticate(context.Background(), "sam@example.com", "wrong"); !errors.Is(err, member.ErrInvalidPassword) {
		t.Errorf("Authenticate() with wrong password = %v, want ErrInvalidPassword", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	m := newManager(t)

	register(t, m, "sam@example.com")

	_, err := m.Register(context.Background(), &member.RegisterInput{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "sam@example.com",
		Password:  "another-password",
	})
	if !errors.Is(err, member.ErrEmailTaken) {
		t.Errorf("Register() error = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	m := newManager(t)

	_, err := m.Register(context.Background(), &member.RegisterInput{
		FirstName: "",
		LastName:  "",
		Email:     "nope",
		Password:  "short",
	})
	if err == nil {
		t.Fatal("Register() accepted invalid input")
	}
}

func TestRoleLifecycle(t *testing.T) {
	m := newManager(t)

	user := register(t, m, "sam@example.com")

	role, err := m.CreateRole(context.Background(), "ROLE_MANAGER")
	if err != nil {
		t.Fatalf("CreateRole(): %v", err)
	}

	if _, err := m.CreateRole(context.Background(), "ROLE_MANAGER"); !errors.Is(err, member.ErrRoleExists) {
		t.Errorf("duplicate CreateRole() = %v, want ErrRoleExists", err)
	}

	if err := m.AssignRole(context.Background(), user.ID, role.ID); err != nil {
		t.Fatalf("AssignRole(): %v", err)
	}

	if err := m.AssignRole(context.Background(), user.ID, role.ID); !errors.Is(err, member.ErrRoleAlreadyGranted) {
		t.Errorf("second AssignRole() = %v, want ErrRoleAlreadyGranted", err)
	}

	loaded, err := m.UserByEmail(context.Background(), "sam@example.com")
	if err != nil {
		t.Fatalf("UserByEmail(): %v", err)
	}

	if !loaded.HasRole("ROLE_MANAGER") {
		t.Error("granted role missing from loaded user")
	}

	if err := m.RemoveRole(context.Background(), user.ID, role.ID); err != nil {
		t.Fatalf("RemoveRole(): %v", err)
	}

	loaded, err = m.UserByEmail(context.Background(), "sam@example.com")
	if err != nil {
		t.Fatalf("UserByEmail(): %v", err)
	}

	if loaded.HasRole("ROLE_MANAGER") {
		t.Error("revoked role still present on loaded user")
	}
}

func TestDeleteUser(t *testing.T) {
	m := newManager(t)

	register(t, m, "sam@example.com")

	if err := m.DeleteUser(context.Background(), "sam@example.com"); err != nil {
		t.Fatalf("DeleteUser(): %v", err)
	}

	if _, err := m.UserByEmail(context.Background(), "sam@example.com"); !errors.Is(err, member.ErrUserNotFound) {
		t.Errorf("UserByEmail() after delete = %v, want ErrUserNotFound", err)
	}
}
