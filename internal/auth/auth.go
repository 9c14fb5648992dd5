// Package auth issues and verifies JWT sessions for the back office.
// Access tokens are short-lived HS256 JWTs; refresh tokens are opaque
// ids held by the token store. Revocation is a deny-list of token ids
// kept until the token would have expired anyway.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/roomstay/backoffice/internal/logger"
	"github.com/roomstay/backoffice/internal/member"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrRefreshNotFound    = errors.New("refresh token not found or expired")
)

type Claims struct {
	UserID int      `json:"uid"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Config struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Service struct {
	l       *logger.Logger
	conf    Config
	members *member.Manager
	store   TokenStore
}

func New(l *logger.Logger, conf Config, members *member.Manager, store TokenStore) *Service {
	return &Service{
		l:       l,
		conf:    conf,
		members: members,
		store:   store,
	}
}

// Login verifies the account's password and mints a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.members.Authenticate(ctx, email, password)
	if errors.Is(err, member.ErrUserNotFound) || errors.Is(err, member.ErrInvalidPassword) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("authenticate %v: %w", email, err)
	}

	return s.mint(ctx, user)
}

func (s *Service) mint(ctx context.Context, user *member.User) (*TokenPair, error) {
	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, r.Name)
	}

	now := time.Now().UTC()
	claims := &Claims{
		UserID: user.ID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{ //nolint:exhaustruct
			Subject:   user.Email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.conf.AccessTTL)),
		},
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.conf.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := uuid.NewString()
	if err := s.store.SaveRefresh(ctx, refresh, user.Email, s.conf.RefreshTTL); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify parses and validates an access token and checks it against
// the revocation list.
func (s *Service) Verify(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{} //nolint:exhaustruct

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v: %w", t.Header["alg"], ErrInvalidToken)
		}

		return s.conf.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	revoked, err := s.store.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation list: %w", err)
	}

	if revoked {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// Refresh trades a refresh token for a fresh pair. The refresh token
// is single-use.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	email, err := s.store.TakeRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.members.UserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load account for refresh: %w", err)
	}

	return s.mint(ctx, user)
}

// Revoke invalidates an access token for the remainder of its life.
func (s *Service) Revoke(ctx context.Context, token string) error {
	claims, err := s.Verify(ctx, token)
	if errors.Is(err, ErrTokenRevoked) {
		return nil
	}

	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	if err := s.store.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("add token to revocation list: %w", err)
	}

	return nil
}
