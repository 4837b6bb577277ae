// Package token issues and verifies the two classes of session credentials:
// short-lived access tokens and longer-lived refresh tokens. Tokens are
// self-contained HS256 JWTs; nothing here touches storage.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrTokenInvalid      = errors.New("token invalid or expired")
	ErrTokenTypeMismatch = errors.New("token type mismatch")
	ErrClaimsMissing     = errors.New("token claims missing")
)

// Identity is the subject a token speaks for.
type Identity struct {
	Email  string
	UserID int64
}

// Claims is the JWT payload. Subject carries the email; Type discriminates
// access from refresh so one can never stand in for the other.
type Claims struct {
	UserID int64  `json:"user_id"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// Service signs and verifies session tokens with a shared secret.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	now func() time.Time
}

func NewService(secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// AccessTTL returns the configured access token lifetime.
func (s *Service) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (s *Service) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccess signs a new access token for id.
func (s *Service) IssueAccess(id Identity) (string, error) {
	return s.issue(id, TypeAccess, s.accessTTL)
}

// IssueRefresh signs a new refresh token for id.
func (s *Service) IssueRefresh(id Identity) (string, error) {
	return s.issue(id, TypeRefresh, s.refreshTTL)
}

func (s *Service) issue(id Identity, typ string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: id.UserID,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates tokenStr, requiring the embedded type tag to
// equal expectedType. It returns the identity claims only; whether the
// account still exists or is active is the caller's concern.
func (s *Service) Verify(tokenStr, expectedType string) (Identity, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return Identity{}, ErrTokenInvalid
	}
	if claims.Subject == "" || claims.UserID == 0 {
		return Identity{}, ErrClaimsMissing
	}
	if claims.Type != expectedType {
		return Identity{}, ErrTokenTypeMismatch
	}
	return Identity{Email: claims.Subject, UserID: claims.UserID}, nil
}
