package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alignwork/api/internal/platform/apperr"
	"github.com/alignwork/api/internal/platform/auth"
	"github.com/alignwork/api/internal/platform/db"
	"github.com/alignwork/api/internal/platform/token"
	"github.com/alignwork/api/internal/platform/validation"
)

type Service struct {
	repo   Repository
	tokens *token.Service
	tx     db.TxRunner
}

func NewService(repo Repository, tokens *token.Service, tx db.TxRunner) *Service {
	return &Service{repo: repo, tokens: tokens, tx: tx}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Register creates an account and issues a token pair for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, TokenPair, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return nil, TokenPair{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, TokenPair{}, apperr.Internal(err)
	}

	u := &User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     true,
	}
	err = s.tx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict("email already registered")
		}
		return s.repo.Create(ctx, u)
	})
	if isUniqueViolation(err) {
		return nil, TokenPair{}, apperr.Conflict("email already registered")
	}
	if err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.issuePair(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Login validates credentials and issues a token pair. The failure message
// never reveals whether the email exists.
func (s *Service) Login(ctx context.Context, in LoginInput) (*User, TokenPair, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return nil, TokenPair{}, err
	}

	u, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if u == nil || !auth.VerifyPassword(u.PasswordHash, in.Password) {
		return nil, TokenPair{}, apperr.Unauthenticated("incorrect email or password")
	}
	if !u.IsActive {
		return nil, TokenPair{}, apperr.AccountInactive("inactive user")
	}

	pair, err := s.issuePair(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh verifies a refresh token and rotates both tokens.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*User, TokenPair, error) {
	id, err := s.tokens.Verify(refreshToken, token.TypeRefresh)
	if err != nil {
		return nil, TokenPair{}, apperr.Unauthenticated("invalid refresh token")
	}

	u, err := s.repo.FindByEmail(ctx, id.Email)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if u == nil || !u.IsActive {
		return nil, TokenPair{}, apperr.Unauthenticated("invalid refresh token")
	}

	pair, err := s.issuePair(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

// UpdateProfile applies a patch to the user's profile. An email change is
// re-checked for uniqueness inside the same transaction as the write.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, p Patch) (*User, error) {
	if p.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*p.Email))
		p.Email = &lowered
	}
	if err := validation.Struct(p); err != nil {
		return nil, err
	}

	var updated *User
	err := s.tx(ctx, func(ctx context.Context) error {
		u, err := s.repo.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return apperr.NotFound("user not found")
		}

		if p.Email != nil && *p.Email != u.Email {
			other, err := s.repo.FindByEmail(ctx, *p.Email)
			if err != nil {
				return err
			}
			if other != nil && other.ID != userID {
				return apperr.Conflict("email already in use")
			}
		}

		next := ApplyPatch(*u, p)
		if err := s.repo.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if isUniqueViolation(err) {
		return nil, apperr.Conflict("email already in use")
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetProfilePhoto persists the stored photo URL on the user.
func (s *Service) SetProfilePhoto(ctx context.Context, userID int64, url string) (*User, error) {
	return s.setPhoto(ctx, userID, &url)
}

// RemoveProfilePhoto clears the stored photo URL. It returns the previous
// URL so the caller can release the stored object.
func (s *Service) RemoveProfilePhoto(ctx context.Context, userID int64) (string, error) {
	var previous string
	err := s.tx(ctx, func(ctx context.Context) error {
		u, err := s.repo.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return apperr.NotFound("user not found")
		}
		if u.ProfilePhotoURL != nil {
			previous = *u.ProfilePhotoURL
		}
		u.ProfilePhotoURL = nil
		return s.repo.Update(ctx, u)
	})
	if err != nil {
		return "", err
	}
	return previous, nil
}

func (s *Service) setPhoto(ctx context.Context, userID int64, url *string) (*User, error) {
	var updated *User
	err := s.tx(ctx, func(ctx context.Context) error {
		u, err := s.repo.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return apperr.NotFound("user not found")
		}
		u.ProfilePhotoURL = url
		if err := s.repo.Update(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) issuePair(u *User) (TokenPair, error) {
	id := token.Identity{Email: u.Email, UserID: u.ID}
	access, err := s.tokens.IssueAccess(id)
	if err != nil {
		return TokenPair{}, apperr.Internal(err)
	}
	refresh, err := s.tokens.IssueRefresh(id)
	if err != nil {
		return TokenPair{}, apperr.Internal(err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// AccountSource adapts the repository to the session middleware.
type AccountSource struct {
	Repo Repository
}

func (a AccountSource) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	u, err := a.Repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return &auth.Account{ID: u.ID, Email: u.Email, Active: u.IsActive}, nil
}
