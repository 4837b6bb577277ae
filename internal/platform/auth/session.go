package auth

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/alignwork/api/internal/platform/apperr"
	"github.com/alignwork/api/internal/platform/token"
)

// Account is the minimal identity attached to an authenticated request.
type Account struct {
	ID     int64
	Email  string
	Active bool
}

// AccountSource resolves a token subject to a stored account. Returning
// (nil, nil) means no such account.
type AccountSource interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

type accountCtxKey struct{}

// AccountFromContext returns the account resolved by the session middleware,
// or nil for anonymous requests.
func AccountFromContext(ctx context.Context) *Account {
	acct, _ := ctx.Value(accountCtxKey{}).(*Account)
	return acct
}

func resolve(c echo.Context, tokens *token.Service, accounts AccountSource) (*Account, error) {
	cookie, err := c.Cookie(AccessCookie)
	if err != nil || cookie.Value == "" {
		return nil, apperr.Unauthenticated("not authenticated")
	}

	id, err := tokens.Verify(cookie.Value, token.TypeAccess)
	if err != nil {
		return nil, apperr.Unauthenticated("could not validate credentials")
	}

	acct, err := accounts.FindByEmail(c.Request().Context(), id.Email)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, apperr.Unauthenticated("could not validate credentials")
	}
	if !acct.Active {
		return nil, apperr.AccountInactive("inactive user")
	}
	return acct, nil
}

func withAccount(c echo.Context, acct *Account) {
	ctx := context.WithValue(c.Request().Context(), accountCtxKey{}, acct)
	c.SetRequest(c.Request().WithContext(ctx))
}

// RequireSession rejects requests that do not carry a valid access-token
// cookie for an active account.
func RequireSession(tokens *token.Service, accounts AccountSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acct, err := resolve(c, tokens, accounts)
			if err != nil {
				return err
			}
			withAccount(c, acct)
			return next(c)
		}
	}
}

// OptionalSession resolves the session when present but lets anonymous or
// failed authentication through with no identity attached.
func OptionalSession(tokens *token.Service, accounts AccountSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if acct, err := resolve(c, tokens, accounts); err == nil {
				withAccount(c, acct)
			}
			return next(c)
		}
	}
}
