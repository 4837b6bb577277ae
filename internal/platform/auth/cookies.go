package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// CookieConfig controls how session cookies are written. Secure is off in
// development so the frontend can run over plain HTTP.
type CookieConfig struct {
	Secure bool
}

func sessionCookie(name, value string, maxAge time.Duration, cfg CookieConfig) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	}
}

// SetSessionCookies delivers both token classes as httpOnly cookies with
// max-ages matching each token's lifetime.
func SetSessionCookies(c echo.Context, access, refresh string, accessTTL, refreshTTL time.Duration, cfg CookieConfig) {
	c.SetCookie(sessionCookie(AccessCookie, access, accessTTL, cfg))
	c.SetCookie(sessionCookie(RefreshCookie, refresh, refreshTTL, cfg))
}

// ClearSessionCookies expires both cookies. Tokens already issued stay valid
// until their natural expiry; there is no revocation list.
func ClearSessionCookies(c echo.Context, cfg CookieConfig) {
	for _, name := range []string{AccessCookie, RefreshCookie} {
		cookie := sessionCookie(name, "", 0, cfg)
		cookie.MaxAge = -1
		c.SetCookie(cookie)
	}
}
