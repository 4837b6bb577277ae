package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func run(t *testing.T, mw echo.MiddlewareFunc, req *http.Request, handler echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(handler)(c)
	return rec, err
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestRequestIDGenerated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	var seen string
	rec, err := run(t, RequestID(), req, func(c echo.Context) error {
		seen, _ = c.Get("request_id").(string)
		return c.NoContent(http.StatusOK)
	})
	if err != nil {
		t.Fatal(err)
	}
	if seen == "" {
		t.Fatal("request_id not set on context")
	}
	if rec.Header().Get("X-Request-ID") != seen {
		t.Fatal("header and context request ids differ")
	}
}

func TestRequestIDHonorsClientHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	rec, err := run(t, RequestID(), req, okHandler)
	if err != nil {
		t.Fatal(err)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "client-supplied-id" {
		t.Fatalf("X-Request-ID = %q", got)
	}
}

func TestNoStore(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, err := run(t, NoStore(), req, okHandler)
	if err != nil {
		t.Fatal(err)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("Cache-Control = %q", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, err := run(t, SecurityHeaders(), req, okHandler)
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "no-referrer",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
	if csp := rec.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "default-src 'none'") {
		t.Errorf("Content-Security-Policy = %q", csp)
	}
}

func TestRecoveryConvertsPanic(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := run(t, Recovery(zerolog.Nop()), req, func(c echo.Context) error {
		panic("handler exploded")
	})

	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("err = %v, want *echo.HTTPError", err)
	}
	if he.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", he.Code)
	}
}

func TestRecoveryPassesThroughNormalErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	want := echo.NewHTTPError(http.StatusNotFound, "gone")
	_, err := run(t, Recovery(zerolog.Nop()), req, func(c echo.Context) error {
		return want
	})
	if err != want {
		t.Fatalf("err = %v, want %v", err, want)
	}
}

func TestLimiterExhaustsAndRefills(t *testing.T) {
	l := NewLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d denied within burst", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("request allowed past the burst")
	}

	// Separate keys have separate buckets.
	if !l.Allow("10.0.0.2") {
		t.Fatal("fresh key denied")
	}
}

func TestLimiterMiddleware429(t *testing.T) {
	l := NewLimiter(1, time.Hour)
	mw := l.Middleware()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.5")

	if _, err := run(t, mw, req, okHandler); err != nil {
		t.Fatalf("first request: %v", err)
	}

	rec, err := run(t, mw, req, okHandler)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusTooManyRequests {
		t.Fatalf("err = %v, want 429", err)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("Retry-After not set")
	}
}

func TestBodyLimitRejectsDeclaredOversize(t *testing.T) {
	body := strings.NewReader(strings.Repeat("x", 64))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", body)
	req.ContentLength = 64

	_, err := run(t, BodyLimit(32, 1024), req, okHandler)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("err = %v, want 413", err)
	}
}

func TestBodyLimitRejectsOversizeStream(t *testing.T) {
	body := strings.NewReader(strings.Repeat("x", 64))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", body)
	req.ContentLength = -1 // chunked, size unknown up front

	_, err := run(t, BodyLimit(32, 1024), req, func(c echo.Context) error {
		buf := make([]byte, 128)
		_, readErr := c.Request().Body.Read(buf)
		return readErr
	})
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("err = %v, want 413", err)
	}
}

func TestBodyLimitAllowsUploadOnPhotoRoute(t *testing.T) {
	body := strings.NewReader(strings.Repeat("x", 64))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/me/profile-photo", body)
	req.ContentLength = 64

	if _, err := run(t, BodyLimit(32, 1024), req, okHandler); err != nil {
		t.Fatalf("upload within upload limit rejected: %v", err)
	}
}

func TestBodyLimitPassesSmallBody(t *testing.T) {
	body := strings.NewReader("hi")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", body)
	req.ContentLength = 2

	if _, err := run(t, BodyLimit(32, 1024), req, okHandler); err != nil {
		t.Fatalf("small body rejected: %v", err)
	}
}

func TestRequestTimeout(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := run(t, RequestTimeout(20*time.Millisecond), req, func(c echo.Context) error {
		select {
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		case <-time.After(5 * time.Second):
			return okHandler(c)
		}
	})

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusGatewayTimeout {
		t.Fatalf("err = %v, want 504", err)
	}
}

func TestRequestTimeoutFastHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, err := run(t, RequestTimeout(time.Second), req, okHandler)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
