package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestService() *Service {
	return NewService("test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAccessRoundTrip(t *testing.T) {
	svc := newTestService()
	id := Identity{Email: "dr@clinic.example", UserID: 42}

	tok, err := svc.IssueAccess(id)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	got, err := svc.Verify(tok, TypeAccess)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != id {
		t.Errorf("identity = %+v, want %+v", got, id)
	}
}

func TestRefreshRoundTrip(t *testing.T) {
	svc := newTestService()
	id := Identity{Email: "dr@clinic.example", UserID: 42}

	tok, err := svc.IssueRefresh(id)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if _, err := svc.Verify(tok, TypeRefresh); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestTypeMismatch(t *testing.T) {
	svc := newTestService()
	id := Identity{Email: "dr@clinic.example", UserID: 42}

	access, _ := svc.IssueAccess(id)
	if _, err := svc.Verify(access, TypeRefresh); !errors.Is(err, ErrTokenTypeMismatch) {
		t.Errorf("access as refresh: err = %v, want ErrTokenTypeMismatch", err)
	}

	refresh, _ := svc.IssueRefresh(id)
	if _, err := svc.Verify(refresh, TypeAccess); !errors.Is(err, ErrTokenTypeMismatch) {
		t.Errorf("refresh as access: err = %v, want ErrTokenTypeMismatch", err)
	}
}

func TestExpiredToken(t *testing.T) {
	svc := newTestService()
	tok, _ := svc.IssueAccess(Identity{Email: "dr@clinic.example", UserID: 42})

	svc.now = func() time.Time { return time.Now().Add(16 * time.Minute) }
	if _, err := svc.Verify(tok, TypeAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expired token: err = %v, want ErrTokenInvalid", err)
	}
}

func TestWrongSecret(t *testing.T) {
	tok, _ := newTestService().IssueAccess(Identity{Email: "dr@clinic.example", UserID: 42})

	other := NewService("other-secret", 15*time.Minute, 7*24*time.Hour)
	if _, err := other.Verify(tok, TypeAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("wrong secret: err = %v, want ErrTokenInvalid", err)
	}
}

func TestClaimsMissing(t *testing.T) {
	svc := newTestService()

	// Signed correctly but without the user_id claim.
	claims := &Claims{Type: TypeAccess}
	claims.Subject = "dr@clinic.example"
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.Verify(tok, TypeAccess); !errors.Is(err, ErrClaimsMissing) {
		t.Errorf("missing user_id: err = %v, want ErrClaimsMissing", err)
	}
}

func TestGarbageToken(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Verify("not.a.token", TypeAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("garbage: err = %v, want ErrTokenInvalid", err)
	}
}
