package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashScheme identifies how a stored password hash was produced. New hashes
// are always bcrypt; the legacy SHA-256 hex digest survives only for accounts
// created before the migration.
type HashScheme int

const (
	SchemeUnknown HashScheme = iota
	SchemeBcrypt
	SchemeLegacySHA256
)

// DetectScheme classifies a stored hash by its format. Verification
// dispatches on this tag; there is no try-one-then-fall-back probing.
func DetectScheme(stored string) HashScheme {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return SchemeBcrypt
	}
	if len(stored) == 64 && isHex(stored) {
		return SchemeLegacySHA256
	}
	return SchemeUnknown
}

func isHex(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') && (r < 'A' || r > 'F') {
			return false
		}
	}
	return true
}

// HashPassword produces a bcrypt hash for a new or changed password.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword checks plain against stored under the scheme the stored
// format declares. Unknown formats never verify.
func VerifyPassword(stored, plain string) bool {
	switch DetectScheme(stored) {
	case SchemeBcrypt:
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
	case SchemeLegacySHA256:
		sum := sha256.Sum256([]byte(plain))
		digest := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(stored))) == 1
	default:
		return false
	}
}
