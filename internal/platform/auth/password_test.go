package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestHashAndVerifyBcrypt(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if DetectScheme(hash) != SchemeBcrypt {
		t.Fatalf("scheme = %v, want bcrypt", DetectScheme(hash))
	}
	if !VerifyPassword(hash, "correct horse battery staple") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong password") {
		t.Error("wrong password accepted")
	}
}

func TestVerifyLegacySHA256(t *testing.T) {
	sum := sha256.Sum256([]byte("legacy-secret"))
	stored := hex.EncodeToString(sum[:])

	if DetectScheme(stored) != SchemeLegacySHA256 {
		t.Fatalf("scheme = %v, want legacy", DetectScheme(stored))
	}
	if !VerifyPassword(stored, "legacy-secret") {
		t.Error("correct legacy password rejected")
	}
	if VerifyPassword(stored, "other") {
		t.Error("wrong legacy password accepted")
	}
}

func TestDetectSchemeDispatchesOnFormat(t *testing.T) {
	cases := []struct {
		stored string
		want   HashScheme
	}{
		{"$2a$10$abcdefghijklmnopqrstuv", SchemeBcrypt},
		{"$2b$12$abcdefghijklmnopqrstuv", SchemeBcrypt},
		{"$2y$10$abcdefghijklmnopqrstuv", SchemeBcrypt},
		{"0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", SchemeLegacySHA256},
		{"plaintext", SchemeUnknown},
		{"", SchemeUnknown},
	}
	for _, tc := range cases {
		if got := DetectScheme(tc.stored); got != tc.want {
			t.Errorf("DetectScheme(%q) = %v, want %v", tc.stored, got, tc.want)
		}
	}
}

func TestVerifyUnknownSchemeRejects(t *testing.T) {
	if VerifyPassword("not-a-hash", "anything") {
		t.Error("unknown scheme must reject, not probe")
	}
}
