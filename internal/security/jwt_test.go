package security_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tazhibayda/gist-tracker/internal/security"
)

const secret = "test-secret-test-secret-test-1234"

func TestAccessRoundTrip(t *testing.T) {
	tok, err := security.MakeAccess(secret, "u1", "u@example.com")
	if err != nil {
		t.Fatal(err)
	}
	c, err := security.ParseAccess(secret, tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.UID != "u1" || c.Email != "u@example.com" {
		t.Fatalf("claims mismatch: %#v", c)
	}
	if until := time.Until(c.ExpiresAt.Time); until > security.TokenTTL || until < security.TokenTTL-time.Minute {
		t.Fatalf("unexpected expiry: %v away", until)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	tok, err := security.MakeAccess(secret, "u1", "u@example.com")
	if err != nil {
		t.Fatal(err)
	}
	// flip one byte in the payload segment
	parts := strings.Split(tok, ".")
	payload := []byte(parts[1])
	if payload[3] == 'A' {
		payload[3] = 'B'
	} else {
		payload[3] = 'A'
	}
	parts[1] = string(payload)
	if _, err := security.ParseAccess(secret, strings.Join(parts, ".")); err == nil {
		t.Fatal("tampered token accepted")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	tok, err := security.MakeAccess(secret, "u1", "u@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := security.ParseAccess("some-other-secret", tok); err == nil {
		t.Fatal("token verified with wrong secret")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	c := security.Claims{
		UID: "u1", Email: "u@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
			Subject:   "u1",
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := security.ParseAccess(secret, tok); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestAlgNoneRejected(t *testing.T) {
	c := security.Claims{UID: "u1", Email: "u@example.com"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := security.ParseAccess(secret, tok); err == nil {
		t.Fatal("unsigned token accepted")
	}
}
