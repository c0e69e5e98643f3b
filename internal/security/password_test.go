package security_test

import (
	"testing"

	"github.com/tazhibayda/gist-tracker/internal/security"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := security.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}
	if !security.CheckPassword(hash, "correct horse battery staple") {
		t.Fatal("correct password rejected")
	}
	if security.CheckPassword(hash, "wrong password") {
		t.Fatal("wrong password accepted")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	if security.CheckPassword("not-a-bcrypt-hash", "anything") {
		t.Fatal("malformed hash verified")
	}
	if security.CheckPassword("", "anything") {
		t.Fatal("empty hash verified")
	}
}
