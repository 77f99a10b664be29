package utils

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(hash, "secret1") {
		t.Fatal("hash leaks the plain password")
	}
	if !VerifyPassword(hash, "secret1") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "secret2") {
		t.Error("wrong password accepted")
	}
	if VerifyPassword("not-a-bcrypt-hash", "secret1") {
		t.Error("garbage hash accepted")
	}
}
