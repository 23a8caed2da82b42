package hash

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHashAndVerify(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost, "")

	hashed, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if !h.Verify(string(hashed), "correct horse battery staple") {
		t.Fatal("expected hash to verify")
	}
	if h.Verify(string(hashed), "wrong password") {
		t.Fatal("wrong password must not verify")
	}
}

func TestBcryptPepperChangesOutcome(t *testing.T) {
	peppered := NewBcrypt(bcrypt.MinCost, "pepper-1")
	other := NewBcrypt(bcrypt.MinCost, "pepper-2")

	hashed, err := peppered.Hash("secret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if !peppered.Verify(string(hashed), "secret") {
		t.Fatal("same pepper must verify")
	}
	if other.Verify(string(hashed), "secret") {
		t.Fatal("different pepper must not verify")
	}
}
