package hashing

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_HashAndCompare(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	hash, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("пароль не захэширован")
	}
	if !h.Compare(hash, "secret123") {
		t.Fatal("верный пароль не прошёл проверку")
	}
	if h.Compare(hash, "wrong") {
		t.Fatal("неверный пароль прошёл проверку")
	}
}
