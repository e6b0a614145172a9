package services

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_CheckPassword(t *testing.T) {
	s := NewAuthService(bcrypt.MinCost)
	hash, err := s.HashPassword("123456")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "123456" {
		t.Fatal("hash must differ from the password")
	}

	if ok, legacy := s.CheckPassword("123456", hash); !ok || legacy {
		t.Fatalf("hash: ok=%v legacy=%v", ok, legacy)
	}
	if ok, _ := s.CheckPassword("654321", hash); ok {
		t.Fatal("wrong password matched hash")
	}
	if ok, legacy := s.CheckPassword("123456", "123456"); !ok || !legacy {
		t.Fatalf("plaintext: ok=%v legacy=%v", ok, legacy)
	}
	if ok, _ := s.CheckPassword("", ""); ok {
		t.Fatal("empty stored value must never match")
	}
}
