package utils

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	h := HashPassword("pw1")
	if h == "pw1" || h == "" {
		t.Fatal("hash must not be empty or plaintext")
	}
	if !CheckPassword("pw1", h) {
		t.Fatal("correct password must verify")
	}
	if CheckPassword("pw2", h) {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashEmptyPassword(t *testing.T) {
	h := HashPassword("")
	if !CheckPassword("", h) {
		t.Fatal("empty password must round-trip")
	}
	if CheckPassword("x", h) {
		t.Fatal("non-empty input must not match empty-password hash")
	}
}

func TestHashVeryLongPassword(t *testing.T) {
	long := strings.Repeat("a", 200)
	h := HashPassword(long)
	if !CheckPassword(long, h) {
		t.Fatal("long password must round-trip")
	}
	// bcrypt 原生会在 72 字节处截断；前 72 字节相同的不同口令不能互相通过
	if CheckPassword(long[:100], h) {
		t.Fatal("truncation collision: shorter prefix must not verify")
	}
}

func TestCheckMalformedHash(t *testing.T) {
	if CheckPassword("pw1", "not-a-bcrypt-hash") {
		t.Fatal("malformed hash must fail verification, not panic")
	}
	if CheckPassword("pw1", "") {
		t.Fatal("empty hash must fail verification")
	}
}
