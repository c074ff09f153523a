package auth

import (
	"strings"
	"testing"
	"time"
)

func testJWTer() *JWTer {
	return &JWTer{
		Secret:     []byte("test-secret"),
		Issuer:     "pg-hostel-api",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func TestIssuePairAndParse(t *testing.T) {
	j := testJWTer()
	access, refresh, err := j.IssuePair("user_1")
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}
	if access == refresh {
		t.Fatal("access and refresh must differ")
	}

	c, err := j.ParseType(access, TokenAccess)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if c.Subject != "user_1" {
		t.Fatalf("subject = %q, want user_1", c.Subject)
	}

	c, err = j.ParseType(refresh, TokenRefresh)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if c.Type != TokenRefresh {
		t.Fatalf("typ = %q, want refresh", c.Type)
	}
}

func TestParseTypeRejectsWrongType(t *testing.T) {
	j := testJWTer()
	access, refresh, _ := j.IssuePair("user_1")

	if _, err := j.ParseType(refresh, TokenAccess); err != ErrInvalid {
		t.Fatalf("refresh-as-access: got %v, want ErrInvalid", err)
	}
	if _, err := j.ParseType(access, TokenRefresh); err != ErrInvalid {
		t.Fatalf("access-as-refresh: got %v, want ErrInvalid", err)
	}
}

func TestParseExpired(t *testing.T) {
	j := testJWTer()
	j.AccessTTL = -time.Minute
	tok, err := j.IssueAccess("user_1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := j.Parse(tok); err != ErrExpired {
		t.Fatalf("got %v, want ErrExpired", err)
	}
}

func TestParseTampered(t *testing.T) {
	j := testJWTer()
	tok, _ := j.IssueAccess("user_1")

	// 破坏签名段
	parts := strings.Split(tok, ".")
	parts[2] = "x" + parts[2]
	if _, err := j.Parse(strings.Join(parts, ".")); err != ErrInvalid {
		t.Fatalf("tampered token: got %v, want ErrInvalid", err)
	}

	// 换密钥签出来的也不认
	other := testJWTer()
	other.Secret = []byte("other-secret")
	tok, _ = other.IssueAccess("user_1")
	if _, err := j.Parse(tok); err != ErrInvalid {
		t.Fatalf("foreign token: got %v, want ErrInvalid", err)
	}
}

func TestSameSubjectTokensAreUnique(t *testing.T) {
	j := testJWTer()
	a1, _ := j.IssueAccess("user_1")
	a2, _ := j.IssueAccess("user_1")
	if a1 == a2 {
		t.Fatal("two tokens for the same subject must not be identical")
	}
}

func TestBlacklist(t *testing.T) {
	bl := NewBlacklist()
	bl.Add("tok-a", time.Now().Add(time.Hour))

	if !bl.Contains("tok-a") {
		t.Fatal("tok-a should be blacklisted")
	}
	if bl.Contains("tok-b") {
		t.Fatal("tok-b should not be blacklisted")
	}
}

func TestBlacklistSweepsExpired(t *testing.T) {
	bl := NewBlacklist()
	bl.Add("old", time.Now().Add(-time.Hour))
	// 下一次写入触发懒清扫
	bl.Add("fresh", time.Now().Add(time.Hour))

	if bl.Contains("old") {
		t.Fatal("expired entry should have been swept")
	}
	if !bl.Contains("fresh") {
		t.Fatal("fresh entry must survive the sweep")
	}
	if bl.Len() != 1 {
		t.Fatalf("len = %d, want 1", bl.Len())
	}
}
