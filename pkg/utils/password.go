package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt 只看前 72 字节，超长口令先过一遍 sha256 再喂给它，
// 两侧走同一条路径，不会出现截断后碰撞
func normalizePassword(pw string) []byte {
	if len(pw) <= 72 {
		return []byte(pw)
	}
	sum := sha256.Sum256([]byte(pw))
	return []byte(hex.EncodeToString(sum[:]))
}

func HashPassword(pw string) string {
	b, _ := bcrypt.GenerateFromPassword(normalizePassword(pw), bcrypt.DefaultCost)
	return string(b)
}

// CheckPassword 存储散列损坏时返回 false，不抛错
func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), normalizePassword(pw)) == nil
}
