package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

var (
	// ErrExpired 签名有效但已过期，可走 refresh
	ErrExpired = errors.New("token expired")
	// ErrInvalid 签名/claims 非法，不可恢复
	ErrInvalid = errors.New("token invalid")
)

type Claims struct {
	Type string `json:"typ"` // "access" or "refresh"
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssueAccess 签发访问令牌，sub 为 user_id
func (j *JWTer) IssueAccess(sub string) (string, error) {
	return j.issue(sub, TokenAccess, j.AccessTTL)
}

// IssueRefresh 签发刷新令牌
func (j *JWTer) IssueRefresh(sub string) (string, error) {
	return j.issue(sub, TokenRefresh, j.RefreshTTL)
}

// IssuePair 登录/注册/刷新统一走这里，两个令牌总是成对签发
func (j *JWTer) IssuePair(sub string) (access, refresh string, err error) {
	if access, err = j.IssueAccess(sub); err != nil {
		return "", "", err
	}
	if refresh, err = j.IssueRefresh(sub); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (j *JWTer) issue(sub, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			// 同一秒内轮换出的令牌也要彼此不同
			ID: uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// Parse 校验并解出 claims；过期返回 ErrExpired，其余问题一律 ErrInvalid
func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, ErrInvalid
	}
	return c, nil
}

// ParseType 在 Parse 之上再校验 typ，防止拿 refresh 当 access 用
func (j *JWTer) ParseType(tokenStr, typ string) (*Claims, error) {
	c, err := j.Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if c.Type != typ {
		return nil, ErrInvalid
	}
	return c, nil
}
