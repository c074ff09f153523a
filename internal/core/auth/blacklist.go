package auth

import (
	"sync"
	"time"
)

// Blacklist 进程级令牌吊销表。logout 把当前 access token 加进来，
// 鉴权中间件在签名/过期校验之外还要查这里。
// 条目带上令牌自身的过期时间，懒清扫时可以安全丢掉已过期的。
type Blacklist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time // token -> 令牌过期时间
}

func NewBlacklist() *Blacklist {
	return &Blacklist{revoked: make(map[string]time.Time)}
}

func (b *Blacklist) Add(token string, expiresAt time.Time) {
	b.mu.Lock()
	b.revoked[token] = expiresAt
	b.sweepLocked(time.Now())
	b.mu.Unlock()
}

func (b *Blacklist) Contains(token string) bool {
	b.mu.RLock()
	_, ok := b.revoked[token]
	b.mu.RUnlock()
	return ok
}

func (b *Blacklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.revoked)
}

// sweepLocked 丢弃已经自然过期的条目，decode 侧反正会拒绝它们
func (b *Blacklist) sweepLocked(now time.Time) {
	for tok, exp := range b.revoked {
		if !exp.IsZero() && now.After(exp) {
			delete(b.revoked, tok)
		}
	}
}
