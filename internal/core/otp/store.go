// Package otp 维护激活验证码：按邮箱存一条 {code, expires}，
// 进程重启即全部丢失（可接受，resend 可恢复）。
package otp

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

const DefaultTTL = 10 * time.Minute

type entry struct {
	code    string
	expires time.Time
}

type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	pending map[string]entry

	now func() time.Time // 测试用
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:     ttl,
		pending: make(map[string]entry),
		now:     time.Now,
	}
}

// Issue 生成 6 位数字验证码并覆盖该邮箱此前未用的那条。
// 不做频控，重复申请就是静默换码。
func (s *Store) Issue(identifier string) string {
	code := fmt.Sprintf("%06d", 100000+rand.IntN(900000))
	s.mu.Lock()
	s.pending[identifier] = entry{code: code, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return code
}

// Validate 码对且未过期才返回 true，成功即删（一次性）。
// 失败不动状态；过期条目留在原处，由下次 Issue 覆盖。
func (s *Store) Validate(identifier, submitted string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.pending[identifier]
	if !ok {
		return false
	}
	if !s.now().Before(e.expires) {
		return false
	}
	if e.code != submitted {
		return false
	}
	delete(s.pending, identifier)
	return true
}
