package token

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// Store 登录令牌存储。令牌是不透明的随机值，注销即失效，
// 进程内实现不持久化，重启后所有会话作废。
type Store interface {
	// Issue 为用户签发一个新令牌
	Issue(userID string) (string, error)
	// Validate 返回令牌对应的用户ID；未知或过期的令牌返回 ok=false 而不是错误
	Validate(tok string) (userID string, ok bool)
	// Revoke 使令牌立即失效，幂等
	Revoke(tok string) error
}

type entry struct {
	userID    string
	expiresAt time.Time
}

// MemoryStore 进程内令牌表，后台每小时清理过期条目
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]entry
	ttl    time.Duration
	stop   chan struct{}
	once   sync.Once
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s := &MemoryStore{
		tokens: make(map[string]entry),
		ttl:    ttl,
		stop:   make(chan struct{}),
	}
	go s.sweep(time.Hour)
	return s
}

func newToken() (string, error) {
	// 256位随机值
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *MemoryStore) Issue(userID string) (string, error) {
	tok, err := newToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.tokens[tok] = entry{userID: userID, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return tok, nil
}

func (s *MemoryStore) Validate(tok string) (string, bool) {
	s.mu.RLock()
	e, exists := s.tokens[tok]
	s.mu.RUnlock()

	if !exists {
		return "", false
	}
	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.tokens, tok)
		s.mu.Unlock()
		return "", false
	}
	return e.userID, true
}

func (s *MemoryStore) Revoke(tok string) error {
	s.mu.Lock()
	delete(s.tokens, tok)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for tok, e := range s.tokens {
				if now.After(e.expiresAt) {
					delete(s.tokens, tok)
				}
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}

// Stop 结束后台清理协程
func (s *MemoryStore) Stop() {
	s.once.Do(func() { close(s.stop) })
}
