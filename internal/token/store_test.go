package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreIssueValidate(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Stop()

	tok, err := s.Issue("user-1")
	require.NoError(t, err)
	assert.Len(t, tok, 64) // 256位随机值的hex编码

	userID, ok := s.Validate(tok)
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)

	_, ok = s.Validate("no-such-token")
	assert.False(t, ok)
}

func TestMemoryStoreTokensAreUnique(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Stop()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := s.Issue("user-1")
		require.NoError(t, err)
		assert.False(t, seen[tok])
		seen[tok] = true
	}
}

func TestMemoryStoreRevoke(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Stop()

	tok, err := s.Issue("user-1")
	require.NoError(t, err)

	require.NoError(t, s.Revoke(tok))
	_, ok := s.Validate(tok)
	assert.False(t, ok)

	// 撤销是幂等的
	require.NoError(t, s.Revoke(tok))
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(20 * time.Millisecond)
	defer s.Stop()

	tok, err := s.Issue("user-1")
	require.NoError(t, err)

	_, ok := s.Validate(tok)
	assert.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	_, ok = s.Validate(tok)
	assert.False(t, ok)
}
