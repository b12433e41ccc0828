package gate

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// JoinToken is a short-lived opaque credential minted by the gate and
// presented as the "token" query parameter when opening a WebSocket
// connection.
type JoinToken struct {
	Token    string
	Context  string
	IssuedAt time.Time
}

// TokenStore maps opaque join tokens to the context that requested
// them. Tokens are looked up by the connection handshake but never
// invalidated: a token stays valid, and reusable, for the process
// lifetime.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]JoinToken
}

func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[string]JoinToken)}
}

// Issue mints a fresh random token bound to the given context.
func (s *TokenStore) Issue(context string) JoinToken {
	t := JoinToken{
		Token:    uuid.NewString(),
		Context:  context,
		IssuedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[t.Token] = t
	return t
}

// Lookup resolves a token to its issuance record.
func (s *TokenStore) Lookup(token string) (JoinToken, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tokens[token]
	return t, ok
}
