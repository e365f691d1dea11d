package auth

import (
	"sync"
	"time"

	"github.com/fedamerd/msgraph-go/internal/constants"
)

// Token holds an access token issued for a tenant together with its
// expiry. Tokens are replaced on renewal, never mutated in place.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"-"`
	Tenant      string    `json:"-"`
}

// Valid reports whether the token can still back a request, applying the
// default safety margin.
func (t *Token) Valid() bool {
	return t.ValidWithin(constants.DefaultTokenSafetyMargin)
}

// ValidWithin reports whether the token remains usable for at least the
// given margin. A token with no expiry never goes stale locally.
func (t *Token) ValidWithin(margin time.Duration) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Before(t.ExpiresAt.Add(-margin))
}

// TokenStore provides concurrency-safe storage for the current token.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates a new empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored token, or nil if none is set.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set replaces the stored token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}
