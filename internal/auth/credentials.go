package auth

import (
	"errors"
	"fmt"
	"strings"

	"mosdac/internal/store"
)

const tokenKey = "auth_token"

// Credentials persists the bearer token. Token presence is the only
// "logged in" signal anywhere in the client; expiry is discovered
// reactively through a 401 on any call.
type Credentials struct {
	store store.Store
}

func NewCredentials(st store.Store) *Credentials {
	return &Credentials{store: st}
}

// SetToken stores the bearer token, replacing any previous one.
func (c *Credentials) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is empty")
	}
	if err := c.store.Set(tokenKey, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

// Token returns the stored token; ok is false when none is persisted.
func (c *Credentials) Token() (string, bool) {
	raw, err := c.store.Get(tokenKey)
	if err != nil {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	return raw, true
}

func (c *Credentials) HasToken() bool {
	_, ok := c.Token()
	return ok
}

// ClearToken removes the persisted token. A missing token is not an error.
func (c *Credentials) ClearToken() error {
	if err := c.store.Delete(tokenKey); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
