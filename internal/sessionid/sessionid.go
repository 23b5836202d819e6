// Package sessionid issues the patient session token used to correlate one
// browsing session's actions.
//
// Tokens have the form PAT-<unix millis>-<0..999>. They are unique enough to
// correlate a session and nothing more: never treat one as a credential.
package sessionid

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Key is the session store key the token is kept under.
const Key = "patientSessionId"

// Store is the session-scoped key/value store the token lives in.
// The patient-session middleware adapts fiber sessions to it.
type Store interface {
	Get(key string) any
	Set(key string, value any)
	Delete(key string)
}

// Provider creates and looks up session tokens.
type Provider struct {
	now  func() time.Time
	intn func(n int) int
}

// NewProvider creates a provider using the wall clock and math/rand.
func NewProvider() *Provider {
	return &Provider{now: time.Now, intn: rand.IntN}
}

// NewToken generates a fresh token without storing it.
func (p *Provider) NewToken() string {
	return fmt.Sprintf("PAT-%d-%d", p.now().UnixMilli(), p.intn(1000))
}

// GetOrCreate returns the token held in store, creating and storing one on
// the first call for that store.
func (p *Provider) GetOrCreate(store Store) string {
	if v, ok := store.Get(Key).(string); ok && v != "" {
		return v
	}
	token := p.NewToken()
	store.Set(Key, token)
	return token
}

// Context is a session token bound to the store it was created in.
// Open it once per browsing session and Close it when the session ends.
type Context struct {
	provider *Provider
	store    Store
	token    string
}

// Open binds a context to store. The token is created lazily on first use.
func (p *Provider) Open(store Store) *Context {
	return &Context{provider: p, store: store}
}

// Token returns the session token, creating it if needed.
func (c *Context) Token() string {
	if c.token == "" {
		c.token = c.provider.GetOrCreate(c.store)
	}
	return c.token
}

// Close removes the token from the store. A later Open on the same store
// starts a new token.
func (c *Context) Close() {
	c.store.Delete(Key)
	c.token = ""
}
