package session

import "github.com/svega/cinelist/api"

// Memory is an in-memory session store for tests and embedding.
type Memory struct {
	token string
	user  *api.User
}

var (
	_ Store           = (*Memory)(nil)
	_ api.TokenSource = (*Memory)(nil)
)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Save commits a new session.
func (m *Memory) Save(token string, user *api.User) error {
	m.token = token
	m.user = user
	return nil
}

// Clear removes the session.
func (m *Memory) Clear() error {
	m.token = ""
	m.user = nil
	return nil
}

// Token returns the stored credential, or "".
func (m *Memory) Token() string {
	return m.token
}

// User returns the cached profile, or nil.
func (m *Memory) User() *api.User {
	return m.user
}

// IsAuthenticated reports whether a credential is present.
func (m *Memory) IsAuthenticated() bool {
	return m.token != ""
}
