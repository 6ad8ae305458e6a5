// Package identity models the signed-in player. The simulation never consults
// it directly: platforms sign in through a Provider and pass the resulting
// snapshot into each session.
package identity

import (
	"context"
	"errors"
	"os"
	"os/user"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrNoUsername is returned when a provider has no name to sign in with.
var ErrNoUsername = errors.New("identity: no username available")

// namespace scopes the name-based user IDs so they stay stable across runs.
var namespace = uuid.MustParse("6f1c3b0e-2a4d-4a8e-9c1f-5b7d2e8a9c10")

// UserIdentity identifies the player a finished run belongs to.
type UserIdentity struct {
	ID       string
	Username string
	Email    string
}

// DisplayName returns the best human-readable name for the user.
func (u UserIdentity) DisplayName() string {
	switch {
	case u.Username != "":
		return u.Username
	case u.Email != "":
		return u.Email
	default:
		return "Anonymous"
	}
}

// Provider signs players in and out.
type Provider interface {
	SignIn(ctx context.Context) (UserIdentity, error)
	SignOut(ctx context.Context) error
}

// LocalProvider signs in a fixed local name, such as the OS account or the
// SSH user of a remote session. IDs are derived from the name, so the same
// player keeps the same leaderboard row.
type LocalProvider struct {
	mu       sync.Mutex
	username string
	email    string
	current  *UserIdentity
}

// NewLocalProvider creates a provider for the given username.
func NewLocalProvider(username, email string) *LocalProvider {
	return &LocalProvider{
		username: strings.TrimSpace(username),
		email:    strings.TrimSpace(email),
	}
}

// FromOS creates a provider for the current OS account.
func FromOS() *LocalProvider {
	name := os.Getenv("USER")
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	return NewLocalProvider(name, "")
}

// SignIn implements Provider.
func (p *LocalProvider) SignIn(ctx context.Context) (UserIdentity, error) {
	if err := ctx.Err(); err != nil {
		return UserIdentity{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.username == "" {
		return UserIdentity{}, ErrNoUsername
	}
	id := UserIdentity{
		ID:       UserID(p.username),
		Username: p.username,
		Email:    p.email,
	}
	p.current = &id
	return id, nil
}

// SignOut implements Provider.
func (p *LocalProvider) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()
	return nil
}

// Current returns a copy of the signed-in identity, or nil when signed out.
func (p *LocalProvider) Current() *UserIdentity {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	id := *p.current
	return &id
}

// UserID derives the stable user ID for a username.
func UserID(username string) string {
	return uuid.NewSHA1(namespace, []byte(strings.ToLower(username))).String()
}
