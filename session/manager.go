// Package session owns the client's authentication state: who is signed in,
// their opaque API token, and the cached profile blob. The manager is
// constructed once at startup and passed to whatever needs it; there is no
// package-level singleton.
package session

import (
	"errors"

	"go.uber.org/zap"

	"github.com/tobiusaolo/Cariya-wallet/logger"
	"github.com/tobiusaolo/Cariya-wallet/models"
)

// ErrNoIdentifier is returned when a sign-in or sign-up result carries no
// user identifier under any of the accepted keys.
var ErrNoIdentifier = errors.New("session: server response missing user identifier")

// ErrNoToken is returned when the server omits a token and the compat
// fallback is disabled.
var ErrNoToken = errors.New("session: server response missing token")

// compatToken is the placeholder the original client stored when the server
// omitted a token. Only used when Options.CompatTokenFallback is set.
const compatToken = "dummy-token"

// CredentialsResult is a successful login response plus whatever profile
// data the caller wants cached for the session's lifetime.
type CredentialsResult struct {
	Token    string
	UniqueID string
	UserID   string
	UserInfo models.UserInfo
}

// RegistrationResult is a successful registration response. The identifier
// arrives as UniqueID or GeneratedID depending on server version.
type RegistrationResult struct {
	Token       string
	UniqueID    string
	GeneratedID string
	UserInfo    models.UserInfo
}

// Options tunes manager behavior.
type Options struct {
	// CompatTokenFallback restores the legacy behavior of filling in a
	// placeholder token when the server omits one. Off by default: a login
	// without a token is treated as a failed login.
	CompatTokenFallback bool
}

// Manager is the single source of truth for "is a user authenticated, and as
// whom". All mutation happens on the caller's goroutine in response to
// sequential user actions; the manager does no locking of its own.
type Manager struct {
	store Store
	opts  Options

	token    string
	userID   string
	userInfo models.UserInfo
}

// NewManager wraps a Store. Call Bootstrap before gating any screens on
// Authenticated.
func NewManager(store Store, opts Options) *Manager {
	return &Manager{store: store, opts: opts}
}

// Bootstrap restores persisted session state. It never fails the caller:
// a storage read error is logged and treated as "no session", leaving the
// manager unauthenticated. Half-populated persisted data is also treated as
// no session.
func (m *Manager) Bootstrap() {
	rec, err := m.store.Load()
	if err != nil {
		logger.Get().Warn("failed to load persisted session, starting signed out", zap.Error(err))
		return
	}
	if rec.Empty() {
		return
	}
	m.token = rec.Token
	m.userID = rec.UserID
	m.userInfo = rec.UserInfo
}

// SignIn accepts a login result and moves the manager to the authenticated
// state. The identifier is read from UniqueID, falling back to UserID. If
// persisting the session fails the error is logged and the in-memory state is
// still updated, so the user stays signed in for this process.
func (m *Manager) SignIn(res CredentialsResult) error {
	id := res.UniqueID
	if id == "" {
		id = res.UserID
	}
	return m.establish(res.Token, id, res.UserInfo)
}

// SignUp accepts a registration result. Identical contract to SignIn except
// the identifier falls back from UniqueID to GeneratedID.
func (m *Manager) SignUp(res RegistrationResult) error {
	id := res.UniqueID
	if id == "" {
		id = res.GeneratedID
	}
	return m.establish(res.Token, id, res.UserInfo)
}

func (m *Manager) establish(token, id string, info models.UserInfo) error {
	if id == "" {
		return ErrNoIdentifier
	}
	if token == "" {
		if !m.opts.CompatTokenFallback {
			return ErrNoToken
		}
		token = compatToken
	}

	if err := m.store.Save(Record{Token: token, UserID: id, UserInfo: info}); err != nil {
		logger.Get().Error("failed to persist session", zap.Error(err), zap.String("user_id", id))
	}
	m.token = token
	m.userID = id
	m.userInfo = info
	return nil
}

// SignOut clears the persisted and in-memory session unconditionally.
// Idempotent: signing out while signed out is a no-op.
func (m *Manager) SignOut() {
	if err := m.store.Clear(); err != nil {
		logger.Get().Error("failed to clear persisted session", zap.Error(err))
	}
	m.token = ""
	m.userID = ""
	m.userInfo = nil
}

// Authenticated reports whether a user is signed in. Screens gate solely on
// this.
func (m *Manager) Authenticated() bool {
	return m.token != ""
}

// Token returns the current API token, or "" when signed out.
func (m *Manager) Token() string {
	return m.token
}

// UserID returns the current user identifier, or "" when signed out.
func (m *Manager) UserID() string {
	return m.userID
}

// UserInfo returns the cached profile blob, or nil when absent.
func (m *Manager) UserInfo() models.UserInfo {
	return m.userInfo
}
