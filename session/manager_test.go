package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobiusaolo/Cariya-wallet/models"
)

func TestSignInThenBootstrapRoundTrip(t *testing.T) {
	store := &MemoryStore{}
	m := NewManager(store, Options{})

	info := models.UserInfo{"firstName": "Amina", "mobileNumber": "+256700000001"}
	err := m.SignIn(CredentialsResult{Token: "tok-1", UniqueID: "user-1", UserInfo: info})
	require.NoError(t, err)

	assert.True(t, m.Authenticated())
	assert.Equal(t, "user-1", m.UserID())
	assert.Equal(t, info, m.UserInfo())

	// Simulate a restart: fresh manager over the same store.
	m2 := NewManager(store, Options{})
	assert.False(t, m2.Authenticated())
	m2.Bootstrap()
	assert.True(t, m2.Authenticated())
	assert.Equal(t, "tok-1", m2.Token())
	assert.Equal(t, "user-1", m2.UserID())
	assert.Equal(t, info, m2.UserInfo())
}

func TestSignInIdentifierFallback(t *testing.T) {
	m := NewManager(&MemoryStore{}, Options{})
	require.NoError(t, m.SignIn(CredentialsResult{Token: "t", UserID: "fallback-id"}))
	assert.Equal(t, "fallback-id", m.UserID())
}

func TestSignInMissingIdentifier(t *testing.T) {
	m := NewManager(&MemoryStore{}, Options{})
	err := m.SignIn(CredentialsResult{Token: "t"})
	assert.ErrorIs(t, err, ErrNoIdentifier)
	assert.False(t, m.Authenticated())
}

func TestSignInMissingToken(t *testing.T) {
	m := NewManager(&MemoryStore{}, Options{})
	err := m.SignIn(CredentialsResult{UniqueID: "user-1"})
	assert.ErrorIs(t, err, ErrNoToken)
	assert.False(t, m.Authenticated())
}

func TestSignInCompatTokenFallback(t *testing.T) {
	store := &MemoryStore{}
	m := NewManager(store, Options{CompatTokenFallback: true})
	require.NoError(t, m.SignIn(CredentialsResult{UniqueID: "user-1"}))
	assert.True(t, m.Authenticated())
	assert.Equal(t, "dummy-token", m.Token())
}

func TestSignUpIdentifierFallback(t *testing.T) {
	m := NewManager(&MemoryStore{}, Options{})
	require.NoError(t, m.SignUp(RegistrationResult{Token: "t", GeneratedID: "gen-9"}))
	assert.Equal(t, "gen-9", m.UserID())

	m2 := NewManager(&MemoryStore{}, Options{})
	require.NoError(t, m2.SignUp(RegistrationResult{Token: "t", UniqueID: "uniq-1", GeneratedID: "gen-9"}))
	assert.Equal(t, "uniq-1", m2.UserID())
}

func TestSignInSavesDespitePersistError(t *testing.T) {
	store := &MemoryStore{SaveErr: errors.New("disk full")}
	m := NewManager(store, Options{})

	// Persistence failure is logged, not surfaced; the in-memory session is
	// still established.
	require.NoError(t, m.SignIn(CredentialsResult{Token: "t", UniqueID: "user-1"}))
	assert.True(t, m.Authenticated())
	assert.Equal(t, "user-1", m.UserID())
}

func TestBootstrapFailsOpen(t *testing.T) {
	store := &MemoryStore{LoadErr: errors.New("corrupt db")}
	m := NewManager(store, Options{})
	m.Bootstrap()
	assert.False(t, m.Authenticated())
	assert.Empty(t, m.UserID())
}

func TestBootstrapIgnoresHalfPopulatedRecord(t *testing.T) {
	store := &MemoryStore{}
	require.NoError(t, store.Save(Record{Token: "tok-only"}))

	m := NewManager(store, Options{})
	m.Bootstrap()
	assert.False(t, m.Authenticated())
}

func TestSignOutClearsEverythingAndIsIdempotent(t *testing.T) {
	store := &MemoryStore{}
	m := NewManager(store, Options{})
	require.NoError(t, m.SignIn(CredentialsResult{
		Token:    "t",
		UniqueID: "user-1",
		UserInfo: models.UserInfo{"firstName": "Amina"},
	}))

	m.SignOut()
	assert.False(t, m.Authenticated())
	assert.Empty(t, m.Token())
	assert.Empty(t, m.UserID())
	assert.Nil(t, m.UserInfo())

	// Second sign-out is a no-op.
	m.SignOut()
	assert.False(t, m.Authenticated())

	// Restart after sign-out yields an empty session.
	m2 := NewManager(store, Options{})
	m2.Bootstrap()
	assert.False(t, m2.Authenticated())
	assert.Empty(t, m2.UserID())
	assert.Nil(t, m2.UserInfo())
}
