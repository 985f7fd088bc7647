package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBeforeInitIsSafe(t *testing.T) {
	// The default logger is a nop, never nil.
	require.NotNil(t, Get())
	Get().Info("should not panic")
}

func TestInitDevelopment(t *testing.T) {
	require.NoError(t, Init(true, DebugLevel, ""))
	assert.NotNil(t, Get())
	assert.True(t, Get().Core().Enabled(-1)) // debug level
}

func TestInitProductionWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.log")
	require.NoError(t, Init(false, InfoLevel, path))

	Get().Info("hello")
	require.NoError(t, Sync())

	assert.FileExists(t, path)
}

func TestInitUnknownLevelDefaultsToInfo(t *testing.T) {
	require.NoError(t, Init(true, LogLevel("bogus"), ""))
	assert.False(t, Get().Core().Enabled(-1)) // debug disabled
	assert.True(t, Get().Core().Enabled(0))   // info enabled
}
