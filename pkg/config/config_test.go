package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigUsesJWTSecretFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret-value")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "unit-test-secret-value", cfg.JWTSecret)
}

func TestLoadConfigGeneratesFallbackJWTSecret(t *testing.T) {
	// t.Setenv registers the restore, Unsetenv makes the variable absent.
	t.Setenv("JWT_SECRET", "placeholder")
	os.Unsetenv("JWT_SECRET")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.NotEqual(t, "a-very-secret-key-should-be-longer-and-random", cfg.JWTSecret)
	// 32 random bytes, hex encoded.
	assert.Len(t, cfg.JWTSecret, 64)

	other, err := LoadConfig()
	require.NoError(t, err)
	assert.NotEqual(t, cfg.JWTSecret, other.JWTSecret)
}
