package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpire(t *testing.T) {
	cases := map[string]time.Duration{
		"7d":  7 * 24 * time.Hour,
		"2h":  2 * time.Hour,
		"30m": 30 * time.Minute,
		"45s": 45 * time.Second,
	}
	for input, want := range cases {
		got, err := ParseExpire(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"", "d", "7", "7w", "abc", "1.5h"} {
		_, err := ParseExpire(input)
		assert.Error(t, err, input)
	}
}

func TestLoadRequiresTokenSecrets(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("REFRESH_TOKEN_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")
	t.Setenv("ACCESS_TOKEN_EXPIRE", "")
	t.Setenv("REFRESH_TOKEN_EXPIRE", "")
	t.Setenv("TIME_EXPIRE_PASSWORD", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.Token.AccessExpire)
	assert.Equal(t, 7*24*time.Hour, cfg.Token.RefreshExpire)
	assert.Equal(t, time.Hour, cfg.Reset.PasswordExpire)
}
