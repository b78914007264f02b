package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// t.Setenv registers restoration; Unsetenv makes LookupEnv miss so the
	// fallback paths run.
	for _, key := range []string{"PORT", "APP_ENV", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := Load()

	require.Equal(t, "3000", cfg.Port)
	require.Equal(t, "development", cfg.Env)
	require.Len(t, cfg.AllowedOrigins, len(defaultOrigins))
}

func TestGetEnv_Fallback(t *testing.T) {
	require.Equal(t, "fallback", getEnv("TASKHIVE_TEST_UNSET_KEY", "fallback"))

	t.Setenv("TASKHIVE_TEST_SET_KEY", "value")
	require.Equal(t, "value", getEnv("TASKHIVE_TEST_SET_KEY", "fallback"))
}

func TestParseAllowedOrigins(t *testing.T) {
	origins := parseAllowedOrigins(" https://app.example.com , ,https://admin.example.com")

	require.Len(t, origins, len(defaultOrigins)+2)
	require.Contains(t, origins, "https://app.example.com")
	require.Contains(t, origins, "https://admin.example.com")
	require.Contains(t, origins, "http://localhost:3000")
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("APP_ENV", "test")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := Load()

	require.Equal(t, "9999", cfg.Port)
	require.Equal(t, "test", cfg.Env)
	require.Equal(t, "s3cret", cfg.JWTSecret)
}
