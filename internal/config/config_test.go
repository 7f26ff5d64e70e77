package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_MODE", "GEMINI_API_KEY", "GEMINI_MODEL", "DEMO_MODE",
		"ASSESS_TIMEOUT", "MAX_UPLOAD_BYTES", "REDIS_ADDR", "CORS_ALLOWED_ORIGIN"} {
		t.Setenv(key, "")
	}
	t.Setenv("DATABASE_URL", "postgres://localhost/skills")

	cfg, err := NewServerConfig()
	require.NoError(t, err)

	assert.Equal(t, "5050", cfg.Port)
	assert.False(t, cfg.DemoMode)
	assert.Equal(t, 60*time.Second, cfg.AssessTimeout)
	assert.Equal(t, int64(12<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "*", cfg.AllowedOrigin)
	assert.Empty(t, cfg.GeminiAPIKey)
}

func TestNewServerConfig_FromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/skills")
	t.Setenv("PORT", "8080")
	t.Setenv("DEMO_MODE", "true")
	t.Setenv("GEMINI_API_KEY", " key ")
	t.Setenv("ASSESS_TIMEOUT", "5s")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := NewServerConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.DemoMode)
	assert.Equal(t, "key", cfg.GeminiAPIKey)
	assert.Equal(t, 5*time.Second, cfg.AssessTimeout)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestNewServerConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database", map[string]string{"DATABASE_URL": ""}},
		{"bad demo flag", map[string]string{"DEMO_MODE": "maybe"}},
		{"bad timeout", map[string]string{"ASSESS_TIMEOUT": "soon"}},
		{"zero timeout", map[string]string{"ASSESS_TIMEOUT": "0s"}},
		{"bad upload limit", map[string]string{"MAX_UPLOAD_BYTES": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://localhost/skills")
			t.Setenv("DEMO_MODE", "")
			t.Setenv("ASSESS_TIMEOUT", "")
			t.Setenv("MAX_UPLOAD_BYTES", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := NewServerConfig()
			assert.Error(t, err)
		})
	}
}

func TestNewOTPConfig(t *testing.T) {
	t.Setenv("OTP_TTL", "")
	t.Setenv("UNVERIFIED_RETENTION", "")
	t.Setenv("SWEEP_INTERVAL", "")
	t.Setenv("OTP_TEST_MODE", "")

	cfg, err := NewOTPConfig()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.TTL)
	assert.Equal(t, 24*time.Hour, cfg.Retention)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.False(t, cfg.TestMode)

	t.Setenv("OTP_TTL", "30s")
	_, err = NewOTPConfig()
	assert.Error(t, err)

	t.Setenv("OTP_TTL", "15m")
	t.Setenv("SWEEP_INTERVAL", "0")
	t.Setenv("OTP_TEST_MODE", "1")
	cfg, err = NewOTPConfig()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.TTL)
	assert.Zero(t, cfg.SweepInterval)
	assert.True(t, cfg.TestMode)
}

func TestLoadCLIConfig(t *testing.T) {
	content := `{
		"store_path": "/tmp/skills.json",
		"goal_role": "Data Analyst",
		"demo_mode": true
	}`
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadCLIConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/skills.json", cfg.StorePath)
	assert.Equal(t, "Data Analyst", cfg.GoalRole)
	assert.True(t, cfg.DemoMode)
}

func TestLoadCLIConfig_Errors(t *testing.T) {
	_, err := LoadCLIConfig("")
	assert.Error(t, err)

	_, err = LoadCLIConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{ invalid json }"), 0o644))
	_, err = LoadCLIConfig(path)
	assert.Error(t, err)
}

func TestCLIConfig_MergeWithDefaults(t *testing.T) {
	cfg := CLIConfig{GoalRole: "Backend Developer"}
	merged := cfg.MergeWithDefaults(CLIConfig{
		StorePath: "/data/store.json",
		GoalRole:  "Data Analyst",
		Model:     "gemini-2.0-flash",
		DemoMode:  true,
	})

	assert.Equal(t, "/data/store.json", merged.StorePath)
	assert.Equal(t, "Backend Developer", merged.GoalRole)
	assert.Equal(t, "gemini-2.0-flash", merged.Model)
	assert.False(t, merged.DemoMode)
}
