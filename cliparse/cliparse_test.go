package cliparse

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DATABASE_URL", "DATABASE_TYPE", "NATS_URL", "POLICY_FILE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("NATS_URL", "nats://localhost:4222")
	t.Setenv("POLICY_FILE", "/etc/sharevote/policy.yaml")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := ParseFlags([]string{})
	require.NoError(t, err)

	assert.Equal(t, Config{
		Port:         9000,
		DatabaseURL:  "postgres://test",
		DatabaseType: "postgres",
		NATSURL:      "nats://localhost:4222",
		PolicyFile:   "/etc/sharevote/policy.yaml",
		LogLevel:     "debug",
	}, cfg)
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "postgres")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-t", "sqlite", "--nats", "nats://n:4222"})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "file:test.db", cfg.DatabaseURL)
	assert.Equal(t, "nats://n:4222", cfg.NATSURL)
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{"-d", "sharevote.db"})
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.NATSURL)
}

func TestParseFlags_MemoryNeedsNoURL(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{"-t", "memory"})
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DatabaseType)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing database url", nil, nil},
		{"bad port env", map[string]string{"PORT": "abc", "DATABASE_URL": "x"}, nil},
		{"port out of range", nil, []string{"-p", "70000", "-d", "x"}},
		{"unknown database type", nil, []string{"-d", "x", "-t", "mysql"}},
		{"unknown flag", nil, []string{"-d", "x", "--admin-salt", "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := ParseFlags(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=1234\nSHAREVOTE_DOTENV_TEST=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SHAREVOTE_DOTENV_TEST") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "7000", os.Getenv("PORT"), "real environment wins")
	assert.Equal(t, "from-dotenv", os.Getenv("SHAREVOTE_DOTENV_TEST"))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoadSettings(t *testing.T) {
	t.Run("empty path gives defaults", func(t *testing.T) {
		s, err := LoadSettings("")
		require.NoError(t, err)
		assert.Equal(t, DefaultSettings(), s)
	})

	t.Run("overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
default_voting_duration: 72h
default_quorum_percent: 33.5
recorder_timeout: 2s
audit_queue_size: 16
chain_subject_prefix: acme.chain
`), 0o600))

		s, err := LoadSettings(path)
		require.NoError(t, err)
		assert.Equal(t, 72*time.Hour, s.Policy.DefaultVotingDuration)
		assert.Equal(t, 33.5, s.Policy.DefaultQuorumPercent)
		assert.Equal(t, 2*time.Second, s.Policy.RecorderTimeout)
		assert.Equal(t, 16, s.AuditQueueSize)
		assert.Equal(t, "acme.chain", s.ChainSubjectPrefix)
		assert.Equal(t, "sharevote.audit", s.AuditSubjectPrefix)
	})

	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "quorum: 50\n"},
		{"quorum over 100", "default_quorum_percent: 150\n"},
		{"zero queue", "audit_queue_size: 0\n"},
		{"bad duration", "recorder_timeout: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "policy.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			_, err := LoadSettings(path)
			assert.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
