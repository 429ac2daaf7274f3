package cliparse

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/sharevote/governance"
)

// Settings is the contents of the policy file.
type Settings struct {
	Policy governance.Policy `yaml:",inline"`

	// AuditQueueSize bounds the audit events waiting to be written.
	AuditQueueSize     int    `yaml:"audit_queue_size"`
	ChainSubjectPrefix string `yaml:"chain_subject_prefix"`
	AuditSubjectPrefix string `yaml:"audit_subject_prefix"`

	// Seed is only applied to in-memory storage.
	Seed Seed `yaml:"seed"`
}

func DefaultSettings() Settings {
	return Settings{
		Policy:             governance.DefaultPolicy(),
		AuditQueueSize:     1024,
		ChainSubjectPrefix: "sharevote.chain",
		AuditSubjectPrefix: "sharevote.audit",
	}
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	if err := s.Policy.Validate(); err != nil {
		return err
	}
	if s.AuditQueueSize <= 0 {
		return errors.New("audit_queue_size must be positive")
	}
	if s.ChainSubjectPrefix == "" || s.AuditSubjectPrefix == "" {
		return errors.New("subject prefixes must not be empty")
	}
	return s.Seed.Validate()
}

// LoadSettings reads a policy file over DefaultSettings. An empty path
// returns the defaults. Unknown keys are rejected.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read policy file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("failed to parse policy file: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid policy file: %w", err)
	}
	return settings, nil
}

// ParseLogLevel maps a level name to a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
