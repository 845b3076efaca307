package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"investment-agent/pkg/logger"
)

const settingsFileName = "settings.json"

type settingsEnvelope struct {
	Settings    map[string]any `json:"settings"`
	LastUpdated time.Time      `json:"last_updated"`
}

// SettingsStore persists free-form user preferences.
type SettingsStore struct {
	path string
	log  *logger.Logger
	mu   sync.Mutex
	now  func() time.Time
}

func NewSettingsStore(dir string, log *logger.Logger) (*SettingsStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create settings dir: %w", err)
	}
	return &SettingsStore{
		path: filepath.Join(dir, settingsFileName),
		log:  log,
		now:  time.Now,
	}, nil
}

// Get returns the stored settings, or an empty map when none exist yet.
func (s *SettingsStore) Get() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env := s.load()
	if env.Settings == nil {
		env.Settings = make(map[string]any)
	}
	return env.Settings, nil
}

// Update merges the given keys into the stored settings and persists the
// result.
func (s *SettingsStore) Update(updates map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env := s.load()
	if env.Settings == nil {
		env.Settings = make(map[string]any)
	}
	for k, v := range updates {
		env.Settings[k] = v
	}
	env.LastUpdated = s.now()

	if err := writeJSONAtomic(s.path, env); err != nil {
		return nil, fmt.Errorf("failed to write settings: %w", err)
	}
	return env.Settings, nil
}

func (s *SettingsStore) load() settingsEnvelope {
	var env settingsEnvelope
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("failed to read settings file", logger.ErrorField(err))
		}
		return env
	}
	if err := json.Unmarshal(data, &env); err != nil {
		s.log.Warn("settings file is corrupt, starting fresh", logger.ErrorField(err))
		return settingsEnvelope{}
	}
	return env
}
