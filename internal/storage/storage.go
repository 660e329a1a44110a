package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"creative-builder/internal/model"
)

// StyleStore persists per-template style overrides keyed by template label.
type StyleStore interface {
	GetStyle(label string) (model.StyleConfig, bool)
	SetStyle(label string, cfg model.StyleConfig) error
	DeleteStyle(label string) error
	Snapshot() model.StoredState
}

// Store keeps per-template style overrides in a JSON file. An empty path keeps them in memory only.
type Store struct {
	path  string
	mu    sync.RWMutex
	state model.StoredState
}

func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if path == "" {
		s.state = defaultState()
		return s, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.state = defaultState()
			return s.saveLocked()
		}
		return err
	}
	if len(b) == 0 {
		s.state = defaultState()
		return s.saveLocked()
	}

	var state model.StoredState
	if err := json.Unmarshal(b, &state); err != nil {
		return err
	}
	mergeDefaults(&state)
	s.state = state
	return nil
}

func defaultState() model.StoredState {
	return model.StoredState{
		StyleConfigs: map[string]model.StyleConfig{},
		CreatedAt:    time.Now().UTC(),
	}
}

func mergeDefaults(state *model.StoredState) {
	if state.StyleConfigs == nil {
		state.StyleConfigs = map[string]model.StyleConfig{}
	}
	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now().UTC()
	}
}

func (s *Store) saveLocked() error {
	s.state.LastUpdatedUnixMS = time.Now().UnixMilli()
	if s.path == "" {
		return nil
	}
	b, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) GetStyle(label string) (model.StyleConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.state.StyleConfigs[label]
	return cfg, ok
}

func (s *Store) SetStyle(label string, cfg model.StyleConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.StyleConfigs[label] = cfg
	return s.saveLocked()
}

func (s *Store) DeleteStyle(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.StyleConfigs[label]; !ok {
		return nil
	}
	delete(s.state.StyleConfigs, label)
	return s.saveLocked()
}

// Snapshot returns a copy of the stored state.
func (s *Store) Snapshot() model.StoredState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

func cloneState(state model.StoredState) model.StoredState {
	cloned := state
	cloned.StyleConfigs = make(map[string]model.StyleConfig, len(state.StyleConfigs))
	for k, v := range state.StyleConfigs {
		cloned.StyleConfigs[k] = v
	}
	return cloned
}
