package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"creative-builder/internal/model"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const pgTimeout = 5 * time.Second

var (
	_ StyleStore = (*Store)(nil)
	_ StyleStore = (*PGStore)(nil)
)

const createStyleTable = `
CREATE TABLE IF NOT EXISTS style_configs (
	label      TEXT PRIMARY KEY,
	config     JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PGStore keeps style overrides in PostgreSQL. Reads are served from a cache
// loaded at open; writes go to the database first.
type PGStore struct {
	db    *sql.DB
	mu    sync.RWMutex
	state model.StoredState
}

// OpenPG connects with the pgx driver, creates the table when missing and
// loads every stored override.
func OpenPG(ctx context.Context, dsn string) (*PGStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, pgTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, createStyleTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create style table: %w", err)
	}

	s := &PGStore{db: db, state: defaultState()}
	if err := s.load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Printf("style store: postgres overrides=%d", len(s.state.StyleConfigs))
	return s, nil
}

func (s *PGStore) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT label, config, updated_at FROM style_configs`)
	if err != nil {
		return fmt.Errorf("failed to query styles: %w", err)
	}
	defer rows.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for rows.Next() {
		var (
			label   string
			raw     []byte
			updated time.Time
		)
		if err := rows.Scan(&label, &raw, &updated); err != nil {
			return fmt.Errorf("failed to scan style: %w", err)
		}
		var cfg model.StyleConfig
		if err := json.Unmarshal(raw, &cfg); err != nil {
			log.Printf("skipping unreadable style row: label=%s err=%v", label, err)
			continue
		}
		s.state.StyleConfigs[label] = cfg
		if ms := updated.UnixMilli(); ms > s.state.LastUpdatedUnixMS {
			s.state.LastUpdatedUnixMS = ms
		}
	}
	return rows.Err()
}

func (s *PGStore) GetStyle(label string) (model.StyleConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.state.StyleConfigs[label]
	return cfg, ok
}

func (s *PGStore) SetStyle(label string, cfg model.StyleConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), pgTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO style_configs (label, config, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (label) DO UPDATE SET config = EXCLUDED.config, updated_at = now()`,
		label, raw)
	if err != nil {
		return fmt.Errorf("failed to upsert style: %w", err)
	}
	s.state.StyleConfigs[label] = cfg
	s.state.LastUpdatedUnixMS = time.Now().UnixMilli()
	return nil
}

func (s *PGStore) DeleteStyle(label string) error {
	ctx, cancel := context.WithTimeout(context.Background(), pgTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM style_configs WHERE label = $1`, label); err != nil {
		return fmt.Errorf("failed to delete style: %w", err)
	}
	delete(s.state.StyleConfigs, label)
	s.state.LastUpdatedUnixMS = time.Now().UnixMilli()
	return nil
}

func (s *PGStore) Snapshot() model.StoredState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

func (s *PGStore) Close() error {
	return s.db.Close()
}
