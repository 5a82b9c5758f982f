// Package wheelstore provides SQLite persistence for saved wheel configurations.
package wheelstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/leminhai2007/minigames-go/internal/games"
)

// ErrNotFound is returned when no wheel config exists for the given ID.
var ErrNotFound = errors.New("wheelstore: config not found")

// ErrInvalidConfig wraps validation failures on create/update input.
var ErrInvalidConfig = errors.New("wheelstore: invalid config")

const maxNameLength = 80

// WheelConfig is a user-saved wheel: a name plus the segment labels.
type WheelConfig struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Items     []string `json:"items"`
	CreatedAt int64    `json:"createdAt"`
}

// Store provides SQLite persistence for wheel configs.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("wheelstore: open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("wheelstore: enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("wheelstore: enable foreign keys: %w", err)
	}
	return &Store{db: db}, nil
}

// NewFromDB wraps an existing sql.DB.
func NewFromDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate runs the wheel config migrations.
func (s *Store) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS wheel_configs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			items_json TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_wheel_configs_created ON wheel_configs(created_at)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("wheelstore: migrate: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// Create validates and inserts a new wheel config, returning the stored record.
func (s *Store) Create(name string, items []string) (*WheelConfig, error) {
	cfg := &WheelConfig{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Items:     items,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := validate(cfg.Name, items); err != nil {
		return nil, err
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("wheelstore: marshal items: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO wheel_configs (id, name, items_json, created_at) VALUES (?, ?, ?, ?)`,
		cfg.ID, cfg.Name, string(itemsJSON), cfg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("wheelstore: create: %w", err)
	}
	return cfg, nil
}

// Get fetches a single wheel config by ID.
func (s *Store) Get(id string) (*WheelConfig, error) {
	var (
		cfg       WheelConfig
		itemsJSON string
	)
	err := s.db.QueryRow(
		`SELECT id, name, items_json, created_at FROM wheel_configs WHERE id = ?`, id,
	).Scan(&cfg.ID, &cfg.Name, &itemsJSON, &cfg.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("wheelstore: get: %w", err)
	}
	if err := json.Unmarshal([]byte(itemsJSON), &cfg.Items); err != nil {
		return nil, fmt.Errorf("wheelstore: unmarshal items: %w", err)
	}
	return &cfg, nil
}

// List returns all wheel configs, newest first.
func (s *Store) List() ([]WheelConfig, error) {
	rows, err := s.db.Query(
		`SELECT id, name, items_json, created_at FROM wheel_configs ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("wheelstore: list: %w", err)
	}
	defer rows.Close()

	var configs []WheelConfig
	for rows.Next() {
		var (
			cfg       WheelConfig
			itemsJSON string
		)
		if err := rows.Scan(&cfg.ID, &cfg.Name, &itemsJSON, &cfg.CreatedAt); err != nil {
			return nil, fmt.Errorf("wheelstore: scan config: %w", err)
		}
		if err := json.Unmarshal([]byte(itemsJSON), &cfg.Items); err != nil {
			return nil, fmt.Errorf("wheelstore: unmarshal items: %w", err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("wheelstore: list: %w", err)
	}
	return configs, nil
}

// Update replaces the name and items of an existing config.
func (s *Store) Update(id, name string, items []string) (*WheelConfig, error) {
	name = strings.TrimSpace(name)
	if err := validate(name, items); err != nil {
		return nil, err
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("wheelstore: marshal items: %w", err)
	}
	res, err := s.db.Exec(
		`UPDATE wheel_configs SET name = ?, items_json = ? WHERE id = ?`,
		name, string(itemsJSON), id,
	)
	if err != nil {
		return nil, fmt.Errorf("wheelstore: update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("wheelstore: update: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(id)
}

// Delete removes a config by ID.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM wheel_configs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("wheelstore: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("wheelstore: delete: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func validate(name string, items []string) error {
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidConfig)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidConfig, maxNameLength)
	}
	if err := games.ValidateWheelItems(items); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
