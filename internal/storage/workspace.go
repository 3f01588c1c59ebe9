/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package storage persists the editor session. A workspace directory holds
// an embedded SQLite key-value store with the current panel, the image
// collection and the session settings; panel documents are exported to and
// imported from plain JSON files with timestamped backups.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"holouistudio/internal/domain"
	applog "holouistudio/internal/log"
	"holouistudio/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// WorkspaceDirName stores all per-workspace data under the workspace root.
	WorkspaceDirName  = ".hui"
	WorkspaceFileName = "workspace.sqlite"

	// schemaVersion tracks the embedded store layout. Bump on breaking
	// changes and add a migration.
	schemaVersion = 1
)

// Keys of the kv table.
const (
	KeyProject  = "project"
	KeyImages   = "images"
	KeySettings = "settings"
)

// Settings are the session flags persisted alongside the document.
type Settings struct {
	DebugFrames   bool   `json:"debugFrames"`
	DeveloperMode bool   `json:"developerMode"`
	GameVersion   string `json:"gameVersion"`
}

// DefaultSettings returns the documented fallback values.
func DefaultSettings() Settings {
	return Settings{GameVersion: "1.19"}
}

// WorkspacePath returns the full path of the embedded database file.
func WorkspacePath(root string) string {
	return filepath.Join(root, WorkspaceDirName, WorkspaceFileName)
}

// Workspace is an open editor session store.
type Workspace struct {
	db   *sql.DB
	root string
}

// Open ensures the workspace database exists under root, enables WAL mode,
// creates the meta/version and kv tables and runs pending migrations.
func Open(root string) (*Workspace, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "workspace_open").With(
		slog.String("root", root),
	)
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("workspace root is required")
	}
	if err := os.MkdirAll(filepath.Join(root, WorkspaceDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}

	uriPath := filepath.ToSlash(WorkspacePath(root))
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := ensureTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	l.Info("workspace ready", slog.String("path", WorkspacePath(root)))
	return &Workspace{db: db, root: root}, nil
}

func ensureTables(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id     INTEGER PRIMARY KEY CHECK(id=1),
			schema INTEGER NOT NULL,
			app    TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure tables: %w", err)
		}
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO version (id, schema, app) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET app=excluded.app`,
		schemaVersion, version.Version)
	if err != nil {
		return fmt.Errorf("ensure version row: %w", err)
	}
	return nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	var current int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for current < schemaVersion {
		switch current {
		// future: case 1: ALTER ... then current = 2
		default:
			return fmt.Errorf("no migration from schema version %d", current)
		}
	}
	return nil
}

// Close releases the underlying database.
func (w *Workspace) Close() error { return w.db.Close() }

// Root returns the workspace root directory.
func (w *Workspace) Root() string { return w.root }

// Get reads a raw value. The second return is false when the key is absent.
func (w *Workspace) Get(key string) (string, bool, error) {
	var value string
	err := w.db.QueryRow(`SELECT value FROM kv WHERE key=?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return value, true, nil
}

// Put upserts a raw value.
func (w *Workspace) Put(key, value string) error {
	_, err := w.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("kv put %q: %w", key, err)
	}
	return nil
}

// LoadPanel reads the persisted panel. A missing or corrupt value falls
// back to the default empty panel without error; the corruption is logged.
func (w *Workspace) LoadPanel() domain.Panel {
	raw, ok, err := w.Get(KeyProject)
	if err != nil || !ok {
		if err != nil {
			applog.WithComponent("storage").Warn("cannot read panel, using default", "err", err)
		}
		return domain.DefaultPanel()
	}
	p, err := domain.ParsePanel([]byte(raw))
	if err != nil {
		applog.WithComponent("storage").Warn("stored panel is corrupt, using default", "err", err)
		return domain.DefaultPanel()
	}
	return p
}

// SavePanel persists the panel. Called by the store subscriber on every
// mutation.
func (w *Workspace) SavePanel(p domain.Panel) error {
	raw, err := domain.EncodePanel(p)
	if err != nil {
		return err
	}
	return w.Put(KeyProject, string(raw))
}

// LoadImages reads the persisted image collection, falling back to an empty
// list on missing or corrupt data.
func (w *Workspace) LoadImages() []domain.ImageAsset {
	raw, ok, err := w.Get(KeyImages)
	if err != nil || !ok {
		return []domain.ImageAsset{}
	}
	var imgs []domain.ImageAsset
	if err := json.Unmarshal([]byte(raw), &imgs); err != nil {
		applog.WithComponent("storage").Warn("stored images are corrupt, using empty list", "err", err)
		return []domain.ImageAsset{}
	}
	return imgs
}

// SaveImages persists the image collection.
func (w *Workspace) SaveImages(imgs []domain.ImageAsset) error {
	raw, err := json.Marshal(imgs)
	if err != nil {
		return err
	}
	return w.Put(KeyImages, string(raw))
}

// LoadSettings reads the session settings, falling back to defaults on
// missing or corrupt data.
func (w *Workspace) LoadSettings() Settings {
	raw, ok, err := w.Get(KeySettings)
	if err != nil || !ok {
		return DefaultSettings()
	}
	var s Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		applog.WithComponent("storage").Warn("stored settings are corrupt, using defaults", "err", err)
		return DefaultSettings()
	}
	if s.GameVersion == "" {
		s.GameVersion = DefaultSettings().GameVersion
	}
	return s
}

// SaveSettings persists the session settings.
func (w *Workspace) SaveSettings(s Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return w.Put(KeySettings, string(raw))
}
