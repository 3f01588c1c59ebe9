/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal, so older builds tolerate newer files.

type GeneralConfig struct {
	DebugFrames   bool   `yaml:"debug_frames"`   // draw the center crosshair on the canvas
	DeveloperMode bool   `yaml:"developer_mode"` // expose raw JSON tooling in the UI
	Theme         string `yaml:"theme"`          // "system" | "light" | "dark" (informational for now)
}

type GameConfig struct {
	Version    string `yaml:"version"`     // Minecraft version for the item catalog
	SchemaURL  string `yaml:"schema_url"`  // published HoloUI document schema
	CatalogURL string `yaml:"catalog_url"` // item catalog endpoint, %s replaced by version
}

type BackendConfig struct {
	Enable    bool   `yaml:"enable"` // opt-in preset library access
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
	// Token is not stored on disk; it lives in the OS keychain.
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Game          GameConfig    `yaml:"game"`
	Backend       BackendConfig `yaml:"backend"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{DebugFrames: false, DeveloperMode: false, Theme: "system"},
		Game: GameConfig{
			Version:    "1.19",
			SchemaURL:  "https://cdn.studioarchetype.net/holoui.schema.json",
			CatalogURL: "https://raw.githubusercontent.com/PrismarineJS/minecraft-data/master/data/pc/%s/items.json",
		},
		Backend: BackendConfig{Enable: false, BaseURL: "http://localhost:8080", TimeoutMs: 15000},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvDebugFrames   = "HUI_DEBUG_FRAMES"
	EnvDeveloperMode = "HUI_DEVELOPER_MODE"
	EnvGameVersion   = "HUI_GAME_VERSION"
	EnvSchemaURL     = "HUI_SCHEMA_URL"
	EnvCatalogURL    = "HUI_CATALOG_URL"
	EnvBackendEnable = "HUI_BACKEND_ENABLE"
	EnvBackendURL    = "HUI_BACKEND_URL"
	EnvBackendTimeo  = "HUI_BACKEND_TIMEOUT_MS"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "HUI_LOG_LEVEL"
	EnvLogFormat = "HUI_LOG_FORMAT"
	EnvLogSource = "HUI_LOG_SOURCE"
	EnvLogFile   = "HUI_LOG_FILE"
)

// Service/keys for OS keyring.
const (
	keyringService = "HoloUIStudio"
	keyringToken   = "backend_token"
)

// tokenStore abstracts keyring, so we can stub in tests.
var tokenStore TokenStore = &osKeyring{}

type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "HoloUIStudio")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "HoloUIStudio")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "holouistudio")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads user config file (if present), applies defaults, and merges environment overrides.
// It also loads the backend token from keyring (not kept inside the struct; returned separately).
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	// token from keyring
	tok, _ := tokenStore.Get(keyringService, keyringToken)
	return cfg, tok, nil
}

// Save writes the user config YAML and persists the token into OS keyring (if non-empty).
func Save(cfg AppConfig, token string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if token != "" {
		if err := tokenStore.Set(keyringService, keyringToken, token); err != nil {
			return err
		}
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.DebugFrames = src.General.DebugFrames
	dst.General.DeveloperMode = src.General.DeveloperMode
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	if strings.TrimSpace(src.Game.Version) != "" {
		dst.Game.Version = strings.TrimSpace(src.Game.Version)
	}
	if strings.TrimSpace(src.Game.SchemaURL) != "" {
		dst.Game.SchemaURL = strings.TrimSpace(src.Game.SchemaURL)
	}
	if strings.TrimSpace(src.Game.CatalogURL) != "" {
		dst.Game.CatalogURL = strings.TrimSpace(src.Game.CatalogURL)
	}
	dst.Backend.Enable = src.Backend.Enable
	if src.Backend.BaseURL != "" {
		dst.Backend.BaseURL = src.Backend.BaseURL
	}
	if src.Backend.TimeoutMs != 0 {
		dst.Backend.TimeoutMs = src.Backend.TimeoutMs
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvDebugFrames)); v != "" {
		cfg.General.DebugFrames = envBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvDeveloperMode)); v != "" {
		cfg.General.DeveloperMode = envBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvGameVersion)); v != "" {
		cfg.Game.Version = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSchemaURL)); v != "" {
		cfg.Game.SchemaURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCatalogURL)); v != "" {
		cfg.Game.CatalogURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendEnable)); v != "" {
		cfg.Backend.Enable = envBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendTimeo)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Backend.TimeoutMs = n
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = envBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func envBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	var name string
	switch key {
	case "general.debug_frames":
		name = EnvDebugFrames
	case "general.developer_mode":
		name = EnvDeveloperMode
	case "game.version":
		name = EnvGameVersion
	case "game.schema_url":
		name = EnvSchemaURL
	case "game.catalog_url":
		name = EnvCatalogURL
	case "backend.enable":
		name = EnvBackendEnable
	case "backend.base_url":
		name = EnvBackendURL
	case "backend.timeout_ms":
		name = EnvBackendTimeo
	case "logging.level":
		name = EnvLogLevel
	case "logging.format":
		name = EnvLogFormat
	case "logging.source":
		name = EnvLogSource
	case "logging.file":
		name = EnvLogFile
	default:
		return "", false
	}
	if os.Getenv(name) != "" {
		return name, true
	}
	return "", false
}
