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
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	applog "docgen/internal/log"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are read-only overrides applied after the file.
//
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int            `yaml:"config_version"`
	Document      DocumentConfig `yaml:"document"`
	Export        ExportConfig   `yaml:"export"`
	Storage       StorageConfig  `yaml:"storage"`
	Watch         WatchConfig    `yaml:"watch"`
	Logging       LoggingConfig  `yaml:"logging"`
}

type DocumentConfig struct {
	DefaultTitle string `yaml:"default_title"`
	DefaultLevel int    `yaml:"default_level"` // 1..3
}

type ExportConfig struct {
	DefaultFormat string `yaml:"default_format"` // adoc | md | pdf
	RenderKinds   bool   `yaml:"render_kinds"`
	OutDir        string `yaml:"out_dir"` // empty: next to the set file
}

type StorageConfig struct {
	KeepBackups bool `yaml:"keep_backups"`
	Index       bool `yaml:"index"`
}

type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// LogOptions converts the logging section for log.Init.
func (l LoggingConfig) LogOptions() applog.Options {
	return applog.Options{Level: l.Level, Format: l.Format, AddSource: l.Source, File: l.File}
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Document:      DocumentConfig{DefaultTitle: "Default title", DefaultLevel: 2},
		Export:        ExportConfig{DefaultFormat: "adoc"},
		Storage:       StorageConfig{KeepBackups: true, Index: true},
		Watch:         WatchConfig{DebounceMs: 500},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigFile    = "DOCGEN_CONFIG"
	EnvDefaultTitle  = "DOCGEN_DEFAULT_TITLE"
	EnvDefaultLevel  = "DOCGEN_DEFAULT_LEVEL"
	EnvExportFormat  = "DOCGEN_EXPORT_FORMAT"
	EnvRenderKinds   = "DOCGEN_RENDER_KINDS"
	EnvExportOutDir  = "DOCGEN_EXPORT_DIR"
	EnvKeepBackups   = "DOCGEN_KEEP_BACKUPS"
	EnvIndex         = "DOCGEN_INDEX"
	EnvWatchDebounce = "DOCGEN_WATCH_DEBOUNCE_MS"
	EnvLogLevel      = "DOCGEN_LOG_LEVEL"
	EnvLogFormat     = "DOCGEN_LOG_FORMAT"
	EnvLogSource     = "DOCGEN_LOG_SOURCE"
	EnvLogFile       = "DOCGEN_LOG_FILE"
)

// ConfigPath returns the per-user config file path. DOCGEN_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "DocGen")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "DocGen")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "docgen")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "docgen")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
// It returns the path the config was looked up at.
func Load() (AppConfig, string, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, "", err
	}
	cfg, err := LoadFrom(path)
	return cfg, path, err
}

// LoadFrom reads the config at path. A missing file yields defaults; a malformed
// file is reported but defaults plus env overrides are still returned.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	var perr error
	if data, err := os.ReadFile(path); err == nil {
		// unmarshal over defaults so absent keys keep their default
		fileCfg := Defaults()
		if uerr := yaml.Unmarshal(data, &fileCfg); uerr != nil {
			perr = fmt.Errorf("parse config %s: %w", path, uerr)
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		perr = fmt.Errorf("read config %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, perr
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg as YAML to path.
func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Debounce returns the watch debounce as a duration, falling back to the default.
func (w WatchConfig) Debounce() time.Duration {
	if w.DebounceMs <= 0 {
		return time.Duration(Defaults().Watch.DebounceMs) * time.Millisecond
	}
	return time.Duration(w.DebounceMs) * time.Millisecond
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if s := strings.TrimSpace(src.Document.DefaultTitle); s != "" {
		dst.Document.DefaultTitle = s
	}
	if src.Document.DefaultLevel >= 1 && src.Document.DefaultLevel <= 3 {
		dst.Document.DefaultLevel = src.Document.DefaultLevel
	}
	if s := strings.TrimSpace(src.Export.DefaultFormat); s != "" {
		dst.Export.DefaultFormat = strings.ToLower(s)
	}
	dst.Export.RenderKinds = src.Export.RenderKinds
	if s := strings.TrimSpace(src.Export.OutDir); s != "" {
		dst.Export.OutDir = s
	}
	// booleans: copy directly from the file so user preferences persist
	dst.Storage.KeepBackups = src.Storage.KeepBackups
	dst.Storage.Index = src.Storage.Index
	if src.Watch.DebounceMs > 0 {
		dst.Watch.DebounceMs = src.Watch.DebounceMs
	}
	if s := strings.TrimSpace(src.Logging.Level); s != "" {
		dst.Logging.Level = strings.ToLower(s)
	}
	if s := strings.TrimSpace(src.Logging.Format); s != "" {
		dst.Logging.Format = strings.ToLower(s)
	}
	dst.Logging.Source = src.Logging.Source
	if s := strings.TrimSpace(src.Logging.File); s != "" {
		dst.Logging.File = s
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvDefaultTitle)); v != "" {
		cfg.Document.DefaultTitle = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDefaultLevel)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 3 {
			cfg.Document.DefaultLevel = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportFormat)); v != "" {
		cfg.Export.DefaultFormat = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvRenderKinds)); v != "" {
		cfg.Export.RenderKinds = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportOutDir)); v != "" {
		cfg.Export.OutDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvKeepBackups)); v != "" {
		cfg.Storage.KeepBackups = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvIndex)); v != "" {
		cfg.Storage.Index = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvWatchDebounce)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Watch.DebounceMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envByKey = map[string]string{
	"document.default_title": EnvDefaultTitle,
	"document.default_level": EnvDefaultLevel,
	"export.default_format":  EnvExportFormat,
	"export.render_kinds":    EnvRenderKinds,
	"export.out_dir":         EnvExportOutDir,
	"storage.keep_backups":   EnvKeepBackups,
	"storage.index":          EnvIndex,
	"watch.debounce_ms":      EnvWatchDebounce,
	"logging.level":          EnvLogLevel,
	"logging.format":         EnvLogFormat,
	"logging.source":         EnvLogSource,
	"logging.file":           EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envByKey[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}
