// Jazz Graph
// Copyright (c) 2026 The Jazz Graph Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Jazz Graph.
//
// Jazz Graph is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Jazz Graph is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Jazz Graph.  If not, see <http://www.gnu.org/licenses/>.

// Package config loads the jazzgraph TOML configuration. Values missing from
// the file keep their defaults, and the result is validated before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/jazzgraph/jazzgraph/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	SchemaVersion = 1
	AppName       = "jazzgraph"
	CfgEnv        = "JAZZGRAPH_CFG"
	CfgFile       = "config.toml"
	LogFile       = "jazzgraph.log"
	ReleaseDBFile = "releases.db"
	LogsDir       = "logs"
)

// ErrInvalidConfig is returned when a config file fails validation.
var ErrInvalidConfig = errors.New("invalid config")

type Values struct {
	Catalog      Catalog    `toml:"catalog"`
	Database     Database   `toml:"database"`
	Service      Service    `toml:"service"`
	LogFile      string     `toml:"log_file,omitempty"`
	Match        Match      `toml:"match"`
	Normalizer   Normalizer `toml:"normalizer"`
	ConfigSchema int        `toml:"config_schema"`
	DebugLogging bool       `toml:"debug_logging"`
}

type Catalog struct {
	Path   string `toml:"path,omitempty"`
	Filter string `toml:"filter" validate:"omitempty,oneof=all prefilter-jazz jazz-album"`
}

type Normalizer struct {
	CacheSize int `toml:"cache_size" validate:"gte=0"`
}

type Match struct {
	Workers   int  `toml:"workers" validate:"gte=1,lte=256"`
	ChunkSize int  `toml:"chunk_size" validate:"gte=1"`
	Dedupe    bool `toml:"dedupe"`
}

type Database struct {
	Path string `toml:"path,omitempty"`
}

type Service struct {
	Listen            string   `toml:"listen" validate:"hostname_port"`
	AllowedOrigins    []string `toml:"allowed_origins,omitempty"`
	RequestsPerMinute int      `toml:"requests_per_minute" validate:"gte=0"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Catalog: Catalog{
		Filter: "all",
	},
	Normalizer: Normalizer{
		CacheSize: 4096,
	},
	Match: Match{
		Workers:   4,
		ChunkSize: 1000,
		Dedupe:    true,
	},
	Service: Service{
		Listen:            "localhost:7495",
		RequestsPerMinute: 600,
	},
}

// ConfigDir is the default directory holding config.toml.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DataDir is the default directory for the release database and logs.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks vals against their field constraints.
//
//nolint:gocritic // config struct copied for immutability
func Validate(vals Values) error {
	if err := validate.Struct(vals); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("%w: %s failed %q (value %v)",
				ErrInvalidConfig, first.Namespace(), first.Tag(), first.Value())
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

type Instance struct {
	fs       afero.Fs
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads config.toml from configDir, or from the path in
// JAZZGRAPH_CFG when set. A missing file is created from defaults.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(fs afero.Fs, configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := &Instance{
		fs:       fs,
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	exists, err := afero.Exists(fs, cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if !exists {
		log.Info().Str("path", cfgPath).Msg("saving new default config to disk")
		if err := fs.MkdirAll(filepath.Dir(cfgPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load rereads the config file over the defaults. On any error the current
// values are kept.
func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := afero.ReadFile(c.fs, c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	newVals := c.defaults
	if err := toml.Unmarshal(data, &newVals); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	if err := Validate(newVals); err != nil {
		return err
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := afero.WriteFile(c.fs, c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Path returns the config file path.
func (c *Instance) Path() string {
	return c.cfgPath
}

// Values returns a copy of the current values.
func (c *Instance) Values() Values {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vals := c.vals
	vals.Service.AllowedOrigins = append([]string(nil), c.vals.Service.AllowedOrigins...)
	return vals
}

func (c *Instance) CatalogPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Catalog.Path
}

func (c *Instance) SetCatalogPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Catalog.Path = path
}

func (c *Instance) CatalogFilter() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Catalog.Filter
}

func (c *Instance) CacheSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Normalizer.CacheSize
}

func (c *Instance) MatchWorkers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Match.Workers
}

func (c *Instance) MatchChunkSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Match.ChunkSize
}

func (c *Instance) MatchDedupe() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Match.Dedupe
}

// DatabasePath returns the release database path, defaulting to the data
// directory.
func (c *Instance) DatabasePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Database.Path != "" {
		return c.vals.Database.Path
	}
	return filepath.Join(DataDir(), ReleaseDBFile)
}

func (c *Instance) ServiceListen() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.Listen
}

func (c *Instance) RequestsPerMinute() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.RequestsPerMinute
}

func (c *Instance) AllowedOrigins() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.vals.Service.AllowedOrigins...)
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}

// LogFilePath returns the log file path, defaulting to the data directory.
func (c *Instance) LogFilePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.LogFile != "" {
		return c.vals.LogFile
	}
	return filepath.Join(DataDir(), LogsDir, LogFile)
}
