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

package main

import (
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/jazzgraph/jazzgraph/pkg/catalog"
	"github.com/jazzgraph/jazzgraph/pkg/config"
	"github.com/jazzgraph/jazzgraph/pkg/helpers"
	"github.com/jazzgraph/jazzgraph/pkg/titles"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var errNoCatalog = errors.New("no catalog path: pass --catalog or set catalog.path in config.toml")

type commandContext struct {
	configDirFlag *string
	debugFlag     *bool
	fs            afero.Fs
	clock         clockwork.Clock
	config        *config.Instance
	configErr     error
	configOnce    sync.Once
}

func newCommandContext(configDirFlag *string, debugFlag *bool) *commandContext {
	return &commandContext{
		configDirFlag: configDirFlag,
		debugFlag:     debugFlag,
		fs:            afero.NewOsFs(),
		clock:         clockwork.NewRealClock(),
	}
}

func (c *commandContext) ensureConfig(console io.Writer) (*config.Instance, error) {
	c.configOnce.Do(func() {
		dir := config.ConfigDir()
		if c.configDirFlag != nil && strings.TrimSpace(*c.configDirFlag) != "" {
			dir = strings.TrimSpace(*c.configDirFlag)
		}

		cfg, err := config.NewConfig(c.fs, dir, config.BaseDefaults)
		if err != nil {
			c.configErr = err
			return
		}
		if c.debugFlag != nil && *c.debugFlag {
			cfg.SetDebugLogging(true)
		}

		err = helpers.InitLogging(helpers.LogOptions{
			File:    cfg.LogFilePath(),
			Writers: []io.Writer{helpers.ConsoleWriter(console)},
			Debug:   cfg.DebugLogging(),
		})
		if err != nil {
			c.configErr = err
			return
		}

		log.Debug().Str("config", cfg.Path()).Msg("loaded config")
		c.config = cfg
	})
	return c.config, c.configErr
}

// openIndex builds a lazily loaded index over the catalog file. Flag values
// override the config.
func (c *commandContext) openIndex(catalogPath, filterName string) (*catalog.Index, error) {
	if catalogPath == "" {
		catalogPath = c.config.CatalogPath()
	}
	if catalogPath == "" {
		return nil, errNoCatalog
	}
	if filterName == "" {
		filterName = c.config.CatalogFilter()
	}

	filter, err := catalog.FilterByName(filterName)
	if err != nil {
		return nil, err
	}

	normalizer, err := titles.NewNormalizer(c.config.CacheSize())
	if err != nil {
		return nil, err
	}

	src := catalog.NewJSONLinesSource(c.fs, catalogPath)
	return catalog.NewIndex(src,
		catalog.WithFilter(filter),
		catalog.WithNormalizer(normalizer),
	), nil
}
