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

package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch reloads the config file whenever it is written and passes the new
// values to onChange. The containing directory is watched so editors that
// replace the file are seen too. A reload that fails keeps the old values
// and is only logged. Watching stops when ctx is done.
func (c *Instance) Watch(ctx context.Context, onChange func(Values)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	cfgPath := filepath.Clean(c.Path())
	if err := watcher.Add(filepath.Dir(cfgPath)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch config directory: %w", err)
	}
	log.Debug().Str("path", cfgPath).Msg("watching config file")

	go func() {
		defer func() {
			if closeErr := watcher.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Msg("failed to close config watcher")
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != cfgPath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := c.Load(); err != nil {
					log.Warn().Err(err).Msg("config changed but failed to reload")
					continue
				}
				log.Info().Str("path", cfgPath).Msg("config reloaded")
				if onChange != nil {
					onChange(c.Values())
				}
			case watchErr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error().Err(watchErr).Msg("config watcher error")
			}
		}
	}()

	return nil
}
