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
	"os"
	"os/signal"
	"syscall"

	"github.com/jazzgraph/jazzgraph/pkg/api"
	"github.com/jazzgraph/jazzgraph/pkg/config"
	"github.com/jazzgraph/jazzgraph/pkg/database/releasedb"
	"github.com/jazzgraph/jazzgraph/pkg/helpers"
	"github.com/jazzgraph/jazzgraph/pkg/matcher"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var catalogPath string
	var filterName string
	var listen string
	var dbPath string
	var noDB bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the normalizer and matcher over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := ctx.config

			index, err := ctx.openIndex(catalogPath, filterName)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = cfg.Watch(runCtx, func(v config.Values) {
				helpers.SetDebugLogging(v.DebugLogging || (ctx.debugFlag != nil && *ctx.debugFlag))
			})
			if err != nil {
				log.Warn().Err(err).Msg("config changes will need a restart")
			}

			go func() {
				if loadErr := index.Load(runCtx); loadErr != nil && runCtx.Err() == nil {
					log.Error().Err(loadErr).Msg("failed to preload catalog index")
				}
			}()

			opts := api.Options{
				AllowedOrigins:    cfg.AllowedOrigins(),
				RequestsPerMinute: cfg.RequestsPerMinute(),
				Clock:             ctx.clock,
			}
			if !noDB {
				if dbPath == "" {
					dbPath = cfg.DatabasePath()
				}
				db, err := releasedb.Open(runCtx, dbPath)
				if err != nil {
					return err
				}
				defer func() {
					if closeErr := db.Close(); closeErr != nil {
						log.Warn().Err(closeErr).Msg("failed to close release database")
					}
				}()
				opts.Releases = db
			}

			if listen == "" {
				listen = cfg.ServiceListen()
			}
			return api.NewServer(matcher.New(index), opts).ListenAndServe(runCtx, listen)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog JSON-lines file (.jsonl or .jsonl.gz)")
	cmd.Flags().StringVar(&filterName, "filter", "", "Catalog filter: all, prefilter-jazz or jazz-album")
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "Release database for /stats (default from config)")
	cmd.Flags().BoolVar(&noDB, "no-db", false, "Serve without the release database")
	return cmd
}
