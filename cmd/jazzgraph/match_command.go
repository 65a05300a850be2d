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
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jazzgraph/jazzgraph/pkg/database/releasedb"
	"github.com/jazzgraph/jazzgraph/pkg/matcher"
	"github.com/jazzgraph/jazzgraph/pkg/rows"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type matchOptions struct {
	catalogPath string
	rowsPath    string
	outPath     string
	dbPath      string
	filterName  string
	workers     int
	chunkSize   int
	noDB        bool
	noDedupe    bool
}

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var opts matchOptions

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match a recordings CSV against the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatch(cmd, ctx, &opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.catalogPath, "catalog", "", "Catalog JSON-lines file (.jsonl or .jsonl.gz)")
	flags.StringVar(&opts.rowsPath, "rows", "", "Recordings CSV to match")
	flags.StringVar(&opts.outPath, "out", "-", "Matched recordings CSV, - for stdout")
	flags.StringVar(&opts.dbPath, "db", "", "Release database path (default from config)")
	flags.BoolVar(&opts.noDB, "no-db", false, "Do not store matches in the release database")
	flags.StringVar(&opts.filterName, "filter", "", "Catalog filter: all, prefilter-jazz or jazz-album")
	flags.IntVar(&opts.workers, "workers", 0, "Concurrent matchers (default from config)")
	flags.IntVar(&opts.chunkSize, "chunk-size", 0, "Rows per chunk (default from config)")
	flags.BoolVar(&opts.noDedupe, "no-dedupe", false, "Keep every matched row of a recording")
	_ = cmd.MarkFlagRequired("rows")

	return cmd
}

func runMatch(cmd *cobra.Command, ctx *commandContext, opts *matchOptions) error {
	cfg := ctx.config

	index, err := ctx.openIndex(opts.catalogPath, opts.filterName)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(cmd, opts.outPath)
	if err != nil {
		return err
	}
	defer closeOut()

	csvSink := rows.NewCSVSink(out)
	sinks := matcher.MultiSink{csvSink}

	var db *releasedb.ReleaseDB
	if !opts.noDB {
		dbPath := opts.dbPath
		if dbPath == "" {
			dbPath = cfg.DatabasePath()
		}
		db, err = releasedb.Open(cmd.Context(), dbPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Msg("failed to close release database")
			}
		}()
		sinks = append(sinks, db)
	}

	workers := opts.workers
	if workers <= 0 {
		workers = cfg.MatchWorkers()
	}
	chunkSize := opts.chunkSize
	if chunkSize <= 0 {
		chunkSize = cfg.MatchChunkSize()
	}

	runnerOpts := []matcher.RunnerOption{
		matcher.WithWorkers(workers),
		matcher.WithChunkSize(chunkSize),
		matcher.WithClock(ctx.clock),
	}
	if cfg.MatchDedupe() && !opts.noDedupe {
		runnerOpts = append(runnerOpts, matcher.WithDedupeKey(rows.RecordingKey))
	}

	runner := matcher.NewRunner(matcher.New(index), sinks, runnerOpts...)
	startedAt := ctx.clock.Now()
	stats, runErr := runner.Run(cmd.Context(), rows.NewCSVSource(ctx.fs, opts.rowsPath))
	if runErr != nil {
		return runErr
	}

	if err := csvSink.Close(); err != nil {
		return err
	}
	if db != nil {
		if err := db.RecordRun(cmd.Context(), stats, startedAt); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), renderRunSummary(stats))
	return nil
}

func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	//nolint:gosec // output path comes from the user
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("path", path).Msg("failed to close output file")
		}
	}, nil
}

func renderRunSummary(stats matcher.Stats) string {
	return renderTable(
		[]string{"Run", "Examined", "Matched", "Written", "Duplicates", "Elapsed"},
		[][]string{{
			stats.RunID.String(),
			strconv.Itoa(stats.Examined),
			strconv.Itoa(stats.Matched),
			strconv.Itoa(stats.Written),
			strconv.Itoa(stats.Duplicates),
			stats.Elapsed.Round(time.Millisecond).String(),
		}},
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	)
}
