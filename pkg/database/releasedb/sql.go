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

package releasedb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jazzgraph/jazzgraph/pkg/database"
	"github.com/jazzgraph/jazzgraph/pkg/dates"
	"github.com/jazzgraph/jazzgraph/pkg/matcher"
	"github.com/jazzgraph/jazzgraph/pkg/rows"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run release database migrations: %w", err)
	}
	return nil
}

type writeBatch struct {
	releases *batchInserter
	links    *batchInserter
	styles   *batchInserter
	// style links need the style row ids, so they are written after
	// styles are flushed
	styleLinks [][2]any
}

func newWriteBatch(tx *sql.Tx) (*writeBatch, error) {
	releases, err := newBatchInserter(tx, "discogs_release",
		[]string{"id", "title", "release_date", "date_precision"}, true)
	if err != nil {
		return nil, err
	}
	links, err := newBatchInserter(tx, "discogs_release_to_recording",
		[]string{"recording_id", "discogs_id"}, true)
	if err != nil {
		return nil, err
	}
	styles, err := newBatchInserter(tx, "styles", []string{"style_name"}, true)
	if err != nil {
		return nil, err
	}
	links.setDependencies(releases)

	return &writeBatch{releases: releases, links: links, styles: styles}, nil
}

func (w *writeBatch) add(res matcher.Result, seenRelease map[int64]bool, seenStyle map[string]bool) error {
	rec := res.Record
	if !seenRelease[rec.ID] {
		seenRelease[rec.ID] = true

		var released any
		date, precision := dates.Clean(rec.Released())
		if date != "" {
			released = date
		}
		if err := w.releases.add(rec.ID, rec.Title, released, precision.String()); err != nil {
			return err
		}
		for _, style := range rec.Styles() {
			if !seenStyle[style] {
				seenStyle[style] = true
				if err := w.styles.add(style); err != nil {
					return err
				}
			}
			w.styleLinks = append(w.styleLinks, [2]any{rec.ID, style})
		}
	}

	recordingID := rows.RecordingKey(res.Row)
	if recordingID == "" {
		log.Debug().Int64("discogs_id", rec.ID).Msg("matched row has no recording id, not linked")
		return nil
	}
	return w.links.add(recordingID, rec.ID)
}

func (w *writeBatch) flush(ctx context.Context, tx *sql.Tx) error {
	if err := w.links.flush(ctx); err != nil {
		return err
	}
	if err := w.styles.flush(ctx); err != nil {
		return err
	}
	if len(w.styleLinks) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO styles_to_discogs (style_id, discogs_id)
		SELECT id, ? FROM styles WHERE style_name = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare style link insert: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close style link statement")
		}
	}()

	for _, link := range w.styleLinks {
		if _, err := stmt.ExecContext(ctx, link[0], link[1]); err != nil {
			return fmt.Errorf("failed to link style %v to release %v: %w", link[1], link[0], err)
		}
	}
	return nil
}

func sqlWriteResults(ctx context.Context, db *sql.DB, results []matcher.Result) (err error) {
	if len(results) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error().Err(rbErr).Msg("failed to roll back release write")
			}
		}
	}()

	batch, err := newWriteBatch(tx)
	if err != nil {
		return err
	}

	seenRelease := make(map[int64]bool, len(results))
	seenStyle := make(map[string]bool)
	for _, res := range results {
		if !res.Matched {
			continue
		}
		if err = batch.add(res, seenRelease, seenStyle); err != nil {
			return err
		}
	}

	if err = batch.flush(ctx, tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit release write: %w", err)
	}
	return nil
}

func sqlRecordRun(ctx context.Context, db *sql.DB, stats matcher.Stats, startedAt time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO match_runs
			(run_id, started_at, examined, matched, written, duplicates, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		stats.RunID.String(),
		startedAt.Unix(),
		stats.Examined,
		stats.Matched,
		stats.Written,
		stats.Duplicates,
		stats.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record match run %s: %w", stats.RunID, err)
	}
	return nil
}

func sqlCounts(ctx context.Context, db *sql.DB) (Counts, error) {
	var c Counts
	err := db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM discogs_release),
			(SELECT COUNT(*) FROM discogs_release_to_recording),
			(SELECT COUNT(*) FROM styles),
			(SELECT COUNT(*) FROM match_runs)
	`).Scan(&c.Releases, &c.Links, &c.Styles, &c.Runs)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to count releases: %w", err)
	}
	return c, nil
}

func sqlReleasesForRecording(ctx context.Context, db *sql.DB, recordingID string) ([]int64, error) {
	idRows, err := db.QueryContext(ctx, `
		SELECT discogs_id FROM discogs_release_to_recording
		WHERE recording_id = ?
		ORDER BY discogs_id
	`, recordingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query releases for recording: %w", err)
	}
	defer func() {
		if closeErr := idRows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	var ids []int64
	for idRows.Next() {
		var id int64
		if err := idRows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan release id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := idRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate release ids: %w", err)
	}
	return ids, nil
}

func sqlStylesForRelease(ctx context.Context, db *sql.DB, discogsID int64) ([]string, error) {
	styleRows, err := db.QueryContext(ctx, `
		SELECT s.style_name FROM styles s
		JOIN styles_to_discogs sd ON sd.style_id = s.id
		WHERE sd.discogs_id = ?
		ORDER BY s.style_name
	`, discogsID)
	if err != nil {
		return nil, fmt.Errorf("failed to query styles for release: %w", err)
	}
	defer func() {
		if closeErr := styleRows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	var styles []string
	for styleRows.Next() {
		var s string
		if err := styleRows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan style: %w", err)
		}
		styles = append(styles, s)
	}
	if err := styleRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate styles: %w", err)
	}
	return styles, nil
}
