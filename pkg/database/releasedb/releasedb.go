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

// Package releasedb stores matched catalog releases in sqlite: the releases
// themselves, which recordings they matched, their styles, and a log of
// match runs.
package releasedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jazzgraph/jazzgraph/pkg/database"
	"github.com/jazzgraph/jazzgraph/pkg/matcher"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNullSQL = errors.New("release database is not connected")

// ReleaseDB is the match store. It implements matcher.Sink.
type ReleaseDB struct {
	sql  *sql.DB
	path string
}

// Open opens or creates the database at path and migrates it.
func Open(ctx context.Context, path string) (*ReleaseDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory for database: %w", err)
	}

	sqlInstance, err := sql.Open("sqlite3", path+database.SQLiteConnParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := sqlInstance.PingContext(ctx); err != nil {
		_ = sqlInstance.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &ReleaseDB{sql: sqlInstance, path: path}
	if err := db.MigrateUp(); err != nil {
		_ = sqlInstance.Close()
		return nil, err
	}
	return db, nil
}

// OpenWithDB wraps an existing connection, such as an in-memory database in
// tests, and migrates it.
func OpenWithDB(sqlDB *sql.DB) (*ReleaseDB, error) {
	db := &ReleaseDB{sql: sqlDB}
	if err := db.MigrateUp(); err != nil {
		return nil, err
	}
	return db, nil
}

// Path returns the database file path, empty for wrapped connections.
func (db *ReleaseDB) Path() string {
	return db.path
}

func (db *ReleaseDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *ReleaseDB) Close() error {
	if db.sql == nil {
		return nil
	}
	if err := db.sql.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Write stores a chunk of matched results in one transaction. Releases,
// links and styles already present are left as they are.
func (db *ReleaseDB) Write(ctx context.Context, results []matcher.Result) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlWriteResults(ctx, db.sql, results)
}

// RecordRun logs a finished match run.
func (db *ReleaseDB) RecordRun(ctx context.Context, stats matcher.Stats, startedAt time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlRecordRun(ctx, db.sql, stats, startedAt)
}

// Counts are row totals per table.
type Counts struct {
	Releases int64 `json:"releases"`
	Links    int64 `json:"links"`
	Styles   int64 `json:"styles"`
	Runs     int64 `json:"runs"`
}

func (db *ReleaseDB) Counts(ctx context.Context) (Counts, error) {
	if db.sql == nil {
		return Counts{}, ErrNullSQL
	}
	return sqlCounts(ctx, db.sql)
}

// ReleasesForRecording returns the catalog IDs linked to a recording.
func (db *ReleaseDB) ReleasesForRecording(ctx context.Context, recordingID string) ([]int64, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlReleasesForRecording(ctx, db.sql, recordingID)
}

// StylesForRelease returns the style names of a catalog release, sorted.
func (db *ReleaseDB) StylesForRelease(ctx context.Context, discogsID int64) ([]string, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlStylesForRelease(ctx, db.sql, discogsID)
}
