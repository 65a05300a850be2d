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
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// maxSQLiteVars stays under SQLite's default SQLITE_MAX_VARIABLE_NUMBER
// of 32766.
const maxSQLiteVars = 32000

// batchInserter buffers rows for one table inside a transaction and writes
// them as multi-row INSERTs. Parents registered with setDependencies are
// flushed first so foreign keys always resolve.
type batchInserter struct {
	tx           *sql.Tx
	table        string
	columns      []string
	buffer       []any
	dependencies []*batchInserter
	rows         int
	orIgnore     bool
}

func newBatchInserter(tx *sql.Tx, table string, columns []string, orIgnore bool) (*batchInserter, error) {
	if tx == nil {
		return nil, errors.New("transaction is nil")
	}
	if table == "" {
		return nil, errors.New("table name is empty")
	}
	if len(columns) == 0 {
		return nil, errors.New("columns list is empty")
	}
	return &batchInserter{
		tx:       tx,
		table:    table,
		columns:  columns,
		orIgnore: orIgnore,
	}, nil
}

func (b *batchInserter) setDependencies(deps ...*batchInserter) {
	b.dependencies = deps
}

func (b *batchInserter) add(values ...any) error {
	if len(values) != len(b.columns) {
		return fmt.Errorf(
			"expected %d values for columns %v of %s, got %d",
			len(b.columns), b.columns, b.table, len(values),
		)
	}
	b.buffer = append(b.buffer, values...)
	b.rows++
	return nil
}

// flush writes every buffered row, splitting the batch when it would exceed
// the sqlite variable limit.
func (b *batchInserter) flush(ctx context.Context) error {
	for _, dep := range b.dependencies {
		if err := dep.flush(ctx); err != nil {
			return fmt.Errorf("failed to flush dependency for %s: %w", b.table, err)
		}
	}
	if b.rows == 0 {
		return nil
	}

	maxRows := maxSQLiteVars / len(b.columns)
	for start := 0; start < b.rows; start += maxRows {
		n := min(maxRows, b.rows-start)
		values := b.buffer[start*len(b.columns) : (start+n)*len(b.columns)]
		if err := b.exec(ctx, n, values); err != nil {
			return err
		}
	}

	log.Debug().
		Str("table", b.table).
		Int("rows", b.rows).
		Bool("or_ignore", b.orIgnore).
		Msg("flushed batch insert")

	b.buffer = b.buffer[:0]
	b.rows = 0
	return nil
}

func (b *batchInserter) exec(ctx context.Context, rows int, values []any) error {
	stmt, err := b.tx.PrepareContext(ctx, b.insertSQL(rows))
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert into %s: %w", b.table, err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("table", b.table).Msg("failed to close batch insert statement")
		}
	}()

	if _, err := stmt.ExecContext(ctx, values...); err != nil {
		return fmt.Errorf("failed to batch insert %d rows into %s: %w", rows, b.table, err)
	}
	return nil
}

// insertSQL builds the statement for rows rows, for example:
//
//	INSERT OR IGNORE INTO styles (style_name) VALUES
//	    (?),
//	    (?)
func (b *batchInserter) insertSQL(rows int) string {
	keyword := "INSERT"
	if b.orIgnore {
		keyword = "INSERT OR IGNORE"
	}

	placeholder := "(" + strings.Repeat("?, ", len(b.columns)-1) + "?)"
	placeholders := strings.Repeat(placeholder+",\n    ", rows-1) + placeholder

	return fmt.Sprintf("%s INTO %s (%s) VALUES\n    %s",
		keyword, b.table, strings.Join(b.columns, ", "), placeholders)
}
