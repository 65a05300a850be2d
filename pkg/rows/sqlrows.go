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

package rows

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jazzgraph/jazzgraph/pkg/matcher"
	"github.com/jazzgraph/jazzgraph/pkg/transforms"
	"github.com/rs/zerolog/log"
)

// minColumns is song, album and artist.
const minColumns = 3

// Payload holds the trailing columns of a SQLSource row keyed by column
// name. NULL reads as "".
type Payload map[string]string

// SQLSource runs a query whose first three columns are song, album and
// artist. Any further columns become the row Payload.
type SQLSource struct {
	db    *sql.DB
	query string
	args  []any
}

// NewSQLSource creates a source running query with args against db.
func NewSQLSource(db *sql.DB, query string, args ...any) *SQLSource {
	return &SQLSource{db: db, query: query, args: args}
}

// Each implements matcher.RowSource.
func (s *SQLSource) Each(ctx context.Context, fn func(matcher.Row) error) error {
	rows, err := s.db.QueryContext(ctx, s.query, s.args...)
	if err != nil {
		return fmt.Errorf("%w: query: %w", ErrRowsRead, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("%w: columns: %w", ErrRowsRead, err)
	}
	if len(cols) < minColumns {
		return fmt.Errorf("%w: query returns %d columns, need song, album and artist", ErrRowsRead, len(cols))
	}
	// payload columns become map keys, so a repeated name would drop a value
	if _, err := transforms.IndexByPosition(cols[minColumns:]); err != nil {
		return fmt.Errorf("%w: payload columns: %w", ErrRowsRead, err)
	}

	values := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("%w: scan: %w", ErrRowsRead, err)
		}

		row := matcher.Row{
			Song:   values[0].String,
			Album:  values[1].String,
			Artist: values[2].String,
		}
		if len(cols) > minColumns {
			payload := make(Payload, len(cols)-minColumns)
			for i := minColumns; i < len(cols); i++ {
				payload[cols[i]] = values[i].String
			}
			row.Payload = payload
		}

		if err := fn(row); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterate: %w", ErrRowsRead, err)
	}
	return nil
}
