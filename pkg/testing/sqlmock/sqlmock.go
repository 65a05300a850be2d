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

// Package sqlmock sets up go-sqlmock the way the database tests expect it.
// It lives apart from the database packages so their tests can import it
// without a cycle.
package sqlmock

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// NewSQLMock creates a sqlmock connection with regexp query matching.
func NewSQLMock() (*sql.DB, sqlmock.Sqlmock, error) {
	db, mockDB, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sqlmock: %w", err)
	}
	return db, mockDB, nil
}

// NewSQLMockT is NewSQLMock for tests. It fails t on setup errors and, at
// cleanup, checks every expectation was met before closing the connection.
func NewSQLMockT(t testing.TB) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mockDB, err := NewSQLMock()
	if err != nil {
		t.Fatalf("sqlmock setup: %v", err)
	}
	t.Cleanup(func() {
		if err := mockDB.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	})
	return db, mockDB
}
