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

package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrecisionOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected Precision
	}{
		{input: "2010-01-03", expected: Day},
		{input: "2010", expected: Year},
		{input: "2010-01", expected: Month},
		{input: "2010-00-00", expected: Year},
		{input: "2010-03-00", expected: Month},
		{input: "2000-00", expected: Year},
		{input: "2012-02-29", expected: Day},
		{input: "2013-02-29", expected: Unknown},
		{input: "2010-13", expected: Unknown},
		{input: "2010-00-15", expected: Unknown},
		{input: "", expected: Unknown},
		{input: "circa 1960", expected: Unknown},
		{input: "1960s", expected: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, PrecisionOf(tt.input))
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input     string
		expected  string
		precision Precision
	}{
		{input: "2010-01-03", expected: "2010-01-03", precision: Day},
		{input: "2011", expected: "2011-12-31", precision: Year},
		{input: "2012-01", expected: "2012-01-31", precision: Month},
		{input: "2013-00-00", expected: "2013-12-31", precision: Year},
		{input: "2014-03-00", expected: "2014-03-31", precision: Month},
		{input: "2000-00", expected: "2000-12-31", precision: Year},
		{input: "2010-11", expected: "2010-11-30", precision: Month},
		{input: "2012-02", expected: "2012-02-29", precision: Month},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, p, err := Resolve(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.precision, p)
			assert.Equal(t, tt.expected, got.Format(Layout))
			assert.Equal(t, time.UTC, got.Location())

			cleaned, cp := Clean(tt.input)
			assert.Equal(t, tt.expected, cleaned)
			assert.Equal(t, tt.precision, cp)
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "1973-10-32", "73", "1973/10/26"} {
		_, p, err := Resolve(input)
		require.ErrorIs(t, err, ErrInvalidDate, input)
		assert.Equal(t, Unknown, p)

		cleaned, _ := Clean(input)
		assert.Empty(t, cleaned)
	}
}

func TestPrecision_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "year", Year.String())
	assert.Equal(t, "month", Month.String())
	assert.Equal(t, "day", Day.String())
	assert.Equal(t, "unknown", Unknown.String())
}
