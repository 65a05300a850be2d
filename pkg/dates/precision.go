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

// Package dates cleans the partial release dates found in Discogs data.
//
// Discogs writes unknown date parts as zeros or leaves them off, so a release
// may be dated "1959", "1959-00", "1959-00-00", "1959-08", "1959-08-00" or
// "1959-08-17". Resolve turns each of these into a concrete date, reading an
// unknown part as the latest date compatible with what is known, and
// PrecisionOf reports how much of the date was actually known.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidDate is returned by Resolve for strings that are not a
// recognizable partial date.
var ErrInvalidDate = errors.New("invalid release date")

// Layout is the format of resolved dates.
const Layout = time.DateOnly

// Precision is how much of a release date is known.
type Precision int

const (
	Unknown Precision = iota
	Year
	Month
	Day
)

func (p Precision) String() string {
	switch p {
	case Year:
		return "year"
	case Month:
		return "month"
	case Day:
		return "day"
	default:
		return "unknown"
	}
}

var partialDateRe = regexp.MustCompile(`^(\d{4})(?:-(\d{2}))?(?:-(\d{2}))?$`)

type parts struct {
	year, month, day int
	precision        Precision
}

func parse(s string) parts {
	m := partialDateRe.FindStringSubmatch(s)
	if m == nil {
		return parts{}
	}

	// The regexp guarantees digits, so Atoi cannot fail. An absent group
	// parses as zero, the same as an explicit unknown.
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	p := parts{year: year, month: month, day: day}
	switch {
	case month == 0 && day == 0:
		p.precision = Year
	case month == 0:
		// a day without a month
		p.precision = Unknown
	case month > 12:
		p.precision = Unknown
	case day == 0:
		p.precision = Month
	case day > daysIn(year, time.Month(month)):
		p.precision = Unknown
	default:
		p.precision = Day
	}
	return p
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PrecisionOf reports the precision of a partial date string.
func PrecisionOf(s string) Precision {
	return parse(s).precision
}

// Resolve returns the concrete date for s in UTC along with its precision.
// Year precision resolves to December 31 and month precision to the last day
// of the month.
func Resolve(s string) (time.Time, Precision, error) {
	p := parse(s)
	switch p.precision {
	case Year:
		return time.Date(p.year, time.December, 31, 0, 0, 0, 0, time.UTC), Year, nil
	case Month:
		month := time.Month(p.month)
		return time.Date(p.year, month, daysIn(p.year, month), 0, 0, 0, 0, time.UTC), Month, nil
	case Day:
		return time.Date(p.year, time.Month(p.month), p.day, 0, 0, 0, 0, time.UTC), Day, nil
	default:
		return time.Time{}, Unknown, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
}

// Clean is Resolve formatted with Layout. Unresolvable dates give "".
func Clean(s string) (string, Precision) {
	t, p, err := Resolve(s)
	if err != nil {
		return "", Unknown
	}
	return t.Format(Layout), p
}
