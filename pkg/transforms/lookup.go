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

// Package transforms has small helpers for building lookup tables out of
// columns of keys.
package transforms

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey is returned when a column that must hold unique keys
// repeats one.
var ErrDuplicateKey = errors.New("duplicate key")

// IndexByPosition maps each value in keys to its position. It fails on the
// first repeated value instead of overwriting the earlier position.
func IndexByPosition[T comparable](keys []T) (map[T]int, error) {
	out := make(map[T]int, len(keys))
	for i, k := range keys {
		if prev, ok := out[k]; ok {
			return nil, fmt.Errorf("%w: %v at positions %d and %d", ErrDuplicateKey, k, prev, i)
		}
		out[k] = i
	}
	return out, nil
}

// MapValues looks each key up in mapping. The returned flags report which
// keys were present; missing keys get the zero value.
func MapValues[K comparable, V any](keys []K, mapping map[K]V) ([]V, []bool) {
	values := make([]V, len(keys))
	found := make([]bool, len(keys))
	for i, k := range keys {
		values[i], found[i] = mapping[k]
	}
	return values, found
}
