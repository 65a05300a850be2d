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

package catalog

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Filter decides whether a record takes part in the index. Records it
// rejects are never indexed and never returned.
type Filter func(Record) bool

const genreJazz = "Jazz"

// Filter names accepted by FilterByName.
const (
	FilterNameAll           = "all"
	FilterNamePrefilterJazz = "prefilter-jazz"
	FilterNameJazzAlbum     = "jazz-album"
)

// AcceptAll is the default filter.
func AcceptAll(Record) bool {
	return true
}

// PrefilterJazz keeps any release tagged with the Jazz genre. It is the cheap
// first cut used when reducing a full dump to a jazz working set.
func PrefilterJazz(r Record) bool {
	return slices.Contains(r.Genres(), genreJazz)
}

// IsJazzAlbum keeps releases whose only genre is Jazz. Crossover releases
// (soundtracks, holiday albums, "Jazz, Pop") are excluded.
func IsJazzAlbum(r Record) bool {
	genres := r.Genres()
	return len(genres) < 2 && slices.Contains(genres, genreJazz)
}

var namedFilters = map[string]Filter{
	FilterNameAll:           AcceptAll,
	FilterNamePrefilterJazz: PrefilterJazz,
	FilterNameJazzAlbum:     IsJazzAlbum,
}

// FilterByName resolves a configured filter name. The empty name is "all".
func FilterByName(name string) (Filter, error) {
	if name == "" {
		return AcceptAll, nil
	}
	f, ok := namedFilters[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown catalog filter %q (known: %s)", name, strings.Join(FilterNames(), ", "))
	}
	return f, nil
}

// FilterNames lists the names FilterByName accepts.
func FilterNames() []string {
	names := make([]string, 0, len(namedFilters))
	for name := range namedFilters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
