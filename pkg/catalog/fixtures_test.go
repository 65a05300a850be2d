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

import "encoding/json"

const (
	hancockID int64 = 31381
	farleyID  int64 = 111111
)

func int64Ptr(v int64) *int64 {
	return &v
}

func headHuntersHancock() Record {
	return Record{
		ID:    hancockID,
		Title: "Head Hunters",
		Artists: []Artist{
			{ID: int64Ptr(4326), Name: "Herbie Hancock"},
		},
		Tracklist: []Track{
			{Title: "Chameleon", Position: "A"},
			{Title: "Watermelon Man", Position: "B1"},
			{Title: "Sly", Position: "B2"},
			{Title: "Vein Melter", Position: "B3"},
		},
		Extra: map[string]json.RawMessage{
			"genres":   json.RawMessage(`["Jazz"]`),
			"styles":   json.RawMessage(`["Jazz-Funk","Fusion"]`),
			"released": json.RawMessage(`"1973-10-26"`),
		},
	}
}

func headHuntersFarley() Record {
	return Record{
		ID:    farleyID,
		Title: "Head Hunters",
		Artists: []Artist{
			{ID: nil, Name: "Chris Farley"},
		},
		Tracklist: []Track{
			{Title: "It's Herbie Hancock"},
		},
		Extra: map[string]json.RawMessage{
			"genres": json.RawMessage(`["Jazz","Comedy"]`),
		},
	}
}

func headHuntersCatalog() SliceSource {
	return SliceSource{headHuntersHancock(), headHuntersFarley()}
}
