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

// Package matcher resolves free-text (song, album, artist) rows to catalog
// releases.
//
// Matching runs in two stages. Track confirmation looks the normalized album
// up in the index tracklist and requires the normalized song to be attested
// on it. Only then does artist disambiguation walk the releases sharing the
// album title, in catalog order, and return the first one crediting the
// normalized artist. Anything else is a NoMatch, reported as ok == false and
// never as an error.
package matcher

import (
	"context"

	"github.com/jazzgraph/jazzgraph/pkg/catalog"
	"github.com/rs/zerolog/log"
)

// Row is one query row. Payload is carried through to the Result untouched.
type Row struct {
	Payload any
	Song    string
	Album   string
	Artist  string
}

// Result is the outcome of matching a Row. Record is the zero value when
// Matched is false.
type Result struct {
	Row     Row
	Record  catalog.Record
	Matched bool
}

// Matcher matches rows against a catalog index. It holds no mutable state of
// its own and is safe for concurrent use.
type Matcher struct {
	index *catalog.Index
}

// New creates a Matcher over index.
func New(index *catalog.Index) *Matcher {
	return &Matcher{index: index}
}

// Index returns the underlying catalog index.
func (m *Matcher) Index() *catalog.Index {
	return m.index
}

// Match returns the catalog record for the row, or ok == false for NoMatch.
// The only errors come from building the index on first use.
func (m *Matcher) Match(ctx context.Context, song, album, artist string) (catalog.Record, bool, error) {
	n := m.index.Normalizer()

	albumKey := n.Normalize(album)
	if albumKey == "" {
		return catalog.Record{}, false, nil
	}

	tracks, ok, err := m.index.TracksForKey(ctx, albumKey)
	if err != nil {
		return catalog.Record{}, false, err
	}
	if !ok || len(tracks) == 0 {
		return catalog.Record{}, false, nil
	}

	songKey := n.Normalize(song)
	if songKey == "" || !tracks.Contains(songKey) {
		return catalog.Record{}, false, nil
	}

	artistKey := n.Normalize(artist)
	if artistKey == "" {
		return catalog.Record{}, false, nil
	}

	candidates, err := m.index.RecordsForKey(ctx, albumKey)
	if err != nil {
		return catalog.Record{}, false, err
	}
	for _, rec := range candidates {
		for _, a := range rec.Artists {
			if n.Normalize(a.Name) == artistKey {
				log.Debug().
					Str("album", albumKey).
					Str("song", songKey).
					Str("artist", artistKey).
					Int64("id", rec.ID).
					Msg("matched catalog release")
				return rec, true, nil
			}
		}
	}

	return catalog.Record{}, false, nil
}

// MatchRow is Match for a Row.
func (m *Matcher) MatchRow(ctx context.Context, row Row) (Result, error) {
	rec, ok, err := m.Match(ctx, row.Song, row.Album, row.Artist)
	if err != nil {
		return Result{Row: row}, err
	}
	return Result{Row: row, Record: rec, Matched: ok}, nil
}
