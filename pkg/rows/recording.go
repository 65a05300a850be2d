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

// Package rows reads query rows for the matcher and writes matched rows out.
package rows

import (
	"strings"

	"github.com/jazzgraph/jazzgraph/pkg/dates"
	"github.com/jazzgraph/jazzgraph/pkg/matcher"
)

// Recording is one row of the recordings table: a song, the album it was
// released on and the credited artist.
type Recording struct {
	RecordingID    string `csv:"recording_id"`
	ReleaseGroupID string `csv:"release_group_id"`
	Song           string `csv:"song"`
	Album          string `csv:"album"`
	Artist         string `csv:"artist"`
	ReleaseDate    string `csv:"release_date"`
}

// Row converts the recording to a matcher row carrying itself as payload.
func (r Recording) Row() matcher.Row {
	return matcher.Row{
		Song:    r.Song,
		Album:   r.Album,
		Artist:  r.Artist,
		Payload: r,
	}
}

// MatchedRecording is a recording joined to the catalog release it matched.
type MatchedRecording struct {
	RecordingID    string `csv:"recording_id"`
	ReleaseGroupID string `csv:"release_group_id"`
	Song           string `csv:"song"`
	Album          string `csv:"album"`
	Artist         string `csv:"artist"`
	ReleaseDate    string `csv:"release_date"`
	DiscogsID      int64  `csv:"discogs_id"`
	DiscogsTitle   string `csv:"discogs_title"`
	DiscogsDate    string `csv:"discogs_date"`
	DatePrecision  string `csv:"date_precision"`
	Styles         string `csv:"styles"`
}

// stylesSep joins styles in the styles column.
const stylesSep = "|"

// RecordingOf recovers the recording behind a row. Rows from a Recording
// carry it directly; rows from SQLSource are rebuilt from their named
// columns. Anything else yields a recording with only the match fields set.
func RecordingOf(row matcher.Row) Recording {
	switch p := row.Payload.(type) {
	case Recording:
		return p
	case *Recording:
		if p != nil {
			return *p
		}
	case Payload:
		return Recording{
			RecordingID:    p["recording_id"],
			ReleaseGroupID: p["release_group_id"],
			Song:           row.Song,
			Album:          row.Album,
			Artist:         row.Artist,
			ReleaseDate:    p["release_date"],
		}
	}
	return Recording{Song: row.Song, Album: row.Album, Artist: row.Artist}
}

// RecordingKey is a dedupe key on the recording id.
func RecordingKey(row matcher.Row) string {
	return RecordingOf(row).RecordingID
}

// NewMatchedRecording flattens a matched result for output.
func NewMatchedRecording(res matcher.Result) MatchedRecording {
	rec := RecordingOf(res.Row)
	released, precision := dates.Clean(res.Record.Released())
	return MatchedRecording{
		RecordingID:    rec.RecordingID,
		ReleaseGroupID: rec.ReleaseGroupID,
		Song:           rec.Song,
		Album:          rec.Album,
		Artist:         rec.Artist,
		ReleaseDate:    rec.ReleaseDate,
		DiscogsID:      res.Record.ID,
		DiscogsTitle:   res.Record.Title,
		DiscogsDate:    released,
		DatePrecision:  precision.String(),
		Styles:         strings.Join(res.Record.Styles(), stylesSep),
	}
}
