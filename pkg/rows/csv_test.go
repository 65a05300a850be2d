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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jazzgraph/jazzgraph/pkg/catalog"
	"github.com/jazzgraph/jazzgraph/pkg/matcher"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recordingsCSV = `recording_id,release_group_id,song,album,artist,release_date
rec-1,rg-1,Sly,Head Hunters,Herbie Hancock,1973-10-26
rec-2,rg-2,"Black Hole Sun",Superunknown,Soundgarden,1994-03-08
rec-3,rg-1,"It's Herbie Hancock",Head Hunters,Chris Farley,
`

func TestCSVSource(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/rows.csv", []byte(recordingsCSV), 0o644))

	var got []matcher.Row
	err := NewCSVSource(fs, "/rows.csv").Each(context.Background(), func(row matcher.Row) error {
		got = append(got, row)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Sly", got[0].Song)
	assert.Equal(t, "Head Hunters", got[0].Album)
	assert.Equal(t, "Herbie Hancock", got[0].Artist)
	assert.Equal(t, "rec-1", RecordingKey(got[0]))
	assert.Equal(t, "It's Herbie Hancock", got[2].Song)

	rec, ok := got[1].Payload.(Recording)
	require.True(t, ok)
	assert.Equal(t, "rg-2", rec.ReleaseGroupID)
	assert.Equal(t, "1994-03-08", rec.ReleaseDate)
}

func TestCSVSource_Errors(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/rows.csv", []byte(recordingsCSV), 0o644))

	err := NewCSVSource(fs, "/missing.csv").Each(context.Background(), func(matcher.Row) error { return nil })
	require.ErrorIs(t, err, ErrRowsRead)

	stop := errors.New("stop")
	calls := 0
	err = NewCSVSource(fs, "/rows.csv").Each(context.Background(), func(matcher.Row) error {
		calls++
		return stop
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func matchedResult() matcher.Result {
	return matcher.Result{
		Row: Recording{
			RecordingID: "rec-1", ReleaseGroupID: "rg-1",
			Song: "Sly", Album: "Head Hunters", Artist: "Herbie Hancock", ReleaseDate: "1973",
		}.Row(),
		Record: catalog.Record{
			ID:    31381,
			Title: "Head Hunters",
			Extra: map[string]json.RawMessage{
				"styles":   json.RawMessage(`["Jazz-Funk","Fusion"]`),
				"released": json.RawMessage(`"1973-10"`),
			},
		},
		Matched: true,
	}
}

func TestCSVSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewCSVSink(&buf)

	require.NoError(t, sink.Write(context.Background(), []matcher.Result{matchedResult()}))
	require.NoError(t, sink.Write(context.Background(), []matcher.Result{matchedResult()}))
	require.NoError(t, sink.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t,
		"recording_id,release_group_id,song,album,artist,release_date,"+
			"discogs_id,discogs_title,discogs_date,date_precision,styles",
		lines[0])
	assert.Equal(t,
		"rec-1,rg-1,Sly,Head Hunters,Herbie Hancock,1973,31381,Head Hunters,1973-10-31,month,Jazz-Funk|Fusion",
		lines[1])
	assert.Equal(t, lines[1], lines[2])
}

func TestCSVSink_EmptyWritesHeader(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewCSVSink(&buf)
	require.NoError(t, sink.Close())
	assert.True(t, strings.HasPrefix(buf.String(), "recording_id,"))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestRecordingOf(t *testing.T) {
	t.Parallel()

	rec := Recording{RecordingID: "rec-9", Song: "Sly"}
	assert.Equal(t, rec, RecordingOf(matcher.Row{Payload: &rec}))

	var nilRec *Recording
	assert.Equal(t, Recording{Song: "Sly"}, RecordingOf(matcher.Row{Song: "Sly", Payload: nilRec}))

	fromSQL := RecordingOf(matcher.Row{
		Song: "Sly", Album: "Head Hunters", Artist: "Herbie Hancock",
		Payload: Payload{"recording_id": "rec-4", "release_date": "1973"},
	})
	assert.Equal(t, "rec-4", fromSQL.RecordingID)
	assert.Equal(t, "1973", fromSQL.ReleaseDate)
	assert.Equal(t, "Head Hunters", fromSQL.Album)

	assert.Empty(t, RecordingKey(matcher.Row{Payload: 42}))
}
