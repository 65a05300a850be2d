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
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoReleases = `{"id": 31381, "title": "Head Hunters", "tracklist": [{"title": "Sly"}], "artists": [{"id": 4326, "name": "Herbie Hancock"}]}

{"id": 111111, "title": "Head Hunters", "tracklist": [{"title": "It's Herbie Hancock"}], "artists": [{"id": null, "name": "Chris Farley"}]}
`

func collect(t *testing.T, src Source) []Record {
	t.Helper()
	var out []Record
	require.NoError(t, src.Each(context.Background(), func(r Record) error {
		out = append(out, r)
		return nil
	}))
	return out
}

func TestJSONLinesSource_Plain(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/releases.jsonl", []byte(twoReleases), 0o644))

	src := NewJSONLinesSource(fs, "/data/releases.jsonl")
	assert.Equal(t, "/data/releases.jsonl", src.Path())

	recs := collect(t, src)
	require.Len(t, recs, 2)
	assert.Equal(t, hancockID, recs[0].ID)
	assert.Equal(t, farleyID, recs[1].ID)
	assert.Equal(t, "Chris Farley", recs[1].Artists[0].Name)
}

func TestJSONLinesSource_Gzip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(twoReleases))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/releases.jsonl.gz", buf.Bytes(), 0o644))

	recs := collect(t, NewJSONLinesSource(fs, "/data/releases.jsonl.gz"))
	require.Len(t, recs, 2)
	assert.Equal(t, "Head Hunters", recs[1].Title)
}

func TestJSONLinesSource_Errors(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.jsonl", []byte("{\"id\": 1}\n{\"title\": \"no id\"}\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/bad.jsonl.gz", []byte("not gzip"), 0o644))

	tests := []struct {
		name     string
		path     string
		contains string
	}{
		{name: "missing file", path: "/missing.jsonl"},
		{name: "malformed line", path: "/bad.jsonl", contains: "line 2"},
		{name: "corrupt gzip", path: "/bad.jsonl.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := NewJSONLinesSource(fs, tt.path).Each(context.Background(), func(Record) error { return nil })
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSourceRead)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestJSONLinesSource_CallbackErrorStops(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/r.jsonl", []byte(twoReleases), 0o644))

	stop := errors.New("stop")
	calls := 0
	err := NewJSONLinesSource(fs, "/r.jsonl").Each(context.Background(), func(Record) error {
		calls++
		return stop
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestSliceSource_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := headHuntersCatalog().Each(ctx, func(Record) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestJSONLinesSource_NumericTrackFieldsIndex(t *testing.T) {
	t.Parallel()

	const line = `{"id": 31381, "title": "Head Hunters", "tracklist": [` +
		`{"title": "Sly", "position": 1, "duration": 610, "type_": "track"}, ` +
		`{"title": "Vein Melter", "position": "B2"}]}` + "\n"

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/releases.jsonl", []byte(line), 0o644))

	idx := NewIndex(NewJSONLinesSource(fs, "/data/releases.jsonl"))
	require.NoError(t, idx.Load(context.Background()))

	tracks, ok, err := idx.TracksFor(context.Background(), "Head Hunters")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, tracks.Contains("sly"))
	assert.True(t, tracks.Contains("vein melter"))

	rec, ok, err := idx.Record(context.Background(), hancockID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", rec.Tracklist[0].Position)
	assert.JSONEq(t, `"track"`, string(rec.Tracklist[0].Extra["type_"]))
}
