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
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/jazzgraph/jazzgraph/pkg/matcher"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrRowsRead is returned when a row source cannot be read or parsed.
var ErrRowsRead = errors.New("failed to read rows")

// CSVSource reads recordings from a CSV file with a recording_id,
// release_group_id, song, album, artist, release_date header.
type CSVSource struct {
	fs   afero.Fs
	path string
}

// NewCSVSource creates a source reading path from fs.
func NewCSVSource(fs afero.Fs, path string) *CSVSource {
	return &CSVSource{fs: fs, path: path}
}

// Each implements matcher.RowSource.
func (s *CSVSource) Each(ctx context.Context, fn func(matcher.Row) error) error {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRowsRead, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("path", s.path).Msg("failed to close rows file")
		}
	}()

	var cbErr error
	err = gocsv.UnmarshalToCallbackWithError(f, func(rec Recording) error {
		if err := ctx.Err(); err != nil {
			cbErr = fmt.Errorf("row iteration cancelled: %w", err)
			return cbErr
		}
		if err := fn(rec.Row()); err != nil {
			cbErr = err
			return err
		}
		return nil
	})
	if cbErr != nil {
		return cbErr
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRowsRead, s.path, err)
	}
	return nil
}

// CSVSink writes matched recordings as CSV. The header is written with the
// first chunk, or by Close if nothing matched.
type CSVSink struct {
	w             io.Writer
	headerWritten bool
}

// NewCSVSink creates a sink writing to w.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: w}
}

// Write implements matcher.Sink.
func (s *CSVSink) Write(_ context.Context, results []matcher.Result) error {
	out := make([]MatchedRecording, 0, len(results))
	for _, res := range results {
		out = append(out, NewMatchedRecording(res))
	}
	return s.write(out)
}

func (s *CSVSink) write(out []MatchedRecording) error {
	var err error
	if s.headerWritten {
		err = gocsv.MarshalWithoutHeaders(out, s.w)
	} else {
		err = gocsv.Marshal(out, s.w)
	}
	if err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	s.headerWritten = true
	return nil
}

// Close writes the header if no rows were written.
func (s *CSVSink) Close() error {
	if s.headerWritten {
		return nil
	}
	return s.write([]MatchedRecording{})
}
