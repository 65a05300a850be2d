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
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrSourceRead is returned when a catalog source cannot be opened, read to
// the end, or decoded.
var ErrSourceRead = errors.New("failed to read catalog source")

// maxLineSize bounds a single JSON line. Large box sets with long credit
// lists run to a few hundred kilobytes.
const maxLineSize = 16 * 1024 * 1024

// Source streams catalog records one at a time. Each stops at the first
// error returned by fn and returns it.
type Source interface {
	Each(ctx context.Context, fn func(Record) error) error
}

// SliceSource serves records from memory, mostly for tests and small
// catalogs assembled by hand.
type SliceSource []Record

// Each calls fn for every record in order.
func (s SliceSource) Each(ctx context.Context, fn func(Record) error) error {
	for _, rec := range s {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("catalog iteration cancelled: %w", err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// JSONLinesSource reads one JSON record per line, as written by the Discogs
// dump extractor. Paths ending in ".gz" are decompressed on the fly.
type JSONLinesSource struct {
	fs   afero.Fs
	path string
}

// NewJSONLinesSource creates a source reading path from fs.
func NewJSONLinesSource(fs afero.Fs, path string) *JSONLinesSource {
	return &JSONLinesSource{fs: fs, path: path}
}

// Path returns the file the source reads.
func (s *JSONLinesSource) Path() string {
	return s.path
}

// Each decodes and yields records without loading the whole file. Blank
// lines are skipped; any other undecodable line is an error.
func (s *JSONLinesSource) Each(ctx context.Context, fn func(Record) error) error {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceRead, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("path", s.path).Msg("failed to close catalog file")
		}
	}()

	var r io.Reader = f
	if strings.HasSuffix(s.path, ".gz") {
		gz, gzErr := gzip.NewReader(f)
		if gzErr != nil {
			return fmt.Errorf("%w: %s: %w", ErrSourceRead, s.path, gzErr)
		}
		defer func() {
			if closeErr := gz.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Str("path", s.path).Msg("failed to close gzip reader")
			}
		}()
		r = gz
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("catalog iteration cancelled: %w", err)
		}

		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("%w: %s line %d: %w", ErrSourceRead, s.path, line, err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %s after line %d: %w", ErrSourceRead, s.path, line, err)
	}

	return nil
}
