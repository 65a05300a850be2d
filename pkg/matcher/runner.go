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

package matcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWorkers   = 4
	DefaultChunkSize = 1000
)

// ErrSinkWrite wraps failures returned by a Sink.
var ErrSinkWrite = errors.New("failed to write match results")

// RowSource streams query rows. Each stops at the first error returned by
// fn and returns it.
type RowSource interface {
	Each(ctx context.Context, fn func(Row) error) error
}

// Sink receives matched results in input order, one chunk at a time.
type Sink interface {
	Write(ctx context.Context, results []Result) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ctx context.Context, results []Result) error

// Write calls f.
func (f SinkFunc) Write(ctx context.Context, results []Result) error {
	return f(ctx, results)
}

// MultiSink writes every chunk to each sink in turn, stopping at the first
// failure.
type MultiSink []Sink

// Write implements Sink.
func (ms MultiSink) Write(ctx context.Context, results []Result) error {
	for _, s := range ms {
		if err := s.Write(ctx, results); err != nil {
			return err
		}
	}
	return nil
}

// RowSlice is an in-memory RowSource.
type RowSlice []Row

// Each implements RowSource.
func (rs RowSlice) Each(ctx context.Context, fn func(Row) error) error {
	for _, row := range rs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("row iteration cancelled: %w", err)
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

// KeyFunc extracts a dedupe key from a row.
type KeyFunc func(Row) string

// Stats are the aggregate counts of one batch run.
type Stats struct {
	RunID      uuid.UUID     `json:"runId"`
	Examined   int           `json:"examined"`
	Matched    int           `json:"matched"`
	Written    int           `json:"written"`
	Duplicates int           `json:"duplicates"`
	Elapsed    time.Duration `json:"elapsed"`
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithWorkers sets how many rows of a chunk are matched concurrently.
// Values below one are ignored.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithChunkSize sets how many rows are buffered before matching and writing.
// Values below one are ignored.
func WithChunkSize(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.chunkSize = n
		}
	}
}

// WithDedupeKey drops matched rows whose key was already written in this
// run. The first matched occurrence wins; unmatched rows never claim a key.
func WithDedupeKey(key KeyFunc) RunnerOption {
	return func(r *Runner) {
		r.key = key
	}
}

// WithClock overrides the clock used to time runs.
func WithClock(clock clockwork.Clock) RunnerOption {
	return func(r *Runner) {
		r.clock = clock
	}
}

// Runner matches a stream of rows in chunks and hands the matched results to
// a Sink. NoMatch rows are counted and skipped; only index, source and sink
// failures stop a run.
type Runner struct {
	matcher   *Matcher
	sink      Sink
	key       KeyFunc
	clock     clockwork.Clock
	workers   int
	chunkSize int
}

// NewRunner creates a Runner. A nil sink only counts.
func NewRunner(m *Matcher, sink Sink, opts ...RunnerOption) *Runner {
	r := &Runner{
		matcher:   m,
		sink:      sink,
		clock:     clockwork.NewRealClock(),
		workers:   DefaultWorkers,
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type runState struct {
	seen  map[string]struct{}
	stats Stats
}

// Run matches every row from src. Stats are returned even on error and
// reflect the rows handled before the failure.
func (r *Runner) Run(ctx context.Context, src RowSource) (Stats, error) {
	state := &runState{
		stats: Stats{RunID: uuid.New()},
		seen:  make(map[string]struct{}),
	}
	start := r.clock.Now()

	if err := r.matcher.Index().Load(ctx); err != nil {
		state.stats.Elapsed = r.clock.Since(start)
		return state.stats, err
	}

	log.Info().
		Str("runId", state.stats.RunID.String()).
		Int("workers", r.workers).
		Int("chunkSize", r.chunkSize).
		Msg("starting match run")

	chunk := make([]Row, 0, r.chunkSize)
	err := src.Each(ctx, func(row Row) error {
		chunk = append(chunk, row)
		if len(chunk) < r.chunkSize {
			return nil
		}
		err := r.processChunk(ctx, chunk, state)
		chunk = chunk[:0]
		return err
	})
	if err == nil && len(chunk) > 0 {
		err = r.processChunk(ctx, chunk, state)
	}

	state.stats.Elapsed = r.clock.Since(start)
	if err != nil {
		log.Error().Err(err).
			Str("runId", state.stats.RunID.String()).
			Int("examined", state.stats.Examined).
			Msg("match run failed")
		return state.stats, err
	}

	log.Info().
		Str("runId", state.stats.RunID.String()).
		Int("examined", state.stats.Examined).
		Int("matched", state.stats.Matched).
		Int("written", state.stats.Written).
		Int("duplicates", state.stats.Duplicates).
		Dur("elapsed", state.stats.Elapsed).
		Msg("match run complete")

	return state.stats, nil
}

func (r *Runner) processChunk(ctx context.Context, chunk []Row, state *runState) error {
	results := make([]Result, len(chunk))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, row := range chunk {
		g.Go(func() error {
			res, err := r.matcher.MatchRow(gctx, row)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := make([]Result, 0, len(results))
	for _, res := range results {
		state.stats.Examined++
		if !res.Matched {
			continue
		}
		state.stats.Matched++

		if r.key != nil {
			k := r.key(res.Row)
			if _, dup := state.seen[k]; dup {
				state.stats.Duplicates++
				continue
			}
			state.seen[k] = struct{}{}
		}
		out = append(out, res)
	}

	if len(out) == 0 || r.sink == nil {
		return nil
	}
	if err := r.sink.Write(ctx, out); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkWrite, err)
	}
	state.stats.Written += len(out)

	log.Debug().
		Int("chunk", len(chunk)).
		Int("written", len(out)).
		Int("examined", state.stats.Examined).
		Msg("match chunk written")

	return nil
}
