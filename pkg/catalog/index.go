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
	"context"
	"fmt"
	"slices"
	"sort"
	"sync/atomic"
	"time"

	"github.com/jazzgraph/jazzgraph/pkg/helpers/syncutil"
	"github.com/jazzgraph/jazzgraph/pkg/titles"
	"github.com/rs/zerolog/log"
)

// State is the build state of an Index.
type State int32

const (
	StateUninitialized State = iota
	StateBuilding
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// TrackSet is the set of normalized track titles known for an album title.
type TrackSet map[string]struct{}

// Contains reports whether the normalized track title is in the set.
func (ts TrackSet) Contains(track string) bool {
	_, ok := ts[track]
	return ok
}

// Tracklist maps a normalized album title to the union of normalized track
// titles across every release sharing that title.
type Tracklist map[string]TrackSet

// Stats summarizes a built index.
type Stats struct {
	Records int `json:"records"`
	Skipped int `json:"skipped"`
	Titles  int `json:"titles"`
	Tracks  int `json:"tracks"`
}

type indexData struct {
	albums    []string
	tracklist Tracklist
	byTitle   map[string][]Record
	byID      map[int64]Record
	stats     Stats
}

// Option configures an Index.
type Option func(*Index)

// WithFilter restricts the index to records accepted by f. A nil filter
// accepts everything.
func WithFilter(f Filter) Option {
	return func(idx *Index) {
		if f == nil {
			f = AcceptAll
		}
		idx.filter = f
	}
}

// WithNormalizer sets the title normalizer used while building. The same
// normalizer must be used to look titles up, which Index does for its own
// raw-title methods.
func WithNormalizer(n *titles.Normalizer) Option {
	return func(idx *Index) {
		idx.normalizer = n
	}
}

// Index is the release catalog index. It is built lazily from its Source the
// first time any lookup needs it, and at most once successfully. Concurrent
// first callers block until the build finishes. Once ready the index is
// read-only and safe for concurrent use.
type Index struct {
	src        Source
	filter     Filter
	normalizer *titles.Normalizer
	data       *indexData
	mu         syncutil.Mutex
	state      atomic.Int32
}

// NewIndex creates an unbuilt index over src.
func NewIndex(src Source, opts ...Option) *Index {
	idx := &Index{
		src:        src,
		filter:     AcceptAll,
		normalizer: titles.Default,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// State returns the current build state.
func (idx *Index) State() State {
	return State(idx.state.Load())
}

// Ready reports whether the index has been built.
func (idx *Index) Ready() bool {
	return idx.State() == StateReady
}

// Normalizer returns the normalizer the index was built with.
func (idx *Index) Normalizer() *titles.Normalizer {
	return idx.normalizer
}

// Load builds the index if it is not built yet. It is called implicitly by
// every lookup. A failed build leaves the index uninitialized so a later
// call can retry.
func (idx *Index) Load(ctx context.Context) error {
	_, err := idx.load(ctx)
	return err
}

func (idx *Index) load(ctx context.Context) (*indexData, error) {
	if idx.State() == StateReady {
		return idx.data, nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.State() == StateReady {
		return idx.data, nil
	}

	idx.state.Store(int32(StateBuilding))
	start := time.Now()

	data, err := idx.build(ctx)
	if err != nil {
		idx.state.Store(int32(StateUninitialized))
		log.Error().Err(err).Msg("catalog index build failed")
		return nil, fmt.Errorf("failed to build catalog index: %w", err)
	}

	idx.data = data
	idx.state.Store(int32(StateReady))

	log.Info().
		Int("records", data.stats.Records).
		Int("skipped", data.stats.Skipped).
		Int("titles", data.stats.Titles).
		Int("tracks", data.stats.Tracks).
		Dur("elapsed", time.Since(start)).
		Msg("catalog index built")

	return data, nil
}

func (idx *Index) build(ctx context.Context) (*indexData, error) {
	data := &indexData{
		tracklist: make(Tracklist),
		byTitle:   make(map[string][]Record),
		byID:      make(map[int64]Record),
	}

	err := idx.src.Each(ctx, func(rec Record) error {
		if !idx.filter(rec) {
			data.stats.Skipped++
			return nil
		}

		album := idx.normalizer.Normalize(rec.Title)
		tracks, ok := data.tracklist[album]
		if !ok {
			tracks = make(TrackSet)
			data.tracklist[album] = tracks
		}
		for _, t := range rec.Tracklist {
			track := idx.normalizer.Normalize(t.Title)
			if track == "" {
				continue
			}
			tracks[track] = struct{}{}
		}

		data.byTitle[album] = append(data.byTitle[album], rec)
		if _, dup := data.byID[rec.ID]; dup {
			log.Warn().Int64("id", rec.ID).Msg("duplicate record id in catalog, keeping latest")
		}
		data.byID[rec.ID] = rec
		data.stats.Records++

		return nil
	})
	if err != nil {
		return nil, err
	}

	data.albums = make([]string, 0, len(data.tracklist))
	for album, tracks := range data.tracklist {
		data.albums = append(data.albums, album)
		data.stats.Tracks += len(tracks)
	}
	sort.Strings(data.albums)
	data.stats.Titles = len(data.albums)

	return data, nil
}

// Tracklist returns the album-to-tracks table. The returned map is shared and
// must not be modified.
func (idx *Index) Tracklist(ctx context.Context) (Tracklist, error) {
	data, err := idx.load(ctx)
	if err != nil {
		return nil, err
	}
	return data.tracklist, nil
}

// TracksFor returns the track set for a raw album title, normalizing it
// first. The second return is false when the album is not in the index.
func (idx *Index) TracksFor(ctx context.Context, rawAlbum string) (TrackSet, bool, error) {
	return idx.TracksForKey(ctx, idx.normalizer.Normalize(rawAlbum))
}

// TracksForKey is TracksFor for an already normalized album title.
func (idx *Index) TracksForKey(ctx context.Context, album string) (TrackSet, bool, error) {
	data, err := idx.load(ctx)
	if err != nil {
		return nil, false, err
	}
	tracks, ok := data.tracklist[album]
	return tracks, ok, nil
}

// MatchingTitles returns every record whose normalized title equals the
// normalized rawAlbum, in catalog order.
func (idx *Index) MatchingTitles(ctx context.Context, rawAlbum string) ([]Record, error) {
	return idx.RecordsForKey(ctx, idx.normalizer.Normalize(rawAlbum))
}

// RecordsForKey is MatchingTitles for an already normalized album title.
func (idx *Index) RecordsForKey(ctx context.Context, album string) ([]Record, error) {
	data, err := idx.load(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(data.byTitle[album]), nil
}

// Record returns the record with the given catalog ID.
func (idx *Index) Record(ctx context.Context, id int64) (Record, bool, error) {
	data, err := idx.load(ctx)
	if err != nil {
		return Record{}, false, err
	}
	rec, ok := data.byID[id]
	return rec, ok, nil
}

// AlbumTitles returns every distinct normalized album title, sorted. The
// returned slice is shared and must not be modified.
func (idx *Index) AlbumTitles(ctx context.Context) ([]string, error) {
	data, err := idx.load(ctx)
	if err != nil {
		return nil, err
	}
	return data.albums, nil
}

// Stats returns counts for the built index.
func (idx *Index) Stats(ctx context.Context) (Stats, error) {
	data, err := idx.load(ctx)
	if err != nil {
		return Stats{}, err
	}
	return data.stats, nil
}
