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
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jazzgraph/jazzgraph/pkg/titles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource wraps a source and counts full passes over it.
type countingSource struct {
	src    Source
	err    error
	passes atomic.Int32
}

func (c *countingSource) Each(ctx context.Context, fn func(Record) error) error {
	c.passes.Add(1)
	if c.err != nil {
		return c.err
	}
	return c.src.Each(ctx, fn)
}

func TestIndex_UnionSemantics(t *testing.T) {
	t.Parallel()

	idx := NewIndex(headHuntersCatalog())
	tracklist, err := idx.Tracklist(context.Background())
	require.NoError(t, err)

	tracks := tracklist["head hunters"]
	assert.True(t, tracks.Contains("sly"))
	assert.True(t, tracks.Contains("it s herbie hancock"))
	assert.True(t, tracks.Contains("watermelon man"))
	assert.False(t, tracks.Contains("superunknown"))
}

func TestIndex_MatchingTitles_CatalogOrder(t *testing.T) {
	t.Parallel()

	idx := NewIndex(headHuntersCatalog())
	recs, err := idx.MatchingTitles(context.Background(), "HEAD  HUNTERS (2003 Remaster)")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, hancockID, recs[0].ID)
	assert.Equal(t, farleyID, recs[1].ID)

	none, err := idx.MatchingTitles(context.Background(), "Superunknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestIndex_MatchingTitles_ReturnsCopy(t *testing.T) {
	t.Parallel()

	idx := NewIndex(headHuntersCatalog())
	recs, err := idx.RecordsForKey(context.Background(), "head hunters")
	require.NoError(t, err)
	recs[0] = Record{ID: 1}

	again, err := idx.RecordsForKey(context.Background(), "head hunters")
	require.NoError(t, err)
	assert.Equal(t, hancockID, again[0].ID)
}

func TestIndex_FilterExclusion(t *testing.T) {
	t.Parallel()

	idx := NewIndex(headHuntersCatalog(), WithFilter(func(r Record) bool {
		return r.ID != farleyID
	}))

	tracks, ok, err := idx.TracksFor(context.Background(), "Head Hunters")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, tracks.Contains("sly"))
	assert.False(t, tracks.Contains("it s herbie hancock"))

	_, found, err := idx.Record(context.Background(), farleyID)
	require.NoError(t, err)
	assert.False(t, found)

	stats, err := idx.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Records: 1, Skipped: 1, Titles: 1, Tracks: 4}, stats)
}

func TestIndex_NilFilterAcceptsAll(t *testing.T) {
	t.Parallel()

	idx := NewIndex(headHuntersCatalog(), WithFilter(nil))
	stats, err := idx.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Records)
}

func TestIndex_MissingTitleAndTracks(t *testing.T) {
	t.Parallel()

	src := SliceSource{
		{ID: 1},
		{ID: 2, Title: "Remastered", Tracklist: []Track{{Title: ""}, {Title: "(feat. Nobody)"}}},
	}
	idx := NewIndex(src)

	tracks, ok, err := idx.TracksForKey(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, tracks)

	recs, err := idx.RecordsForKey(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestIndex_DuplicateIDKeepsLatest(t *testing.T) {
	t.Parallel()

	replaced := headHuntersFarley()
	replaced.ID = hancockID
	idx := NewIndex(SliceSource{headHuntersHancock(), replaced})

	rec, ok, err := idx.Record(context.Background(), hancockID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Chris Farley", rec.Artists[0].Name)

	recs, err := idx.MatchingTitles(context.Background(), "Head Hunters")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestIndex_AlbumTitlesSorted(t *testing.T) {
	t.Parallel()

	src := SliceSource{
		{ID: 1, Title: "Maiden Voyage"},
		{ID: 2, Title: "Empyrean Isles"},
		{ID: 3, Title: "Head Hunters"},
		{ID: 4, Title: "Head Hunters"},
	}
	titlesOut, err := NewIndex(src).AlbumTitles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"empyrean isles", "head hunters", "maiden voyage"}, titlesOut)
}

func TestIndex_AlbumTitlesBuiltOnce(t *testing.T) {
	t.Parallel()

	idx := NewIndex(headHuntersCatalog())
	first, err := idx.AlbumTitles(context.Background())
	require.NoError(t, err)
	second, err := idx.AlbumTitles(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"head hunters"}, first)
	assert.Same(t, &first[0], &second[0])
}

func TestIndex_ConcurrentFirstAccessBuildsOnce(t *testing.T) {
	t.Parallel()

	src := &countingSource{src: headHuntersCatalog()}
	idx := NewIndex(src)
	assert.Equal(t, StateUninitialized, idx.State())

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracks, ok, err := idx.TracksFor(context.Background(), "Head Hunters")
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.True(t, tracks.Contains("sly"))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.passes.Load())
	assert.True(t, idx.Ready())
	assert.Equal(t, StateReady, idx.State())
}

func TestIndex_FailedBuildRetries(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk on fire")
	src := &countingSource{src: headHuntersCatalog(), err: boom}
	idx := NewIndex(src)

	_, err := idx.Tracklist(context.Background())
	require.ErrorIs(t, err, boom)
	assert.False(t, idx.Ready())
	assert.Equal(t, StateUninitialized, idx.State())

	src.err = nil
	require.NoError(t, idx.Load(context.Background()))
	assert.True(t, idx.Ready())
	assert.Equal(t, int32(2), src.passes.Load())

	require.NoError(t, idx.Load(context.Background()))
	assert.Equal(t, int32(2), src.passes.Load())
}

func TestIndex_CancelledBuildNotReady(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	idx := NewIndex(headHuntersCatalog())
	err := idx.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, idx.Ready())
}

func TestIndex_WithNormalizer(t *testing.T) {
	t.Parallel()

	n, err := titles.NewNormalizer(0)
	require.NoError(t, err)
	idx := NewIndex(headHuntersCatalog(), WithNormalizer(n))
	assert.Same(t, n, idx.Normalizer())

	_, ok, err := idx.TracksFor(context.Background(), "head-hunters")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestState_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "building", StateBuilding.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "State(9)", State(9).String())
}
