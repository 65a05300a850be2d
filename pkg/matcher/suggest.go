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
	"sort"

	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
)

const (
	// suggestMaxDistance skips candidates whose length differs from the
	// query by more than this many bytes.
	suggestMaxDistance = 8
	// suggestMinSimilarity is the Jaro-Winkler floor for a suggestion.
	suggestMinSimilarity float32 = 0.8
	// tieBreakTopN bounds how many candidates are re-ranked by edit distance.
	tieBreakTopN = 5
)

// Suggestion is a catalog album title close to a query that did not resolve.
type Suggestion struct {
	Title      string  `json:"title"`
	Similarity float32 `json:"similarity"`
}

// Suggest returns up to limit normalized album titles that nearly match
// album. An exact title is never suggested. A limit of zero or less returns
// every candidate above the similarity floor.
func (m *Matcher) Suggest(ctx context.Context, album string, limit int) ([]Suggestion, error) {
	query := m.index.Normalizer().Normalize(album)
	if query == "" {
		return nil, nil
	}

	candidates, err := m.index.AlbumTitles(ctx)
	if err != nil {
		return nil, err
	}

	matches := findFuzzyMatches(query, candidates, suggestMaxDistance, suggestMinSimilarity)
	matches = applyDamerauLevenshteinTieBreaker(query, matches, tieBreakTopN)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// findFuzzyMatches scores candidates against query with Jaro-Winkler, which
// weights shared prefixes and suits titles where the start is usually right.
// Results are sorted best first; equal scores keep candidate order.
func findFuzzyMatches(query string, candidates []string, maxDistance int, minSimilarity float32) []Suggestion {
	var matches []Suggestion

	for _, candidate := range candidates {
		if candidate == query || candidate == "" {
			continue
		}

		lenDiff := len(query) - len(candidate)
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if lenDiff > maxDistance {
			continue
		}

		similarity := edlib.JaroWinklerSimilarity(query, candidate)
		if similarity > 0.7 {
			log.Debug().
				Str("query", query).
				Str("candidate", candidate).
				Float32("similarity", similarity).
				Msg("album suggestion candidate")
		}

		if similarity >= minSimilarity {
			matches = append(matches, Suggestion{Title: candidate, Similarity: similarity})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	return matches
}

// applyDamerauLevenshteinTieBreaker re-ranks the top N matches by
// Damerau-Levenshtein distance so transpositions ("head hutners") rank
// ahead of prefix-only lookalikes. Matches past topN keep their order.
func applyDamerauLevenshteinTieBreaker(query string, matches []Suggestion, topN int) []Suggestion {
	if len(matches) < 2 {
		return matches
	}

	n := len(matches)
	if topN > 0 && n > topN {
		n = topN
	}

	type dlScore struct {
		match    Suggestion
		distance int
	}

	scored := make([]dlScore, n)
	for i, candidate := range matches[:n] {
		scored[i] = dlScore{
			match:    candidate,
			distance: edlib.DamerauLevenshteinDistance(query, candidate.Title),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].distance < scored[j].distance
	})

	result := make([]Suggestion, 0, len(matches))
	for _, s := range scored {
		result = append(result, s.match)
	}
	return append(result, matches[n:]...)
}
