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

package titles

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of raw titles remembered by Default. Track
// and album titles repeat heavily inside a release, so a few thousand
// entries cover a catalog scan's working set.
const DefaultCacheSize = 4096

// Default is the shared normalizer used when no other is configured.
var Default = MustNormalizer(DefaultCacheSize)

// Normalizer memoizes Normalize with a least-recently-used cache keyed by
// the raw title. It is safe for concurrent use.
type Normalizer struct {
	cache *lru.Cache[string, string]
}

// NewNormalizer creates a Normalizer remembering up to size titles. A size
// of zero disables caching.
func NewNormalizer(size int) (*Normalizer, error) {
	if size < 0 {
		return nil, fmt.Errorf("cache size must not be negative, got %d", size)
	}
	if size == 0 {
		return &Normalizer{}, nil
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create title cache: %w", err)
	}
	return &Normalizer{cache: cache}, nil
}

// MustNormalizer is NewNormalizer for package-level initialization.
func MustNormalizer(size int) *Normalizer {
	n, err := NewNormalizer(size)
	if err != nil {
		panic(err)
	}
	return n
}

// Normalize returns the canonical form of raw, see the package-level
// Normalize for the pipeline.
func (n *Normalizer) Normalize(raw string) string {
	if n == nil || n.cache == nil {
		return Normalize(raw)
	}
	if normalized, ok := n.cache.Get(raw); ok {
		return normalized
	}
	normalized := Normalize(raw)
	n.cache.Add(raw, normalized)
	return normalized
}

// Len reports how many titles are cached.
func (n *Normalizer) Len() int {
	if n == nil || n.cache == nil {
		return 0
	}
	return n.cache.Len()
}
