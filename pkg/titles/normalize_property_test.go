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
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// ============================================================================
// Generators
// ============================================================================

// titleGen generates realistic titles mixing words, credits and remaster noise.
func titleGen() *rapid.Generator[string] {
	words := []string{
		"So", "What", "Blue", "Train", "Kind", "of", "Moritat", "Vol.", "E.P.",
		"Gloria's", "Step", "(Take", "1)", "(feat.", "Coltrane)", "Remastered",
		"2003", "Digital", "Remaster", "24", "Bit", "Mastering", "Rudy", "Van",
		"Gelder", "Edition", "-", "/", "(5.0", "Mix)", "(Pitch", "Corrected)",
		"Champs‐Élysées", "Générique", "\"Live\"", "[Bonus]", "<Alt>", "a--b",
	}
	return rapid.Custom(func(t *rapid.T) string {
		count := rapid.IntRange(0, 8).Draw(t, "wordCount")
		parts := make([]string, count)
		for i := range count {
			parts[i] = rapid.SampledFrom(words).Draw(t, "word")
		}
		sep := rapid.SampledFrom([]string{" ", "  ", "\t", "/"}).Draw(t, "sep")
		return strings.Join(parts, sep)
	})
}

// ============================================================================
// Properties
// ============================================================================

func TestPropertyNormalizeIdempotent(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		title := titleGen().Draw(t, "title")
		once := Normalize(title)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", title, once, twice)
		}
	})
}

func TestPropertyNormalizeIdempotentArbitrary(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		title := rapid.String().Draw(t, "title")
		once := Normalize(title)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", title, once, twice)
		}
	})
}

func TestPropertyNormalizeCanonicalSpacing(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		got := Normalize(titleGen().Draw(t, "title"))
		if strings.HasPrefix(got, " ") || strings.HasSuffix(got, " ") {
			t.Fatalf("untrimmed result %q", got)
		}
		if strings.Contains(got, "  ") {
			t.Fatalf("double space in %q", got)
		}
		if strings.ContainsAny(got, punctuation) {
			t.Fatalf("punctuation left in %q", got)
		}
	})
}

func TestPropertyNormalizerMatchesUncached(t *testing.T) {
	t.Parallel()
	n := MustNormalizer(8)
	rapid.Check(t, func(t *rapid.T) {
		title := titleGen().Draw(t, "title")
		if got, want := n.Normalize(title), Normalize(title); got != want {
			t.Fatalf("cached %q != uncached %q for %q", got, want, title)
		}
	})
}
