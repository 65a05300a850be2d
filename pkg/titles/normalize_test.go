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
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "featured artists credit",
			input:    "So What (Miles Davis feat. John Coltrane, Cannonball Adderley)",
			expected: "so what",
		},
		{
			name:     "featuring credit with kept take",
			input:    "So What (featuring Bill Evans) (Take 2)",
			expected: "so what take 2",
		},
		{
			name:     "volume abbreviation",
			input:    "Genius of Modern Music, Vol. 1",
			expected: "genius of modern music volume 1",
		},
		{
			name:     "unregistered abbreviation loses dot",
			input:    "Vol.2",
			expected: "vol 2",
		},
		{
			name:     "ep abbreviation",
			input:    "E.P. Collection",
			expected: "ep collection",
		},
		{
			name:     "take parenthetical kept",
			input:    "All Blues (Take 1)",
			expected: "all blues take 1",
		},
		{
			name:     "subtitle parenthetical kept",
			input:    "Moritat (Mack the Knife)",
			expected: "moritat mack the knife",
		},
		{
			name:     "surround mix removed",
			input:    "So What (5.0 Mix)",
			expected: "so what",
		},
		{
			name:     "apostrophe splits word",
			input:    "Gloria's Step (Live at the Village Vanguard 1961)",
			expected: "gloria s step live at the village vanguard 1961",
		},
		{
			name:     "pitch corrected removed",
			input:    "Freddie Freeloader (Pitch Corrected)",
			expected: "freddie freeloader",
		},
		{
			name:     "unicode hyphen preserved",
			input:    "Nuit sur les Champs‐Élysées (take 3) (Générique)",
			expected: norm.NFD.String("nuit sur les champs‐élysées take 3 générique"),
		},
		{
			name:     "stacked remaster phrases",
			input:    "Teru - Rudy Van Gelder Edition/2000 Digital Remaster/24 Bit Mastering",
			expected: "teru",
		},
		{
			name:     "year remaster in parentheses",
			input:    "Blue Train (2003 Remaster)",
			expected: "blue train",
		},
		{
			name:     "hyphenated bit mastering",
			input:    "Blue in Green (24-Bit Mastering)",
			expected: "blue in green",
		},
		{
			name:     "rudy van gelder remaster with year",
			input:    "'Round Midnight (Rudy Van Gelder Remaster 1999)",
			expected: "round midnight",
		},
		{
			name:     "remaster only",
			input:    "Remastered",
			expected: "",
		},
		{
			name:     "edition that is not a remaster",
			input:    "Kind of Blue (Legacy Edition)",
			expected: "kind of blue legacy edition",
		},
		{
			name:     "whitespace collapsed",
			input:    "  Multiple   Spaces\tHere ",
			expected: "multiple spaces here",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "only punctuation",
			input:    "--- / ---",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"So What (Miles Davis feat. John Coltrane, Cannonball Adderley)",
		"Teru - Rudy Van Gelder Edition/2000 Digital Remaster/24 Bit Mastering",
		"Nuit sur les Champs‐Élysées (take 3) (Générique)",
		"24 bit-mastering",
		"remas(feat. nobody)tered",
		"a--b",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input: %q", input)
	}
}

func TestNormalize_NoiseJoinedByParenthetical(t *testing.T) {
	t.Parallel()

	// Removing the credit joins "remas" and "tered" into a remaster phrase,
	// which the repeated noise pass then removes.
	assert.Equal(t, "take five", Normalize("Take Five remas(feat. nobody)tered"))
}

func TestStripPunctuation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "no punctuation",
			input:    []string{"blue", "train"},
			expected: []string{"blue", "train"},
		},
		{
			name:     "apostrophe inside word",
			input:    []string{"gloria's"},
			expected: []string{"gloria", "s"},
		},
		{
			name:     "repeated punctuation",
			input:    []string{"a--b"},
			expected: []string{"a", "b"},
		},
		{
			name:     "punctuation only token dropped",
			input:    []string{"-", "x", "()"},
			expected: []string{"x"},
		},
		{
			name:     "backslash and quotes",
			input:    []string{`"a\b"`, "`c`"},
			expected: []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, stripPunctuation(tt.input))
		})
	}
}

func TestExpandAbbreviations(t *testing.T) {
	t.Parallel()

	got := expandAbbreviations([]string{"vol.", "e.p.", "no.", "vol"})
	assert.Equal(t, []string{"volume", "ep", "no.", "vol"}, got)
}

func TestRemoveStopWords_KeepsTokens(t *testing.T) {
	t.Parallel()

	tokens := []string{"the", "sidewinder"}
	assert.Equal(t, []string{"the", "sidewinder"}, removeStopWords(tokens))
}
