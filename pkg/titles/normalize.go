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

// Package titles canonicalizes release and track titles so that the same work
// entered by different people compares equal.
package titles

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize converts a free-text title into the canonical form used as a join
// key between catalog releases and recordings.
//
// 8-Stage Normalization Pipeline:
//
//	Stage 1: Unicode Decomposition - NFD, lowercase, whitespace folded to spaces
//	Stage 2: Remaster Stripping - "2000 Digital Remaster", "24 Bit Mastering",
//	         "Rudy Van Gelder Edition" removed
//	Stage 3: Credit Parentheticals - "(feat. ...)", "(5.0 Mix)", "(Pitch Corrected)"
//	         removed, "(Take 1)" kept
//	Stage 4: Tokenization - split on whitespace
//	Stage 5: Abbreviation Expansion - "vol." → "volume"
//	Stage 6: Punctuation Stripping - ASCII punctuation becomes a token boundary
//	Stage 7: Stop Words - currently keeps every token
//	Stage 8: Join - single spaces, NFD
//
// Stages 2 and 3 repeat until neither removes anything, since removing a
// parenthetical can join the halves of a remaster phrase.
//
// Normalize is deterministic and idempotent:
//
//	Normalize(Normalize(x)) == Normalize(x)
//
// Example:
//
//	Normalize("So What (Miles Davis feat. John Coltrane)") → "so what"
func Normalize(raw string) string {
	s := decompose(raw)
	s = stripNoise(s)

	tokens := tokenize(s)
	tokens = expandAbbreviations(tokens)
	tokens = stripPunctuation(tokens)
	tokens = removeStopWords(tokens)

	return norm.NFD.String(strings.Join(tokens, " "))
}

// decompose applies Stage 1. NFD runs again after lowercasing because a few
// lowercase mappings are not themselves in decomposed form.
func decompose(s string) string {
	s = strings.ToValidUTF8(s, string(unicode.ReplacementChar))
	s = norm.NFD.String(s)
	s = strings.ToLower(s)
	s = norm.NFD.String(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
}

// stripNoise applies Stages 2 and 3 until the title stops changing.
func stripNoise(s string) string {
	for {
		next := stripCreditParentheticals(stripRemasters(s))
		if next == s {
			return s
		}
		s = next
	}
}
