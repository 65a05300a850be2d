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

import "strings"

// punctuation is the fixed ASCII set removed in Stage 6. Unicode punctuation
// such as U+2010 HYPHEN is deliberately absent: it is part of names like
// "Champs‐Élysées".
const punctuation = `:;.,'"` + "`" + `<>[]()-/\`

// abbreviations maps a whole lowercase token to its expansion. Tokens not in
// the table pass through and lose their dots in Stage 6.
var abbreviations = map[string]string{
	"vol.": "volume",
	"e.p.": "ep",
}

func tokenize(s string) []string {
	return strings.Fields(s)
}

func expandAbbreviations(tokens []string) []string {
	for i, token := range tokens {
		if expanded, ok := abbreviations[token]; ok {
			tokens[i] = expanded
		}
	}
	return tokens
}

// stripPunctuation replaces punctuation with spaces and splits on the result,
// so "gloria's" becomes the two tokens "gloria" and "s". Tokens that were
// only punctuation disappear.
func stripPunctuation(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if !strings.ContainsAny(token, punctuation) {
			out = append(out, token)
			continue
		}
		cleaned := strings.Map(func(r rune) rune {
			if strings.ContainsRune(punctuation, r) {
				return ' '
			}
			return r
		}, token)
		out = append(out, strings.Fields(cleaned)...)
	}
	return out
}

// removeStopWords is Stage 7. It currently keeps every token.
func removeStopWords(tokens []string) []string {
	return tokens
}
