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

import "regexp"

// noiseSep matches the gap between words of a noise phrase: spaces or any of
// the punctuation that Stage 6 later turns into spaces. Allowing both keeps a
// phrase recognizable before and after punctuation stripping.
const noiseSep = `[ :;.,'"` + "`" + `<>\[\]()/\\-]+`

var (
	// remasterPatterns are applied in order. The Rudy Van Gelder pattern goes
	// first so "Rudy Van Gelder Remaster" is removed as a whole.
	remasterPatterns = []*regexp.Regexp{
		regexp.MustCompile(
			`(?i)rudy` + noiseSep + `van` + noiseSep + `gelder` + noiseSep +
				`(?:edition|remaster)(?:` + noiseSep + `\d{4})?`,
		),
		regexp.MustCompile(
			`(?i)(?:\d{4}` + noiseSep + `)?(?:digital` + noiseSep + `)?remaster(?:ed)?(?:` + noiseSep + `\d{4})?`,
		),
		regexp.MustCompile(`(?i)\d{2}` + noiseSep + `bit` + noiseSep + `master(?:ing)?`),
	}

	// creditParentheticals describe who played or how it was mixed, not what
	// the work is called. Anything else in parentheses is part of the title.
	creditParentheticals = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\([^()]*featuring[^()]*\)`),
		regexp.MustCompile(`(?i)\([^()]*feat\.[^()]*\)`),
		regexp.MustCompile(`(?i)\(\d\.\d +mix\)`),
		regexp.MustCompile(`(?i)\(pitch +corrected\)`),
	}
)

// stripRemasters applies Stage 2.
func stripRemasters(s string) string {
	for _, re := range remasterPatterns {
		s = re.ReplaceAllString(s, "")
	}
	return s
}

// stripCreditParentheticals applies Stage 3.
func stripCreditParentheticals(s string) string {
	for _, re := range creditParentheticals {
		s = re.ReplaceAllString(s, "")
	}
	return s
}
