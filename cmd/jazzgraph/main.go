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

// Command jazzgraph matches recording rows against a Discogs release catalog.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
