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

package main

import (
	"fmt"

	"github.com/jazzgraph/jazzgraph/pkg/titles"
	"github.com/spf13/cobra"
)

func newNormalizeCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:         "normalize <title>...",
		Short:       "Print the normalized form of titles",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{skipConfigLoad: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if plain {
				for _, raw := range args {
					_, _ = fmt.Fprintln(out, titles.Default.Normalize(raw))
				}
				return nil
			}

			rows := make([][]string, 0, len(args))
			for _, raw := range args {
				rows = append(rows, []string{raw, titles.Default.Normalize(raw)})
			}
			_, _ = fmt.Fprintln(out, renderTable([]string{"Title", "Normalized"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print one normalized title per line")
	return cmd
}
