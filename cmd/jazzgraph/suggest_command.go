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
	"strconv"

	"github.com/jazzgraph/jazzgraph/pkg/matcher"
	"github.com/spf13/cobra"
)

func newSuggestCommand(ctx *commandContext) *cobra.Command {
	var catalogPath string
	var filterName string
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <album>",
		Short: "List catalog album titles close to an unmatched album",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := ctx.openIndex(catalogPath, filterName)
			if err != nil {
				return err
			}

			suggestions, err := matcher.New(index).Suggest(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(suggestions) == 0 {
				_, _ = fmt.Fprintf(out, "No catalog albums close to %q\n", args[0])
				return nil
			}

			rows := make([][]string, 0, len(suggestions))
			for _, s := range suggestions {
				rows = append(rows, []string{s.Title, strconv.FormatFloat(float64(s.Similarity), 'f', 3, 32)})
			}
			_, _ = fmt.Fprintln(out, renderTable(
				[]string{"Album", "Similarity"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog JSON-lines file (.jsonl or .jsonl.gz)")
	cmd.Flags().StringVar(&filterName, "filter", "", "Catalog filter: all, prefilter-jazz or jazz-album")
	cmd.Flags().IntVar(&limit, "limit", 5, "Maximum suggestions")
	return cmd
}
