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

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/jazzgraph/jazzgraph/pkg/api/validation"
	"github.com/jazzgraph/jazzgraph/pkg/catalog"
	"github.com/jazzgraph/jazzgraph/pkg/database/releasedb"
	"github.com/rs/zerolog/log"
)

const (
	defaultSuggestLimit = 5
	maxSuggestLimit     = 50
)

type errorResponse struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

type normalizeResponse struct {
	Title      string `json:"title"`
	Normalized string `json:"normalized"`
}

type matchRequest struct {
	Song   string `json:"song" validate:"notblank,max=1024"`
	Album  string `json:"album" validate:"notblank,max=1024"`
	Artist string `json:"artist" validate:"notblank,max=1024"`
}

type matchResponse struct {
	Record  *catalog.Record `json:"record"`
	Matched bool            `json:"matched"`
}

type suggestResponse struct {
	Album       string             `json:"album"`
	Suggestions []suggestionResult `json:"suggestions"`
}

type suggestionResult struct {
	Title      string  `json:"title"`
	Similarity float32 `json:"similarity"`
}

type statsResponse struct {
	Releases *releasedb.Counts `json:"releases,omitempty"`
	Index    catalog.Stats     `json:"index"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var verr *validation.Error
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	writeJSON(w, status, resp)
}

func (s *Server) indexUnavailable(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("catalog index unavailable")
	writeError(w, http.StatusServiceUnavailable, errors.New("catalog index unavailable"))
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	writeJSON(w, http.StatusOK, normalizeResponse{
		Title:      title,
		Normalized: s.matcher.Index().Normalizer().Normalize(title),
	})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	var req matchRequest
	if err := validation.ValidateAndUnmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, ok, err := s.matcher.Match(r.Context(), req.Song, req.Album, req.Artist)
	if err != nil {
		s.indexUnavailable(w, err)
		return
	}

	resp := matchResponse{Matched: ok}
	if ok {
		resp.Record = &rec
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	album := r.URL.Query().Get("album")
	if album == "" {
		writeError(w, http.StatusBadRequest, errors.New("album is required"))
		return
	}

	limit := defaultSuggestLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSuggestLimit {
			writeError(w, http.StatusBadRequest, errors.New("limit must be between 1 and 50"))
			return
		}
		limit = n
	}

	suggestions, err := s.matcher.Suggest(r.Context(), album, limit)
	if err != nil {
		s.indexUnavailable(w, err)
		return
	}

	resp := suggestResponse{Album: album, Suggestions: make([]suggestionResult, 0, len(suggestions))}
	for _, sg := range suggestions {
		resp.Suggestions = append(resp.Suggestions, suggestionResult{Title: sg.Title, Similarity: sg.Similarity})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.matcher.Index().Stats(r.Context())
	if err != nil {
		s.indexUnavailable(w, err)
		return
	}

	resp := statsResponse{Index: stats}
	if s.opts.Releases != nil {
		counts, err := s.opts.Releases.Counts(r.Context())
		if err != nil {
			log.Warn().Err(err).Msg("failed to count stored releases")
		} else {
			resp.Releases = &counts
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
