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

// Package catalog holds canonical release records and the in-memory index
// used to resolve free-text (song, album, artist) rows against them.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidRecord is returned when a catalog record cannot be decoded or is
// missing its identifier.
var ErrInvalidRecord = errors.New("invalid catalog record")

// Artist is a contributing artist on a release. ID is nil when the catalog
// did not link the credit to an artist entry. Credit details the matcher
// does not read, such as "anv", "role" or "join", stay verbatim in Extra.
type Artist struct {
	ID    *int64
	Extra map[string]json.RawMessage
	Name  string
}

// Track is one entry of a release tracklist. Only Title is used for
// matching; "type_", "extraartists" and similar keys stay in Extra.
type Track struct {
	Extra    map[string]json.RawMessage
	Title    string
	Position string
	Duration string
}

// Record is one canonical release. Fields the matcher does not use, such as
// genres, styles or the release date, are kept verbatim in Extra so that a
// matched record can be handed downstream untouched.
type Record struct {
	Extra     map[string]json.RawMessage
	Title     string
	Artists   []Artist
	Tracklist []Track
	ID        int64
}

const (
	keyID        = "id"
	keyTitle     = "title"
	keyName      = "name"
	keyPosition  = "position"
	keyDuration  = "duration"
	keyArtists   = "artists"
	keyTracklist = "tracklist"
	keyGenres    = "genres"
	keyStyles    = "styles"
	keyReleased  = "released"
)

// UnmarshalJSON decodes a record, moving unknown fields into Extra. Only the
// id is required. A title, artist list or tracklist of an unexpected shape
// is left raw in Extra and its typed field stays empty.
func (r *Record) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	rawID, ok := fields[keyID]
	if !ok {
		return fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	var id *int64
	if err := json.Unmarshal(rawID, &id); err != nil || id == nil {
		return fmt.Errorf("%w: id must be an integer, got %s", ErrInvalidRecord, rawID)
	}
	delete(fields, keyID)

	decoded := Record{ID: *id}
	decoded.Title = takeText(fields, keyTitle)
	if raw, ok := fields[keyArtists]; ok {
		var artists []Artist
		if json.Unmarshal(raw, &artists) == nil && artists != nil {
			decoded.Artists = artists
			delete(fields, keyArtists)
		}
	}
	if raw, ok := fields[keyTracklist]; ok {
		var tracks []Track
		if json.Unmarshal(raw, &tracks) == nil && tracks != nil {
			decoded.Tracklist = tracks
			delete(fields, keyTracklist)
		}
	}
	decoded.Extra = nilIfEmpty(fields)

	*r = decoded
	return nil
}

// MarshalJSON writes the record back out with its Extra fields merged in.
// A key present in Extra is written from Extra.
func (r Record) MarshalJSON() ([]byte, error) {
	out := fromExtra(r.Extra, 4)
	out[keyID] = r.ID
	setMissing(out, keyTitle, r.Title)
	if r.Artists != nil {
		setMissing(out, keyArtists, r.Artists)
	}
	if r.Tracklist != nil {
		setMissing(out, keyTracklist, r.Tracklist)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record %d: %w", r.ID, err)
	}
	return data, nil
}

// UnmarshalJSON decodes an artist credit. An id that is not an integer is
// kept raw in Extra and ID stays nil.
func (a *Artist) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("artist: %w", err)
	}

	decoded := Artist{Name: takeText(fields, keyName)}
	if raw, ok := fields[keyID]; ok {
		var id *int64
		if json.Unmarshal(raw, &id) == nil && id != nil {
			decoded.ID = id
			delete(fields, keyID)
		}
	}
	decoded.Extra = nilIfEmpty(fields)

	*a = decoded
	return nil
}

func (a Artist) MarshalJSON() ([]byte, error) {
	out := fromExtra(a.Extra, 2)
	setMissing(out, keyID, a.ID)
	setMissing(out, keyName, a.Name)
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal artist %q: %w", a.Name, err)
	}
	return data, nil
}

// UnmarshalJSON decodes a tracklist entry. Position and duration are
// usually strings ("B2", "15:41") but some dumps carry bare numbers; those
// are read as their literal text and the raw value is kept in Extra.
func (t *Track) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("track: %w", err)
	}

	decoded := Track{
		Title:    takeText(fields, keyTitle),
		Position: takeText(fields, keyPosition),
		Duration: takeText(fields, keyDuration),
	}
	decoded.Extra = nilIfEmpty(fields)

	*t = decoded
	return nil
}

func (t Track) MarshalJSON() ([]byte, error) {
	out := fromExtra(t.Extra, 3)
	setMissing(out, keyTitle, t.Title)
	if t.Position != "" {
		setMissing(out, keyPosition, t.Position)
	}
	if t.Duration != "" {
		setMissing(out, keyDuration, t.Duration)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal track %q: %w", t.Title, err)
	}
	return data, nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode object: %w", err)
	}
	if fields == nil {
		return nil, errors.New("value is null")
	}
	return fields, nil
}

// takeText reads a string or number field. A string is removed from fields;
// a number stays there so it is written back as a number. Any other shape,
// null included, is left in fields and yields "".
func takeText(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			delete(fields, key)
			return s
		}
		return ""
	}
	var n json.Number
	if json.Unmarshal(raw, &n) != nil {
		return ""
	}
	return n.String()
}

func nilIfEmpty(fields map[string]json.RawMessage) map[string]json.RawMessage {
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func fromExtra(extra map[string]json.RawMessage, typed int) map[string]any {
	out := make(map[string]any, len(extra)+typed)
	for key, value := range extra {
		out[key] = value
	}
	return out
}

func setMissing(out map[string]any, key string, value any) {
	if _, ok := out[key]; !ok {
		out[key] = value
	}
}

// Genres returns the "genres" metadata, or nil if absent or not a string list.
func (r Record) Genres() []string {
	return r.stringList(keyGenres)
}

// Styles returns the "styles" metadata, or nil if absent or not a string list.
func (r Record) Styles() []string {
	return r.stringList(keyStyles)
}

// Released returns the raw "released" date string, such as "1973-10-26",
// "1973-00-00" or "1973". It is empty when the catalog has no date.
func (r Record) Released() string {
	raw, ok := r.Extra[keyReleased]
	if !ok {
		return ""
	}
	var released *string
	if err := json.Unmarshal(raw, &released); err != nil || released == nil {
		return ""
	}
	return *released
}

// ArtistNames returns the contributing artist names in catalog order.
func (r Record) ArtistNames() []string {
	names := make([]string, 0, len(r.Artists))
	for _, a := range r.Artists {
		names = append(names, a.Name)
	}
	return names
}

func (r Record) stringList(key string) []string {
	raw, ok := r.Extra[key]
	if !ok {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}
