// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package navigation

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Location is a parsed location: the route-matchable path plus its query
// parameters. Matching and redirect evaluation operate on Path only; Query
// never participates in segment matching but is carried through to the
// resolved NavigationState.
type Location struct {
	// Path is the route-matchable portion, without the query string.
	Path string

	// Query holds the query parameters. Keys are unique; when a raw query
	// string repeats a key, the last value wins.
	Query map[string]string
}

// ParseLocation parses a location string of the form "path[?query]".
// The query portion uses standard key=value pairs separated by '&'.
//
// Example:
//
//	loc, err := navigation.ParseLocation("/login?from=/family/1")
//	// loc.Path  == "/login"
//	// loc.Query == map[string]string{"from": "/family/1"}
func ParseLocation(s string) (Location, error) {
	path := s
	rawQuery := ""
	if i := strings.IndexByte(s, '?'); i >= 0 {
		path = s[:i]
		rawQuery = s[i+1:]
	}

	loc := Location{Path: path}
	if rawQuery == "" {
		return loc, nil
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %q: %v", ErrInvalidLocation, s, err)
	}

	loc.Query = make(map[string]string, len(values))
	for key, vals := range values {
		// Last write wins when a key repeats.
		loc.Query[key] = vals[len(vals)-1]
	}

	return loc, nil
}

// MustParseLocation parses a location string, panicking on error.
// Intended for statically known locations in application setup code.
func MustParseLocation(s string) Location {
	loc, err := ParseLocation(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseLocation failed: %v", err))
	}

	return loc
}

// String renders the location back to "path[?query]" form. Query keys are
// emitted in sorted order so the output is canonical: two locations with
// equal paths and equal query maps always render identically. Redirect loop
// detection relies on this property.
func (l Location) String() string {
	if len(l.Query) == 0 {
		return l.Path
	}

	keys := make([]string, 0, len(l.Query))
	for key := range l.Query {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(l.Path)
	for i, key := range keys {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(l.Query[key]))
	}

	return b.String()
}

// Equal reports whether two locations are identical in path and query.
func (l Location) Equal(other Location) bool {
	if l.Path != other.Path || len(l.Query) != len(other.Query) {
		return false
	}
	for key, val := range l.Query {
		if ov, ok := other.Query[key]; !ok || ov != val {
			return false
		}
	}

	return true
}

// splitSegments splits a path into its non-empty '/'-separated segments.
// "/" and "" both yield zero segments.
func splitSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}

	return strings.Split(trimmed, "/")
}
