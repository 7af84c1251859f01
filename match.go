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

import "strings"

// IdentityToken is an opaque, stable handle for one matched route instance.
// Consumers use token equality across resolutions to distinguish "update of
// an existing page instance" from "a new page instance".
type IdentityToken string

// MatchedRoute is one element of a resolution's output stack: a route
// definition together with the parameter values captured for this match.
// A stack is ordered root ancestor first, innermost leaf last, and mirrors
// the tree's ancestry for the resolved path.
type MatchedRoute struct {
	route    *Route
	params   map[string]string
	fullPath string
	token    IdentityToken
}

// Route returns the route definition this match was produced from.
func (m *MatchedRoute) Route() *Route { return m.route }

// Params returns the parameters captured by this route's own pattern
// segments. Ancestor captures are not included; see NavigationState.Params
// for the merged view. The returned map is shared; callers must not modify it.
func (m *MatchedRoute) Params() map[string]string { return m.params }

// Param returns the named captured value, or "" if this route's pattern
// does not capture it.
func (m *MatchedRoute) Param(name string) string { return m.params[name] }

// FullPath returns this route's pattern joined with its ancestors',
// parameters substituted with their captured values.
func (m *MatchedRoute) FullPath() string { return m.fullPath }

// Token returns the identity token assigned to this match. Tokens are
// stable across resolutions that target the same logical page instance.
func (m *MatchedRoute) Token() IdentityToken { return m.token }

// Match resolves a path against the tree, producing the root-to-leaf stack
// of matched routes, or (nil, false) when no declared route accounts for the
// full path.
//
// Matching is depth-first and segment-by-segment. Siblings are tried in
// declaration order and the first sibling that leads to a complete match
// wins; a literal segment matches only an identical literal, a parameter
// segment matches any single non-empty segment and captures its value. The
// path must be consumed exactly: trailing segments matched by no child fail
// the candidate, and matching backtracks to the next declared sibling.
//
// Query strings never reach Match; callers pass Location.Path only.
func (t *Tree) Match(path string) ([]*MatchedRoute, bool) {
	return matchSiblings(t.roots, splitSegments(path), "")
}

func matchSiblings(siblings []*Route, segments []string, prefix string) ([]*MatchedRoute, bool) {
	for _, r := range siblings {
		if stack, ok := matchRoute(r, segments, prefix); ok {
			return stack, true
		}
	}

	return nil, false
}

func matchRoute(r *Route, segments []string, prefix string) ([]*MatchedRoute, bool) {
	if len(r.segments) > len(segments) {
		return nil, false
	}

	var params map[string]string
	var b strings.Builder
	b.WriteString(prefix)

	for i, seg := range r.segments {
		value := segments[i]
		if seg.isParam() {
			if params == nil {
				params = make(map[string]string, 2)
			}
			params[seg.param] = value
		} else if seg.literal != value {
			return nil, false
		}
		b.WriteByte('/')
		b.WriteString(value)
	}

	fullPath := b.String()
	if fullPath == "" {
		fullPath = "/"
	}

	matched := &MatchedRoute{route: r, params: params, fullPath: fullPath}
	rest := segments[len(r.segments):]

	if len(rest) == 0 {
		// The full path is consumed; the terminal route must be able to
		// produce a page or redirect away.
		if !r.hasBuilder && r.redirect == nil {
			return nil, false
		}

		return []*MatchedRoute{matched}, true
	}

	childStack, ok := matchSiblings(r.children, rest, strings.TrimSuffix(fullPath, "/"))
	if !ok {
		return nil, false
	}

	return append([]*MatchedRoute{matched}, childStack...), true
}

// mergeParams returns the union of captured parameters across a stack,
// root first, so a deeper route's value wins when names collide.
func mergeParams(stack []*MatchedRoute) map[string]string {
	merged := make(map[string]string)
	for _, m := range stack {
		for name, value := range m.params {
			merged[name] = value
		}
	}

	return merged
}
