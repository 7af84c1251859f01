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

// highParamCountThreshold is the parameter count above which a route's full
// pattern triggers a DiagHighParamCount diagnostic. Deeply parameterized
// routes usually indicate a modeling problem rather than a matching one.
const highParamCountThreshold = 8

// TreeOption defines functional options for tree construction.
type TreeOption func(*Tree)

// WithTreeDiagnostics sets a diagnostic handler consulted during tree
// construction. Construction emits one DiagRouteRegistered event per route
// plus events for shadowed siblings and high parameter counts.
func WithTreeDiagnostics(handler DiagnosticHandler) TreeOption {
	return func(t *Tree) {
		t.diagnostics = handler
	}
}

// Tree is the immutable, application-declared route hierarchy. It is built
// once via NewTree, validated at construction, and safe for concurrent use
// by any number of resolutions afterwards.
type Tree struct {
	roots       []*Route
	named       map[string]*Route
	fullPattern map[*Route]string
	diagnostics DiagnosticHandler
}

// NewTree builds and validates a route tree from the given top-level routes.
//
// Construction-time validation rejects structurally invalid declarations:
//   - a route with neither a builder nor a redirect (can never terminate a match)
//   - a parameter name reused within one route's own pattern
//   - sibling routes with an identical segment shape (declaration-order
//     matching would make the later one unreachable)
//   - a nested route with an empty pattern
//   - duplicate route names
//
// All of these surface as errors here, never at resolution time.
func NewTree(routes []*Route, opts ...TreeOption) (*Tree, error) {
	t := &Tree{
		roots:       routes,
		named:       make(map[string]*Route),
		fullPattern: make(map[*Route]string),
	}

	for _, opt := range opts {
		opt(t)
	}

	if err := t.validate(routes, "", nil, true); err != nil {
		return nil, fmt.Errorf("route tree validation failed: %w", err)
	}

	return t, nil
}

// MustNewTree builds a route tree, panicking on validation failure.
// Intended for statically declared trees in application setup code.
func MustNewTree(routes []*Route, opts ...TreeOption) *Tree {
	t, err := NewTree(routes, opts...)
	if err != nil {
		panic(fmt.Sprintf("MustNewTree failed: %v", err))
	}

	return t
}

// validate walks one sibling set, accumulating full patterns and named
// routes, then recurses into children. parentParams carries the parameter
// names captured by ancestors for the high-param-count diagnostic.
func (t *Tree) validate(siblings []*Route, parentPattern string, parentParams []string, topLevel bool) error {
	for i, r := range siblings {
		if len(r.segments) == 0 && !topLevel {
			return fmt.Errorf("%w: nested under %q", ErrEmptyRoutePattern, parentPattern)
		}

		if !r.hasBuilder && r.redirect == nil {
			return fmt.Errorf("%w: %q", ErrRouteUnbuildable, r.pattern)
		}

		seen := make(map[string]struct{}, len(r.segments))
		for _, name := range r.paramNames() {
			if _, dup := seen[name]; dup {
				return fmt.Errorf("%w: %q in %q", ErrDuplicateParam, name, r.pattern)
			}
			seen[name] = struct{}{}
		}

		for _, earlier := range siblings[:i] {
			if earlier.shape() == r.shape() {
				return fmt.Errorf("%w: %q and %q under %q", ErrAmbiguousSiblings, earlier.pattern, r.pattern, parentPattern)
			}
			if earlier.covers(r) {
				t.emit(DiagnosticEvent{
					Kind:    DiagShadowedSibling,
					Message: "route is unreachable: an earlier sibling matches every path it matches",
					Fields:  map[string]any{"route": r.pattern, "shadowed_by": earlier.pattern},
				})
			}
		}

		full := joinPatterns(parentPattern, r.pattern)
		t.fullPattern[r] = full

		if r.name != "" {
			if _, dup := t.named[r.name]; dup {
				return fmt.Errorf("%w: %q", ErrDuplicateRouteName, r.name)
			}
			t.named[r.name] = r
		}

		params := append(append([]string(nil), parentParams...), r.paramNames()...)
		if len(params) > highParamCountThreshold {
			t.emit(DiagnosticEvent{
				Kind:    DiagHighParamCount,
				Message: "route captures an unusually high number of parameters",
				Fields:  map[string]any{"route": full, "param_count": len(params)},
			})
		}

		t.emit(DiagnosticEvent{
			Kind:    DiagRouteRegistered,
			Message: "route registered",
			Fields:  map[string]any{"route": full, "has_builder": r.hasBuilder},
		})

		if err := t.validate(r.children, full, params, false); err != nil {
			return err
		}
	}

	return nil
}

func (t *Tree) emit(e DiagnosticEvent) {
	if t.diagnostics != nil {
		t.diagnostics.OnDiagnostic(e)
	}
}

// joinPatterns concatenates a parent's full pattern with a child's relative
// pattern, normalizing slashes. The root pattern joins to "/".
func joinPatterns(parent, child string) string {
	p := strings.Trim(parent, "/")
	c := strings.Trim(child, "/")
	switch {
	case p == "" && c == "":
		return "/"
	case p == "":
		return "/" + c
	case c == "":
		return "/" + p
	default:
		return "/" + p + "/" + c
	}
}

// Roots returns the top-level routes in declaration order. The returned
// slice is shared; callers must not modify it.
func (t *Tree) Roots() []*Route { return t.roots }

// FullPattern returns the given route's pattern joined with its ancestors',
// or "" if the route is not part of this tree.
func (t *Tree) FullPattern(r *Route) string { return t.fullPattern[r] }

// RouteInfo describes one registered route for introspection.
type RouteInfo struct {
	Name        string // Route name, "" if unnamed
	Path        string // Full pattern including ancestors
	HasBuilder  bool   // Whether the route produces a page
	HasRedirect bool   // Whether the route declares a redirect
}

// Routes returns a list of all registered routes for introspection.
// The returned slice is sorted by path for consistency.
func (t *Tree) Routes() []RouteInfo {
	var infos []RouteInfo
	var walk func(routes []*Route)
	walk = func(routes []*Route) {
		for _, r := range routes {
			infos = append(infos, RouteInfo{
				Name:        r.name,
				Path:        t.fullPattern[r],
				HasBuilder:  r.hasBuilder,
				HasRedirect: r.redirect != nil,
			})
			walk(r.children)
		}
	}
	walk(t.roots)

	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })

	return infos
}

// PathFor generates a location string from a route name and parameters.
// Every parameter segment in the named route's full pattern must have a
// value in params. Query values, if any, are appended in encoded form.
//
// Example:
//
//	tree.PathFor("person", map[string]string{"fid": "1", "pid": "2"}, nil)
//	// "/family/1/person/2"
func (t *Tree) PathFor(name string, params map[string]string, query url.Values) (string, error) {
	r, ok := t.named[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, name)
	}

	var b strings.Builder
	for _, seg := range splitSegments(t.fullPattern[r]) {
		b.WriteByte('/')
		if paramName, isParam := strings.CutPrefix(seg, ":"); isParam {
			value, present := params[paramName]
			if !present {
				return "", fmt.Errorf("%w: %q for route %q", ErrMissingRouteParameter, paramName, name)
			}
			b.WriteString(value)
		} else {
			b.WriteString(seg)
		}
	}
	if b.Len() == 0 {
		b.WriteByte('/')
	}

	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(query.Encode())
	}

	return b.String(), nil
}
