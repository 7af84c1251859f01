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

// RedirectContext is the resolution state a redirect function sees: the
// location currently being resolved and the candidate stack matched for it,
// if any. Stack is nil when the path matched no route.
type RedirectContext struct {
	Location Location
	Stack    []*MatchedRoute
}

// Leaf returns the innermost matched route of the candidate stack, or nil
// when the path matched no route.
func (rc RedirectContext) Leaf() *MatchedRoute {
	if len(rc.Stack) == 0 {
		return nil
	}

	return rc.Stack[len(rc.Stack)-1]
}

// RedirectFunc decides whether resolution should continue at a different
// location. It returns the target location string, or the empty string for
// "no redirect". Redirect functions may consult arbitrary application state;
// the resolver bounds and cycle-checks the resulting chain.
type RedirectFunc func(RedirectContext) string

// IdentityKeyFunc derives an identity key from a route's captured path
// parameters. Two resolutions of the same route at the same stack position
// keep the same identity token only while their keys are equal. When a route
// declares no key function, the route definition alone decides identity, so
// parameter-only changes update the existing page instance in place.
type IdentityKeyFunc func(params map[string]string) string

// segment is one compiled element of a route pattern: either a literal or a
// named parameter (":name").
type segment struct {
	literal string // literal text, empty for parameter segments
	param   string // parameter name without ':', empty for literals
}

func (s segment) isParam() bool { return s.param != "" }

// Route is a single declarative route definition. Routes form a static tree:
// each route's pattern is relative to its parent, and its children are
// matched in declaration order (first match wins).
//
// A Route is configured with chained setters before being handed to NewTree,
// after which the tree is immutable:
//
//	family := navigation.NewRoute("/family/:fid").
//	    SetName("family").
//	    SetBuilder(familyPage).
//	    AddChildren(
//	        navigation.NewRoute("/person/:pid").SetName("person").SetBuilder(personPage),
//	    )
//
// Mutating a Route after the tree has been constructed is not supported.
type Route struct {
	pattern     string
	segments    []segment
	name        string
	children    []*Route
	redirect    RedirectFunc
	builder     any
	hasBuilder  bool
	identityKey IdentityKeyFunc
}

// NewRoute creates a route definition for the given path pattern. The
// pattern is composed of '/'-separated segments; a segment starting with ':'
// is a named parameter that matches any single non-empty path segment.
func NewRoute(pattern string) *Route {
	r := &Route{pattern: pattern}
	for _, seg := range splitSegments(pattern) {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			r.segments = append(r.segments, segment{param: name})
		} else {
			r.segments = append(r.segments, segment{literal: seg})
		}
	}

	return r
}

// SetName assigns a name to the route for reverse path building via
// Tree.PathFor. Names must be unique within a tree.
func (r *Route) SetName(name string) *Route {
	r.name = name
	return r
}

// SetBuilder marks the route as page-producing and attaches the renderer's
// builder value. The engine treats the builder as opaque; it only records
// that the route can terminate a match. A nil builder is allowed — the flag
// alone is what matters to resolution.
func (r *Route) SetBuilder(builder any) *Route {
	r.builder = builder
	r.hasBuilder = true

	return r
}

// SetRedirect attaches a route-level redirect. It is consulted only when the
// route is the innermost (terminal) route of a candidate stack; redirects on
// ancestor routes never fire once a deeper match exists.
func (r *Route) SetRedirect(fn RedirectFunc) *Route {
	r.redirect = fn
	return r
}

// SetIdentityKey attaches a caller-supplied identity key function used by
// identity assignment. See IdentityKeyFunc.
func (r *Route) SetIdentityKey(fn IdentityKeyFunc) *Route {
	r.identityKey = fn
	return r
}

// AddChildren appends nested routes, matched in declaration order against
// the path remaining after this route's own pattern.
func (r *Route) AddChildren(children ...*Route) *Route {
	r.children = append(r.children, children...)
	return r
}

// Pattern returns the route's declared pattern, as passed to NewRoute.
func (r *Route) Pattern() string { return r.pattern }

// Name returns the route's name, or "" if unnamed.
func (r *Route) Name() string { return r.name }

// Builder returns the opaque builder value attached via SetBuilder.
func (r *Route) Builder() any { return r.builder }

// HasBuilder reports whether the route can itself produce a page.
func (r *Route) HasBuilder() bool { return r.hasBuilder }

// Children returns the route's nested routes in declaration order. The
// returned slice is shared; callers must not modify it.
func (r *Route) Children() []*Route { return r.children }

// paramNames returns the names of the pattern's parameter segments in order.
func (r *Route) paramNames() []string {
	var names []string
	for _, seg := range r.segments {
		if seg.isParam() {
			names = append(names, seg.param)
		}
	}

	return names
}

// shape renders the pattern's segment shape with every parameter collapsed
// to ":". Two sibling routes with equal shapes are ambiguous under
// declaration-order matching: the later one can never match.
func (r *Route) shape() string {
	var b strings.Builder
	for _, seg := range r.segments {
		b.WriteByte('/')
		if seg.isParam() {
			b.WriteByte(':')
		} else {
			b.WriteString(seg.literal)
		}
	}
	if b.Len() == 0 {
		return "/"
	}

	return b.String()
}

// covers reports whether r's shape matches every path that other's shape
// matches. Used for shadowed-sibling diagnostics: an earlier sibling that
// covers a later one makes the later unreachable.
func (r *Route) covers(other *Route) bool {
	if len(r.segments) != len(other.segments) {
		return false
	}
	for i, seg := range r.segments {
		if seg.isParam() {
			continue // parameter covers both literals and parameters
		}
		os := other.segments[i]
		if os.isParam() || os.literal != seg.literal {
			return false
		}
	}

	return true
}
