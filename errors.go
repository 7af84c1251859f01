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

import "errors"

var (
	// ErrNotFound indicates that no route matches the resolved path.
	ErrNotFound = errors.New("no route matches path")

	// ErrRedirectLoop indicates that a redirect chain revisited a location
	// it had already visited within a single resolution attempt.
	ErrRedirectLoop = errors.New("redirect loop detected")

	// ErrRedirectLimitExceeded indicates that a redirect chain exceeded the
	// configured maximum number of hops without reaching a fixed point.
	ErrRedirectLimitExceeded = errors.New("redirect limit exceeded")

	// ErrRedirectDeclined indicates that a redirect-only route (no page
	// builder) declined to redirect. This is an application configuration
	// bug: such a route must always redirect.
	ErrRedirectDeclined = errors.New("redirect-only route declined to redirect")

	// ErrSuperseded indicates that a resolution completed after a newer
	// resolution had already replaced the navigation state. The superseding
	// result stands; the superseded one is discarded.
	ErrSuperseded = errors.New("resolution superseded by a newer request")

	// ErrNavigatorClosed indicates that the navigator has been closed and
	// no longer accepts resolution requests.
	ErrNavigatorClosed = errors.New("navigator is closed")

	// ErrEmptyRoutePattern indicates a route declared with an empty path
	// pattern at a position where a non-empty pattern is required.
	ErrEmptyRoutePattern = errors.New("route pattern must not be empty")

	// ErrAmbiguousSiblings indicates two sibling routes whose patterns have
	// an identical segment shape, making declaration-order matching ambiguous.
	ErrAmbiguousSiblings = errors.New("ambiguous sibling route patterns")

	// ErrDuplicateParam indicates a parameter name used more than once
	// within a single route's pattern.
	ErrDuplicateParam = errors.New("duplicate parameter name in route pattern")

	// ErrRouteUnbuildable indicates a route that neither provides a page
	// builder nor a redirect, so it can never terminate a match.
	ErrRouteUnbuildable = errors.New("route has neither builder nor redirect")

	// ErrDuplicateRouteName indicates two routes declared with the same name.
	ErrDuplicateRouteName = errors.New("duplicate route name")

	// ErrRouteNotFound indicates that the named route could not be found.
	ErrRouteNotFound = errors.New("named route not found")

	// ErrMissingRouteParameter indicates that a required parameter for path
	// building is missing.
	ErrMissingRouteParameter = errors.New("missing required parameter")

	// ErrRedirectLimitInvalid indicates that the redirect limit must be positive.
	ErrRedirectLimitInvalid = errors.New("redirect limit must be positive")

	// ErrNilTree indicates that a navigator was constructed without a route tree.
	ErrNilTree = errors.New("route tree must not be nil")

	// ErrInvalidLocation indicates a location string that could not be parsed.
	ErrInvalidLocation = errors.New("invalid location")
)
