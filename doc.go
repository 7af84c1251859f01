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

// Package navigation provides a declarative route-resolution engine.
//
// The engine turns a location string into a concrete, ordered stack of
// matched routes, applies redirect rules until a stable location is reached,
// and assigns stable identity tokens to matched route instances so a
// renderer can preserve nested UI state across navigations that target the
// same logical page with different parameters.
//
// # Key Features
//
//   - Declarative, immutable route trees with literal and :name segments
//   - Depth-first matching with declaration-order tie-breaking
//   - Bounded redirect chains with cycle detection (default limit: 5)
//   - Atomic navigation state with subscriber notification
//   - Stable page identity tokens across parameter-only navigations
//   - Reverse path building from named routes
//   - OpenTelemetry tracing/metrics and Prometheus metrics integration
//
// # Resolution Details
//
// A location enters Resolve, the redirect loop repeatedly matches the path
// and consults first the top-level redirect function, then the terminal
// matched route's own redirect. Ancestor redirects never fire once a deeper
// match exists. When neither fires, the stack is final: identity tokens are
// assigned, the NavigationState is replaced wholesale, and subscribers are
// notified exactly once. Intermediate hops are never observable.
//
// # Constructor Pattern
//
//   - NewTree validates the declared routes and returns an error for
//     structurally invalid trees; MustNewTree panics instead. All
//     configuration errors surface at construction, never at resolution.
//
//   - New validates navigator options the same way; MustNew panics instead.
//
//   - All configuration options use the "With" prefix for consistency
//     (e.g., WithRedirectLimit, WithTopLevelRedirect, WithLogger).
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "rivaas.dev/navigation"
//	)
//
//	func main() {
//	    tree := navigation.MustNewTree([]*navigation.Route{
//	        navigation.NewRoute("/").SetBuilder(homePage),
//	        navigation.NewRoute("/family/:fid").
//	            SetName("family").
//	            SetBuilder(familyPage).
//	            AddChildren(
//	                navigation.NewRoute("/person/:pid").
//	                    SetName("person").
//	                    SetBuilder(personPage),
//	            ),
//	    })
//
//	    nav := navigation.MustNew(tree)
//
//	    state, err := nav.Resolve(context.Background(), "/family/1/person/2")
//	    if err != nil {
//	        panic(err)
//	    }
//	    fmt.Println(state.Leaf().FullPath()) // /family/1/person/2
//	    fmt.Println(state.Params())          // map[fid:1 pid:2]
//	}
//
// # Redirects
//
// Route-level redirects fire only on the terminal matched route; the
// top-level redirect sees every hop. Both return a target location string or
// "" for no redirect:
//
//	navigation.NewRoute("/old").SetRedirect(func(navigation.RedirectContext) string {
//	    return "/new"
//	})
//
// A chain revisiting a location fails with ErrRedirectLoop; a chain longer
// than the configured limit fails with ErrRedirectLimitExceeded. Failed
// resolutions leave the previous NavigationState untouched.
//
// # Page Identity
//
// Resolving /family/1 and then /family/2 yields the same identity token at
// the family position: the parameters changed but it is the same page
// instance, so attached presentation state survives. Resolving /other mints
// a fresh token. Routes can refine this with SetIdentityKey.
//
// # External State
//
// Redirect functions may consult mutable application state. Attach the
// state's ChangeNotifier with WithChangeNotifier and the navigator
// re-resolves the current location on every notification, so a login state
// change immediately re-routes /profile to /login without a new navigation
// request.
package navigation
