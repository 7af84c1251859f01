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
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const (
	// defaultRedirectLimit is the default maximum number of redirect hops
	// performed within one resolution attempt. Redirect functions are
	// arbitrary application logic over mutable external state; without a
	// bound a misconfigured application would recurse forever inside what
	// must be a synchronous operation.
	defaultRedirectLimit = 5

	// longRedirectChainThreshold is the hop count at which a successful
	// resolution emits a DiagLongRedirectChain diagnostic.
	longRedirectChainThreshold = 3
)

// redirectState tracks the ordered sequence of locations visited during one
// resolution attempt. It exists only for the duration of the attempt and is
// used for cycle and limit detection.
type redirectState struct {
	visited []string // canonical location strings, initial location first
	hops    int      // redirects performed so far
}

func (s *redirectState) seen(canonical string) bool {
	for _, v := range s.visited {
		if v == canonical {
			return true
		}
	}

	return false
}

func (s *redirectState) chain() string {
	return strings.Join(s.visited, " -> ")
}

// resolver applies redirect rules to a location until a fixed point, a
// cycle, or the hop limit. It holds only immutable configuration and is
// safe for concurrent use.
type resolver struct {
	tree        *Tree
	guard       RedirectFunc // top-level redirect, consulted before route-level ones
	limit       int
	logger      *slog.Logger
	diagnostics DiagnosticHandler
	recorder    ObservabilityRecorder
}

// resolve runs the bounded redirect loop for one location and returns the
// final matched stack together with the location that produced it.
//
// Each iteration matches the current path, then consults the top-level
// redirect against the full resolution state, then the terminal matched
// route's own redirect. Redirects on ancestor routes in the stack are never
// consulted. The loop ends when neither redirect fires.
func (r *resolver) resolve(ctx context.Context, loc Location, obsState any) ([]*MatchedRoute, Location, error) {
	state := redirectState{visited: []string{loc.String()}}

	for {
		stack, ok := r.tree.Match(loc.Path)
		rc := RedirectContext{Location: loc, Stack: stack}

		target := ""
		if r.guard != nil {
			target = r.guard(rc)
		}
		if target == "" && ok {
			if leaf := stack[len(stack)-1]; leaf.route.redirect != nil {
				target = leaf.route.redirect(rc)
			}
		}

		if target == "" {
			if !ok {
				return nil, loc, fmt.Errorf("%w: %q", ErrNotFound, loc.Path)
			}
			leaf := stack[len(stack)-1]
			if !leaf.route.hasBuilder {
				return nil, loc, fmt.Errorf("%w: %q", ErrRedirectDeclined, leaf.fullPath)
			}
			if state.hops >= longRedirectChainThreshold && r.diagnostics != nil {
				r.diagnostics.OnDiagnostic(DiagnosticEvent{
					Kind:    DiagLongRedirectChain,
					Message: "resolution succeeded after an unusually long redirect chain",
					Fields:  map[string]any{"hops": state.hops, "chain": state.chain()},
				})
			}

			return stack, loc, nil
		}

		next, err := ParseLocation(target)
		if err != nil {
			return nil, loc, fmt.Errorf("redirect target from %q: %w", loc.String(), err)
		}

		canonical := next.String()
		if state.seen(canonical) {
			return nil, loc, fmt.Errorf("%w: %s -> %s", ErrRedirectLoop, state.chain(), canonical)
		}
		if state.hops >= r.limit {
			return nil, loc, fmt.Errorf("%w: limit %d, chain %s -> %s", ErrRedirectLimitExceeded, r.limit, state.chain(), canonical)
		}

		state.hops++
		state.visited = append(state.visited, canonical)

		r.logger.DebugContext(ctx, "redirect hop",
			slog.String("from", loc.String()),
			slog.String("to", canonical),
			slog.Int("hop", state.hops),
		)
		if r.recorder != nil && obsState != nil {
			r.recorder.OnRedirectHop(ctx, obsState, loc, next)
		}

		loc = next
	}
}
