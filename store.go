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
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// noopLogger is a singleton no-op logger used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the singleton no-op logger.
func NoopLogger() *slog.Logger {
	return noopLogger
}

// NavigationState is the result of one successful resolution: the matched
// root-to-leaf stack plus the location that produced it. It is immutable;
// the Navigator replaces it wholesale and never mutates it in place.
type NavigationState struct {
	location Location
	stack    []*MatchedRoute
}

// Location returns the post-redirect location the stack was resolved for.
func (s *NavigationState) Location() Location { return s.location }

// Stack returns the matched routes, root ancestor first, innermost leaf
// last. The returned slice is shared; callers must not modify it.
func (s *NavigationState) Stack() []*MatchedRoute { return s.stack }

// Leaf returns the innermost matched route.
func (s *NavigationState) Leaf() *MatchedRoute {
	return s.stack[len(s.stack)-1]
}

// Params returns the union of captured parameters across the whole stack.
// A deeper route's value wins when ancestor levels reuse a parameter name.
func (s *NavigationState) Params() map[string]string {
	return mergeParams(s.stack)
}

// ChangeNotifier is an observer-pattern dependency on external application
// state. The Navigator subscribes once at construction; every notification
// means "the state consulted by redirect functions may have changed" and
// triggers a re-resolution of the current location. The notifier's internal
// state is never inspected.
type ChangeNotifier interface {
	// Subscribe registers a callback and returns its unsubscribe function.
	Subscribe(fn func()) (unsubscribe func())
}

// ChangeSignal is a minimal ChangeNotifier for application state that has no
// notification mechanism of its own. Call Notify after mutating the state
// redirect functions depend on.
type ChangeSignal struct {
	mu        sync.Mutex
	listeners map[uint64]func()
	nextID    uint64
}

// Subscribe implements ChangeNotifier.
func (s *ChangeSignal) Subscribe(fn func()) func() {
	s.mu.Lock()
	if s.listeners == nil {
		s.listeners = make(map[uint64]func())
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Notify invokes every subscribed callback synchronously.
func (s *ChangeSignal) Notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Navigator owns the current NavigationState and runs resolutions against
// an immutable Tree. It is safe for concurrent use: resolutions are
// serialized, the state is replaced wholesale under a single-writer
// discipline, and subscribers observe only complete resolutions - never
// intermediate redirect hops.
//
// Example:
//
//	nav := navigation.MustNew(tree,
//	    navigation.WithRedirectLimit(5),
//	    navigation.WithTopLevelRedirect(requireLogin),
//	)
//	state, err := nav.Resolve(ctx, "/family/1?tab=todos")
type Navigator struct {
	tree     *Tree
	resolver *resolver
	logger   *slog.Logger
	recorder ObservabilityRecorder
	notifier ChangeNotifier

	// Configuration applied before validation
	guard       RedirectFunc
	limit       int
	diagnostics DiagnosticHandler

	resolveMu sync.Mutex // serializes resolutions
	stateMu   sync.RWMutex
	current   *NavigationState

	requests    atomic.Uint64 // generation counter for supersede detection
	lastApplied atomic.Uint64
	closed      atomic.Bool

	subMu       sync.RWMutex
	subscribers map[uint64]func(*NavigationState)
	nextSubID   uint64

	unsubscribeNotifier func()
}

// New creates a Navigator for the given tree with optional configuration.
//
// Returns an error if the configuration is invalid. Configuration is
// validated immediately at startup rather than at resolution time.
//
// For a version that panics instead of returning an error, use MustNew.
func New(tree *Tree, opts ...Option) (*Navigator, error) {
	n := &Navigator{
		tree:        tree,
		limit:       defaultRedirectLimit,
		logger:      noopLogger,
		subscribers: make(map[uint64]func(*NavigationState)),
	}

	for _, opt := range opts {
		opt(n)
	}

	if err := n.validate(); err != nil {
		return nil, fmt.Errorf("navigator configuration validation failed: %w", err)
	}

	n.resolver = &resolver{
		tree:        tree,
		guard:       n.guard,
		limit:       n.limit,
		logger:      n.logger,
		diagnostics: n.diagnostics,
		recorder:    n.recorder,
	}

	if n.notifier != nil {
		n.unsubscribeNotifier = n.notifier.Subscribe(func() {
			if _, err := n.Refresh(context.Background()); err != nil {
				n.logger.Warn("re-resolution after state change failed", slog.Any("error", err))
			}
		})
	}

	return n, nil
}

// MustNew creates a Navigator, panicking on invalid configuration.
func MustNew(tree *Tree, opts ...Option) *Navigator {
	n, err := New(tree, opts...)
	if err != nil {
		panic(fmt.Sprintf("MustNew failed: %v", err))
	}

	return n
}

func (n *Navigator) validate() error {
	if n.tree == nil {
		return ErrNilTree
	}
	if n.limit <= 0 {
		return fmt.Errorf("%w: %d", ErrRedirectLimitInvalid, n.limit)
	}

	return nil
}

// Resolve parses the location string, runs the bounded redirect loop, and on
// success replaces the current NavigationState and notifies subscribers once
// with the final state. On failure the previous state is retained and the
// error returned; nothing is partially applied.
//
// Resolutions are serialized. When resolutions race, the newest request
// wins: an older request observing that a newer one has already applied its
// state discards its own result and returns ErrSuperseded.
func (n *Navigator) Resolve(ctx context.Context, location string) (*NavigationState, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	return n.resolveLocation(ctx, loc)
}

// ResolveLocation is Resolve for an already-parsed Location.
func (n *Navigator) ResolveLocation(ctx context.Context, loc Location) (*NavigationState, error) {
	return n.resolveLocation(ctx, loc)
}

func (n *Navigator) resolveLocation(ctx context.Context, loc Location) (*NavigationState, error) {
	if n.closed.Load() {
		return nil, ErrNavigatorClosed
	}

	// The generation is claimed before waiting on the lock so that a
	// request that arrived later supersedes this one even if scheduling
	// lets this one finish last.
	gen := n.requests.Add(1)

	n.resolveMu.Lock()

	if n.closed.Load() {
		n.resolveMu.Unlock()
		return nil, ErrNavigatorClosed
	}

	var obsState any
	if n.recorder != nil {
		ctx, obsState = n.recorder.OnResolveStart(ctx, loc)
	}

	stack, final, err := n.resolver.resolve(ctx, loc, obsState)

	var state *NavigationState
	if err == nil {
		if n.lastApplied.Load() > gen {
			err = fmt.Errorf("%w: %q", ErrSuperseded, loc.String())
		} else {
			n.stateMu.RLock()
			prev := n.current
			n.stateMu.RUnlock()

			var prevStack []*MatchedRoute
			if prev != nil {
				prevStack = prev.stack
			}
			assignIdentity(prevStack, stack)

			state = &NavigationState{location: final, stack: stack}
			n.lastApplied.Store(gen)

			n.stateMu.Lock()
			n.current = state
			n.stateMu.Unlock()

			n.logger.DebugContext(ctx, "navigation state replaced",
				slog.String("location", final.String()),
				slog.Int("stack_depth", len(stack)),
			)
		}
	} else {
		n.logger.WarnContext(ctx, "resolution failed",
			slog.String("location", loc.String()),
			slog.Any("error", err),
		)
	}

	if n.recorder != nil && obsState != nil {
		n.recorder.OnResolveEnd(ctx, obsState, state, err)
	}

	// Subscribers run outside the resolution lock so a callback may itself
	// request a new navigation without deadlocking.
	n.resolveMu.Unlock()
	if state != nil {
		n.notifySubscribers(state)
	}

	if err != nil {
		return nil, err
	}

	return state, nil
}

// Refresh re-resolves the current location. It is what the change notifier
// triggers: redirect functions may consult application state that has
// changed, so the same location can now resolve differently. Refresh before
// any successful resolution is a no-op returning (nil, nil).
func (n *Navigator) Refresh(ctx context.Context) (*NavigationState, error) {
	n.stateMu.RLock()
	current := n.current
	n.stateMu.RUnlock()

	if current == nil {
		return nil, nil
	}

	return n.resolveLocation(ctx, current.location)
}

// Pop resolves one stack level up from the current state, as an ordinary
// resolution request. With a single-route stack (or before any resolution)
// Pop is a no-op returning the current state.
func (n *Navigator) Pop(ctx context.Context) (*NavigationState, error) {
	n.stateMu.RLock()
	current := n.current
	n.stateMu.RUnlock()

	if current == nil || len(current.stack) < 2 {
		return current, nil
	}

	parent := current.stack[len(current.stack)-2]

	return n.resolveLocation(ctx, Location{Path: parent.fullPath})
}

// Current returns the most recently resolved NavigationState, or nil before
// the first successful resolution.
func (n *Navigator) Current() *NavigationState {
	n.stateMu.RLock()
	defer n.stateMu.RUnlock()

	return n.current
}

// Tree returns the navigator's route tree.
func (n *Navigator) Tree() *Tree { return n.tree }

// Subscribe registers a callback invoked after every successful state
// replacement, with the complete final state. Intermediate redirect hops are
// never observable. The returned function unsubscribes.
func (n *Navigator) Subscribe(fn func(*NavigationState)) (unsubscribe func()) {
	n.subMu.Lock()
	id := n.nextSubID
	n.nextSubID++
	n.subscribers[id] = fn
	n.subMu.Unlock()

	return func() {
		n.subMu.Lock()
		delete(n.subscribers, id)
		n.subMu.Unlock()
	}
}

func (n *Navigator) notifySubscribers(state *NavigationState) {
	n.subMu.RLock()
	fns := make([]func(*NavigationState), 0, len(n.subscribers))
	for _, fn := range n.subscribers {
		fns = append(fns, fn)
	}
	n.subMu.RUnlock()

	for _, fn := range fns {
		fn(state)
	}
}

// Close detaches the navigator from its change notifier and rejects further
// resolutions with ErrNavigatorClosed. The current state remains readable.
func (n *Navigator) Close() {
	if n.closed.Swap(true) {
		return
	}
	if n.unsubscribeNotifier != nil {
		n.unsubscribeNotifier()
	}
}
