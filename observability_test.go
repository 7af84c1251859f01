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

//go:build !integration

package navigation

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockObservabilityRecorder is a test double for ObservabilityRecorder
type mockObservabilityRecorder struct {
	exclude bool

	startCalls atomic.Int32
	hopCalls   atomic.Int32
	endCalls   atomic.Int32

	lastResult *NavigationState
	lastErr    error
}

func (m *mockObservabilityRecorder) OnResolveStart(ctx context.Context, _ Location) (context.Context, any) {
	m.startCalls.Add(1)
	if m.exclude {
		return ctx, nil
	}

	return ctx, &struct{}{}
}

func (m *mockObservabilityRecorder) OnRedirectHop(_ context.Context, state any, _, _ Location) {
	if state != nil {
		m.hopCalls.Add(1)
	}
}

func (m *mockObservabilityRecorder) OnResolveEnd(_ context.Context, state any, result *NavigationState, err error) {
	if state == nil {
		return
	}
	m.endCalls.Add(1)
	m.lastResult = result
	m.lastErr = err
}

// TestObservabilityLifecycle tests the start/hop/end hook sequence
func TestObservabilityLifecycle(t *testing.T) {
	t.Parallel()

	tree := MustNewTree([]*Route{
		NewRoute("/old").SetRedirect(redirectTo("/new")),
		NewRoute("/new").SetBuilder(page),
	})
	rec := &mockObservabilityRecorder{}
	nav := MustNew(tree, WithObservability(rec))

	state, err := nav.Resolve(context.Background(), "/old")
	require.NoError(t, err)

	assert.Equal(t, int32(1), rec.startCalls.Load())
	assert.Equal(t, int32(1), rec.hopCalls.Load())
	assert.Equal(t, int32(1), rec.endCalls.Load())
	assert.Same(t, state, rec.lastResult)
	assert.NoError(t, rec.lastErr)

	_, err = nav.Resolve(context.Background(), "/missing")
	require.Error(t, err)
	assert.Equal(t, int32(2), rec.endCalls.Load())
	assert.Nil(t, rec.lastResult)
	assert.ErrorIs(t, rec.lastErr, ErrNotFound)
}

// TestObservabilityExclusion tests that a nil state token skips hop and end
// hooks entirely
func TestObservabilityExclusion(t *testing.T) {
	t.Parallel()

	tree := MustNewTree([]*Route{
		NewRoute("/old").SetRedirect(redirectTo("/new")),
		NewRoute("/new").SetBuilder(page),
	})
	rec := &mockObservabilityRecorder{exclude: true}
	nav := MustNew(tree, WithObservability(rec))

	_, err := nav.Resolve(context.Background(), "/old")
	require.NoError(t, err)

	assert.Equal(t, int32(1), rec.startCalls.Load())
	assert.Equal(t, int32(0), rec.hopCalls.Load())
	assert.Equal(t, int32(0), rec.endCalls.Load())
}

// TestOutcomeLabel tests error-to-outcome mapping
func TestOutcomeLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, outcomeOK, outcomeLabel(nil))
	assert.Equal(t, outcomeNotFound, outcomeLabel(ErrNotFound))
	assert.Equal(t, outcomeRedirectLoop, outcomeLabel(ErrRedirectLoop))
	assert.Equal(t, outcomeRedirectLimit, outcomeLabel(ErrRedirectLimitExceeded))
	assert.Equal(t, outcomeSuperseded, outcomeLabel(ErrSuperseded))
	assert.Equal(t, outcomeError, outcomeLabel(ErrRedirectDeclined))
}

// TestPrometheusRecorder tests counter and histogram recording
func TestPrometheusRecorder(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	tree := MustNewTree([]*Route{
		NewRoute("/old").SetRedirect(redirectTo("/new")),
		NewRoute("/new").SetBuilder(page),
	})
	nav := MustNew(tree, WithObservability(rec))

	_, err = nav.Resolve(context.Background(), "/old")
	require.NoError(t, err)
	_, err = nav.Resolve(context.Background(), "/missing")
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(rec.resolutions.WithLabelValues(outcomeOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.resolutions.WithLabelValues(outcomeNotFound)))
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.hops))

	// Double registration against the same registry fails.
	_, err = NewPrometheusRecorder(reg)
	require.Error(t, err)
}

// TestOTelRecorder tests the recorder against the global (no-op) providers
func TestOTelRecorder(t *testing.T) {
	t.Parallel()

	rec, err := NewOTelRecorder()
	require.NoError(t, err)

	tree := MustNewTree([]*Route{
		NewRoute("/old").SetRedirect(redirectTo("/new")),
		NewRoute("/new").SetBuilder(page),
	})
	nav := MustNew(tree, WithObservability(rec))

	state, err := nav.Resolve(context.Background(), "/old")
	require.NoError(t, err)
	assert.Equal(t, "/new", state.Location().Path)

	_, err = nav.Resolve(context.Background(), "/missing")
	assert.Error(t, err)
}

// TestMultiRecorder tests fan-out with per-recorder state isolation
func TestMultiRecorder(t *testing.T) {
	t.Parallel()

	active := &mockObservabilityRecorder{}
	excluded := &mockObservabilityRecorder{exclude: true}
	multi := MultiRecorder{active, excluded}

	tree := MustNewTree([]*Route{
		NewRoute("/old").SetRedirect(redirectTo("/new")),
		NewRoute("/new").SetBuilder(page),
	})
	nav := MustNew(tree, WithObservability(multi))

	_, err := nav.Resolve(context.Background(), "/old")
	require.NoError(t, err)

	assert.Equal(t, int32(1), active.hopCalls.Load())
	assert.Equal(t, int32(1), active.endCalls.Load())
	assert.Equal(t, int32(1), excluded.startCalls.Load())
	assert.Equal(t, int32(0), excluded.endCalls.Load())
}
