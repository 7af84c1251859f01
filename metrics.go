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

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder is an ObservabilityRecorder that exposes resolution
// counters and redirect chain lengths as Prometheus metrics. It records no
// traces; pair it with OTelRecorder via MultiRecorder when both are wanted.
//
// Example:
//
//	rec, err := navigation.NewPrometheusRecorder(prometheus.DefaultRegisterer)
//	if err != nil {
//	    log.Fatalf("metrics setup failed: %v", err)
//	}
//	nav := navigation.MustNew(tree, navigation.WithObservability(rec))
type PrometheusRecorder struct {
	resolutions *prometheus.CounterVec
	hops        prometheus.Counter
	chainLength prometheus.Histogram
}

type promResolveState struct {
	hops int
}

// NewPrometheusRecorder creates a PrometheusRecorder and registers its
// collectors with the given registerer.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "navigation_resolutions_total",
			Help: "Completed resolutions by outcome.",
		}, []string{"outcome"}),
		hops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "navigation_redirect_hops_total",
			Help: "Redirect hops performed during resolutions.",
		}),
		chainLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "navigation_redirect_chain_length",
			Help:    "Redirect chain length per resolution.",
			Buckets: prometheus.LinearBuckets(0, 1, 8),
		}),
	}

	for _, c := range []prometheus.Collector{r.resolutions, r.hops, r.chainLength} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering navigation collector: %w", err)
		}
	}

	return r, nil
}

func (r *PrometheusRecorder) OnResolveStart(ctx context.Context, _ Location) (context.Context, any) {
	return ctx, &promResolveState{}
}

func (r *PrometheusRecorder) OnRedirectHop(_ context.Context, state any, _, _ Location) {
	if s, ok := state.(*promResolveState); ok {
		s.hops++
		r.hops.Inc()
	}
}

func (r *PrometheusRecorder) OnResolveEnd(_ context.Context, state any, _ *NavigationState, err error) {
	s, ok := state.(*promResolveState)
	if !ok {
		return
	}

	r.resolutions.WithLabelValues(outcomeLabel(err)).Inc()
	r.chainLength.Observe(float64(s.hops))
}

// Compile-time check that PrometheusRecorder implements ObservabilityRecorder.
var _ ObservabilityRecorder = (*PrometheusRecorder)(nil)

// MultiRecorder fans lifecycle hooks out to multiple recorders. State tokens
// are kept per recorder so each sees only its own.
type MultiRecorder []ObservabilityRecorder

type multiResolveState []any

func (m MultiRecorder) OnResolveStart(ctx context.Context, loc Location) (context.Context, any) {
	states := make(multiResolveState, len(m))
	for i, rec := range m {
		ctx, states[i] = rec.OnResolveStart(ctx, loc)
	}

	return ctx, states
}

func (m MultiRecorder) OnRedirectHop(ctx context.Context, state any, from, to Location) {
	states, ok := state.(multiResolveState)
	if !ok {
		return
	}
	for i, rec := range m {
		if states[i] != nil {
			rec.OnRedirectHop(ctx, states[i], from, to)
		}
	}
}

func (m MultiRecorder) OnResolveEnd(ctx context.Context, state any, result *NavigationState, err error) {
	states, ok := state.(multiResolveState)
	if !ok {
		return
	}
	for i, rec := range m {
		if states[i] != nil {
			rec.OnResolveEnd(ctx, states[i], result, err)
		}
	}
}

// Compile-time check that MultiRecorder implements ObservabilityRecorder.
var _ ObservabilityRecorder = (MultiRecorder)(nil)
