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
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ObservabilityRecorder provides unified observability lifecycle hooks for
// resolutions. Implementations typically combine metrics collection and
// distributed tracing.
//
// Lifecycle:
//  1. Navigator calls OnResolveStart(ctx, loc) → (enrichedCtx, state)
//     - Returns enriched context (e.g., with trace span propagation)
//     - Returns opaque state token (nil if the resolution should be excluded)
//  2. The resolver calls OnRedirectHop once per redirect ONLY IF state != nil
//  3. Navigator calls OnResolveEnd ONLY IF state != nil
//     - result is the final NavigationState on success, nil on failure
//
// The state token is completely opaque to the engine.
//
// Thread safety: all methods must be safe for concurrent use.
type ObservabilityRecorder interface {
	// OnResolveStart is called before the redirect loop begins.
	OnResolveStart(ctx context.Context, loc Location) (context.Context, any)

	// OnRedirectHop is called for every redirect performed within the
	// resolution, before the target location is matched.
	OnRedirectHop(ctx context.Context, state any, from, to Location)

	// OnResolveEnd is called after the resolution completes. Exactly one of
	// result and err is non-nil, except for superseded resolutions where
	// both may be nil and ErrSuperseded respectively.
	OnResolveEnd(ctx context.Context, state any, result *NavigationState, err error)
}

// instrumentationName identifies this library to OpenTelemetry providers.
const instrumentationName = "rivaas.dev/navigation"

// Resolution outcome labels shared by the OTel and Prometheus recorders.
const (
	outcomeOK            = "ok"
	outcomeNotFound      = "not_found"
	outcomeRedirectLoop  = "redirect_loop"
	outcomeRedirectLimit = "redirect_limit"
	outcomeSuperseded    = "superseded"
	outcomeError         = "error"
)

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrNotFound):
		return outcomeNotFound
	case errors.Is(err, ErrRedirectLoop):
		return outcomeRedirectLoop
	case errors.Is(err, ErrRedirectLimitExceeded):
		return outcomeRedirectLimit
	case errors.Is(err, ErrSuperseded):
		return outcomeSuperseded
	default:
		return outcomeError
	}
}

// OTelRecorder is an ObservabilityRecorder backed by the global OpenTelemetry
// providers. Each resolution becomes one span with a span event per redirect
// hop, plus a resolution counter, a hop counter, and a duration histogram.
//
// Example:
//
//	rec, err := navigation.NewOTelRecorder()
//	if err != nil {
//	    log.Fatalf("observability setup failed: %v", err)
//	}
//	nav := navigation.MustNew(tree, navigation.WithObservability(rec))
type OTelRecorder struct {
	tracer      trace.Tracer
	resolutions metric.Int64Counter
	hops        metric.Int64Counter
	duration    metric.Float64Histogram
}

type otelResolveState struct {
	span  trace.Span
	start time.Time
	hops  int
}

// NewOTelRecorder creates an OTelRecorder using the globally registered
// tracer and meter providers. It returns an error if instrument creation
// fails.
func NewOTelRecorder() (*OTelRecorder, error) {
	meter := otel.Meter(instrumentationName)

	resolutions, err := meter.Int64Counter("navigation.resolutions",
		metric.WithDescription("Completed resolutions by outcome"))
	if err != nil {
		return nil, fmt.Errorf("creating resolution counter: %w", err)
	}

	hops, err := meter.Int64Counter("navigation.redirect.hops",
		metric.WithDescription("Redirect hops performed during resolutions"))
	if err != nil {
		return nil, fmt.Errorf("creating redirect hop counter: %w", err)
	}

	duration, err := meter.Float64Histogram("navigation.resolve.duration",
		metric.WithDescription("Resolution duration in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return &OTelRecorder{
		tracer:      otel.Tracer(instrumentationName),
		resolutions: resolutions,
		hops:        hops,
		duration:    duration,
	}, nil
}

func (r *OTelRecorder) OnResolveStart(ctx context.Context, loc Location) (context.Context, any) {
	ctx, span := r.tracer.Start(ctx, "navigation.resolve",
		trace.WithAttributes(attribute.String("navigation.location", loc.String())))

	return ctx, &otelResolveState{span: span, start: time.Now()}
}

func (r *OTelRecorder) OnRedirectHop(ctx context.Context, state any, from, to Location) {
	s, ok := state.(*otelResolveState)
	if !ok {
		return
	}

	s.hops++
	s.span.AddEvent("redirect", trace.WithAttributes(
		attribute.String("navigation.redirect.from", from.String()),
		attribute.String("navigation.redirect.to", to.String()),
	))
	r.hops.Add(ctx, 1)
}

func (r *OTelRecorder) OnResolveEnd(ctx context.Context, state any, result *NavigationState, err error) {
	s, ok := state.(*otelResolveState)
	if !ok {
		return
	}

	outcome := outcomeLabel(err)
	attrs := metric.WithAttributes(attribute.String("navigation.outcome", outcome))
	r.resolutions.Add(ctx, 1, attrs)
	r.duration.Record(ctx, time.Since(s.start).Seconds(), attrs)

	s.span.SetAttributes(
		attribute.String("navigation.outcome", outcome),
		attribute.Int("navigation.redirect.count", s.hops),
	)
	if result != nil {
		s.span.SetAttributes(attribute.String("navigation.resolved", result.Location().String()))
	}
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, outcome)
	}
	s.span.End()
}

// Compile-time check that OTelRecorder implements ObservabilityRecorder.
var _ ObservabilityRecorder = (*OTelRecorder)(nil)
