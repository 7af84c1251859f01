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

import "log/slog"

// Option defines functional options for navigator configuration.
type Option func(*Navigator)

// WithRedirectLimit sets the maximum number of redirect hops performed
// within one resolution attempt. A chain of exactly this many hops still
// succeeds; one more fails with ErrRedirectLimitExceeded.
//
// Default: 5
// Must be > 0 or validation will fail.
//
// Example:
//
//	nav := navigation.MustNew(tree, navigation.WithRedirectLimit(10))
func WithRedirectLimit(limit int) Option {
	return func(n *Navigator) {
		n.limit = limit
	}
}

// WithTopLevelRedirect sets the top-level redirect function, evaluated
// against the whole resolution state before any route-level redirect on
// every hop of the redirect loop. Typical use is a global guard:
//
//	nav := navigation.MustNew(tree, navigation.WithTopLevelRedirect(
//	    func(rc navigation.RedirectContext) string {
//	        if !session.LoggedIn() && rc.Location.Path != "/login" {
//	            return "/login?from=" + rc.Location.Path
//	        }
//	        return ""
//	    },
//	))
func WithTopLevelRedirect(fn RedirectFunc) Option {
	return func(n *Navigator) {
		n.guard = fn
	}
}

// WithLogger sets the structured logger used for resolution logging.
// When unset, logging is disabled via a no-op logger.
//
// Example:
//
//	nav := navigation.MustNew(tree, navigation.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithObservability sets the observability recorder receiving resolution
// lifecycle hooks. See ObservabilityRecorder, OTelRecorder, and
// PrometheusRecorder.
func WithObservability(rec ObservabilityRecorder) Option {
	return func(n *Navigator) {
		n.recorder = rec
	}
}

// WithDiagnostics sets a diagnostic handler for resolution-time diagnostics
// such as DiagLongRedirectChain. Tree construction diagnostics are
// configured separately via WithTreeDiagnostics.
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(n *Navigator) {
		n.diagnostics = handler
	}
}

// WithChangeNotifier attaches the external change-notification source. The
// navigator subscribes at construction and re-resolves the current location
// on every notification; Close unsubscribes.
func WithChangeNotifier(notifier ChangeNotifier) Option {
	return func(n *Navigator) {
		n.notifier = notifier
	}
}
