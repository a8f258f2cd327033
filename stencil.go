// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package stencil provides convention based REST routing with a
// co-generated OpenAPI 3.0 document.
//
// Controllers and routes are declared once, as descriptor values, and
// that single declaration drives the HTTP router, the runtime request
// validators and the OpenAPI document served alongside the API.
package stencil

import (
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Logger returns a [slog.Logger] which is backed by the
// globally registered OTel LoggerProvider.
func Logger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}

// LogHandler returns a [slog.Handler] which is backed by the
// globally registered OTel LoggerProvider.
func LogHandler(name string) slog.Handler {
	return otelslog.NewHandler(name)
}
