// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/z5labs/stencil/schema"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/z5labs/sdk-go/try"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Error is a handler failure carrying the HTTP status and error code
// surfaced to the caller through the standard error payload.
type Error struct {
	Status   int
	Code     string
	Message  string
	Metadata map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UnauthorizedError returns a 401 handler error.
func UnauthorizedError(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "unauthorized", Message: message}
}

// ForbiddenError returns a 403 handler error.
func ForbiddenError(message string) *Error {
	return &Error{Status: http.StatusForbidden, Code: "forbidden", Message: message}
}

// NotFoundError returns a 404 handler error.
func NotFoundError(message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "not_found", Message: message}
}

// ConflictError returns a 409 handler error.
func ConflictError(message string) *Error {
	return &Error{Status: http.StatusConflict, Code: "conflict", Message: message}
}

// operation serves a single mounted route: validate the request
// against the route's declared schemas, invoke the handler and encode
// its result.
type operation struct {
	tracer trace.Tracer
	log    *slog.Logger
	route  *Route
	target RouteTarget
}

func newOperation(br *boundRoute, log *slog.Logger) *operation {
	return &operation{
		tracer: otel.Tracer("github.com/z5labs/stencil/rest"),
		log:    log,
		route:  br.route,
		target: br.target,
	}
}

func (o *operation) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var err error
	defer func() {
		if err == nil {
			return
		}
		o.writeError(ctx, w, err)
	}()
	defer try.Recover(&err)

	req, issues, err := o.readRequest(ctx, r)
	if err != nil {
		return
	}
	if len(issues) > 0 {
		o.writeIssues(ctx, w, issues)
		return
	}

	resp, err := o.route.handler.Handle(ctx, req)
	if err != nil {
		return
	}

	err = o.writeResponse(ctx, w, resp)
}

func (o *operation) readRequest(ctx context.Context, r *http.Request) (*Request, []schema.Issue, error) {
	_, span := o.tracer.Start(ctx, "operation.readRequest")
	defer span.End()

	req := &Request{}
	var issues []schema.Issue

	if o.route.params != nil {
		fields, err := o.route.params.Fields()
		if err != nil {
			return nil, nil, err
		}

		values := make(url.Values, len(fields))
		for _, f := range fields {
			v := chi.URLParam(r, f.Name)
			if v != "" {
				values.Set(f.Name, v)
			}
		}

		params, is := o.route.params.Validate(values)
		issues = append(issues, is...)
		req.Params = params
	}

	if o.route.query != nil {
		query, is := o.route.query.Validate(r.URL.Query())
		issues = append(issues, is...)
		req.Query = query
	}

	if o.route.body != nil && methodHasBody(o.target.Method) {
		defer r.Body.Close()

		contentType := r.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "application/json") {
			issues = append(issues, schema.Issue{
				Message:    "unsupported content type: " + contentType,
				Constraint: "content-type",
			})
		} else {
			body, is := o.route.body.Validate(r.Body)
			issues = append(issues, is...)
			req.Body = body
		}
	}

	if len(issues) > 0 {
		return nil, issues, nil
	}
	return req, nil, nil
}

func (o *operation) writeResponse(ctx context.Context, w http.ResponseWriter, resp any) error {
	_, span := o.tracer.Start(ctx, "operation.writeResponse")
	defer span.End()

	if resp == nil {
		w.WriteHeader(o.target.SuccessStatus)
		return nil
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(o.target.SuccessStatus)

	enc := json.NewEncoder(w)
	return enc.Encode(resp)
}

func (o *operation) writeIssues(ctx context.Context, w http.ResponseWriter, issues []schema.Issue) {
	o.log.InfoContext(ctx, "request failed validation",
		slog.String("path", o.target.Path),
		slog.Int("issues", len(issues)),
	)

	payload := schema.ValidationError{
		Error: schema.Error{
			Code:      "invalid_request",
			Message:   "request validation failed",
			Timestamp: time.Now().UTC(),
		},
		Issues: issues,
	}

	err := writeJSON(w, http.StatusBadRequest, payload)
	if err != nil {
		o.log.ErrorContext(ctx, "failed to encode validation error", slog.Any("error", err))
	}
}

func (o *operation) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	requestID := uuid.NewString()

	o.log.ErrorContext(ctx, "sending error response",
		slog.String("path", o.target.Path),
		slog.String("request_id", requestID),
		slog.Any("error", err),
	)

	status := http.StatusInternalServerError
	payload := schema.Error{
		Code:      "internal",
		Message:   "internal error",
		Timestamp: time.Now().UTC(),
		Metadata: map[string]any{
			"request_id": requestID,
		},
	}

	var herr *Error
	if errors.As(err, &herr) {
		status = herr.Status
		payload.Code = herr.Code
		payload.Message = herr.Message
		for k, v := range herr.Metadata {
			payload.Metadata[k] = v
		}
	}

	w.Header().Set("X-Request-Id", requestID)

	werr := writeJSON(w, status, payload)
	if werr != nil {
		o.log.ErrorContext(ctx, "failed to encode error response", slog.Any("error", werr))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	return enc.Encode(v)
}
