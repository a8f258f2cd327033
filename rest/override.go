// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"

	"github.com/swaggest/openapi-go/openapi3"
)

// Patch is a partial configuration override. Nil fields keep the base
// value; non-nil fields replace it, including replacement with empty
// values. This is a replace-on-presence merge, not a deep merge: a
// supplied SecuritySchemes map replaces the base map wholesale.
type Patch struct {
	Title       *string
	Version     *string
	Description *string
	DocsPath    *string
	JSONPath    *string

	SecuritySchemes map[string]openapi3.SecurityScheme
	RouteFilter     RouteFilter
}

// RequestConfig holds the configuration in effect for one in-flight
// request. Every request owns an independent instance which is
// discarded when the request completes; instances are never shared
// across requests, so no locking is involved.
type RequestConfig struct {
	base  Config
	patch Patch
}

// NewRequestConfig returns a fresh per-request configuration view over
// the given base.
func NewRequestConfig(base Config) *RequestConfig {
	return &RequestConfig{base: base}
}

// Override merges the patch over the base configuration for the
// current request only. Later overrides of the same field win.
func (rc *RequestConfig) Override(p Patch) {
	if p.Title != nil {
		rc.patch.Title = p.Title
	}
	if p.Version != nil {
		rc.patch.Version = p.Version
	}
	if p.Description != nil {
		rc.patch.Description = p.Description
	}
	if p.DocsPath != nil {
		rc.patch.DocsPath = p.DocsPath
	}
	if p.JSONPath != nil {
		rc.patch.JSONPath = p.JSONPath
	}
	if p.SecuritySchemes != nil {
		rc.patch.SecuritySchemes = p.SecuritySchemes
	}
	if p.RouteFilter != nil {
		rc.patch.RouteFilter = p.RouteFilter
	}
}

// Effective returns the merged view used for serving the document
// within this request.
func (rc *RequestConfig) Effective() Config {
	cfg := rc.base
	if rc.patch.Title != nil {
		cfg.Title = *rc.patch.Title
	}
	if rc.patch.Version != nil {
		cfg.Version = *rc.patch.Version
	}
	if rc.patch.Description != nil {
		cfg.Description = *rc.patch.Description
	}
	if rc.patch.DocsPath != nil {
		cfg.DocsPath = *rc.patch.DocsPath
	}
	if rc.patch.JSONPath != nil {
		cfg.JSONPath = *rc.patch.JSONPath
	}
	if rc.patch.SecuritySchemes != nil {
		cfg.SecuritySchemes = rc.patch.SecuritySchemes
	}
	if rc.patch.RouteFilter != nil {
		cfg.RouteFilter = rc.patch.RouteFilter
	}
	return cfg
}

type requestConfigCtxKey struct{}

func withRequestConfig(ctx context.Context, rc *RequestConfig) context.Context {
	return context.WithValue(ctx, requestConfigCtxKey{}, rc)
}

// RequestConfigFrom returns the request-scoped configuration service
// for the current request, or nil when called outside of one. Any
// collaborator on the request path may call Override on it; the
// effect is limited to that request.
func RequestConfigFrom(ctx context.Context) *RequestConfig {
	rc, _ := ctx.Value(requestConfigCtxKey{}).(*RequestConfig)
	return rc
}
