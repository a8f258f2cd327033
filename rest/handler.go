// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/z5labs/stencil"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/openapi-go/openapi3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HandlerOptions holds configuration values used when constructing
// the handler returned by [NewHandler].
type HandlerOptions struct {
	middlewares []func(http.Handler) http.Handler
}

// HandlerOption configures the handler returned by [NewHandler].
type HandlerOption interface {
	ApplyHandlerOption(*HandlerOptions)
}

type handlerOptionFunc func(*HandlerOptions)

func (f handlerOptionFunc) ApplyHandlerOption(ho *HandlerOptions) {
	f(ho)
}

// Middleware mounts middlewares inside the request scope, after the
// per-request [RequestConfig] has been created. This is where
// collaborators call [RequestConfigFrom] and [RequestConfig.Override].
func Middleware(mws ...func(http.Handler) http.Handler) HandlerOption {
	return handlerOptionFunc(func(ho *HandlerOptions) {
		ho.middlewares = append(ho.middlewares, mws...)
	})
}

// NewHandler assembles the document and returns an [http.Handler]
// serving it along with every route that has a runtime handler
// attached.
//
// The returned handler provides:
//   - GET <DocsPath>: an HTML page embedding the document URL
//   - GET <JSONPath>: the effective document for the current request
//   - every registered route with a [Handle] option, mounted at its
//     resolved verb and path
//
// Any returned error is an assembly-time fatal error: the caller
// should fail startup rather than serve a partial API.
func NewHandler(cfg Config, s *Synthesizer, opts ...HandlerOption) (http.Handler, error) {
	cfg = cfg.withDefaults()
	log := stencil.Logger("github.com/z5labs/stencil/rest")

	ho := &HandlerOptions{}
	for _, opt := range opts {
		opt.ApplyHandlerOption(ho)
	}

	err := s.Assemble(cfg)
	if err != nil {
		return nil, err
	}

	mux := chi.NewMux()
	mux.Use(requestConfig(cfg))
	mux.Use(ho.middlewares...)
	mux.Get(cfg.DocsPath, docsPage(log))
	mux.Get(cfg.JSONPath, serveDocument(s, log))

	for _, br := range s.boundRoutes() {
		if br.route.handler == nil {
			continue
		}

		mux.Method(br.target.Method, br.target.Path, otelhttp.WithRouteTag(br.target.Path, newOperation(br, log)))
	}
	return mux, nil
}

// requestConfig gives every request its own [RequestConfig] instance.
func requestConfig(base Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := NewRequestConfig(base)
			next.ServeHTTP(w, r.WithContext(withRequestConfig(r.Context(), rc)))
		})
	}
}

func serveDocument(s *Synthesizer, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := RequestConfigFrom(r.Context()).Effective()

		doc, err := s.Document()
		if err != nil {
			log.ErrorContext(r.Context(), "failed to assemble document", slog.Any("error", err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		enc := json.NewEncoder(w)
		err = enc.Encode(effectiveDocument(doc, cfg))
		if err == nil {
			return
		}
		log.ErrorContext(
			r.Context(),
			"failed to encode document to json",
			slog.Any("error", err),
		)
	}
}

// effectiveDocument derives the served view of the Ready document:
// info fields from the effective configuration, the dynamic route
// filter applied, and overridden security scheme definitions swapped
// in. The Ready document itself is never mutated.
func effectiveDocument(doc *openapi3.Spec, cfg Config) *openapi3.Spec {
	out := *doc

	out.Info = openapi3.Info{
		Title:   cfg.Title,
		Version: cfg.Version,
	}
	if cfg.Description != "" {
		out.Info.Description = &cfg.Description
	}

	filtered := make(map[string]openapi3.PathItem, len(doc.Paths.MapOfPathItemValues))
	for path, item := range doc.Paths.MapOfPathItemValues {
		if includePath(cfg.RouteFilter, path, item) {
			filtered[path] = item
		}
	}
	out.Paths = openapi3.Paths{
		MapOfPathItemValues: filtered,
	}

	if doc.Components != nil && doc.Components.SecuritySchemes != nil {
		comps := *doc.Components

		schemes := make(map[string]openapi3.SecuritySchemeOrRef, len(comps.SecuritySchemes.MapOfSecuritySchemeOrRefValues))
		for name, def := range comps.SecuritySchemes.MapOfSecuritySchemeOrRefValues {
			override, ok := cfg.SecuritySchemes[name]
			if ok {
				def = openapi3.SecuritySchemeOrRef{
					SecurityScheme: &override,
				}
			}
			schemes[name] = def
		}
		comps.SecuritySchemes = &openapi3.ComponentsSecuritySchemes{
			MapOfSecuritySchemeOrRefValues: schemes,
		}
		out.Components = &comps
	}
	return &out
}

var docsPageTmpl = template.Must(template.New("docs").Parse(`<!doctype html>
<html>
<head>
<title>{{.Title}}</title>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
<redoc spec-url="{{.JSONPath}}"></redoc>
<script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>
`))

// docsPage serves a minimal HTML shell around the document URL. The
// viewer itself is loaded client side; this core only supplies the
// document.
func docsPage(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := RequestConfigFrom(r.Context()).Effective()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		err := docsPageTmpl.Execute(w, struct {
			Title    string
			JSONPath string
		}{
			Title:    cfg.Title,
			JSONPath: cfg.JSONPath,
		})
		if err == nil {
			return
		}
		log.ErrorContext(
			r.Context(),
			"failed to render docs page",
			slog.Any("error", err),
		)
	}
}
