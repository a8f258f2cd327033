// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"net/http"

	"github.com/z5labs/stencil/schema"
)

// Route declares a single operation on a [Controller]. Routes are
// immutable after registration.
type Route struct {
	controller *Controller

	name          string
	method        string // explicit verb for custom routes
	path          string // explicit path suffix for custom routes
	successStatus int

	body     schema.Schema
	params   schema.Parameters
	query    schema.Parameters
	response schema.Schema

	// Explicitly declared non-success responses. These win over the
	// auto-included error responses for the same status.
	responses map[int]schema.Schema

	summary     string
	description string
	tags        []string
	security    []string // nil means unset
	hidden      *bool
	guards      []string

	handler Handler
}

// RouteOption configures a [Route] at declaration.
type RouteOption interface {
	ApplyRouteOption(*Route)
}

type routeOptionFunc func(*Route)

func (f routeOptionFunc) ApplyRouteOption(r *Route) {
	f(r)
}

func newRoute(name, method, path string, opts []RouteOption) ControllerOption {
	return controllerOptionFunc(func(c *Controller) {
		r := &Route{
			controller: c,
			name:       name,
			method:     method,
			path:       path,
			responses:  make(map[int]schema.Schema),
		}
		for _, opt := range opts {
			opt.ApplyRouteOption(r)
		}
		c.routes = append(c.routes, r)
	})
}

// Index declares the conventional GET <basePath> route.
func Index(opts ...RouteOption) ControllerOption {
	return newRoute("index", "", "", opts)
}

// Show declares the conventional GET <basePath>/{id} route.
func Show(opts ...RouteOption) ControllerOption {
	return newRoute("show", "", "", opts)
}

// Create declares the conventional POST <basePath> route. Its default
// success status is 201.
func Create(opts ...RouteOption) ControllerOption {
	return newRoute("create", "", "", opts)
}

// Update declares the conventional PUT <basePath>/{id} route.
func Update(opts ...RouteOption) ControllerOption {
	return newRoute("update", "", "", opts)
}

// PatchRoute declares the conventional PATCH <basePath>/{id} route.
func PatchRoute(opts ...RouteOption) ControllerOption {
	return newRoute("patch", "", "", opts)
}

// Destroy declares the conventional DELETE <basePath>/{id} route.
func Destroy(opts ...RouteOption) ControllerOption {
	return newRoute("destroy", "", "", opts)
}

// Custom declares a route outside the convention table. The verb and
// path suffix must both be supplied; leaving either empty is an
// assembly-time error.
func Custom(name, method, path string, opts ...RouteOption) ControllerOption {
	return newRoute(name, method, path, opts)
}

// target resolves the route's HTTP binding, by convention or from the
// explicit verb+path pair.
func (r *Route) target() (RouteTarget, error) {
	t, ok := Resolve(r.controller.basePath, r.name)
	if !ok {
		if r.method == "" || r.path == "" {
			return RouteTarget{}, UnknownRouteNameError{
				Controller: r.controller.basePath,
				Route:      r.name,
			}
		}
		t = RouteTarget{
			Method:        r.method,
			Path:          r.controller.basePath + r.path,
			SuccessStatus: http.StatusOK,
		}
	}
	if r.successStatus != 0 {
		t.SuccessStatus = r.successStatus
	}
	return t, nil
}

func (r *Route) hasGuards() bool {
	return len(r.guards) > 0 || len(r.controller.guards) > 0
}

// Body sets the request body schema. It is only used for verbs which
// carry a body.
func Body(s schema.Schema) RouteOption {
	return routeOptionFunc(func(r *Route) {
		r.body = s
	})
}

// Params sets the path parameter schema.
func Params(p schema.Parameters) RouteOption {
	return routeOptionFunc(func(r *Route) {
		r.params = p
	})
}

// Query sets the query parameter schema.
func Query(p schema.Parameters) RouteOption {
	return routeOptionFunc(func(r *Route) {
		r.query = p
	})
}

// Response sets the success response schema. Every route must declare
// one; a missing response schema is an assembly-time error.
func Response(s schema.Schema) RouteOption {
	return routeOptionFunc(func(r *Route) {
		r.response = s
	})
}

// Returns declares an additional response for the given status. An
// explicitly declared status wins over the auto-included error
// response with the same code.
func Returns(status int, s schema.Schema) RouteOption {
	return routeOptionFunc(func(r *Route) {
		r.responses[status] = s
	})
}

// Success overrides the route's default success status.
func Success(status int) RouteOption {
	return routeOptionFunc(func(r *Route) {
		r.successStatus = status
	})
}

// Summary sets the operation summary.
func Summary(s string) RouteOption {
	return routeOptionFunc(func(r *Route) {
		r.summary = s
	})
}

// Description sets the operation description.
func Description(s string) RouteOption {
	return routeOptionFunc(func(r *Route) {
		r.description = s
	})
}

// Request carries the validated inputs of one route invocation. Each
// field holds a pointer to the Go type of the corresponding schema, or
// nil when the route declares no schema for it.
type Request struct {
	Body   any
	Params any
	Query  any
}

// Handler is the RPC style implementation of a route. The returned
// value is encoded as the JSON response body with the route's success
// status; returning nil writes the status with no body.
type Handler interface {
	Handle(context.Context, *Request) (any, error)
}

// HandlerFunc is an adapter to allow the use of ordinary functions
// as [Handler]s.
type HandlerFunc func(context.Context, *Request) (any, error)

// Handle implements the [Handler] interface.
func (f HandlerFunc) Handle(ctx context.Context, req *Request) (any, error) {
	return f(ctx, req)
}

// Handle attaches the runtime handler. Routes without a handler are
// documented but not mounted.
func Handle(h Handler) RouteOption {
	return routeOptionFunc(func(r *Route) {
		r.handler = h
	})
}
