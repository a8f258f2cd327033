// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/try"
)

// RouteFilter decides, per served request, whether an assembled path
// item appears in the document. It runs after static hiding has
// already removed routes, so it can never resurrect a hidden route.
type RouteFilter func(path string, item openapi3.PathItem) bool

// effectiveHidden resolves the tri-state hide flags: an explicitly set
// route flag wins, otherwise an explicitly set controller flag,
// otherwise visible.
func effectiveHidden(route, controller *bool) bool {
	if route != nil {
		return *route
	}
	if controller != nil {
		return *controller
	}
	return false
}

// includePath runs the filter over one path item. A nil filter accepts
// everything. A panicking filter omits only the offending path instead
// of failing the whole document.
func includePath(f RouteFilter, path string, item openapi3.PathItem) (included bool) {
	if f == nil {
		return true
	}

	var err error
	defer func() {
		if err != nil {
			included = false
		}
	}()
	defer try.Recover(&err)

	return f(path, item)
}
