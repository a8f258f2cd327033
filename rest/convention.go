// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import "net/http"

// RouteTarget is the HTTP binding derived for a route: the verb, the
// full path template and the default success status.
type RouteTarget struct {
	Method        string
	Path          string
	SuccessStatus int
}

type convention struct {
	method        string
	suffix        string
	successStatus int
}

// The fixed convention table. Route names outside of it must carry an
// explicit verb and path.
var conventions = map[string]convention{
	"index":   {http.MethodGet, "", http.StatusOK},
	"show":    {http.MethodGet, "/{id}", http.StatusOK},
	"create":  {http.MethodPost, "", http.StatusCreated},
	"update":  {http.MethodPut, "/{id}", http.StatusOK},
	"patch":   {http.MethodPatch, "/{id}", http.StatusOK},
	"destroy": {http.MethodDelete, "/{id}", http.StatusOK},
}

// Resolve derives the [RouteTarget] for one of the conventional route
// names. The full path is basePath plus the convention's suffix; no
// further normalization is applied.
func Resolve(basePath, name string) (RouteTarget, bool) {
	c, ok := conventions[name]
	if !ok {
		return RouteTarget{}, false
	}
	return RouteTarget{
		Method:        c.method,
		Path:          basePath + c.suffix,
		SuccessStatus: c.successStatus,
	}, true
}
