// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import "fmt"

// MissingResponseSchemaError is returned at assembly time when a route
// declares no response schema.
type MissingResponseSchemaError struct {
	Controller string
	Route      string
}

func (e MissingResponseSchemaError) Error() string {
	return fmt.Sprintf("rest: route %q on controller %q has no response schema", e.Route, e.Controller)
}

// UnknownRouteNameError is returned at assembly time when a route name
// is outside the convention table and carries no explicit verb+path.
type UnknownRouteNameError struct {
	Controller string
	Route      string
}

func (e UnknownRouteNameError) Error() string {
	return fmt.Sprintf("rest: route %q on controller %q is not a conventional name and has no explicit method and path", e.Route, e.Controller)
}

// DuplicateOperationError is returned at assembly time when two routes
// resolve to the same verb and path template.
type DuplicateOperationError struct {
	Method string
	Path   string
}

func (e DuplicateOperationError) Error() string {
	return fmt.Sprintf("rest: duplicate operation %s %s", e.Method, e.Path)
}

// DuplicateComponentError is returned at assembly time when two
// structurally different schemas register the same component name.
type DuplicateComponentError struct {
	Name string
}

func (e DuplicateComponentError) Error() string {
	return fmt.Sprintf("rest: component %q registered with conflicting structures", e.Name)
}

// UnknownSecuritySchemeError is returned at assembly time when a route
// references a security scheme absent from the configuration.
type UnknownSecuritySchemeError struct {
	Controller string
	Route      string
	Scheme     string
}

func (e UnknownSecuritySchemeError) Error() string {
	return fmt.Sprintf("rest: route %q on controller %q references unknown security scheme %q", e.Route, e.Controller, e.Scheme)
}
