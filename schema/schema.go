// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package schema bridges single Go type definitions to both the
// OpenAPI document and runtime request validation.
//
// A schema is an ordinary Go struct. Its json tags and jsonschema
// field tags (required, format, minimum, default, ...) describe the
// document node, while its validate tags drive the runtime validator.
// Both views always derive from the one definition, so they cannot
// drift apart.
package schema

import (
	"encoding/json"
	"io"

	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// Schema converts one Go type definition into an OpenAPI schema node
// and validates values against that same definition.
type Schema interface {
	// Name returns the reusable component name, or "" when the schema
	// is anonymous and must be inlined at its point of use.
	Name() string

	// DocumentNode reflects the definition into an OpenAPI schema node.
	DocumentNode() (openapi3.SchemaOrRef, error)

	// Validate decodes JSON from r into the definition's Go type and
	// checks it against the definition's validate tags. On success the
	// returned value is a pointer to the decoded type.
	Validate(r io.Reader) (any, []Issue)
}

type typed[T any] struct {
	name string
}

// Of returns an anonymous [Schema] for T.
func Of[T any]() Schema {
	return typed[T]{}
}

// Named returns a [Schema] for T registered as a reusable component
// under the given name. Two schemas sharing a component name must be
// structurally identical.
func Named[T any](name string) Schema {
	return typed[T]{name: name}
}

func (t typed[T]) Name() string {
	return t.name
}

func (t typed[T]) DocumentNode() (openapi3.SchemaOrRef, error) {
	var v T
	var reflector jsonschema.Reflector

	jsonSchema, err := reflector.Reflect(v, jsonschema.InlineRefs)
	if err != nil {
		return openapi3.SchemaOrRef{}, err
	}

	var node openapi3.SchemaOrRef
	node.FromJSONSchema(jsonSchema.ToSchemaOrBool())
	return node, nil
}

func (t typed[T]) Validate(r io.Reader) (any, []Issue) {
	var v T

	dec := json.NewDecoder(r)
	err := dec.Decode(&v)
	if err != nil {
		return nil, []Issue{{
			Message:    "malformed json: " + err.Error(),
			Constraint: "json",
		}}
	}

	issues := checkStruct(&v)
	if len(issues) > 0 {
		return nil, issues
	}
	return &v, nil
}
