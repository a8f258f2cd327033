// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"encoding"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// Field describes a single parameter derived from a struct field.
type Field struct {
	Name     string
	Required bool
	Schema   openapi3.SchemaOrRef
}

// Parameters converts one Go struct definition into a set of OpenAPI
// path or query parameters and validates raw parameter values against
// that same definition.
type Parameters interface {
	// Fields returns one entry per exported struct field carrying the
	// parameter tag, in declaration order.
	Fields() ([]Field, error)

	// Validate coerces the raw values into the definition's Go type,
	// applies declared defaults for absent parameters and checks the
	// result against the definition's validate tags. On success the
	// returned value is a pointer to the populated type.
	Validate(values url.Values) (any, []Issue)
}

type params[T any] struct {
	tag string
}

// PathParams returns [Parameters] derived from T's path-tagged fields.
func PathParams[T any]() Parameters {
	return params[T]{tag: "path"}
}

// QueryParams returns [Parameters] derived from T's query-tagged fields.
func QueryParams[T any]() Parameters {
	return params[T]{tag: "query"}
}

func (p params[T]) Fields() ([]Field, error) {
	var v T
	var reflector jsonschema.Reflector

	jsonSchema, err := reflector.Reflect(v, jsonschema.InlineRefs, jsonschema.PropertyNameTag(p.tag))
	if err != nil {
		return nil, err
	}

	required := make(map[string]struct{}, len(jsonSchema.Required))
	for _, name := range jsonSchema.Required {
		required[name] = struct{}{}
	}

	rt := reflect.TypeFor[T]()
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	fields := make([]Field, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		name := tagName(rt.Field(i), p.tag)
		if name == "" {
			continue
		}

		prop, ok := jsonSchema.Properties[name]
		if !ok {
			continue
		}

		var node openapi3.SchemaOrRef
		node.FromJSONSchema(prop)

		_, req := required[name]
		fields = append(fields, Field{
			Name:     name,
			Required: req || p.tag == "path",
			Schema:   node,
		})
	}
	return fields, nil
}

func (p params[T]) Validate(values url.Values) (any, []Issue) {
	var v T
	rv := reflect.ValueOf(&v).Elem()
	rt := rv.Type()

	var issues []Issue
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		name := tagName(sf, p.tag)
		if name == "" {
			continue
		}

		raw := values.Get(name)
		if raw == "" {
			raw = sf.Tag.Get("default")
		}
		if raw == "" {
			// Left zero; a required constraint reports it below.
			continue
		}

		issue := setField(rv.Field(i), name, raw)
		if issue != nil {
			issues = append(issues, *issue)
		}
	}
	if len(issues) > 0 {
		return nil, issues
	}

	issues = checkStruct(&v)
	if len(issues) > 0 {
		return nil, issues
	}
	return &v, nil
}

func setField(fv reflect.Value, name, raw string) *Issue {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return &Issue{Path: name, Message: "must be an integer", Constraint: "type"}
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return &Issue{Path: name, Message: "must be a non-negative integer", Constraint: "type"}
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return &Issue{Path: name, Message: "must be a number", Constraint: "type"}
		}
		fv.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return &Issue{Path: name, Message: "must be a boolean", Constraint: "type"}
		}
		fv.SetBool(b)
	default:
		u, ok := fv.Addr().Interface().(encoding.TextUnmarshaler)
		if !ok {
			return &Issue{Path: name, Message: "unsupported parameter type", Constraint: "type"}
		}
		err := u.UnmarshalText([]byte(raw))
		if err != nil {
			return &Issue{Path: name, Message: "invalid value", Constraint: "type"}
		}
	}
	return nil
}

func tagName(sf reflect.StructField, tag string) string {
	name, _, _ := strings.Cut(sf.Tag.Get(tag), ",")
	if name == "-" {
		return ""
	}
	return name
}
