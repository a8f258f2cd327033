// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/z5labs/stencil/schema"

	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
)

type synthState int

const (
	stateCollecting synthState = iota
	stateResolving
	stateAssembling
	stateReady
)

// Synthesizer walks the registered controllers and assembles the
// complete document: per-route operations, reusable components and
// referenced security schemes.
//
// Once assembled, the document is immutable and safe for
// unsynchronized concurrent reads. Registering more controllers
// returns the synthesizer to its collecting state; the next build
// happens fully off to the side and is published with a single atomic
// swap, so readers observe either the previous document or the new
// one, never a partial build.
type Synthesizer struct {
	mu          sync.Mutex
	controllers []*Controller
	cfg         Config
	state       synthState
	bound       []*boundRoute

	doc atomic.Pointer[openapi3.Spec]
}

// boundRoute is a route resolved to its HTTP binding.
type boundRoute struct {
	route  *Route
	target RouteTarget
	hidden bool
}

// NewSynthesizer initializes a [Synthesizer] over the given
// controllers.
func NewSynthesizer(controllers ...*Controller) *Synthesizer {
	s := &Synthesizer{}
	s.Register(controllers...)
	return s
}

// Register adds controllers in the supplied order, which becomes the
// path registration order. It invalidates any previously assembled
// document.
func (s *Synthesizer) Register(controllers ...*Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.controllers = append(s.controllers, controllers...)
	s.state = stateCollecting
	s.doc.Store(nil)
}

// Assemble builds and publishes the document using the given base
// configuration. Any returned error is an assembly-time fatal error
// and should abort application startup.
func (s *Synthesizer) Assemble(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = cfg.withDefaults()
	return s.assembleLocked()
}

// Document returns the assembled document, rebuilding it first when
// controllers were registered since the last build.
func (s *Synthesizer) Document() (*openapi3.Spec, error) {
	doc := s.doc.Load()
	if doc != nil {
		return doc, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc = s.doc.Load()
	if doc != nil {
		return doc, nil
	}

	err := s.assembleLocked()
	if err != nil {
		return nil, err
	}
	return s.doc.Load(), nil
}

func (s *Synthesizer) boundRoutes() []*boundRoute {
	s.mu.Lock()
	defer s.mu.Unlock()

	bound := make([]*boundRoute, len(s.bound))
	copy(bound, s.bound)
	return bound
}

func (s *Synthesizer) assembleLocked() error {
	s.state = stateResolving

	seen := make(map[string]struct{})
	bound := make([]*boundRoute, 0)
	for _, c := range s.controllers {
		for _, r := range c.routes {
			target, err := r.target()
			if err != nil {
				return err
			}

			if r.response == nil {
				return MissingResponseSchemaError{
					Controller: c.basePath,
					Route:      r.name,
				}
			}

			// Hidden routes still occupy their verb+path.
			key := target.Method + " " + target.Path
			if _, ok := seen[key]; ok {
				return DuplicateOperationError{
					Method: target.Method,
					Path:   target.Path,
				}
			}
			seen[key] = struct{}{}

			bound = append(bound, &boundRoute{
				route:  r,
				target: target,
				hidden: effectiveHidden(r.hidden, c.hidden),
			})
		}
	}

	s.state = stateAssembling

	spec := &openapi3.Spec{
		Openapi: "3.0.3",
		Info: openapi3.Info{
			Title:   s.cfg.Title,
			Version: s.cfg.Version,
		},
	}
	if s.cfg.Description != "" {
		spec.Info.Description = ptr.Ref(s.cfg.Description)
	}

	comps := &componentSet{
		spec:   spec,
		shapes: make(map[string][]byte),
	}

	for _, br := range bound {
		op, err := s.operationFor(spec, br, comps)
		if err != nil {
			return err
		}

		if br.hidden {
			continue
		}

		err = spec.AddOperation(br.target.Method, br.target.Path, op)
		if err != nil {
			return err
		}
	}

	s.bound = bound
	s.state = stateReady
	s.doc.Store(spec)
	return nil
}

func (s *Synthesizer) operationFor(spec *openapi3.Spec, br *boundRoute, comps *componentSet) (openapi3.Operation, error) {
	r := br.route
	c := r.controller

	var op openapi3.Operation
	if r.summary != "" {
		op.Summary = ptr.Ref(r.summary)
	}
	if r.description != "" {
		op.Description = ptr.Ref(r.description)
	}
	if tags := mergeTags(c.tags, r.tags); len(tags) > 0 {
		op.Tags = tags
	}

	err := appendParameters(&op, r.params, openapi3.ParameterInPath)
	if err != nil {
		return op, err
	}
	err = appendParameters(&op, r.query, openapi3.ParameterInQuery)
	if err != nil {
		return op, err
	}
	ensurePathParameters(&op, br.target.Path)

	if r.body != nil && methodHasBody(br.target.Method) {
		node, err := comps.nodeFor(r.body)
		if err != nil {
			return op, err
		}

		op.RequestBody = &openapi3.RequestBodyOrRef{
			RequestBody: &openapi3.RequestBody{
				Required: ptr.Ref(true),
				Content: map[string]openapi3.MediaType{
					"application/json": {
						Schema: &node,
					},
				},
			},
		}
	}

	responses := make(map[string]openapi3.ResponseOrRef)

	successNode, err := comps.nodeFor(r.response)
	if err != nil {
		return op, err
	}
	responses[strconv.Itoa(br.target.SuccessStatus)] = jsonResponse(http.StatusText(br.target.SuccessStatus), successNode)

	for status, sch := range r.responses {
		node, err := comps.nodeFor(sch)
		if err != nil {
			return op, err
		}
		responses[strconv.Itoa(status)] = jsonResponse(http.StatusText(status), node)
	}

	// Auto-included error responses; explicit declarations win.
	for _, auto := range autoErrorResponses {
		key := strconv.Itoa(auto.status)
		if _, ok := responses[key]; ok {
			continue
		}

		node, err := comps.nodeFor(auto.schema)
		if err != nil {
			return op, err
		}
		responses[key] = jsonResponse(auto.description, node)
	}
	op.Responses = openapi3.Responses{
		MapOfResponseOrRefValues: responses,
	}

	for _, name := range mergeSecurity(c.security, r.security, r.hasGuards()) {
		scheme, ok := s.cfg.SecuritySchemes[name]
		if !ok {
			return op, UnknownSecuritySchemeError{
				Controller: c.basePath,
				Route:      r.name,
				Scheme:     name,
			}
		}

		spec.ComponentsEns().SecuritySchemesEns().WithMapOfSecuritySchemeOrRefValuesItem(
			name,
			openapi3.SecuritySchemeOrRef{
				SecurityScheme: &scheme,
			},
		)

		op.Security = append(op.Security, map[string][]string{
			name: {},
		})
	}
	return op, nil
}

func appendParameters(op *openapi3.Operation, p schema.Parameters, in openapi3.ParameterIn) error {
	if p == nil {
		return nil
	}

	fields, err := p.Fields()
	if err != nil {
		return err
	}

	for _, f := range fields {
		node := f.Schema

		param := &openapi3.Parameter{
			Name:   f.Name,
			In:     in,
			Schema: &node,
		}
		if f.Required || in == openapi3.ParameterInPath {
			param.Required = ptr.Ref(true)
		}

		op.Parameters = append(op.Parameters, openapi3.ParameterOrRef{
			Parameter: param,
		})
	}
	return nil
}

var pathParamRegexp = regexp.MustCompile(`\{([^{}]+)\}`)

// ensurePathParameters declares a plain string parameter for any path
// placeholder the route's params schema does not cover. Every
// placeholder must have a matching parameter in the document.
func ensurePathParameters(op *openapi3.Operation, path string) {
	declared := make(map[string]struct{}, len(op.Parameters))
	for _, p := range op.Parameters {
		if p.Parameter != nil && p.Parameter.In == openapi3.ParameterInPath {
			declared[p.Parameter.Name] = struct{}{}
		}
	}

	for _, match := range pathParamRegexp.FindAllStringSubmatch(path, -1) {
		name := match[1]
		if _, ok := declared[name]; ok {
			continue
		}

		schemaType := openapi3.SchemaTypeString
		node := openapi3.SchemaOrRef{
			Schema: &openapi3.Schema{
				Type: &schemaType,
			},
		}

		op.Parameters = append(op.Parameters, openapi3.ParameterOrRef{
			Parameter: &openapi3.Parameter{
				Name:     name,
				In:       openapi3.ParameterInPath,
				Required: ptr.Ref(true),
				Schema:   &node,
			},
		})
	}
}

var autoErrorResponses = []struct {
	status      int
	schema      schema.Schema
	description string
}{
	{http.StatusBadRequest, schema.ValidationErrorSchema, "Request validation failed"},
	{http.StatusUnauthorized, schema.ErrorSchema, "Unauthorized"},
	{http.StatusForbidden, schema.ErrorSchema, "Forbidden"},
	{http.StatusNotFound, schema.ErrorSchema, "Not Found"},
	{http.StatusConflict, schema.ErrorSchema, "Conflict"},
	{http.StatusInternalServerError, schema.ErrorSchema, "Internal Server Error"},
}

func jsonResponse(description string, node openapi3.SchemaOrRef) openapi3.ResponseOrRef {
	return openapi3.ResponseOrRef{
		Response: &openapi3.Response{
			Description: description,
			Content: map[string]openapi3.MediaType{
				"application/json": {
					Schema: &node,
				},
			},
		},
	}
}

func methodHasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// componentSet registers named schemas exactly once, detecting
// conflicting re-registrations of the same name.
type componentSet struct {
	spec   *openapi3.Spec
	shapes map[string][]byte
}

// nodeFor returns the document node for a schema: a reference for
// named components, the inlined node for anonymous schemas.
func (cs *componentSet) nodeFor(s schema.Schema) (openapi3.SchemaOrRef, error) {
	node, err := s.DocumentNode()
	if err != nil {
		return openapi3.SchemaOrRef{}, err
	}

	name := s.Name()
	if name == "" {
		return node, nil
	}

	shape, err := json.Marshal(node)
	if err != nil {
		return openapi3.SchemaOrRef{}, err
	}

	existing, ok := cs.shapes[name]
	if ok {
		if !bytes.Equal(existing, shape) {
			return openapi3.SchemaOrRef{}, DuplicateComponentError{Name: name}
		}
	} else {
		cs.shapes[name] = shape
		cs.spec.ComponentsEns().SchemasEns().WithMapOfSchemaOrRefValuesItem(name, node)
	}

	return openapi3.SchemaOrRef{
		SchemaReference: &openapi3.SchemaReference{
			Ref: "#/components/schemas/" + name,
		},
	}, nil
}
