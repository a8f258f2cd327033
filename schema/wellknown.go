// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"time"

	"github.com/google/uuid"
)

// IDPathParams is the built-in shape for routes addressing a single
// resource by UUID path parameter.
type IDPathParams struct {
	ID string `path:"id" json:"id" required:"true" format:"uuid" validate:"required,uuid"`
}

// UUID returns the parsed id. The value is guaranteed parseable after
// a successful [Parameters.Validate].
func (p IDPathParams) UUID() (uuid.UUID, error) {
	return uuid.Parse(p.ID)
}

// IDParams returns the built-in UUID path parameter set.
func IDParams() Parameters {
	return PathParams[IDPathParams]()
}

// PageQuery is the built-in page/limit pagination query shape.
type PageQuery struct {
	Page  int `query:"page" json:"page" default:"1" minimum:"1" validate:"min=1"`
	Limit int `query:"limit" json:"limit" default:"20" minimum:"1" maximum:"100" validate:"min=1,max=100"`
}

// PageParams returns the built-in pagination query parameter set.
func PageParams() Parameters {
	return QueryParams[PageQuery]()
}

// Message is the generic success payload.
type Message struct {
	Message string `json:"message" required:"true" validate:"required"`
}

// Error is the standard error payload returned for all non-validation
// failures.
type Error struct {
	Code      string         `json:"code" required:"true" validate:"required"`
	Message   string         `json:"message" required:"true" validate:"required"`
	Timestamp time.Time      `json:"timestamp" required:"true" validate:"required"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ValidationError is the standard 400 payload: [Error] plus the
// individual validation issues.
type ValidationError struct {
	Error
	Issues []Issue `json:"issues" required:"true" validate:"required"`
}

// Pagination describes the position of one page within a collection.
type Pagination struct {
	Page  int `json:"page" required:"true"`
	Limit int `json:"limit" required:"true"`
	Total int `json:"total" required:"true"`
}

// Envelope wraps a page of items with its pagination metadata.
type Envelope[T any] struct {
	Data       []T        `json:"data" required:"true" validate:"required"`
	Pagination Pagination `json:"pagination" required:"true"`
}

// EnvelopeOf returns the named component schema for a {data, pagination}
// envelope around the given item type.
func EnvelopeOf[T any](name string) Schema {
	return Named[Envelope[T]](name)
}

// Built-in reusable components. Collaborators referencing these from
// their own routes share a single definition in the document.
var (
	MessageSchema         = Named[Message]("Message")
	ErrorSchema           = Named[Error]("Error")
	ValidationErrorSchema = Named[ValidationError]("ValidationError")
)
