// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Issue describes a single request validation failure.
type Issue struct {
	// Path locates the failing value within the payload. Empty for
	// failures of the payload as a whole, e.g. malformed JSON.
	Path string `json:"path"`

	Message string `json:"message" required:"true"`

	// Constraint names the violated rule, e.g. "required" or "max".
	Constraint string `json:"constraint"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query", "path"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

func checkStruct(v any) []Issue {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	// Non-struct definitions carry no validate tags.
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Issue{{
			Message:    err.Error(),
			Constraint: "struct",
		}}
	}

	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, Issue{
			Path:       issuePath(fe.Namespace()),
			Message:    issueMessage(fe),
			Constraint: fe.Tag(),
		})
	}
	return issues
}

// issuePath strips the root type name from a validator namespace,
// e.g. "CreateUserRequest.profile.email" becomes "profile.email".
func issuePath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "email":
		return "must be a valid email address"
	default:
		return "failed the " + fe.Tag() + " constraint"
	}
}
