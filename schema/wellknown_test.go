// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestErrorSchema(t *testing.T) {
	t.Run("is the registered Error component", func(t *testing.T) {
		require.Equal(t, "Error", ErrorSchema.Name())
	})

	t.Run("requires code, message and timestamp", func(t *testing.T) {
		node, err := ErrorSchema.DocumentNode()
		require.NoError(t, err)

		require.Contains(t, node.Schema.Required, "code")
		require.Contains(t, node.Schema.Required, "message")
		require.Contains(t, node.Schema.Required, "timestamp")
		require.NotContains(t, node.Schema.Required, "metadata")
	})
}

func TestValidationErrorSchema(t *testing.T) {
	t.Run("flattens the embedded error shape", func(t *testing.T) {
		node, err := ValidationErrorSchema.DocumentNode()
		require.NoError(t, err)

		require.Contains(t, node.Schema.Properties, "code")
		require.Contains(t, node.Schema.Properties, "issues")
	})

	t.Run("round trips through its validator", func(t *testing.T) {
		payload := `{
			"code": "invalid_request",
			"message": "request validation failed",
			"timestamp": "` + time.Now().UTC().Format(time.RFC3339) + `",
			"issues": [{"path": "name", "message": "is required", "constraint": "required"}]
		}`

		v, issues := ValidationErrorSchema.Validate(strings.NewReader(payload))
		require.Empty(t, issues)

		ve, ok := v.(*ValidationError)
		require.True(t, ok)
		require.Equal(t, "invalid_request", ve.Code)
		require.Len(t, ve.Issues, 1)
	})
}

func TestEnvelopeOf(t *testing.T) {
	type item struct {
		Name string `json:"name" required:"true"`
	}

	t.Run("wraps the item schema with data and pagination", func(t *testing.T) {
		s := EnvelopeOf[item]("ItemPage")
		require.Equal(t, "ItemPage", s.Name())

		node, err := s.DocumentNode()
		require.NoError(t, err)

		require.Contains(t, node.Schema.Properties, "data")
		require.Contains(t, node.Schema.Properties, "pagination")
		require.Contains(t, node.Schema.Required, "data")
	})

	t.Run("validates the wrapped items", func(t *testing.T) {
		s := EnvelopeOf[item]("ItemPage")

		v, issues := s.Validate(strings.NewReader(`{
			"data": [{"name": "gear"}],
			"pagination": {"page": 1, "limit": 20, "total": 1}
		}`))
		require.Empty(t, issues)

		env, ok := v.(*Envelope[item])
		require.True(t, ok)
		require.Len(t, env.Data, 1)
		require.Equal(t, 1, env.Pagination.Total)
	})
}
