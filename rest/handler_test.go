// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/z5labs/stencil/schema"

	"github.com/stretchr/testify/require"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
)

func usersController() *Controller {
	return NewController(
		"/api/users",
		Tags("Users"),
		Index(
			Response(schema.EnvelopeOf[testUser]("UserPage")),
			Handle(HandlerFunc(func(ctx context.Context, req *Request) (any, error) {
				return schema.Envelope[testUser]{
					Data: []testUser{
						{ID: "0f8fad5b-d9cb-469f-a165-70867728950e", Name: "ada"},
					},
					Pagination: schema.Pagination{Page: 1, Limit: 20, Total: 1},
				}, nil
			})),
		),
		Show(
			Params(schema.IDParams()),
			Response(schema.Named[testUser]("User")),
			Handle(HandlerFunc(func(ctx context.Context, req *Request) (any, error) {
				params := req.Params.(*schema.IDPathParams)
				if params.ID != "0f8fad5b-d9cb-469f-a165-70867728950e" {
					return nil, NotFoundError("no such user")
				}
				return testUser{ID: params.ID, Name: "ada"}, nil
			})),
		),
		Create(
			Body(schema.Of[testUserInput]()),
			Response(schema.Named[testUser]("User")),
			Handle(HandlerFunc(func(ctx context.Context, req *Request) (any, error) {
				input := req.Body.(*testUserInput)
				return testUser{ID: "f1d4c2e0-0000-4000-8000-000000000001", Name: input.Name}, nil
			})),
		),
	)
}

func serveHandler(t *testing.T, cfg Config, s *Synthesizer, opts ...HandlerOption) *httptest.Server {
	t.Helper()

	h, err := NewHandler(cfg, s, opts...)
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func TestNewHandler_Document(t *testing.T) {
	t.Run("serves the docs page embedding the document url", func(t *testing.T) {
		srv := serveHandler(t, testConfig(), NewSynthesizer(usersController()))

		resp, err := http.Get(srv.URL + DefaultDocsPath)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, resp.Header.Get("Content-Type"), "text/html")

		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Contains(t, string(b), DefaultJSONPath)
	})

	t.Run("serves the assembled document as json", func(t *testing.T) {
		srv := serveHandler(t, testConfig(), NewSynthesizer(usersController()))

		var doc struct {
			Openapi string `json:"openapi"`
			Info    struct {
				Title   string `json:"title"`
				Version string `json:"version"`
			} `json:"info"`
			Paths map[string]json.RawMessage `json:"paths"`
		}
		resp := getJSON(t, srv.URL+DefaultJSONPath, &doc)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "3.0.3", doc.Openapi)
		require.Equal(t, "Users API", doc.Info.Title)
		require.Contains(t, doc.Paths, "/api/users")
		require.Contains(t, doc.Paths, "/api/users/{id}")
	})

	t.Run("the dynamic filter prunes paths per request", func(t *testing.T) {
		cfg := testConfig()
		cfg.RouteFilter = func(path string, item openapi3.PathItem) bool {
			return !strings.Contains(path, "{id}")
		}

		srv := serveHandler(t, cfg, NewSynthesizer(usersController()))

		var doc struct {
			Paths map[string]json.RawMessage `json:"paths"`
		}
		getJSON(t, srv.URL+DefaultJSONPath, &doc)

		require.Contains(t, doc.Paths, "/api/users")
		require.NotContains(t, doc.Paths, "/api/users/{id}")

		// The filtered route is still mounted and served.
		resp, err := http.Get(srv.URL + "/api/users/0f8fad5b-d9cb-469f-a165-70867728950e")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("a panicking filter omits only the offending path", func(t *testing.T) {
		cfg := testConfig()
		cfg.RouteFilter = func(path string, item openapi3.PathItem) bool {
			if strings.Contains(path, "{id}") {
				panic("filter blew up")
			}
			return true
		}

		srv := serveHandler(t, cfg, NewSynthesizer(usersController()))

		var doc struct {
			Paths map[string]json.RawMessage `json:"paths"`
		}
		resp := getJSON(t, srv.URL+DefaultJSONPath, &doc)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, doc.Paths, "/api/users")
		require.NotContains(t, doc.Paths, "/api/users/{id}")
	})

	t.Run("middleware overrides shape only their own request", func(t *testing.T) {
		tenantTitle := func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tenant := r.Header.Get("X-Tenant"); tenant != "" {
					RequestConfigFrom(r.Context()).Override(Patch{
						Title: ptr.Ref(tenant + " API"),
					})
				}
				next.ServeHTTP(w, r)
			})
		}

		srv := serveHandler(t, testConfig(), NewSynthesizer(usersController()), Middleware(tenantTitle))

		req, err := http.NewRequest(http.MethodGet, srv.URL+DefaultJSONPath, nil)
		require.NoError(t, err)
		req.Header.Set("X-Tenant", "Acme")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		var doc struct {
			Info struct {
				Title string `json:"title"`
			} `json:"info"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
		require.Equal(t, "Acme API", doc.Info.Title)

		// A request without the override sees the base title.
		var base struct {
			Info struct {
				Title string `json:"title"`
			} `json:"info"`
		}
		getJSON(t, srv.URL+DefaultJSONPath, &base)
		require.Equal(t, "Users API", base.Info.Title)
	})

	t.Run("fails startup on an unassemblable registration", func(t *testing.T) {
		s := NewSynthesizer(NewController("/api/users", Index()))

		_, err := NewHandler(testConfig(), s)

		var merr MissingResponseSchemaError
		require.ErrorAs(t, err, &merr)
	})
}

func TestNewHandler_Routes(t *testing.T) {
	t.Run("serves the index with its success status", func(t *testing.T) {
		srv := serveHandler(t, testConfig(), NewSynthesizer(usersController()))

		var envelope schema.Envelope[testUser]
		resp := getJSON(t, srv.URL+"/api/users", &envelope)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, envelope.Data, 1)
		require.Equal(t, "ada", envelope.Data[0].Name)
	})

	t.Run("create responds with 201", func(t *testing.T) {
		srv := serveHandler(t, testConfig(), NewSynthesizer(usersController()))

		resp, err := http.Post(srv.URL+"/api/users", "application/json", strings.NewReader(`{"name": "grace"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created testUser
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
		require.Equal(t, "grace", created.Name)
	})

	t.Run("rejects an invalid path parameter", func(t *testing.T) {
		srv := serveHandler(t, testConfig(), NewSynthesizer(usersController()))

		var ve schema.ValidationError
		resp := getJSON(t, srv.URL+"/api/users/not-a-uuid", &ve)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "invalid_request", ve.Code)
		require.Len(t, ve.Issues, 1)
		require.Equal(t, "id", ve.Issues[0].Path)
		require.Equal(t, "uuid", ve.Issues[0].Constraint)
	})

	t.Run("rejects an invalid body", func(t *testing.T) {
		srv := serveHandler(t, testConfig(), NewSynthesizer(usersController()))

		resp, err := http.Post(srv.URL+"/api/users", "application/json", strings.NewReader(`{}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var ve schema.ValidationError
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&ve))
		require.Len(t, ve.Issues, 1)
		require.Equal(t, "name", ve.Issues[0].Path)
		require.Equal(t, "required", ve.Issues[0].Constraint)
	})

	t.Run("rejects a non-json content type", func(t *testing.T) {
		srv := serveHandler(t, testConfig(), NewSynthesizer(usersController()))

		resp, err := http.Post(srv.URL+"/api/users", "text/plain", strings.NewReader(`name=grace`))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var ve schema.ValidationError
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&ve))
		require.Len(t, ve.Issues, 1)
		require.Equal(t, "content-type", ve.Issues[0].Constraint)
	})

	t.Run("maps handler errors onto the error payload", func(t *testing.T) {
		srv := serveHandler(t, testConfig(), NewSynthesizer(usersController()))

		var payload schema.Error
		resp := getJSON(t, srv.URL+"/api/users/9b2e7e4e-9f11-4f9c-9d3e-000000000000", &payload)

		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.NotEmpty(t, resp.Header.Get("X-Request-Id"))
		require.Equal(t, "not_found", payload.Code)
		require.Equal(t, "no such user", payload.Message)
		require.Equal(t, resp.Header.Get("X-Request-Id"), payload.Metadata["request_id"])
	})

	t.Run("recovers a panicking handler into a 500", func(t *testing.T) {
		boom := NewController(
			"/api/boom",
			Index(
				Response(schema.MessageSchema),
				Handle(HandlerFunc(func(ctx context.Context, req *Request) (any, error) {
					panic("handler blew up")
				})),
			),
		)

		srv := serveHandler(t, testConfig(), NewSynthesizer(boom))

		var payload schema.Error
		resp := getJSON(t, srv.URL+"/api/boom", &payload)

		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.Equal(t, "internal", payload.Code)
		require.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	})

	t.Run("documented routes without a handler are not mounted", func(t *testing.T) {
		docsOnly := NewController(
			"/api/reports",
			Index(Response(schema.MessageSchema)),
		)

		srv := serveHandler(t, testConfig(), NewSynthesizer(docsOnly))

		resp, err := http.Get(srv.URL + "/api/reports")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("a nil handler result writes only the status", func(t *testing.T) {
		users := NewController(
			"/api/users",
			Destroy(
				Params(schema.IDParams()),
				Response(schema.MessageSchema),
				Handle(HandlerFunc(func(ctx context.Context, req *Request) (any, error) {
					return nil, nil
				})),
			),
		)

		srv := serveHandler(t, testConfig(), NewSynthesizer(users))

		req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/users/0f8fad5b-d9cb-469f-a165-70867728950e", nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Empty(t, b)
	})
}
