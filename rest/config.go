// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"strings"

	"github.com/spf13/viper"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
)

// Default serving paths for the document endpoints.
const (
	DefaultDocsPath = "/api/docs"
	DefaultJSONPath = "/api/openapi.json"
)

// Config is the base document configuration. It is supplied once at
// assembly time; per-request deviations go through [RequestConfig].
type Config struct {
	Title       string `mapstructure:"title"`
	Version     string `mapstructure:"version"`
	Description string `mapstructure:"description"`

	// DocsPath serves the interactive viewer, JSONPath the document
	// itself.
	DocsPath string `mapstructure:"docs_path"`
	JSONPath string `mapstructure:"json_path"`

	// SecuritySchemes holds the definitions referenced by name from
	// [Security] options. The three built-in schemes are always
	// present; entries here are added to, or replace, them.
	SecuritySchemes map[string]openapi3.SecurityScheme `mapstructure:"-"`

	// RouteFilter is the dynamic visibility predicate. Nil accepts
	// every path.
	RouteFilter RouteFilter `mapstructure:"-"`
}

func (c Config) withDefaults() Config {
	if c.DocsPath == "" {
		c.DocsPath = DefaultDocsPath
	}
	if c.JSONPath == "" {
		c.JSONPath = DefaultJSONPath
	}

	schemes := defaultSecuritySchemes()
	for name, scheme := range c.SecuritySchemes {
		schemes[name] = scheme
	}
	c.SecuritySchemes = schemes
	return c
}

// The three always-present security schemes: bearer token, header API
// key and cookie session.
func defaultSecuritySchemes() map[string]openapi3.SecurityScheme {
	return map[string]openapi3.SecurityScheme{
		"bearerAuth": {
			HTTPSecurityScheme: &openapi3.HTTPSecurityScheme{
				Scheme:       "bearer",
				BearerFormat: ptr.Ref("JWT"),
			},
		},
		"apiKey": {
			APIKeySecurityScheme: &openapi3.APIKeySecurityScheme{
				Name: "X-API-Key",
				In:   openapi3.APIKeySecuritySchemeIn("header"),
			},
		},
		SessionSchemeName: {
			APIKeySecurityScheme: &openapi3.APIKeySecurityScheme{
				Name: "session_id",
				In:   openapi3.APIKeySecuritySchemeIn("cookie"),
			},
		},
	}
}

// LoadConfig reads the base configuration from a YAML file.
// STENCIL_ prefixed environment variables take precedence over file
// values, e.g. STENCIL_DOCS_PATH overrides docs_path.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("title", "API")
	v.SetDefault("version", "v0.0.0")
	v.SetDefault("docs_path", DefaultDocsPath)
	v.SetDefault("json_path", DefaultJSONPath)

	v.SetEnvPrefix("STENCIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	err = v.Unmarshal(&cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
