// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package rest derives HTTP routing, runtime request validation and an
// OpenAPI 3.0 document from a single set of controller and route
// declarations.
//
// Routes are declared by convention: naming a route index, show,
// create, update, patch or destroy fixes its verb, path suffix and
// default success status. Everything a route declares (body, path and
// query schemas, tags, security schemes, visibility) feeds both the
// runtime behavior and the generated document, so the two cannot
// drift apart.
//
//	users := rest.NewController(
//	    "/api/users",
//	    rest.Tags("Users"),
//	    rest.Index(
//	        rest.Query(schema.PageParams()),
//	        rest.Response(schema.EnvelopeOf[User]("UserPage")),
//	        rest.Handle(listUsers),
//	    ),
//	    rest.Show(
//	        rest.Params(schema.IDParams()),
//	        rest.Response(schema.Named[User]("User")),
//	        rest.Handle(getUser),
//	    ),
//	)
//
//	h, err := rest.NewHandler(cfg, rest.NewSynthesizer(users))
package rest
