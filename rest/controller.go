// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import "github.com/z5labs/sdk-go/ptr"

// Controller declares a base path together with the routes and
// metadata registered on it. Controllers are built once at application
// assembly time and are immutable afterwards.
type Controller struct {
	basePath string
	tags     []string
	security []string // nil means unset
	hidden   *bool
	guards   []string
	routes   []*Route
}

// ControllerOption configures a [Controller] during [NewController].
type ControllerOption interface {
	ApplyControllerOption(*Controller)
}

type controllerOptionFunc func(*Controller)

func (f controllerOptionFunc) ApplyControllerOption(c *Controller) {
	f(c)
}

// NewController declares a controller rooted at basePath. Routes are
// registered by passing [Index], [Show], [Create], [Update], [PatchRoute],
// [Destroy] or [Custom] options.
//
// Example:
//
//	users := rest.NewController(
//	    "/api/users",
//	    rest.Tags("Users"),
//	    rest.Index(rest.Response(schema.EnvelopeOf[User]("UserPage"))),
//	    rest.Show(rest.Params(schema.IDParams()), rest.Response(schema.Named[User]("User"))),
//	)
func NewController(basePath string, opts ...ControllerOption) *Controller {
	c := &Controller{
		basePath: basePath,
	}
	for _, opt := range opts {
		opt.ApplyControllerOption(c)
	}
	return c
}

// BasePath returns the controller's base path.
func (c *Controller) BasePath() string {
	return c.basePath
}

// Option configures either a [Controller] or a [Route]. Route level
// values take precedence over, or merge with, controller level values
// according to each option's documented rule.
type Option interface {
	ControllerOption
	RouteOption
}

type tagsOption []string

func (o tagsOption) ApplyControllerOption(c *Controller) {
	c.tags = append(c.tags, o...)
}

func (o tagsOption) ApplyRouteOption(r *Route) {
	r.tags = append(r.tags, o...)
}

// Tags appends document tags. A route's effective tag list is its
// controller's tags followed by its own, duplicates retained.
func Tags(names ...string) Option {
	return tagsOption(names)
}

type securityOption []string

func (o securityOption) ApplyControllerOption(c *Controller) {
	c.security = append([]string{}, o...)
}

func (o securityOption) ApplyRouteOption(r *Route) {
	r.security = append([]string{}, o...)
}

// Security sets the security scheme names, by reference into the
// configured scheme definitions. Setting it on a route appends to the
// inherited controller schemes; an explicitly empty route list adds
// nothing but does not clear inherited schemes.
func Security(names ...string) Option {
	return securityOption(names)
}

type hiddenOption struct {
	hidden bool
}

func (o hiddenOption) ApplyControllerOption(c *Controller) {
	c.hidden = ptr.Ref(o.hidden)
}

func (o hiddenOption) ApplyRouteOption(r *Route) {
	r.hidden = ptr.Ref(o.hidden)
}

// Hide excludes the controller or route from the served document.
// Hidden routes are still mounted and served.
func Hide() Option {
	return hiddenOption{hidden: true}
}

// Visible includes the route in the document even when its controller
// is hidden. An explicitly set route flag always wins over the
// controller's.
func Visible() Option {
	return hiddenOption{hidden: false}
}

type guardOption []string

func (o guardOption) ApplyControllerOption(c *Controller) {
	c.guards = append(c.guards, o...)
}

func (o guardOption) ApplyRouteOption(r *Route) {
	r.guards = append(r.guards, o...)
}

// Guard records access guard references. Guard identifiers are opaque
// here: their only effect is appending the session security scheme to
// guarded routes which do not already list it.
func Guard(refs ...string) Option {
	return guardOption(refs)
}
