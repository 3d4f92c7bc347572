// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package options resolves component options from several sources.
//
// A Schema defines the options of a component. Schemas compose: a
// component's schema is its base schema overridden by its own
// definitions, flattened into one table.
//
// A Context resolves the options of one component instance, such as
// the second ortho axis. Sources are consulted in a fixed order:
//
//  1. fixed values, set by the component itself or by Specify
//  2. V1 compatibility values
//  3. the per-name override, such as "orthoAxisFixedMin"
//  4. the per-id override, such as "ortho2AxisFixedMin"
//  5. the naked name, such as "axisFixedMin"
//  6. the default of the option definition, possibly replaced with
//     Defaults
//
// A value that cannot be cast to the option's type is ignored with a
// warning, and resolution continues with the next source.
package options

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// A Def defines one option.
type Def struct {
	Name    string
	Default any

	// Cast converts a source value to the option's type. If nil,
	// values are used as is.
	Cast func(v any) (any, error)
}

// A Schema is a flat table of option definitions by name.
type Schema map[string]Def

// NewSchema returns a schema of defs. Later definitions of a name
// replace earlier ones.
func NewSchema(defs ...Def) Schema {
	s := make(Schema, len(defs))
	for _, d := range defs {
		s[d.Name] = d
	}
	return s
}

// Compose returns base overridden by override. An override without
// a Cast keeps the base's Cast.
func Compose(base, override Schema) Schema {
	s := maps.Clone(base)
	if s == nil {
		s = make(Schema, len(override))
	}
	for name, d := range override {
		if b, ok := s[name]; ok && d.Cast == nil {
			d.Cast = b.Cast
		}
		s[name] = d
	}
	return s
}

// Names returns the option names in sorted order.
func (s Schema) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// Sources holds the option values a Context resolves from.
type Sources struct {
	Fixed map[string]any
	V1    map[string]any

	// Chart holds the chart options, keyed by prefixed names.
	Chart map[string]any
}

// A Context resolves the options of one component instance.
type Context struct {
	schema   Schema
	src      Sources
	prefixes []string // per-name, per-id, naked

	specified map[string]any
	defaults  map[string]any
	cache     map[string]any
	log       *zap.SugaredLogger
}

// ContextOptions names a component instance.
type ContextOptions struct {
	// Name, ID and Naked are the option name prefixes of the
	// instance, such as "ortho", "ortho2" and "" for the second
	// ortho axis. Suffix is appended to each, such as "Axis".
	Name, ID, Naked string
	Suffix          string

	Logger *zap.SugaredLogger
}

// NewContext returns a resolution context for schema.
func NewContext(schema Schema, src Sources, opts ContextOptions) *Context {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	c := &Context{schema: schema, src: src, log: opts.Logger}
	seen := make(map[string]bool)
	for _, p := range []string{opts.Name, opts.ID, opts.Naked} {
		p = prefix(p, opts.Suffix)
		if !seen[p] {
			seen[p] = true
			c.prefixes = append(c.prefixes, p)
		}
	}
	return c
}

func prefix(p, suffix string) string {
	if p == "" {
		return strings.ToLower(suffix[:min(1, len(suffix))]) + suffix[min(1, len(suffix)):]
	}
	return p + suffix
}

// Has reports whether the schema defines option name.
func (c *Context) Has(name string) bool {
	_, ok := c.schema[name]
	return ok
}

func (c *Context) def(name string) Def {
	d, ok := c.schema[name]
	if !ok {
		panic(fmt.Sprintf("undefined option %q", name))
	}
	return d
}

// Option returns the resolved value of option name. It panics if the
// option is not defined.
func (c *Context) Option(name string) any {
	if v, ok := c.cache[name]; ok {
		return v
	}
	v, _ := c.resolve(name)
	if c.cache == nil {
		c.cache = make(map[string]any)
	}
	c.cache[name] = v
	return v
}

// IsSpecified reports whether option name has a value from a source
// other than its default.
func (c *Context) IsSpecified(name string) bool {
	_, specified := c.resolve(name)
	return specified
}

func (c *Context) resolve(name string) (any, bool) {
	d := c.def(name)
	try := func(src string, m map[string]any, key string) (any, bool) {
		raw, ok := m[key]
		if !ok || raw == nil {
			return nil, false
		}
		if d.Cast == nil {
			return raw, true
		}
		v, err := d.Cast(raw)
		if err != nil {
			c.log.Warnw("invalid option value", "option", key, "source", src, "value", raw, "error", err)
			return nil, false
		}
		return v, true
	}
	if v, ok := try("specified", c.specified, name); ok {
		return v, true
	}
	if v, ok := try("fixed", c.src.Fixed, name); ok {
		return v, true
	}
	if v, ok := try("v1", c.src.V1, name); ok {
		return v, true
	}
	for _, p := range c.prefixes {
		if v, ok := try("chart", c.src.Chart, p+name); ok {
			return v, true
		}
	}
	if v, ok := c.defaults[name]; ok {
		return v, false
	}
	return d.Default, false
}

// Specify forces option name to v, ahead of every source.
func (c *Context) Specify(name string, v any) {
	c.def(name)
	if c.specified == nil {
		c.specified = make(map[string]any)
	}
	c.specified[name] = v
	delete(c.cache, name)
}

// Defaults replaces the default of option name. It has no effect on
// specified options.
func (c *Context) Defaults(name string, v any) {
	c.def(name)
	if c.defaults == nil {
		c.defaults = make(map[string]any)
	}
	c.defaults[name] = v
	delete(c.cache, name)
}

// Float returns option name as a float64. ok is false if the option
// is nil or not a number.
func (c *Context) Float(name string) (f float64, ok bool) {
	f, ok = c.Option(name).(float64)
	return
}

// Bool returns option name as a bool.
func (c *Context) Bool(name string) bool {
	b, _ := c.Option(name).(bool)
	return b
}

// String returns option name as a string.
func (c *Context) String(name string) string {
	s, _ := c.Option(name).(string)
	return s
}

// CastFloat converts numbers and numeric strings to float64.
func CastFloat(v any) (any, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	return nil, fmt.Errorf("not a number: %v", v)
}

// CastBool converts booleans and boolean strings to bool.
func CastBool(v any) (any, error) {
	switch v := v.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	}
	return nil, fmt.Errorf("not a boolean: %v", v)
}

// CastString converts any value to its string form.
func CastString(v any) (any, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

// CastEnum returns a cast that accepts the given values,
// case-insensitively, and returns them in their canonical case.
func CastEnum(values ...string) func(any) (any, error) {
	return func(v any) (any, error) {
		s, ok := v.(string)
		if ok {
			for _, e := range values {
				if strings.EqualFold(s, e) {
					return e, nil
				}
			}
		}
		return nil, fmt.Errorf("%v is not one of %s", v, strings.Join(values, ", "))
	}
}
