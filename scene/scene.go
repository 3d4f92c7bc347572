// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene implements the scene trees handed to a renderer.
//
// A Scene is a node bound to a group of datums (a cdo.Data) or to a
// single datum. It carries named variables, each holding the value
// and label of a visual role for that scene. Variables may be
// computed lazily; a computed variable is stored on the scene, so
// later lookups are free. Lookups of variables a scene does not have
// continue in its parent.
package scene

import (
	"fmt"
	"sync/atomic"

	"github.com/webdetails/ccc-sub011/cdo"
)

var lastID atomic.Int64

// A Scene is a node of a scene tree.
type Scene struct {
	id       int
	parent   *Scene
	children []*Scene

	group *cdo.Data
	datum *cdo.Datum

	vars     map[string]*Var
	lazy     map[string]func(*Scene) *Var
	disposed bool
}

// New returns a scene bound to group or, if group is nil, to datum.
// If parent is non-nil, the scene is appended to its children.
func New(parent *Scene, group *cdo.Data, datum *cdo.Datum) *Scene {
	s := &Scene{
		id:     int(lastID.Add(1)),
		parent: parent,
		group:  group,
		datum:  datum,
		vars:   make(map[string]*Var),
	}
	if parent != nil {
		parent.checkAlive()
		parent.children = append(parent.children, s)
	}
	return s
}

func (s *Scene) checkAlive() {
	if s.disposed {
		panic(fmt.Sprintf("scene %d is disposed", s.id))
	}
}

func (s *Scene) ID() int            { return s.id }
func (s *Scene) Parent() *Scene     { return s.parent }
func (s *Scene) Children() []*Scene { return s.children }
func (s *Scene) Group() *cdo.Data   { return s.group }
func (s *Scene) IsLeaf() bool       { return len(s.children) == 0 }
func (s *Scene) IsDisposed() bool   { return s.disposed }
func (s *Scene) ChildIndex() int    { return indexOf(s.parent, s) }
func (s *Scene) String() string     { return fmt.Sprintf("Scene#%d", s.id) }

func indexOf(parent *Scene, s *Scene) int {
	if parent == nil {
		return -1
	}
	for i, c := range parent.children {
		if c == s {
			return i
		}
	}
	return -1
}

// Root returns the root of s's tree.
func (s *Scene) Root() *Scene {
	for s.parent != nil {
		s = s.parent
	}
	return s
}

// Datum returns the scene's primary datum: its own datum or the
// first datum of its group, preferring non-null ones.
func (s *Scene) Datum() *cdo.Datum {
	if s.datum != nil {
		return s.datum
	}
	if s.group != nil {
		return s.group.FirstDatum()
	}
	return nil
}

// Datums returns the datums of the scene's group, or its datum.
func (s *Scene) Datums() []*cdo.Datum {
	s.checkAlive()
	switch {
	case s.group != nil:
		return s.group.Datums()
	case s.datum != nil:
		return []*cdo.Datum{s.datum}
	}
	return nil
}

// SetVar sets the scene's own variable name.
func (s *Scene) SetVar(name string, v *Var) {
	s.checkAlive()
	s.vars[name] = v
	delete(s.lazy, name)
}

// SetLazyVar arranges for variable name to be computed by f on first
// access. The result is stored as an own variable.
func (s *Scene) SetLazyVar(name string, f func(*Scene) *Var) {
	s.checkAlive()
	if s.lazy == nil {
		s.lazy = make(map[string]func(*Scene) *Var)
	}
	s.lazy[name] = f
	delete(s.vars, name)
}

// HasOwnVar reports whether s itself has variable name, computed or
// not.
func (s *Scene) HasOwnVar(name string) bool {
	s.checkAlive()
	if _, ok := s.vars[name]; ok {
		return true
	}
	_, ok := s.lazy[name]
	return ok
}

// OwnVar returns s's own variable name, computing it if needed.
func (s *Scene) OwnVar(name string) (*Var, bool) {
	s.checkAlive()
	if v, ok := s.vars[name]; ok {
		return v, true
	}
	f, ok := s.lazy[name]
	if !ok {
		return nil, false
	}
	delete(s.lazy, name)
	v := f(s)
	s.vars[name] = v
	return v, true
}

// Var returns variable name of s or of its nearest ancestor that has
// it, or nil.
func (s *Scene) Var(name string) *Var {
	for ; s != nil; s = s.parent {
		if v, ok := s.OwnVar(name); ok {
			return v
		}
	}
	return nil
}

// Value returns the value of variable name, or nil.
func (s *Scene) Value(name string) any {
	if v := s.Var(name); v != nil {
		return v.Value
	}
	return nil
}

// Walk calls f for s and its descendants in pre-order.
func (s *Scene) Walk(f func(*Scene)) {
	f(s)
	for _, c := range s.children {
		c.Walk(f)
	}
}

// Leaves returns the leaf scenes below s, in order.
func (s *Scene) Leaves() []*Scene {
	var out []*Scene
	s.Walk(func(c *Scene) {
		if c.IsLeaf() {
			out = append(out, c)
		}
	})
	return out
}

// Dispose releases s and its descendants. Using a disposed scene
// panics.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}
	for _, c := range s.children {
		c.Dispose()
	}
	s.disposed = true
	s.vars = nil
	s.lazy = nil
}
