// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visrole

import (
	"github.com/webdetails/ccc-sub011/cdo"
	"github.com/webdetails/ccc-sub011/scene"
)

// VarHelperOptions configures a VarHelper.
type VarHelperOptions struct {
	// Name is the scene variable name. It defaults to the role
	// name.
	Name string

	// HasPercentSubVar adds a percent sub-variable to numeric
	// variables.
	HasPercentSubVar bool

	// AllowNestedVars computes the variable on every scene, not
	// only on leaf scenes.
	AllowNestedVars bool

	// Format formats numeric values. Default cdo.FormatNumber.
	Format func(float64) string
}

// A VarHelper places the variable of a role on the scenes of a scene
// tree.
//
// If the role is unbound, a null variable is placed once on the root
// scene and found by every other scene through variable fallback.
// Otherwise, the variable of each scene is computed on first access.
type VarHelper struct {
	role  *Role
	opts  VarHelperOptions
	bound bool
}

// NewVarHelper returns a helper for role on the tree rooted at root.
// role may be nil.
func NewVarHelper(root *scene.Scene, role *Role, opts VarHelperOptions) *VarHelper {
	if opts.Name == "" && role != nil {
		opts.Name = role.Name()
	}
	if opts.Format == nil {
		opts.Format = cdo.FormatNumber
	}
	h := &VarHelper{role: role, opts: opts, bound: role != nil && role.IsBound()}
	if !h.bound {
		root.SetVar(opts.Name, scene.NullVar())
	}
	return h
}

// Name returns the variable name.
func (h *VarHelper) Name() string { return h.opts.Name }

// IsBound reports whether the helper computes variables.
func (h *VarHelper) IsBound() bool { return h.bound }

// OnNewScene arranges for the variable of s to be computed lazily.
func (h *VarHelper) OnNewScene(s *scene.Scene, isLeaf bool) {
	if !h.bound || s.HasOwnVar(h.opts.Name) {
		return
	}
	if !isLeaf && !h.opts.AllowNestedVars {
		return
	}
	s.SetLazyVar(h.opts.Name, h.compute)
}

func (h *VarHelper) compute(s *scene.Scene) *scene.Var {
	if src := h.role.SourceRole(); src != nil && h.role.IsSourced() && s.HasOwnVar(src.Name()) {
		if v, ok := s.OwnVar(src.Name()); ok && v != nil {
			return v.Clone()
		}
	}
	if h.role.IsNumeric() {
		return h.numberVar(s)
	}
	return h.discreteVar(s)
}

func (h *VarHelper) numberVar(s *scene.Scene) *scene.Var {
	group := s.Group()
	if dt := singleDatum(s); dt != nil {
		a := dt.Atom(h.role.DimensionNameFor(dt))
		if a.IsNull() {
			return h.withPercent(scene.NullVar(), group, 0, false)
		}
		v := scene.AtomVar(a)
		f, _ := cdo.ToNumber(a.Value)
		return h.withPercent(v, group, f, true)
	}
	if group == nil {
		return h.withPercent(scene.NullVar(), nil, 0, false)
	}
	sum, ok := h.role.NumberValueOf(group)
	if !ok {
		return h.withPercent(scene.NullVar(), group, 0, false)
	}
	return h.withPercent(scene.NumberVar(sum, h.opts.Format), group, sum, true)
}

func (h *VarHelper) withPercent(v *scene.Var, group *cdo.Data, value float64, ok bool) *scene.Var {
	if !h.opts.HasPercentSubVar {
		return v
	}
	v.Percent = scene.NullVar()
	if !ok || group == nil {
		return v
	}
	if p, pok := h.role.PercentOf(group, value); pok {
		v.Percent = scene.NumberVar(p, cdo.FormatPercent)
	}
	return v
}

// singleDatum returns the only datum of s, or nil if s has none or
// several.
func singleDatum(s *scene.Scene) *cdo.Datum {
	if g := s.Group(); g != nil {
		if g.Count() == 1 {
			return g.Datums()[0]
		}
		return nil
	}
	return s.Datum()
}

func (h *VarHelper) discreteVar(s *scene.Scene) *scene.Var {
	dt := s.Datum()
	if dt == nil || dt.IsNull() {
		dt = nil
		for _, d := range s.Datums() {
			if !d.IsNull() {
				dt = d
				break
			}
		}
	}
	if dt == nil {
		return scene.NullVar()
	}
	names := h.role.DimensionNames()
	if len(names) == 1 || h.role.Discriminator() != "" {
		return scene.AtomVar(dt.Atom(h.role.DimensionNameFor(dt)))
	}
	return scene.ComplexVar(h.role.View(&dt.Complex))
}
