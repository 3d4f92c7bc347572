// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axis

import (
	"fmt"

	"github.com/webdetails/ccc-sub011/cdo"
	"github.com/webdetails/ccc-sub011/scene"
)

// SceneScaleOptions configures Axis.SceneScale.
type SceneScaleOptions struct {
	// VarName is the scene variable to scale. It defaults to the
	// name of the axis's first role.
	VarName string

	// NullToZero maps null values of numeric roles as 0. Default
	// true.
	NullToZero *bool
}

// A SceneScale maps scenes through an axis scale. The embedded Scale
// exposes the domain and range.
type SceneScale struct {
	Scale

	varName    string
	nullToZero bool
	fast       bool
}

// SceneScale returns a scale of scenes through a's current scale.
func (a *Axis) SceneScale(opts SceneScaleOptions) *SceneScale {
	if a.scale == nil {
		panic(fmt.Sprintf("%s has no scale", a))
	}
	role := a.Role()
	if opts.VarName == "" && role != nil {
		opts.VarName = role.Name()
	}
	s := &SceneScale{Scale: a.scale, varName: opts.VarName, nullToZero: true}
	if opts.NullToZero != nil {
		s.nullToZero = *opts.NullToZero
	}
	if role != nil {
		g := role.Grouping()
		s.fast = g.IsSingleDimension() && role.IsNumeric()
	}
	return s
}

// VarName returns the scaled variable name.
func (s *SceneScale) VarName() string { return s.varName }

// Apply returns the scaled value of sc's variable, or nil.
func (s *SceneScale) Apply(sc *scene.Scene) any {
	v := sc.Var(s.varName)
	if s.fast {
		var x any
		if v != nil {
			x = v.Value
		}
		if x == nil {
			if !s.nullToZero {
				return nil
			}
			x = 0.0
		}
		return s.Scale.Map(x)
	}
	if v == nil {
		return nil
	}
	return s.Scale.Map(v)
}

// ApplyDatum scales the atom of dimension dim of dt.
func (s *SceneScale) ApplyDatum(dt *cdo.Datum, dim string) any {
	return s.Scale.Map(dt.Atom(dim))
}
