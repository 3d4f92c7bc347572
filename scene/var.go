// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "github.com/webdetails/ccc-sub011/cdo"

// A Var is the value of a visual role on a scene.
type Var struct {
	Value    any
	RawValue any
	Key      string
	Label    string

	// Percent, if non-nil, is the share of Value in its parent
	// group.
	Percent *Var
}

// NullVar returns a new null variable.
func NullVar() *Var { return &Var{} }

// IsNull reports whether v has no value.
func (v *Var) IsNull() bool { return v == nil || v.Value == nil }

// Clone returns a copy of v, including its percent sub-variable.
func (v *Var) Clone() *Var {
	c := *v
	if v.Percent != nil {
		c.Percent = v.Percent.Clone()
	}
	return &c
}

// AtomVar returns a variable holding a.
func AtomVar(a *cdo.Atom) *Var {
	return &Var{Value: a.Value, RawValue: a.RawValue, Key: a.Key, Label: a.Label}
}

// ComplexVar returns a variable holding the value of c.
func ComplexVar(c *cdo.Complex) *Var {
	return &Var{Value: c.Value(), RawValue: c.RawValue(), Key: c.Key(), Label: c.Label()}
}

// NumberVar returns a variable holding f, labeled with format.
func NumberVar(f float64, format func(float64) string) *Var {
	if format == nil {
		format = cdo.FormatNumber
	}
	return &Var{Value: f, RawValue: f, Key: cdo.FormatNumberKey(f), Label: format(f)}
}

func (v *Var) String() string {
	if v.IsNull() {
		return "null"
	}
	return v.Label
}
