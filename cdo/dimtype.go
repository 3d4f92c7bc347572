// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cdo

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// A Comparer orders two non-null dimension values.
type Comparer func(a, b any) int

// DimensionSpec configures a dimension type. Zero fields take the
// defaults of the dimension's value type.
type DimensionSpec struct {
	Label string `yaml:"label" json:"label" toml:"label"`

	// ValueType is a value type name, see ParseValueType.
	ValueType string `yaml:"valueType" json:"valueType" toml:"valueType"`

	// IsDiscrete overrides the discreteness implied by ValueType.
	IsDiscrete *bool `yaml:"isDiscrete" json:"isDiscrete" toml:"isDiscrete"`

	IsHidden bool `yaml:"isHidden" json:"isHidden" toml:"isHidden"`

	// IsKey marks the dimension as part of the datum key.
	IsKey bool `yaml:"isKey" json:"isKey" toml:"isKey"`

	// Comparer names an order: "asc", "desc" or "none".
	Comparer string `yaml:"comparer" json:"comparer" toml:"comparer"`

	// CompareFunc, if non-nil, takes precedence over Comparer.
	CompareFunc Comparer `yaml:"-" json:"-" toml:"-"`

	// Format, if non-nil, formats non-null values into labels.
	Format func(v any) string `yaml:"-" json:"-" toml:"-"`
}

// merge returns s overridden by the non-zero fields of o.
func (s DimensionSpec) merge(o DimensionSpec) DimensionSpec {
	if o.Label != "" {
		s.Label = o.Label
	}
	if o.ValueType != "" {
		s.ValueType = o.ValueType
	}
	if o.IsDiscrete != nil {
		s.IsDiscrete = o.IsDiscrete
	}
	s.IsHidden = s.IsHidden || o.IsHidden
	s.IsKey = s.IsKey || o.IsKey
	if o.Comparer != "" {
		s.Comparer = o.Comparer
	}
	if o.CompareFunc != nil {
		s.CompareFunc = o.CompareFunc
	}
	if o.Format != nil {
		s.Format = o.Format
	}
	return s
}

func (s DimensionSpec) hasComparer() bool {
	return s.CompareFunc != nil || s.Comparer != ""
}

func (s DimensionSpec) comparer() (Comparer, error) {
	if s.CompareFunc != nil {
		return s.CompareFunc, nil
	}
	switch strings.ToLower(s.Comparer) {
	case "":
		return nil, nil
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	case "none":
		return nil, nil
	}
	return nil, fmt.Errorf("%w: unknown comparer %q", ErrArgumentInvalid, s.Comparer)
}

// A DimensionType describes one named dimension of a ComplexType.
type DimensionType struct {
	complexType *ComplexType
	index       int

	name, label string
	group       string
	groupLevel  int

	valueType  ValueType
	isDiscrete bool
	isHidden   bool
	isKey      bool

	comparer          Comparer
	comparerSpecified bool
	format            func(v any) string
}

func newDimensionType(ct *ComplexType, index int, name string, spec DimensionSpec) (*DimensionType, error) {
	vt, err := ParseValueType(spec.ValueType)
	if err != nil {
		return nil, fmt.Errorf("dimension %q: %w", name, err)
	}
	c, err := spec.comparer()
	if err != nil {
		return nil, fmt.Errorf("dimension %q: %w", name, err)
	}
	group, level := SplitGroupName(name)
	t := &DimensionType{
		complexType:       ct,
		index:             index,
		name:              name,
		label:             spec.Label,
		group:             group,
		groupLevel:        level,
		valueType:         vt,
		isDiscrete:        !vt.isContinuous(),
		isHidden:          spec.IsHidden,
		isKey:             spec.IsKey,
		comparer:          c,
		comparerSpecified: spec.hasComparer(),
		format:            spec.Format,
	}
	if spec.IsDiscrete != nil {
		t.isDiscrete = *spec.IsDiscrete
	}
	if t.label == "" {
		t.label = DefaultLabel(name)
	}
	if t.comparer == nil && !t.isDiscrete && strings.ToLower(spec.Comparer) != "none" {
		t.comparer = Ascending
	}
	return t, nil
}

func (t *DimensionType) ComplexType() *ComplexType { return t.complexType }
func (t *DimensionType) Name() string              { return t.name }
func (t *DimensionType) Label() string             { return t.label }
func (t *DimensionType) ValueType() ValueType      { return t.valueType }
func (t *DimensionType) IsDiscrete() bool          { return t.isDiscrete }
func (t *DimensionType) IsHidden() bool            { return t.isHidden }
func (t *DimensionType) IsKey() bool               { return t.isKey }

// Group returns the dimension group name, "value" for "value2".
func (t *DimensionType) Group() string { return t.group }

// GroupLevel returns the zero-based level within the group, 1 for
// "value2".
func (t *DimensionType) GroupLevel() int { return t.groupLevel }

// IsComparable reports whether the dimension has an order other than
// the order in which its atoms were interned.
func (t *DimensionType) IsComparable() bool { return t.comparer != nil }

// IsComparerSpecified reports whether a comparer was configured for
// the dimension or its group.
func (t *DimensionType) IsComparerSpecified() bool { return t.comparerSpecified }

// Comparer returns the dimension's comparer, or nil.
func (t *DimensionType) Comparer() Comparer { return t.comparer }

// SetComparer sets the order of the dimension's atoms. A nil comparer
// restores interning order.
func (t *DimensionType) SetComparer(c Comparer) {
	t.comparer = c
	if t.complexType != nil {
		t.complexType.orderVersion++
	}
}

// Compare orders atoms of this dimension. The null atom sorts first.
// Without a comparer, atoms are in interning order.
func (t *DimensionType) Compare(a, b *Atom) int {
	switch {
	case a == b:
		return 0
	case a.IsNull():
		return -1
	case b.IsNull():
		return 1
	}
	if t.comparer != nil {
		if c := t.comparer(a.Value, b.Value); c != 0 {
			return c
		}
	}
	return a.index - b.index
}

// Format formats a value of this dimension.
func (t *DimensionType) Format(v any) string {
	if v == nil {
		return ""
	}
	if t.format != nil {
		return t.format(v)
	}
	return t.valueType.format(v)
}

func (t *DimensionType) String() string {
	return fmt.Sprintf("%s(%s)", t.name, t.valueType)
}

// SplitGroupName splits a dimension name into its group name and
// level. "value" is level 0 of group "value", "value2" is level 1 and
// "value3" level 2.
func SplitGroupName(name string) (group string, level int) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) || i == 0 {
		return name, 0
	}
	n, err := strconv.Atoi(name[i:])
	if err != nil || n < 1 {
		return name, 0
	}
	return name[:i], n - 1
}

// GroupDimensionName returns the name of the dimension at level of
// group, the inverse of SplitGroupName.
func GroupDimensionName(group string, level int) string {
	if level == 0 {
		return group
	}
	return group + strconv.Itoa(level+1)
}

var titleCaser = cases.Title(language.English)

// DefaultLabel derives a label from a dimension name: "value2"
// becomes "Value 2" and "seriesName" becomes "Series Name".
func DefaultLabel(name string) string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	var prev rune
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && prev != 0 && !unicode.IsUpper(prev):
			flush()
			cur = append(cur, r)
		case unicode.IsDigit(r) && prev != 0 && !unicode.IsDigit(prev):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return titleCaser.String(strings.Join(words, " "))
}
