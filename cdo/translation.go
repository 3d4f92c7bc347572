// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cdo

import (
	"fmt"
	"slices"
	"strings"
)

// ColumnType is the type of a source column, as reported by
// resultset metadata.
type ColumnType string

const (
	ColumnString  ColumnType = "STRING"
	ColumnNumeric ColumnType = "NUMERIC"
	ColumnInteger ColumnType = "INTEGER"
	ColumnDate    ColumnType = "DATE"
	ColumnBoolean ColumnType = "BOOLEAN"
)

// IsNumeric reports whether t holds measures.
func (t ColumnType) IsNumeric() bool {
	switch ColumnType(strings.ToUpper(string(t))) {
	case ColumnNumeric, ColumnInteger, "DOUBLE", "FLOAT", "NUMBER":
		return true
	}
	return false
}

func (t ColumnType) valueType() string {
	switch {
	case t.IsNumeric():
		return "number"
	case strings.EqualFold(string(t), string(ColumnDate)):
		return "date"
	case strings.EqualFold(string(t), string(ColumnBoolean)):
		return "boolean"
	}
	return "string"
}

// A Column describes one column of a source row.
type Column struct {
	Name  string     `json:"colName" yaml:"name" toml:"name"`
	Type  ColumnType `json:"colType" yaml:"type" toml:"type"`
	Index int        `json:"colIndex" yaml:"index" toml:"index"`
}

// Metadata describes the columns of source rows, by index.
type Metadata []Column

// A ReaderSpec reads columns into dimensions. Names[i] is read from
// column Indexes[i]. When Indexes is shorter than Names, the remaining
// names read the next unread columns in order.
type ReaderSpec struct {
	Names   []string `yaml:"names" json:"names" toml:"names"`
	Indexes []int    `yaml:"indexes" json:"indexes" toml:"indexes"`
}

// TranslationOptions configures a Translation.
type TranslationOptions struct {
	Readers []ReaderSpec

	// MeasuresRole, if set, names the visual role that receives
	// the measure columns. When more than one measure dimension is
	// read for it, each row produces one datum per measure, and the
	// measure's dimension name is stored in the discriminator
	// dimension MeasuresRole+"Role.dim".
	MeasuresRole string

	// DefaultMeasureGroup names the dimension group that numeric
	// columns not read explicitly are read into. Default "value".
	DefaultMeasureGroup string
}

type reader struct {
	name  string
	index int
}

// A Translation turns relational rows into datums.
//
// Configure declares the read dimensions on a project. After the
// project has been turned into a ComplexType, Datums translates rows.
type Translation struct {
	metadata Metadata
	opts     TranslationOptions
	readers  []reader

	measureDims   []string
	discriminator string
}

// NewTranslation returns a translation of rows described by metadata.
func NewTranslation(metadata Metadata, opts TranslationOptions) *Translation {
	if opts.DefaultMeasureGroup == "" {
		opts.DefaultMeasureGroup = "value"
	}
	return &Translation{metadata: metadata, opts: opts}
}

// DiscriminatorDimension returns the name of the dimension that holds
// the measure dimension of each datum, or "" if rows produce a single
// datum.
func (t *Translation) DiscriminatorDimension() string { return t.discriminator }

// Readers returns the resolved dimension of each read column, by
// column index.
func (t *Translation) Readers() map[int]string {
	m := make(map[int]string, len(t.readers))
	for _, r := range t.readers {
		m[r.index] = r.name
	}
	return m
}

// Configure declares the explicit and default readers on p.
//
// Columns not read explicitly are read by default: discrete columns
// into "category" if there is one, or into "series" followed by the
// "category" group if there are more; numeric columns into the
// default measure group.
func (t *Translation) Configure(p *ComplexTypeProject) error {
	used := make(map[int]bool)
	next := 0
	nextFree := func() int {
		for next < len(t.metadata) && used[next] {
			next++
		}
		return next
	}
	read := func(name string, index int) error {
		if index < 0 || index >= len(t.metadata) {
			return fmt.Errorf("%w: dimension %q reads column %d of %d", ErrArgumentInvalid, name, index, len(t.metadata))
		}
		if used[index] {
			return fmt.Errorf("%w: column %d is read twice", ErrArgumentInvalid, index)
		}
		spec := DimensionSpec{ValueType: t.metadata[index].Type.valueType()}
		if err := p.ReadDimension(name, spec); err != nil {
			return err
		}
		used[index] = true
		t.readers = append(t.readers, reader{name, index})
		return nil
	}

	for _, rs := range t.opts.Readers {
		for i, name := range rs.Names {
			var index int
			if i < len(rs.Indexes) {
				index = rs.Indexes[i]
			} else {
				index = nextFree()
			}
			if p.IsRead(name) {
				return fmt.Errorf("%w: dimension %q is read twice", ErrOperationInvalid, name)
			}
			if err := read(name, index); err != nil {
				return err
			}
		}
	}

	var discrete, numeric []int
	for i, c := range t.metadata {
		if used[i] {
			continue
		}
		if c.Type.IsNumeric() {
			numeric = append(numeric, i)
		} else {
			discrete = append(discrete, i)
		}
	}
	if len(discrete) == 1 {
		if err := read(p.NextGroupDimensionName("category"), discrete[0]); err != nil {
			return err
		}
	} else if len(discrete) > 1 {
		if !p.IsReadOrCalc("series") {
			if err := read("series", discrete[0]); err != nil {
				return err
			}
			discrete = discrete[1:]
		}
		for _, i := range discrete {
			if err := read(p.NextGroupDimensionName("category"), i); err != nil {
				return err
			}
		}
	}
	for _, i := range numeric {
		if err := read(p.NextGroupDimensionName(t.opts.DefaultMeasureGroup), i); err != nil {
			return err
		}
	}

	if role := t.opts.MeasuresRole; role != "" {
		for _, r := range t.readers {
			if g, _ := SplitGroupName(r.name); g == t.opts.DefaultMeasureGroup && t.metadata[r.index].Type.IsNumeric() {
				t.measureDims = append(t.measureDims, r.name)
			}
		}
		if len(t.measureDims) > 1 {
			t.discriminator = role + "Role.dim"
			p.SetDimension(t.discriminator, DimensionSpec{ValueType: "string", IsHidden: true})
		}
	}
	return nil
}

// Datums translates rows into datums owned by data. Each row is read
// into the read dimensions, then calculated dimensions are filled in.
// Rows whose values are all null produce no datum.
func (t *Translation) Datums(data *Data, rows [][]any) []*Datum {
	owner := data.Owner()
	var out []*Datum
	for _, row := range rows {
		values := make(map[string]any, len(t.readers))
		for _, r := range t.readers {
			if r.index < len(row) {
				values[r.name] = row[r.index]
			}
		}
		owner.typ.calculate(values)
		if t.discriminator == "" {
			if dt := newRowDatum(owner, values); dt != nil {
				out = append(out, dt)
			}
			continue
		}
		for _, m := range t.measureDims {
			mv := make(map[string]any, len(values))
			for k, v := range values {
				if k == m || !slices.Contains(t.measureDims, k) {
					mv[k] = v
				}
			}
			mv[t.discriminator] = m
			if mv[m] == nil {
				continue
			}
			if dt := newRowDatum(owner, mv); dt != nil {
				out = append(out, dt)
			}
		}
	}
	return out
}

func newRowDatum(owner *Data, values map[string]any) *Datum {
	dt := NewDatum(owner, values, DatumOptions{})
	if len(dt.atoms.local) == 0 {
		return nil
	}
	return dt
}
