// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/goccy/go-json"

	"github.com/webdetails/ccc-sub011/cdo"
)

// A Source provides relational rows and the metadata describing
// their columns.
type Source interface {
	Metadata() cdo.Metadata
	Rows() [][]any
}

// A Resultset is a relational source in the CDA resultset format:
//
//	{"metadata": [{"colIndex": 0, "colType": "STRING", "colName": "x"}, ...],
//	 "resultset": [["a", 1], ...]}
type Resultset struct {
	Meta cdo.Metadata `json:"metadata"`
	Data [][]any      `json:"resultset"`
}

func (r *Resultset) Metadata() cdo.Metadata { return r.Meta }
func (r *Resultset) Rows() [][]any          { return r.Data }

// ReadResultset decodes a JSON resultset from r.
func ReadResultset(r io.Reader) (*Resultset, error) {
	rs := new(Resultset)
	if err := json.NewDecoder(r).Decode(rs); err != nil {
		return nil, fmt.Errorf("reading resultset: %w", err)
	}
	for i := range rs.Meta {
		if rs.Meta[i].Index != i {
			return nil, fmt.Errorf("%w: resultset column %q has index %d, want %d",
				cdo.ErrArgumentInvalid, rs.Meta[i].Name, rs.Meta[i].Index, i)
		}
	}
	return rs, nil
}

var timeType = reflect.TypeOf(time.Time{})

// FromTable returns the rows of every group of g as a resultset.
// Column types follow the element types of g's columns.
func FromTable(g table.Grouping) *Resultset {
	rs := new(Resultset)
	cols := g.Columns()
	gids := g.Tables()
	for i, name := range cols {
		ct := cdo.ColumnString
		if len(gids) > 0 {
			ct = columnType(reflect.TypeOf(g.Table(gids[0]).Column(name)).Elem())
		}
		rs.Meta = append(rs.Meta, cdo.Column{Name: name, Type: ct, Index: i})
	}
	for _, gid := range gids {
		t := g.Table(gid)
		vals := make([]reflect.Value, len(cols))
		for j, name := range cols {
			vals[j] = reflect.ValueOf(t.Column(name))
		}
		for i := 0; i < t.Len(); i++ {
			row := make([]any, len(cols))
			for j := range cols {
				row[j] = vals[j].Index(i).Interface()
			}
			rs.Data = append(rs.Data, row)
		}
	}
	return rs
}

func columnType(t reflect.Type) cdo.ColumnType {
	if t == timeType {
		return cdo.ColumnDate
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cdo.ColumnInteger
	case reflect.Float32, reflect.Float64:
		return cdo.ColumnNumeric
	case reflect.Bool:
		return cdo.ColumnBoolean
	}
	return cdo.ColumnString
}
