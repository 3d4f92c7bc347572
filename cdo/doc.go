// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cdo implements the dimensional data model behind a chart.
//
// Source rows are translated into Datums. A Datum is a Complex, a set
// of interned Atoms (one per Dimension), plus mutable selection and
// visibility state. Datums are owned by a root Data, which groups
// them hierarchically into child Data nodes and keeps per-node caches
// (visible and selected datums, dimension sums, visible atoms) that
// stay consistent as datum state changes.
//
// The shape of the data is described by a ComplexType, which is
// materialized once from a ComplexTypeProject after all dimension
// readers and calculations have been declared.
//
// The model is single-threaded. None of the types in this package are
// safe for concurrent use.
package cdo

import "errors"

var (
	// ErrOperationInvalid reports an operation that is not valid
	// in the current configuration, such as registering the same
	// dimension twice or reading a calculated dimension.
	ErrOperationInvalid = errors.New("operation invalid")

	// ErrArgumentInvalid reports an invalid argument, such as a
	// reader that refers to a column that does not exist.
	ErrArgumentInvalid = errors.New("argument invalid")
)

// Bool returns a pointer to b. It is a convenience for the optional
// filters of DatumsOptions and GroupOptions.
func Bool(b bool) *bool { return &b }
