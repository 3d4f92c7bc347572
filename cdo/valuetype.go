// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cdo

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// A ValueType is the type of the values of a dimension.
type ValueType int

const (
	Any ValueType = iota
	String
	Number
	Date
	Boolean
)

var valueTypeNames = [...]string{"Any", "String", "Number", "Date", "Boolean"}

func (t ValueType) String() string {
	if int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return fmt.Sprintf("ValueType(%d)", int(t))
}

// ParseValueType parses a value type name. It accepts the names
// returned by ValueType.String, case-insensitively, as well as the
// column type names used by resultset metadata ("Numeric",
// "Integer", "Double").
func ParseValueType(s string) (ValueType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "object":
		return Any, nil
	case "string", "text":
		return String, nil
	case "number", "numeric", "integer", "double", "float":
		return Number, nil
	case "date", "datetime", "timestamp":
		return Date, nil
	case "boolean", "bool":
		return Boolean, nil
	}
	return Any, fmt.Errorf("%w: unknown value type %q", ErrArgumentInvalid, s)
}

// isContinuous reports whether dimensions of type t are continuous
// unless specified otherwise.
func (t ValueType) isContinuous() bool {
	return t == Number || t == Date
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
}

// convert converts raw to a value of type t. A nil result means the
// null value. Empty strings are null for every type.
func (t ValueType) convert(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if s, ok := raw.(string); ok && s == "" {
		return nil, nil
	}
	switch t {
	case String:
		if s, ok := raw.(string); ok {
			return s, nil
		}
		return fmt.Sprint(raw), nil

	case Number:
		if f, ok := toFloat(raw); ok {
			if math.IsNaN(f) {
				return nil, nil
			}
			return f, nil
		}
		if s, ok := raw.(string); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: not a number: %q", ErrArgumentInvalid, s)
			}
			return f, nil
		}

	case Date:
		switch v := raw.(type) {
		case time.Time:
			return v, nil
		case string:
			for _, layout := range dateLayouts {
				if d, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
					return d, nil
				}
			}
			return nil, fmt.Errorf("%w: not a date: %q", ErrArgumentInvalid, v)
		}
		if f, ok := toFloat(raw); ok {
			return time.UnixMilli(int64(f)).UTC(), nil
		}

	case Boolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("%w: not a boolean: %q", ErrArgumentInvalid, v)
			}
			return b, nil
		}
		if f, ok := toFloat(raw); ok {
			return f != 0, nil
		}

	default:
		return raw, nil
	}
	return nil, fmt.Errorf("%w: cannot convert %T to %s", ErrArgumentInvalid, raw, t)
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case interface{ Float64() (float64, error) }:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// ToNumber coerces a dimension value to a float64. Dates coerce to
// milliseconds since the Unix epoch and booleans to 0 or 1.
func ToNumber(v any) (float64, bool) {
	switch v := v.(type) {
	case time.Time:
		return float64(v.UnixMilli()), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}
	return toFloat(v)
}

// key returns the interning key of a non-null value of type t.
func (t ValueType) key(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return FormatNumberKey(v)
	case time.Time:
		return strconv.FormatInt(v.UnixMilli(), 10)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(v)
}

// FormatNumberKey returns the interning key of a number.
func FormatNumberKey(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

var printer = message.NewPrinter(language.English)

// FormatNumber formats f with digit grouping and at most two
// fractional digits.
func FormatNumber(f float64) string {
	return printer.Sprint(number.Decimal(f, number.MaxFractionDigits(2)))
}

// FormatPercent formats a fraction as a percentage with at most one
// fractional digit.
func FormatPercent(f float64) string {
	return printer.Sprint(number.Percent(f, number.MaxFractionDigits(1)))
}

// format returns the default label of a non-null value.
func (t ValueType) format(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return FormatNumber(v)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprint(v)
}

// compareValues is the natural order of non-null values of the same
// value type.
func compareValues(a, b any) int {
	switch a := a.(type) {
	case float64:
		if b, ok := b.(float64); ok {
			return cmp.Compare(a, b)
		}
	case string:
		if b, ok := b.(string); ok {
			return strings.Compare(a, b)
		}
	case time.Time:
		if b, ok := b.(time.Time); ok {
			return a.Compare(b)
		}
	case bool:
		if b, ok := b.(bool); ok {
			switch {
			case a == b:
				return 0
			case !a:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// Ascending is the natural ascending comparer of dimension values.
func Ascending(a, b any) int { return compareValues(a, b) }

// Descending is the natural descending comparer of dimension values.
func Descending(a, b any) int { return compareValues(b, a) }
