// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/webdetails/ccc-sub011/cdo"
)

// A Spec is the declarative configuration of a chart.
type Spec struct {
	Width  float64 `yaml:"width" json:"width" toml:"width"`
	Height float64 `yaml:"height" json:"height" toml:"height"`

	Readers         []cdo.ReaderSpec             `yaml:"readers" json:"readers" toml:"readers"`
	Dimensions      map[string]cdo.DimensionSpec `yaml:"dimensions" json:"dimensions" toml:"dimensions"`
	DimensionGroups map[string]cdo.DimensionSpec `yaml:"dimensionGroups" json:"dimensionGroups" toml:"dimensionGroups"`

	// Roles maps visual role names to grouping texts, such as
	// "series|category" or "value, value2".
	Roles map[string]string `yaml:"roles" json:"roles" toml:"roles"`

	// Options holds the component options by prefixed name, such
	// as "orthoAxisFixedMin" or "colorAxisColors".
	Options map[string]any `yaml:"options" json:"options" toml:"options"`

	// V1Options holds options under their legacy names.
	V1Options map[string]any `yaml:"v1Options" json:"v1Options" toml:"v1Options"`

	SlidingWindow *WindowSpec `yaml:"slidingWindow" json:"slidingWindow" toml:"slidingWindow"`
	Trend         *TrendSpec  `yaml:"trend" json:"trend" toml:"trend"`
	Legend        LegendSpec  `yaml:"legend" json:"legend" toml:"legend"`
	Title         TitleSpec   `yaml:"title" json:"title" toml:"title"`

	// ClickMode is the click mode of the main scenes. "" means
	// "toggleSelected".
	ClickMode string `yaml:"clickMode" json:"clickMode" toml:"clickMode"`

	KeySep   string `yaml:"keySep" json:"keySep" toml:"keySep"`
	LabelSep string `yaml:"labelSep" json:"labelSep" toml:"labelSep"`

	// Debug is the debug level. At 2 and above, data quality
	// warnings are logged.
	Debug int `yaml:"debug" json:"debug" toml:"debug"`
}

// A WindowSpec configures the sliding window.
type WindowSpec struct {
	// Length is a number or a distance such as "1y" or "30d".
	Length    any    `yaml:"length" json:"length" toml:"length"`
	Dimension string `yaml:"dimension" json:"dimension" toml:"dimension"`
}

// A TrendSpec adds a trend series per series.
type TrendSpec struct {
	Type        string `yaml:"type" json:"type" toml:"type"`
	Label       string `yaml:"label" json:"label" toml:"label"`
	PeriodCount int    `yaml:"periodCount" json:"periodCount" toml:"periodCount"`
}

type LegendSpec struct {
	// Visible defaults to true.
	Visible      *bool   `yaml:"visible" json:"visible" toml:"visible"`
	Position     string  `yaml:"position" json:"position" toml:"position"`
	ClickMode    string  `yaml:"clickMode" json:"clickMode" toml:"clickMode"`
	MaxTextWidth float64 `yaml:"maxTextWidth" json:"maxTextWidth" toml:"maxTextWidth"`
}

type TitleSpec struct {
	Text     string  `yaml:"text" json:"text" toml:"text"`
	Position string  `yaml:"position" json:"position" toml:"position"`
	Align    string  `yaml:"align" json:"align" toml:"align"`
	Padding  float64 `yaml:"padding" json:"padding" toml:"padding"`
}

// A Format is a chart spec encoding.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
	JSON Format = "json"
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	case ".json":
		return JSON, nil
	}
	return "", fmt.Errorf("%s: unknown chart spec format", path)
}

// ParseSpec decodes a chart spec. Unknown fields are errors.
func ParseSpec(b []byte, f Format) (*Spec, error) {
	spec := new(Spec)
	var err error
	switch f {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		err = dec.Decode(spec)
	case TOML:
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(spec)
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(spec)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", cdo.ErrArgumentInvalid, f)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s chart spec: %w", f, err)
	}
	return spec, nil
}

// LoadSpec reads the chart spec at path.
func LoadSpec(path string) (*Spec, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSpec(b, f)
}
