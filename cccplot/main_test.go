// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kballard/go-shellquote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testData = `{
  "metadata": [
    {"colIndex": 0, "colType": "STRING", "colName": "region"},
    {"colIndex": 1, "colType": "STRING", "colName": "quarter"},
    {"colIndex": 2, "colType": "NUMERIC", "colName": "sales"}
  ],
  "resultset": [
    ["north", "q1", 1], ["north", "q2", 3], ["north", "q3", 5],
    ["south", "q1", 2], ["south", "q2", 4], ["south", "q3", 6]
  ]
}`

const testMore = `{
  "metadata": [
    {"colIndex": 0, "colType": "STRING", "colName": "region"},
    {"colIndex": 1, "colType": "STRING", "colName": "quarter"},
    {"colIndex": 2, "colType": "NUMERIC", "colName": "sales"}
  ],
  "resultset": [["east", "q1", 7]]
}`

const testSpec = `
title:
  text: Sales
trend:
  type: linear
`

func writeFile(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o666))
	return path
}

func execute(t *testing.T, args ...string) []byte {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out")
	cmd := newRootCmd()
	cmd.SetArgs(append(args, "--out", out))
	require.NoError(t, cmd.Execute())
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	return b
}

func TestExpandFlags(t *testing.T) {
	args, err := expandFlags(`--spec "my chart.yaml" -v`, []string{"table", "data.json"})
	require.NoError(t, err)
	assert.Equal(t, []string{"--spec", "my chart.yaml", "-v", "table", "data.json"}, args)

	args, err = expandFlags("  ", []string{"plot"})
	require.NoError(t, err)
	assert.Equal(t, []string{"plot"}, args)

	_, err = expandFlags(`--spec "unterminated`, nil)
	assert.ErrorIs(t, err, shellquote.UnterminatedDoubleQuoteError)
}

func TestTable(t *testing.T) {
	data := writeFile(t, "data.json", testData)
	out := string(execute(t, "table", data))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, []string{"part", "series", "category", "value", "percent", "color"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"0", "north", "q1", "1"}, strings.Fields(lines[1])[:4])
}

func TestTableAppend(t *testing.T) {
	data := writeFile(t, "data.json", testData)
	more := writeFile(t, "more.json", testMore)
	out := string(execute(t, "table", data, more))
	assert.Contains(t, out, "east")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 8)
}

func TestSpecFromEnv(t *testing.T) {
	t.Setenv("CCC_SPEC", writeFile(t, "chart.yaml", testSpec))
	data := writeFile(t, "data.json", testData)
	out := string(execute(t, "table", data))
	// Six main rows and six trend rows.
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 13)
	assert.Contains(t, out, "trend")
}

func TestPlot(t *testing.T) {
	data := writeFile(t, "data.json", testData)
	spec := writeFile(t, "chart.yaml", testSpec)
	out := execute(t, "plot", "--spec", spec, data)
	assert.True(t, bytes.Contains(out, []byte("<svg")))
}

func TestLegend(t *testing.T) {
	data := writeFile(t, "data.json", testData)
	out := execute(t, "legend", data)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	// Two items: 15px marker, 6px margin, 35px label, 5px padding.
	assert.Equal(t, 117, img.Bounds().Dx())
	assert.Equal(t, 15, img.Bounds().Dy())
}

func TestLoadChartErrors(t *testing.T) {
	log := zap.NewNop()
	_, err := loadChart(filepath.Join(t.TempDir(), "chart.ini"), nil, log)
	assert.Error(t, err)

	_, err = loadChart("", []string{filepath.Join(t.TempDir(), "missing.json")}, log)
	assert.Error(t, err)

	bad := writeFile(t, "bad.json", `{"metadata": [{"colIndex": 3, "colType": "STRING", "colName": "x"}]}`)
	_, err = loadChart("", []string{bad}, log)
	assert.Error(t, err)
}

func TestLegendScaled(t *testing.T) {
	data := writeFile(t, "data.json", testData)
	out := execute(t, "legend", "--scale", "2", data)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 234, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestReadResultsetsOrder(t *testing.T) {
	data := writeFile(t, "data.json", testData)
	more := writeFile(t, "more.json", testMore)
	rss, err := readResultsets([]string{more, data, more}, 2)
	require.NoError(t, err)
	require.Len(t, rss, 3)
	assert.Len(t, rss[0].Rows(), 1)
	assert.Len(t, rss[1].Rows(), 6)
	assert.Len(t, rss[2].Rows(), 1)

	_, err = readResultsets([]string{data, filepath.Join(t.TempDir(), "missing.json")}, 1)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
