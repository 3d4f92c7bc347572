// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/webdetails/ccc-sub011/chart"
)

// loadChart configures a chart from the spec at specPath, or a
// default spec if specPath is "", and loads the resultsets at paths
// in order. "-" is standard input.
func loadChart(specPath string, paths []string, logger *zap.Logger) (*chart.Chart, error) {
	spec := new(chart.Spec)
	if specPath != "" {
		var err error
		spec, err = chart.LoadSpec(specPath)
		if err != nil {
			return nil, err
		}
	}
	c, err := chart.New(spec, chart.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = []string{"-"}
	}
	rss, err := readResultsets(paths, runtime.GOMAXPROCS(0))
	if err != nil {
		return nil, err
	}
	for i, rs := range rss {
		path := paths[i]
		if i == 0 {
			err = c.Load(rs)
		} else {
			err = c.Append(rs)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return c, nil
}

// readResultsets decodes the resultsets at paths, at most limit at a
// time, and returns them in path order.
func readResultsets(paths []string, limit int) ([]*chart.Resultset, error) {
	rss := make([]*chart.Resultset, len(paths))
	errs := make([]error, len(paths))
	tokens := make(chan struct{}, max(limit, 1))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens <- struct{}{}
			defer func() { <-tokens }()
			rss[i], errs[i] = readResultset(path)
		}()
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return rss, nil
}

func readResultset(path string) (*chart.Resultset, error) {
	f := os.Stdin
	if path != "-" {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
	}
	rs, err := chart.ReadResultset(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}
