// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command cccplot renders charts of relational data.
//
// cccplot reads a chart spec (YAML, TOML or JSON, by extension) and
// one or more resultsets in the CDA JSON format:
//
//	{"metadata": [{"colIndex": 0, "colType": "STRING", "colName": "region"}, ...],
//	 "resultset": [["north", 10], ...]}
//
// The first resultset is loaded and the others are appended, so a
// sliding window in the spec sees them arrive in order. With no
// resultset arguments, or "-", cccplot reads standard input.
//
// Subcommands:
//
//	cccplot table   print the chart's scenes as a table
//	cccplot plot    render the chart as SVG
//	cccplot legend  render the legend as PNG
//
// Every flag can also be set in the environment as CCC_<FLAG>, such
// as CCC_SPEC. CCC_FLAGS holds shell-quoted arguments that are
// inserted before the command line.
package main

import (
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/webdetails/ccc-sub011/chart"
)

func main() {
	log.SetPrefix("cccplot: ")
	log.SetFlags(0)

	args, err := expandFlags(os.Getenv("CCC_FLAGS"), os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// expandFlags returns args preceded by the shell-quoted arguments in
// env.
func expandFlags(env string, args []string) ([]string, error) {
	if strings.TrimSpace(env) == "" {
		return args, nil
	}
	extra, err := shellquote.Split(env)
	if err != nil {
		return nil, fmt.Errorf("parsing CCC_FLAGS: %w", err)
	}
	return append(extra, args...), nil
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var stopProfile func()

	root := &cobra.Command{
		Use:           "cccplot",
		Short:         "Render charts of relational data",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			stopProfile, err = startProfile(v.GetString("cpuprofile"))
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if stopProfile != nil {
				stopProfile()
			}
			return writeHeapProfile(v.GetString("memprofile"))
		},
	}
	flags := root.PersistentFlags()
	flags.StringP("spec", "s", "", "read the chart spec from `file`")
	flags.StringP("out", "o", "", "write output to `file` (default: stdout)")
	flags.BoolP("verbose", "v", false, "log chart diagnostics to stderr")
	flags.String("cpuprofile", "", "write CPU profile to `file`")
	flags.String("memprofile", "", "write heap profile to `file`")
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
	v.SetEnvPrefix("CCC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		&cobra.Command{
			Use:   "table [resultsets...]",
			Short: "Print the chart's scenes as a table",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(v, args, func(w io.Writer, c *chart.Chart) error {
					tab, err := c.Table()
					if err != nil {
						return err
					}
					table.Fprint(w, tab)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "plot [resultsets...]",
			Short: "Render the chart as SVG",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(v, args, func(w io.Writer, c *chart.Chart) error {
					p, err := plot(c)
					if err != nil {
						return err
					}
					l := c.Layout()
					return p.WriteSVG(w, int(l.Width), int(l.Height))
				})
			},
		},
		newLegendCmd(v),
	)
	return root
}

func newLegendCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "legend [resultsets...]",
		Short: "Render the legend as PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v, args, func(w io.Writer, c *chart.Chart) error {
				if isTerminal(w) {
					return fmt.Errorf("refusing to write PNG to a terminal; use -o")
				}
				legend := c.Layout().Legend
				if legend == nil || len(legend.Items()) == 0 {
					return fmt.Errorf("chart has no legend")
				}
				return png.Encode(w, legend.RenderScaled(v.GetFloat64("scale")))
			})
		},
	}
	cmd.Flags().Float64("scale", 1, "resample the legend by `factor`")
	if err := v.BindPFlag("scale", cmd.Flags().Lookup("scale")); err != nil {
		panic(err)
	}
	return cmd
}

// run loads the chart named by the flags and the resultsets at paths,
// and calls f with the output writer.
func run(v *viper.Viper, paths []string, f func(io.Writer, *chart.Chart) error) error {
	logger, err := newLogger(v.GetBool("verbose"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	c, err := loadChart(v.GetString("spec"), paths, logger)
	if err != nil {
		return err
	}
	defer c.Dispose()

	w := io.Writer(os.Stdout)
	if out := v.GetString("out"); out != "" {
		file, err := os.Create(out)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}
	return f(w, c)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return os.Getenv("TERM") != "dumb" && terminal.IsTerminal(int(f.Fd()))
}

func startProfile(path string) (stop func(), err error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

func writeHeapProfile(path string) error {
	if path == "" {
		return nil
	}
	runtime.GC()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return pprof.WriteHeapProfile(f)
}
