// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-air/lllsat/bench"
	"github.com/go-air/lllsat/internal/metrics"
	"github.com/go-air/lllsat/report"
	"github.com/go-air/lllsat/sweep"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const plotSize = 24

func newSweepCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [flags]",
		Short: "Measure a solver over clause widths and decreasing biases",
		Long: `sweep measures a solver on random k-cnfs for every k in [k-min, k-max],
and every bias from 1 down to min-bias, stopping at the first bias for which
the solver times out or exceeds the iteration cap.

Results are written to <dir>/run-<id>/.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sweep(cmd)
		},
	}
	fs := cmd.Flags()
	c := a.cfg
	a.addRunFlags(fs)
	fs.IntVar(&c.KMin, "k-min", c.KMin, "smallest clause width")
	fs.IntVar(&c.KMax, "k-max", c.KMax, "largest clause width")
	fs.IntVar(&c.KStep, "k-step", c.KStep, "step between clause widths")
	fs.IntVarP(&c.Samples, "samples", "N", c.Samples, "number of biases")
	fs.Float64Var(&c.MinBias, "min-bias", c.MinBias, "smallest bias, 0 for 1/samples")
	fs.IntVar(&c.Trials, "trials", c.Trials, "trials averaged per point")
	fs.IntVar(&c.MaxFailures, "max-failures", c.MaxFailures, "failed trials marking a breaking point")
	fs.BoolVar(&c.KeepArtifacts, "keep", c.KeepArtifacts, "keep instances and solver outputs")
	fs.IntVarP(&c.Parallel, "parallel", "p", c.Parallel, "number of clause widths swept at once")
	fs.StringVar(&c.MetricsFile, "metrics-file", c.MetricsFile, "write prometheus metrics to this file in the run directory")
	return cmd
}

func (a *app) sweep(cmd *cobra.Command) error {
	c := a.cfg
	root := filepath.Join(c.Dir, "run-"+uuid.NewString())
	rec, e := bench.NewRecord(root, strings.Join(os.Args, " "), c.Timeout, c.Seed)
	if e != nil {
		return e
	}
	log := a.log.WithField("run", rec.Name)
	agg, e := a.aggregator(root)
	if e != nil {
		return e
	}
	agg.Notify = a.sink(false)
	agg.Log = log
	var m *metrics.Metrics
	if c.MetricsFile != "" {
		m = metrics.New()
		agg.Metrics = m
	}
	ctl := &sweep.Controller{
		Agg:      agg,
		Ks:       c.Ks(),
		Betas:    sweep.Betas(c.Samples, c.Bias()),
		Seed:     c.Seed,
		Parallel: c.Parallel,
		Metrics:  m,
		Log:      log,
		OnSeries: func(s *sweep.Series) error {
			return writeSeries(rec, s, log)
		}}
	log.WithFields(logrus.Fields{
		"ks":     ctl.Ks,
		"biases": len(ctl.Betas),
		"seed":   c.Seed}).Info("sweep started")

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()
	ss, runErr := ctl.Run(ctx)
	fmt.Fprintln(cmd.OutOrStdout(), report.Summary(rec.Name, ss))
	if m != nil {
		p := c.MetricsFile
		if !filepath.IsAbs(p) {
			p = rec.Path(p)
		}
		if e := m.WriteFile(p); e != nil {
			log.WithError(e).Error("writing metrics")
		}
	}
	if runErr != nil {
		return errors.Wrap(runErr, "sweep aborted")
	}
	return nil
}

func writeSeries(rec *bench.Record, s *sweep.Series, log logrus.FieldLogger) error {
	p, e := report.WriteCSVFile(rec.Root, s)
	if e != nil {
		return e
	}
	if _, e := report.WritePlotFile(rec.Root, s, plotSize); e != nil {
		return e
	}
	if e := rec.AddSeries(filepath.Base(p)); e != nil {
		return e
	}
	log.WithFields(logrus.Fields{
		"k":          s.K,
		"points":     len(s.Points),
		"stopped":    s.Stopped,
		"violations": len(s.Violations),
		"path":       p}).Info("series written")
	return nil
}
