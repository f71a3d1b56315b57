// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package metrics collects sweep counters on a private prometheus registry
// and writes them out in the text exposition format.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lllsat"

// Type Metrics holds the collectors of one run.  A nil *Metrics discards
// all observations.
type Metrics struct {
	reg *prometheus.Registry

	trials      *prometheus.CounterVec
	solveTime   *prometheus.HistogramVec
	clauses     *prometheus.HistogramVec
	exhaustions *prometheus.CounterVec
	breaks      *prometheus.GaugeVec
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Solver runs by clause width, profile and outcome",
		}, []string{"k", "profile", "outcome"}),
		solveTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_seconds",
			Help:      "Solve time reported by the solver",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"k", "profile"}),
		clauses: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "instance_clauses",
			Help:      "Clauses per generated instance",
			Buckets:   prometheus.ExponentialBuckets(8, 2, 14),
		}, []string{"k"}),
		exhaustions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resample_exhausted_total",
			Help:      "Instances truncated at the resample cutoff",
		}, []string{"k"}),
		breaks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "breaking_bias",
			Help:      "Bias at which the solver stopped being measurable",
		}, []string{"k"}),
	}
	m.reg.MustRegister(m.trials, m.solveTime, m.clauses, m.exhaustions, m.breaks)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// ObserveRun records one solver run on a k-cnf.  solveSecs is only
// observed for solved runs.
func (m *Metrics) ObserveRun(k int, profile, outcome string, solveSecs float64) {
	if m == nil {
		return
	}
	ks := strconv.Itoa(k)
	m.trials.WithLabelValues(ks, profile, outcome).Inc()
	if outcome == "solved" {
		m.solveTime.WithLabelValues(ks, profile).Observe(solveSecs)
	}
}

// ObserveInstance records a generated instance.
func (m *Metrics) ObserveInstance(k, clauses int, truncated bool) {
	if m == nil {
		return
	}
	ks := strconv.Itoa(k)
	m.clauses.WithLabelValues(ks).Observe(float64(clauses))
	if truncated {
		m.exhaustions.WithLabelValues(ks).Inc()
	}
}

// Break records the breaking bias of the sweep over k.
func (m *Metrics) Break(k int, beta float64) {
	if m == nil {
		return
	}
	m.breaks.WithLabelValues(strconv.Itoa(k)).Set(beta)
}

// WriteFile writes all metrics to path in the text exposition format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
