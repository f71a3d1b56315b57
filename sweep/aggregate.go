// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sweep

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/go-air/lllsat/bench"
	"github.com/go-air/lllsat/dimacs"
	"github.com/go-air/lllsat/gen"
	"github.com/go-air/lllsat/internal/metrics"
	"github.com/go-air/lllsat/notify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/go-air/lllsat/sweep")

// DefaultTrials is the default number of trials averaged per point.
const DefaultTrials = 10

// Type Profile is a named solver configuration.
type Profile struct {
	Name   string
	Runner bench.Runner
}

// Type Trial is one instance solved by every profile.
type Trial struct {
	Path      string // the instance, which may have been removed
	NVars     int
	Clauses   int
	Truncated bool          // generation hit the resample cutoff
	Stats     []bench.Stats // one per profile
	Result    int           // result of the first profile
}

// Type Measurement collects the trials for one (k, beta).
type Measurement struct {
	K        int
	Beta     float64
	Profiles []string
	Trials   []Trial
	Failures int
	Broken   bool       // the configuration is past the breaking point
	Cause    bench.Kind // the last failure, if any
}

// Type Point is a measurement averaged over its trials.  The slices have
// one entry per profile.
type Point struct {
	Beta       float64
	Epsilon    float64
	Trials     int
	Clauses    float64
	ReadTime   []float64
	SolveTime  []float64
	Iterations []float64
}

// Point averages m.  It returns false if m is broken or has no trials: a
// broken measurement is never averaged.
func (m *Measurement) Point() (Point, bool) {
	if m.Broken || len(m.Trials) == 0 {
		return Point{}, false
	}
	np := len(m.Profiles)
	p := Point{
		Beta:       m.Beta,
		Epsilon:    1 - m.Beta,
		Trials:     len(m.Trials),
		ReadTime:   make([]float64, np),
		SolveTime:  make([]float64, np),
		Iterations: make([]float64, np)}
	for _, t := range m.Trials {
		p.Clauses += float64(t.Clauses)
		for i, st := range t.Stats {
			p.ReadTime[i] += st.ReadTime
			p.SolveTime[i] += st.SolveTime
			p.Iterations[i] += float64(st.NIterations)
		}
	}
	d := float64(len(m.Trials))
	p.Clauses /= d
	for i := 0; i < np; i++ {
		p.ReadTime[i] /= d
		p.SolveTime[i] /= d
		p.Iterations[i] /= d
	}
	return p, true
}

// Type Aggregator measures single (k, beta) configurations.
type Aggregator struct {
	Vars          int
	Cutoff        int
	Components    int
	Compact       bool
	Trials        int // successful trials per measurement
	MaxFailures   int // failed trials making a measurement broken
	KeepArtifacts bool
	Dir           string
	Profiles      []Profile

	Notify  notify.Sink
	Metrics *metrics.Metrics
	Log     logrus.FieldLogger

	seq atomic.Int64
}

// NewAggregator creates an aggregator with default trial counts over vars
// variables, writing instances to dir.
func NewAggregator(vars int, dir string, profiles ...Profile) *Aggregator {
	return &Aggregator{
		Vars:        vars,
		Cutoff:      10000,
		Components:  1,
		Trials:      DefaultTrials,
		MaxFailures: 1,
		Dir:         dir,
		Profiles:    profiles,
		Notify:      notify.Discard,
		Log:         logrus.StandardLogger()}
}

// ProfileNames returns the names of the profiles, in order.
func (a *Aggregator) ProfileNames() []string {
	res := make([]string, len(a.Profiles))
	for i, p := range a.Profiles {
		res[i] = p.Name
	}
	return res
}

// Measure runs trials of width k and bias beta, drawing instances from rng,
// until a.Trials succeeded or a.MaxFailures failed.
//
// The error is not nil only if a trial could not say anything about the
// solver: bad parameters, unreadable solver statistics (bench.ErrStatsIO)
// or a cancelled ctx.  The measurement so far is returned with it.
func (a *Aggregator) Measure(ctx context.Context, k int, beta float64, rng *rand.Rand) (*Measurement, error) {
	ctx, span := tracer.Start(ctx, "sweep.Measure", trace.WithAttributes(
		attribute.Int("k", k),
		attribute.Float64("beta", beta)))
	defer span.End()

	m := &Measurement{K: k, Beta: beta, Profiles: a.ProfileNames()}
	maxFail := a.MaxFailures
	if maxFail < 1 {
		maxFail = 1
	}
	for i := 0; len(m.Trials) < a.Trials; i++ {
		t, kind, e := a.Trial(ctx, k, beta, i, rng)
		if e != nil {
			span.SetStatus(codes.Error, e.Error())
			return m, e
		}
		if kind.Failed() {
			m.Failures++
			m.Cause = kind
			if m.Failures >= maxFail {
				m.Broken = true
				break
			}
			continue
		}
		if !a.KeepArtifacts {
			if e := bench.ArtifactsOf(t.Path).Remove(); e != nil {
				a.logger().WithError(e).Warn("removing artifacts")
			}
		}
		m.Trials = append(m.Trials, *t)
	}
	span.SetAttributes(
		attribute.Int("trials", len(m.Trials)),
		attribute.Bool("broken", m.Broken))
	return m, nil
}

// Trial builds and writes one instance and runs every profile on it.
//
// If a profile fails the remaining profiles are not run and the kind of the
// failure is returned; the trial is nil then.  The instance of a successful
// trial is left on disk together with the outputs of the last profile.
func (a *Aggregator) Trial(ctx context.Context, k int, beta float64, i int, rng *rand.Rand) (*Trial, bench.Kind, error) {
	if len(a.Profiles) == 0 {
		return nil, bench.Solved, errors.New("sweep: no solver profiles")
	}
	log := a.logger().WithFields(logrus.Fields{"k": k, "beta": beta, "trial": i})
	b := gen.NewBuilderRand(k, beta, a.Cutoff, rng)
	b.Components = a.Components
	inst, e := b.Build(a.Vars)
	if e != nil {
		return nil, bench.Solved, e
	}
	if a.Compact {
		inst = inst.Compact()
	}
	a.Metrics.ObserveInstance(k, inst.Len(), inst.Truncated)
	if inst.Truncated {
		log.WithField("clauses", inst.Len()).Debug("resample cutoff reached")
	}

	path := dimacs.Name(a.Dir, time.Now(), fmt.Sprintf("_k%d_%d", k, a.seq.Add(1))) + ".cnf"
	comment := fmt.Sprintf("lllsat k=%d beta=%g cutoff=%d max-degree=%d", k, beta, a.Cutoff, inst.MaxDegree)
	if e := dimacs.WriteFile(path, inst, comment); e != nil {
		return nil, bench.Solved, errors.Wrap(e, "writing instance")
	}
	t := &Trial{
		Path:      path,
		NVars:     inst.NVars,
		Clauses:   inst.Len(),
		Truncated: inst.Truncated,
		Stats:     make([]bench.Stats, 0, len(a.Profiles))}
	arts := bench.ArtifactsOf(path)
	for j, p := range a.Profiles {
		plog := log.WithField("profile", p.Name)
		if j > 0 {
			if e := arts.RemoveOutputs(); e != nil {
				plog.WithError(e).Warn("removing outputs")
			}
		}
		out, e := p.Runner.Run(ctx, path)
		if e != nil {
			return nil, bench.Solved, e
		}
		a.Metrics.ObserveRun(k, p.Name, out.Kind.String(), out.Stats.SolveTime)
		if out.Kind.Failed() {
			plog.WithFields(logrus.Fields{
				"outcome": out.Kind,
				"clauses": inst.Len()}).Info("solver failed")
			return nil, out.Kind, nil
		}
		if j == 0 {
			t.Result = out.Result
		}
		t.Stats = append(t.Stats, out.Stats)
		plog.WithFields(logrus.Fields{
			"clauses": inst.Len(),
			"t_solve": out.Stats.SolveTime,
			"result":  out.Result}).Debug("solved")
	}
	a.notify(ctx, log, k, beta, t)
	return t, bench.Solved, nil
}

func (a *Aggregator) notify(ctx context.Context, log logrus.FieldLogger, k int, beta float64, t *Trial) {
	if a.Notify == nil {
		return
	}
	ev := notify.Event{
		Path:      t.Path,
		K:         k,
		Beta:      beta,
		NVars:     t.NVars,
		NClauses:  t.Clauses,
		SolveTime: t.Stats[0].SolveTime,
		Result:    t.Result}
	if e := a.Notify.Notify(ctx, ev); e != nil {
		log.WithError(e).Warn("notification failed")
	}
}

func (a *Aggregator) logger() logrus.FieldLogger {
	if a.Log == nil {
		return logrus.StandardLogger()
	}
	return a.Log
}
