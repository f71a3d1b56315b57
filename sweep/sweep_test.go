// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sweep

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-air/lllsat/bench"
	"github.com/go-air/lllsat/dimacs"
	"github.com/go-air/lllsat/notify"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clauseRunner is a solver whose solve time is the number of clauses of the
// instance, or base minus that number if base is set.
type clauseRunner struct {
	base float64
}

func (r clauseRunner) Run(ctx context.Context, path string) (bench.Outcome, error) {
	inst, e := dimacs.ReadFile(path)
	if e != nil {
		return bench.Outcome{}, e
	}
	t := float64(inst.Len())
	if r.base != 0 {
		t = r.base - t
	}
	return bench.Outcome{
		Kind:   bench.Solved,
		Result: 1,
		Stats: bench.Stats{
			NVars:       inst.NVars,
			NClauses:    inst.Len(),
			NLiterals:   inst.Literals(),
			SolveTime:   t,
			NThreads:    1,
			NIterations: inst.Len()}}, nil
}

// scriptRunner returns the kinds in script, then Solved.
type scriptRunner struct {
	mu     sync.Mutex
	script []bench.Kind
	calls  int
}

func (r *scriptRunner) Run(ctx context.Context, path string) (bench.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kind := bench.Solved
	if r.calls < len(r.script) {
		kind = r.script[r.calls]
	}
	r.calls++
	if kind == bench.TimedOut {
		bench.ArtifactsOf(path).Remove()
	}
	return bench.Outcome{Kind: kind, Stats: bench.Stats{SolveTime: 1, NIterations: 1}}, nil
}

func failing(n int, kind bench.Kind, ok int) []bench.Kind {
	res := make([]bench.Kind, 0, ok+n)
	for i := 0; i < ok; i++ {
		res = append(res, bench.Solved)
	}
	for i := 0; i < n; i++ {
		res = append(res, kind)
	}
	return res
}

type statsRunner struct{}

func (statsRunner) Run(ctx context.Context, path string) (bench.Outcome, error) {
	return bench.Outcome{}, &bench.StatsError{Path: path, Err: fmt.Errorf("field 1: bad")}
}

func quiet() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

func newAgg(t *testing.T, trials int, ps ...Profile) *Aggregator {
	a := NewAggregator(20, t.TempDir(), ps...)
	a.Cutoff = 1000
	a.Trials = trials
	a.Log = quiet()
	return a
}

func rng() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestBetas(t *testing.T) {
	bs := Betas(3, 0.01)
	require.Len(t, bs, 3)
	assert.Equal(t, 1.0, bs[0])
	assert.InDelta(t, 0.1, bs[1], 1e-12)
	assert.Equal(t, 0.01, bs[2])

	bs = Betas(100, 0.01)
	require.Len(t, bs, 100)
	for i := 1; i < len(bs); i++ {
		assert.Less(t, bs[i], bs[i-1])
	}
	assert.Equal(t, []float64{1}, Betas(1, 0.5))
	assert.Nil(t, Betas(0, 0.5))
	assert.Nil(t, Betas(3, 0))
	assert.Nil(t, Betas(3, 1.5))
}

func TestMeasurePoint(t *testing.T) {
	a := newAgg(t, 4, Profile{Name: "serial", Runner: clauseRunner{}})
	m, e := a.Measure(context.Background(), 3, 1, rng())
	require.NoError(t, e)
	assert.False(t, m.Broken)
	require.Len(t, m.Trials, 4)

	// with k=3 and beta 1 each clause takes 3 variables out of the pool,
	// so 20 variables always give 6 clauses.
	p, ok := m.Point()
	require.True(t, ok)
	assert.Equal(t, 4, p.Trials)
	assert.Equal(t, 6.0, p.Clauses)
	assert.Equal(t, []float64{6}, p.SolveTime)
	assert.Equal(t, []float64{6}, p.Iterations)
	assert.Equal(t, 0.0, p.Epsilon)

	left, e := os.ReadDir(a.Dir)
	require.NoError(t, e)
	assert.Empty(t, left)
}

func TestMeasureKeepArtifacts(t *testing.T) {
	a := newAgg(t, 3, Profile{Name: "serial", Runner: clauseRunner{}})
	a.KeepArtifacts = true
	m, e := a.Measure(context.Background(), 3, 1, rng())
	require.NoError(t, e)
	for _, tr := range m.Trials {
		assert.FileExists(t, tr.Path)
	}
	left, e := os.ReadDir(a.Dir)
	require.NoError(t, e)
	assert.Len(t, left, 3)
}

func TestMeasureAlwaysTimeout(t *testing.T) {
	r := &scriptRunner{script: failing(100, bench.TimedOut, 0)}
	a := newAgg(t, 10, Profile{Name: "serial", Runner: r})
	m, e := a.Measure(context.Background(), 3, 1, rng())
	require.NoError(t, e)
	assert.True(t, m.Broken)
	assert.Equal(t, bench.TimedOut, m.Cause)
	assert.Empty(t, m.Trials)
	_, ok := m.Point()
	assert.False(t, ok)
	left, e := os.ReadDir(a.Dir)
	require.NoError(t, e)
	assert.Empty(t, left)
}

func TestMeasureBrokenAfterTrials(t *testing.T) {
	r := &scriptRunner{script: failing(1, bench.IterationCapped, 2)}
	a := newAgg(t, 10, Profile{Name: "serial", Runner: r})
	m, e := a.Measure(context.Background(), 3, 1, rng())
	require.NoError(t, e)
	assert.True(t, m.Broken)
	assert.Equal(t, bench.IterationCapped, m.Cause)
	assert.Len(t, m.Trials, 2)
	_, ok := m.Point()
	assert.False(t, ok, "a broken measurement must not be averaged")
	// capped instances are kept.
	left, e := os.ReadDir(a.Dir)
	require.NoError(t, e)
	assert.Len(t, left, 1)
}

func TestMeasureMaxFailures(t *testing.T) {
	r := &scriptRunner{script: []bench.Kind{bench.TimedOut, bench.Solved, bench.TimedOut}}
	a := newAgg(t, 3, Profile{Name: "serial", Runner: r})
	a.MaxFailures = 3
	m, e := a.Measure(context.Background(), 3, 1, rng())
	require.NoError(t, e)
	assert.False(t, m.Broken)
	assert.Equal(t, 2, m.Failures)
	assert.Len(t, m.Trials, 3)
	assert.Equal(t, 5, r.calls)
}

func TestMeasureStatsIO(t *testing.T) {
	a := newAgg(t, 3, Profile{Name: "serial", Runner: statsRunner{}})
	_, e := a.Measure(context.Background(), 3, 1, rng())
	require.ErrorIs(t, e, bench.ErrStatsIO)
}

func TestMeasureProfiles(t *testing.T) {
	a := newAgg(t, 2,
		Profile{Name: "serial", Runner: clauseRunner{}},
		Profile{Name: "parallel", Runner: clauseRunner{base: 100}})
	m, e := a.Measure(context.Background(), 3, 1, rng())
	require.NoError(t, e)
	p, ok := m.Point()
	require.True(t, ok)
	assert.Equal(t, []float64{6, 94}, p.SolveTime)
	assert.Equal(t, []string{"serial", "parallel"}, m.Profiles)

	// a failing second profile fails the trial.
	r := &scriptRunner{script: failing(1, bench.TimedOut, 0)}
	a = newAgg(t, 2,
		Profile{Name: "serial", Runner: clauseRunner{}},
		Profile{Name: "parallel", Runner: r})
	m, e = a.Measure(context.Background(), 3, 1, rng())
	require.NoError(t, e)
	assert.True(t, m.Broken)
	assert.Empty(t, m.Trials)
}

func TestMeasureNoProfiles(t *testing.T) {
	a := newAgg(t, 2)
	_, e := a.Measure(context.Background(), 3, 1, rng())
	assert.Error(t, e)
}

type events struct {
	mu  sync.Mutex
	evs []notify.Event
}

func (s *events) Notify(ctx context.Context, ev notify.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evs = append(s.evs, ev)
	return fmt.Errorf("sink down")
}

func TestMeasureNotify(t *testing.T) {
	sink := &events{}
	a := newAgg(t, 3, Profile{Name: "serial", Runner: clauseRunner{}})
	a.Notify = sink
	m, e := a.Measure(context.Background(), 3, 1, rng())
	require.NoError(t, e, "sink errors are not measurement errors")
	require.Len(t, sink.evs, 3)
	assert.Equal(t, m.Trials[0].Path, sink.evs[0].Path)
	assert.Equal(t, 6, sink.evs[0].NClauses)
	assert.Equal(t, 6.0, sink.evs[0].SolveTime)
}

func TestControllerMonotone(t *testing.T) {
	a := newAgg(t, 10, Profile{Name: "serial", Runner: clauseRunner{}})
	c := &Controller{
		Agg:   a,
		Ks:    []int{3},
		Betas: []float64{1, 0.1, 0.01},
		Seed:  3,
		Log:   quiet()}
	ss, e := c.Run(context.Background())
	require.NoError(t, e)
	require.Len(t, ss, 1)
	s := ss[0]
	assert.False(t, s.Stopped)
	require.Len(t, s.Points, 3)
	assert.Empty(t, s.Violations)
	for i := 1; i < len(s.Points); i++ {
		assert.GreaterOrEqual(t, s.Points[i].SolveTime[0], s.Points[i-1].SolveTime[0])
	}
}

func TestControllerViolations(t *testing.T) {
	log, hook := test.NewNullLogger()
	a := newAgg(t, 10, Profile{Name: "serial", Runner: clauseRunner{base: 100000}})
	c := &Controller{
		Agg:   a,
		Ks:    []int{3},
		Betas: []float64{1, 0.01},
		Seed:  3,
		Log:   log}
	ss, e := c.Run(context.Background())
	require.NoError(t, e)
	s := ss[0]
	require.Len(t, s.Violations, 1)
	assert.Equal(t, 0.01, s.Violations[0].Beta)
	assert.Equal(t, 1.0, s.Violations[0].PrevBeta)
	warned := false
	for _, en := range hook.AllEntries() {
		if en.Level == logrus.WarnLevel {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestControllerEarlyStop(t *testing.T) {
	r := &scriptRunner{script: failing(1, bench.TimedOut, 4)}
	a := newAgg(t, 2, Profile{Name: "serial", Runner: r})
	var handed []*Series
	c := &Controller{
		Agg:   a,
		Ks:    []int{3},
		Betas: []float64{1, 0.5, 0.25, 0.125},
		Log:   quiet(),
		OnSeries: func(s *Series) error {
			handed = append(handed, s)
			return nil
		}}
	ss, e := c.Run(context.Background())
	require.NoError(t, e)
	s := ss[0]
	assert.Len(t, s.Points, 2)
	assert.True(t, s.Stopped)
	assert.Equal(t, 0.25, s.Break)
	assert.Equal(t, bench.TimedOut, s.Cause)
	assert.Equal(t, 5, r.calls, "no bias below the breaking point is tried")
	require.Len(t, handed, 1)
	assert.Same(t, s, handed[0])
}

func TestControllerStatsIOAborts(t *testing.T) {
	a := newAgg(t, 2, Profile{Name: "serial", Runner: statsRunner{}})
	c := &Controller{
		Agg:   a,
		Ks:    []int{3, 4},
		Betas: []float64{1, 0.5},
		Log:   quiet()}
	_, e := c.Run(context.Background())
	require.ErrorIs(t, e, bench.ErrStatsIO)
}

func TestControllerBetasOrder(t *testing.T) {
	a := newAgg(t, 2, Profile{Name: "serial", Runner: clauseRunner{}})
	_, e := (&Controller{Agg: a, Ks: []int{3}, Betas: []float64{0.5, 1}}).Run(context.Background())
	assert.Error(t, e)
	_, e = (&Controller{Agg: a, Ks: []int{3}}).Run(context.Background())
	assert.Error(t, e)
}

func TestControllerParallelReproducible(t *testing.T) {
	run := func(par int) []*Series {
		a := newAgg(t, 2, Profile{Name: "serial", Runner: clauseRunner{}})
		n := 0
		c := &Controller{
			Agg:      a,
			Ks:       []int{3, 4, 5},
			Betas:    []float64{1, 0.5},
			Seed:     11,
			Parallel: par,
			Log:      quiet(),
			OnSeries: func(*Series) error {
				n++
				return nil
			}}
		ss, e := c.Run(context.Background())
		require.NoError(t, e)
		assert.Equal(t, 3, n)
		return ss
	}
	serial, parallel := run(1), run(3)
	require.Len(t, parallel, 3)
	for i := range serial {
		assert.Equal(t, []int{3, 4, 5}[i], parallel[i].K)
		if d := cmp.Diff(serial[i].Points, parallel[i].Points); d != "" {
			t.Errorf("k=%d points differ (-serial +parallel):\n%s", serial[i].K, d)
		}
	}
}

func TestControllerGini(t *testing.T) {
	a := newAgg(t, 2, Profile{Name: "gini", Runner: bench.NewGini(10 * time.Second)})
	a.Vars = 30
	c := &Controller{
		Agg:   a,
		Ks:    []int{3},
		Betas: []float64{1, 0.5},
		Log:   quiet()}
	ss, e := c.Run(context.Background())
	require.NoError(t, e)
	assert.Len(t, ss[0].Points, 2)
	assert.Equal(t, 30, ss[0].Vars)
}

func TestControllerCancel(t *testing.T) {
	a := newAgg(t, 2, Profile{Name: "serial", Runner: bench.NewExec("/nonexistent", nil, time.Second)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &Controller{Agg: a, Ks: []int{3}, Betas: []float64{1}, Log: quiet()}
	_, e := c.Run(ctx)
	require.ErrorIs(t, e, context.Canceled)
}
