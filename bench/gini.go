// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package bench

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	"github.com/go-air/lllsat/dimacs"
	"github.com/go-air/lllsat/gen"
	"github.com/pkg/errors"
)

// Type Gini solves instances in process with the gini solver.
//
// Gini follows the external solver contract: it writes the statistics
// record and the solution next to the instance.  Times are in seconds.
// Gini does not report iterations, so NIterations is always 0.
type Gini struct {
	Timeout time.Duration
	Poll    time.Duration // how often to check for a result, default 2ms
}

// NewGini creates a Gini runner with instance timeout to.
func NewGini(to time.Duration) *Gini {
	return &Gini{Timeout: to, Poll: 2 * time.Millisecond}
}

// Run implements Runner.
func (g *Gini) Run(ctx context.Context, path string) (Outcome, error) {
	arts := ArtifactsOf(path)
	_, span := tracer.Start(ctx, "bench.Gini.Run")
	defer span.End()

	start := time.Now()
	inst, e := dimacs.ReadFile(arts.Cnf)
	if e != nil {
		return Outcome{}, e
	}
	s := gini.NewVc(inst.NVars, inst.Len())
	inst.AddTo(s)
	tRead := time.Since(start)

	solveStart := time.Now()
	res, timedOut, e := g.solve(ctx, s)
	tSolve := time.Since(solveStart)
	out := Outcome{Dur: time.Since(start), Result: res}
	if e != nil {
		arts.Remove()
		return out, e
	}
	if timedOut {
		out.Kind = TimedOut
		arts.Remove()
		return out, nil
	}
	out.Stats = Stats{
		ReadTime:  tRead.Seconds(),
		NVars:     inst.NVars,
		NClauses:  inst.Len(),
		NLiterals: inst.Literals(),
		SolveTime: tSolve.Seconds(),
		NThreads:  1}
	if e := WriteStats(arts.Stats, out.Stats); e != nil {
		return out, &StatsError{Path: arts.Stats, Err: e}
	}
	if e := writeSolution(arts.Out, res, s, inst); e != nil {
		return out, errors.Wrapf(e, "writing %s", arts.Out)
	}
	return out, nil
}

func (g *Gini) solve(ctx context.Context, s *gini.Gini) (res int, timedOut bool, err error) {
	poll := g.Poll
	if poll <= 0 {
		poll = 2 * time.Millisecond
	}
	ctl := s.GoSolve()
	alarm := time.NewTimer(g.Timeout)
	defer alarm.Stop()
	tick := time.NewTicker(poll)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			if r, done := ctl.Test(); done {
				return r, false, nil
			}
		case <-alarm.C:
			r := ctl.Stop()
			return r, r == 0, nil
		case <-ctx.Done():
			ctl.Stop()
			return 0, false, ctx.Err()
		}
	}
}

func writeSolution(path string, res int, s *gini.Gini, inst *gen.Instance) error {
	f, e := os.Create(path)
	if e != nil {
		return e
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	switch res {
	case 1:
		fmt.Fprintf(w, "s SATISFIABLE\nv")
		mv := s.MaxVar()
		for i := 1; i <= inst.NVars; i++ {
			m := z.Var(i).Pos()
			if z.Var(i) <= mv && !s.Value(m) {
				m = m.Not()
			}
			fmt.Fprintf(w, " %d", m.Dimacs())
		}
		fmt.Fprintf(w, " 0\n")
	case -1:
		fmt.Fprintf(w, "s UNSATISFIABLE\n")
	default:
		fmt.Fprintf(w, "s UNKNOWN\n")
	}
	return w.Flush()
}
