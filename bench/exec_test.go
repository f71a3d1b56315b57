// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package bench

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stub solvers; $last is the instance path.
const (
	stubPrelude = "#!/bin/sh\nfor last; do :; done\nbase=\"${last%.cnf}\"\n"
	stubSat     = stubPrelude + "echo \"0.5,10,3,9,1.25,1,7\" > \"$base.csv\"\necho \"s SATISFIABLE\" > \"$base.out\"\nexit 10\n"
	stubUnsat   = stubPrelude + "echo \"0.5,10,3,9,1.25,1,7\" > \"$base.csv\"\nexit 20\n"
	stubSlow    = "#!/bin/sh\nexec sleep 10\n"
	stubGarbage = stubPrelude + "echo \"not a record\" > \"$base.csv\"\nexit 0\n"
	stubSilent  = "#!/bin/sh\nexit 0\n"
	stubArgs    = stubPrelude + "echo \"0,$#,0,0,0,1,0\" > \"$base.csv\"\nexit 0\n"
)

func stub(t *testing.T, script string) (solver, cnf string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub solvers need /bin/sh")
	}
	dir := t.TempDir()
	solver = filepath.Join(dir, "solver.sh")
	require.NoError(t, os.WriteFile(solver, []byte(script), 0755))
	cnf = filepath.Join(dir, "inst.cnf")
	require.NoError(t, os.WriteFile(cnf, []byte("p cnf 1 1\n1 0\n"), 0644))
	return solver, cnf
}

func newTestExec(solver string, to time.Duration) *Exec {
	x := NewExec(solver, nil, to)
	x.Settle = 0
	return x
}

func TestExecSolved(t *testing.T) {
	solver, cnf := stub(t, stubSat)
	out, e := newTestExec(solver, 10*time.Second).Run(context.Background(), cnf)
	require.NoError(t, e)
	assert.Equal(t, Solved, out.Kind)
	assert.Equal(t, 1, out.Result)
	assert.Equal(t, 1.25, out.Stats.SolveTime)
	assert.Equal(t, 7, out.Stats.NIterations)
	a := ArtifactsOf(cnf)
	assert.FileExists(t, a.Cnf)
	assert.FileExists(t, a.Out)
}

func TestExecUnsat(t *testing.T) {
	solver, cnf := stub(t, stubUnsat)
	out, e := newTestExec(solver, 10*time.Second).Run(context.Background(), cnf)
	require.NoError(t, e)
	assert.Equal(t, Solved, out.Kind)
	assert.Equal(t, -1, out.Result)
}

func TestExecTimeout(t *testing.T) {
	solver, cnf := stub(t, stubSlow)
	out, e := newTestExec(solver, 100*time.Millisecond).Run(context.Background(), cnf)
	require.NoError(t, e)
	assert.Equal(t, TimedOut, out.Kind)
	a := ArtifactsOf(cnf)
	assert.NoFileExists(t, a.Cnf)
	assert.NoFileExists(t, a.Stats)
	assert.NoFileExists(t, a.Out)
}

func TestExecMalformedStats(t *testing.T) {
	for _, script := range []string{stubGarbage, stubSilent} {
		solver, cnf := stub(t, script)
		_, e := newTestExec(solver, 10*time.Second).Run(context.Background(), cnf)
		require.ErrorIs(t, e, ErrStatsIO)
		assert.FileExists(t, cnf)
	}
}

func TestExecIterationCap(t *testing.T) {
	solver, cnf := stub(t, stubSat)
	x := newTestExec(solver, 10*time.Second)
	x.MaxIterations = 5
	out, e := x.Run(context.Background(), cnf)
	require.NoError(t, e)
	assert.Equal(t, IterationCapped, out.Kind)
	assert.FileExists(t, ArtifactsOf(cnf).Stats)

	x.MaxIterations = 7
	out, e = x.Run(context.Background(), cnf)
	require.NoError(t, e)
	assert.Equal(t, Solved, out.Kind)
}

func TestExecArgs(t *testing.T) {
	solver, cnf := stub(t, stubArgs)
	x := newTestExec(solver, 10*time.Second)
	x.Args = []string{"-a", "-b"}
	out, e := x.Run(context.Background(), cnf)
	require.NoError(t, e)
	assert.Equal(t, 3, out.Stats.NVars)
	assert.Equal(t, solver+" -a -b "+cnf, x.Cmd(cnf))
}

func TestExecSettleCancel(t *testing.T) {
	solver, cnf := stub(t, stubSat)
	x := newTestExec(solver, 10*time.Second)
	x.Settle = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, e := x.Run(ctx, cnf)
	require.ErrorIs(t, e, context.Canceled)
	assert.NoFileExists(t, ArtifactsOf(cnf).Stats)
}

func TestExitResult(t *testing.T) {
	assert.Equal(t, 1, exitResult(10))
	assert.Equal(t, -1, exitResult(20))
	assert.Equal(t, 0, exitResult(0))
	assert.Equal(t, 0, exitResult(1))
}
