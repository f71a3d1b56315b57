// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package bench

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStats(t *testing.T) {
	st, e := ParseStats(strings.NewReader("0.5, 10, 3, 9, 1.25, 4, 7\n"))
	require.NoError(t, e)
	assert.Equal(t, Stats{
		ReadTime:    0.5,
		NVars:       10,
		NClauses:    3,
		NLiterals:   9,
		SolveTime:   1.25,
		NThreads:    4,
		NIterations: 7}, st)
}

func TestParseStatsMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"garbage\n",
		"0.5,10,3,9,1.25,4\n",
		"0.5,10,3,9,1.25,4,7,8\n",
		"0.5,ten,3,9,1.25,4,7\n",
		"0.5,10,3,9,fast,4,7\n",
	} {
		_, e := ParseStats(strings.NewReader(in))
		assert.Error(t, e, "%q", in)
	}
}

func TestReadStatsIO(t *testing.T) {
	dir := t.TempDir()
	_, e := ReadStats(filepath.Join(dir, "missing.csv"))
	require.ErrorIs(t, e, ErrStatsIO)
	assert.True(t, os.IsNotExist(e.(*StatsError).Err))

	p := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(p, []byte("1,2,3\n"), 0644))
	_, e = ReadStats(p)
	require.ErrorIs(t, e, ErrStatsIO)
	assert.Contains(t, e.Error(), p)
}

func TestWriteStats(t *testing.T) {
	p := filepath.Join(t.TempDir(), "x.csv")
	want := Stats{ReadTime: 0.25, NVars: 20, NClauses: 7, NLiterals: 21, SolveTime: 3.5, NThreads: 1}
	require.NoError(t, WriteStats(p, want))
	got, e := ReadStats(p)
	require.NoError(t, e)
	assert.Equal(t, want, got)
}

func TestArtifacts(t *testing.T) {
	dir := t.TempDir()
	a := ArtifactsOf(filepath.Join(dir, "inst.cnf"))
	assert.Equal(t, a, ArtifactsOf(filepath.Join(dir, "inst")))
	assert.Equal(t, filepath.Join(dir, "inst.csv"), a.Stats)
	assert.Equal(t, filepath.Join(dir, "inst.out"), a.Out)

	for _, p := range []string{a.Cnf, a.Stats} {
		require.NoError(t, os.WriteFile(p, nil, 0644))
	}
	require.NoError(t, a.RemoveOutputs())
	assert.FileExists(t, a.Cnf)
	assert.NoFileExists(t, a.Stats)
	require.NoError(t, a.Remove())
	assert.NoFileExists(t, a.Cnf)
}

func TestKind(t *testing.T) {
	assert.False(t, Solved.Failed())
	assert.True(t, TimedOut.Failed())
	assert.True(t, IterationCapped.Failed())
	assert.Equal(t, "timeout", TimedOut.String())
	assert.Equal(t, "capped", IterationCapped.String())
}
