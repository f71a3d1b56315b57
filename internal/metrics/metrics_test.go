// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New()
	m.ObserveRun(3, "serial", "solved", 0.25)
	m.ObserveRun(3, "serial", "solved", 0.5)
	m.ObserveRun(3, "serial", "timeout", 0)
	m.ObserveInstance(3, 40, false)
	m.ObserveInstance(3, 12, true)
	m.Break(3, 0.125)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.trials.WithLabelValues("3", "serial", "solved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.trials.WithLabelValues("3", "serial", "timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exhaustions.WithLabelValues("3")))
	assert.Equal(t, 0.125, testutil.ToFloat64(m.breaks.WithLabelValues("3")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.solveTime))

	p := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, m.WriteFile(p))
	buf, e := os.ReadFile(p)
	require.NoError(t, e)
	assert.Contains(t, string(buf), `lllsat_runs_total{k="3",outcome="timeout",profile="serial"} 1`)
	assert.Contains(t, string(buf), "lllsat_instance_clauses_count")
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveRun(3, "serial", "solved", 1)
	m.ObserveInstance(3, 1, true)
	m.Break(3, 1)
}
