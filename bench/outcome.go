// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package bench

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// Type Kind classifies how a solver run ended.
type Kind int

const (
	Solved Kind = iota
	TimedOut
	IterationCapped
)

func (k Kind) String() string {
	switch k {
	case Solved:
		return "solved"
	case TimedOut:
		return "timeout"
	case IterationCapped:
		return "capped"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Failed returns whether k means the configuration can no longer be
// measured.
func (k Kind) Failed() bool {
	return k != Solved
}

// Type Outcome is the result of running a solver on one instance.
type Outcome struct {
	Kind   Kind
	Result int // 1 sat, -1 unsat, 0 unknown
	Stats  Stats
	Dur    time.Duration // wall clock
	UDur   time.Duration // user time
	SDur   time.Duration // system time
}

// Runner runs a solver on the dimacs file at path, which ends in ".cnf".
//
// Run returns an error only when the run says nothing about the difficulty of
// the instance: a *StatsError, a failure to start the solver or a cancelled
// ctx.
type Runner interface {
	Run(ctx context.Context, path string) (Outcome, error)
}

// Type Artifacts names the files belonging to one instance.
type Artifacts struct {
	Cnf   string // the instance
	Stats string // statistics record written by the solver
	Out   string // solution written by the solver
}

// ArtifactsOf gives the artifacts of the instance at path, with or without
// its ".cnf" extension.
func ArtifactsOf(path string) Artifacts {
	base := strings.TrimSuffix(path, ".cnf")
	return Artifacts{
		Cnf:   base + ".cnf",
		Stats: base + ".csv",
		Out:   base + ".out"}
}

// Remove removes all artifacts, ignoring those which do not exist.
func (a Artifacts) Remove() error {
	var first error
	for _, p := range []string{a.Cnf, a.Stats, a.Out} {
		if e := os.Remove(p); e != nil && !os.IsNotExist(e) && first == nil {
			first = e
		}
	}
	return first
}

// RemoveOutputs removes the statistics and solution files.
func (a Artifacts) RemoveOutputs() error {
	var first error
	for _, p := range []string{a.Stats, a.Out} {
		if e := os.Remove(p); e != nil && !os.IsNotExist(e) && first == nil {
			first = e
		}
	}
	return first
}
