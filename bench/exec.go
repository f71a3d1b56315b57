// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package bench

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/go-air/lllsat/bench")

// DefaultSettle is the default delay between writing an instance and
// starting a solver on it.
const DefaultSettle = time.Second

// Type Exec runs an external solver as
//
//	Path Args... instance.cnf
//
// and reads the statistics record the solver writes to instance.csv.
type Exec struct {
	Path          string
	Args          []string
	Timeout       time.Duration // per instance
	Settle        time.Duration // wait before starting the solver
	MaxIterations int           // if > 0, more iterations means IterationCapped
	Log           logrus.FieldLogger
}

// NewExec creates an Exec with the default settle delay.
func NewExec(path string, args []string, timeout time.Duration) *Exec {
	return &Exec{
		Path:    path,
		Args:    args,
		Timeout: timeout,
		Settle:  DefaultSettle,
		Log:     logrus.StandardLogger()}
}

// Cmd gives the command line run for the instance at path.
func (x *Exec) Cmd(path string) string {
	parts := append([]string{x.Path}, x.Args...)
	return strings.Join(append(parts, path), " ")
}

// Run implements Runner.
//
// When the timeout expires the solver is killed and the instance with all its
// artifacts are removed.  Artifacts are left in place otherwise.
func (x *Exec) Run(ctx context.Context, path string) (Outcome, error) {
	arts := ArtifactsOf(path)
	ctx, span := tracer.Start(ctx, "bench.Exec.Run", trace.WithAttributes(
		attribute.String("solver", x.Path),
		attribute.String("instance", arts.Cnf)))
	defer span.End()
	log := x.logger().WithField("path", arts.Cnf)

	if e := x.settle(ctx); e != nil {
		return Outcome{}, e
	}
	ictx, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()
	args := append(append([]string{}, x.Args...), arts.Cnf)
	cmd := exec.CommandContext(ictx, x.Path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	start := time.Now()
	e := cmd.Run()
	out := Outcome{Dur: time.Since(start)}
	if cmd.ProcessState != nil {
		out.UDur = cmd.ProcessState.UserTime()
		out.SDur = cmd.ProcessState.SystemTime()
	}
	if ctx.Err() != nil {
		arts.Remove()
		return out, ctx.Err()
	}
	if ictx.Err() == context.DeadlineExceeded {
		log.WithField("timeout", x.Timeout).Info("solver timed out")
		if e := arts.Remove(); e != nil {
			log.WithError(e).Warn("removing artifacts")
		}
		out.Kind = TimedOut
		span.SetAttributes(attribute.String("outcome", out.Kind.String()))
		return out, nil
	}
	if e != nil {
		exitErr, ok := e.(*exec.ExitError)
		if !ok {
			span.SetStatus(codes.Error, e.Error())
			return out, errors.Wrapf(e, "running %s", x.Cmd(arts.Cnf))
		}
		out.Result = exitResult(exitErr.ExitCode())
		if out.Result == 0 {
			log.WithFields(logrus.Fields{
				"exit":   exitErr.ExitCode(),
				"stderr": tail(stderr.String(), 256)}).Debug("solver exited abnormally")
		}
	}
	st, e := ReadStats(arts.Stats)
	if e != nil {
		span.SetStatus(codes.Error, e.Error())
		return out, e
	}
	out.Stats = st
	if x.MaxIterations > 0 && st.NIterations > x.MaxIterations {
		out.Kind = IterationCapped
	}
	span.SetAttributes(
		attribute.String("outcome", out.Kind.String()),
		attribute.Float64("solve_time", st.SolveTime),
		attribute.Int("iterations", st.NIterations))
	return out, nil
}

func (x *Exec) settle(ctx context.Context) error {
	if x.Settle <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(x.Settle)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (x *Exec) logger() logrus.FieldLogger {
	if x.Log == nil {
		return logrus.StandardLogger()
	}
	return x.Log
}

// exitResult maps the sat competition exit codes to a result.
func exitResult(x int) int {
	switch x {
	case 10:
		return 1
	case 20:
		return -1
	}
	return 0
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
