// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sweep

import (
	"context"
	"math/rand"
	"sync"

	"github.com/go-air/lllsat/bench"
	"github.com/go-air/lllsat/gen"
	"github.com/go-air/lllsat/internal/metrics"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Type Violation records a point whose mean solve time (first profile) is
// smaller than that of the point measured before it at a larger bias.
type Violation struct {
	Beta      float64
	PrevBeta  float64
	SolveTime float64
	PrevTime  float64
}

// Type Series is the result of sweeping the biases for one k.
type Series struct {
	K          int
	Vars       int
	MaxDegree  int
	Profiles   []string
	Points     []Point
	Stopped    bool       // a breaking point was found
	Break      float64    // the breaking bias, if Stopped
	Cause      bench.Kind // why the breaking point was unmeasurable
	Violations []Violation
}

// Type Controller sweeps clause widths and biases.
type Controller struct {
	Agg      *Aggregator
	Ks       []int
	Betas    []float64 // decreasing
	Seed     int64
	Parallel int // number of k swept at once

	// OnSeries, if not nil, is called with each finished series.  Calls
	// are serialized.  An error aborts the run.
	OnSeries func(s *Series) error

	Metrics *metrics.Metrics
	Log     logrus.FieldLogger

	mu sync.Mutex
}

// Run sweeps every k and returns the series in the order of c.Ks.
//
// Breaking points only end the sweep of their k.  Run stops everything on
// the first error from an Aggregator (such as bench.ErrStatsIO), from
// OnSeries or from ctx.
func (c *Controller) Run(ctx context.Context) ([]*Series, error) {
	if len(c.Betas) == 0 {
		return nil, errors.New("sweep: no biases")
	}
	for i := 1; i < len(c.Betas); i++ {
		if c.Betas[i] >= c.Betas[i-1] {
			return nil, errors.Errorf("sweep: biases not decreasing at %d", i)
		}
	}
	res := make([]*Series, len(c.Ks))
	g, gctx := errgroup.WithContext(ctx)
	par := c.Parallel
	if par < 1 {
		par = 1
	}
	g.SetLimit(par)
	for i, k := range c.Ks {
		i, k := i, k
		g.Go(func() error {
			s, e := c.RunK(gctx, k)
			res[i] = s
			if e != nil {
				return errors.Wrapf(e, "k=%d", k)
			}
			return c.handOff(s)
		})
	}
	return res, g.Wait()
}

// RunK sweeps the biases for a single k, using a generator seeded with
// c.Seed + k.
func (c *Controller) RunK(ctx context.Context, k int) (*Series, error) {
	ctx, span := tracer.Start(ctx, "sweep.RunK", trace.WithAttributes(attribute.Int("k", k)))
	defer span.End()

	rng := rand.New(rand.NewSource(c.Seed + int64(k)))
	log := c.logger().WithField("k", k)
	s := &Series{
		K:         k,
		Vars:      c.Agg.Vars,
		MaxDegree: gen.MaxDegree(k),
		Profiles:  c.Agg.ProfileNames()}
	for _, beta := range c.Betas {
		m, e := c.Agg.Measure(ctx, k, beta, rng)
		if e != nil {
			span.SetStatus(codes.Error, e.Error())
			return s, e
		}
		p, ok := m.Point()
		if !ok {
			s.Stopped = true
			s.Break = beta
			s.Cause = m.Cause
			c.Metrics.Break(k, beta)
			log.WithFields(logrus.Fields{
				"beta":   beta,
				"cause":  m.Cause,
				"trials": len(m.Trials)}).Info("breaking point")
			break
		}
		if n := len(s.Points); n > 0 {
			prev := s.Points[n-1]
			if p.SolveTime[0] < prev.SolveTime[0] {
				v := Violation{
					Beta:      beta,
					PrevBeta:  prev.Beta,
					SolveTime: p.SolveTime[0],
					PrevTime:  prev.SolveTime[0]}
				s.Violations = append(s.Violations, v)
				log.WithFields(logrus.Fields{
					"beta":      beta,
					"prev_beta": prev.Beta,
					"t_solve":   v.SolveTime,
					"prev_t":    v.PrevTime}).Warn("solve time decreased with the bias")
			}
		}
		s.Points = append(s.Points, p)
		log.WithFields(logrus.Fields{
			"beta":    beta,
			"clauses": p.Clauses,
			"t_solve": p.SolveTime}).Debug("point")
	}
	span.SetAttributes(
		attribute.Int("points", len(s.Points)),
		attribute.Bool("stopped", s.Stopped))
	return s, nil
}

func (c *Controller) handOff(s *Series) error {
	if c.OnSeries == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.OnSeries(s)
}

func (c *Controller) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}
