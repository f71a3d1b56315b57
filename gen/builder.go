// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"math/rand"

	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
)

// Type Builder builds instances of one clause width and bias.
type Builder struct {
	K          int
	Beta       float64
	Cutoff     int
	Components int // number of disjoint variable blocks, 1 if < 2

	rng *rand.Rand
}

// NewBuilder creates a builder whose random source is seeded with seed.
func NewBuilder(k int, beta float64, cutoff int, seed int64) *Builder {
	return NewBuilderRand(k, beta, cutoff, rand.New(rand.NewSource(seed)))
}

// NewBuilderRand is like NewBuilder but takes ownership of rng.
func NewBuilderRand(k int, beta float64, cutoff int, rng *rand.Rand) *Builder {
	return &Builder{
		K:          k,
		Beta:       beta,
		Cutoff:     cutoff,
		Components: 1,
		rng:        rng}
}

// Build builds an instance over variables 1..n.
//
// Clauses are requested while there are more than k eligible variables.  If
// the sampler gives up on finding a new clause, the instance built so far is
// returned with Truncated set.
func (b *Builder) Build(n int) (*Instance, error) {
	if b.K < 1 || b.K > n {
		return nil, errors.Wrapf(ErrWidth, "k=%d n=%d", b.K, n)
	}
	if !(b.Beta > 0 && b.Beta <= 1) {
		return nil, errors.Wrapf(ErrBias, "beta=%g", b.Beta)
	}
	c := b.Components
	if c < 2 {
		c = 1
	}
	if c > 1 && n/c <= b.K {
		return nil, errors.Wrapf(ErrComponents, "%d blocks of %d variables for k=%d", c, n/c, b.K)
	}
	inst := &Instance{
		K:         b.K,
		NVars:     n,
		Beta:      b.Beta,
		MaxDegree: MaxDegree(b.K),
		Counts:    make([]int, n+1)}
	set := NewClauseSet(n)
	s := NewSampler(b.K, b.Beta, b.Cutoff, b.rng)
	lo := 1
	for i := 0; i < c; i++ {
		sz := n / c
		if i < n%c {
			sz++
		}
		p := newPoolRange(inst.Counts, z.Var(lo), z.Var(lo+sz-1))
		lo += sz
		truncated, e := b.fill(s, p, set)
		if e != nil {
			return nil, e
		}
		inst.Truncated = inst.Truncated || truncated
		inst.Remaining += p.Len()
	}
	inst.Clauses = set.Clauses()
	return inst, nil
}

func (b *Builder) fill(s *Sampler, p *Pool, set *ClauseSet) (truncated bool, err error) {
	for b.K < p.Len() {
		c, e := s.Sample(p, set)
		if e == ErrResampleExhausted {
			return true, nil
		}
		if e != nil {
			return false, e
		}
		set.Add(c)
	}
	return false, nil
}
