// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"math/rand"

	"github.com/go-air/gini/z"
)

// Type Sampler draws degree aware clauses which are new to a clause set.
type Sampler struct {
	K         int     // clause width
	MaxDegree int     // occurrence bound, see MaxDegree
	Beta      float64 // probability of pruning a variable over the bound
	Cutoff    int     // maximum number of draws per clause

	rng *rand.Rand
	idx []int
	ms  []z.Lit
}

// NewSampler creates a sampler for clauses of width k using rng, which is
// owned by the sampler from then on.
func NewSampler(k int, beta float64, cutoff int, rng *rand.Rand) *Sampler {
	return &Sampler{
		K:         k,
		MaxDegree: MaxDegree(k),
		Beta:      beta,
		Cutoff:    cutoff,
		rng:       rng,
		idx:       make([]int, 0, k),
		ms:        make([]z.Lit, 0, k)}
}

// Sample draws a clause over k distinct variables of p with random signs
// until the clause is not in set and then updates the occurrence counts of p,
// pruning variables over the degree bound with probability s.Beta.
//
// If the cutoff is reached first, Sample returns ErrResampleExhausted and
// leaves p untouched.  The result is not added to set.
func (s *Sampler) Sample(p *Pool, set *ClauseSet) (Clause, error) {
	if s.K < 1 {
		return nil, ErrWidth
	}
	if p.Len() < s.K {
		return nil, ErrPoolTooSmall
	}
	for n := 1; ; n++ {
		c := s.draw(p)
		if !set.Has(c) {
			s.commit(p, c)
			return c, nil
		}
		if n >= s.Cutoff {
			return nil, ErrResampleExhausted
		}
	}
}

// draw picks k distinct positions of p with Floyd's algorithm, so
// that p is not reordered, and signs each variable.
func (s *Sampler) draw(p *Pool) Clause {
	n := p.Len()
	s.idx = s.idx[:0]
	for j := n - s.K; j < n; j++ {
		t := s.rng.Intn(j + 1)
		for _, i := range s.idx {
			if i == t {
				t = j
				break
			}
		}
		s.idx = append(s.idx, t)
	}
	s.ms = s.ms[:0]
	for _, i := range s.idx {
		v := p.vars[i]
		if s.rng.Intn(2) == 0 {
			s.ms = append(s.ms, v.Neg())
		} else {
			s.ms = append(s.ms, v.Pos())
		}
	}
	return NewClause(s.ms...)
}

func (s *Sampler) commit(p *Pool, c Clause) {
	for _, m := range c {
		v := m.Var()
		p.Counts[v]++
		if p.Counts[v] > s.MaxDegree && s.rng.Float64() < s.Beta {
			p.Remove(v)
		}
	}
}
