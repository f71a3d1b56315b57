// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import "github.com/go-air/gini/z"

// Type Pool holds the variables which may still be sampled into new
// clauses together with the occurrence count of every variable.
//
// Variables are only ever removed from a pool.
type Pool struct {
	Counts []int // Counts[v] is the number of clauses v occurs in.
	vars   []z.Var
	pos    []int // pos[v] is the index of v in vars, or -1
}

// NewPool creates a pool holding variables 1..n.
func NewPool(n int) *Pool {
	return newPoolRange(make([]int, n+1), 1, z.Var(n))
}

// newPoolRange creates a pool holding variables lo..hi which
// shares counts.
func newPoolRange(counts []int, lo, hi z.Var) *Pool {
	p := &Pool{
		Counts: counts,
		vars:   make([]z.Var, 0, int(hi-lo)+1),
		pos:    make([]int, len(counts))}
	for i := range p.pos {
		p.pos[i] = -1
	}
	for v := lo; v <= hi; v++ {
		p.pos[v] = len(p.vars)
		p.vars = append(p.vars, v)
	}
	return p
}

// Len returns the number of eligible variables.
func (p *Pool) Len() int {
	return len(p.vars)
}

// Has returns whether v is eligible.
func (p *Pool) Has(v z.Var) bool {
	return int(v) < len(p.pos) && p.pos[v] != -1
}

// Remove removes v from the pool, returning whether it was present.
func (p *Pool) Remove(v z.Var) bool {
	if !p.Has(v) {
		return false
	}
	i := p.pos[v]
	last := len(p.vars) - 1
	w := p.vars[last]
	p.vars[i] = w
	p.pos[w] = i
	p.vars = p.vars[:last]
	p.pos[v] = -1
	return true
}

// Vars returns a copy of the eligible variables, in no particular order.
func (p *Pool) Vars() []z.Var {
	res := make([]z.Var, len(p.vars))
	copy(res, p.vars)
	return res
}
