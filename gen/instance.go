// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"fmt"

	"github.com/go-air/gini/z"
)

// Type Instance is a generated (or read) cnf.
type Instance struct {
	K         int     // clause width, 0 if clauses have different widths
	NVars     int     // number of variables declared
	Beta      float64 // bias used to build the instance, 0 if unknown
	MaxDegree int     // MaxDegree(K)
	Clauses   []Clause
	Counts    []int // Counts[v] is the number of clauses v occurs in
	Remaining int   // eligible variables left when building stopped
	Truncated bool  // building stopped at the resample cutoff
}

// FromClauses creates an instance over nVars variables from cs,
// computing the clause width and occurrence counts.
func FromClauses(nVars int, cs []Clause) *Instance {
	inst := &Instance{
		NVars:   nVars,
		Clauses: cs,
		Counts:  make([]int, nVars+1)}
	for i, c := range cs {
		if i == 0 {
			inst.K = len(c)
		} else if len(c) != inst.K {
			inst.K = 0
		}
		for _, m := range c {
			v := int(m.Var())
			for v >= len(inst.Counts) {
				inst.Counts = append(inst.Counts, 0)
			}
			inst.Counts[v]++
		}
	}
	inst.MaxDegree = MaxDegree(inst.K)
	return inst
}

// Len returns the number of clauses.
func (inst *Instance) Len() int {
	return len(inst.Clauses)
}

// Literals returns the total number of literal occurrences.
func (inst *Instance) Literals() int {
	n := 0
	for _, c := range inst.Clauses {
		n += len(c)
	}
	return n
}

// MaxOccurs returns the largest occurrence count of any variable.
func (inst *Instance) MaxOccurs() int {
	m := 0
	for _, n := range inst.Counts {
		if n > m {
			m = n
		}
	}
	return m
}

// WithinBound returns whether no variable occurs in more than MaxDegree
// clauses.
func (inst *Instance) WithinBound() bool {
	return inst.MaxOccurs() <= inst.MaxDegree
}

// AddTo adds the clauses of inst to dst, each terminated by z.LitNull.
func (inst *Instance) AddTo(dst Adder) {
	for _, c := range inst.Clauses {
		for _, m := range c {
			dst.Add(m)
		}
		dst.Add(z.LitNull)
	}
}

// Compact returns an instance in which the variables occurring in inst are
// renumbered 1..n' in increasing order and unused variables are dropped.
func (inst *Instance) Compact() *Instance {
	remap := make([]z.Var, len(inst.Counts))
	n := 0
	for v, ct := range inst.Counts {
		if v == 0 || ct == 0 {
			continue
		}
		n++
		remap[v] = z.Var(n)
	}
	cs := make([]Clause, len(inst.Clauses))
	ms := make([]z.Lit, 0, inst.K)
	for i, c := range inst.Clauses {
		ms = ms[:0]
		for _, m := range c {
			w := remap[m.Var()]
			if m.IsPos() {
				ms = append(ms, w.Pos())
			} else {
				ms = append(ms, w.Neg())
			}
		}
		cs[i] = NewClause(ms...)
	}
	res := FromClauses(n, cs)
	res.Beta = inst.Beta
	res.Remaining = inst.Remaining
	res.Truncated = inst.Truncated
	return res
}

// Check verifies the structural invariants of inst: every clause has K
// distinct variables in 1..NVars and no clause occurs twice.
func (inst *Instance) Check() error {
	seen := make(map[string]struct{}, len(inst.Clauses))
	for i, c := range inst.Clauses {
		if inst.K != 0 && len(c) != inst.K {
			return fmt.Errorf("clause %d %s: width %d != %d", i, c, len(c), inst.K)
		}
		if e := c.Check(); e != nil {
			return fmt.Errorf("clause %d %s: %s", i, c, e)
		}
		for _, m := range c {
			if int(m.Var()) > inst.NVars {
				return fmt.Errorf("clause %d %s: variable %d > %d", i, c, m.Var(), inst.NVars)
			}
		}
		k := c.Key()
		if _, ok := seen[k]; ok {
			return fmt.Errorf("clause %d %s: duplicate", i, c)
		}
		seen[k] = struct{}{}
	}
	return nil
}
