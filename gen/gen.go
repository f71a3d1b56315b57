// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
)

var (
	// ErrResampleExhausted is returned by Sampler.Sample when no clause
	// missing from the clause set was found within the resample cutoff.
	ErrResampleExhausted = errors.New("gen: resample cutoff reached")
	ErrPoolTooSmall      = errors.New("gen: fewer eligible variables than clause width")
	ErrWidth             = errors.New("gen: invalid clause width")
	ErrBias              = errors.New("gen: bias must be in (0, 1]")
	ErrComponents        = errors.New("gen: invalid number of components")
)

// MaxDegree gives the maximum number of clauses a variable of a random k-cnf
// may occur in under the LLL sufficient condition, floor(2^k / (k e)).
func MaxDegree(k int) int {
	if k < 1 {
		return 0
	}
	return int(math.Floor(math.Pow(2, float64(k)) / (float64(k) * math.E)))
}

// Adder is anything which accepts a clause as a zero terminated sequence of
// literals, such as *gini.Gini.
type Adder interface {
	Add(m z.Lit)
}

// Type Clause is a set of literals over distinct variables.  Literals are
// kept sorted so that equal sets have equal representations.
type Clause []z.Lit

// NewClause creates a clause from ms.  ms is not retained.
func NewClause(ms ...z.Lit) Clause {
	c := make(Clause, len(ms))
	copy(c, ms)
	sort.Slice(c, func(i, j int) bool { return c[i] < c[j] })
	return c
}

// Key gives a comparable representation of c.
func (c Clause) Key() string {
	buf := make([]byte, 4*len(c))
	for i, m := range c {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(m))
	}
	return string(buf)
}

// Dimacs returns the literals of c in dimacs form.
func (c Clause) Dimacs() []int {
	res := make([]int, len(c))
	for i, m := range c {
		res[i] = m.Dimacs()
	}
	return res
}

// Check verifies that no literal in c is null and that all literals are
// over distinct variables.
func (c Clause) Check() error {
	for i, m := range c {
		if m == z.LitNull || m.Var() == 0 {
			return fmt.Errorf("null literal at position %d", i)
		}
		for _, o := range c[:i] {
			if o.Var() == m.Var() {
				return fmt.Errorf("variable %d occurs twice", m.Var())
			}
		}
	}
	return nil
}

func (c Clause) String() string {
	return fmt.Sprintf("%v", c.Dimacs())
}

// Type ClauseSet holds distinct clauses in insertion order.
type ClauseSet struct {
	keys map[string]struct{}
	cs   []Clause
}

func NewClauseSet(capHint int) *ClauseSet {
	return &ClauseSet{
		keys: make(map[string]struct{}, capHint),
		cs:   make([]Clause, 0, capHint)}
}

// Has returns whether c is in s.
func (s *ClauseSet) Has(c Clause) bool {
	_, ok := s.keys[c.Key()]
	return ok
}

// Add adds c to s, returning false if c was already present.
func (s *ClauseSet) Add(c Clause) bool {
	k := c.Key()
	if _, ok := s.keys[k]; ok {
		return false
	}
	s.keys[k] = struct{}{}
	s.cs = append(s.cs, c)
	return true
}

func (s *ClauseSet) Len() int {
	return len(s.cs)
}

// Clauses returns the clauses of s in insertion order.  The result
// is shared with s.
func (s *ClauseSet) Clauses() []Clause {
	return s.cs
}
