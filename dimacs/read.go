// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package dimacs

import (
	"fmt"
	"io"
	"os"

	gdimacs "github.com/go-air/gini/dimacs"
	"github.com/go-air/gini/z"
	"github.com/go-air/lllsat/gen"
	"github.com/pkg/errors"
)

// ErrHeader is returned by Read when the problem line is missing or does
// not agree with the clauses.
var ErrHeader = errors.New("dimacs: bad problem line")

// collector receives the callbacks of the gini dimacs reader.
type collector struct {
	header bool
	nv, nc int
	cur    []z.Lit
	cs     []gen.Clause
	maxVar z.Var
}

func (c *collector) Init(v, n int) {
	c.header = true
	c.nv = v
	c.nc = n
	c.cs = make([]gen.Clause, 0, n)
}

func (c *collector) Add(m z.Lit) {
	if m == z.LitNull {
		c.cs = append(c.cs, gen.NewClause(c.cur...))
		c.cur = c.cur[:0]
		return
	}
	if m.Var() > c.maxVar {
		c.maxVar = m.Var()
	}
	c.cur = append(c.cur, m)
}

func (c *collector) Eof() {
	if len(c.cur) != 0 {
		c.cs = append(c.cs, gen.NewClause(c.cur...))
		c.cur = nil
	}
}

// Read reads a dimacs cnf from r.  The problem line must be present and
// must match the number of clauses and the variables used.
func Read(r io.Reader) (*gen.Instance, error) {
	c := &collector{}
	if e := gdimacs.ReadCnf(r, c); e != nil {
		return nil, errors.Wrap(e, "dimacs")
	}
	if !c.header {
		return nil, errors.Wrap(ErrHeader, "missing")
	}
	if len(c.cs) != c.nc {
		return nil, errors.Wrap(ErrHeader, fmt.Sprintf("%d clauses declared, %d read", c.nc, len(c.cs)))
	}
	if int(c.maxVar) > c.nv {
		return nil, errors.Wrap(ErrHeader, fmt.Sprintf("%d variables declared, variable %d used", c.nv, c.maxVar))
	}
	return gen.FromClauses(c.nv, c.cs), nil
}

// ReadFile reads a dimacs cnf file.
func ReadFile(path string) (*gen.Instance, error) {
	f, e := os.Open(path)
	if e != nil {
		return nil, e
	}
	defer f.Close()
	inst, e := Read(f)
	if e != nil {
		return nil, errors.Wrapf(e, "reading %s", path)
	}
	return inst, nil
}
