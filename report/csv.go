// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-air/lllsat/sweep"
	"github.com/pkg/errors"
)

// BaseName gives the file name, without extension, of the results for s.
func BaseName(s *sweep.Series) string {
	return fmt.Sprintf("analysis_n%d_k%d", s.Vars, s.K)
}

// WriteCSV writes s to w with one row per quantity: the quantity name
// followed by its value at each point.  The rows are
//
//	epsilon, beta, t_<profile>..., m, iterations_<profile>..., break
//
// The break row holds the breaking bias and its cause, and nothing else if
// the sweep was not stopped.
func WriteCSV(w io.Writer, s *sweep.Series) error {
	cw := csv.NewWriter(w)
	row := func(name string, f func(p *sweep.Point) float64) []string {
		r := make([]string, 0, len(s.Points)+1)
		r = append(r, name)
		for i := range s.Points {
			r = append(r, ftoa(f(&s.Points[i])))
		}
		return r
	}
	rows := [][]string{
		row("epsilon", func(p *sweep.Point) float64 { return p.Epsilon }),
		row("beta", func(p *sweep.Point) float64 { return p.Beta })}
	for i, name := range s.Profiles {
		rows = append(rows, row("t_"+name, func(p *sweep.Point) float64 { return p.SolveTime[i] }))
	}
	rows = append(rows, row("m", func(p *sweep.Point) float64 { return p.Clauses }))
	for i, name := range s.Profiles {
		rows = append(rows, row("iterations_"+name, func(p *sweep.Point) float64 { return p.Iterations[i] }))
	}
	brk := []string{"break"}
	if s.Stopped {
		brk = append(brk, ftoa(s.Break), s.Cause.String())
	}
	rows = append(rows, brk)
	cw.WriteAll(rows)
	return cw.Error()
}

// WriteCSVFile writes s to dir/BaseName(s).csv and returns the path.
func WriteCSVFile(dir string, s *sweep.Series) (string, error) {
	p := filepath.Join(dir, BaseName(s)+".csv")
	f, e := os.Create(p)
	if e != nil {
		return "", e
	}
	if e := WriteCSV(f, s); e != nil {
		f.Close()
		return "", errors.Wrapf(e, "writing %s", p)
	}
	return p, f.Close()
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
