// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-air/lllsat/sweep"
)

const ticks = "★☆◇Ω▽♠✠♡☼¤"

// Title gives the plot title of s.
func Title(s *sweep.Series) string {
	return fmt.Sprintf("n = %d, k = %d, eps_max = %g", s.Vars, s.K, EpsMax(s))
}

// EpsMax gives the largest epsilon tried for s: that of the breaking
// point if there is one, else that of the last point.
func EpsMax(s *sweep.Series) float64 {
	if s.Stopped {
		return 1 - s.Break
	}
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].Epsilon
}

// Plot returns a text plot of solve time over clause count for every
// profile of s, with 2n columns and n rows, making up for the width/height
// ratio of most monospaced fonts.  Where profiles share a cell, the first
// one is shown.
func Plot(s *sweep.Series, n int) string {
	if n < 2 {
		n = 2
	}
	grid := make([][]rune, n)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", 2*n))
	}
	maxM, maxT := 0.0, 0.0
	for _, p := range s.Points {
		if p.Clauses > maxM {
			maxM = p.Clauses
		}
		for _, t := range p.SolveTime {
			if t > maxT {
				maxT = t
			}
		}
	}
	tickRunes := []rune(ticks)
	for pi := len(s.Profiles) - 1; pi >= 0; pi-- {
		tick := tickRunes[pi%len(tickRunes)]
		for _, p := range s.Points {
			x := scale(p.Clauses, maxM, 2*n-1)
			y := scale(p.SolveTime[pi], maxT, n-1)
			grid[n-1-y][x] = tick
		}
	}
	ts := fmt.Sprintf("%.2f", maxT)
	pad := strings.Repeat(" ", len(ts))
	lines := make([]string, 0, n+4)
	lines = append(lines, Title(s))
	for i, row := range grid {
		lbl := pad
		switch i {
		case 0:
			lbl = ts
		case n - 1:
			lbl = fmt.Sprintf("%*s", len(ts), "0")
		}
		lines = append(lines, fmt.Sprintf("%s|%s", lbl, strings.TrimRight(string(row), " ")))
	}
	lines = append(lines, pad+"+"+strings.Repeat("-", 2*n))
	ms := fmt.Sprintf("%.0f m", maxM)
	lines = append(lines, fmt.Sprintf("%s 0%s%s", pad, strings.Repeat(" ", max(1, 2*n-1-utf8.RuneCountInString(ms))), ms))
	for pi, name := range s.Profiles {
		lines = append(lines, fmt.Sprintf("%s\t%c - %s", pad, tickRunes[pi%len(tickRunes)], name))
	}
	if s.Stopped {
		lines = append(lines, fmt.Sprintf("%s\tbroken at beta = %g (%s)", pad, s.Break, s.Cause))
	}
	return strings.Join(lines, "\n") + "\n"
}

// WritePlotFile writes Plot(s, n) to dir/BaseName(s).txt and returns the path.
func WritePlotFile(dir string, s *sweep.Series, n int) (string, error) {
	p := filepath.Join(dir, BaseName(s)+".txt")
	return p, os.WriteFile(p, []byte(Plot(s, n)), 0644)
}

func scale(v, max float64, n int) int {
	if max <= 0 {
		return 0
	}
	i := int(v / max * float64(n))
	if i > n {
		i = n
	}
	if i < 0 {
		i = 0
	}
	return i
}
