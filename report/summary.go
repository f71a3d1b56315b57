// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package report

import (
	"fmt"
	"strings"

	"github.com/go-air/lllsat/sweep"
)

// Summary produces a table with one line per series.
func Summary(title string, ss []*sweep.Series) string {
	hdr := `
Sweep %s
---------------------------------------------------------------------------------------------
| k    | max deg  | points | stopped | break      | cause    | violations | max m    | max t      |
---------------------------------------------------------------------------------------------`
	rSum := `| %-4d | %-8d | %-6d | %-7t | %-10.4g | %-8s | %-10d | %-8.1f | %-9.3f  |
---------------------------------------------------------------------------------------------`
	parts := make([]string, 0, len(ss)+1)
	parts = append(parts, fmt.Sprintf(hdr, title))
	for _, s := range ss {
		if s == nil {
			continue
		}
		maxM, maxT := 0.0, 0.0
		for _, p := range s.Points {
			if p.Clauses > maxM {
				maxM = p.Clauses
			}
			if len(p.SolveTime) > 0 && p.SolveTime[0] > maxT {
				maxT = p.SolveTime[0]
			}
		}
		brk, cause := 0.0, "-"
		if s.Stopped {
			brk, cause = s.Break, s.Cause.String()
		}
		parts = append(parts, fmt.Sprintf(rSum, s.K, s.MaxDegree, len(s.Points), s.Stopped, brk, cause,
			len(s.Violations), maxM, maxT))
	}
	return strings.Join(parts, "\n")
}
