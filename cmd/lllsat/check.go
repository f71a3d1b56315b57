// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"fmt"

	"github.com/go-air/lllsat/dimacs"
	"github.com/go-air/lllsat/gen"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check file.cnf [file.cnf ...]",
		Short: "Report the size and degree bound of dimacs instances",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-40s %8s %8s %4s %8s %8s %s\n", "file", "vars", "clauses", "k", "max occ", "bound", "holds")
			bad := 0
			for _, p := range args {
				inst, e := dimacs.ReadFile(p)
				if e != nil {
					a.log.WithError(e).Error("check")
					bad++
					continue
				}
				if e := inst.Check(); e != nil {
					a.log.WithField("path", p).WithError(e).Warn("malformed instance")
				}
				holds := "-"
				if inst.K != 0 {
					holds = fmt.Sprintf("%t", inst.WithinBound())
				}
				fmt.Fprintf(w, "%-40s %8d %8d %4d %8d %8d %s\n", rtrunc(p, 40), inst.NVars, inst.Len(),
					inst.K, inst.MaxOccurs(), gen.MaxDegree(inst.K), holds)
			}
			if bad != 0 {
				return errors.Errorf("%d of %d files unreadable", bad, len(args))
			}
			return nil
		},
	}
}

// rtrunc keeps the last n runes of s.
func rtrunc(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[len(rs)-n:])
}
