// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newGenCmd(a *app) *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "gen [flags]",
		Short: "Generate and solve instances until interrupted",
		Long: `gen repeatedly generates a random k-cnf with bias beta and runs the
solver on it.  Solved instances are kept in dir, timed out ones removed.
With an e-mail address, a summary of the solved instances is mailed each
time their solve times add up to the notification threshold.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if e := a.overlay(cmd.Flags()); e != nil {
				return e
			}
			if cmd.Flags().Changed("k") {
				a.cfg.KMin, a.cfg.KMax = k, k
			}
			return a.cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.gen(cmd)
		},
	}
	fs := cmd.Flags()
	c := a.cfg
	a.addRunFlags(fs)
	fs.IntVarP(&k, "k", "k", c.KMin, "clause width")
	fs.Float64VarP(&c.Beta, "beta", "b", c.Beta, "bias with which variables over the degree bound are pruned")
	fs.IntVar(&c.Count, "count", c.Count, "number of instances, 0 until interrupted")
	return cmd
}

func (a *app) gen(cmd *cobra.Command) error {
	c := a.cfg
	agg, e := a.aggregator(c.Dir)
	if e != nil {
		return e
	}
	agg.KeepArtifacts = true
	agg.Notify = a.sink(true)
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	k := c.KMin
	rng := rand.New(rand.NewSource(c.Seed))
	log := a.log.WithFields(logrus.Fields{"k": k, "beta": c.Beta})
	solved, failed := 0, 0
	for i := 0; c.Count == 0 || i < c.Count; i++ {
		_, kind, e := agg.Trial(ctx, k, c.Beta, i, rng)
		if ctx.Err() != nil {
			break
		}
		if e != nil {
			return e
		}
		if kind.Failed() {
			failed++
			continue
		}
		solved++
	}
	log.WithFields(logrus.Fields{
		"solved": solved,
		"failed": failed}).Info("generation done")
	return nil
}
