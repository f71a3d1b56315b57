// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-air/lllsat/bench"
	"github.com/go-air/lllsat/config"
	"github.com/go-air/lllsat/notify"
	"github.com/go-air/lllsat/sweep"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Type app is the state shared by the subcommands.
type app struct {
	cfg      *config.Config
	cfgPath  string
	profiles []string
	verbose  bool
	log      *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), log: logrus.New()}
	cmd := &cobra.Command{
		Use:          "lllsat",
		Short:        "Random k-cnf generation in the Lovász local lemma regime",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.log.SetOutput(cmd.ErrOrStderr())
			a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			if a.verbose {
				a.log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	cmd.AddCommand(newSweepCmd(a), newGenCmd(a), newCheckCmd(a))
	return cmd
}

// addRunFlags registers the flags common to sweep and gen.
func (a *app) addRunFlags(fs *pflag.FlagSet) {
	c := a.cfg
	fs.StringVar(&a.cfgPath, "config", "", "YAML configuration file; flags override its values")
	fs.IntVarP(&c.Vars, "vars", "n", c.Vars, "number of variables in an instance")
	fs.IntVarP(&c.Cutoff, "cutoff", "c", c.Cutoff, "maximum number of clause resamples")
	fs.IntVar(&c.Components, "components", c.Components, "number of independent variable blocks")
	fs.BoolVar(&c.Compact, "compact", c.Compact, "renumber variables, dropping unused ones")
	fs.StringVar(&c.Backend, "backend", c.Backend, "solver backend: exec or gini")
	fs.StringVarP(&c.Solver, "solver", "s", c.Solver, "solver accepting a dimacs cnf file")
	fs.StringVarP(&c.Options, "opts", "o", c.Options, "solver options")
	fs.StringArrayVar(&a.profiles, "profile", nil, "named solver options name=opts, may be repeated")
	fs.DurationVarP(&c.Timeout, "timeout", "t", c.Timeout, "per instance solver timeout")
	fs.DurationVar(&c.Settle, "settle", c.Settle, "delay between writing an instance and solving it")
	fs.IntVarP(&c.MaxIterations, "iterations", "i", c.MaxIterations, "solver iteration cap, 0 for none")
	fs.StringVarP(&c.Dir, "dir", "d", c.Dir, "directory for instances and results")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed")
	fs.StringVarP(&c.Notify.Email, "email", "e", c.Notify.Email, "e-mail address for notifications")
	fs.StringVar(&c.Notify.Password, "pwd", c.Notify.Password, "password of the e-mail address")
	fs.StringVarP(&c.Notify.Host, "smtp", "S", c.Notify.Host, "smtp server")
	fs.IntVarP(&c.Notify.Port, "port", "P", c.Notify.Port, "smtp port")
	fs.DurationVar(&c.Notify.Threshold, "notify-threshold", c.Notify.Threshold, "solve time accumulated between notifications")
	fs.DurationVar(&c.Notify.MinInterval, "notify-interval", c.Notify.MinInterval, "minimum time between notifications")
}

// configure overlays the configuration file with the flags set on the
// command line and validates the result.
func (a *app) configure(fs *pflag.FlagSet) error {
	if e := a.overlay(fs); e != nil {
		return e
	}
	return a.cfg.Validate()
}

// overlay reads the configuration file, if any, and applies the flags set
// on the command line over it.
func (a *app) overlay(fs *pflag.FlagSet) error {
	if a.cfgPath != "" {
		set := map[string]string{}
		fs.Visit(func(f *pflag.Flag) {
			if f.Value.Type() != "stringArray" {
				set[f.Name] = f.Value.String()
			}
		})
		*a.cfg = *config.Default()
		if e := config.Read(a.cfgPath, a.cfg); e != nil {
			return e
		}
		for name, v := range set {
			if e := fs.Set(name, v); e != nil {
				return errors.Wrapf(e, "flag --%s", name)
			}
		}
	}
	if len(a.profiles) != 0 {
		a.cfg.Profiles = a.cfg.Profiles[:0]
		for _, p := range a.profiles {
			name, opts, _ := strings.Cut(p, "=")
			a.cfg.Profiles = append(a.cfg.Profiles, config.Profile{Name: name, Options: opts})
		}
	}
	return nil
}

// solverProfiles creates a runner for every configured profile.
func (a *app) solverProfiles() ([]sweep.Profile, error) {
	c := a.cfg
	if c.Backend == config.BackendGini {
		return []sweep.Profile{{Name: "gini", Runner: bench.NewGini(c.Timeout)}}, nil
	}
	var res []sweep.Profile
	for _, p := range c.SolverProfiles() {
		args, e := p.Args()
		if e != nil {
			return nil, errors.Wrapf(e, "profile %s", p.Name)
		}
		x := bench.NewExec(c.Solver, args, c.Timeout)
		x.Settle = c.Settle
		x.MaxIterations = c.MaxIterations
		x.Log = a.log.WithField("profile", p.Name)
		res = append(res, sweep.Profile{Name: p.Name, Runner: x})
	}
	return res, nil
}

// sink creates the notification sink: e-mail when configured, and logging
// if logSolved is set.
func (a *app) sink(logSolved bool) notify.Sink {
	var m notify.Multi
	if logSolved {
		m = append(m, notify.Log{Log: a.log})
	}
	n := a.cfg.Notify
	if n.Email != "" {
		s := notify.NewSMTP(n.Host, n.Port, n.Email, n.Password)
		m = append(m, notify.NewAccumulator(s, n.Threshold, n.MinInterval))
	}
	if len(m) == 0 {
		return notify.Discard
	}
	return m
}

func (a *app) aggregator(dir string) (*sweep.Aggregator, error) {
	ps, e := a.solverProfiles()
	if e != nil {
		return nil, e
	}
	c := a.cfg
	agg := sweep.NewAggregator(c.Vars, dir, ps...)
	agg.Cutoff = c.Cutoff
	agg.Components = c.Components
	agg.Compact = c.Compact
	agg.Trials = c.Trials
	agg.MaxFailures = c.MaxFailures
	agg.KeepArtifacts = c.KeepArtifacts
	agg.Log = a.log
	return agg, nil
}

func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
