// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Command lllsat generates random k-cnfs whose variables respect the
// Lovász local lemma degree bound up to a bias, and measures sat solvers on
// them.
//
//	⎣ ⇨ lllsat
//	lllsat <cmd> [options] args ...
//	<cmd> may be
//		sweep
//		gen
//		check
//	For help with a command, run lllsat <cmd> -h.
//
//	⎣ ⇨ lllsat sweep -h
//	sweep measures a solver on random k-cnfs for every k in [k-min, k-max],
//	and every bias from 1 down to min-bias, stopping at the first bias for
//	which the solver times out or exceeds the iteration cap.
//	  --k-min, --k-max, --k-step int
//	  	clause widths (default 3, 3, 1)
//	  -N, --samples int
//	  	number of biases (default 100)
//	  --min-bias float
//	  	smallest bias, 0 for 1/samples
//	  --trials int
//	  	trials averaged per point (default 10)
//	  -p, --parallel int
//	  	number of clause widths swept at once (default 1)
//	  --keep
//	  	keep instances and solver outputs
//	  --metrics-file string
//	  	write prometheus metrics to this file in the run directory
//
//	⎣ ⇨ lllsat gen -h
//	gen repeatedly generates a random k-cnf with bias beta and runs the
//	solver on it, keeping the solved instances.
//	  -k, --k int
//	  	clause width (default 3)
//	  -b, --beta float
//	  	bias with which variables over the degree bound are pruned (default 1)
//	  --count int
//	  	number of instances, 0 until interrupted
//
//	⎣ ⇨ lllsat check file.cnf ...
//	check reports the number of variables and clauses, the clause width, the
//	largest number of occurrences of a variable and the degree bound.
//
// sweep and gen share
//
//	--config string     YAML configuration file; flags override its values
//	-n, --vars int      number of variables in an instance (default 100)
//	-c, --cutoff int    maximum number of clause resamples (default 10000)
//	--components int   number of independent variable blocks (default 1)
//	--compact          renumber variables, dropping unused ones
//	--backend string    solver backend: exec or gini (default "exec")
//	-s, --solver string solver accepting a dimacs cnf file
//	-o, --opts string   solver options
//	--profile name=opts named solver options, may be repeated
//	-t, --timeout       per instance solver timeout (default 30s)
//	--settle            delay between writing an instance and solving it (default 1s)
//	-i, --iterations    solver iteration cap, 0 for none
//	-d, --dir string    directory for instances and results (default ".")
//	--seed int          random seed
//	-e, --email, --pwd, -S, --smtp, -P, --port
//	                    e-mail notification of solved instances
//
// The solver is run as
//
//	solver [opts] path.cnf
//
// and must write the statistics record
//
//	t_read, n, m, l, t_solve, n_threads, n_iterations
//
// as a single csv line to path.csv.  Exit codes 10 and 20 are read as sat
// and unsat.
package main
