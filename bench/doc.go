// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package bench runs solvers on generated instances and records sweep runs.
//
// Package bench addresses the needs of the sweep harness by:
//
// 1. providing a narrow Runner interface, so that the sweep does not care
// whether a solver is an external command or runs in process.
//
// 2. running external solvers under a per-instance timeout, killing them when
// the timeout expires and cleaning up their artifacts.
//
// 3. reading the statistics record which a solver leaves next to the
// instance.
//
// 4. providing a directory format for the description of a sweep run which is
// command line friendly for unix commands.
package bench
