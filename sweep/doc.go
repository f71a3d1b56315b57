// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package sweep measures a solver over a grid of clause widths and biases.
//
// For every clause width k, a Controller walks the biases from 1 downwards
// and asks an Aggregator for a measurement at each.  An Aggregator repeats
//
//  1. building a random instance with package gen,
//  2. writing it with package dimacs,
//  3. running every solver profile on it,
//
// until enough trials succeeded or too many runs failed.  The first bias at
// which a k can not be measured stops the sweep for that k: difficulty is
// assumed not to decrease with the bias.  The assumption is checked on the
// points measured, and violations are recorded in the Series.
package sweep
