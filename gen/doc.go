// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package gen generates random k-cnf instances whose variable occurrences are
// bounded as in the Lovász Local Lemma.
//
// A variable may occur in at most MaxDegree(k) clauses.  Once a variable goes
// over the bound it is removed from the pool of eligible variables with
// probability beta, so beta = 1 keeps every instance inside the LLL regime and
// smaller values of beta let the bound be broken more and more often.
//
// Every Builder owns its random source, so instances are reproducible from a
// seed and builders may be used from different goroutines.
package gen
