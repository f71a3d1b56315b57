// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package dimacs reads and writes generated instances in the dimacs cnf
// format and names instance files.
//
// Names carry the generation time so that solver artifacts derived from the
// same base name (.cnf, .csv, .out) are never shared between instances.
package dimacs
