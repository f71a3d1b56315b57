// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sweep

import "math"

// Betas returns n geometrically spaced biases from 1 down to min, both
// included.  It returns nil if n < 1 or min is not in (0,1].
func Betas(n int, min float64) []float64 {
	if n < 1 || min <= 0 || min > 1 {
		return nil
	}
	res := make([]float64, n)
	res[0] = 1
	if n == 1 {
		return res
	}
	lm := math.Log(min)
	for i := 1; i < n-1; i++ {
		res[i] = math.Exp(lm * float64(i) / float64(n-1))
	}
	res[n-1] = min
	return res
}
