// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"os"
)

func main() {
	if e := newRootCmd().Execute(); e != nil {
		os.Exit(1)
	}
}
