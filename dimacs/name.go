// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package dimacs

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	namePrefix = "rand_cnf_"
	nameLayout = "02_01_2006_15_04_05"
	stampLen   = len(nameLayout) + 1 + 9
)

// Name gives the base path, without extension, of an instance generated at
// t in directory dir.  The nanoseconds of t are part of the name.
func Name(dir string, t time.Time, suffix string) string {
	return filepath.Join(dir, fmt.Sprintf("%s%s_%09d%s", namePrefix, t.Format(nameLayout), t.Nanosecond(), suffix))
}

// ParseName recovers the generation time (in the local time zone) and the
// suffix of a path created by Name, with or without an extension.
func ParseName(path string) (time.Time, string, error) {
	base := filepath.Base(path)
	switch filepath.Ext(base) {
	case ".cnf", ".csv", ".out":
		base = base[:len(base)-4]
	}
	if !strings.HasPrefix(base, namePrefix) || len(base) < len(namePrefix)+stampLen {
		return time.Time{}, "", fmt.Errorf("%s: not an instance name", path)
	}
	rest := base[len(namePrefix):]
	t, e := time.ParseInLocation(nameLayout, rest[:len(nameLayout)], time.Local)
	if e != nil {
		return time.Time{}, "", fmt.Errorf("%s: %s", path, e)
	}
	if rest[len(nameLayout)] != '_' {
		return time.Time{}, "", fmt.Errorf("%s: not an instance name", path)
	}
	ns, e := strconv.Atoi(rest[len(nameLayout)+1 : stampLen])
	if e != nil {
		return time.Time{}, "", fmt.Errorf("%s: %s", path, e)
	}
	return t.Add(time.Duration(ns)), rest[stampLen:], nil
}
