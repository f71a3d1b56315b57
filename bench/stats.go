// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrStatsIO indicates that a solver which exited in time did not leave a
// readable statistics record.
var ErrStatsIO = errors.New("bench: solver statistics unreadable")

// Type StatsError gives the details of an ErrStatsIO.
type StatsError struct {
	Path string
	Err  error
}

func (e *StatsError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrStatsIO, e.Path, e.Err)
}

func (e *StatsError) Unwrap() error {
	return e.Err
}

func (e *StatsError) Is(target error) bool {
	return target == ErrStatsIO
}

// Type Stats is the statistics record a solver writes for one instance.
type Stats struct {
	ReadTime    float64 // t_read
	NVars       int     // n
	NClauses    int     // m
	NLiterals   int     // l
	SolveTime   float64 // t_solve
	NThreads    int     // n_threads
	NIterations int     // n_iterations
}

const statsFields = 7

// ParseStats reads the first csv row of r as a Stats.
func ParseStats(r io.Reader) (Stats, error) {
	var st Stats
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = statsFields
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	row, e := cr.Read()
	if e == io.EOF {
		return st, fmt.Errorf("empty statistics record")
	}
	if e != nil {
		return st, e
	}
	fs := []*float64{&st.ReadTime, nil, nil, nil, &st.SolveTime, nil, nil}
	is := []*int{nil, &st.NVars, &st.NClauses, &st.NLiterals, nil, &st.NThreads, &st.NIterations}
	for i, f := range row {
		f = strings.TrimSpace(f)
		if fs[i] != nil {
			v, e := strconv.ParseFloat(f, 64)
			if e != nil {
				return st, fmt.Errorf("field %d: %s", i+1, e)
			}
			*fs[i] = v
			continue
		}
		v, e := strconv.Atoi(f)
		if e != nil {
			return st, fmt.Errorf("field %d: %s", i+1, e)
		}
		*is[i] = v
	}
	return st, nil
}

// ReadStats reads the statistics record at path.  Any failure is a
// *StatsError.
func ReadStats(path string) (Stats, error) {
	f, e := os.Open(path)
	if e != nil {
		return Stats{}, &StatsError{Path: path, Err: e}
	}
	defer f.Close()
	st, e := ParseStats(f)
	if e != nil {
		return st, &StatsError{Path: path, Err: e}
	}
	return st, nil
}

// WriteStats writes st to path as a single csv row.
func WriteStats(path string, st Stats) error {
	row := fmt.Sprintf("%g,%d,%d,%d,%g,%d,%d\n", st.ReadTime, st.NVars, st.NClauses,
		st.NLiterals, st.SolveTime, st.NThreads, st.NIterations)
	return os.WriteFile(path, []byte(row), 0644)
}
