// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package bench

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Type Record describes a sweep run stored in a directory.  Every field is
// kept in a file of its own, named after the field in lower case.
type Record struct {
	Root    string
	Name    string
	Cmd     string
	Arch    string
	Os      string
	NumCPU  int
	Seed    int64
	Start   time.Time
	Timeout time.Duration
	Series  []string // names of the series files, in completion order
}

// IsRecordDir tests whether or not root looks like a record directory.
func IsRecordDir(root string) bool {
	for _, p := range []string{
		root, recCmdPath(root), recStartPath(root), recTimeoutPath(root), recSeedPath(root)} {
		if _, ste := os.Stat(p); ste != nil {
			return false
		}
	}
	return true
}

// NewRecord creates the record directory root for a sweep run of cmd with
// instance timeout to and seed seed.
func NewRecord(root, cmd string, to time.Duration, seed int64) (*Record, error) {
	r := &Record{
		Root:    root,
		Name:    filepath.Base(root),
		Cmd:     cmd,
		Arch:    runtime.GOARCH,
		Os:      runtime.GOOS,
		NumCPU:  runtime.NumCPU(),
		Seed:    seed,
		Start:   time.Now(),
		Timeout: to}
	if e := os.MkdirAll(root, 0755); e != nil {
		return nil, errors.Wrap(e, "creating record")
	}
	for p, s := range map[string]string{
		recCmdPath(root):     r.Cmd + "\n",
		recArchPath(root):    r.Arch + "\n",
		recOsPath(root):      r.Os + "\n",
		recNumCpuPath(root):  fmt.Sprintf("%d\n", r.NumCPU),
		recSeedPath(root):    fmt.Sprintf("%d\n", r.Seed),
		recTimeoutPath(root): fmt.Sprintf("%d\n", int64(r.Timeout)),
		recSeriesPath(root):  ""} {
		if e := s2f(s, p); e != nil {
			return nil, e
		}
	}
	if e := t2f(recStartPath(root), r.Start); e != nil {
		return nil, e
	}
	return r, nil
}

// OpenRecord opens the record in root.
func OpenRecord(root string) (*Record, error) {
	r := &Record{Root: root, Name: filepath.Base(root)}
	var e error
	if r.Cmd, e = p2s(recCmdPath(root)); e != nil {
		return nil, e
	}
	if r.Arch, e = p2s(recArchPath(root)); e != nil {
		return nil, e
	}
	if r.Os, e = p2s(recOsPath(root)); e != nil {
		return nil, e
	}
	if r.NumCPU, e = p2i(recNumCpuPath(root)); e != nil {
		return nil, e
	}
	seed, e := p2s(recSeedPath(root))
	if e != nil {
		return nil, e
	}
	if r.Seed, e = strconv.ParseInt(seed, 10, 64); e != nil {
		return nil, errors.Wrap(e, "seed")
	}
	to, e := p2s(recTimeoutPath(root))
	if e != nil {
		return nil, e
	}
	d, e := strconv.ParseInt(to, 10, 64)
	if e != nil {
		return nil, errors.Wrap(e, "timeout")
	}
	r.Timeout = time.Duration(d)
	if r.Start, e = p2t(recStartPath(root)); e != nil {
		return nil, e
	}
	series, e := p2s(recSeriesPath(root))
	if e != nil {
		return nil, e
	}
	if series != "" {
		r.Series = strings.Split(series, "\n")
	}
	return r, nil
}

// Path gives the path of a file called name in the record.
func (r *Record) Path(name string) string {
	return filepath.Join(r.Root, name)
}

// AddSeries notes that the series file name has been written.
func (r *Record) AddSeries(name string) error {
	f, e := os.OpenFile(recSeriesPath(r.Root), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if e != nil {
		return e
	}
	defer f.Close()
	if _, e := fmt.Fprintf(f, "%s\n", name); e != nil {
		return e
	}
	r.Series = append(r.Series, name)
	return nil
}

// p2s reads the file p, trimming surrounding space.
func p2s(p string) (string, error) {
	buf, e := os.ReadFile(p)
	if e != nil {
		return "", e
	}
	return strings.TrimSpace(string(buf)), nil
}

func p2i(p string) (int, error) {
	s, e := p2s(p)
	if e != nil {
		return 0, e
	}
	i, e := strconv.Atoi(s)
	if e != nil {
		return 0, errors.Wrap(e, p)
	}
	return i, nil
}

func s2f(s, p string) error {
	return os.WriteFile(p, []byte(s), 0644)
}

func p2t(p string) (time.Time, error) {
	var t time.Time
	s, e := p2s(p)
	if e != nil {
		return t, e
	}
	e = t.UnmarshalText([]byte(s))
	return t, e
}

func t2f(p string, t time.Time) error {
	b, e := t.MarshalText()
	if e != nil {
		return e
	}
	return s2f(string(b)+"\n", p)
}

func recCmdPath(root string) string {
	return filepath.Join(root, "cmd")
}
func recArchPath(root string) string {
	return filepath.Join(root, "arch")
}
func recOsPath(root string) string {
	return filepath.Join(root, "os")
}
func recNumCpuPath(root string) string {
	return filepath.Join(root, "ncpu")
}
func recSeedPath(root string) string {
	return filepath.Join(root, "seed")
}
func recStartPath(root string) string {
	return filepath.Join(root, "start")
}
func recTimeoutPath(root string) string {
	return filepath.Join(root, "timeout")
}
func recSeriesPath(root string) string {
	return filepath.Join(root, "series")
}
