// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package dimacs

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-air/lllsat/gen"
	"github.com/pkg/errors"
)

// Write writes inst to w in dimacs cnf format, preceded by one comment line
// per element of comments.
func Write(w io.Writer, inst *gen.Instance, comments ...string) error {
	bw := bufio.NewWriter(w)
	for _, c := range comments {
		bw.WriteString("c ")
		bw.WriteString(c)
		bw.WriteByte('\n')
	}
	bw.WriteString("p cnf ")
	bw.WriteString(strconv.Itoa(inst.NVars))
	bw.WriteByte(' ')
	bw.WriteString(strconv.Itoa(inst.Len()))
	bw.WriteByte('\n')
	buf := make([]byte, 0, 64)
	for _, c := range inst.Clauses {
		buf = buf[:0]
		for _, m := range c {
			buf = strconv.AppendInt(buf, int64(m.Dimacs()), 10)
			buf = append(buf, ' ')
		}
		buf = append(buf, '0', '\n')
		if _, e := bw.Write(buf); e != nil {
			return e
		}
	}
	return bw.Flush()
}

// WriteFile writes inst to path.  The instance is written to a temporary
// file in the same directory which is then renamed to path, so path never
// holds a partial instance.
func WriteFile(path string, inst *gen.Instance, comments ...string) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, e := os.CreateTemp(dir, "."+base+".*")
	if e != nil {
		return errors.Wrap(e, "creating instance")
	}
	tmp := f.Name()
	if e := f.Chmod(0644); e != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(e, "creating instance")
	}
	if e := Write(f, inst, comments...); e != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(e, "writing %s", path)
	}
	if e := f.Sync(); e != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(e, "syncing %s", path)
	}
	if e := f.Close(); e != nil {
		os.Remove(tmp)
		return errors.Wrapf(e, "closing %s", path)
	}
	if e := os.Rename(tmp, path); e != nil {
		os.Remove(tmp)
		return errors.Wrapf(e, "renaming %s", path)
	}
	return nil
}
