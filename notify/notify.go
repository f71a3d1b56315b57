// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package notify reports solved instances to the user while a long
// generation or sweep runs.
//
// Notification is opportunistic: callers log the errors returned by a Sink
// and carry on.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Type Event describes one solved instance.
type Event struct {
	Path      string
	K         int
	Beta      float64
	NVars     int
	NClauses  int
	SolveTime float64 // seconds, as reported by the solver
	Result    int
}

func (ev Event) String() string {
	return fmt.Sprintf("%s : n_vars = %d, n_clauses = %d, time = %g seconds", ev.Path, ev.NVars, ev.NClauses, ev.SolveTime)
}

// Sink receives events.
type Sink interface {
	Notify(ctx context.Context, ev Event) error
}

// Sender delivers a message, for example by e-mail.
type Sender interface {
	Send(ctx context.Context, subject, body string) error
}

// Type Log is a Sink which logs every event at info level.
type Log struct {
	Log logrus.FieldLogger
}

func (l Log) Notify(ctx context.Context, ev Event) error {
	log := l.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.WithFields(logrus.Fields{
		"path":    ev.Path,
		"k":       ev.K,
		"beta":    ev.Beta,
		"vars":    ev.NVars,
		"clauses": ev.NClauses,
		"t_solve": ev.SolveTime}).Info("instance solved")
	return nil
}

// Type Multi notifies all its sinks, returning the first error.
type Multi []Sink

func (m Multi) Notify(ctx context.Context, ev Event) error {
	var first error
	for _, s := range m {
		if e := s.Notify(ctx, ev); e != nil && first == nil {
			first = e
		}
	}
	return first
}

// Discard is a Sink doing nothing.
var Discard Sink = discard{}

type discard struct{}

func (discard) Notify(context.Context, Event) error { return nil }

// Subject gives the subject line of a message sent at t.
func Subject(prog string, t time.Time) string {
	return fmt.Sprintf("%s Update (%s)", prog, t.Format("02/01/2006 15:04:05"))
}
