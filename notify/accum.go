// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package notify

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultThreshold is the solve time accumulated between two messages.
const DefaultThreshold = time.Hour

// Type Accumulator collects events and sends them as one message once the
// solve time accumulated since the last message reaches Threshold.
//
// If Limit is not nil, messages are additionally spaced by the limiter.  A
// failed send keeps the accumulated events for the next attempt.
type Accumulator struct {
	Sender    Sender
	Threshold time.Duration
	Limit     *rate.Limiter
	Prog      string
	Now       func() time.Time

	mu    sync.Mutex
	acc   float64
	lines []string
}

// NewAccumulator creates an accumulator sending through s, with at least
// minInterval between two messages.
func NewAccumulator(s Sender, threshold, minInterval time.Duration) *Accumulator {
	a := &Accumulator{
		Sender:    s,
		Threshold: threshold,
		Prog:      "lllsat",
		Now:       time.Now}
	if minInterval > 0 {
		a.Limit = rate.NewLimiter(rate.Every(minInterval), 1)
	}
	return a
}

// Notify implements Sink.
func (a *Accumulator) Notify(ctx context.Context, ev Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acc += ev.SolveTime
	a.lines = append(a.lines, ev.String())
	if a.acc < a.Threshold.Seconds() {
		return nil
	}
	if a.Limit != nil && !a.Limit.Allow() {
		return nil
	}
	return a.flush(ctx)
}

// Pending returns the accumulated solve time in seconds and the number of
// events not yet sent.
func (a *Accumulator) Pending() (float64, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acc, len(a.lines)
}

func (a *Accumulator) flush(ctx context.Context) error {
	if len(a.lines) == 0 {
		return nil
	}
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	body := "SAT instances found! Details:\n\n" + strings.Join(a.lines, "\n") + "\n"
	if e := a.Sender.Send(ctx, Subject(a.Prog, now()), body); e != nil {
		return e
	}
	a.acc = 0
	a.lines = a.lines[:0]
	return nil
}
