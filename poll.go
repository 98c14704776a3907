// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webdriver

import (
	"time"
)

// Poller runs a unit of work with exponential backoff until it succeeds,
// fails with an error or the timeout elapses.
//
// The first attempt is immediate. After each unsuccessful attempt the poller
// sleeps min(period, remaining) and doubles the period.
type Poller struct {
	// Initial sleep period. Default: 5ms.
	Initial time.Duration
	// Clock and sleep hooks, replaced in tests.
	Now   func() time.Time
	Sleep func(time.Duration)
}

// DefaultPoller is used by Retry and RetryBool.
var DefaultPoller = &Poller{Initial: 5 * time.Millisecond}

func (p *Poller) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Poller) sleep(d time.Duration) {
	if p.Sleep == nil {
		time.Sleep(d)
		return
	}
	p.Sleep(d)
}

func (p *Poller) initial() time.Duration {
	if p.Initial <= 0 {
		return 5 * time.Millisecond
	}
	return p.Initial
}

// Poll calls work until it reports done. work returns the value of the
// attempt, whether the attempt succeeded, and an error that aborts polling
// immediately. Poll returns the last value produced, whether or not it
// succeeded.
//
// A zero timeout makes exactly one attempt.
func Poll[T any](p *Poller, timeout time.Duration, work func() (T, bool, error)) (T, error) {
	var zero T
	if timeout < 0 {
		return zero, ErrNegativeTimeout
	}
	if p == nil {
		p = DefaultPoller
	}
	start := p.now()
	period := p.initial()
	for {
		value, done, err := work()
		if err != nil || done {
			return value, err
		}
		elapsed := p.now().Sub(start)
		if elapsed >= timeout {
			return value, nil
		}
		wait := period
		if remaining := timeout - elapsed; remaining < wait {
			wait = remaining
		}
		p.sleep(wait)
		period *= 2
	}
}

// PollBool calls work until it returns true and reports whether it ever did.
func PollBool(p *Poller, timeout time.Duration, work func() (bool, error)) (bool, error) {
	return Poll(p, timeout, func() (bool, bool, error) {
		ok, err := work()
		return ok, ok, err
	})
}

// Retry is Poll with DefaultPoller.
func Retry[T any](timeout time.Duration, work func() (T, bool, error)) (T, error) {
	return Poll(DefaultPoller, timeout, work)
}

// RetryBool is PollBool with DefaultPoller.
func RetryBool(timeout time.Duration, work func() (bool, error)) (bool, error) {
	return PollBool(DefaultPoller, timeout, work)
}
