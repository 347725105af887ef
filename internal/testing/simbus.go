// go-cec
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-cec.
//
// go-cec is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-cec is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-cec; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package testing provides a simulated bus for exercising devices without
// hardware. Time on the bus is virtual and advances one step at a time.
package testing

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultStep is the virtual time between two bus ticks.
const DefaultStep = 50 * time.Microsecond

// Ticker is anything that samples and drives the bus once per step.
type Ticker interface {
	Run()
}

// SimBus is a wired-AND line shared by any number of SimLines. Every step
// latches the line level, advances the clock and ticks every attached Ticker,
// so all participants see the same level within a step.
type SimBus struct {
	tickers []Ticker
	lines   []*SimLine
	mu      sync.Mutex
	now     atomic.Int64
	step    time.Duration
	latched bool
	glitch  time.Duration
}

// NewSimBus creates an idle bus. A zero step selects DefaultStep.
func NewSimBus(step time.Duration) *SimBus {
	if step <= 0 {
		step = DefaultStep
	}
	return &SimBus{step: step, latched: true}
}

// Now returns the virtual time. SimBus satisfies cec.Clock.
func (b *SimBus) Now() time.Duration {
	return time.Duration(b.now.Load())
}

// NewLine attaches a new open-drain line to the bus.
func (b *SimBus) NewLine() *SimLine {
	b.mu.Lock()
	defer b.mu.Unlock()
	l := &SimLine{bus: b}
	b.lines = append(b.lines, l)
	return l
}

// Attach adds t to the participants ticked on every step.
func (b *SimBus) Attach(t Ticker) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tickers = append(b.tickers, t)
}

// Glitch holds the line low for d, as noise or a misbehaving device would.
func (b *SimBus) Glitch(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.glitch = d
}

// Level returns the current wired-AND level, true when high.
func (b *SimBus) Level() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.levelLocked()
}

func (b *SimBus) levelLocked() bool {
	if b.glitch > 0 {
		return false
	}
	for _, l := range b.lines {
		if l.low {
			return false
		}
	}
	return true
}

// Step advances the bus by one tick.
func (b *SimBus) Step() {
	b.mu.Lock()
	b.latched = b.levelLocked()
	if b.glitch > 0 {
		b.glitch -= b.step
	}
	tickers := append([]Ticker(nil), b.tickers...)
	b.mu.Unlock()

	b.now.Add(int64(b.step))
	for _, t := range tickers {
		t.Run()
	}
}

// Advance steps the bus until d of virtual time has passed.
func (b *SimBus) Advance(d time.Duration) {
	for end := b.Now() + d; b.Now() < end; {
		b.Step()
	}
}

// Run steps the bus until ctx is done, yielding regularly so goroutines
// waiting on the participants get to run.
func (b *SimBus) Run(ctx context.Context) {
	for i := 0; ; i++ {
		if i%16 == 0 {
			if ctx.Err() != nil {
				return
			}
			runtime.Gosched()
		}
		b.Step()
	}
}

// SimLine is one participant's connection to a SimBus.
type SimLine struct {
	bus *SimBus
	low bool
}

// Read returns the level latched at the start of the current step.
func (l *SimLine) Read() bool {
	l.bus.mu.Lock()
	defer l.bus.mu.Unlock()
	return l.bus.latched
}

// Drive pulls the line low or releases it.
func (l *SimLine) Drive(low bool) {
	l.bus.mu.Lock()
	defer l.bus.mu.Unlock()
	l.low = low
}

// Driving reports whether this participant holds the line low.
func (l *SimLine) Driving() bool {
	l.bus.mu.Lock()
	defer l.bus.mu.Unlock()
	return l.low
}
