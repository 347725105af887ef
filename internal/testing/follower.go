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

package testing

import (
	"sync"
	"time"
)

// Bit timing as seen by a receiver, min and max of each low time.
const (
	startLowMin = 3500 * time.Microsecond
	oneLowMin   = 400 * time.Microsecond
	oneLowMax   = 800 * time.Microsecond
	zeroLowMin  = 1300 * time.Microsecond
	zeroLowMax  = 1700 * time.Microsecond
	ackHold     = 1500 * time.Microsecond
	broadcast   = 0x0F
)

// FakeFollower is a bare bit-level receiver. It acknowledges frames directed
// at its addresses and records every complete frame it sees.
type FakeFollower struct {
	bus       *SimBus
	line      *SimLine
	addresses map[byte]bool
	frames    [][]byte
	mu        sync.Mutex

	cur       []byte
	lowSince  time.Duration
	ackSince  time.Duration
	bits      int
	shift     byte
	ackAll    bool
	nakBcast  bool
	level     bool
	inFrame   bool
	ackNext   bool
	ackActive bool
	eom       bool
}

// NewFakeFollower attaches a follower answering for addresses to bus.
func NewFakeFollower(bus *SimBus, addresses ...byte) *FakeFollower {
	f := &FakeFollower{
		bus:       bus,
		line:      bus.NewLine(),
		addresses: make(map[byte]bool, len(addresses)),
		level:     true,
	}
	for _, a := range addresses {
		f.addresses[a] = true
	}
	bus.Attach(f)
	return f
}

// AckAll makes the follower acknowledge every directed frame, polls included.
func (f *FakeFollower) AckAll(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ackAll = enabled
}

// RejectBroadcasts makes the follower pull the ACK slot of broadcasts low.
func (f *FakeFollower) RejectBroadcasts(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nakBcast = enabled
}

// Frames returns copies of the frames received so far.
func (f *FakeFollower) Frames() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, 0, len(f.frames))
	for _, fr := range f.frames {
		out = append(out, append([]byte(nil), fr...))
	}
	return out
}

// Run samples the bus once. It is called by the SimBus on every step.
func (f *FakeFollower) Run() {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.bus.Now()
	level := f.line.Read()
	falling := f.level && !level
	rising := !f.level && level
	f.level = level

	if f.ackActive && now-f.ackSince >= ackHold {
		f.line.Drive(false)
		f.ackActive = false
	}

	if falling {
		f.lowSince = now
		if f.ackNext {
			f.line.Drive(true)
			f.ackSince = now
			f.ackActive = true
			f.ackNext = false
		}
		return
	}
	if !rising {
		return
	}

	low := now - f.lowSince
	switch {
	case low >= startLowMin:
		f.inFrame = true
		f.cur = f.cur[:0]
		f.bits = 0
		f.shift = 0
	case !f.inFrame:
	case low >= oneLowMin && low <= oneLowMax:
		f.pushBit(true)
	case low >= zeroLowMin && low <= zeroLowMax:
		f.pushBit(false)
	default:
		f.inFrame = false
	}
}

func (f *FakeFollower) pushBit(bit bool) {
	pos := f.bits % 10
	f.bits++

	switch {
	case pos < 8:
		f.shift <<= 1
		if bit {
			f.shift |= 1
		}
		if pos == 7 {
			f.cur = append(f.cur, f.shift)
			f.shift = 0
		}
	case pos == 8:
		f.ackNext = f.wantsAck()
		if bit {
			f.eom = true
		}
	default:
		if f.eom {
			f.frames = append(f.frames, append([]byte(nil), f.cur...))
			f.inFrame = false
			f.eom = false
		}
	}
}

func (f *FakeFollower) wantsAck() bool {
	dest := f.cur[0] & 0x0F
	if dest == broadcast {
		return f.nakBcast
	}
	return f.ackAll || f.addresses[dest]
}
