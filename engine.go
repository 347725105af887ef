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

package cec

import (
	"sync/atomic"
	"time"
)

// State is the position of the bus timing state machine.
type State int

const (
	StateIdle State = iota
	StateAwaitStart
	StateSendStart
	StateBitPeriod
	StateAckWindow
	StateInterframeGap
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitStart:
		return "await-start"
	case StateSendStart:
		return "send-start"
	case StateBitPeriod:
		return "bit-period"
	case StateAckWindow:
		return "ack-window"
	case StateInterframeGap:
		return "interframe-gap"
	default:
		return "unknown"
	}
}

// bitPhase splits a bit into its low part and the wait for the next edge.
type bitPhase int

const (
	phaseLow bitPhase = iota
	phaseHigh
)

type role int

const (
	roleNone role = iota
	roleInitiator
	roleFollower
)

// attempt is a single transmission of a frame handed to the engine.
type attempt struct {
	done      chan attemptResult
	frame     Frame
	number    int
	abandoned atomic.Bool
}

type attemptResult struct {
	err   error
	frame Frame
}

func newAttempt(f Frame, number int) *attempt {
	return &attempt{
		frame:  f,
		number: number,
		done:   make(chan attemptResult, 1),
	}
}

// engine samples and drives the line. It is only ever entered from tick, so
// it needs no locking: transmit requests arrive through a channel polled while
// idle and completed frames leave through another.
type engine struct {
	line     Line
	requests <-chan *attempt
	received chan<- Frame
	local    func() LogicalAddress
	metrics  *metrics

	tx              *attempt
	ops             []BusOp
	asm             Assembler
	busFreeTimeout  time.Duration
	txSince         time.Duration
	lastLow         time.Duration
	bitStart        time.Duration
	opIndex         int
	state           State
	role            role
	phase           bitPhase
	level           bool
	driving         bool
	sampled         bool
	nak             bool
	followsOwnFrame bool
	started         bool
}

func newEngine(
	line Line,
	requests <-chan *attempt,
	received chan<- Frame,
	local func() LogicalAddress,
	m *metrics,
	busFreeTimeout time.Duration,
) *engine {
	return &engine{
		line:           line,
		requests:       requests,
		received:       received,
		local:          local,
		metrics:        m,
		busFreeTimeout: busFreeTimeout,
		level:          true,
	}
}

// tick advances the state machine to now. It must be called well inside a
// bit's tolerance band (a few tens of microseconds) to decode reliably.
func (e *engine) tick(now time.Duration) {
	level := e.line.Read()
	if !e.started {
		e.started = true
		e.level = level
		e.lastLow = now
	}
	rising := level && !e.level
	falling := !level && e.level
	e.level = level
	if !level {
		e.lastLow = now
	}

	if e.tx != nil && e.role != roleInitiator && e.busFreeTimeout > 0 && now-e.txSince > e.busFreeTimeout {
		debugf("bus busy for %v, giving up on %s", now-e.txSince, e.tx.frame)
		e.finishAttempt(e.tx.frame, ErrBusBusy)
	}

	switch e.state {
	case StateIdle:
		e.idle(now)
	case StateAwaitStart:
		e.awaitStart(now, rising, falling)
	case StateSendStart:
		e.sendStart(now)
	case StateBitPeriod, StateAckWindow:
		if e.role == roleInitiator {
			e.sendBit(now)
		} else {
			e.receiveBit(now, rising, falling)
		}
	case StateInterframeGap:
		if level && !e.driving {
			e.state = StateIdle
		}
	}
}

func (e *engine) drive(low bool) {
	e.line.Drive(low)
	e.driving = low
}

func (e *engine) idle(now time.Duration) {
	if !e.level {
		e.beginReceive(now)
		return
	}

	if e.tx == nil && !e.nextAttempt(now) {
		return
	}
	if e.tx.abandoned.Load() {
		e.tx = nil
		return
	}
	if now-e.lastLow >= freeTime(e.tx.number, e.followsOwnFrame) {
		e.beginTransmit(now)
	}
}

// nextAttempt takes the next transmit request that is still wanted.
func (e *engine) nextAttempt(now time.Duration) bool {
	for {
		select {
		case a := <-e.requests:
			if a.abandoned.Load() {
				continue
			}
			e.tx = a
			e.txSince = now
			return true
		default:
			return false
		}
	}
}

func (e *engine) beginTransmit(now time.Duration) {
	e.ops = Encode(e.tx.frame)
	e.opIndex = 0
	e.asm.Reset()
	e.nak = false
	e.role = roleInitiator
	e.state = StateSendStart
	e.bitStart = now
	e.drive(true)
	e.metrics.attempts.Add(1)
	debugf("transmit %s (attempt %d)", e.tx.frame, e.tx.number)
}

func (e *engine) sendStart(now time.Duration) {
	elapsed := now - e.bitStart
	if e.driving && elapsed >= StartBitLow {
		e.drive(false)
	}
	if elapsed >= StartBitPeriod {
		e.opIndex = 1
		e.beginBit(now)
	}
}

func (e *engine) beginBit(now time.Duration) {
	e.bitStart = now
	e.sampled = false
	e.phase = phaseLow
	if e.ops[e.opIndex].Kind == BusOpAck {
		e.state = StateAckWindow
	} else {
		e.state = StateBitPeriod
	}
	e.drive(true)
}

func (e *engine) sendBit(now time.Duration) {
	op := e.ops[e.opIndex]
	elapsed := now - e.bitStart

	if e.driving && elapsed >= op.LowTime() {
		e.drive(false)
		e.phase = phaseHigh
	}

	if !e.sampled && elapsed >= SamplePoint {
		e.sampled = true
		sensed := e.level
		if op.Kind != BusOpAck && op.Value && !sensed {
			// Someone else holds a zero where we released a one. Inside the
			// initiator nibble that is a lost arbitration, later it is a collision.
			if e.opIndex <= 4 {
				e.loseArbitration()
				return
			}
			e.abortTransmit(ErrBusError)
			return
		}
		if _, err := e.asm.PushBit(sensed); err != nil {
			e.abortTransmit(ErrBusError)
			return
		}
		if op.Kind == BusOpAck && e.tx.frame.IsBroadcast() == !sensed {
			e.nak = true
		}
	}

	if elapsed < op.Period() {
		return
	}
	if op.Kind == BusOpAck && e.nak {
		e.metrics.naks.Add(1)
		e.completeTransmit(ErrNoAck)
		return
	}
	e.opIndex++
	if e.opIndex == len(e.ops) {
		e.completeTransmit(nil)
		return
	}
	e.beginBit(now)
}

// loseArbitration hands the bus to the winning initiator and keeps decoding
// its frame from the bit in progress.
func (e *engine) loseArbitration() {
	e.metrics.arbitrationLost.Add(1)
	debugf("arbitration lost at bit %d of %s", e.opIndex, e.tx.frame)
	e.finishAttempt(e.tx.frame, ErrArbitrationLost)
	e.role = roleFollower
	e.phase = phaseLow
	e.followsOwnFrame = false
}

func (e *engine) completeTransmit(err error) {
	f := e.tx.frame
	if acks := e.asm.Frame().Acks; len(acks) > 0 {
		f.Acks = acks
	}
	e.finishAttempt(f, err)
	e.role = roleNone
	e.state = StateInterframeGap
	e.followsOwnFrame = true
}

func (e *engine) abortTransmit(err error) {
	e.metrics.busErrors.Add(1)
	if e.driving {
		e.drive(false)
	}
	debugf("transmit of %s aborted: %v", e.tx.frame, err)
	e.finishAttempt(e.tx.frame, err)
	e.role = roleNone
	e.state = StateInterframeGap
	e.asm.Reset()
}

func (e *engine) finishAttempt(f Frame, err error) {
	if e.tx == nil {
		return
	}
	select {
	case e.tx.done <- attemptResult{frame: f, err: err}:
	default:
	}
	e.tx = nil
}

func (e *engine) beginReceive(now time.Duration) {
	e.role = roleFollower
	e.state = StateAwaitStart
	e.bitStart = now
	e.phase = phaseLow
	e.asm.Reset()
}

func (e *engine) awaitStart(now time.Duration, rising, falling bool) {
	elapsed := now - e.bitStart
	switch e.phase {
	case phaseLow:
		if rising {
			if !startLowWindow.contains(elapsed) {
				e.busError("start bit low for %v", elapsed)
				return
			}
			e.phase = phaseHigh
		} else if elapsed > startLowWindow.max {
			e.busError("line held low for %v", elapsed)
		}
	case phaseHigh:
		if falling {
			if !startPeriodWindow.contains(elapsed) {
				e.busError("start bit period %v", elapsed)
				return
			}
			e.state = StateBitPeriod
			e.bitStart = now
			e.phase = phaseLow
		} else if elapsed > startPeriodWindow.max {
			e.busError("no data after start bit")
		}
	}
}

func (e *engine) receiveBit(now time.Duration, rising, falling bool) {
	elapsed := now - e.bitStart
	switch e.phase {
	case phaseLow:
		if e.driving && elapsed >= BitZeroLow {
			e.drive(false)
		}
		if rising {
			var bit bool
			switch {
			case oneLowWindow.contains(elapsed):
				bit = true
			case zeroLowWindow.contains(elapsed):
				bit = false
			default:
				e.busError("bit low for %v", elapsed)
				return
			}
			done, err := e.asm.PushBit(bit)
			if err != nil {
				e.busError("%v", err)
				return
			}
			if done {
				e.deliver()
				return
			}
			e.phase = phaseHigh
		} else if !e.driving && elapsed > zeroLowWindow.max {
			e.busError("bit low for more than %v", elapsed)
		}
	case phaseHigh:
		if falling {
			if !bitPeriodWindow.contains(elapsed) {
				e.busError("bit period %v", elapsed)
				return
			}
			e.bitStart = now
			e.phase = phaseLow
			if !e.asm.NextIsAck() {
				e.state = StateBitPeriod
				return
			}
			e.state = StateAckWindow
			if e.shouldAck() {
				e.drive(true)
			}
		} else if elapsed > bitPeriodWindow.max {
			e.busError("frame ended without end of message")
		}
	}
}

// shouldAck reports whether the frame being received is directed at us.
// Broadcast frames are accepted by leaving the line alone.
func (e *engine) shouldAck() bool {
	dest, ok := e.asm.Destination()
	if !ok || dest == AddressBroadcast {
		return false
	}
	local := e.local()
	return local != AddressUnregistered && dest == local
}

func (e *engine) deliver() {
	f := e.asm.Frame()
	e.role = roleNone
	e.state = StateInterframeGap
	e.followsOwnFrame = false
	e.metrics.framesReceived.Add(1)
	select {
	case e.received <- f:
	default:
		e.metrics.droppedFrames.Add(1)
		warnf("receive queue full, dropping %s", f)
	}
}

func (e *engine) busError(format string, args ...any) {
	e.metrics.busErrors.Add(1)
	debugf("bus error in %s: "+format, append([]any{e.state}, args...)...)
	if e.driving {
		e.drive(false)
	}
	e.role = roleNone
	e.state = StateInterframeGap
	e.followsOwnFrame = false
	e.asm.Reset()
}
