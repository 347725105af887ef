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
	"fmt"
	"time"
)

// BusOpKind says what a bit slot on the bus carries.
type BusOpKind uint8

const (
	BusOpStart BusOpKind = iota
	BusOpData
	BusOpEOM
	BusOpAck
)

func (k BusOpKind) String() string {
	switch k {
	case BusOpStart:
		return "start"
	case BusOpData:
		return "data"
	case BusOpEOM:
		return "eom"
	case BusOpAck:
		return "ack"
	default:
		return "invalid"
	}
}

// BusOp is one bit-level operation. For data and EOM slots Value is the
// logical bit. For ACK slots it is the line level: an initiator always sends
// a one and a follower acknowledges by stretching it to a zero.
type BusOp struct {
	Kind  BusOpKind
	Value bool
}

// LowTime is how long the initiator holds the line low for this slot.
func (op BusOp) LowTime() time.Duration {
	switch {
	case op.Kind == BusOpStart:
		return StartBitLow
	case op.Value:
		return BitOneLow
	default:
		return BitZeroLow
	}
}

// Period is the nominal length of the slot.
func (op BusOp) Period() time.Duration {
	if op.Kind == BusOpStart {
		return StartBitPeriod
	}
	return BitPeriod
}

// Encode turns a frame into the bus operations an initiator performs: a start
// bit, then for every byte eight data bits (MSB first), EOM and an ACK slot.
func Encode(f Frame) []BusOp {
	b := f.Bytes()
	ops := make([]BusOp, 0, 1+len(b)*10)
	ops = append(ops, BusOp{Kind: BusOpStart})
	for i, c := range b {
		for bit := 7; bit >= 0; bit-- {
			ops = append(ops, BusOp{Kind: BusOpData, Value: c&(1<<bit) != 0})
		}
		ops = append(ops,
			BusOp{Kind: BusOpEOM, Value: i == len(b)-1},
			BusOp{Kind: BusOpAck, Value: true},
		)
	}
	return ops
}

// Assembler rebuilds a frame bit by bit. Both the receiver and the
// transmitter feed it what they sense on the line.
type Assembler struct {
	buf  [MaxFrameLength]byte
	acks [MaxFrameLength]bool
	n    int
	cur  byte
	pos  int
	eom  bool
	done bool
}

// Reset discards any partial frame.
func (a *Assembler) Reset() {
	*a = Assembler{}
}

// Push feeds one bus operation, checking it arrives in the expected slot.
func (a *Assembler) Push(op BusOp) (bool, error) {
	if op.Kind == BusOpStart {
		a.Reset()
		return false, nil
	}
	if want := a.expected(); op.Kind != want {
		return false, fmt.Errorf("%w: got %s bit, want %s", ErrInvalidFrame, op.Kind, want)
	}
	return a.PushBit(op.Value)
}

// PushBit feeds the next bit. It reports true once the ACK slot of the byte
// flagged EOM has been consumed.
func (a *Assembler) PushBit(v bool) (bool, error) {
	if a.done {
		return false, fmt.Errorf("%w: bit after end of message", ErrInvalidFrame)
	}

	switch {
	case a.pos < 8:
		a.cur <<= 1
		if v {
			a.cur |= 1
		}
		a.pos++
	case a.pos == 8:
		if a.n >= MaxFrameLength {
			return false, fmt.Errorf("%w: more than %d bytes", ErrDataTooLarge, MaxFrameLength)
		}
		a.buf[a.n] = a.cur
		a.eom = v
		a.pos++
	default:
		// A low line acknowledges a directed byte and rejects a broadcast one.
		dest, _ := a.Destination()
		if dest == AddressBroadcast {
			a.acks[a.n] = v
		} else {
			a.acks[a.n] = !v
		}
		a.n++
		a.pos = 0
		a.cur = 0
		if a.eom {
			a.done = true
			return true, nil
		}
	}
	return false, nil
}

func (a *Assembler) expected() BusOpKind {
	switch {
	case a.pos < 8:
		return BusOpData
	case a.pos == 8:
		return BusOpEOM
	default:
		return BusOpAck
	}
}

// NextIsAck reports whether the next bit is an ACK slot.
func (a *Assembler) NextIsAck() bool {
	return a.pos == 9
}

// Destination returns the header's destination once the first byte is in.
func (a *Assembler) Destination() (LogicalAddress, bool) {
	if a.n == 0 && a.pos < 9 {
		return AddressBroadcast, false
	}
	return LogicalAddress(a.buf[0] & 0x0F), true
}

// Done reports whether a complete frame has been assembled.
func (a *Assembler) Done() bool {
	return a.done
}

// Frame returns the bytes completed so far with their ACK results.
func (a *Assembler) Frame() Frame {
	if a.n == 0 {
		return Frame{Initiator: AddressUnregistered, Destination: AddressBroadcast}
	}
	f := NewFrame(LogicalAddress(a.buf[0]>>4), LogicalAddress(a.buf[0]&0x0F), a.buf[1:a.n]...)
	f.Acks = append([]bool(nil), a.acks[:a.n]...)
	return f
}

// Assemble decodes a complete operation sequence as produced by Encode.
func Assemble(ops []BusOp) (Frame, error) {
	if len(ops) == 0 || ops[0].Kind != BusOpStart {
		return Frame{}, fmt.Errorf("%w: missing start bit", ErrInvalidFrame)
	}

	var a Assembler
	for i, op := range ops[1:] {
		done, err := a.Push(op)
		if err != nil {
			return Frame{}, err
		}
		if done {
			if i != len(ops)-2 {
				return Frame{}, fmt.Errorf("%w: %d trailing bits", ErrInvalidFrame, len(ops)-2-i)
			}
			return a.Frame(), nil
		}
	}
	return Frame{}, fmt.Errorf("%w: no end of message", ErrInvalidFrame)
}
