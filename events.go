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

// EventSink receives the device's lifecycle events. Callbacks run on the
// dispatcher goroutine (OnReceiveComplete) or on the goroutine that issued the
// call (OnReady, OnTransmitComplete); they must not retain the frame.
type EventSink interface {
	// OnReady is called once a logical address has been claimed.
	OnReady(addr LogicalAddress)

	// OnReceiveComplete is called once per assembled frame that is addressed
	// to this device, broadcast, or seen in promiscuous mode. It returns
	// before the device sends its built-in reply to the frame.
	OnReceiveComplete(f Frame, ack bool)

	// OnTransmitComplete is called once per TransmitFrame, after the last
	// attempt.
	OnTransmitComplete(f Frame, ack bool)
}

// AllocationFailureHandler is implemented by sinks that want to hear about a
// failed address allocation.
type AllocationFailureHandler interface {
	OnAllocationFailed(err error)
}

// OpcodeHandler is implemented by sinks that handle opcodes themselves. The
// device answers directed frames with an opcode nobody handles with a
// feature abort.
type OpcodeHandler interface {
	HandlesOpcode(op Opcode) bool
}

// PowerStatusProvider supplies the answer to a power status query.
type PowerStatusProvider interface {
	PowerStatus() byte
}

// ActiveSourceProvider reports whether this device is the active source.
type ActiveSourceProvider interface {
	IsActiveSource() bool
}

// Callbacks adapts plain functions to an EventSink. Nil fields are skipped.
type Callbacks struct {
	Ready    func(addr LogicalAddress)
	Receive  func(f Frame, ack bool)
	Transmit func(f Frame, ack bool)
}

func (c Callbacks) OnReady(addr LogicalAddress) {
	if c.Ready != nil {
		c.Ready(addr)
	}
}

func (c Callbacks) OnReceiveComplete(f Frame, ack bool) {
	if c.Receive != nil {
		c.Receive(f, ack)
	}
}

func (c Callbacks) OnTransmitComplete(f Frame, ack bool) {
	if c.Transmit != nil {
		c.Transmit(f, ack)
	}
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) OnReady(LogicalAddress)         {}
func (NopSink) OnReceiveComplete(Frame, bool)  {}
func (NopSink) OnTransmitComplete(Frame, bool) {}

// MultiSink fans events out to several sinks in order. Optional capabilities
// are answered by the first sink that implements them.
type MultiSink []EventSink

func (m MultiSink) OnReady(addr LogicalAddress) {
	for _, s := range m {
		s.OnReady(addr)
	}
}

func (m MultiSink) OnReceiveComplete(f Frame, ack bool) {
	for _, s := range m {
		s.OnReceiveComplete(f, ack)
	}
}

func (m MultiSink) OnTransmitComplete(f Frame, ack bool) {
	for _, s := range m {
		s.OnTransmitComplete(f, ack)
	}
}

func (m MultiSink) OnAllocationFailed(err error) {
	for _, s := range m {
		if h, ok := s.(AllocationFailureHandler); ok {
			h.OnAllocationFailed(err)
		}
	}
}

func (m MultiSink) HandlesOpcode(op Opcode) bool {
	for _, s := range m {
		if h, ok := s.(OpcodeHandler); ok && h.HandlesOpcode(op) {
			return true
		}
	}
	return false
}

func (m MultiSink) PowerStatus() byte {
	for _, s := range m {
		if p, ok := s.(PowerStatusProvider); ok {
			return p.PowerStatus()
		}
	}
	return PowerStatusOn
}

func (m MultiSink) IsActiveSource() bool {
	for _, s := range m {
		if p, ok := s.(ActiveSourceProvider); ok {
			return p.IsActiveSource()
		}
	}
	return false
}

var (
	_ EventSink                = Callbacks{}
	_ EventSink                = NopSink{}
	_ AllocationFailureHandler = MultiSink(nil)
	_ OpcodeHandler            = MultiSink(nil)
)
