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
	"strings"
)

// MaxFrameLength is the longest frame allowed on the bus, header included.
const MaxFrameLength = 16

// MaxPayloadLength is the opcode plus the longest operand list.
const MaxPayloadLength = MaxFrameLength - 1

// Frame is one addressed message. Payload holds the opcode followed by its
// operands and is empty for a polling frame.
type Frame struct {
	Payload []byte
	// Acks holds the acknowledgment result of every byte, header first. It is
	// nil for frames that have not been on the bus yet.
	Acks        []bool
	Initiator   LogicalAddress
	Destination LogicalAddress
}

// NewFrame builds a frame, copying payload.
func NewFrame(initiator, destination LogicalAddress, payload ...byte) Frame {
	f := Frame{Initiator: initiator, Destination: destination}
	if len(payload) > 0 {
		f.Payload = append([]byte(nil), payload...)
	}
	return f
}

// ParseFrame decodes raw frame bytes. Ack results are left empty.
func ParseFrame(b []byte) (Frame, error) {
	if len(b) == 0 {
		return Frame{}, fmt.Errorf("%w: empty frame", ErrInvalidFrame)
	}
	if len(b) > MaxFrameLength {
		return Frame{}, fmt.Errorf("%w: %d bytes", ErrDataTooLarge, len(b))
	}
	return NewFrame(LogicalAddress(b[0]>>4), LogicalAddress(b[0]&0x0F), b[1:]...), nil
}

// Header returns the initiator/destination byte.
func (f Frame) Header() byte {
	return byte(f.Initiator&0x0F)<<4 | byte(f.Destination&0x0F)
}

// Bytes returns the frame as it travels on the bus.
func (f Frame) Bytes() []byte {
	b := make([]byte, 0, 1+len(f.Payload))
	b = append(b, f.Header())
	return append(b, f.Payload...)
}

// Len returns the number of bytes on the bus, header included.
func (f Frame) Len() int {
	return 1 + len(f.Payload)
}

// IsBroadcast reports whether every device is addressed.
func (f Frame) IsBroadcast() bool {
	return f.Destination == AddressBroadcast
}

// IsPoll reports whether the frame carries only a header.
func (f Frame) IsPoll() bool {
	return len(f.Payload) == 0
}

// Opcode returns the opcode, if any.
func (f Frame) Opcode() (Opcode, bool) {
	if len(f.Payload) == 0 {
		return 0, false
	}
	return Opcode(f.Payload[0]), true
}

// Operands returns the bytes following the opcode.
func (f Frame) Operands() []byte {
	if len(f.Payload) < 2 {
		return nil
	}
	return f.Payload[1:]
}

// Acked reports whether the frame was accepted: every byte acknowledged.
func (f Frame) Acked() bool {
	if len(f.Acks) != f.Len() {
		return false
	}
	for _, ack := range f.Acks {
		if !ack {
			return false
		}
	}
	return true
}

// Validate checks the frame can be put on the bus.
func (f Frame) Validate() error {
	if !f.Initiator.Valid() || !f.Destination.Valid() {
		return fmt.Errorf("%w: address out of range", ErrInvalidFrame)
	}
	if len(f.Payload) > MaxPayloadLength {
		return fmt.Errorf("%w: payload of %d bytes", ErrDataTooLarge, len(f.Payload))
	}
	return nil
}

// Equal compares addressing and payload, ignoring ack results.
func (f Frame) Equal(other Frame) bool {
	if f.Initiator != other.Initiator || f.Destination != other.Destination {
		return false
	}
	if len(f.Payload) != len(other.Payload) {
		return false
	}
	for i := range f.Payload {
		if f.Payload[i] != other.Payload[i] {
			return false
		}
	}
	return true
}

// String formats the frame the way cec-client logs it, e.g. "4f:84:30:00:04".
func (f Frame) String() string {
	var sb strings.Builder
	for i, b := range f.Bytes() {
		if i > 0 {
			sb.WriteByte(':')
		}
		_, _ = fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}
