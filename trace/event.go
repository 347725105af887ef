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

package trace

import (
	"time"

	cec "github.com/ZaparooProject/go-cec"
)

// Kind classifies a trace event.
type Kind uint8

const (
	// KindReceive is a frame delivered by the receiver.
	KindReceive Kind = 0
	// KindTransmit is the outcome of a transmission.
	KindTransmit Kind = 1
	// KindReady is a claimed logical address.
	KindReady Kind = 2
	// KindAllocationFailed is a failed address allocation.
	KindAllocationFailed Kind = 3
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindReceive:
		return "RX"
	case KindTransmit:
		return "TX"
	case KindReady:
		return "READY"
	case KindAllocationFailed:
		return "ALLOC-FAIL"
	default:
		return "UNKNOWN"
	}
}

// Event is one recorded bus event. CBOR encoding uses integer keys for
// compactness.
type Event struct {
	// Timestamp when the event was recorded.
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the recording (UUID).
	SessionID string `cbor:"2,keyasint"`

	Kind Kind `cbor:"3,keyasint"`

	// Data is the frame as it travels on the bus, header first.
	Data []byte `cbor:"4,keyasint,omitempty"`

	// Acks holds the per-byte acknowledgment results.
	Acks []bool `cbor:"5,keyasint,omitempty"`

	// Ack is the overall outcome reported with the frame.
	Ack bool `cbor:"6,keyasint,omitempty"`

	// Address is the claimed logical address of a ready event.
	Address uint8 `cbor:"7,keyasint,omitempty"`

	Error string `cbor:"8,keyasint,omitempty"`
}

// Frame rebuilds the recorded frame.
func (e Event) Frame() (cec.Frame, error) {
	f, err := cec.ParseFrame(e.Data)
	if err != nil {
		return cec.Frame{}, err
	}
	if len(e.Acks) > 0 {
		f.Acks = append([]bool(nil), e.Acks...)
	}
	return f, nil
}

// String formats the event on one line.
func (e Event) String() string {
	ts := e.Timestamp.Format("15:04:05.000")
	switch e.Kind {
	case KindReady:
		return ts + " " + e.Kind.String() + " " + cec.LogicalAddress(e.Address).String()
	case KindAllocationFailed:
		return ts + " " + e.Kind.String() + " " + e.Error
	}
	f, err := e.Frame()
	if err != nil {
		return ts + " " + e.Kind.String() + " <invalid>"
	}
	status := "ack"
	if !e.Ack {
		status = "nak"
	}
	return ts + " " + e.Kind.String() + " " + f.String() + " " + status
}
