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

// Package uart provides a bus line on the modem control lines of a serial
// adapter: RTS drives the bus through an open-collector stage and CTS senses it
package uart

import (
	"fmt"
	"sync"

	cec "github.com/ZaparooProject/go-cec"
	"go.bug.st/serial"
)

// modemPort is the part of serial.Port the line uses.
type modemPort interface {
	SetRTS(rts bool) error
	GetModemStatusBits() (*serial.ModemStatusBits, error)
	Close() error
}

// Line implements cec.Line on a serial port's RTS and CTS pins
type Line struct {
	port     modemPort
	err      error
	portName string
	mu       sync.Mutex
	invert   bool
	low      bool
}

// Option configures a Line.
type Option func(*Line)

// WithInverted flips both pins, for adapters without an inverting stage.
func WithInverted(invert bool) Option {
	return func(l *Line) {
		l.invert = invert
	}
}

// New opens portName and releases the bus.
func New(portName string, opts ...Option) (*Line, error) {
	mode := &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	l := newLine(port, portName, opts...)
	if err := l.setRTS(false); err != nil {
		_ = port.Close()
		return nil, err
	}
	return l, nil
}

func newLine(port modemPort, portName string, opts ...Option) *Line {
	l := &Line{port: port, portName: portName}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// setRTS asserts RTS when the bus should be pulled low.
func (l *Line) setRTS(low bool) error {
	if err := l.port.SetRTS(low != l.invert); err != nil {
		return fmt.Errorf("failed to set RTS on %s: %w", l.portName, err)
	}
	return nil
}

// Read returns the sensed level. CTS is asserted while the bus is low.
func (l *Line) Read() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.port == nil {
		return true
	}
	bits, err := l.port.GetModemStatusBits()
	if err != nil {
		l.latch(fmt.Errorf("failed to read CTS on %s: %w", l.portName, err))
		return !l.low
	}
	return bits.CTS == l.invert
}

// Drive pulls the line low or releases it. Errors are latched and reported by Err.
func (l *Line) Drive(low bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.port == nil || low == l.low {
		return
	}
	if err := l.setRTS(low); err != nil {
		l.latch(err)
		return
	}
	l.low = low
}

func (l *Line) latch(err error) {
	if l.err == nil {
		l.err = err
	}
}

// Err returns the first error seen on the port.
func (l *Line) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Type returns the line type
func (*Line) Type() cec.LineType {
	return cec.LineUART
}

// IsConnected returns true if the port is open
func (l *Line) IsConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.port != nil
}

// Close releases the bus and closes the port.
func (l *Line) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.port == nil {
		return nil
	}
	_ = l.setRTS(false)
	err := l.port.Close()
	l.port = nil
	if err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", l.portName, err)
	}
	return nil
}

var _ cec.LineCloser = (*Line)(nil)
