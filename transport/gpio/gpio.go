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

// Package gpio provides a bus line on a single GPIO pin
package gpio

import (
	"fmt"
	"sync"
	"time"

	cec "github.com/ZaparooProject/go-cec"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// DefaultSettle is how long a level change takes to show on the wire.
const DefaultSettle = 30 * time.Microsecond

// Line drives a pin as an open-drain output: low is an output driving
// gpio.Low, released is an input with the pull-up enabled.
type Line struct {
	pin     gpio.PinIO
	err     error
	changed time.Time
	mu      sync.Mutex
	settle  time.Duration
	low     bool
}

// Option configures a Line.
type Option func(*Line)

// WithSettle overrides DefaultSettle.
func WithSettle(d time.Duration) Option {
	return func(l *Line) {
		l.settle = d
	}
}

// New opens the named pin, for example "GPIO17".
func New(pinName string, opts ...Option) (*Line, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("gpio pin %s not found", pinName)
	}
	return NewFromPin(pin, opts...)
}

// NewFromPin wraps an already opened pin and releases it.
func NewFromPin(pin gpio.PinIO, opts ...Option) (*Line, error) {
	l := &Line{pin: pin, settle: DefaultSettle}
	for _, opt := range opts {
		opt(l)
	}
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to release pin %s: %w", pin.Name(), err)
	}
	return l, nil
}

// Read returns the sensed level. While a level change is settling the
// driven level is reported.
func (l *Line) Read() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.low {
		return false
	}
	if time.Since(l.changed) < l.settle {
		return true
	}
	return l.pin.Read() == gpio.High
}

// Drive pulls the line low or releases it. Errors are latched and reported by Err.
func (l *Line) Drive(low bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if low == l.low {
		return
	}

	var err error
	if low {
		err = l.pin.Out(gpio.Low)
	} else {
		err = l.pin.In(gpio.PullUp, gpio.NoEdge)
	}
	if err != nil {
		if l.err == nil {
			l.err = fmt.Errorf("failed to drive pin %s: %w", l.pin.Name(), err)
		}
		return
	}
	l.low = low
	l.changed = time.Now()
}

// Err returns the first error seen while driving the pin.
func (l *Line) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Type returns the line type
func (*Line) Type() cec.LineType {
	return cec.LineGPIO
}

// Close releases the pin.
func (l *Line) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.low = false
	if err := l.pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return fmt.Errorf("failed to release pin %s: %w", l.pin.Name(), err)
	}
	return nil
}

var _ cec.LineCloser = (*Line)(nil)
