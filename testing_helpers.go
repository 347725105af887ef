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
	"sync"
)

// MockLine is a line whose sensed level is set by the test. Driving it low
// pulls the sensed level low as a real open-drain line would.
type MockLine struct {
	drives   []bool
	mu       sync.Mutex
	external bool
	driven   bool
	closed   bool
}

// NewMockLine creates a released, idle line.
func NewMockLine() *MockLine {
	return &MockLine{}
}

// Read returns the sensed level, true when high.
func (m *MockLine) Read() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.external && !m.driven
}

// Drive pulls the line low or releases it.
func (m *MockLine) Drive(low bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.driven != low {
		m.drives = append(m.drives, low)
	}
	m.driven = low
}

// Close marks the line closed.
func (m *MockLine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.driven = false
	return nil
}

// HoldLow simulates another device pulling the line low.
func (m *MockLine) HoldLow(low bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.external = low
}

// Driving reports whether the device under test holds the line low.
func (m *MockLine) Driving() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.driven
}

// Drives returns every change of the driven level, in order.
func (m *MockLine) Drives() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.drives...)
}

// IsClosed reports whether Close was called.
func (m *MockLine) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ LineCloser = (*MockLine)(nil)
