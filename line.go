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

// Line is the open-drain signal the bus runs on. Implementations exist for
// GPIO pins and serial modem lines.
type Line interface {
	// Read returns the sensed level: true when the line is high (released).
	Read() bool

	// Drive pulls the line low when low is true, otherwise releases it to the
	// pull-up. Reads taken inside the settle window of the last call are not
	// meaningful; implementations report the driven level during that time.
	Drive(low bool)
}

// LineCloser is implemented by lines that hold an OS resource.
type LineCloser interface {
	Line
	Close() error
}

// LineType names a line backend.
type LineType string

const (
	// LineGPIO is a GPIO pin driven through periph.io.
	LineGPIO LineType = "gpio"
	// LineUART is a serial adapter's RTS/CTS pair.
	LineUART LineType = "uart"
	// LineMock represents a simulated line for testing
	LineMock LineType = "mock"
)
