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

package gpio

import (
	"testing"
	"time"

	cec "github.com/ZaparooProject/go-cec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestLineReleasesOnOpen(t *testing.T) {
	t.Parallel()

	pin := &gpiotest.Pin{N: "GPIO17", L: gpio.High}
	line, err := NewFromPin(pin)
	require.NoError(t, err)

	assert.Equal(t, gpio.PullUp, pin.P)
	assert.True(t, line.Read())
	assert.Equal(t, cec.LineGPIO, line.Type())
}

func TestLineDrive(t *testing.T) {
	t.Parallel()

	pin := &gpiotest.Pin{N: "GPIO17", L: gpio.High}
	line, err := NewFromPin(pin, WithSettle(0))
	require.NoError(t, err)

	line.Drive(true)
	assert.Equal(t, gpio.Low, pin.L)
	assert.False(t, line.Read())

	// The pull-up brings the wire back once the pin is an input again.
	line.Drive(false)
	pin.L = gpio.High
	assert.True(t, line.Read())
	assert.Equal(t, gpio.PullUp, pin.P)

	// Another device pulling low.
	pin.L = gpio.Low
	assert.False(t, line.Read())
	assert.NoError(t, line.Err())
}

func TestLineSettle(t *testing.T) {
	t.Parallel()

	pin := &gpiotest.Pin{N: "GPIO17", L: gpio.High}
	line, err := NewFromPin(pin, WithSettle(time.Hour))
	require.NoError(t, err)

	line.Drive(true)
	line.Drive(false)
	pin.L = gpio.Low
	assert.True(t, line.Read(), "release has not settled yet")
}

func TestLineClose(t *testing.T) {
	t.Parallel()

	pin := &gpiotest.Pin{N: "GPIO17", L: gpio.High}
	line, err := NewFromPin(pin)
	require.NoError(t, err)

	line.Drive(true)
	require.NoError(t, line.Close())
	assert.Equal(t, gpio.PullUp, pin.P)
}
