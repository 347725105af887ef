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

	cec "github.com/ZaparooProject/go-cec"
	"github.com/stretchr/testify/assert"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestPinLines(t *testing.T) {
	t.Parallel()

	pins := []gpio.PinIO{
		&gpiotest.Pin{N: "GPIO17", Num: 17, Fn: "In/High"},
		&gpiotest.Pin{N: "GPIO27", Num: 27, Fn: "Out/Low"},
	}

	lines := pinLines(pins)
	assert.Len(t, lines, 2)
	assert.Equal(t, "GPIO17", lines[0].Path)
	assert.Equal(t, cec.LineGPIO, lines[0].Type)
	assert.Equal(t, "17", lines[0].Metadata["number"])
	assert.Equal(t, "GPIO27", lines[1].Path)
}
