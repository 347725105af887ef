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

package uart

import (
	"testing"

	cec "github.com/ZaparooProject/go-cec"
)

// TestLineCreation verifies basic line creation and properties
func TestLineCreation(t *testing.T) {
	t.Parallel()

	testPortName := "/dev/ttyUSB0"
	line := &Line{
		portName: testPortName,
	}

	// Verify port name is stored correctly
	if line.portName != testPortName {
		t.Errorf("Expected port name %s, got %s", testPortName, line.portName)
	}

	// Verify line type
	expectedType := cec.LineUART
	if line.Type() != expectedType {
		t.Errorf("Expected line type %v, got %v", expectedType, line.Type())
	}

	// Verify IsConnected returns false for an unopened line
	if line.IsConnected() {
		t.Error("Expected IsConnected() to return false for unopened line")
	}

	// An unopened line floats high and ignores drives
	line.Drive(true)
	if !line.Read() {
		t.Error("Expected unopened line to read high")
	}
}
