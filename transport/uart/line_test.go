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
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

// fakePort wires RTS to CTS through an open-collector stage, as the adapter
// board does: asserting RTS pulls the bus low, which asserts CTS.
type fakePort struct {
	rtsErr   error
	ctsErr   error
	rts      bool
	external bool
	closed   bool
	invert   bool
	mu       sync.Mutex
}

func (p *fakePort) SetRTS(rts bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rtsErr != nil {
		return p.rtsErr
	}
	p.rts = rts
	return nil
}

func (p *fakePort) GetModemStatusBits() (*serial.ModemStatusBits, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctsErr != nil {
		return nil, p.ctsErr
	}
	busLow := p.external || p.rts != p.invert
	return &serial.ModemStatusBits{CTS: busLow != p.invert}, nil
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func TestLineDriveAndRead(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		invert bool
	}{
		{name: "normal", invert: false},
		{name: "inverted", invert: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			port := &fakePort{invert: tt.invert}
			line := newLine(port, "/dev/ttyFAKE", WithInverted(tt.invert))
			require.NoError(t, line.setRTS(false))

			assert.True(t, line.Read(), "released line should read high")

			line.Drive(true)
			assert.False(t, line.Read(), "driven line should read low")

			line.Drive(false)
			assert.True(t, line.Read())

			port.external = true
			assert.False(t, line.Read(), "another device pulling low should be sensed")
			assert.NoError(t, line.Err())
		})
	}
}

func TestLineLatchesFirstError(t *testing.T) {
	t.Parallel()

	first := errors.New("rts stuck")
	port := &fakePort{rtsErr: first}
	line := newLine(port, "/dev/ttyFAKE")

	line.Drive(true)
	port.rtsErr = errors.New("second failure")
	line.Drive(true)

	require.Error(t, line.Err())
	assert.ErrorIs(t, line.Err(), first)

	port.rtsErr = nil
	port.ctsErr = errors.New("cts read failed")
	assert.True(t, line.Read(), "failed read reports the driven level")
}

func TestLineClose(t *testing.T) {
	t.Parallel()

	port := &fakePort{}
	line := newLine(port, "/dev/ttyFAKE")
	line.Drive(true)

	require.NoError(t, line.Close())
	assert.True(t, port.closed)
	assert.False(t, port.rts, "close releases the bus")
	assert.False(t, line.IsConnected())
	assert.NoError(t, line.Close(), "second close is a no-op")
}
