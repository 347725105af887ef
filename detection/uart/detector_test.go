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
	"context"
	"errors"
	"testing"

	cec "github.com/ZaparooProject/go-cec"
	"github.com/ZaparooProject/go-cec/detection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
)

func TestDetectListsUSBPorts(t *testing.T) {
	t.Parallel()

	d := &detector{list: func() ([]*enumerator.PortDetails, error) {
		return []*enumerator.PortDetails{
			{Name: "/dev/ttyS0"},
			{Name: "/dev/ttyUSB0", IsUSB: true, VID: "0403", PID: "6001", Product: "FT232R", SerialNumber: "A1"},
			{Name: "/dev/ttyACM0", IsUSB: true, VID: "2548", PID: "1001"},
		}, nil
	}}

	lines, err := d.Detect(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "/dev/ttyUSB0", lines[0].Path)
	assert.Equal(t, cec.LineUART, lines[0].Type)
	assert.Equal(t, "0403:6001", lines[0].VIDPID)
	assert.Equal(t, "A1", lines[0].Metadata["serial"])

	opts := detection.DefaultOptions()
	filtered := detection.Filter(lines, &opts)
	require.Len(t, filtered, 1, "blocklisted adapter is dropped")
	assert.Equal(t, "/dev/ttyUSB0", filtered[0].Path)
}

func TestDetectListError(t *testing.T) {
	t.Parallel()

	d := &detector{list: func() ([]*enumerator.PortDetails, error) {
		return nil, errors.New("permission denied")
	}}
	_, err := d.Detect(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}
