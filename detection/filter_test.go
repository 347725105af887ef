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

package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVIDPID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		descriptor string
		want       string
	}{
		{name: "Pair", descriptor: "2548:1001", want: "2548:1001"},
		{name: "Pair_Lower_Case", descriptor: "0403:6001", want: "0403:6001"},
		{name: "Pair_Padded", descriptor: "403:6001", want: "0403:6001"},
		{name: "Separate_Fields", descriptor: "USB VID:10c4 PID:ea60 SER=0001", want: "10C4:EA60"},
		{name: "Vendor_Product", descriptor: "vendor=1a86 product=7523", want: "1A86:7523"},
		{name: "Equals_Form", descriptor: "VID=2548 PID=1002", want: "2548:1002"},
		{name: "Missing_PID", descriptor: "VID:2548", want: ""},
		{name: "Not_Hex", descriptor: "GPIO17:line", want: ""},
		{name: "Empty", descriptor: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseVIDPID(tt.descriptor))
		})
	}
}

func TestIsBlocked(t *testing.T) {
	t.Parallel()

	blocklist := DefaultBlocklist()
	assert.True(t, IsBlocked("2548:1001", blocklist))
	assert.True(t, IsBlocked(" 2548:1002 ", blocklist))
	assert.False(t, IsBlocked("0403:6001", blocklist))
	assert.False(t, IsBlocked("2548:1001", nil))
}

func TestIsPathIgnored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		ignored []string
		want    bool
	}{
		{name: "Empty_List", path: "/dev/ttyUSB0", ignored: nil, want: false},
		{name: "Empty_Path", path: "", ignored: []string{"/dev/ttyUSB0"}, want: false},
		{name: "Exact", path: "/dev/ttyUSB0", ignored: []string{"/dev/ttyUSB0"}, want: true},
		{name: "Case_Insensitive", path: "/dev/ttyUSB0", ignored: []string{"/DEV/TTYUSB0"}, want: true},
		{name: "GPIO_Pin", path: "GPIO17", ignored: []string{"gpio17"}, want: true},
		{name: "COM_Port", path: "com3", ignored: []string{"COM3"}, want: true},
		{name: "Uncleaned", path: "/dev/../dev/ttyACM0", ignored: []string{"/dev/ttyACM0"}, want: true},
		{name: "Skips_Empty_Entries", path: "/dev/ttyUSB1", ignored: []string{"", "/dev/ttyUSB0"}, want: false},
		{name: "One_Of_Many", path: "GPIO27", ignored: []string{"GPIO17", "GPIO27"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsPathIgnored(tt.path, tt.ignored))
		})
	}
}
