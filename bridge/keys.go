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

package bridge

import "strings"

// Key is a remote-control key the bridge can send.
type Key string

// Keys with a user control code.
const (
	KeySelect    Key = "select"
	KeyUp        Key = "up"
	KeyDown      Key = "down"
	KeyLeft      Key = "left"
	KeyRight     Key = "right"
	KeyBack      Key = "back"
	KeyExit      Key = "exit"
	KeyPlayPause Key = "playpause"
	KeyInfo      Key = "info"
)

// User control codes carried by a user control pressed frame.
const (
	CodeSelect    byte = 0x00
	CodeUp        byte = 0x01
	CodeDown      byte = 0x02
	CodeLeft      byte = 0x03
	CodeRight     byte = 0x04
	CodeExit      byte = 0x0D
	CodeInfo      byte = 0x35
	CodePlayPause byte = 0x44
)

var keyCodes = map[Key]byte{
	KeySelect:    CodeSelect,
	KeyUp:        CodeUp,
	KeyDown:      CodeDown,
	KeyLeft:      CodeLeft,
	KeyRight:     CodeRight,
	KeyBack:      CodeExit,
	KeyExit:      CodeExit,
	KeyPlayPause: CodePlayPause,
	KeyInfo:      CodeInfo,
}

// KeyCode returns the user control code for k. Names are matched without
// regard to case.
func KeyCode(k Key) (byte, bool) {
	code, ok := keyCodes[Key(strings.ToLower(string(k)))]
	return code, ok
}
