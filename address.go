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
	"fmt"
	"strconv"
	"strings"
)

// LogicalAddress identifies a device's role on the bus.
type LogicalAddress uint8

const (
	AddressTV          LogicalAddress = 0x0
	AddressRecording1  LogicalAddress = 0x1
	AddressRecording2  LogicalAddress = 0x2
	AddressTuner1      LogicalAddress = 0x3
	AddressPlayback1   LogicalAddress = 0x4
	AddressAudioSystem LogicalAddress = 0x5
	AddressTuner2      LogicalAddress = 0x6
	AddressTuner3      LogicalAddress = 0x7
	AddressPlayback2   LogicalAddress = 0x8
	AddressRecording3  LogicalAddress = 0x9
	AddressTuner4      LogicalAddress = 0xA
	AddressPlayback3   LogicalAddress = 0xB
	AddressReserved1   LogicalAddress = 0xC
	AddressReserved2   LogicalAddress = 0xD
	AddressFreeUse     LogicalAddress = 0xE

	// AddressBroadcast is the destination of frames meant for every device.
	AddressBroadcast LogicalAddress = 0xF
	// AddressUnregistered is the initiator address of a device without a claimed
	// address. It shares its value with AddressBroadcast.
	AddressUnregistered LogicalAddress = 0xF
)

var logicalAddressNames = [...]string{
	"TV", "Recording 1", "Recording 2", "Tuner 1", "Playback 1", "Audio System",
	"Tuner 2", "Tuner 3", "Playback 2", "Recording 3", "Tuner 4", "Playback 3",
	"Reserved 1", "Reserved 2", "Free Use", "Broadcast",
}

// Valid reports whether the address fits in a nibble.
func (a LogicalAddress) Valid() bool {
	return a <= 0xF
}

// String returns the conventional role name of the address.
func (a LogicalAddress) String() string {
	if !a.Valid() {
		return fmt.Sprintf("LogicalAddress(%d)", uint8(a))
	}
	return logicalAddressNames[a]
}

// PhysicalAddress describes the position of a device in the display chain,
// one nibble per hop ("3.0.0.0" is a device on the TV's third input).
type PhysicalAddress uint16

// PhysicalAddressInvalid is reported by devices that do not know their position.
const PhysicalAddressInvalid PhysicalAddress = 0xFFFF

// ParsePhysicalAddress accepts "a.b.c.d" notation or a hex value such as "0x3000".
func ParsePhysicalAddress(s string) (PhysicalAddress, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 16)
		if err != nil {
			return PhysicalAddressInvalid, fmt.Errorf("invalid physical address %q: %w", s, err)
		}
		return PhysicalAddress(v), nil
	}

	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return PhysicalAddressInvalid, fmt.Errorf("invalid physical address %q: want a.b.c.d", s)
	}
	var pa PhysicalAddress
	for _, p := range parts {
		v, err := strconv.ParseUint(p, 16, 4)
		if err != nil {
			return PhysicalAddressInvalid, fmt.Errorf("invalid physical address %q: %w", s, err)
		}
		pa = pa<<4 | PhysicalAddress(v)
	}
	return pa, nil
}

// Bytes returns the address in wire order.
func (p PhysicalAddress) Bytes() [2]byte {
	return [2]byte{byte(p >> 8), byte(p)}
}

// Port returns the input number of the first hop below the TV.
func (p PhysicalAddress) Port() int {
	return int(p >> 12)
}

func (p PhysicalAddress) String() string {
	v := uint16(p)
	return fmt.Sprintf("%x.%x.%x.%x", v>>12, (v>>8)&0xF, (v>>4)&0xF, v&0xF)
}

// DeviceType is the primary device type reported alongside the physical address.
type DeviceType uint8

const (
	DeviceTypeTV          DeviceType = 0
	DeviceTypeRecording   DeviceType = 1
	DeviceTypeReserved    DeviceType = 2
	DeviceTypeTuner       DeviceType = 3
	DeviceTypePlayback    DeviceType = 4
	DeviceTypeAudioSystem DeviceType = 5
)

// ParseDeviceType maps a configuration name to its DeviceType.
func ParseDeviceType(s string) (DeviceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tv":
		return DeviceTypeTV, nil
	case "recording", "recorder":
		return DeviceTypeRecording, nil
	case "tuner":
		return DeviceTypeTuner, nil
	case "playback", "player":
		return DeviceTypePlayback, nil
	case "audio", "audiosystem", "audio-system":
		return DeviceTypeAudioSystem, nil
	default:
		return DeviceTypeReserved, fmt.Errorf("unknown device type %q", s)
	}
}

func (t DeviceType) String() string {
	switch t {
	case DeviceTypeTV:
		return "tv"
	case DeviceTypeRecording:
		return "recording"
	case DeviceTypeTuner:
		return "tuner"
	case DeviceTypePlayback:
		return "playback"
	case DeviceTypeAudioSystem:
		return "audio-system"
	default:
		return "reserved"
	}
}
