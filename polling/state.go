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

package polling

import (
	"time"

	cec "github.com/ZaparooProject/go-cec"
)

// PresenceState is the scanner's view of one logical address
type PresenceState int

const (
	StateAbsent PresenceState = iota
	StatePresent
	StateMissing
)

func (s PresenceState) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StatePresent:
		return "present"
	case StateMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// DeviceState tracks one logical address across scan cycles
type DeviceState struct {
	LastSeen time.Time
	Address  cec.LogicalAddress
	State    PresenceState
	Misses   int
}

// Present reports whether the device still counts as on the bus.
func (ds *DeviceState) Present() bool {
	return ds.State != StateAbsent
}

// markSeen records an acknowledged poll and reports whether the device
// just appeared.
func (ds *DeviceState) markSeen(now time.Time) bool {
	appeared := ds.State == StateAbsent
	ds.State = StatePresent
	ds.LastSeen = now
	ds.Misses = 0
	return appeared
}

// markMissed records an unanswered poll and reports whether the device is
// now considered gone.
func (ds *DeviceState) markMissed(threshold int) bool {
	if ds.State == StateAbsent {
		return false
	}
	ds.Misses++
	if ds.Misses < threshold {
		ds.State = StateMissing
		return false
	}
	ds.State = StateAbsent
	ds.Misses = 0
	ds.LastSeen = time.Time{}
	return true
}
