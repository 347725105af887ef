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

import "time"

// Nominal pulse widths. A bit starts with a falling edge; its value is carried
// by how long the line stays low.
const (
	StartBitLow    = 3700 * time.Microsecond
	StartBitPeriod = 4500 * time.Microsecond
	BitPeriod      = 2400 * time.Microsecond
	BitOneLow      = 600 * time.Microsecond
	BitZeroLow     = 1500 * time.Microsecond
	SamplePoint    = 1050 * time.Microsecond
)

// Signal free times, in bit periods, a transmitter waits before a start bit.
const (
	FreeTimeNewInitiator = 7
	FreeTimeNextFrame    = 5
	FreeTimeRetransmit   = 3
)

// window is a tolerance band, inclusive on both ends.
type window struct {
	min, max time.Duration
}

func (w window) contains(d time.Duration) bool {
	return d >= w.min && d <= w.max
}

var (
	startLowWindow    = window{3500 * time.Microsecond, 3900 * time.Microsecond}
	startPeriodWindow = window{4300 * time.Microsecond, 4700 * time.Microsecond}
	bitPeriodWindow   = window{2050 * time.Microsecond, 2750 * time.Microsecond}
	oneLowWindow      = window{400 * time.Microsecond, 800 * time.Microsecond}
	zeroLowWindow     = window{1300 * time.Microsecond, 1700 * time.Microsecond}
)

// freeTime returns the idle time required before transmission attempt n
// (1-based). Retransmissions wait one extra bit period per earlier attempt so
// competing initiators get a chance at the bus.
func freeTime(attempt int, followsOwnFrame bool) time.Duration {
	switch {
	case attempt > 1:
		periods := FreeTimeRetransmit + attempt - 2
		if periods > FreeTimeNewInitiator {
			periods = FreeTimeNewInitiator
		}
		return time.Duration(periods) * BitPeriod
	case followsOwnFrame:
		return FreeTimeNextFrame * BitPeriod
	default:
		return FreeTimeNewInitiator * BitPeriod
	}
}

// Clock supplies the engine's notion of time. It only has to be monotonic.
type Clock interface {
	Now() time.Duration
}

// monotonicClock measures time since its creation.
type monotonicClock struct {
	epoch time.Time
}

func newMonotonicClock() *monotonicClock {
	return &monotonicClock{epoch: time.Now()}
}

func (c *monotonicClock) Now() time.Duration {
	return time.Since(c.epoch)
}
