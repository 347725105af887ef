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
	"context"
	"runtime"
	"time"
)

// spinThreshold is the remaining wait below which Serve spins instead of
// sleeping. Sleep granularity on most kernels is coarser than a bit's
// tolerance band.
const spinThreshold = 200 * time.Microsecond

// Serve ticks the engine every TickInterval until ctx is done. It pins itself
// to an OS thread and asks for real-time scheduling where the platform
// allows it. Serve must not run concurrently with Run.
func (d *Device) Serve(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := setRealtimePriority(); err != nil {
		debugf("running without real-time priority: %v", err)
	}

	interval := d.config.TickInterval
	next := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			d.line.Drive(false)
			return err
		}

		d.Run()

		next = next.Add(interval)
		wait := time.Until(next)
		switch {
		case wait < -interval*8:
			// Fell behind, most likely descheduled. Resync instead of
			// bursting through the missed ticks.
			d.metrics.lateTicks.Add(1)
			next = time.Now()
		case wait > spinThreshold:
			time.Sleep(wait - spinThreshold)
			fallthrough
		default:
			for time.Now().Before(next) {
				runtime.Gosched()
			}
		}
	}
}
