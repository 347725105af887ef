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

import "sync/atomic"

// DeviceMetrics is a snapshot of a device's counters.
type DeviceMetrics struct {
	Ticks             int64 // Engine ticks
	Attempts          int64 // Transmission attempts put on the bus
	FramesTransmitted int64 // Transmissions that ended acknowledged
	TxFailures        int64 // Transmissions that ran out of attempts
	NAKs              int64 // Attempts ending without acknowledgment
	ArbitrationLost   int64 // Attempts that yielded to another initiator
	BusErrors         int64 // Timing violations and collisions
	FramesReceived    int64 // Frames assembled by the receiver
	DroppedFrames     int64 // Frames lost to a full receive queue
	LateTicks         int64 // Serve loop resyncs after falling behind
}

type metrics struct {
	ticks             atomic.Int64
	attempts          atomic.Int64
	framesTransmitted atomic.Int64
	txFailures        atomic.Int64
	naks              atomic.Int64
	arbitrationLost   atomic.Int64
	busErrors         atomic.Int64
	framesReceived    atomic.Int64
	droppedFrames     atomic.Int64
	lateTicks         atomic.Int64
}

// Metrics returns the current counters.
func (d *Device) Metrics() DeviceMetrics {
	m := &d.metrics
	return DeviceMetrics{
		Ticks:             m.ticks.Load(),
		Attempts:          m.attempts.Load(),
		FramesTransmitted: m.framesTransmitted.Load(),
		TxFailures:        m.txFailures.Load(),
		NAKs:              m.naks.Load(),
		ArbitrationLost:   m.arbitrationLost.Load(),
		BusErrors:         m.busErrors.Load(),
		FramesReceived:    m.framesReceived.Load(),
		DroppedFrames:     m.droppedFrames.Load(),
		LateTicks:         m.lateTicks.Load(),
	}
}
