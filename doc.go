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

/*
Package cec implements the Consumer Electronics Control bus protocol used by
HDMI devices: a single-wire, open-drain, multi-drop bus on which every device
may initiate frames and the line is only ever pulled low.

The library is built in layers:
  - Line: sensing and driving the physical wire (see transport/gpio and transport/uart)
  - engine: the bit-timing state machine, ticked by Serve or Run
  - framer: bytes to bit operations and back (Encode, Assembler)
  - Allocator: claiming a logical address by polling
  - Device: the session, dispatching frames to an EventSink

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-cec"
	    "github.com/ZaparooProject/go-cec/transport/gpio"
	)

	line, err := gpio.New("GPIO17")
	if err != nil {
	    log.Fatal(err)
	}

	device, err := cec.New(line,
	    cec.WithSink(sink),
	    cec.WithOSDName("Zaparoo"),
	)
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	go func() { _ = device.Serve(ctx) }()
	if err := device.Start(ctx); err != nil {
	    log.Fatal(err)
	}

	addr, err := device.Initialize(ctx, 0x3000, cec.DeviceTypePlayback, false)
	if err != nil {
	    log.Fatal(err)
	}

	// Turn the TV on
	err = device.TransmitFrame(ctx, cec.AddressTV, []byte{byte(cec.OpImageViewOn)})

Timing:

The engine samples the line on every tick and must be ticked every few tens
of microseconds. Serve pins itself to an OS thread and requests SCHED_FIFO on
Linux. Tests and simulations drive Run from a virtual clock instead, see
WithClock.

Error Handling:

Transmit failures are returned as *BusError and wrap the sentinel errors:

	if errors.Is(err, cec.ErrNoAck) {
	    // Nobody acknowledged the frame
	}

Thread Safety:

Only Serve or Run may tick the engine, from a single goroutine. All other
Device methods are safe for concurrent use.
*/
package cec
