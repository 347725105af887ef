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
	"time"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithSink sets the receiver of the device's events
func WithSink(sink EventSink) Option {
	return func(d *Device) error {
		if sink == nil {
			sink = NopSink{}
		}
		d.sink = sink
		return nil
	}
}

// WithClock replaces the monotonic clock, for simulated buses
func WithClock(clock Clock) Option {
	return func(d *Device) error {
		if clock == nil {
			return fmt.Errorf("%w: nil clock", ErrInvalidParameter)
		}
		d.clock = clock
		return nil
	}
}

// WithRetryConfig sets the retry configuration for the device
func WithRetryConfig(config *RetryConfig) Option {
	return func(d *Device) error {
		if config == nil {
			config = DefaultRetryConfig()
		}
		if err := config.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		d.config.RetryConfig = config.Clone()
		return nil
	}
}

// WithMaxAttempts sets how often a frame is put on the bus before giving up
func WithMaxAttempts(maxAttempts int) Option {
	return func(d *Device) error {
		if maxAttempts < 1 {
			return fmt.Errorf("%w: max attempts %d", ErrInvalidParameter, maxAttempts)
		}
		d.config.RetryConfig.MaxAttempts = maxAttempts
		return nil
	}
}

// WithAttemptTimeout caps the wall-clock time of a single attempt. Zero
// disables the cap; transmissions then wait on the caller's context alone, so
// use it only while Serve or Run is ticking the device, as simulated buses do.
func WithAttemptTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout < 0 {
			return fmt.Errorf("%w: attempt timeout %v", ErrInvalidParameter, timeout)
		}
		d.config.RetryConfig.AttemptTimeout = timeout
		return nil
	}
}

// WithBusFreeTimeout sets how long a transmission waits for an idle bus
func WithBusFreeTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		d.config.BusFreeTimeout = timeout
		return nil
	}
}

// WithTickInterval sets the period of the Serve loop
func WithTickInterval(interval time.Duration) Option {
	return func(d *Device) error {
		if interval <= 0 || interval > BitPeriod/8 {
			return fmt.Errorf("%w: tick interval %v", ErrInvalidParameter, interval)
		}
		d.config.TickInterval = interval
		return nil
	}
}

// WithPollAttempts bounds re-polls of a candidate address after bus errors
func WithPollAttempts(attempts int) Option {
	return func(d *Device) error {
		if attempts < 1 {
			return fmt.Errorf("%w: poll attempts %d", ErrInvalidParameter, attempts)
		}
		d.config.PollAttempts = attempts
		return nil
	}
}

// WithOSDName sets the name reported to other devices
func WithOSDName(name string) Option {
	return func(d *Device) error {
		if name == "" || len(name) > 14 {
			return fmt.Errorf("%w: osd name must be 1-14 characters", ErrInvalidParameter)
		}
		for _, r := range name {
			if r < 0x20 || r > 0x7E {
				return fmt.Errorf("%w: osd name must be printable ASCII", ErrInvalidParameter)
			}
		}
		d.config.OSDName = name
		return nil
	}
}

// WithVendorID sets the 24-bit vendor ID reported to other devices
func WithVendorID(id uint32) Option {
	return func(d *Device) error {
		if id > 0xFFFFFF {
			return fmt.Errorf("%w: vendor id %#x", ErrInvalidParameter, id)
		}
		d.config.VendorID = id
		return nil
	}
}

// WithPromiscuous delivers frames addressed to other devices to the sink.
// Initialize overrides it with its own argument.
func WithPromiscuous(enabled bool) Option {
	return func(d *Device) error {
		d.promiscuous.Store(enabled)
		return nil
	}
}
