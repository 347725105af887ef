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
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// receiveQueueSize bounds how many assembled frames may wait for dispatch.
const receiveQueueSize = 64

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// RetryConfig bounds transmissions
	RetryConfig *RetryConfig
	// OSDName is returned to name queries (at most 14 characters)
	OSDName string
	// VendorID is the 24-bit IEEE OUI returned to vendor queries
	VendorID uint32
	// BusFreeTimeout fails a waiting transmission if the bus stays busy
	BusFreeTimeout time.Duration
	// TickInterval is the period of Serve's tick loop
	TickInterval time.Duration
	// PollAttempts bounds re-polls of one candidate address after bus errors
	PollAttempts int
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		RetryConfig:    DefaultRetryConfig(),
		OSDName:        "go-cec",
		VendorID:       0x000000,
		BusFreeTimeout: 500 * time.Millisecond,
		TickInterval:   25 * time.Microsecond,
		PollAttempts:   3,
	}
}

// Device is one participant on the bus. It owns the timing engine, the
// claimed logical address and the dispatcher feeding the EventSink.
//
// The engine must be ticked from a single goroutine: either Serve or a
// caller invoking Run. All other methods are safe for concurrent use.
type Device struct {
	line     Line
	clock    Clock
	config   *DeviceConfig
	sink     EventSink
	engine   *engine
	requests chan *attempt
	received chan Frame
	cancel   context.CancelFunc
	done     chan struct{}
	metrics  metrics

	initMu      sync.Mutex
	stopMu      sync.Mutex
	address     atomic.Uint32
	physical    atomic.Uint32
	deviceType  atomic.Uint32
	ready       atomic.Bool
	running     atomic.Bool
	promiscuous atomic.Bool
}

// New creates a device on the given line
func New(line Line, opts ...Option) (*Device, error) {
	if line == nil {
		return nil, fmt.Errorf("%w: nil line", ErrInvalidParameter)
	}

	device := &Device{
		line:     line,
		clock:    newMonotonicClock(),
		config:   DefaultDeviceConfig(),
		sink:     NopSink{},
		requests: make(chan *attempt, 1),
		received: make(chan Frame, receiveQueueSize),
	}
	device.address.Store(uint32(AddressUnregistered))
	device.physical.Store(uint32(PhysicalAddressInvalid))
	device.deviceType.Store(uint32(DeviceTypeReserved))

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	device.engine = newEngine(line, device.requests, device.received,
		device.LogicalAddress, &device.metrics, device.config.BusFreeTimeout)
	return device, nil
}

// Line returns the underlying line
func (d *Device) Line() Line {
	return d.line
}

// LogicalAddress returns the claimed address, or AddressUnregistered.
func (d *Device) LogicalAddress() LogicalAddress {
	return LogicalAddress(d.address.Load())
}

// PhysicalAddress returns the address set by Initialize.
func (d *Device) PhysicalAddress() PhysicalAddress {
	return PhysicalAddress(d.physical.Load())
}

// DeviceType returns the type set by Initialize.
func (d *Device) DeviceType() DeviceType {
	return DeviceType(d.deviceType.Load())
}

// IsReady reports whether a logical address is held.
func (d *Device) IsReady() bool {
	return d.ready.Load()
}

// Promiscuous reports whether frames for other devices reach the sink.
func (d *Device) Promiscuous() bool {
	return d.promiscuous.Load()
}

// Initialize sets the session's physical address and device type and claims
// a logical address. Calling it again re-runs the allocation, trying the
// previously held address first, so an unchanged bus yields the same address.
func (d *Device) Initialize(
	ctx context.Context,
	physical PhysicalAddress,
	deviceType DeviceType,
	promiscuous bool,
) (LogicalAddress, error) {
	d.initMu.Lock()
	defer d.initMu.Unlock()

	previous := AddressUnregistered
	if d.ready.Load() {
		previous = d.LogicalAddress()
	}
	d.ready.Store(false)
	d.address.Store(uint32(AddressUnregistered))
	d.physical.Store(uint32(physical))
	d.deviceType.Store(uint32(deviceType))
	d.promiscuous.Store(promiscuous)

	allocator := NewAllocator(d, d.config.PollAttempts)
	addr, err := allocator.Allocate(ctx, deviceType, previous)
	if err != nil {
		if errors.Is(err, ErrAddressExhausted) {
			if h, ok := d.sink.(AllocationFailureHandler); ok {
				h.OnAllocationFailed(err)
			}
		}
		return AddressUnregistered, fmt.Errorf("address allocation failed: %w", err)
	}

	d.address.Store(uint32(addr))
	d.ready.Store(true)
	debugf("ready as %s (%d), physical address %s", addr, addr, physical)
	d.sink.OnReady(addr)

	if err := d.ReportPhysicalAddress(ctx); err != nil {
		debugf("initial physical address report failed: %v", err)
	}
	return addr, nil
}

// Poll sends a polling frame to addr and reports whether it was
// acknowledged. Before an address is claimed the frame is sent from addr
// itself, as address allocation requires. It implements Poller.
func (d *Device) Poll(ctx context.Context, addr LogicalAddress) (bool, error) {
	initiator := addr
	if d.ready.Load() {
		initiator = d.LogicalAddress()
	}
	_, err := d.attempt(ctx, NewFrame(initiator, addr), 1)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNoAck):
		return false, nil
	default:
		return false, err
	}
}

// TransmitFrame sends payload from the claimed address to destination,
// retrying per the RetryConfig.
func (d *Device) TransmitFrame(ctx context.Context, destination LogicalAddress, payload []byte) error {
	if !d.ready.Load() {
		return ErrNotReady
	}
	_, err := d.Transmit(ctx, NewFrame(d.LogicalAddress(), destination, payload...))
	return err
}

// Transmit sends a fully addressed frame with retries and reports the
// outcome to the sink. The returned frame carries the ACK results of the
// last attempt.
func (d *Device) Transmit(ctx context.Context, f Frame) (Frame, error) {
	if err := f.Validate(); err != nil {
		return f, err
	}

	result := f
	attempts := 0
	err := RetryWithConfig(ctx, d.config.RetryConfig, func(n int) error {
		attempts = n
		res, err := d.attempt(ctx, f, n)
		result = res
		return err
	})

	if err != nil {
		d.metrics.txFailures.Add(1)
		be := NewBusError("transmit", f, err)
		be.Attempts = attempts
		err = be
	} else {
		d.metrics.framesTransmitted.Add(1)
	}
	d.sink.OnTransmitComplete(result, err == nil)
	return result, err
}

// attempt hands one transmission to the engine and waits for its outcome.
func (d *Device) attempt(ctx context.Context, f Frame, number int) (Frame, error) {
	a := newAttempt(f, number)

	waitCtx := ctx
	if timeout := d.config.RetryConfig.AttemptTimeout; timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case d.requests <- a:
	case <-waitCtx.Done():
		return f, d.waitError(ctx, waitCtx)
	}

	select {
	case res := <-a.done:
		return res.frame, res.err
	case <-waitCtx.Done():
		a.abandoned.Store(true)
		return f, d.waitError(ctx, waitCtx)
	}
}

func (*Device) waitError(parent, waitCtx context.Context) error {
	if err := parent.Err(); err != nil {
		return fmt.Errorf("context cancelled while waiting for the bus: %w", err)
	}
	return fmt.Errorf("%w: %w", ErrAttemptTimeout, waitCtx.Err())
}

// ReportPhysicalAddress broadcasts this device's physical address and type.
func (d *Device) ReportPhysicalAddress(ctx context.Context) error {
	pa := d.PhysicalAddress().Bytes()
	return d.TransmitFrame(ctx, AddressBroadcast,
		[]byte{byte(OpReportPhysicalAddress), pa[0], pa[1], byte(d.DeviceType())})
}

// ActiveSource broadcasts that this device is now the active source.
func (d *Device) ActiveSource(ctx context.Context) error {
	pa := d.PhysicalAddress().Bytes()
	return d.TransmitFrame(ctx, AddressBroadcast, []byte{byte(OpActiveSource), pa[0], pa[1]})
}

// Run performs one tick of the bus state machine. It must be called far more
// often than once per bit period, from one goroutine only.
func (d *Device) Run() {
	d.metrics.ticks.Add(1)
	d.engine.tick(d.clock.Now())
}

// Start launches the dispatcher that delivers received frames. The engine
// still has to be ticked by Serve or Run.
func (d *Device) Start(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	d.stopMu.Lock()
	d.cancel = cancel
	d.done = done
	d.stopMu.Unlock()

	go func() {
		defer close(done)
		defer d.running.Store(false)
		d.dispatchLoop(runCtx)
	}()
	debugln("dispatcher started")
	return nil
}

// Stop halts the dispatcher and waits for it to exit.
func (d *Device) Stop() error {
	d.stopMu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel = nil
	d.stopMu.Unlock()

	if cancel == nil {
		return ErrNotRunning
	}
	cancel()
	<-done
	return nil
}

// IsRunning reports whether the dispatcher is active.
func (d *Device) IsRunning() bool {
	return d.running.Load()
}

// Close stops the dispatcher and releases the line.
func (d *Device) Close() error {
	_ = d.Stop()
	if closer, ok := d.line.(LineCloser); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("failed to close line: %w", err)
		}
	}
	return nil
}
