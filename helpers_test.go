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
	"sync"
	"testing"
	"time"

	testutil "github.com/ZaparooProject/go-cec/internal/testing"
	"github.com/stretchr/testify/require"
)

// RecordingSink keeps every event it is handed.
type RecordingSink struct {
	ready       []LogicalAddress
	received    []Frame
	transmitted []Frame
	txAcks      []bool
	allocErrs   []error
	handled     map[Opcode]bool
	mu          sync.Mutex
}

func NewRecordingSink(handled ...Opcode) *RecordingSink {
	s := &RecordingSink{handled: make(map[Opcode]bool)}
	for _, op := range handled {
		s.handled[op] = true
	}
	return s
}

func (s *RecordingSink) OnReady(addr LogicalAddress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = append(s.ready, addr)
}

func (s *RecordingSink) OnReceiveComplete(f Frame, _ bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, f)
}

func (s *RecordingSink) OnTransmitComplete(f Frame, ack bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transmitted = append(s.transmitted, f)
	s.txAcks = append(s.txAcks, ack)
}

func (s *RecordingSink) OnAllocationFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allocErrs = append(s.allocErrs, err)
}

func (s *RecordingSink) HandlesOpcode(op Opcode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handled[op]
}

func (s *RecordingSink) Ready() []LogicalAddress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LogicalAddress(nil), s.ready...)
}

func (s *RecordingSink) Received() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Frame(nil), s.received...)
}

func (s *RecordingSink) Transmitted() ([]Frame, []bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Frame(nil), s.transmitted...), append([]bool(nil), s.txAcks...)
}

func (s *RecordingSink) AllocationErrors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.allocErrs...)
}

// HasReceived reports whether a frame equal to want has been received.
func (s *RecordingSink) HasReceived(want Frame) bool {
	for _, f := range s.Received() {
		if f.Equal(want) {
			return true
		}
	}
	return false
}

var (
	_ EventSink                = (*RecordingSink)(nil)
	_ AllocationFailureHandler = (*RecordingSink)(nil)
	_ OpcodeHandler            = (*RecordingSink)(nil)
)

// fakeClock is advanced by hand.
type fakeClock struct {
	now time.Duration
}

func (c *fakeClock) Now() time.Duration {
	return c.now
}

// tickUntil runs d every step of virtual time until done reports true or
// limit has passed.
func tickUntil(d *Device, clock *fakeClock, step, limit time.Duration, done func() bool) {
	for end := clock.now + limit; clock.now < end; clock.now += step {
		d.Run()
		if done() {
			return
		}
	}
}

// newSimDevice attaches a device with a recording sink to bus.
func newSimDevice(t *testing.T, bus *testutil.SimBus, opts ...Option) (*Device, *RecordingSink) {
	t.Helper()

	sink := NewRecordingSink()
	base := []Option{WithClock(bus), WithSink(sink), WithAttemptTimeout(0)}
	d, err := New(bus.NewLine(), append(base, opts...)...)
	require.NoError(t, err)
	bus.Attach(d)
	return d, sink
}

// runBus steps bus in the background until the test ends.
func runBus(t *testing.T, bus *testutil.SimBus) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		bus.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

// startDispatcher runs d's dispatcher until the test ends.
func startDispatcher(t *testing.T, d *Device) {
	t.Helper()

	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(func() { _ = d.Stop() })
}

func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	t.Cleanup(cancel)
	return ctx
}
