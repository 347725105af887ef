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

// Package polling discovers which logical addresses are in use on the bus by
// polling them periodically.
package polling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	cec "github.com/ZaparooProject/go-cec"
)

// Config contains configuration for the scanner
type Config struct {
	// Addresses to poll. Nil polls 0 through 14.
	Addresses []cec.LogicalAddress
	// Interval between scan cycles
	Interval time.Duration
	// MissesBeforeRemoval is how many unanswered polls mark a device gone
	MissesBeforeRemoval int
}

// DefaultConfig returns default scanner configuration
func DefaultConfig() *Config {
	return &Config{
		Interval:            5 * time.Second,
		MissesBeforeRemoval: 2,
	}
}

// Callbacks defines callback functions for presence changes
type Callbacks struct {
	OnDeviceAppeared func(addr cec.LogicalAddress)
	OnDeviceRemoved  func(addr cec.LogicalAddress)
}

// Metrics tracks operational metrics for a Scanner
type Metrics struct {
	ScanCycles       int64         // Total number of scan cycles
	Polls            int64         // Number of polls sent
	PollErrors       int64         // Number of polls that failed on the bus
	DevicesAppeared  int64         // Number of devices that appeared
	LastCycleLatency time.Duration // Duration of the last scan cycle
}

// LocalAddresser is implemented by pollers that hold an address of their own.
type LocalAddresser interface {
	LogicalAddress() cec.LogicalAddress
}

// Scanner polls logical addresses and reports devices that appear and
// disappear.
type Scanner struct {
	poller    cec.Poller
	config    *Config
	callbacks Callbacks
	devices   map[cec.LogicalAddress]*DeviceState
	now       func() time.Time
	mu        sync.Mutex

	scanCycles       atomic.Int64
	polls            atomic.Int64
	pollErrors       atomic.Int64
	devicesAppeared  atomic.Int64
	lastCycleLatency atomic.Int64
}

// NewScanner creates a scanner polling through poller, usually a *cec.Device.
func NewScanner(poller cec.Poller, config *Config, callbacks Callbacks) (*Scanner, error) {
	if poller == nil {
		return nil, fmt.Errorf("%w: nil poller", cec.ErrInvalidParameter)
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Interval <= 0 {
		return nil, fmt.Errorf("%w: scan interval %v", cec.ErrInvalidParameter, config.Interval)
	}
	if config.MissesBeforeRemoval < 1 {
		config.MissesBeforeRemoval = 1
	}
	return &Scanner{
		poller:    poller,
		config:    config,
		callbacks: callbacks,
		devices:   make(map[cec.LogicalAddress]*DeviceState),
		now:       time.Now,
	}, nil
}

func (s *Scanner) addresses() []cec.LogicalAddress {
	if s.config.Addresses != nil {
		return s.config.Addresses
	}
	all := make([]cec.LogicalAddress, 0, 15)
	for a := cec.AddressTV; a < cec.AddressBroadcast; a++ {
		all = append(all, a)
	}
	return all
}

// ScanOnce polls every configured address once and returns those that
// answered.
func (s *Scanner) ScanOnce(ctx context.Context) ([]cec.LogicalAddress, error) {
	start := s.now()
	defer func() {
		s.scanCycles.Add(1)
		s.lastCycleLatency.Store(int64(s.now().Sub(start)))
	}()

	own := cec.AddressUnregistered
	if la, ok := s.poller.(LocalAddresser); ok {
		own = la.LogicalAddress()
	}

	var found []cec.LogicalAddress
	for _, addr := range s.addresses() {
		if addr == own || addr >= cec.AddressBroadcast {
			continue
		}
		if err := ctx.Err(); err != nil {
			return found, err
		}

		s.polls.Add(1)
		present, err := s.poller.Poll(ctx, addr)
		if err != nil {
			if ctx.Err() != nil {
				return found, ctx.Err()
			}
			// A bus error says nothing about the address, leave its state alone.
			s.pollErrors.Add(1)
			continue
		}
		if present {
			found = append(found, addr)
		}
		s.record(addr, present)
	}
	return found, nil
}

func (s *Scanner) record(addr cec.LogicalAddress, present bool) {
	s.mu.Lock()
	ds, ok := s.devices[addr]
	if !ok {
		ds = &DeviceState{Address: addr}
		s.devices[addr] = ds
	}
	var appeared, removed bool
	if present {
		appeared = ds.markSeen(s.now())
	} else {
		removed = ds.markMissed(s.config.MissesBeforeRemoval)
	}
	s.mu.Unlock()

	switch {
	case appeared:
		s.devicesAppeared.Add(1)
		if s.callbacks.OnDeviceAppeared != nil {
			s.callbacks.OnDeviceAppeared(addr)
		}
	case removed:
		if s.callbacks.OnDeviceRemoved != nil {
			s.callbacks.OnDeviceRemoved(addr)
		}
	}
}

// Run scans every Interval until ctx is done.
func (s *Scanner) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		if _, err := s.ScanOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("scan failed: %w", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Present returns the addresses currently considered on the bus, ascending.
func (s *Scanner) Present() []cec.LogicalAddress {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []cec.LogicalAddress
	for a := cec.AddressTV; a < cec.AddressBroadcast; a++ {
		if ds, ok := s.devices[a]; ok && ds.Present() {
			out = append(out, a)
		}
	}
	return out
}

// State returns a copy of the state of addr.
func (s *Scanner) State(addr cec.LogicalAddress) DeviceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ds, ok := s.devices[addr]; ok {
		return *ds
	}
	return DeviceState{Address: addr}
}

// GetMetrics returns current operational metrics
func (s *Scanner) GetMetrics() Metrics {
	return Metrics{
		ScanCycles:       s.scanCycles.Load(),
		Polls:            s.polls.Load(),
		PollErrors:       s.pollErrors.Load(),
		DevicesAppeared:  s.devicesAppeared.Load(),
		LastCycleLatency: time.Duration(s.lastCycleLatency.Load()),
	}
}
