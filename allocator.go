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
)

// Poller sends a polling frame to addr and reports whether anyone
// acknowledged it.
type Poller interface {
	Poll(ctx context.Context, addr LogicalAddress) (bool, error)
}

// Allocator claims a logical address by polling the candidates of a device
// type until one goes unanswered.
type Allocator struct {
	poller   Poller
	attempts int
}

// NewAllocator creates an allocator. attempts bounds how often a candidate is
// re-polled after a bus error; a NAK is never retried.
func NewAllocator(poller Poller, attempts int) *Allocator {
	if attempts < 1 {
		attempts = 1
	}
	return &Allocator{poller: poller, attempts: attempts}
}

// Candidates returns the logical addresses a device type may claim, in the
// order they are tried.
func Candidates(t DeviceType) []LogicalAddress {
	switch t {
	case DeviceTypeTV:
		return []LogicalAddress{AddressTV, AddressFreeUse}
	case DeviceTypeRecording:
		return []LogicalAddress{AddressRecording1, AddressRecording2, AddressRecording3}
	case DeviceTypeTuner:
		return []LogicalAddress{AddressTuner1, AddressTuner2, AddressTuner3, AddressTuner4}
	case DeviceTypePlayback:
		return []LogicalAddress{AddressPlayback1, AddressPlayback2, AddressPlayback3}
	case DeviceTypeAudioSystem:
		return []LogicalAddress{AddressAudioSystem}
	default:
		return nil
	}
}

// Allocate returns the first free candidate for t. A preferred address that
// belongs to t is tried first so a re-allocation keeps its address.
func (a *Allocator) Allocate(ctx context.Context, t DeviceType, preferred LogicalAddress) (LogicalAddress, error) {
	candidates := Candidates(t)
	if len(candidates) == 0 {
		return AddressUnregistered, fmt.Errorf("%w: device type %s", ErrInvalidParameter, t)
	}
	candidates = preferFirst(candidates, preferred)

	for _, candidate := range candidates {
		inUse, err := a.probe(ctx, candidate)
		if err != nil {
			return AddressUnregistered, fmt.Errorf("failed to poll %s: %w", candidate, err)
		}
		if !inUse {
			debugf("claimed logical address %d (%s)", candidate, candidate)
			return candidate, nil
		}
		debugf("logical address %d (%s) is taken", candidate, candidate)
	}

	return AddressUnregistered, fmt.Errorf("%w: %s", ErrAddressExhausted, t)
}

func (a *Allocator) probe(ctx context.Context, addr LogicalAddress) (bool, error) {
	var lastErr error
	for i := 0; i < a.attempts; i++ {
		inUse, err := a.poller.Poll(ctx, addr)
		if err == nil {
			return inUse, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, fmt.Errorf("allocation cancelled: %w", ctxErr)
		}
		if !IsRetryable(err) || errors.Is(err, ErrNoAck) {
			return false, err
		}
		lastErr = err
	}
	return false, lastErr
}

func preferFirst(candidates []LogicalAddress, preferred LogicalAddress) []LogicalAddress {
	for i, c := range candidates {
		if c != preferred || i == 0 {
			continue
		}
		ordered := make([]LogicalAddress, 0, len(candidates))
		ordered = append(ordered, c)
		ordered = append(ordered, candidates[:i]...)
		return append(ordered, candidates[i+1:]...)
	}
	return candidates
}
