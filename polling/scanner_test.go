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
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	cec "github.com/ZaparooProject/go-cec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPoller struct {
	mock.Mock
	own cec.LogicalAddress
}

func (m *mockPoller) Poll(ctx context.Context, addr cec.LogicalAddress) (bool, error) {
	args := m.Called(ctx, addr)
	return args.Bool(0), args.Error(1)
}

func (m *mockPoller) LogicalAddress() cec.LogicalAddress {
	return m.own
}

type presenceLog struct {
	appeared []cec.LogicalAddress
	removed  []cec.LogicalAddress
	mu       sync.Mutex
}

func (p *presenceLog) callbacks() Callbacks {
	return Callbacks{
		OnDeviceAppeared: func(addr cec.LogicalAddress) {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.appeared = append(p.appeared, addr)
		},
		OnDeviceRemoved: func(addr cec.LogicalAddress) {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.removed = append(p.removed, addr)
		},
	}
}

func TestNewScannerValidation(t *testing.T) {
	t.Parallel()

	_, err := NewScanner(nil, nil, Callbacks{})
	require.ErrorIs(t, err, cec.ErrInvalidParameter)

	_, err = NewScanner(&mockPoller{}, &Config{Interval: 0}, Callbacks{})
	require.ErrorIs(t, err, cec.ErrInvalidParameter)

	s, err := NewScanner(&mockPoller{}, nil, Callbacks{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Interval, s.config.Interval)
}

func TestScanOnceSkipsOwnAddress(t *testing.T) {
	t.Parallel()

	poller := &mockPoller{own: cec.AddressPlayback1}
	poller.On("Poll", mock.Anything, cec.AddressTV).Return(true, nil)
	poller.On("Poll", mock.Anything, cec.AddressAudioSystem).Return(true, nil)
	poller.On("Poll", mock.Anything, mock.Anything).Return(false, nil)

	log := &presenceLog{}
	s, err := NewScanner(poller, DefaultConfig(), log.callbacks())
	require.NoError(t, err)

	found, err := s.ScanOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []cec.LogicalAddress{cec.AddressTV, cec.AddressAudioSystem}, found)
	assert.Equal(t, found, log.appeared)
	poller.AssertNotCalled(t, "Poll", mock.Anything, cec.AddressPlayback1)
	poller.AssertNumberOfCalls(t, "Poll", 14)

	m := s.GetMetrics()
	assert.Equal(t, int64(1), m.ScanCycles)
	assert.Equal(t, int64(14), m.Polls)
	assert.Equal(t, int64(2), m.DevicesAppeared)
}

func TestScannerRemovalAfterMisses(t *testing.T) {
	t.Parallel()

	poller := &mockPoller{own: cec.AddressUnregistered}
	poller.On("Poll", mock.Anything, cec.AddressTV).Return(true, nil).Once()
	poller.On("Poll", mock.Anything, cec.AddressTV).Return(false, nil)

	log := &presenceLog{}
	config := &Config{
		Addresses:           []cec.LogicalAddress{cec.AddressTV},
		Interval:            time.Second,
		MissesBeforeRemoval: 2,
	}
	s, err := NewScanner(poller, config, log.callbacks())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.ScanOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, []cec.LogicalAddress{cec.AddressTV}, s.Present())

	_, err = s.ScanOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateMissing, s.State(cec.AddressTV).State)
	assert.Empty(t, log.removed, "one miss is not a removal")

	_, err = s.ScanOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, []cec.LogicalAddress{cec.AddressTV}, log.removed)
	assert.Empty(t, s.Present())
}

func TestScannerIgnoresBusErrors(t *testing.T) {
	t.Parallel()

	poller := &mockPoller{own: cec.AddressUnregistered}
	poller.On("Poll", mock.Anything, cec.AddressTV).Return(true, nil).Once()
	poller.On("Poll", mock.Anything, cec.AddressTV).Return(false, cec.ErrBusError)

	config := &Config{
		Addresses:           []cec.LogicalAddress{cec.AddressTV},
		Interval:            time.Second,
		MissesBeforeRemoval: 1,
	}
	s, err := NewScanner(poller, config, Callbacks{})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = s.ScanOnce(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, StatePresent, s.State(cec.AddressTV).State)
	assert.Equal(t, int64(2), s.GetMetrics().PollErrors)
}

func TestScannerRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	poller := &mockPoller{own: cec.AddressUnregistered}
	poller.On("Poll", mock.Anything, mock.Anything).Return(false, nil)

	s, err := NewScanner(poller, &Config{
		Addresses: []cec.LogicalAddress{cec.AddressTV},
		Interval:  time.Millisecond,
	}, Callbacks{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = s.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled))
	assert.Positive(t, s.GetMetrics().ScanCycles)
}

func TestDeviceStateTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		polls     []bool
		threshold int
		want      PresenceState
	}{
		{name: "never seen", polls: []bool{false, false}, threshold: 1, want: StateAbsent},
		{name: "seen", polls: []bool{true}, threshold: 2, want: StatePresent},
		{name: "missed once", polls: []bool{true, false}, threshold: 2, want: StateMissing},
		{name: "back after miss", polls: []bool{true, false, true}, threshold: 2, want: StatePresent},
		{name: "removed", polls: []bool{true, false, false}, threshold: 2, want: StateAbsent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ds := &DeviceState{}
			for _, seen := range tt.polls {
				if seen {
					ds.markSeen(time.Now())
				} else {
					ds.markMissed(tt.threshold)
				}
			}
			assert.Equal(t, tt.want, ds.State)
		})
	}
}
