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

package bridge

import (
	"context"
	"testing"
	"time"

	cec "github.com/ZaparooProject/go-cec"
	testutil "github.com/ZaparooProject/go-cec/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simSetup puts a TV and a playback device driven by a bridge on one
// simulated bus.
type simSetup struct {
	bus      *testutil.SimBus
	observer *testutil.FakeFollower
	tv       *cec.Device
	player   *cec.Device
	bridge   *Bridge
}

func newSimSetup(ctx context.Context, t *testing.T) *simSetup {
	t.Helper()

	s := &simSetup{bus: testutil.NewSimBus(0)}
	s.observer = testutil.NewFakeFollower(s.bus)

	var err error
	s.tv, err = cec.New(s.bus.NewLine(), cec.WithClock(s.bus), cec.WithAttemptTimeout(0))
	require.NoError(t, err)
	s.bus.Attach(s.tv)

	s.bridge = New(nil)
	s.player, err = cec.New(s.bus.NewLine(),
		cec.WithClock(s.bus), cec.WithAttemptTimeout(0), cec.WithSink(s.bridge))
	require.NoError(t, err)
	s.bridge.Attach(s.player)
	s.bus.Attach(s.player)

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.bus.Run(runCtx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.NoError(t, s.player.Start(context.Background()))
	t.Cleanup(func() { _ = s.player.Stop() })

	_, err = s.tv.Initialize(ctx, 0x0000, cec.DeviceTypeTV, false)
	require.NoError(t, err)
	_, err = s.player.Initialize(ctx, 0x3000, cec.DeviceTypePlayback, false)
	require.NoError(t, err)
	return s
}

func (s *simSetup) sawFrame(want []byte) bool {
	for _, f := range s.observer.Frames() {
		if assert.ObjectsAreEqual(want, f) {
			return true
		}
	}
	return false
}

func TestSim_VolumeFrames(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	s := newSimSetup(ctx, t)

	require.NoError(t, s.bridge.VolumeUp(ctx))
	require.NoError(t, s.bridge.VolumeDown(ctx))
	assert.True(t, s.sawFrame([]byte{0x40, 0x46}))
	assert.True(t, s.sawFrame([]byte{0x40, 0x8F}))
	assert.Equal(t, VolumeDown, s.bridge.State().Volume)
}

func TestSim_PowerStatusFromTV(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	s := newSimSetup(ctx, t)

	require.NoError(t, s.tv.TransmitFrame(ctx, cec.AddressPlayback1,
		[]byte{byte(cec.OpReportPowerStatus), cec.PowerStatusOn}))
	require.Eventually(t, func() bool { return s.bridge.State().Power },
		5*time.Second, time.Millisecond)

	// The player answers a power query from the bridge's state and never
	// aborts the report it handled.
	require.NoError(t, s.tv.TransmitFrame(ctx, cec.AddressPlayback1, []byte{byte(cec.OpGiveDevicePowerStatus)}))
	require.Eventually(t, func() bool { return s.sawFrame([]byte{0x40, 0x90, 0x00}) },
		5*time.Second, time.Millisecond)
	assert.False(t, s.sawFrame([]byte{0x40, 0x00, 0x90, 0x00}))

	require.NoError(t, s.tv.TransmitFrame(ctx, cec.AddressBroadcast, []byte{byte(cec.OpStandby)}))
	require.Eventually(t, func() bool { return !s.bridge.State().Power },
		5*time.Second, time.Millisecond)
}
