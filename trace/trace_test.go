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

package trace

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	cec "github.com/ZaparooProject/go-cec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		ts = ts.Add(time.Millisecond)
		return ts
	}
}

func TestRecorderRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	rec.now = fixedClock()

	report := cec.NewFrame(cec.AddressPlayback1, cec.AddressBroadcast, 0x84, 0x30, 0x00, 0x04)
	report.Acks = []bool{true, true, true, true}
	query := cec.NewFrame(cec.AddressTV, cec.AddressPlayback1, 0x83)

	rec.OnReady(cec.AddressPlayback1)
	rec.OnTransmitComplete(report, true)
	rec.OnReceiveComplete(query, false)
	rec.OnAllocationFailed(errors.New("no free address"))
	require.NoError(t, rec.Err())

	events, err := NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 4)

	for _, e := range events {
		assert.Equal(t, rec.SessionID(), e.SessionID)
	}

	assert.Equal(t, KindReady, events[0].Kind)
	assert.Equal(t, uint8(cec.AddressPlayback1), events[0].Address)

	assert.Equal(t, KindTransmit, events[1].Kind)
	assert.True(t, events[1].Ack)
	f, err := events[1].Frame()
	require.NoError(t, err)
	assert.True(t, f.Equal(report))
	assert.Equal(t, report.Acks, f.Acks)

	assert.Equal(t, KindReceive, events[2].Kind)
	assert.False(t, events[2].Ack)
	f, err = events[2].Frame()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x83}, f.Bytes())

	assert.Equal(t, KindAllocationFailed, events[3].Kind)
	assert.Equal(t, "no free address", events[3].Error)
	assert.True(t, events[3].Timestamp.After(events[0].Timestamp))
}

func TestReaderFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	for i := 0; i < 3; i++ {
		rec.OnReceiveComplete(cec.NewFrame(cec.AddressTV, cec.AddressBroadcast, 0x85), true)
		rec.OnTransmitComplete(cec.NewFrame(cec.AddressPlayback1, cec.AddressTV, 0x04), true)
	}

	kind := KindTransmit
	r := NewFilteredReader(&buf, Filter{Kind: &kind, SessionID: rec.SessionID()})
	events, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, events, 3)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestRecorderClose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close())

	rec.OnReady(cec.AddressTV)
	assert.Zero(t, buf.Len(), "closed recorder writes nothing")
}

func TestEventString(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name:  "ready",
			event: Event{Timestamp: ts, Kind: KindReady, Address: 4},
			want:  "12:00:00.000 READY " + cec.AddressPlayback1.String(),
		},
		{
			name:  "transmit",
			event: Event{Timestamp: ts, Kind: KindTransmit, Data: []byte{0x40, 0x04}, Ack: true},
			want:  "12:00:00.000 TX 40:04 ack",
		},
		{
			name:  "receive nak",
			event: Event{Timestamp: ts, Kind: KindReceive, Data: []byte{0x04, 0x83}},
			want:  "12:00:00.000 RX 04:83 nak",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.event.String())
		})
	}
}

func TestEncodeDecodeEvent(t *testing.T) {
	t.Parallel()

	in := Event{
		Timestamp: time.Date(2025, 3, 1, 12, 0, 0, 123456789, time.UTC),
		SessionID: "s",
		Kind:      KindReceive,
		Data:      []byte{0x0F, 0x36},
	}
	data, err := EncodeEvent(in)
	require.NoError(t, err)

	out, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.True(t, in.Timestamp.Equal(out.Timestamp))
	assert.Equal(t, in.Data, out.Data)
	assert.Equal(t, in.Kind, out.Kind)
}
