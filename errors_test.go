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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "no ACK retryable", err: ErrNoAck, want: true},
		{name: "arbitration lost retryable", err: ErrArbitrationLost, want: true},
		{name: "bus error retryable", err: ErrBusError, want: true},
		{name: "bus busy retryable", err: ErrBusBusy, want: true},
		{name: "attempt timeout retryable", err: ErrAttemptTimeout, want: true},
		{name: "wrapped no ACK retryable", err: fmt.Errorf("poll: %w", ErrNoAck), want: true},
		{name: "invalid frame not retryable", err: ErrInvalidFrame, want: false},
		{name: "not ready not retryable", err: ErrNotReady, want: false},
		{name: "address exhausted not retryable", err: ErrAddressExhausted, want: false},
		{name: "context cancelled not retryable", err: context.Canceled, want: false},
		{name: "unknown error not retryable", err: errors.New("boom"), want: false},
		{
			name: "bus error wrapper overrides",
			err:  &BusError{Err: ErrInvalidFrame, Retryable: true},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := IsRetryable(tt.err)
			if got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetErrorType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want ErrorType
	}{
		{name: "no ACK transient", err: ErrNoAck, want: ErrorTypeTransient},
		{name: "arbitration transient", err: ErrArbitrationLost, want: ErrorTypeTransient},
		{name: "bus error transient", err: ErrBusError, want: ErrorTypeTransient},
		{name: "bus busy timeout", err: ErrBusBusy, want: ErrorTypeTimeout},
		{name: "attempt timeout", err: ErrAttemptTimeout, want: ErrorTypeTimeout},
		{name: "invalid frame permanent", err: ErrInvalidFrame, want: ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GetErrorType(tt.err))
		})
	}
}

func TestBusError(t *testing.T) {
	t.Parallel()

	f := NewFrame(AddressPlayback1, AddressTV, byte(OpImageViewOn))
	be := NewBusError("transmit", f, fmt.Errorf("%w: %w", ErrRetriesExhausted, ErrNoAck))
	be.Attempts = 5

	assert.Equal(t, "transmit 40:04: retries exhausted: frame not acknowledged (after 5 attempts)", be.Error())
	require.ErrorIs(t, be, ErrNoAck)
	require.ErrorIs(t, be, ErrRetriesExhausted)
	assert.True(t, be.Retryable)
	assert.Equal(t, ErrorTypeTransient, be.Type)
	assert.Equal(t, "transient", be.Type.String())

	var target *BusError
	require.ErrorAs(t, fmt.Errorf("outer: %w", be), &target)
	assert.Equal(t, "transmit", target.Op)
}

func TestRetryWithConfig(t *testing.T) {
	t.Parallel()

	t.Run("Succeeds_After_Transient_Errors", func(t *testing.T) {
		t.Parallel()

		var seen []int
		err := RetryWithConfig(context.Background(), &RetryConfig{MaxAttempts: 5}, func(n int) error {
			seen = append(seen, n)
			if n < 3 {
				return ErrNoAck
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, seen)
	})

	t.Run("Stops_At_Max_Attempts", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := RetryWithConfig(context.Background(), &RetryConfig{MaxAttempts: 4}, func(int) error {
			calls++
			return ErrArbitrationLost
		})
		require.ErrorIs(t, err, ErrRetriesExhausted)
		require.ErrorIs(t, err, ErrArbitrationLost)
		assert.Equal(t, 4, calls)
	})

	t.Run("Permanent_Error_Not_Retried", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := RetryWithConfig(context.Background(), nil, func(int) error {
			calls++
			return ErrInvalidFrame
		})
		require.ErrorIs(t, err, ErrInvalidFrame)
		assert.NotErrorIs(t, err, ErrRetriesExhausted)
		assert.Equal(t, 1, calls)
	})

	t.Run("Cancelled_During_Backoff", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		config := &RetryConfig{MaxAttempts: 3, Backoff: time.Hour}
		err := RetryWithConfig(ctx, config, func(int) error {
			cancel()
			return ErrNoAck
		})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestRetryConfig_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultRetryConfig().Validate())
	require.ErrorIs(t, (&RetryConfig{MaxAttempts: 0}).Validate(), ErrInvalidParameter)
	require.ErrorIs(t, (&RetryConfig{MaxAttempts: 1, Backoff: -time.Second}).Validate(), ErrInvalidParameter)

	orig := DefaultRetryConfig()
	clone := orig.Clone()
	clone.MaxAttempts = 9
	assert.Equal(t, 5, orig.MaxAttempts)
}
