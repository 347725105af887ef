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
	"fmt"
	"time"
)

// RetryConfig bounds how often a frame is put on the bus. The bus itself
// provides the backoff: every retransmission waits for a longer signal free
// time than the attempt before it.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, the first one included.
	MaxAttempts int
	// AttemptTimeout caps the wall-clock time of a single attempt, including
	// the wait for a free bus. Zero removes the cap: an attempt then ends only
	// when the engine finishes it or the caller's context is done, so the
	// device must be ticked by Serve or Run.
	AttemptTimeout time.Duration
	// Backoff is an extra pause between attempts on top of the bus free time.
	Backoff time.Duration
}

// DefaultRetryConfig allows the original attempt plus four retransmissions.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:    5,
		AttemptTimeout: time.Second,
	}
}

// Clone returns a copy of the configuration.
func (c *RetryConfig) Clone() *RetryConfig {
	clone := *c
	return &clone
}

// Validate checks the configuration.
func (c *RetryConfig) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts %d", ErrInvalidParameter, c.MaxAttempts)
	}
	if c.AttemptTimeout < 0 || c.Backoff < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidParameter)
	}
	return nil
}

// RetryWithConfig runs fn until it succeeds, returns a permanent error or
// the attempts run out. fn receives the 1-based attempt number.
func RetryWithConfig(ctx context.Context, config *RetryConfig, fn func(attempt int) error) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("retry cancelled: %w", err)
		}

		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == config.MaxAttempts {
			break
		}

		debugf("attempt %d/%d failed: %v", attempt, config.MaxAttempts, lastErr)
		if config.Backoff > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry cancelled: %w", ctx.Err())
			case <-time.After(config.Backoff):
			}
		}
	}

	return fmt.Errorf("%w: %w", ErrRetriesExhausted, lastErr)
}
