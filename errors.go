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
	"errors"
	"fmt"
)

// Bus errors
var (
	ErrNoAck            = errors.New("frame not acknowledged")
	ErrArbitrationLost  = errors.New("arbitration lost")
	ErrBusError         = errors.New("bus timing violation")
	ErrBusBusy          = errors.New("bus did not become free")
	ErrAttemptTimeout   = errors.New("transmission attempt timed out")
	ErrRetriesExhausted = errors.New("retries exhausted")
)

// Session errors
var (
	ErrAddressExhausted = errors.New("no free logical address for device type")
	ErrNotReady         = errors.New("device has no logical address")
	ErrAlreadyRunning   = errors.New("device is already running")
	ErrNotRunning       = errors.New("device is not running")
)

// Frame errors
var (
	ErrInvalidFrame     = errors.New("invalid frame")
	ErrDataTooLarge     = errors.New("frame too large")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ErrorType classifies bus errors for retry decisions.
type ErrorType int

const (
	// ErrorTypePermanent errors will not go away by retrying.
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient errors are caused by bus conditions and may clear.
	ErrorTypeTransient
	// ErrorTypeTimeout errors come from an expired window or wait.
	ErrorTypeTimeout
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return "permanent"
	}
}

// BusError wraps an error with the operation and frame it happened on.
type BusError struct {
	Err       error
	Op        string
	Frame     string
	Attempts  int
	Type      ErrorType
	Retryable bool
}

func (e *BusError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Op, e.Frame, e.Err)
	if e.Attempts > 0 {
		msg = fmt.Sprintf("%s (after %d attempts)", msg, e.Attempts)
	}
	return msg
}

func (e *BusError) Unwrap() error {
	return e.Err
}

// NewBusError classifies err and wraps it.
func NewBusError(op string, f Frame, err error) *BusError {
	return &BusError{
		Op:        op,
		Frame:     f.String(),
		Err:       err,
		Type:      GetErrorType(err),
		Retryable: IsRetryable(err),
	}
}

// IsRetryable reports whether another transmission attempt may succeed.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var be *BusError
	if errors.As(err, &be) {
		return be.Retryable
	}

	switch {
	case errors.Is(err, ErrNoAck),
		errors.Is(err, ErrArbitrationLost),
		errors.Is(err, ErrBusError),
		errors.Is(err, ErrBusBusy),
		errors.Is(err, ErrAttemptTimeout):
		return true
	default:
		return false
	}
}

// GetErrorType returns the classification of err.
func GetErrorType(err error) ErrorType {
	var be *BusError
	if errors.As(err, &be) {
		return be.Type
	}

	switch {
	case errors.Is(err, ErrBusBusy), errors.Is(err, ErrAttemptTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrNoAck), errors.Is(err, ErrArbitrationLost), errors.Is(err, ErrBusError):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}
