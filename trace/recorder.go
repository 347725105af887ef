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

// Package trace records bus events to a CBOR stream and reads them back.
package trace

import (
	"io"
	"os"
	"sync"
	"time"

	cec "github.com/ZaparooProject/go-cec"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// Recorder is a cec.EventSink that writes every event it sees. It is safe
// for concurrent use.
type Recorder struct {
	w         io.Writer
	encoder   *cbor.Encoder
	now       func() time.Time
	sessionID string
	err       error
	mu        sync.Mutex
	closed    bool
}

// NewRecorder writes events to w under a fresh session ID.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{
		w:         w,
		encoder:   newEncoder(w),
		now:       time.Now,
		sessionID: uuid.New().String(),
	}
}

// NewFileRecorder appends events to the file at path, creating it if needed.
func NewFileRecorder(path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return NewRecorder(f), nil
}

// SessionID returns the ID stamped on every event of this recorder.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// Err returns the first write error. Recording stops after it.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Recorder) record(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.err != nil {
		return
	}
	event.Timestamp = r.now()
	event.SessionID = r.sessionID
	r.err = r.encoder.Encode(event)
}

func frameEvent(kind Kind, f cec.Frame, ack bool) Event {
	return Event{
		Kind: kind,
		Data: f.Bytes(),
		Acks: f.Acks,
		Ack:  ack,
	}
}

// OnReady implements cec.EventSink.
func (r *Recorder) OnReady(addr cec.LogicalAddress) {
	r.record(Event{Kind: KindReady, Address: uint8(addr)})
}

// OnReceiveComplete implements cec.EventSink.
func (r *Recorder) OnReceiveComplete(f cec.Frame, ack bool) {
	r.record(frameEvent(KindReceive, f, ack))
}

// OnTransmitComplete implements cec.EventSink.
func (r *Recorder) OnTransmitComplete(f cec.Frame, ack bool) {
	r.record(frameEvent(KindTransmit, f, ack))
}

// OnAllocationFailed implements cec.AllocationFailureHandler.
func (r *Recorder) OnAllocationFailed(err error) {
	r.record(Event{Kind: KindAllocationFailed, Error: err.Error()})
}

// Close stops recording and closes the writer if it is closable.
// It is safe to call Close multiple times.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if c, ok := r.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var (
	_ cec.EventSink                = (*Recorder)(nil)
	_ cec.AllocationFailureHandler = (*Recorder)(nil)
)
