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

// Package bridge maps application intents to bus frames and inbound frames to
// application state.
package bridge

import (
	"context"
	"fmt"
	"sync"

	cec "github.com/ZaparooProject/go-cec"
)

// Volume is the direction of the last volume step.
type Volume int

const (
	VolumeNone Volume = iota
	VolumeUp
	VolumeDown
)

func (v Volume) String() string {
	switch v {
	case VolumeUp:
		return "up"
	case VolumeDown:
		return "down"
	default:
		return "none"
	}
}

// State is the application state the bridge keeps in sync with the bus.
type State struct {
	Power       bool
	ActiveInput int
	Volume      Volume
}

// Transmitter is the part of a device the bridge sends through.
type Transmitter interface {
	TransmitFrame(ctx context.Context, destination cec.LogicalAddress, payload []byte) error
	ActiveSource(ctx context.Context) error
	LogicalAddress() cec.LogicalAddress
}

// Bridge translates intents into frames and frames into State. It is an
// EventSink and is usually passed to the device with cec.WithSink.
type Bridge struct {
	tx       Transmitter
	onChange func(State)
	state    State
	mu       sync.Mutex
	active   bool
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithOnChange registers fn to be called with the new state after every change.
func WithOnChange(fn func(State)) Option {
	return func(b *Bridge) {
		b.onChange = fn
	}
}

// WithInitialState sets the state before any frame has been seen.
func WithInitialState(s State) Option {
	return func(b *Bridge) {
		b.state = s
	}
}

// New creates a bridge. The transmitter may be attached later with Attach,
// since the device usually needs the bridge as its sink first.
func New(tx Transmitter, opts ...Option) *Bridge {
	b := &Bridge{tx: tx}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach sets the transmitter used for outgoing frames.
func (b *Bridge) Attach(tx Transmitter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tx = tx
}

// State returns a copy of the current state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Bridge) transmitter() (Transmitter, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tx == nil {
		return nil, fmt.Errorf("%w: bridge has no transmitter", cec.ErrNotReady)
	}
	return b.tx, nil
}

func (b *Bridge) send(ctx context.Context, dest cec.LogicalAddress, payload ...byte) error {
	tx, err := b.transmitter()
	if err != nil {
		return err
	}
	if err := tx.TransmitFrame(ctx, dest, payload); err != nil {
		return fmt.Errorf("failed to send %s: %w", cec.Opcode(payload[0]), err)
	}
	return nil
}

// SetPower turns the display on and claims the active source, or puts it in
// standby.
func (b *Bridge) SetPower(ctx context.Context, on bool) error {
	if !on {
		if err := b.send(ctx, cec.AddressTV, byte(cec.OpStandby)); err != nil {
			return err
		}
		b.update(func(s *State) { s.Power = false })
		b.setActive(false)
		return nil
	}

	if err := b.send(ctx, cec.AddressTV, byte(cec.OpImageViewOn)); err != nil {
		return err
	}
	b.update(func(s *State) { s.Power = true })

	tx, err := b.transmitter()
	if err != nil {
		return err
	}
	if err := tx.ActiveSource(ctx); err != nil {
		return fmt.Errorf("failed to announce active source: %w", err)
	}
	b.setActive(true)
	return nil
}

// VolumeUp sends one volume up step.
func (b *Bridge) VolumeUp(ctx context.Context) error {
	return b.volume(ctx, VolumeUp, cec.OpGiveOSDName)
}

// VolumeDown sends one volume down step.
func (b *Bridge) VolumeDown(ctx context.Context) error {
	return b.volume(ctx, VolumeDown, cec.OpGiveDevicePowerStatus)
}

// volume sends the one-byte frame used for volume steps. The byte values
// coincide with the name and power status queries.
func (b *Bridge) volume(ctx context.Context, dir Volume, op cec.Opcode) error {
	if err := b.send(ctx, cec.AddressTV, byte(op)); err != nil {
		return err
	}
	b.update(func(s *State) { s.Volume = dir })
	return nil
}

// PressKey sends a key press followed by its release. Unknown keys are
// logged and ignored.
func (b *Bridge) PressKey(ctx context.Context, k Key) error {
	code, ok := KeyCode(k)
	if !ok {
		logger := cec.Logger()
		logger.Info().Str("key", string(k)).Msg("unknown")
		return nil
	}
	if err := b.send(ctx, cec.AddressTV, byte(cec.OpUserControlPressed), code); err != nil {
		return err
	}
	return b.send(ctx, cec.AddressTV, byte(cec.OpUserControlReleased))
}

// SelectInput routes the display to HDMI input port (1-based).
func (b *Bridge) SelectInput(ctx context.Context, port int) error {
	if port < 1 || port > 15 {
		return fmt.Errorf("%w: input %d", cec.ErrInvalidParameter, port)
	}
	if err := b.send(ctx, cec.AddressBroadcast, byte(cec.OpSetStreamPath), byte(port<<4), 0x00); err != nil {
		return err
	}
	b.update(func(s *State) { s.ActiveInput = port })
	return nil
}

// OnReady implements cec.EventSink.
func (*Bridge) OnReady(cec.LogicalAddress) {}

// OnTransmitComplete implements cec.EventSink.
func (*Bridge) OnTransmitComplete(cec.Frame, bool) {}

// OnReceiveComplete applies inbound frames from the TV to the state.
func (b *Bridge) OnReceiveComplete(f cec.Frame, _ bool) {
	if !b.forUs(f) || f.Initiator != cec.AddressTV {
		return
	}
	op, ok := f.Opcode()
	if !ok {
		return
	}

	switch op {
	case cec.OpReportPowerStatus:
		operands := f.Operands()
		if len(operands) < 1 {
			return
		}
		switch operands[0] {
		case cec.PowerStatusOn:
			b.update(func(s *State) { s.Power = true })
		case cec.PowerStatusStandby:
			b.update(func(s *State) { s.Power = false })
		}
	case cec.OpStandby:
		b.update(func(s *State) { s.Power = false })
		b.setActive(false)
	case cec.OpActiveSource:
		b.setActive(false)
	}
}

func (b *Bridge) forUs(f cec.Frame) bool {
	if f.IsBroadcast() {
		return true
	}
	tx, err := b.transmitter()
	return err == nil && f.Destination == tx.LogicalAddress()
}

// HandlesOpcode implements cec.OpcodeHandler.
func (*Bridge) HandlesOpcode(op cec.Opcode) bool {
	switch op {
	case cec.OpReportPowerStatus, cec.OpStandby, cec.OpActiveSource:
		return true
	default:
		return false
	}
}

// PowerStatus implements cec.PowerStatusProvider.
func (b *Bridge) PowerStatus() byte {
	if b.State().Power {
		return cec.PowerStatusOn
	}
	return cec.PowerStatusStandby
}

// IsActiveSource implements cec.ActiveSourceProvider.
func (b *Bridge) IsActiveSource() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

func (b *Bridge) setActive(active bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active = active
}

func (b *Bridge) update(fn func(*State)) {
	b.mu.Lock()
	before := b.state
	fn(&b.state)
	after := b.state
	onChange := b.onChange
	b.mu.Unlock()

	if after != before && onChange != nil {
		onChange(after)
	}
}

var (
	_ cec.EventSink            = (*Bridge)(nil)
	_ cec.OpcodeHandler        = (*Bridge)(nil)
	_ cec.PowerStatusProvider  = (*Bridge)(nil)
	_ cec.ActiveSourceProvider = (*Bridge)(nil)
)
