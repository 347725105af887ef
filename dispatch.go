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
)

// dispatchLoop hands received frames to dispatch until ctx is done.
func (d *Device) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-d.received:
			d.dispatch(ctx, f)
		}
	}
}

// dispatch filters a received frame, forwards it to the sink and then answers
// the requests the device handles itself.
func (d *Device) dispatch(ctx context.Context, f Frame) {
	if !d.addressedToUs(f) {
		if d.promiscuous.Load() {
			d.sink.OnReceiveComplete(f, f.Acked())
			return
		}
		debugf("ignoring %s", f)
		return
	}

	d.sink.OnReceiveComplete(f, f.Acked())
	if d.ready.Load() && !f.IsPoll() && f.Initiator != d.LogicalAddress() {
		d.respond(ctx, f)
	}
}

func (d *Device) addressedToUs(f Frame) bool {
	if f.IsBroadcast() {
		return true
	}
	return d.ready.Load() && f.Destination == d.LogicalAddress()
}

// respond sends the built-in answer to f, if there is one.
func (d *Device) respond(ctx context.Context, f Frame) {
	op, ok := f.Opcode()
	if !ok {
		return
	}

	var err error
	switch {
	case f.IsBroadcast():
		if op == OpRequestActiveSource && d.isActiveSource() {
			err = d.ActiveSource(ctx)
		}
	case op == OpGivePhysicalAddress:
		err = d.ReportPhysicalAddress(ctx)
	case op == OpGiveDeviceVendorID:
		err = d.reportVendorID(ctx)
	case op == OpGiveOSDName:
		err = d.TransmitFrame(ctx, f.Initiator, append([]byte{byte(OpSetOSDName)}, d.config.OSDName...))
	case op == OpGetCECVersion:
		err = d.TransmitFrame(ctx, f.Initiator, []byte{byte(OpCECVersion), CECVersion14})
	case op == OpGiveDevicePowerStatus:
		err = d.TransmitFrame(ctx, f.Initiator, []byte{byte(OpReportPowerStatus), d.powerStatus()})
	case op == OpAbort:
		err = d.FeatureAbort(ctx, f.Initiator, op, AbortRefused)
	case op == OpFeatureAbort:
	case !d.sinkHandles(op):
		err = d.FeatureAbort(ctx, f.Initiator, op, AbortUnrecognizedOpcode)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		debugf("reply to %s failed: %v", f, err)
	}
}

// FeatureAbort tells destination that op was not handled and why.
func (d *Device) FeatureAbort(ctx context.Context, destination LogicalAddress, op Opcode, reason byte) error {
	return d.TransmitFrame(ctx, destination, []byte{byte(OpFeatureAbort), byte(op), reason})
}

func (d *Device) reportVendorID(ctx context.Context) error {
	id := d.config.VendorID
	return d.TransmitFrame(ctx, AddressBroadcast,
		[]byte{byte(OpDeviceVendorID), byte(id >> 16), byte(id >> 8), byte(id)})
}

func (d *Device) sinkHandles(op Opcode) bool {
	h, ok := d.sink.(OpcodeHandler)
	return ok && h.HandlesOpcode(op)
}

func (d *Device) powerStatus() byte {
	if p, ok := d.sink.(PowerStatusProvider); ok {
		return p.PowerStatus()
	}
	return PowerStatusOn
}

func (d *Device) isActiveSource() bool {
	p, ok := d.sink.(ActiveSourceProvider)
	return ok && p.IsActiveSource()
}
