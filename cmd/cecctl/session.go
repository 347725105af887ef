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

package main

import (
	"context"
	"errors"
	"fmt"

	cec "github.com/ZaparooProject/go-cec"
	gpioline "github.com/ZaparooProject/go-cec/transport/gpio"
	uartline "github.com/ZaparooProject/go-cec/transport/uart"
)

func openLine(cfg *Config) (cec.LineCloser, error) {
	switch cec.LineType(cfg.Line) {
	case cec.LineGPIO:
		line, err := gpioline.New(cfg.Pin)
		if err != nil {
			return nil, err
		}
		return line, nil
	case cec.LineUART:
		line, err := uartline.New(cfg.Port, uartline.WithInverted(cfg.Inverted))
		if err != nil {
			return nil, err
		}
		return line, nil
	default:
		return nil, fmt.Errorf("unknown line %q", cfg.Line)
	}
}

// session is a device that is being ticked, dispatching and holds an address.
type session struct {
	device *cec.Device
	cancel context.CancelFunc
	served chan error
}

// openSession opens the configured line, starts ticking it and claims an
// address.
func openSession(ctx context.Context, cfg *Config, sink cec.EventSink, promiscuous bool) (*session, error) {
	pa, dt, err := cfg.session()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.deviceOptions()
	if err != nil {
		return nil, err
	}

	line, err := openLine(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s line: %w", cfg.Line, err)
	}
	device, err := cec.New(line, append(opts, cec.WithSink(sink))...)
	if err != nil {
		_ = line.Close()
		return nil, err
	}

	serveCtx, cancel := context.WithCancel(ctx)
	s := &session{device: device, cancel: cancel, served: make(chan error, 1)}
	go func() {
		s.served <- device.Serve(serveCtx)
	}()

	if err := device.Start(ctx); err != nil {
		s.Close()
		return nil, err
	}

	addr, err := device.Initialize(ctx, pa, dt, promiscuous || cfg.Promiscuous)
	if err != nil {
		s.Close()
		return nil, err
	}
	log.Info().
		Stringer("address", addr).
		Uint8("logical", uint8(addr)).
		Stringer("physical", pa).
		Msg("ready")
	return s, nil
}

// Close stops the device and releases the line.
func (s *session) Close() {
	_ = s.device.Stop()
	s.cancel()
	if err := <-s.served; err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Msg("tick loop stopped")
	}
	if err := s.device.Close(); err != nil {
		log.Warn().Err(err).Msg("close line")
	}

	m := s.device.Metrics()
	log.Debug().
		Int64("attempts", m.Attempts).
		Int64("transmitted", m.FramesTransmitted).
		Int64("received", m.FramesReceived).
		Int64("bus_errors", m.BusErrors).
		Int64("dropped", m.DroppedFrames).
		Int64("late_ticks", m.LateTicks).
		Msg("session closed")
}

// logSink prints every bus event.
type logSink struct {
	cec.NopSink
}

func (logSink) OnReceiveComplete(f cec.Frame, ack bool) {
	event := log.Info().Str("frame", f.String()).Bool("ack", ack)
	if op, ok := f.Opcode(); ok {
		event = event.Stringer("opcode", op)
	}
	event.Msgf("%s -> %s", f.Initiator, f.Destination)
}

func (logSink) OnTransmitComplete(f cec.Frame, ack bool) {
	log.Debug().Str("frame", f.String()).Bool("ack", ack).Msg("sent")
}
