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

// Package gpio detects GPIO pins that can carry a bus line
package gpio

import (
	"context"
	"fmt"
	"runtime"

	cec "github.com/ZaparooProject/go-cec"
	"github.com/ZaparooProject/go-cec/detection"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// detector implements the Detector interface for GPIO pins
type detector struct{}

// New creates a new GPIO detector
func New() detection.Detector {
	return &detector{}
}

// init registers the detector on package import
func init() {
	detection.RegisterDetector(New())
}

// Type returns the line type
func (*detector) Type() cec.LineType {
	return cec.LineGPIO
}

// Detect lists the GPIO pins known to periph.
func (*detector) Detect(ctx context.Context, _ *detection.Options) ([]detection.LineInfo, error) {
	if runtime.GOOS != "linux" {
		return nil, detection.ErrUnsupportedPlatform
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}
	return pinLines(gpioreg.All()), nil
}

func pinLines(pins []gpio.PinIO) []detection.LineInfo {
	lines := make([]detection.LineInfo, 0, len(pins))
	for _, p := range pins {
		lines = append(lines, detection.LineInfo{
			Type: cec.LineGPIO,
			Path: p.Name(),
			Name: p.Function(),
			Metadata: map[string]string{
				"number": fmt.Sprint(p.Number()),
			},
		})
	}
	return lines
}
