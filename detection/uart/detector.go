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

// Package uart detects USB serial adapters that can carry a bus line
package uart

import (
	"context"
	"fmt"

	cec "github.com/ZaparooProject/go-cec"
	"github.com/ZaparooProject/go-cec/detection"
	"go.bug.st/serial/enumerator"
)

// detector implements the Detector interface for serial adapters
type detector struct {
	list func() ([]*enumerator.PortDetails, error)
}

// New creates a new serial adapter detector
func New() detection.Detector {
	return &detector{list: enumerator.GetDetailedPortsList}
}

// init registers the detector on package import
func init() {
	detection.RegisterDetector(New())
}

// Type returns the line type
func (*detector) Type() cec.LineType {
	return cec.LineUART
}

// Detect lists USB serial ports. Ports without USB details are skipped since
// built-in UARTs rarely wire up RTS and CTS.
func (d *detector) Detect(ctx context.Context, _ *detection.Options) ([]detection.LineInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ports, err := d.list()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	var lines []detection.LineInfo
	for _, p := range ports {
		if !p.IsUSB {
			continue
		}
		lines = append(lines, detection.LineInfo{
			Type:   cec.LineUART,
			Path:   p.Name,
			Name:   p.Product,
			VIDPID: detection.ParseVIDPID(p.VID + ":" + p.PID),
			Metadata: map[string]string{
				"serial": p.SerialNumber,
			},
		})
	}
	return lines, nil
}
