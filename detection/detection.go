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

// Package detection finds the lines a bus can be attached to: GPIO pins and
// serial adapters with modem control lines.
package detection

import (
	"context"
	"errors"
	"sort"
	"sync"

	cec "github.com/ZaparooProject/go-cec"
)

var (
	// ErrNoLines is returned when no detector found a usable line.
	ErrNoLines = errors.New("no lines found")
	// ErrUnsupportedPlatform is returned by detectors that cannot run here.
	ErrUnsupportedPlatform = errors.New("detection not supported on this platform")
)

// LineInfo describes a line that was found.
type LineInfo struct {
	Metadata map[string]string
	Type     cec.LineType
	Path     string
	Name     string
	VIDPID   string
}

// Options configures detection
type Options struct {
	// IgnorePaths are skipped, compared case-insensitively after cleaning.
	IgnorePaths []string
	// Blocklist holds USB VID:PID pairs that are never reported.
	Blocklist []string
}

// DefaultOptions returns the default detection options
func DefaultOptions() Options {
	return Options{Blocklist: DefaultBlocklist()}
}

// Detector finds lines of one type.
type Detector interface {
	Type() cec.LineType
	Detect(ctx context.Context, opts *Options) ([]LineInfo, error)
}

var (
	registryMu sync.Mutex
	registry   = map[cec.LineType]Detector{}
)

// RegisterDetector makes a detector available to DetectAll. Detector
// packages call it from init.
func RegisterDetector(d Detector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Type()] = d
}

func detectors() []Detector {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]Detector, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type() < out[j].Type() })
	return out
}

// DetectAll runs every registered detector and filters the results through
// opts. Detectors unsupported on this platform are skipped.
func DetectAll(ctx context.Context, opts *Options) ([]LineInfo, error) {
	if opts == nil {
		o := DefaultOptions()
		opts = &o
	}

	var (
		found []LineInfo
		errs  []error
	)
	for _, d := range detectors() {
		lines, err := d.Detect(ctx, opts)
		if err != nil {
			if !errors.Is(err, ErrUnsupportedPlatform) {
				errs = append(errs, err)
			}
			continue
		}
		found = append(found, Filter(lines, opts)...)
	}

	if len(found) == 0 {
		if len(errs) > 0 {
			return nil, errors.Join(append([]error{ErrNoLines}, errs...)...)
		}
		return nil, ErrNoLines
	}
	return found, nil
}

// Filter drops ignored paths and blocked adapters.
func Filter(lines []LineInfo, opts *Options) []LineInfo {
	out := lines[:0:0]
	for _, l := range lines {
		if IsPathIgnored(l.Path, opts.IgnorePaths) {
			continue
		}
		if l.VIDPID != "" && IsBlocked(l.VIDPID, opts.Blocklist) {
			continue
		}
		out = append(out, l)
	}
	return out
}
