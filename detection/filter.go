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

package detection

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// DefaultBlocklist returns USB serial adapters that cannot act as a bus line
// because they speak their own protocol instead of exposing modem lines.
// Format: VID:PID in hexadecimal (case-insensitive).
func DefaultBlocklist() []string {
	return []string{
		"2548:1001", // Pulse-Eight USB-CEC adapter
		"2548:1002", // Pulse-Eight USB-CEC adapter, later revision
	}
}

// IsBlocked reports whether vidpid is on the blocklist.
func IsBlocked(vidpid string, blocklist []string) bool {
	vidpid = strings.TrimSpace(vidpid)
	return slices.ContainsFunc(blocklist, func(b string) bool {
		return strings.EqualFold(vidpid, strings.TrimSpace(b))
	})
}

var (
	vidPattern = regexp.MustCompile(`(?i)(?:vid[:=]|vendor=)\s*([0-9a-f]{1,4})`)
	pidPattern = regexp.MustCompile(`(?i)(?:pid[:=]|product=)\s*([0-9a-f]{1,4})`)
	pairFormat = regexp.MustCompile(`(?i)^\s*([0-9a-f]{1,4}):([0-9a-f]{1,4})\s*$`)
)

// ParseVIDPID extracts an upper-case, zero-padded VID:PID from descriptors
// such as "VID:2548 PID:1001", "vendor=2548 product=1001" or "2548:1001".
// It returns "" when either half is missing.
func ParseVIDPID(descriptor string) string {
	if m := pairFormat.FindStringSubmatch(descriptor); m != nil {
		return formatVIDPID(m[1], m[2])
	}
	vid := vidPattern.FindStringSubmatch(descriptor)
	pid := pidPattern.FindStringSubmatch(descriptor)
	if vid == nil || pid == nil {
		return ""
	}
	return formatVIDPID(vid[1], pid[1])
}

func formatVIDPID(vid, pid string) string {
	return padHex(vid) + ":" + padHex(pid)
}

func padHex(s string) string {
	return strings.Repeat("0", 4-len(s)) + strings.ToUpper(s)
}

// IsPathIgnored reports whether path matches one of the ignored paths. Paths
// are cleaned and compared case-insensitively, so "GPIO17" matches "gpio17"
// and "COM3" matches "com3".
func IsPathIgnored(path string, ignored []string) bool {
	if path == "" {
		return false
	}
	cleaned := filepath.Clean(path)
	return slices.ContainsFunc(ignored, func(p string) bool {
		return p != "" && strings.EqualFold(cleaned, filepath.Clean(p))
	})
}
