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
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	cec "github.com/ZaparooProject/go-cec"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <destination> <payload>",
	Short: "Send one frame",
	Long: `Claim an address and send one frame to destination (0-15).

The payload is the opcode and operands in hex, optionally separated by colons
the way cec-client prints frames:

  cecctl send 0 04            # image view on
  cecctl send 15 82:10:00     # active source 1.0.0.0`,
	Args: cobra.ExactArgs(2),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func parseDestination(s string) (cec.LogicalAddress, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 8)
	if err != nil || v > 15 {
		return 0, fmt.Errorf("invalid destination %q: want 0-15", s)
	}
	return cec.LogicalAddress(v), nil
}

func parsePayload(s string) ([]byte, error) {
	clean := strings.NewReplacer(":", "", " ", "").Replace(s)
	payload, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid payload %q: %w", s, err)
	}
	if len(payload) == 0 || len(payload) > cec.MaxPayloadLength {
		return nil, fmt.Errorf("invalid payload %q: want 1-%d bytes", s, cec.MaxPayloadLength)
	}
	return payload, nil
}

func runSend(cmd *cobra.Command, args []string) error {
	dest, err := parseDestination(args[0])
	if err != nil {
		return err
	}
	payload, err := parsePayload(args[1])
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := openSession(ctx, &cfg, logSink{}, false)
	if err != nil {
		return err
	}
	defer s.Close()

	f := cec.NewFrame(s.device.LogicalAddress(), dest, payload...)
	if _, err := s.device.Transmit(ctx, f); err != nil {
		return err
	}
	log.Info().Str("frame", f.String()).Msg("acknowledged")
	return nil
}
