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
	"time"

	cec "github.com/ZaparooProject/go-cec"
	"github.com/ZaparooProject/go-cec/polling"
	"github.com/spf13/cobra"
)

var (
	scanWatch    bool
	scanInterval time.Duration
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the logical addresses in use",
	Long: `Poll every logical address and print the ones that answer.

With --watch the scan repeats and devices are reported as they appear and
disappear.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVarP(&scanWatch, "watch", "w", false, "Keep scanning and report changes")
	scanCmd.Flags().DurationVar(&scanInterval, "interval", polling.DefaultConfig().Interval, "Time between scans with --watch")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	s, err := openSession(ctx, &cfg, cec.NopSink{}, false)
	if err != nil {
		return err
	}
	defer s.Close()

	config := polling.DefaultConfig()
	config.Interval = scanInterval
	scanner, err := polling.NewScanner(s.device, config, polling.Callbacks{
		OnDeviceAppeared: func(addr cec.LogicalAddress) {
			log.Info().Uint8("logical", uint8(addr)).Msgf("%s appeared", addr)
		},
		OnDeviceRemoved: func(addr cec.LogicalAddress) {
			log.Info().Uint8("logical", uint8(addr)).Msgf("%s left", addr)
		},
	})
	if err != nil {
		return err
	}

	if scanWatch {
		if err := scanner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	if _, err := scanner.ScanOnce(ctx); err != nil {
		return err
	}
	m := scanner.GetMetrics()
	log.Info().
		Int64("polls", m.Polls).
		Int64("errors", m.PollErrors).
		Dur("took", m.LastCycleLatency).
		Msgf("%d devices besides %s", len(scanner.Present()), s.device.LogicalAddress())
	return nil
}
