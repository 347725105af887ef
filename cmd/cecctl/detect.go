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
	"errors"

	"github.com/ZaparooProject/go-cec/detection"
	_ "github.com/ZaparooProject/go-cec/detection/gpio" // registers the GPIO detector
	_ "github.com/ZaparooProject/go-cec/detection/uart" // registers the serial detector
	"github.com/spf13/cobra"
)

var ignorePaths []string

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "List lines the bus can be attached to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := detection.DefaultOptions()
		opts.IgnorePaths = ignorePaths

		lines, err := detection.DetectAll(cmd.Context(), &opts)
		if errors.Is(err, detection.ErrNoLines) {
			log.Warn().Err(err).Msg("nothing found")
			return nil
		}
		if err != nil {
			return err
		}

		for _, l := range lines {
			event := log.Info().Str("type", string(l.Type)).Str("path", l.Path)
			if l.VIDPID != "" {
				event = event.Str("usb", l.VIDPID)
			}
			for k, v := range l.Metadata {
				event = event.Str(k, v)
			}
			event.Msg(l.Name)
		}
		return nil
	},
}

func init() {
	detectCmd.Flags().StringSliceVar(&ignorePaths, "ignore", nil, "Paths to skip")
	rootCmd.AddCommand(detectCmd)
}
