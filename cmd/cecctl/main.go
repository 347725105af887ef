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

// Command cecctl drives a CEC bus from a GPIO pin or a serial adapter: it
// watches traffic, sends frames, scans for devices and acts as a playback
// device.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cec "github.com/ZaparooProject/go-cec"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	lineFlag   string
	pinFlag    string
	portFlag   string
	physFlag   string
	typeFlag   string
	debug      bool

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cecctl",
	Short: "CEC bus tool",
	Long: `cecctl - talk to an HDMI-CEC bus without a dedicated controller.

The bus line is bit-banged on a GPIO pin or on the RTS/CTS pair of a serial
adapter wired to the CEC pin through an open-drain buffer.

Line selection:
  GPIO: --line gpio --pin GPIO17
  UART: --line uart --port /dev/ttyUSB0

A YAML or TOML profile given with --config sets the same values; flags win.
Log output honours CECCTL_LOG_LEVEL and CECCTL_LOG_NOCOLOR.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		log = newLogger(os.Stderr, debug)
		cec.SetLogger(log.With().Str("component", "cec").Logger())
		cec.SetDebugEnabled(debug)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Device profile (.yaml, .yml or .toml)")
	flags.StringVar(&lineFlag, "line", "", "Line backend: gpio or uart")
	flags.StringVar(&pinFlag, "pin", "", "GPIO pin name (gpio line)")
	flags.StringVarP(&portFlag, "port", "p", "", "Serial port device (uart line)")
	flags.StringVar(&physFlag, "physical", "", "Physical address, e.g. 1.0.0.0")
	flags.StringVar(&typeFlag, "type", "", "Device type: tv, recording, tuner, playback, audio")
	flags.BoolVar(&debug, "debug", false, "Enable debug output")
}

// resolveConfig loads the profile and applies the flags the user set.
func resolveConfig(cmd *cobra.Command) (Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("line") {
		cfg.Line = lineFlag
	}
	if flags.Changed("pin") {
		cfg.Pin = pinFlag
	}
	if flags.Changed("port") {
		cfg.Port = portFlag
		if !flags.Changed("line") && !flags.Changed("pin") {
			cfg.Line = string(cec.LineUART)
		}
	}
	if flags.Changed("physical") {
		cfg.PhysicalAddress = physFlag
	}
	if flags.Changed("type") {
		cfg.DeviceType = typeFlag
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
