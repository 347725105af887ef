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
	"fmt"
	"strconv"
	"strings"

	cec "github.com/ZaparooProject/go-cec"
	"github.com/ZaparooProject/go-cec/bridge"
	"github.com/ZaparooProject/go-cec/statestore"
	"github.com/spf13/cobra"
)

var (
	redisAddr   string
	redisPrefix string
)

var playbackCmd = &cobra.Command{
	Use:   "playback [intent]",
	Short: "Act as a playback device",
	Long: `Join the bus as a playback device and control the display.

Intents:
  power on|off        wake the display and take the input, or standby
  volume up|down      one volume step
  key <name>          press and release a remote key (select, up, down, left,
                      right, back, exit, playpause, info)
  input <port>        switch the display to HDMI input <port>

Without an intent the device stays on the bus, answering queries and
following the display's power state until interrupted. With --redis the state
is kept in a Redis hash and every change is published.`,
	RunE: runPlayback,
}

func init() {
	playbackCmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for the state store, e.g. localhost:6379")
	playbackCmd.Flags().StringVar(&redisPrefix, "redis-prefix", statestore.DefaultPrefix, "Key prefix in Redis")
	rootCmd.AddCommand(playbackCmd)
}

type intent func(ctx context.Context, b *bridge.Bridge) error

func parseIntent(args []string) (intent, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("want an intent and its argument, got %q", strings.Join(args, " "))
	}
	verb, arg := strings.ToLower(args[0]), strings.ToLower(args[1])

	switch verb {
	case "power":
		switch arg {
		case "on":
			return func(ctx context.Context, b *bridge.Bridge) error { return b.SetPower(ctx, true) }, nil
		case "off":
			return func(ctx context.Context, b *bridge.Bridge) error { return b.SetPower(ctx, false) }, nil
		}
	case "volume":
		switch arg {
		case "up":
			return func(ctx context.Context, b *bridge.Bridge) error { return b.VolumeUp(ctx) }, nil
		case "down":
			return func(ctx context.Context, b *bridge.Bridge) error { return b.VolumeDown(ctx) }, nil
		}
	case "key":
		key := bridge.Key(arg)
		if _, ok := bridge.KeyCode(key); ok {
			return func(ctx context.Context, b *bridge.Bridge) error { return b.PressKey(ctx, key) }, nil
		}
	case "input":
		port, err := strconv.Atoi(arg)
		if err == nil && port >= 1 && port <= 15 {
			return func(ctx context.Context, b *bridge.Bridge) error { return b.SelectInput(ctx, port) }, nil
		}
	}
	return nil, fmt.Errorf("unknown intent %q", strings.Join(args, " "))
}

func runPlayback(cmd *cobra.Command, args []string) error {
	var do intent
	if len(args) > 0 {
		var err error
		if do, err = parseIntent(args); err != nil {
			return err
		}
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("redis") {
		cfg.Redis.Addr = redisAddr
	}
	if cmd.Flags().Changed("redis-prefix") || cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = redisPrefix
	}
	ctx := cmd.Context()

	var (
		store   *statestore.Store
		initial bridge.State
	)
	if cfg.Redis.Addr != "" {
		store = statestore.New(cfg.Redis.Addr, cfg.Redis.Prefix)
		defer func() { _ = store.Close() }()

		if initial, err = store.Load(ctx); err != nil {
			return err
		}
		log.Debug().Str("addr", cfg.Redis.Addr).Str("prefix", cfg.Redis.Prefix).Msg("state store connected")
	}

	onChange := func(s bridge.State) {
		log.Info().Bool("power", s.Power).Int("input", s.ActiveInput).Stringer("volume", s.Volume).Msg("state")
		if store == nil {
			return
		}
		if err := store.Save(context.WithoutCancel(ctx), s); err != nil {
			log.Warn().Err(err).Msg("state not stored")
		}
	}

	b := bridge.New(nil, bridge.WithInitialState(initial), bridge.WithOnChange(onChange))
	s, err := openSession(ctx, &cfg, cec.MultiSink{b, logSink{}}, false)
	if err != nil {
		return err
	}
	defer s.Close()
	b.Attach(s.device)

	if do != nil {
		return do(ctx, b)
	}
	<-ctx.Done()
	return nil
}
