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

// Package statestore mirrors the bridge's application state into Redis so
// home automation can read it and follow changes.
package statestore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ZaparooProject/go-cec/bridge"
	"github.com/go-redis/redis/v8"
)

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "cec"

// commander is the part of *redis.Client the store uses.
type commander interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.StringStringMapCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

// Store keeps the state in the hash "<prefix>:state" and announces every
// change on the channel "<prefix>:events".
type Store struct {
	db     commander
	prefix string
}

// New connects to the Redis server at addr.
func New(addr, prefix string) *Store {
	return newStore(redis.NewClient(&redis.Options{Addr: addr}), prefix)
}

func newStore(db commander, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{db: db, prefix: prefix}
}

func (s *Store) stateKey() string {
	return s.prefix + ":state"
}

func (s *Store) eventsKey() string {
	return s.prefix + ":events"
}

// Save writes state and publishes the change.
func (s *Store) Save(ctx context.Context, state bridge.State) error {
	fields := []interface{}{
		"power", strconv.FormatBool(state.Power),
		"input", strconv.Itoa(state.ActiveInput),
		"volume", state.Volume.String(),
	}
	if err := s.db.HSet(ctx, s.stateKey(), fields...).Err(); err != nil {
		return fmt.Errorf("failed to store state: %w", err)
	}
	msg := fmt.Sprintf("power=%t input=%d volume=%s", state.Power, state.ActiveInput, state.Volume)
	if err := s.db.Publish(ctx, s.eventsKey(), msg).Err(); err != nil {
		return fmt.Errorf("failed to publish state: %w", err)
	}
	return nil
}

// Load reads the stored state. A missing hash yields the zero State.
func (s *Store) Load(ctx context.Context) (bridge.State, error) {
	values, err := s.db.HGetAll(ctx, s.stateKey()).Result()
	if err != nil {
		return bridge.State{}, fmt.Errorf("failed to load state: %w", err)
	}

	var state bridge.State
	if v, ok := values["power"]; ok {
		if state.Power, err = strconv.ParseBool(v); err != nil {
			return bridge.State{}, fmt.Errorf("invalid stored power %q: %w", v, err)
		}
	}
	if v, ok := values["input"]; ok {
		if state.ActiveInput, err = strconv.Atoi(v); err != nil {
			return bridge.State{}, fmt.Errorf("invalid stored input %q: %w", v, err)
		}
	}
	switch values["volume"] {
	case "up":
		state.Volume = bridge.VolumeUp
	case "down":
		state.Volume = bridge.VolumeDown
	}
	return state, nil
}

// Close closes the connection.
func (s *Store) Close() error {
	return s.db.Close()
}
