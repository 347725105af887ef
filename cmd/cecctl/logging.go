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
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Environment overrides for the console logger.
const (
	EnvLogLevel   = "CECCTL_LOG_LEVEL"
	EnvLogNoColor = "CECCTL_LOG_NOCOLOR"
)

type logConfig struct {
	level   zerolog.Level
	noColor bool
}

func defaultLogConfig(debug bool, out *os.File) logConfig {
	cfg := logConfig{
		level:   zerolog.InfoLevel,
		noColor: !term.IsTerminal(int(out.Fd())),
	}
	if debug {
		cfg.level = zerolog.DebugLevel
	}
	return cfg
}

func applyEnvOverrides(cfg *logConfig, getenv func(string) string) {
	if lvl, ok := parseLevel(getenv(EnvLogLevel)); ok {
		cfg.level = lvl
	}
	if v, ok := parseBool(getenv(EnvLogNoColor)); ok {
		cfg.noColor = v
	}
}

// newLogger builds the console logger shared by the CLI and the library.
func newLogger(out *os.File, debug bool) zerolog.Logger {
	cfg := defaultLogConfig(debug, out)
	applyEnvOverrides(&cfg, os.Getenv)

	writer := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    cfg.noColor,
		TimeFormat: "15:04:05.000",
	}
	return zerolog.New(writer).Level(cfg.level).With().Timestamp().Logger()
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
