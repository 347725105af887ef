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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	cec "github.com/ZaparooProject/go-cec"
	"gopkg.in/yaml.v3"
)

// Config is the device profile read from --config. YAML and TOML files are
// accepted, chosen by extension.
type Config struct {
	Line            string      `yaml:"line" toml:"line"`
	Pin             string      `yaml:"pin" toml:"pin"`
	Port            string      `yaml:"port" toml:"port"`
	PhysicalAddress string      `yaml:"physical_address" toml:"physical_address"`
	DeviceType      string      `yaml:"device_type" toml:"device_type"`
	OSDName         string      `yaml:"osd_name" toml:"osd_name"`
	TickInterval    string      `yaml:"tick_interval" toml:"tick_interval"`
	Redis           RedisConfig `yaml:"redis" toml:"redis"`
	VendorID        uint32      `yaml:"vendor_id" toml:"vendor_id"`
	MaxAttempts     int         `yaml:"max_attempts" toml:"max_attempts"`
	Inverted        bool        `yaml:"inverted" toml:"inverted"`
	Promiscuous     bool        `yaml:"promiscuous" toml:"promiscuous"`
}

// RedisConfig points the playback command at a state store.
type RedisConfig struct {
	Addr   string `yaml:"addr" toml:"addr"`
	Prefix string `yaml:"prefix" toml:"prefix"`
}

func defaultConfig() Config {
	return Config{
		Line:            string(cec.LineGPIO),
		Pin:             "GPIO17",
		PhysicalAddress: "1.0.0.0",
		DeviceType:      "playback",
		OSDName:         "cecctl",
		TickInterval:    "25us",
		MaxAttempts:     cec.DefaultRetryConfig().MaxAttempts,
	}
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	switch cec.LineType(c.Line) {
	case cec.LineGPIO:
		if strings.TrimSpace(c.Pin) == "" {
			errs = append(errs, errors.New("gpio line needs a pin"))
		}
	case cec.LineUART:
		if strings.TrimSpace(c.Port) == "" {
			errs = append(errs, errors.New("uart line needs a port"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown line %q (want gpio or uart)", c.Line))
	}
	if _, err := cec.ParsePhysicalAddress(c.PhysicalAddress); err != nil {
		errs = append(errs, err)
	}
	if _, err := cec.ParseDeviceType(c.DeviceType); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.tickInterval(); err != nil {
		errs = append(errs, err)
	}
	if c.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts))
	}
	return errors.Join(errs...)
}

func (c *Config) tickInterval() (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(c.TickInterval))
	if err != nil {
		return 0, fmt.Errorf("parse tick_interval: %w", err)
	}
	return d, nil
}

// session returns the values Initialize is called with.
func (c *Config) session() (cec.PhysicalAddress, cec.DeviceType, error) {
	pa, err := cec.ParsePhysicalAddress(c.PhysicalAddress)
	if err != nil {
		return pa, cec.DeviceTypeReserved, err
	}
	dt, err := cec.ParseDeviceType(c.DeviceType)
	return pa, dt, err
}

// deviceOptions translates the profile into device options.
func (c *Config) deviceOptions() ([]cec.Option, error) {
	tick, err := c.tickInterval()
	if err != nil {
		return nil, err
	}
	opts := []cec.Option{
		cec.WithMaxAttempts(c.MaxAttempts),
		cec.WithTickInterval(tick),
		cec.WithVendorID(c.VendorID),
		cec.WithPromiscuous(c.Promiscuous),
	}
	if c.OSDName != "" {
		opts = append(opts, cec.WithOSDName(c.OSDName))
	}
	return opts, nil
}
