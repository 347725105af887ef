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
	"io"
	"strings"

	"github.com/ZaparooProject/go-cec/trace"
	"github.com/spf13/cobra"
)

var (
	traceKind    string
	traceSession string
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Work with recorded bus traces",
}

var traceDumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print the events of a trace file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := traceFilter(traceKind, traceSession)
		if err != nil {
			return err
		}
		r, err := trace.OpenFile(args[0], filter)
		if err != nil {
			return err
		}
		defer func() { _ = r.Close() }()

		out := cmd.OutOrStdout()
		for {
			event, err := r.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(out, event.String()); err != nil {
				return err
			}
		}
	},
}

func init() {
	traceDumpCmd.Flags().StringVar(&traceKind, "kind", "", "Only events of this kind: rx, tx, ready, alloc-fail")
	traceDumpCmd.Flags().StringVar(&traceSession, "session", "", "Only events of this session")
	traceCmd.AddCommand(traceDumpCmd)
	rootCmd.AddCommand(traceCmd)
}

func traceFilter(kind, session string) (trace.Filter, error) {
	filter := trace.Filter{SessionID: session}
	if kind == "" {
		return filter, nil
	}
	for _, k := range []trace.Kind{trace.KindReceive, trace.KindTransmit, trace.KindReady, trace.KindAllocationFailed} {
		if strings.EqualFold(k.String(), kind) {
			filter.Kind = &k
			return filter, nil
		}
	}
	return trace.Filter{}, fmt.Errorf("unknown event kind %q", kind)
}
