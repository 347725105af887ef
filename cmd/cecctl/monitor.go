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
	"net"
	"net/http"
	"time"

	cec "github.com/ZaparooProject/go-cec"
	"github.com/ZaparooProject/go-cec/internal/stream"
	"github.com/ZaparooProject/go-cec/trace"
	"github.com/spf13/cobra"
)

var (
	listenAddr string
	tracePath  string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Print every frame on the bus",
	Long: `Claim an address in promiscuous mode and print every frame seen on the bus.

With --trace the events are also appended to a CBOR trace file, and with
--listen they are streamed to websocket clients connecting to /events.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&listenAddr, "listen", "", "Serve live events on this address, e.g. :8080")
	monitorCmd.Flags().StringVar(&tracePath, "trace", "", "Append events to this trace file")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	sinks := cec.MultiSink{logSink{}}
	if tracePath != "" {
		recorder, err := trace.NewFileRecorder(tracePath)
		if err != nil {
			return err
		}
		defer func() {
			if err := recorder.Close(); err != nil {
				log.Warn().Err(err).Msg("close trace")
			}
		}()
		log.Info().Str("file", tracePath).Str("session", recorder.SessionID()).Msg("recording trace")
		sinks = append(sinks, recorder)
	}
	if listenAddr != "" {
		hub := stream.NewHub(log.With().Str("component", "stream").Logger())
		defer func() { _ = hub.Close() }()
		stopServer, err := serveEvents(ctx, listenAddr, hub)
		if err != nil {
			return err
		}
		defer stopServer()
		sinks = append(sinks, hub)
	}

	s, err := openSession(ctx, &cfg, sinks, true)
	if err != nil {
		return err
	}
	defer s.Close()

	<-ctx.Done()
	return nil
}

// serveEvents starts an HTTP server exposing hub at /events.
func serveEvents(ctx context.Context, addr string, hub *stream.Hub) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/events", hub)

	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("event server stopped")
		}
	}()
	log.Info().Str("addr", listener.Addr().String()).Msg("streaming events on /events")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}, nil
}
