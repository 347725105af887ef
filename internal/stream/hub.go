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

// Package stream serves bus events to websocket clients as they happen.
package stream

import (
	"net/http"
	"sync"
	"time"

	cec "github.com/ZaparooProject/go-cec"
	"github.com/ZaparooProject/go-cec/trace"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeTimeout = 5 * time.Second
	clientQueue  = 64
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub is a cec.EventSink broadcasting every event to connected websocket
// clients as a binary message holding one CBOR trace event. Clients that
// fall behind lose events rather than stalling the dispatcher.
type Hub struct {
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	log      zerolog.Logger
	now      func() time.Time
	mu       sync.Mutex
	closed   bool
}

// NewHub creates a hub with no clients.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
		now: time.Now,
	}
}

// ServeHTTP upgrades the request and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientQueue)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Debug().Str("remote", r.RemoteAddr).Msg("stream client connected")

	go h.writeLoop(c)
	go h.readLoop(c)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// readLoop discards client messages and notices disconnects.
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer func() { _ = c.conn.Close() }()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			h.remove(c)
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) broadcast(event trace.Event) {
	event.Timestamp = h.now()
	msg, err := trace.EncodeEvent(event)
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to encode stream event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Debug().Msg("stream client is slow, dropping event")
		}
	}
}

// OnReady implements cec.EventSink.
func (h *Hub) OnReady(addr cec.LogicalAddress) {
	h.broadcast(trace.Event{Kind: trace.KindReady, Address: uint8(addr)})
}

// OnReceiveComplete implements cec.EventSink.
func (h *Hub) OnReceiveComplete(f cec.Frame, ack bool) {
	h.broadcast(trace.Event{Kind: trace.KindReceive, Data: f.Bytes(), Acks: f.Acks, Ack: ack})
}

// OnTransmitComplete implements cec.EventSink.
func (h *Hub) OnTransmitComplete(f cec.Frame, ack bool) {
	h.broadcast(trace.Event{Kind: trace.KindTransmit, Data: f.Bytes(), Acks: f.Acks, Ack: ack})
}

// Close disconnects every client.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	return nil
}

var _ cec.EventSink = (*Hub)(nil)
