// Copyright 2026 Scott Mercer
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package apiserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// StreamEvent is one item of the demo log stream - a short notice
// about a processed dataset. It carries derived numbers only, never
// row data.
type StreamEvent struct {
	Timestamp string `json:"timestamp"`
	Operation string `json:"operation"`
	Dataset   string `json:"dataset"`
	NumRows   int    `json:"numRows"`
	Message   string `json:"message"`
}

type streamClient struct {
	conn *websocket.Conn
	send chan []byte
}

// streamHub fans processing events out to connected websocket clients.
// Slow clients are dropped rather than allowed to block the hub.
type streamHub struct {
	register   chan *streamClient
	unregister chan *streamClient
	events     chan StreamEvent
	clients    map[*streamClient]bool
	done       chan struct{}
}

func newStreamHub() *streamHub {
	return &streamHub{
		register:   make(chan *streamClient),
		unregister: make(chan *streamClient),
		events:     make(chan StreamEvent, 100),
		clients:    make(map[*streamClient]bool),
		done:       make(chan struct{}),
	}
}

// add registers a client with the hub. It reports false once the hub
// has shut down, so a connection arriving during the drain window does
// not block its handler.
func (hub *streamHub) add(client *streamClient) bool {
	select {
	case hub.register <- client:
		return true
	case <-hub.done:
		return false
	}
}

func (hub *streamHub) drop(client *streamClient) {
	select {
	case hub.unregister <- client:
	case <-hub.done:
	}
}

// Publish enqueues an event without blocking the calling handler. When
// the buffer is full the event is dropped - the stream is a demo
// channel, not a reliable feed.
func (hub *streamHub) Publish(evt StreamEvent) {
	select {
	case hub.events <- evt:
	default:
	}
}

func (hub *streamHub) run(ctx context.Context) {
	defer close(hub.done)
	for {
		select {
		case <-ctx.Done():
			for client := range hub.clients {
				close(client.send)
				delete(hub.clients, client)
			}
			return
		case client := <-hub.register:
			hub.clients[client] = true
			log.Info().Int("numClients", len(hub.clients)).Msg("log stream client connected")
		case client := <-hub.unregister:
			if _, ok := hub.clients[client]; ok {
				delete(hub.clients, client)
				close(client.send)
				log.Info().Int("numClients", len(hub.clients)).Msg("log stream client disconnected")
			}
		case evt := <-hub.events:
			msg, err := json.Marshal(evt)
			if err != nil {
				log.Error().Err(err).Msg("failed to serialize stream event")
				continue
			}
			for client := range hub.clients {
				select {
				case client.send <- msg:
				default:
					delete(hub.clients, client)
					close(client.send)
				}
			}
		}
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const wsWriteTimeout = 10 * time.Second

func (api *apiServer) handleLogStream(ctx *gin.Context) {
	conn, err := wsUpgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade log stream connection")
		return
	}
	client := &streamClient{
		conn: conn,
		send: make(chan []byte, 32),
	}
	if !api.hub.add(client) {
		conn.Close()
		return
	}

	go func() {
		defer conn.Close()
		for msg := range client.send {
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				api.hub.drop(client)
				return
			}
		}
	}()

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				api.hub.drop(client)
				return
			}
		}
	}()
}
