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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamHubShutdownUnblocksClientOps(t *testing.T) {
	hub := newStreamHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.run(ctx)

	client := &streamClient{send: make(chan []byte, 1)}
	require.True(t, hub.add(client))

	cancel()
	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("hub did not shut down")
	}

	// a connection racing the shutdown must be refused, not parked
	late := &streamClient{send: make(chan []byte, 1)}
	assert.False(t, hub.add(late))

	dropped := make(chan struct{})
	go func() {
		hub.drop(client)
		close(dropped)
	}()
	select {
	case <-dropped:
	case <-time.After(time.Second):
		t.Fatal("drop blocked after hub shutdown")
	}
}

func TestStreamHubPublishNeverBlocks(t *testing.T) {
	hub := newStreamHub()
	// no run loop draining the buffer: overflow must be dropped
	for i := 0; i < 200; i++ {
		hub.Publish(StreamEvent{Message: "tick"})
	}
	assert.Equal(t, 100, len(hub.events))
}
