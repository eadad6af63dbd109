// Package websocket provides the live snapshot feed for the 2019-Worms
// state inspector.
//
// The websocket package implements:
//   - A single broadcast feed of loaded snapshots
//   - Automatic state broadcasting after each successful load
//   - Connection lifecycle management with ping/pong keepalive
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine that manages reading, writing, and cleanup.
//
// Message Protocol:
//
// Messages are JSON-encoded with the following structure:
//   - {"event": "state_update", "round": 42, "state": {...}} after each load
//   - {"event": "round_discovered", "round": 43, "data": ...} from the poller
//
// The feed is one-way: clients receive snapshot updates but do not send
// commands. Incoming frames are read only to keep the connection alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// After a successful snapshot load
//	hub.BroadcastState(doc)
//
// Concurrency:
//
// The hub and client handlers are designed for concurrent operation.
// Multiple clients can connect, disconnect, and receive messages
// simultaneously without blocking each other.
package websocket
