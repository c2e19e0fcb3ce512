// Package sse implements Server-Sent Events for pushing room snapshots to connected clients.
package sse

import (
	"time"

	"github.com/whenworksapp/whenworks-server/internal/domain"
)

// Rooms only ever flow server-to-client over SSE. Client edits arrive as
// ordinary PATCH requests, so full bidirectional transport is unnecessary.

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventRoomCreated represents a room creation event.
	EventRoomCreated EventType = "room.created"
	// EventRoomUpdated represents a room snapshot update event.
	EventRoomUpdated EventType = "room.updated"

	// EventConnected is the first event on every stream and carries the
	// current room snapshot so clients can render without a separate fetch.
	EventConnected EventType = "connected"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"` // Event-specific data as JSON object
	Type      EventType `json:"type"`

	// RoomID filters delivery to clients watching that room.
	// Empty string means "broadcast to all" (heartbeats).
	RoomID string `json:"-"`
}

// RoomEventData is the data payload for room events. It carries the full room
// snapshot so every event is self-contained and immediately renderable.
type RoomEventData struct {
	Room *domain.Room `json:"room"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewRoomCreatedEvent creates a room.created event.
func NewRoomCreatedEvent(room *domain.Room) Event {
	return Event{
		Type:      EventRoomCreated,
		Data:      RoomEventData{Room: room},
		Timestamp: time.Now(),
		RoomID:    room.ID,
	}
}

// NewRoomUpdatedEvent creates a room.updated event.
func NewRoomUpdatedEvent(room *domain.Room) Event {
	return Event{
		Type:      EventRoomUpdated,
		Data:      RoomEventData{Room: room},
		Timestamp: time.Now(),
		RoomID:    room.ID,
	}
}

// NewConnectedEvent creates the initial snapshot event for a new stream.
func NewConnectedEvent(room *domain.Room) Event {
	return Event{
		Type:      EventConnected,
		Data:      RoomEventData{Room: room},
		Timestamp: time.Now(),
		RoomID:    room.ID,
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type: EventHeartbeat,
		Data: HeartbeatEventData{
			ServerTime: time.Now(),
		},
		Timestamp: time.Now(),
	}
}
