package roomsync

import (
	"bufio"
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"strings"
)

// Event is one server-sent event from a room stream.
type Event struct {
	Type string
	Room *Room
}

// Event types pushed on a room stream.
const (
	EventConnected   = "connected"
	EventRoomCreated = "room.created"
	EventRoomUpdated = "room.updated"
	EventHeartbeat   = "heartbeat"
)

// Subscribe opens the room's event stream. The first event is a connected
// snapshot carrying the full room, so consumers can render before any edit
// arrives. The channel closes when the context is canceled or the stream
// ends.
func (c *Client) Subscribe(ctx context.Context, roomID string) (<-chan Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/rooms/"+roomID+"/stream", nil)
	if err != nil {
		return nil, fmt.Errorf("build stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	// The stream outlives the client's request timeout, so use a dedicated
	// transport-only client.
	streamClient := &http.Client{Transport: c.httpClient.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode}
	}

	events := make(chan Event)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		var eventType string
		var data strings.Builder
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "event:"):
				eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			case line == "":
				if eventType == "" && data.Len() == 0 {
					continue
				}
				event := Event{Type: eventType}
				if data.Len() > 0 {
					// Server events are an envelope whose data field
					// carries the room snapshot.
					var payload struct {
						Data struct {
							Room *Room `json:"room"`
						} `json:"data"`
					}
					if err := json.Unmarshal([]byte(data.String()), &payload); err == nil {
						event.Room = payload.Data.Room
					}
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
				eventType = ""
				data.Reset()
			}
		}
		if err := scanner.Err(); err != nil && c.logger != nil {
			c.logger.Warn("room stream closed", "room_id", roomID, "error", err)
		}
	}()

	return events, nil
}
