package roomsync

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSubscribe_ParsesEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/rooms/room1/stream" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		fmt.Fprint(w, "event: connected\n")
		fmt.Fprint(w, `data: {"type":"connected","data":{"room":{"id":"room1","range":{"start":"2025-06-01","end":"2025-06-05"},"people":[{"id":1,"name":"Iris","blocks":""}]}}}`+"\n\n")
		flusher.Flush()

		fmt.Fprint(w, "event: heartbeat\n")
		fmt.Fprint(w, `data: {"type":"heartbeat","data":{}}`+"\n\n")
		flusher.Flush()

		fmt.Fprint(w, "event: room.updated\n")
		fmt.Fprint(w, `data: {"type":"room.updated","data":{"room":{"id":"room1","range":{"start":"2025-06-01","end":"2025-06-05"},"people":[{"id":1,"name":"Renamed","blocks":""}]}}}`+"\n\n")
		flusher.Flush()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := NewClient(srv.URL).Subscribe(ctx, "room1")
	if err != nil {
		t.Fatal(err)
	}

	var got []Event
	for event := range events {
		got = append(got, event)
	}

	if len(got) != 3 {
		t.Fatalf("got %d events, want 3: %+v", len(got), got)
	}
	if got[0].Type != EventConnected || got[0].Room == nil || got[0].Room.People[0].Name != "Iris" {
		t.Errorf("first event should be a connected snapshot: %+v", got[0])
	}
	if got[1].Type != EventHeartbeat || got[1].Room != nil {
		t.Errorf("heartbeat should carry no room: %+v", got[1])
	}
	if got[2].Type != EventRoomUpdated || got[2].Room == nil || got[2].Room.People[0].Name != "Renamed" {
		t.Errorf("update event: %+v", got[2])
	}
}

func TestSubscribe_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	_, err := NewClient(srv.URL).Subscribe(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Errorf("err = %v, want 404 APIError", err)
	}
}
