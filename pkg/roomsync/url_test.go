package roomsync

import (
	"net/url"
	"testing"
)

func TestResolveRoomID_ExistingParam(t *testing.T) {
	roomID, shareURL, err := ResolveRoomID("https://when.example.com/?room=abc123XYZ0")
	if err != nil {
		t.Fatal(err)
	}
	if roomID != "abc123XYZ0" {
		t.Errorf("roomID = %q, want abc123XYZ0", roomID)
	}
	if shareURL != "https://when.example.com/?room=abc123XYZ0" {
		t.Errorf("shareURL = %q", shareURL)
	}
}

func TestResolveRoomID_MintsWhenAbsent(t *testing.T) {
	roomID, shareURL, err := ResolveRoomID("https://when.example.com/")
	if err != nil {
		t.Fatal(err)
	}
	if len(roomID) != roomIDLength {
		t.Errorf("roomID length = %d, want %d", len(roomID), roomIDLength)
	}

	u, err := url.Parse(shareURL)
	if err != nil {
		t.Fatal(err)
	}
	if got := u.Query().Get("room"); got != roomID {
		t.Errorf("share url carries room=%q, want %q", got, roomID)
	}
}

func TestResolveRoomID_BadURL(t *testing.T) {
	if _, _, err := ResolveRoomID("://not-a-url"); err == nil {
		t.Error("expected error for malformed url")
	}
}
