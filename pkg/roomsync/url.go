package roomsync

import (
	"fmt"
	"net/url"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// roomIDLength matches the server's minted room id length.
const roomIDLength = 10

// ResolveRoomID extracts the room id from a share link's "room" query
// parameter. When the link carries no room id a fresh one is minted and the
// returned URL includes it, so the caller can show a shareable address.
func ResolveRoomID(rawURL string) (roomID, shareURL string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("parse share url: %w", err)
	}

	q := u.Query()
	roomID = q.Get("room")
	if roomID == "" {
		roomID, err = gonanoid.New(roomIDLength)
		if err != nil {
			return "", "", fmt.Errorf("mint room id: %w", err)
		}
		q.Set("room", roomID)
		u.RawQuery = q.Encode()
	}

	return roomID, u.String(), nil
}
