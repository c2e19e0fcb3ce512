// Package roomsync is a client for the WhenWorks room API. It keeps a local
// replica of one room, debounces merge-writes so rapid edits collapse into a
// single request, and applies live snapshots pushed by the server.
package roomsync

// DateRange is an inclusive span of "YYYY-MM-DD" date keys.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Person is one participant. Blocks and Wants are text-encoded date sets,
// whitespace, comma, or newline delimited.
type Person struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Blocks string `json:"blocks"`
	Wants  string `json:"wants,omitempty"`
	Mode   string `json:"mode,omitempty"`
}

// Room is the shared scheduling state for one link.
type Room struct {
	ID     string    `json:"id"`
	Range  DateRange `json:"range"`
	People []Person  `json:"people"`
}

// Snapshot is a partial room state. Nil fields mean "unchanged": the server
// merges a snapshot into its copy field by field, and ApplySnapshot does the
// same to a local replica.
type Snapshot struct {
	Range  *DateRange `json:"range,omitempty"`
	People *[]Person  `json:"people,omitempty"`
}

// ApplySnapshot merges snap into room and returns the result. The input room
// is not modified. Fields absent from the snapshot keep their local value.
func ApplySnapshot(room Room, snap Snapshot) Room {
	next := room
	next.People = clonePeople(room.People)
	if snap.Range != nil {
		next.Range = *snap.Range
	}
	if snap.People != nil {
		next.People = clonePeople(*snap.People)
	}
	return next
}

func clonePeople(people []Person) []Person {
	out := make([]Person, len(people))
	copy(out, people)
	return out
}
