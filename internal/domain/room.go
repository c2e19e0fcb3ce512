// Package domain defines the core types for shared availability scheduling:
// rooms, participants, and date ranges.
package domain

import (
	"time"

	"github.com/whenworksapp/whenworks-server/internal/dateutil"
)

// Mode annotates which date set a participant's next edits should affect.
// It is a UI hint only and has no effect on availability aggregation.
type Mode string

const (
	// ModeBlock marks edits as unavailable dates.
	ModeBlock Mode = "block"
	// ModeWant marks edits as preferred dates.
	ModeWant Mode = "want"
)

// DateRange is an inclusive span of calendar dates. Start and End are date
// keys ("YYYY-MM-DD"). An inverted or malformed range is not an error; it
// enumerates to an empty universe.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Universe returns every date key in the range, inclusive.
func (r DateRange) Universe() []string {
	return dateutil.EnumerateDates(r.Start, r.End)
}

// Person is one participant in a room. Blocks and Wants are text-encoded
// date sets (whitespace/comma/newline delimited) exactly as persisted;
// parse them with dateutil.ParseDateSet.
type Person struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Blocks string `json:"blocks"`
	Wants  string `json:"wants,omitempty"`
	Mode   Mode   `json:"mode,omitempty"`
}

// BlockSet returns the parsed set of blocked dates.
func (p Person) BlockSet() map[string]struct{} {
	return dateutil.ParseDateSet(p.Blocks)
}

// WantSet returns the parsed set of wanted dates. Empty means "no
// preference": the person is a candidate for the entire range.
func (p Person) WantSet() map[string]struct{} {
	return dateutil.ParseDateSet(p.Wants)
}

// Room is the unit of shared scheduling state. All clients holding the same
// id edit the same room; the store's copy is authoritative and local replicas
// are overwritten by incoming snapshots.
type Room struct {
	ID        string    `json:"id"`
	Range     DateRange `json:"range"`
	People    []Person  `json:"people"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// defaultRoster is the participant list new rooms start with.
var defaultRoster = []string{"Iris", "Olip", "Michelle", "YH", "Bonita", "Kimberly", "Nina"}

// DefaultRangeDays is the span of a fresh room's range, counted forward from
// today, when no override is configured.
const DefaultRangeDays = 30

// DefaultRoom returns a fresh room with the default range (today through
// today+30) and roster. The caller supplies now so defaults are
// deterministic in tests.
func DefaultRoom(id string, now time.Time) Room {
	return DefaultRoomWithDays(id, now, DefaultRangeDays)
}

// DefaultRoomWithDays is DefaultRoom with a configurable range span.
func DefaultRoomWithDays(id string, now time.Time, days int) Room {
	people := make([]Person, len(defaultRoster))
	for i, name := range defaultRoster {
		people[i] = Person{ID: i + 1, Name: name, Mode: ModeBlock}
	}
	return Room{
		ID: id,
		Range: DateRange{
			Start: dateutil.FormatDate(now),
			End:   dateutil.FormatDate(now.AddDate(0, 0, days)),
		},
		People:    people,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// The mutation helpers below never modify their receiver; they return a new
// Room value so callers can treat room state as immutable snapshots.

// SetRange returns a copy of room with the given range.
func SetRange(room Room, rng DateRange) Room {
	next := room
	next.Range = rng
	next.People = clonePeople(room.People)
	return next
}

// PersonField names a mutable field on a Person.
type PersonField string

const (
	// FieldName is the participant's display name.
	FieldName PersonField = "name"
	// FieldBlocks is the text-encoded blocked date set.
	FieldBlocks PersonField = "blocks"
	// FieldWants is the text-encoded wanted date set.
	FieldWants PersonField = "wants"
	// FieldMode is the UI edit-mode annotation.
	FieldMode PersonField = "mode"
)

// SetPersonField returns a copy of room with one field of the identified
// person replaced. Unknown ids and unknown fields leave the room unchanged.
func SetPersonField(room Room, personID int, field PersonField, value string) Room {
	next := room
	next.People = clonePeople(room.People)
	for i := range next.People {
		if next.People[i].ID != personID {
			continue
		}
		switch field {
		case FieldName:
			next.People[i].Name = value
		case FieldBlocks:
			next.People[i].Blocks = value
		case FieldWants:
			next.People[i].Wants = value
		case FieldMode:
			next.People[i].Mode = Mode(value)
		}
		break
	}
	return next
}

// AddPerson returns a copy of room with a new participant appended. The new
// person receives the smallest positive integer id not present among the
// existing people, so ids stay unique within a room.
func AddPerson(room Room, name string) Room {
	next := room
	next.People = clonePeople(room.People)

	used := make(map[int]struct{}, len(next.People))
	for _, p := range next.People {
		used[p.ID] = struct{}{}
	}
	id := 1
	for {
		if _, taken := used[id]; !taken {
			break
		}
		id++
	}

	next.People = append(next.People, Person{ID: id, Name: name, Mode: ModeBlock})
	return next
}

// RemovePerson returns a copy of room without the identified participant.
// Removing an unknown id is a no-op.
func RemovePerson(room Room, personID int) Room {
	next := room
	next.People = make([]Person, 0, len(room.People))
	for _, p := range room.People {
		if p.ID != personID {
			next.People = append(next.People, p)
		}
	}
	return next
}

func clonePeople(people []Person) []Person {
	out := make([]Person, len(people))
	copy(out, people)
	return out
}
