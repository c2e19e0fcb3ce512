package domain

import (
	"testing"
	"time"
)

func TestDefaultRoom(t *testing.T) {
	now := time.Date(2025, time.January, 1, 10, 0, 0, 0, time.Local)
	room := DefaultRoom("room-abc", now)

	if room.Range.Start != "2025-01-01" {
		t.Errorf("range start = %q", room.Range.Start)
	}
	if room.Range.End != "2025-01-31" {
		t.Errorf("range end = %q", room.Range.End)
	}
	if len(room.People) != 7 {
		t.Fatalf("default roster size = %d, want 7", len(room.People))
	}
	seen := make(map[int]bool)
	for _, p := range room.People {
		if seen[p.ID] {
			t.Errorf("duplicate person id %d", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestDefaultRoomWithDays(t *testing.T) {
	now := time.Date(2025, time.January, 1, 10, 0, 0, 0, time.Local)
	room := DefaultRoomWithDays("room-abc", now, 7)

	if room.Range.Start != "2025-01-01" {
		t.Errorf("range start = %q", room.Range.Start)
	}
	if room.Range.End != "2025-01-08" {
		t.Errorf("range end = %q", room.Range.End)
	}
}

func TestUniverse_InvertedRangeIsEmpty(t *testing.T) {
	rng := DateRange{Start: "2025-02-01", End: "2025-01-01"}
	if got := rng.Universe(); len(got) != 0 {
		t.Errorf("inverted range universe = %v, want empty", got)
	}
}

func TestSetPersonField_DoesNotMutateOriginal(t *testing.T) {
	room := Room{People: []Person{{ID: 1, Name: "Iris"}, {ID: 2, Name: "Olip"}}}

	next := SetPersonField(room, 2, FieldBlocks, "2025-01-05")

	if room.People[1].Blocks != "" {
		t.Errorf("original room mutated: blocks = %q", room.People[1].Blocks)
	}
	if next.People[1].Blocks != "2025-01-05" {
		t.Errorf("next room blocks = %q", next.People[1].Blocks)
	}
}

func TestSetPersonField_UnknownIDIsNoop(t *testing.T) {
	room := Room{People: []Person{{ID: 1, Name: "Iris"}}}
	next := SetPersonField(room, 99, FieldName, "Ghost")
	if next.People[0].Name != "Iris" {
		t.Errorf("name changed unexpectedly: %q", next.People[0].Name)
	}
}

func TestAddPerson_AssignsNextUnusedID(t *testing.T) {
	room := Room{People: []Person{{ID: 1}, {ID: 3}}}

	next := AddPerson(room, "New")
	if got := next.People[len(next.People)-1].ID; got != 2 {
		t.Errorf("new person id = %d, want 2 (smallest unused)", got)
	}

	// Adding again after removal never reuses a live id.
	next = RemovePerson(next, 1)
	next = AddPerson(next, "Another")
	ids := make(map[int]int)
	for _, p := range next.People {
		ids[p.ID]++
		if ids[p.ID] > 1 {
			t.Fatalf("id %d assigned twice: %+v", p.ID, next.People)
		}
	}
}

func TestAddPerson_EmptyRoom(t *testing.T) {
	next := AddPerson(Room{}, "First")
	if len(next.People) != 1 || next.People[0].ID != 1 {
		t.Errorf("people = %+v, want single person with id 1", next.People)
	}
}

func TestRemovePerson(t *testing.T) {
	room := Room{People: []Person{{ID: 1}, {ID: 2}, {ID: 3}}}

	next := RemovePerson(room, 2)
	if len(next.People) != 2 {
		t.Fatalf("people after remove = %+v", next.People)
	}
	if next.People[0].ID != 1 || next.People[1].ID != 3 {
		t.Errorf("remaining ids = %d, %d", next.People[0].ID, next.People[1].ID)
	}

	// Unknown id is a no-op.
	same := RemovePerson(room, 42)
	if len(same.People) != 3 {
		t.Errorf("remove unknown id dropped someone: %+v", same.People)
	}
}

func TestSetRange(t *testing.T) {
	room := Room{Range: DateRange{Start: "2025-01-01", End: "2025-01-31"}}
	next := SetRange(room, DateRange{Start: "2025-02-01", End: "2025-02-10"})

	if room.Range.Start != "2025-01-01" {
		t.Errorf("original range mutated")
	}
	if next.Range.Start != "2025-02-01" || next.Range.End != "2025-02-10" {
		t.Errorf("next range = %+v", next.Range)
	}
}
