package roomsync

import (
	"context"
	"encoding/json/v2"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// fakeServer implements just enough of the room API for controller tests.
type fakeServer struct {
	room    Room
	patches atomic.Int64
	lastGot atomic.Pointer[Snapshot]
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/rooms", func(w http.ResponseWriter, r *http.Request) {
		resp := struct {
			Room    Room `json:"room"`
			Created bool `json:"created"`
		}{Room: f.room, Created: false}
		w.Header().Set("Content-Type", "application/json")
		_ = json.MarshalWrite(w, resp)
	})
	mux.HandleFunc("PATCH /api/v1/rooms/{id}", func(w http.ResponseWriter, r *http.Request) {
		var snap Snapshot
		if err := json.UnmarshalRead(r.Body, &snap); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.patches.Add(1)
		f.lastGot.Store(&snap)

		f.room = ApplySnapshot(f.room, snap)
		w.Header().Set("Content-Type", "application/json")
		_ = json.MarshalWrite(w, f.room)
	})
	return mux
}

func newFakeServer() (*fakeServer, *httptest.Server) {
	fs := &fakeServer{room: Room{
		ID:    "room1",
		Range: DateRange{Start: "2025-06-01", End: "2025-06-05"},
		People: []Person{
			{ID: 1, Name: "Iris", Blocks: "2025-06-02"},
		},
	}}
	return fs, httptest.NewServer(fs.handler())
}

func TestController_EditBeforeStartRejected(t *testing.T) {
	_, srv := newFakeServer()
	defer srv.Close()

	c := NewController(NewClient(srv.URL), "room1")
	defer c.Close()

	if err := c.SetPersonName(1, "Renamed"); err != ErrNotReady {
		t.Errorf("err = %v, want ErrNotReady", err)
	}
}

func TestController_ReadyClosesAfterStart(t *testing.T) {
	_, srv := newFakeServer()
	defer srv.Close()

	c := NewController(NewClient(srv.URL), "room1")
	defer c.Close()

	select {
	case <-c.Ready():
		t.Fatal("ready before Start")
	default:
	}

	if _, err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	select {
	case <-c.Ready():
	case <-time.After(time.Second):
		t.Fatal("ready did not close after Start")
	}
}

func TestController_ScheduleSaveReplacesState(t *testing.T) {
	fs, srv := newFakeServer()
	defer srv.Close()

	c := NewController(NewClient(srv.URL), "room1", WithDebounce(time.Hour))
	defer c.Close()

	if _, err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	err := c.ScheduleSave(Room{
		ID:     "room1",
		Range:  DateRange{Start: "2025-09-01", End: "2025-09-03"},
		People: []Person{{ID: 1, Name: "Iris", Blocks: "2025-09-02"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	if fs.room.Range.Start != "2025-09-01" {
		t.Errorf("server range = %+v", fs.room.Range)
	}
	if fs.room.People[0].Blocks != "2025-09-02" {
		t.Errorf("server people = %+v", fs.room.People)
	}
}

func TestController_StartAdoptsServerState(t *testing.T) {
	_, srv := newFakeServer()
	defer srv.Close()

	c := NewController(NewClient(srv.URL), "room1")
	defer c.Close()

	room, err := c.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if room.People[0].Name != "Iris" {
		t.Errorf("bootstrap state not adopted: %+v", room.People)
	}
	if c.Room().People[0].Blocks != "2025-06-02" {
		t.Errorf("replica lost server blocks: %+v", c.Room().People)
	}
}

func TestController_RapidEditsCollapseToOneWrite(t *testing.T) {
	fs, srv := newFakeServer()
	defer srv.Close()

	c := NewController(NewClient(srv.URL), "room1", WithDebounce(50*time.Millisecond))
	defer c.Close()

	if _, err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Simulate typing: many edits inside one debounce window.
	for _, blocks := range []string{"2", "20", "202", "2025-06-03"} {
		if err := c.SetPersonBlocks(1, blocks); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for fs.patches.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	// Allow a straggler to show up before counting.
	time.Sleep(150 * time.Millisecond)

	if got := fs.patches.Load(); got != 1 {
		t.Errorf("patches = %d, want exactly 1", got)
	}

	snap := fs.lastGot.Load()
	if snap == nil || snap.People == nil {
		t.Fatal("no snapshot captured")
	}
	if (*snap.People)[0].Blocks != "2025-06-03" {
		t.Errorf("final write carried %q, want last edit", (*snap.People)[0].Blocks)
	}
	if snap.Range == nil || snap.Range.Start != "2025-06-01" {
		t.Errorf("debounced save should carry the full state, got range %+v", snap.Range)
	}
}

func TestController_FlushWritesImmediately(t *testing.T) {
	fs, srv := newFakeServer()
	defer srv.Close()

	c := NewController(NewClient(srv.URL), "room1", WithDebounce(time.Hour))
	defer c.Close()

	if _, err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.SetPersonName(1, "Renamed"); err != nil {
		t.Fatal(err)
	}
	if err := c.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := fs.patches.Load(); got != 1 {
		t.Fatalf("patches = %d, want 1", got)
	}
	if fs.room.People[0].Name != "Renamed" {
		t.Errorf("server state = %+v", fs.room.People)
	}
}

func TestController_AddAndRemovePerson(t *testing.T) {
	_, srv := newFakeServer()
	defer srv.Close()

	c := NewController(NewClient(srv.URL), "room1", WithDebounce(time.Hour))
	defer c.Close()

	if _, err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := c.AddPerson("Guest"); err != nil {
		t.Fatal(err)
	}
	room := c.Room()
	if len(room.People) != 2 || room.People[1].ID != 2 {
		t.Fatalf("add person: %+v", room.People)
	}

	if err := c.RemovePerson(1); err != nil {
		t.Fatal(err)
	}
	room = c.Room()
	if len(room.People) != 1 || room.People[0].Name != "Guest" {
		t.Errorf("remove person: %+v", room.People)
	}
}

func TestController_ServerSnapshotOverwritesReplica(t *testing.T) {
	_, srv := newFakeServer()
	defer srv.Close()

	var seen atomic.Pointer[Room]
	c := NewController(NewClient(srv.URL), "room1",
		WithOnChange(func(r Room) { seen.Store(&r) }))
	defer c.Close()

	if _, err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	c.applyServerRoom(Room{
		ID:     "room1",
		Range:  DateRange{Start: "2025-08-01", End: "2025-08-10"},
		People: []Person{{ID: 3, Name: "Michelle"}},
	})

	room := c.Room()
	if room.Range.Start != "2025-08-01" || room.People[0].Name != "Michelle" {
		t.Errorf("snapshot not applied: %+v", room)
	}
	if got := seen.Load(); got == nil || got.People[0].Name != "Michelle" {
		t.Error("onChange callback did not fire with new state")
	}
}
