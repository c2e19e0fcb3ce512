package roomsync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultDebounce is how long the controller waits after the last edit
// before writing to the server. Rapid edits inside the window collapse into
// one merge-write.
const DefaultDebounce = 250 * time.Millisecond

// Controller keeps a local replica of one room. Edits apply locally first,
// then a debounced full snapshot is merged to the server. Incoming server
// snapshots overwrite the replica; the server's copy is authoritative.
type Controller struct {
	client   *Client
	roomID   string
	debounce time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	room  Room
	ready bool
	timer *time.Timer

	readyCh   chan struct{}
	readyOnce sync.Once

	saveTimeout time.Duration
	onChange    func(Room)
	onSaveError func(error)
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) ControllerOption {
	return func(c *Controller) { c.debounce = d }
}

// WithOnChange registers a callback invoked with the new state after a
// server snapshot is applied. Called without the controller lock held.
func WithOnChange(fn func(Room)) ControllerOption {
	return func(c *Controller) { c.onChange = fn }
}

// WithOnSaveError registers a callback for failed debounced saves.
func WithOnSaveError(fn func(error)) ControllerOption {
	return func(c *Controller) { c.onSaveError = fn }
}

// WithControllerLogger sets a logger for save diagnostics.
func WithControllerLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = logger }
}

// NewController creates a controller for one room.
func NewController(client *Client, roomID string, opts ...ControllerOption) *Controller {
	c := &Controller{
		client:      client,
		roomID:      roomID,
		debounce:    DefaultDebounce,
		saveTimeout: 10 * time.Second,
		readyCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start bootstraps the room from the server and marks the controller ready.
// Until ready, edits are rejected so a fresh client can never clobber state
// it has not seen.
func (c *Controller) Start(ctx context.Context) (Room, error) {
	room, _, err := c.client.Bootstrap(ctx, c.roomID)
	if err != nil {
		return Room{}, fmt.Errorf("bootstrap room: %w", err)
	}

	c.mu.Lock()
	c.room = *room
	c.roomID = room.ID
	c.ready = true
	c.mu.Unlock()
	c.readyOnce.Do(func() { close(c.readyCh) })

	return *room, nil
}

// Ready returns a channel that closes once the controller holds server
// state, either from a completed Start or the first applied snapshot.
// Rendering and edits should wait on it.
func (c *Controller) Ready() <-chan struct{} {
	return c.readyCh
}

// ErrNotReady is returned for edits made before Start has completed.
var ErrNotReady = fmt.Errorf("roomsync: controller not ready")

// Room returns a copy of the current replica.
func (c *Controller) Room() Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	room := c.room
	room.People = clonePeople(c.room.People)
	return room
}

// RoomID returns the id of the room this controller edits.
func (c *Controller) RoomID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomID
}

// SetRange replaces the room's date range and schedules a save.
func (c *Controller) SetRange(rng DateRange) error {
	return c.edit(func(room *Room) {
		room.Range = rng
	})
}

// SetPersonName renames a participant and schedules a save.
func (c *Controller) SetPersonName(personID int, name string) error {
	return c.edit(func(room *Room) {
		for i := range room.People {
			if room.People[i].ID == personID {
				room.People[i].Name = name
				return
			}
		}
	})
}

// SetPersonBlocks replaces a participant's blocked date text and schedules a save.
func (c *Controller) SetPersonBlocks(personID int, blocks string) error {
	return c.edit(func(room *Room) {
		for i := range room.People {
			if room.People[i].ID == personID {
				room.People[i].Blocks = blocks
				return
			}
		}
	})
}

// SetPersonWants replaces a participant's wanted date text and schedules a save.
func (c *Controller) SetPersonWants(personID int, wants string) error {
	return c.edit(func(room *Room) {
		for i := range room.People {
			if room.People[i].ID == personID {
				room.People[i].Wants = wants
				return
			}
		}
	})
}

// AddPerson appends a participant with the smallest free positive id and
// schedules a save.
func (c *Controller) AddPerson(name string) error {
	return c.edit(func(room *Room) {
		used := make(map[int]struct{}, len(room.People))
		for _, p := range room.People {
			used[p.ID] = struct{}{}
		}
		id := 1
		for {
			if _, taken := used[id]; !taken {
				break
			}
			id++
		}
		room.People = append(room.People, Person{ID: id, Name: name, Mode: "block"})
	})
}

// RemovePerson drops a participant and schedules a save. Unknown ids are a
// no-op but still schedule a save of the unchanged state.
func (c *Controller) RemovePerson(personID int) error {
	return c.edit(func(room *Room) {
		people := room.People[:0]
		for _, p := range room.People {
			if p.ID != personID {
				people = append(people, p)
			}
		}
		room.People = people
	})
}

// ScheduleSave replaces the replica with room and schedules a debounced
// merge-write of the full state. For callers that keep their own room state
// instead of using the field-level setters.
func (c *Controller) ScheduleSave(room Room) error {
	return c.edit(func(r *Room) {
		*r = room
		r.People = clonePeople(room.People)
	})
}

// edit applies fn to the replica and resets the debounce timer.
func (c *Controller) edit(fn func(*Room)) error {
	c.mu.Lock()
	if !c.ready {
		c.mu.Unlock()
		return ErrNotReady
	}
	c.room.People = clonePeople(c.room.People)
	fn(&c.room)

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, c.save)
	c.mu.Unlock()
	return nil
}

// save pushes the full current state as one merge-write.
func (c *Controller) save() {
	ctx, cancel := context.WithTimeout(context.Background(), c.saveTimeout)
	defer cancel()

	if err := c.Flush(ctx); err != nil {
		if c.logger != nil {
			c.logger.Warn("debounced save failed", "room_id", c.RoomID(), "error", err)
		}
		if c.onSaveError != nil {
			c.onSaveError(err)
		}
	}
}

// Flush writes the current state immediately, canceling any pending
// debounced save.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	if !c.ready {
		c.mu.Unlock()
		return ErrNotReady
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	rng := c.room.Range
	people := clonePeople(c.room.People)
	roomID := c.roomID
	c.mu.Unlock()

	_, err := c.client.Merge(ctx, roomID, Snapshot{Range: &rng, People: &people})
	return err
}

// Listen consumes the room's event stream and applies server snapshots to
// the replica until the context is canceled or the stream closes.
func (c *Controller) Listen(ctx context.Context) error {
	events, err := c.client.Subscribe(ctx, c.RoomID())
	if err != nil {
		return err
	}

	for event := range events {
		if event.Room == nil {
			continue
		}
		c.applyServerRoom(*event.Room)
	}
	return ctx.Err()
}

// applyServerRoom overwrites the replica with the server's copy.
func (c *Controller) applyServerRoom(room Room) {
	c.mu.Lock()
	c.room = ApplySnapshot(c.room, Snapshot{Range: &room.Range, People: &room.People})
	c.ready = true
	snapshot := c.room
	snapshot.People = clonePeople(c.room.People)
	onChange := c.onChange
	c.mu.Unlock()
	c.readyOnce.Do(func() { close(c.readyCh) })

	if onChange != nil {
		onChange(snapshot)
	}
}

// Close cancels any pending debounced save without flushing it.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
