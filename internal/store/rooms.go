package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/whenworksapp/whenworks-server/internal/domain"
	"github.com/whenworksapp/whenworks-server/internal/sse"
)

var (
	// ErrRoomNotFound is returned when the requested room does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomAlreadyExists is returned when creating a room whose id is taken.
	ErrRoomAlreadyExists = errors.New("room already exists")
)

// mergeRetries bounds optimistic retry on write conflicts between
// concurrent merges of the same room.
const mergeRetries = 3

func roomKey(id string) []byte {
	return []byte("room:" + id)
}

// RoomPatch is a partial room update. Nil fields are left unchanged, matching
// the merge-write semantics clients rely on: a patch carrying only a range
// never clobbers the people list, and vice versa.
type RoomPatch struct {
	Range  *domain.DateRange `json:"range,omitempty"`
	People *[]domain.Person  `json:"people,omitempty"`
}

// GetRoom retrieves a room by id.
// Returns ErrRoomNotFound if the room does not exist.
func (s *Store) GetRoom(_ context.Context, id string) (*domain.Room, error) {
	var room domain.Room

	err := s.get(roomKey(id), &room)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return &room, nil
}

// CreateRoom persists a new room.
// Returns ErrRoomAlreadyExists if the id is already taken.
func (s *Store) CreateRoom(_ context.Context, room *domain.Room) error {
	exists, err := s.exists(roomKey(room.ID))
	if err != nil {
		return fmt.Errorf("failed to check room existence: %w", err)
	}
	if exists {
		return ErrRoomAlreadyExists
	}

	now := time.Now()
	if room.CreatedAt.IsZero() {
		room.CreatedAt = now
	}
	room.UpdatedAt = now

	if err := s.set(roomKey(room.ID), room); err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Room created",
			"id", room.ID,
			"people", len(room.People),
		)
	}

	s.eventEmitter.Emit(sse.NewRoomCreatedEvent(room))
	return nil
}

// EnsureRoom returns the room with the given id, creating it with default
// state when absent. The second return reports whether a room was created.
func (s *Store) EnsureRoom(ctx context.Context, id string) (*domain.Room, bool, error) {
	room, err := s.GetRoom(ctx, id)
	if err == nil {
		return room, false, nil
	}
	if !errors.Is(err, ErrRoomNotFound) {
		return nil, false, err
	}

	fresh := domain.DefaultRoomWithDays(id, time.Now(), s.defaultRangeDays)
	if err := s.CreateRoom(ctx, &fresh); err != nil {
		// Lost a create race: someone else made the room first.
		if errors.Is(err, ErrRoomAlreadyExists) {
			room, err = s.GetRoom(ctx, id)
			return room, false, err
		}
		return nil, false, err
	}

	return &fresh, true, nil
}

// MergeRoom applies a partial update to a room, creating it with default
// state first when absent. Merges are serialized per key by the underlying
// transaction; a conflicting concurrent merge is retried so the last write
// wins rather than erroring.
func (s *Store) MergeRoom(ctx context.Context, id string, patch RoomPatch) (*domain.Room, error) {
	var (
		merged  domain.Room
		created bool
	)

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		created = false
		err := s.db.Update(func(txn *badger.Txn) error {
			var room domain.Room

			item, err := txn.Get(roomKey(id))
			switch {
			case errors.Is(err, badger.ErrKeyNotFound):
				room = domain.DefaultRoomWithDays(id, time.Now(), s.defaultRangeDays)
				created = true
			case err != nil:
				return fmt.Errorf("failed to get room: %w", err)
			default:
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &room)
				}); err != nil {
					return fmt.Errorf("failed to unmarshal room: %w", err)
				}
			}

			if patch.Range != nil {
				room.Range = *patch.Range
			}
			if patch.People != nil {
				room.People = *patch.People
			}
			room.UpdatedAt = time.Now()

			data, err := json.Marshal(&room)
			if err != nil {
				return fmt.Errorf("failed to marshal room: %w", err)
			}
			if err := txn.Set(roomKey(id), data); err != nil {
				return fmt.Errorf("failed to set room: %w", err)
			}

			merged = room
			return nil
		})

		if errors.Is(err, badger.ErrConflict) && attempt < mergeRetries {
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}

	if s.logger != nil {
		s.logger.Debug("Room merged",
			"id", id,
			"created", created,
			"range_changed", patch.Range != nil,
			"people_changed", patch.People != nil,
		)
	}

	if created {
		s.eventEmitter.Emit(sse.NewRoomCreatedEvent(&merged))
	}
	s.eventEmitter.Emit(sse.NewRoomUpdatedEvent(&merged))

	return &merged, nil
}

// DeleteRoom removes a room. Deleting an unknown id is a no-op.
func (s *Store) DeleteRoom(_ context.Context, id string) error {
	if err := s.delete(roomKey(id)); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}

// ListRooms returns an iterator over all rooms.
func (s *Store) ListRooms(ctx context.Context) iter.Seq2[*domain.Room, error] {
	return func(yield func(*domain.Room, error) bool) {
		prefix := []byte("room:")
		s.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				var room domain.Room
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &room)
				})

				if err != nil {
					yield(nil, err)
					return err
				}

				if !yield(&room, nil) {
					return nil
				}
			}

			return nil
		})
	}
}
