package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whenworksapp/whenworks-server/internal/config"
	"github.com/whenworksapp/whenworks-server/internal/domain"
	domainerrors "github.com/whenworksapp/whenworks-server/internal/errors"
	"github.com/whenworksapp/whenworks-server/internal/store"
	"github.com/whenworksapp/whenworks-server/internal/validation"
)

// setupTestService creates a room service with a temporary store for testing.
func setupTestService(t *testing.T) (*RoomService, func()) { //nolint:gocritic // Test helper return values are clear from context
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "whenworks-service-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := store.New(dbPath, nil, store.NewNoopEmitter())
	require.NoError(t, err)

	cfg := &config.Config{
		Room: config.RoomConfig{DefaultRangeDays: 30},
	}

	service := NewRoomService(s, validation.New(), nil, cfg)

	cleanup := func() {
		_ = s.Close()            //nolint:errcheck // Test cleanup
		_ = os.RemoveAll(tmpDir) //nolint:errcheck // Test cleanup
	}

	return service, cleanup
}

func TestRoomService_Bootstrap_MintsID(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	result, err := service.Bootstrap(ctx, "")
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.NotEmpty(t, result.Room.ID)
	assert.Len(t, result.Room.People, 7)
}

func TestRoomService_Bootstrap_NeverClobbersExistingRoom(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	first, err := service.Bootstrap(ctx, "shared1")
	require.NoError(t, err)
	require.True(t, first.Created)

	// Someone edits the room.
	people := []domain.Person{{ID: 1, Name: "Edited", Blocks: "2025-06-02"}}
	_, err = service.MergeRoom(ctx, "shared1", MergePatch{People: &people})
	require.NoError(t, err)

	// A second client joining the same room sees the edits, not defaults.
	second, err := service.Bootstrap(ctx, "shared1")
	require.NoError(t, err)
	assert.False(t, second.Created)
	require.Len(t, second.Room.People, 1)
	assert.Equal(t, "Edited", second.Room.People[0].Name)
}

func TestRoomService_GetRoom_NotFound(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.GetRoom(context.Background(), "missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRoomService_MergeRoom_RejectsBadRange(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	rng := domain.DateRange{Start: "June 1", End: "2025-06-10"}
	_, err := service.MergeRoom(ctx, "room1", MergePatch{Range: &rng})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestRoomService_MergeRoom_RejectsDuplicatePersonIDs(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	people := []domain.Person{{ID: 1, Name: "A"}, {ID: 1, Name: "B"}}
	_, err := service.MergeRoom(ctx, "room1", MergePatch{People: &people})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestRoomService_MergeRoom_ToleratesMalformedDateText(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	// Malformed date tokens are stored as-is; parsing drops them later.
	people := []domain.Person{{ID: 1, Name: "A", Blocks: "2025-06-02 garbage"}}
	room, err := service.MergeRoom(ctx, "room1", MergePatch{People: &people})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02 garbage", room.People[0].Blocks)
}

func TestRoomService_Availability(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	rng := domain.DateRange{Start: "2025-06-01", End: "2025-06-03"}
	people := []domain.Person{
		{ID: 1, Name: "Iris", Blocks: "2025-06-02"},
		{ID: 2, Name: "Olip"},
	}
	_, err := service.MergeRoom(ctx, "avail1", MergePatch{Range: &rng, People: &people})
	require.NoError(t, err)

	report, err := service.Availability(ctx, "avail1")
	require.NoError(t, err)

	require.Len(t, report.Dates, 3)
	assert.Equal(t, 2, report.Dates[0].Available)
	assert.Equal(t, 1, report.Dates[1].Available)
	assert.True(t, report.Dates[0].Common)
	assert.False(t, report.Dates[1].Common)
	assert.Equal(t, []string{"2025-06-01", "2025-06-03"}, report.CommonDates)
	assert.Equal(t, []string{"Olip"}, report.Dates[1].People)
	assert.ElementsMatch(t, []string{"Iris", "Olip"}, report.Dates[0].People)

	// Ranked: full-count dates first, ties by date ascending.
	require.Len(t, report.Ranked, 3)
	assert.Equal(t, "2025-06-01", report.Ranked[0].Date)
	assert.Equal(t, 2, report.Ranked[0].Count)
	assert.Equal(t, "2025-06-02", report.Ranked[2].Date)

	assert.False(t, report.GeneratedAt.IsZero())
}

func TestRoomService_ExportCSV(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	_, err := service.Bootstrap(ctx, "csv1")
	require.NoError(t, err)

	data, filename, err := service.ExportCSV(ctx, "csv1")
	require.NoError(t, err)
	assert.Equal(t, "whenworks-csv1.csv", filename)
	assert.Contains(t, string(data), "이름")
}

func TestRoomService_ExportICS(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	rng := domain.DateRange{Start: "2025-06-01", End: "2025-06-02"}
	people := []domain.Person{{ID: 1, Name: "Iris"}}
	_, err := service.MergeRoom(ctx, "ics1", MergePatch{Range: &rng, People: &people})
	require.NoError(t, err)

	text, filename, err := service.ExportICS(ctx, "ics1")
	require.NoError(t, err)
	assert.Equal(t, "whenworks-ics1.ics", filename)
	assert.Contains(t, text, "BEGIN:VCALENDAR")
	assert.Contains(t, text, "2025-06-01")
}

func TestRoomService_MergeRoom_KeepsCreatedAt(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	first, err := service.Bootstrap(ctx, "ts1")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	rng := domain.DateRange{Start: "2025-06-01", End: "2025-06-02"}
	merged, err := service.MergeRoom(ctx, "ts1", MergePatch{Range: &rng})
	require.NoError(t, err)

	assert.Equal(t, first.Room.CreatedAt.Unix(), merged.CreatedAt.Unix())
	assert.True(t, merged.UpdatedAt.After(first.Room.UpdatedAt))
}
