// Package service implements the business logic between HTTP handlers and storage.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/whenworksapp/whenworks-server/internal/availability"
	"github.com/whenworksapp/whenworks-server/internal/config"
	"github.com/whenworksapp/whenworks-server/internal/dateutil"
	"github.com/whenworksapp/whenworks-server/internal/domain"
	domainerrors "github.com/whenworksapp/whenworks-server/internal/errors"
	"github.com/whenworksapp/whenworks-server/internal/export"
	"github.com/whenworksapp/whenworks-server/internal/id"
	"github.com/whenworksapp/whenworks-server/internal/store"
	"github.com/whenworksapp/whenworks-server/internal/validation"
)

// RoomService handles business logic for rooms and their availability.
type RoomService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
	config    *config.Config
}

// NewRoomService creates a new room service.
func NewRoomService(store *store.Store, validator *validation.Validator, logger *slog.Logger, config *config.Config) *RoomService {
	return &RoomService{
		store:     store,
		validator: validator,
		logger:    logger,
		config:    config,
	}
}

// BootstrapResult is the outcome of opening a room by (possibly empty) id.
type BootstrapResult struct {
	Room    *domain.Room
	Created bool
}

// Bootstrap opens the room with the given id, minting a fresh id when none is
// supplied and creating default state when the room does not exist yet.
// Existing rooms are returned untouched so joining never clobbers state.
func (s *RoomService) Bootstrap(ctx context.Context, roomID string) (*BootstrapResult, error) {
	if roomID == "" {
		minted, err := id.NewRoomID()
		if err != nil {
			return nil, fmt.Errorf("mint room id: %w", err)
		}
		roomID = minted
	}

	room, created, err := s.store.EnsureRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to bootstrap room: %w", err)
	}

	if s.logger != nil && created {
		s.logger.Info("Room bootstrapped",
			"room_id", room.ID,
			"range_start", room.Range.Start,
			"range_end", room.Range.End,
		)
	}

	return &BootstrapResult{Room: room, Created: created}, nil
}

// GetRoom retrieves a room by id.
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			return nil, domainerrors.NotFoundf("room %q not found", roomID).WithCause(err)
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

// rangePatch is the validatable shape of a range update. Both bounds must be
// well-formed date keys; an inverted range is allowed and yields an empty
// universe rather than an error.
type rangePatch struct {
	Start string `json:"start" validate:"required,datekey"`
	End   string `json:"end" validate:"required,datekey"`
}

// MergePatch is a client-facing partial room update. Nil fields are left
// unchanged by the merge.
type MergePatch struct {
	Range  *domain.DateRange `json:"range,omitempty"`
	People *[]domain.Person  `json:"people,omitempty"`
}

// MergeRoom validates and applies a partial update, creating the room with
// default state first when it does not exist. Returns the merged room.
func (s *RoomService) MergeRoom(ctx context.Context, roomID string, patch MergePatch) (*domain.Room, error) {
	if roomID == "" {
		return nil, domainerrors.Validation("room id is required")
	}

	if patch.Range != nil {
		if err := s.validator.Validate(rangePatch{Start: patch.Range.Start, End: patch.Range.End}); err != nil {
			return nil, err
		}
	}

	if patch.People != nil {
		seen := make(map[int]struct{}, len(*patch.People))
		for _, p := range *patch.People {
			if p.ID <= 0 {
				return nil, domainerrors.Validationf("person id %d must be positive", p.ID)
			}
			if _, dup := seen[p.ID]; dup {
				return nil, domainerrors.Validationf("duplicate person id %d", p.ID)
			}
			seen[p.ID] = struct{}{}
		}
	}

	room, err := s.store.MergeRoom(ctx, roomID, store.RoomPatch{
		Range:  patch.Range,
		People: patch.People,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to merge room: %w", err)
	}

	return room, nil
}

// DateAvailability is the per-date view of who can attend.
type DateAvailability struct {
	Date      string   `json:"date"`
	Weekday   string   `json:"weekday"`
	Available int      `json:"available"`
	Total     int      `json:"total"`
	Common    bool     `json:"common"`
	People    []string `json:"people"`
}

// AvailabilityReport aggregates a room's availability across its range.
type AvailabilityReport struct {
	RoomID      string                    `json:"room_id"`
	Range       domain.DateRange          `json:"range"`
	Dates       []DateAvailability        `json:"dates"`
	CommonDates []string                  `json:"common_dates"`
	Ranked      []availability.RankedDate `json:"ranked"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

// Availability computes the availability report for a room.
func (s *RoomService) Availability(ctx context.Context, roomID string) (*AvailabilityReport, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	result := availability.Compute(room.Range, room.People)
	universe := room.Range.Universe()

	report := &AvailabilityReport{
		RoomID:      room.ID,
		Range:       room.Range,
		Dates:       make([]DateAvailability, 0, len(universe)),
		CommonDates: make([]string, 0, len(result.CommonDates)),
		Ranked:      availability.Ranked(result.CountsPerDate),
		GeneratedAt: time.Now(),
	}

	for _, date := range universe {
		_, common := result.CommonDates[date]
		people := make([]string, 0, len(room.People))
		for _, p := range room.People {
			if _, free := result.PerPerson[p.ID][date]; free {
				people = append(people, p.Name)
			}
		}
		report.Dates = append(report.Dates, DateAvailability{
			Date:      date,
			Weekday:   dateutil.Weekday(date),
			Available: result.CountsPerDate[date],
			Total:     len(room.People),
			Common:    common,
			People:    people,
		})
		if common {
			report.CommonDates = append(report.CommonDates, date)
		}
	}

	return report, nil
}

// ExportCSV renders the room's participants and date sets as CSV.
func (s *RoomService) ExportCSV(ctx context.Context, roomID string) ([]byte, string, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, "", err
	}

	data, err := export.RoomCSV(room)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render csv: %w", err)
	}

	return data, export.CSVFilename(room), nil
}

// ExportICS renders the room's common dates as an iCalendar document.
func (s *RoomService) ExportICS(ctx context.Context, roomID string) (string, string, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return "", "", err
	}

	text, err := export.RoomICS(room)
	if err != nil {
		return "", "", fmt.Errorf("failed to render ics: %w", err)
	}

	return text, export.ICSFilename(room), nil
}
