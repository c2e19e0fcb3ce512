package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/whenworksapp/whenworks-server/internal/domain"
	domainerrors "github.com/whenworksapp/whenworks-server/internal/errors"
	"github.com/whenworksapp/whenworks-server/internal/service"
)

func (s *Server) registerRoomRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "bootstrapRoom",
		Method:        http.MethodPost,
		Path:          "/api/v1/rooms",
		Summary:       "Open or create a room",
		Description:   "Opens the room with the given id, minting a fresh id when none is supplied and creating default state when the room does not exist yet. Existing rooms are returned untouched.",
		Tags:          []string{"Rooms"},
		DefaultStatus: http.StatusOK,
	}, s.handleBootstrapRoom)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRoom",
		Method:      http.MethodGet,
		Path:        "/api/v1/rooms/{id}",
		Summary:     "Get a room",
		Tags:        []string{"Rooms"},
	}, s.handleGetRoom)

	huma.Register(s.api, huma.Operation{
		OperationID: "mergeRoom",
		Method:      http.MethodPatch,
		Path:        "/api/v1/rooms/{id}",
		Summary:     "Merge a partial room update",
		Description: "Applies a merge-write: fields absent from the body are left unchanged. Creates the room with default state first when it does not exist. Requires an identity token.",
		Tags:        []string{"Rooms"},
	}, s.handleMergeRoom)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRoomAvailability",
		Method:      http.MethodGet,
		Path:        "/api/v1/rooms/{id}/availability",
		Summary:     "Get a room's availability report",
		Tags:        []string{"Rooms"},
	}, s.handleGetAvailability)
}

// === DTOs ===

// BootstrapRoomRequest opens a room, optionally by an existing id.
type BootstrapRoomRequest struct {
	RoomID string `json:"room_id,omitempty" maxLength:"64" doc:"Room id to open. Omit to mint a new one."`
}

// BootstrapRoomInput is the input for the bootstrap endpoint.
type BootstrapRoomInput struct {
	Body BootstrapRoomRequest
}

// BootstrapRoomResponse reports the opened room and whether it was created.
type BootstrapRoomResponse struct {
	Room    *domain.Room `json:"room"`
	Created bool         `json:"created" doc:"True when this call created the room"`
}

// BootstrapRoomOutput wraps the bootstrap response for Huma.
type BootstrapRoomOutput struct {
	Body BootstrapRoomResponse
}

// GetRoomInput identifies a room by path.
type GetRoomInput struct {
	ID string `path:"id" maxLength:"64" doc:"Room id"`
}

// RoomOutput wraps a room document for Huma.
type RoomOutput struct {
	Body *domain.Room
}

// MergeRoomInput carries a partial room update plus the caller's identity token.
type MergeRoomInput struct {
	Authorization string `header:"Authorization" doc:"Bearer identity token"`
	ID            string `path:"id" maxLength:"64" doc:"Room id"`
	Body          service.MergePatch
}

// AvailabilityOutput wraps an availability report for Huma.
type AvailabilityOutput struct {
	Body *service.AvailabilityReport
}

// === Handlers ===

func (s *Server) handleBootstrapRoom(ctx context.Context, input *BootstrapRoomInput) (*BootstrapRoomOutput, error) {
	result, err := s.rooms.Bootstrap(ctx, input.Body.RoomID)
	if err != nil {
		s.logger.Error("Failed to bootstrap room", "room_id", input.Body.RoomID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to open room", err)
	}

	return &BootstrapRoomOutput{
		Body: BootstrapRoomResponse{Room: result.Room, Created: result.Created},
	}, nil
}

func (s *Server) handleGetRoom(ctx context.Context, input *GetRoomInput) (*RoomOutput, error) {
	room, err := s.rooms.GetRoom(ctx, input.ID)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, huma.Error404NotFound("Room not found", err)
		}
		s.logger.Error("Failed to get room", "room_id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to get room", err)
	}

	return &RoomOutput{Body: room}, nil
}

func (s *Server) handleMergeRoom(ctx context.Context, input *MergeRoomInput) (*RoomOutput, error) {
	identityID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if !s.writeLimiter.Allow(identityID) {
		return nil, huma.Error429TooManyRequests("Write rate limit exceeded",
			domainerrors.RateLimited("too many room updates"))
	}

	room, err := s.rooms.MergeRoom(ctx, input.ID, input.Body)
	if err != nil {
		var domainErr *domainerrors.Error
		if domainerrors.As(err, &domainErr) {
			return nil, huma.NewError(domainErr.HTTPStatus(), domainErr.Message, err)
		}
		s.logger.Error("Failed to merge room", "room_id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to update room", err)
	}

	return &RoomOutput{Body: room}, nil
}

func (s *Server) handleGetAvailability(ctx context.Context, input *GetRoomInput) (*AvailabilityOutput, error) {
	report, err := s.rooms.Availability(ctx, input.ID)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, huma.Error404NotFound("Room not found", err)
		}
		s.logger.Error("Failed to compute availability", "room_id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to compute availability", err)
	}

	return &AvailabilityOutput{Body: report}, nil
}
