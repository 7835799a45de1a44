package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hagigaapp/hagiga-server/internal/domain"
	"github.com/hagigaapp/hagiga-server/internal/service"
)

func (s *Server) registerParticipantRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addParticipants",
		Method:      http.MethodPost,
		Path:        "/api/v1/events/{eventID}/participants",
		Summary:     "Add participants",
		Description: "Adds guests to the event's list. Items are processed independently; each reports its own outcome.",
		Tags:        []string{"Participants"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddParticipants)

	huma.Register(s.api, huma.Operation{
		OperationID: "listParticipants",
		Method:      http.MethodGet,
		Path:        "/api/v1/events/{eventID}/participants",
		Summary:     "List participants",
		Description: "Returns a filtered page of the event's guest list",
		Tags:        []string{"Participants"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListParticipants)

	huma.Register(s.api, huma.Operation{
		OperationID: "getParticipant",
		Method:      http.MethodGet,
		Path:        "/api/v1/events/{eventID}/participants/{participantID}",
		Summary:     "Get participant",
		Description: "Returns one guest from the event's list",
		Tags:        []string{"Participants"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetParticipant)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateParticipant",
		Method:      http.MethodPatch,
		Path:        "/api/v1/events/{eventID}/participants/{participantID}",
		Summary:     "Update participant",
		Description: "Applies partial changes to a guest, including RSVP status",
		Tags:        []string{"Participants"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateParticipant)

	huma.Register(s.api, huma.Operation{
		OperationID: "checkInParticipant",
		Method:      http.MethodPost,
		Path:        "/api/v1/events/{eventID}/participants/{participantID}/checkin",
		Summary:     "Check in participant",
		Description: "Marks a guest as arrived at the event",
		Tags:        []string{"Participants"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCheckInParticipant)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteParticipant",
		Method:      http.MethodDelete,
		Path:        "/api/v1/events/{eventID}/participants/{participantID}",
		Summary:     "Delete participant",
		Description: "Removes a guest from the event's list",
		Tags:        []string{"Participants"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteParticipant)
}

// === DTOs ===

// AddParticipantsRequest is the request body for bulk guest addition.
type AddParticipantsRequest struct {
	Participants []service.AddParticipantItem `json:"participants" doc:"Guests to add"`
}

// AddParticipantsInput wraps the add participants request for Huma.
type AddParticipantsInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	Body          AddParticipantsRequest
}

// AddParticipantsResponse reports per-item outcomes.
type AddParticipantsResponse struct {
	Results []service.AddParticipantResult `json:"results" doc:"Outcome per submitted guest"`
}

// AddParticipantsOutput wraps the add participants response for Huma.
type AddParticipantsOutput struct {
	Body AddParticipantsResponse
}

// ListParticipantsInput contains filter and pagination parameters.
type ListParticipantsInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	Status        string `query:"status" doc:"Filter by RSVP status"`
	Tag           string `query:"tag" doc:"Filter by tag"`
	Limit         int    `query:"limit" doc:"Page size"`
	Cursor        string `query:"cursor" doc:"Pagination cursor from a previous page"`
}

// ListParticipantsResponse contains one page of the guest list.
type ListParticipantsResponse struct {
	Participants []*domain.Participant `json:"participants" doc:"Guests in this page"`
	NextCursor   string                `json:"next_cursor,omitempty" doc:"Cursor for the next page"`
	HasMore      bool                  `json:"has_more" doc:"Whether more pages exist"`
}

// ListParticipantsOutput wraps the list participants response for Huma.
type ListParticipantsOutput struct {
	Body ListParticipantsResponse
}

// ParticipantInput contains parameters for participant-scoped requests.
type ParticipantInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	ParticipantID string `path:"participantID" doc:"Participant ID"`
}

// UpdateParticipantInput wraps the update participant request for Huma.
type UpdateParticipantInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	ParticipantID string `path:"participantID" doc:"Participant ID"`
	Body          service.UpdateParticipantRequest
}

// ParticipantOutput wraps a single participant for Huma.
type ParticipantOutput struct {
	Body *domain.Participant
}

// === Handlers ===

func (s *Server) handleAddParticipants(ctx context.Context, input *AddParticipantsInput) (*AddParticipantsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	results, err := s.services.Participant.BulkAdd(ctx, userID, input.EventID, input.Body.Participants)
	if err != nil {
		return nil, err
	}

	return &AddParticipantsOutput{Body: AddParticipantsResponse{Results: results}}, nil
}

func (s *Server) handleListParticipants(ctx context.Context, input *ListParticipantsInput) (*ListParticipantsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Participant.List(ctx, userID, input.EventID, service.ListParticipantsRequest{
		Status: domain.ParticipantStatus(input.Status),
		Tag:    input.Tag,
		Limit:  input.Limit,
		Cursor: input.Cursor,
	})
	if err != nil {
		return nil, err
	}

	return &ListParticipantsOutput{
		Body: ListParticipantsResponse{
			Participants: page.Items,
			NextCursor:   page.NextCursor,
			HasMore:      page.HasMore,
		},
	}, nil
}

func (s *Server) handleGetParticipant(ctx context.Context, input *ParticipantInput) (*ParticipantOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Participant.Get(ctx, userID, input.EventID, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	return &ParticipantOutput{Body: p}, nil
}

func (s *Server) handleUpdateParticipant(ctx context.Context, input *UpdateParticipantInput) (*ParticipantOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Participant.Update(ctx, userID, input.EventID, input.ParticipantID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ParticipantOutput{Body: p}, nil
}

func (s *Server) handleCheckInParticipant(ctx context.Context, input *ParticipantInput) (*ParticipantOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Participant.CheckIn(ctx, userID, input.EventID, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	return &ParticipantOutput{Body: p}, nil
}

func (s *Server) handleDeleteParticipant(ctx context.Context, input *ParticipantInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Participant.Delete(ctx, userID, input.EventID, input.ParticipantID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Participant deleted"}}, nil
}
