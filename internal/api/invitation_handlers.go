package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hagigaapp/hagiga-server/internal/domain"
	"github.com/hagigaapp/hagiga-server/internal/service"
)

func (s *Server) registerInvitationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createInvitation",
		Method:      http.MethodPost,
		Path:        "/api/v1/events/{eventID}/invitations",
		Summary:     "Create invitation",
		Description: "Creates an invitation with optional media attachment",
		Tags:        []string{"Invitations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateInvitation)

	huma.Register(s.api, huma.Operation{
		OperationID: "listInvitations",
		Method:      http.MethodGet,
		Path:        "/api/v1/events/{eventID}/invitations",
		Summary:     "List invitations",
		Description: "Returns the event's invitations",
		Tags:        []string{"Invitations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListInvitations)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateInvitation",
		Method:      http.MethodPatch,
		Path:        "/api/v1/events/{eventID}/invitations/{invitationID}",
		Summary:     "Update invitation",
		Description: "Applies partial changes to an invitation",
		Tags:        []string{"Invitations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateInvitation)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteInvitation",
		Method:      http.MethodDelete,
		Path:        "/api/v1/events/{eventID}/invitations/{invitationID}",
		Summary:     "Delete invitation",
		Description: "Deletes an invitation",
		Tags:        []string{"Invitations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteInvitation)
}

// === DTOs ===

// CreateInvitationInput wraps the create invitation request for Huma.
type CreateInvitationInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	Body          service.CreateInvitationRequest
}

// UpdateInvitationInput wraps the update invitation request for Huma.
type UpdateInvitationInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	InvitationID  string `path:"invitationID" doc:"Invitation ID"`
	Body          service.UpdateInvitationRequest
}

// InvitationInput contains parameters for invitation-scoped requests.
type InvitationInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	InvitationID  string `path:"invitationID" doc:"Invitation ID"`
}

// InvitationOutput wraps a single invitation for Huma.
type InvitationOutput struct {
	Body *domain.Invitation
}

// ListInvitationsResponse contains an event's invitations.
type ListInvitationsResponse struct {
	Invitations []*domain.Invitation `json:"invitations" doc:"Invitations"`
}

// ListInvitationsOutput wraps the list invitations response for Huma.
type ListInvitationsOutput struct {
	Body ListInvitationsResponse
}

// === Handlers ===

func (s *Server) handleCreateInvitation(ctx context.Context, input *CreateInvitationInput) (*InvitationOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	inv, err := s.services.Invitation.Create(ctx, userID, input.EventID, input.Body)
	if err != nil {
		return nil, err
	}

	return &InvitationOutput{Body: inv}, nil
}

func (s *Server) handleListInvitations(ctx context.Context, input *EventInput) (*ListInvitationsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Invitation.List(ctx, userID, input.EventID)
	if err != nil {
		return nil, err
	}

	return &ListInvitationsOutput{Body: ListInvitationsResponse{Invitations: items}}, nil
}

func (s *Server) handleUpdateInvitation(ctx context.Context, input *UpdateInvitationInput) (*InvitationOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	inv, err := s.services.Invitation.Update(ctx, userID, input.EventID, input.InvitationID, input.Body)
	if err != nil {
		return nil, err
	}

	return &InvitationOutput{Body: inv}, nil
}

func (s *Server) handleDeleteInvitation(ctx context.Context, input *InvitationInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Invitation.Delete(ctx, userID, input.EventID, input.InvitationID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Invitation deleted"}}, nil
}
