package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hagigaapp/hagiga-server/internal/domain"
	"github.com/hagigaapp/hagiga-server/internal/service"
)

func (s *Server) registerSeatingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createTable",
		Method:      http.MethodPost,
		Path:        "/api/v1/events/{eventID}/tables",
		Summary:     "Create table",
		Description: "Adds a seating table to the event's floor plan",
		Tags:        []string{"Seating"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateTable)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTables",
		Method:      http.MethodGet,
		Path:        "/api/v1/events/{eventID}/tables",
		Summary:     "List tables",
		Description: "Returns the event's seating tables",
		Tags:        []string{"Seating"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTables)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTable",
		Method:      http.MethodPatch,
		Path:        "/api/v1/events/{eventID}/tables/{tableID}",
		Summary:     "Update table",
		Description: "Applies partial changes to a table's layout",
		Tags:        []string{"Seating"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateTable)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTable",
		Method:      http.MethodDelete,
		Path:        "/api/v1/events/{eventID}/tables/{tableID}",
		Summary:     "Delete table",
		Description: "Removes a table and unseats everyone at it",
		Tags:        []string{"Seating"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTable)

	huma.Register(s.api, huma.Operation{
		OperationID: "assignSeat",
		Method:      http.MethodPost,
		Path:        "/api/v1/events/{eventID}/tables/{tableID}/assign",
		Summary:     "Assign seat",
		Description: "Seats a guest at a specific seat of the table",
		Tags:        []string{"Seating"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAssignSeat)

	huma.Register(s.api, huma.Operation{
		OperationID: "unassignSeat",
		Method:      http.MethodPost,
		Path:        "/api/v1/events/{eventID}/tables/{tableID}/unassign",
		Summary:     "Unassign seat",
		Description: "Removes a guest from their seat at the table",
		Tags:        []string{"Seating"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnassignSeat)
}

// === DTOs ===

// CreateTableInput wraps the create table request for Huma.
type CreateTableInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	Body          service.CreateTableRequest
}

// UpdateTableInput wraps the update table request for Huma.
type UpdateTableInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	TableID       string `path:"tableID" doc:"Table ID"`
	Body          service.UpdateTableRequest
}

// TableInput contains parameters for table-scoped requests.
type TableInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	TableID       string `path:"tableID" doc:"Table ID"`
}

// AssignSeatInput wraps the seat assignment request for Huma.
type AssignSeatInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	TableID       string `path:"tableID" doc:"Table ID"`
	Body          service.AssignSeatRequest
}

// UnassignSeatInput wraps the seat removal request for Huma.
type UnassignSeatInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	TableID       string `path:"tableID" doc:"Table ID"`
	Body          service.UnassignSeatRequest
}

// TableOutput wraps a single table for Huma.
type TableOutput struct {
	Body *domain.Table
}

// ListTablesResponse contains an event's tables.
type ListTablesResponse struct {
	Tables []*domain.Table `json:"tables" doc:"Seating tables"`
}

// ListTablesOutput wraps the list tables response for Huma.
type ListTablesOutput struct {
	Body ListTablesResponse
}

// === Handlers ===

func (s *Server) handleCreateTable(ctx context.Context, input *CreateTableInput) (*TableOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	table, err := s.services.Seating.CreateTable(ctx, userID, input.EventID, input.Body)
	if err != nil {
		return nil, err
	}

	return &TableOutput{Body: table}, nil
}

func (s *Server) handleListTables(ctx context.Context, input *EventInput) (*ListTablesOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	tables, err := s.services.Seating.ListTables(ctx, userID, input.EventID)
	if err != nil {
		return nil, err
	}

	return &ListTablesOutput{Body: ListTablesResponse{Tables: tables}}, nil
}

func (s *Server) handleUpdateTable(ctx context.Context, input *UpdateTableInput) (*TableOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	table, err := s.services.Seating.UpdateTable(ctx, userID, input.EventID, input.TableID, input.Body)
	if err != nil {
		return nil, err
	}

	return &TableOutput{Body: table}, nil
}

func (s *Server) handleDeleteTable(ctx context.Context, input *TableInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Seating.DeleteTable(ctx, userID, input.EventID, input.TableID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Table deleted"}}, nil
}

func (s *Server) handleAssignSeat(ctx context.Context, input *AssignSeatInput) (*ParticipantOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Seating.Assign(ctx, userID, input.EventID, input.TableID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ParticipantOutput{Body: p}, nil
}

func (s *Server) handleUnassignSeat(ctx context.Context, input *UnassignSeatInput) (*ParticipantOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Seating.Unassign(ctx, userID, input.EventID, input.TableID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ParticipantOutput{Body: p}, nil
}
