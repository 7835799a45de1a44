package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hagigaapp/hagiga-server/internal/search"
	"github.com/hagigaapp/hagiga-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchParticipants",
		Method:      http.MethodGet,
		Path:        "/api/v1/events/{eventID}/participants/search",
		Summary:     "Search guest list",
		Description: "Full-text search over an event's guests by name or phone, with typo tolerance",
		Tags:        []string{"Participants"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchParticipants)
}

// SearchParticipantsInput contains guest search parameters.
type SearchParticipantsInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	Query         string `query:"q" doc:"Name fragment or phone digits"`
	Status        string `query:"status" doc:"Filter by RSVP status"`
	Tag           string `query:"tag" doc:"Filter by tag"`
	Limit         int    `query:"limit" minimum:"0" maximum:"100" doc:"Max hits to return"`
	Offset        int    `query:"offset" minimum:"0" doc:"Hits to skip"`
	SortBy        string `query:"sort" doc:"Sort order: relevance, name, or recent"`
}

// SearchParticipantsOutput wraps guest search results.
type SearchParticipantsOutput struct {
	Body search.SearchResult
}

func (s *Server) handleSearchParticipants(ctx context.Context, input *SearchParticipantsInput) (*SearchParticipantsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Search.Search(ctx, userID, input.EventID, service.SearchGuestsRequest{
		Query:  input.Query,
		Status: input.Status,
		Tag:    input.Tag,
		Limit:  input.Limit,
		Offset: input.Offset,
		SortBy: input.SortBy,
	})
	if err != nil {
		return nil, err
	}

	return &SearchParticipantsOutput{Body: *result}, nil
}
