package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/hagigaapp/hagiga-server/internal/domain"
	"github.com/hagigaapp/hagiga-server/internal/http/response"
)

func (s *Server) registerImportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "importFile",
		Method:        http.MethodPost,
		Path:          "/api/v1/events/{eventID}/imports/file",
		Summary:       "Import guest list file",
		Description:   "Uploads a CSV guest list and starts processing it in the background. Poll the returned job until its status is terminal.",
		Tags:          []string{"Imports"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusAccepted,
	}, s.handleImportFile)

	huma.Register(s.api, huma.Operation{
		OperationID:   "importRows",
		Method:        http.MethodPost,
		Path:          "/api/v1/events/{eventID}/imports/rows",
		Summary:       "Import guest rows",
		Description:   "Starts an import over rows posted as JSON instead of a file upload",
		Tags:          []string{"Imports"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusAccepted,
	}, s.handleImportRows)

	huma.Register(s.api, huma.Operation{
		OperationID: "listImports",
		Method:      http.MethodGet,
		Path:        "/api/v1/events/{eventID}/imports",
		Summary:     "List imports",
		Description: "Returns the event's import jobs, most recent first",
		Tags:        []string{"Imports"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListImports)

	huma.Register(s.api, huma.Operation{
		OperationID: "getImport",
		Method:      http.MethodGet,
		Path:        "/api/v1/events/{eventID}/imports/{jobID}",
		Summary:     "Get import job",
		Description: "Returns an import job for polling, with per-row errors once terminal",
		Tags:        []string{"Imports"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetImport)

	huma.Register(s.api, huma.Operation{
		OperationID:   "retryImport",
		Method:        http.MethodPost,
		Path:          "/api/v1/events/{eventID}/imports/{jobID}/retry",
		Summary:       "Retry failed rows",
		Description:   "Starts a new import job over exactly the failed rows of a finished job",
		Tags:          []string{"Imports"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusAccepted,
	}, s.handleRetryImport)

	// Direct chi route: the error report streams CSV, not JSON.
	s.router.Get("/api/v1/events/{eventID}/imports/{jobID}/errors.csv", s.handleImportErrorReport)
}

// === DTOs ===

// ImportFileInput carries the raw CSV upload.
type ImportFileInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	RawBody       []byte `contentType:"text/csv"`
}

// ImportRowsRequest is the request body for a JSON rows import.
type ImportRowsRequest struct {
	Rows []map[string]string `json:"rows" doc:"Guest rows keyed by column name"`
}

// ImportRowsInput wraps the rows import request for Huma.
type ImportRowsInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	Body          ImportRowsRequest
}

// ImportJobInput contains parameters for job-scoped requests.
type ImportJobInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	JobID         string `path:"jobID" doc:"Import job ID"`
}

// ImportStartedResponse acknowledges an accepted import.
type ImportStartedResponse struct {
	ImportJobID string `json:"import_job_id" doc:"ID of the created import job"`
}

// ImportStartedOutput wraps the import acknowledgement for Huma.
type ImportStartedOutput struct {
	Body ImportStartedResponse
}

// ImportJobOutput wraps a single import job for Huma.
type ImportJobOutput struct {
	Body *domain.ImportJob
}

// ListImportsResponse contains an event's import jobs.
type ListImportsResponse struct {
	Imports []*domain.ImportJob `json:"imports" doc:"Import jobs, most recent first"`
}

// ListImportsOutput wraps the list imports response for Huma.
type ListImportsOutput struct {
	Body ListImportsResponse
}

// === Handlers ===

func (s *Server) handleImportFile(ctx context.Context, input *ImportFileInput) (*ImportStartedOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	job, err := s.services.Import.StartFileImport(ctx, userID, input.EventID, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &ImportStartedOutput{Body: ImportStartedResponse{ImportJobID: job.ID}}, nil
}

func (s *Server) handleImportRows(ctx context.Context, input *ImportRowsInput) (*ImportStartedOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	job, err := s.services.Import.StartRowsImport(ctx, userID, input.EventID, input.Body.Rows)
	if err != nil {
		return nil, err
	}

	return &ImportStartedOutput{Body: ImportStartedResponse{ImportJobID: job.ID}}, nil
}

func (s *Server) handleListImports(ctx context.Context, input *EventInput) (*ListImportsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	jobs, err := s.services.Import.List(ctx, userID, input.EventID)
	if err != nil {
		return nil, err
	}

	return &ListImportsOutput{Body: ListImportsResponse{Imports: jobs}}, nil
}

func (s *Server) handleGetImport(ctx context.Context, input *ImportJobInput) (*ImportJobOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	job, err := s.services.Import.Get(ctx, userID, input.EventID, input.JobID)
	if err != nil {
		return nil, err
	}

	return &ImportJobOutput{Body: job}, nil
}

func (s *Server) handleRetryImport(ctx context.Context, input *ImportJobInput) (*ImportStartedOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	job, err := s.services.Import.Retry(ctx, userID, input.EventID, input.JobID)
	if err != nil {
		return nil, err
	}

	return &ImportStartedOutput{Body: ImportStartedResponse{ImportJobID: job.ID}}, nil
}

// handleImportErrorReport streams a job's failed rows as a downloadable CSV.
func (s *Server) handleImportErrorReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.authenticateRequest(ctx, r.Header.Get("Authorization"))
	if err != nil {
		response.Unauthorized(w, "Invalid or expired token", s.logger)
		return
	}

	eventID := chi.URLParam(r, "eventID")
	jobID := chi.URLParam(r, "jobID")

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="import-errors.csv"`)

	if err := s.services.Import.WriteErrorReport(ctx, w, userID, eventID, jobID); err != nil {
		// Headers may already be written; reset only works if nothing
		// was flushed, which holds for pre-stream failures.
		w.Header().Del("Content-Disposition")
		w.Header().Set("Content-Type", "application/json")
		response.HandleError(w, err, s.logger)
		return
	}
}
