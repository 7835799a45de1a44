package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/hagigaapp/hagiga-server/internal/csvimport"
	"github.com/hagigaapp/hagiga-server/internal/domain"
	domainerrors "github.com/hagigaapp/hagiga-server/internal/errors"
	"github.com/hagigaapp/hagiga-server/internal/id"
	"github.com/hagigaapp/hagiga-server/internal/media/files"
	"github.com/hagigaapp/hagiga-server/internal/store"
)

// How many import jobs a listing returns at most.
const importListLimit = 50

// ImportService runs guest list imports: staging the upload, creating
// the job, processing in the background, and retrying failed rows.
type ImportService struct {
	store     *store.Store
	storage   files.Storage
	events    *EventService
	processor *csvimport.Processor
	maxRows   int
	logger    *slog.Logger
	indexer   GuestIndexer
	activity  ActivityBroadcaster

	// background runs a function asynchronously; tests replace it to
	// run imports inline.
	background func(func())
}

// SetGuestIndexer wires the search index; imported guests are indexed
// in bulk once their job lands.
func (s *ImportService) SetGuestIndexer(indexer GuestIndexer) {
	s.indexer = indexer
}

// SetActivityBroadcaster wires the live activity stream; optional.
func (s *ImportService) SetActivityBroadcaster(activity ActivityBroadcaster) {
	s.activity = activity
}

// NewImportService creates a new import service.
func NewImportService(
	s *store.Store,
	storage files.Storage,
	events *EventService,
	policy csvimport.PhonePolicy,
	maxRows int,
	logger *slog.Logger,
) *ImportService {
	return &ImportService{
		store:      s,
		storage:    storage,
		events:     events,
		processor:  csvimport.NewProcessor(s, logger, policy),
		maxRows:    maxRows,
		logger:     logger,
		background: func(fn func()) { go fn() },
	}
}

// StartFileImport stages an uploaded CSV, creates a job, and processes
// it in the background. Returns the job immediately for polling.
func (s *ImportService) StartFileImport(ctx context.Context, userID, eventID string, data []byte) (*domain.ImportJob, error) {
	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, domainerrors.BadRequest("empty upload")
	}

	fileKey := files.NewKey("imports", "guests.csv")
	if err := s.storage.Save(ctx, fileKey, data); err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}

	job, err := s.createJob(ctx, userID, eventID, fileKey)
	if err != nil {
		return nil, err
	}

	s.background(func() {
		rows := csvimport.FileRows(bytes.NewReader(data), s.maxRows)
		s.runJob(job, rows)

		// The staged file has served its purpose once the job is
		// terminal; removal is best-effort.
		if err := s.storage.Delete(context.Background(), fileKey); err != nil {
			s.logger.Warn("failed to delete staged import file", "key", fileKey, "error", err)
		}
	})

	return job, nil
}

// StartRowsImport creates a job over rows posted as JSON and processes
// it in the background.
func (s *ImportService) StartRowsImport(ctx context.Context, userID, eventID string, rawRows []map[string]string) (*domain.ImportJob, error) {
	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}
	if len(rawRows) == 0 {
		return nil, domainerrors.BadRequest("no rows to import")
	}

	job, err := s.createJob(ctx, userID, eventID, "")
	if err != nil {
		return nil, err
	}

	s.background(func() {
		s.runJob(job, csvimport.MapRows(rawRows, s.maxRows))
	})

	return job, nil
}

// Retry creates a new job that reprocesses exactly the failed rows of a
// finished job. The source job is never mutated.
func (s *ImportService) Retry(ctx context.Context, userID, eventID, jobID string) (*domain.ImportJob, error) {
	source, err := s.Get(ctx, userID, eventID, jobID)
	if err != nil {
		return nil, err
	}

	if !source.CanRetry() {
		if !source.Status.IsTerminal() {
			return nil, domainerrors.Conflict("import is still running")
		}
		return nil, domainerrors.BadRequest("no failed rows to retry")
	}

	job, err := s.createJob(ctx, userID, eventID, domain.RetryFileKey(source.ID))
	if err != nil {
		return nil, err
	}

	s.background(func() {
		s.runJob(job, csvimport.RetryRows(source))
	})

	return job, nil
}

// Get returns an import job for polling.
func (s *ImportService) Get(ctx context.Context, userID, eventID, jobID string) (*domain.ImportJob, error) {
	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}

	job, err := s.store.GetImportJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrImportJobNotFound) {
			return nil, domainerrors.NotFound("import job not found")
		}
		return nil, fmt.Errorf("get import job: %w", err)
	}
	if job.EventID != eventID {
		return nil, domainerrors.NotFound("import job not found")
	}

	return job, nil
}

// List returns an event's import jobs, most recent first.
func (s *ImportService) List(ctx context.Context, userID, eventID string) ([]*domain.ImportJob, error) {
	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}

	jobs, err := s.store.ListImportJobsByEvent(ctx, eventID, importListLimit)
	if err != nil {
		return nil, fmt.Errorf("list import jobs: %w", err)
	}

	return jobs, nil
}

// WriteErrorReport streams a job's failed rows as a CSV report.
func (s *ImportService) WriteErrorReport(ctx context.Context, w io.Writer, userID, eventID, jobID string) error {
	job, err := s.Get(ctx, userID, eventID, jobID)
	if err != nil {
		return err
	}
	if !job.Status.IsTerminal() {
		return domainerrors.Conflict("import is still running")
	}

	return csvimport.WriteReport(w, job)
}

func (s *ImportService) createJob(ctx context.Context, userID, eventID, fileKey string) (*domain.ImportJob, error) {
	jobID, err := id.Generate("imp")
	if err != nil {
		return nil, fmt.Errorf("generate job ID: %w", err)
	}

	job := &domain.ImportJob{
		Syncable:   domain.Syncable{ID: jobID},
		EventID:    eventID,
		UploadedBy: userID,
		FileKey:    fileKey,
		Status:     domain.ImportStatusUploaded,
	}
	job.InitTimestamps()

	if err := s.store.CreateImportJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create import job: %w", err)
	}

	s.logger.Info("import job created", "job_id", job.ID, "event_id", eventID)
	return job, nil
}

// runJob drives a job to a terminal state. Runs detached from the
// request context: a client disconnect must not kill the import.
func (s *ImportService) runJob(job *domain.ImportJob, rows iter.Seq2[csvimport.Row, error]) {
	if err := s.processor.Run(context.Background(), job, rows); err != nil {
		s.logger.Error("import job aborted", "job_id", job.ID, "error", err)
		return
	}

	if s.indexer != nil && job.SuccessCount > 0 {
		s.indexer.ReindexEvent(context.Background(), job.EventID)
	}
	if s.activity != nil {
		s.activity.ImportFinished(job)
	}
}
