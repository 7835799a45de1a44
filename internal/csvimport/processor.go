package csvimport

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/hagigaapp/hagiga-server/internal/color"
	"github.com/hagigaapp/hagiga-server/internal/domain"
	"github.com/hagigaapp/hagiga-server/internal/id"
	"github.com/hagigaapp/hagiga-server/internal/normalize"
)

// Store is the slice of the persistence layer the processor writes
// through. *store.Store satisfies it.
type Store interface {
	UpdateImportJob(ctx context.Context, job *domain.ImportJob) error
	CreateParticipant(ctx context.Context, p *domain.Participant) error
}

// Processor runs an import job over a row source: each row is
// normalized, validated, and persisted as a participant. Failed rows
// are recorded on the job but never abort the batch; only a broken row
// source fails the job as a whole.
type Processor struct {
	store  Store
	logger *slog.Logger
	policy PhonePolicy
}

// NewProcessor creates a processor that persists through the given
// store and validates phones under the given policy.
func NewProcessor(s Store, logger *slog.Logger, policy PhonePolicy) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		store:  s,
		logger: logger.With("component", "csvimport"),
		policy: policy,
	}
}

// Run consumes the row source and drives the job to a terminal state.
// The returned error is non-nil only for infrastructure failures
// (persisting the job itself); row-level and source-level failures are
// recorded on the job.
func (p *Processor) Run(ctx context.Context, job *domain.ImportJob, rows iter.Seq2[Row, error]) error {
	if err := job.MarkProcessing(); err != nil {
		return err
	}
	if err := p.store.UpdateImportJob(ctx, job); err != nil {
		return fmt.Errorf("mark job processing: %w", err)
	}

	var (
		total     int
		success   int
		errorLog  []string
		errorRows []domain.ErrorRow
	)

	recordFailure := func(index int, reason string, row Row) {
		errorLog = append(errorLog, fmt.Sprintf("row %d: %s", index, reason))
		errorRows = append(errorRows, domain.ErrorRow{
			RowIndex: index,
			Reason:   reason,
			Row:      map[string]string(row),
		})
	}

	for row, err := range rows {
		if err != nil {
			return p.fail(ctx, job, err.Error())
		}
		if ctx.Err() != nil {
			return p.fail(ctx, job, "import canceled")
		}

		total++
		index := total

		guest := Normalize(row)
		if err := Validate(guest, p.policy); err != nil {
			recordFailure(index, err.Error(), row)
			continue
		}

		if err := p.persist(ctx, job, index, guest); err != nil {
			// Persistence failures (duplicate phone, write errors) are
			// row failures like any other; earlier rows are already
			// committed, so the batch carries on.
			recordFailure(index, err.Error(), row)
			continue
		}

		success++
	}

	if err := job.Complete(total, success, errorLog, errorRows); err != nil {
		return err
	}
	if err := p.store.UpdateImportJob(ctx, job); err != nil {
		return fmt.Errorf("complete job: %w", err)
	}

	p.logger.Info("import finished",
		"job_id", job.ID,
		"event_id", job.EventID,
		"total", total,
		"success", success,
		"failed", total-success)

	return nil
}

func (p *Processor) persist(ctx context.Context, job *domain.ImportJob, index int, guest domain.GuestRow) error {
	participantID, err := id.Generate("prt")
	if err != nil {
		return err
	}

	participant := &domain.Participant{
		Syncable:     domain.Syncable{ID: participantID},
		EventID:      job.EventID,
		Name:         guest.Name,
		LastName:     guest.LastName,
		Phone:        normalize.Phone(guest.Phone),
		NumAttendees: guest.NumAttendees,
		Status:       domain.ParticipantStatusInvited,
		ImportMeta: &domain.ImportMeta{
			JobID:    job.ID,
			RowIndex: index,
		},
	}
	participant.AvatarColor = color.ForName(participant.DisplayName())
	participant.InitTimestamps()

	return p.store.CreateParticipant(ctx, participant)
}

func (p *Processor) fail(ctx context.Context, job *domain.ImportJob, reason string) error {
	p.logger.Warn("import failed", "job_id", job.ID, "event_id", job.EventID, "reason", reason)

	if err := job.Fail(reason); err != nil {
		return err
	}
	if err := p.store.UpdateImportJob(ctx, job); err != nil {
		return fmt.Errorf("mark job failed: %w", err)
	}
	return nil
}
