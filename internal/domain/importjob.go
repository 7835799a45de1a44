package domain

import "fmt"

// ImportStatus represents the lifecycle state of a guest list import.
// Jobs move uploaded -> processing -> done | failed; done and failed are
// terminal and mutually exclusive.
type ImportStatus string

const (
	ImportStatusUploaded   ImportStatus = "uploaded"
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusDone       ImportStatus = "done"
	ImportStatusFailed     ImportStatus = "failed"
)

// IsTerminal reports whether the status is final.
func (s ImportStatus) IsTerminal() bool {
	return s == ImportStatusDone || s == ImportStatusFailed
}

// ErrorRow captures one rejected row with enough context to fix and
// resubmit it. Row holds the normalized-key column values of the source
// row, including columns that did not map to a guest field.
type ErrorRow struct {
	RowIndex int               `json:"row_index"` // 1-based
	Reason   string            `json:"reason"`
	Row      map[string]string `json:"row"`
}

// ImportJob tracks one asynchronous guest list import for an event.
// Clients poll it until the status turns terminal.
type ImportJob struct {
	Syncable
	EventID    string       `json:"event_id"`
	UploadedBy string       `json:"uploaded_by"`
	FileKey    string       `json:"file_key"`
	Status     ImportStatus `json:"status"`

	// Populated when the job reaches a terminal state.
	TotalRows    int        `json:"total_rows"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	ErrorLog     []string   `json:"error_log,omitempty"`
	ErrorRows    []ErrorRow `json:"error_rows,omitempty"`
}

// RetryFileKey names the synthetic file key recorded on retry jobs.
func RetryFileKey(sourceJobID string) string {
	return "retry_of_" + sourceJobID
}

// MarkProcessing transitions the job into the processing state.
func (j *ImportJob) MarkProcessing() error {
	if j.Status.IsTerminal() {
		return fmt.Errorf("import job %s is already %s", j.ID, j.Status)
	}
	j.Status = ImportStatusProcessing
	j.Touch()
	return nil
}

// Complete transitions the job to done with its final counters.
func (j *ImportJob) Complete(totalRows, successCount int, errorLog []string, errorRows []ErrorRow) error {
	if j.Status.IsTerminal() {
		return fmt.Errorf("import job %s is already %s", j.ID, j.Status)
	}
	j.Status = ImportStatusDone
	j.TotalRows = totalRows
	j.SuccessCount = successCount
	j.FailureCount = len(errorRows)
	j.ErrorLog = errorLog
	j.ErrorRows = errorRows
	j.Touch()
	return nil
}

// Fail transitions the job to failed with a single source-level reason.
// A failed job carries no partial counters.
func (j *ImportJob) Fail(reason string) error {
	if j.Status.IsTerminal() {
		return fmt.Errorf("import job %s is already %s", j.ID, j.Status)
	}
	j.Status = ImportStatusFailed
	j.TotalRows = 0
	j.SuccessCount = 0
	j.FailureCount = 0
	j.ErrorLog = []string{reason}
	j.ErrorRows = nil
	j.Touch()
	return nil
}

// CanRetry reports whether the job has failed rows eligible for a retry.
func (j *ImportJob) CanRetry() bool {
	return j.Status.IsTerminal() && len(j.ErrorRows) > 0
}
