package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportJob_Lifecycle(t *testing.T) {
	job := &ImportJob{
		EventID:    "evt-1",
		UploadedBy: "usr-1",
		FileKey:    "imports/guests.csv",
		Status:     ImportStatusUploaded,
	}
	job.ID = "imp-1"
	job.InitTimestamps()

	require.NoError(t, job.MarkProcessing())
	assert.Equal(t, ImportStatusProcessing, job.Status)

	errorRows := []ErrorRow{
		{RowIndex: 2, Reason: "missing phone number", Row: map[string]string{"name": "Dana"}},
	}
	require.NoError(t, job.Complete(3, 2, []string{"row 2: missing phone number"}, errorRows))

	assert.Equal(t, ImportStatusDone, job.Status)
	assert.Equal(t, 3, job.TotalRows)
	assert.Equal(t, 2, job.SuccessCount)
	assert.Equal(t, 1, job.FailureCount)
	assert.True(t, job.CanRetry())
}

func TestImportJob_TerminalStatesAreFinal(t *testing.T) {
	job := &ImportJob{Status: ImportStatusProcessing}
	job.ID = "imp-2"

	require.NoError(t, job.Complete(1, 1, nil, nil))

	assert.Error(t, job.Fail("too late"))
	assert.Error(t, job.MarkProcessing())
	assert.Error(t, job.Complete(5, 5, nil, nil))
	assert.Equal(t, ImportStatusDone, job.Status)
}

func TestImportJob_FailClearsCounters(t *testing.T) {
	job := &ImportJob{Status: ImportStatusProcessing}
	job.ID = "imp-3"
	job.TotalRows = 10
	job.SuccessCount = 4

	require.NoError(t, job.Fail("csv parse error: record on line 3: wrong number of fields"))

	assert.Equal(t, ImportStatusFailed, job.Status)
	assert.Zero(t, job.TotalRows)
	assert.Zero(t, job.SuccessCount)
	assert.Zero(t, job.FailureCount)
	assert.Len(t, job.ErrorLog, 1)
	assert.Empty(t, job.ErrorRows)
	assert.False(t, job.CanRetry())
}

func TestImportStatus_IsTerminal(t *testing.T) {
	assert.False(t, ImportStatusUploaded.IsTerminal())
	assert.False(t, ImportStatusProcessing.IsTerminal())
	assert.True(t, ImportStatusDone.IsTerminal())
	assert.True(t, ImportStatusFailed.IsTerminal())
}

func TestRetryFileKey(t *testing.T) {
	assert.Equal(t, "retry_of_imp-9", RetryFileKey("imp-9"))
}
